package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	C_OK      = "0"
	C_INVALID = "1"
	C_FAIL    = "2"
)

func adminresp(log *zap.SugaredLogger, w http.ResponseWriter, code string, data any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(map[string]any{
		"code": code,
		"data": data,
	})
	if err != nil {
		log.Error("[ADMINRESP]marshal:", err)
		return
	}
	w.Write(body)
	log.Info("[ADMINRESP]", code, " ", string(body))
}

func (n *Node) adminPush(w http.ResponseWriter, r *http.Request) {
	log := zap.S().With("method", "adminpush")
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		adminresp(log, w, C_FAIL, "read body")
		return
	}
	log.Info("[Admin]new push:", string(body))

	req, err := decodePushRequest(body)
	if err != nil {
		metricPushRejected.Inc()
		adminresp(log, w, C_INVALID, err.Error())
		return
	}

	id, err := n.Push(r.Context(), req)
	if err != nil {
		if isAPIError(err) {
			metricPushRejected.Inc()
			adminresp(log, w, C_INVALID, err.Error())
			return
		}
		log.Error("push:", err)
		adminresp(log, w, C_FAIL, "internal error")
		return
	}
	metricPushAccepted.WithLabelValues(req.Namespace).Inc()
	adminresp(log, w, C_OK, map[string]int64{"id": id})
}

func (n *Node) adminStats(w http.ResponseWriter, r *http.Request) {
	log := zap.S().With("method", "adminstats")
	nsp := r.URL.Query().Get("namespace")
	if nsp == "" {
		adminresp(log, w, C_INVALID, "namespace can not be empty")
		return
	}
	if _, ok := n.reg.Lookup(nsp); !ok {
		adminresp(log, w, C_INVALID, "this namespace lose")
		return
	}
	s, err := n.Stats(r.Context(), nsp, time.Now())
	if err != nil {
		log.Error("stats:", err)
		adminresp(log, w, C_FAIL, "internal error")
		return
	}
	adminresp(log, w, C_OK, s)
}
