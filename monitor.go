package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// serveStatsWs streams the namespace bucket counters over a websocket on the
// configured interval.
func (n *Node) serveStatsWs(w http.ResponseWriter, r *http.Request) {
	log := zap.S().With("method", "statsws")
	nsp := r.URL.Query().Get("namespace")
	if nsp == "" {
		http.Error(w, "namespace can not be empty", http.StatusBadRequest)
		return
	}
	if _, ok := n.reg.Lookup(nsp); !ok {
		http.Error(w, "this namespace lose", http.StatusNotFound)
		return
	}

	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err)
		return
	}
	if n.cfg.Client.Compression {
		conn.EnableWriteCompression(true)
		conn.SetCompressionLevel(n.cfg.Client.CompressionLevel)
	}

	done := make(chan struct{})
	go n.statsReader(conn, done)
	go n.statsWriter(conn, nsp, done)
}

// statsReader drains the connection so close and pong frames are processed.
// The application ensures there is at most one reader per connection.
func (n *Node) statsReader(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	conn.SetReadLimit(n.cfg.Client.ReadMessageSizeLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// statsWriter owns all writes on the connection: the periodic stats frame and
// the pings.
func (n *Node) statsWriter(conn *websocket.Conn, nsp string, done chan struct{}) {
	log := zap.S().With("method", "statswriter", "namespace", nsp)
	interval := n.cfg.Push.StatsInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	pinger := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		pinger.Stop()
		conn.Close()
	}()

	if err := n.writeStats(conn, nsp); err != nil {
		log.Error("write:", err)
		return
	}
	for {
		select {
		case <-ticker.C:
			if err := n.writeStats(conn, nsp); err != nil {
				log.Error("write:", err)
				return
			}
		case <-pinger.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error("WriteMessage PingMessage:", err)
				return
			}
		case <-done:
			return
		}
	}
}

func (n *Node) writeStats(conn *websocket.Conn, nsp string) error {
	s, err := n.Stats(context.Background(), nsp, time.Now())
	if err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
