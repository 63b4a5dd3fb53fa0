package main

import (
	"encoding/json"
	"errors"
	"strconv"
)

// PushRequest is the admitted request shape. Decoding through this struct is
// the field allow-list: unknown input fields are dropped.
type PushRequest struct {
	Namespace    string         `json:"namespace"`
	Room         string         `json:"room"`
	Except       string         `json:"except,omitempty"`
	PushData     map[string]any `json:"pushData"`
	ApnsName     string         `json:"apnsName,omitempty"`
	LeaveMessage bool           `json:"leaveMessage,omitempty"`
	Extra        string         `json:"extra,omitempty"`
	From         string         `json:"from,omitempty"`
	// Expire is in hours. Zero means the configured default.
	Expire int `json:"expire,omitempty"`
}

// PushMessage is the persisted record: the request plus the fields assigned
// by the pipeline. Ack and online counters are only initialized here, they
// are maintained by the ack workers.
type PushMessage struct {
	PushRequest

	ID                int64 `json:"id"`
	SendDate          int64 `json:"sendDate"`
	AckCount          int   `json:"ackCount"`
	AckIOSCount       int   `json:"ackIOSCount"`
	AckAndroidCount   int   `json:"ackAndroidCount"`
	OnlineClientCount int   `json:"onlineClientCount"`
}

// fields flattens the record into the redis hash shape, pushData serialized
// to JSON.
func (m *PushMessage) fields() (map[string]any, error) {
	pd, err := json.Marshal(m.PushData)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"id":                m.ID,
		"namespace":         m.Namespace,
		"room":              m.Room,
		"except":            m.Except,
		"pushData":          string(pd),
		"apnsName":          m.ApnsName,
		"leaveMessage":      strconv.FormatBool(m.LeaveMessage),
		"extra":             m.Extra,
		"from":              m.From,
		"expire":            m.Expire,
		"sendDate":          m.SendDate,
		"ackCount":          m.AckCount,
		"ackIOSCount":       m.AckIOSCount,
		"ackAndroidCount":   m.AckAndroidCount,
		"onlineClientCount": m.OnlineClientCount,
	}, nil
}

// pickedMessage is the reduced publish envelope used when emit_msg_pick_key
// is on.
type pickedMessage struct {
	ID        int64          `json:"id"`
	Namespace string         `json:"namespace"`
	Room      string         `json:"room"`
	PushData  map[string]any `json:"pushData"`
	SendDate  int64          `json:"sendDate"`
}

// pushMeta is the delivery metadata published next to the envelope.
type pushMeta struct {
	Rooms  []string `json:"rooms"`
	Except string   `json:"except,omitempty"`
}

func decodePushRequest(data []byte) (*PushRequest, error) {
	req := &PushRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		var ute *json.UnmarshalTypeError
		if errors.As(err, &ute) {
			switch ute.Field {
			case "except":
				return nil, apiErrorf("except must be string")
			case "pushData":
				return nil, apiErrorf("pushData can not be empty and must be an object")
			}
			return nil, apiErrorf("%s invalid", ute.Field)
		}
		return nil, apiErrorf("data format")
	}
	return req, nil
}
