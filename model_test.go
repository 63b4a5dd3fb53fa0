package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePushRequest(t *testing.T) {
	req, err := decodePushRequest([]byte(`{
		"namespace":"chat","room":"lobby","pushData":{"text":"hi"},
		"except":"c1","leaveMessage":true,"expire":2,
		"unknownField":"dropped"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "chat", req.Namespace)
	assert.Equal(t, "lobby", req.Room)
	assert.Equal(t, "c1", req.Except)
	assert.True(t, req.LeaveMessage)
	assert.Equal(t, 2, req.Expire)
	assert.Equal(t, map[string]any{"text": "hi"}, req.PushData)
}

func TestDecodePushRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "except not a string",
			body:    `{"namespace":"chat","room":"lobby","pushData":{},"except":5}`,
			wantMsg: "except must be string",
		},
		{
			name:    "pushData not an object",
			body:    `{"namespace":"chat","room":"lobby","pushData":[1,2]}`,
			wantMsg: "pushData can not be empty and must be an object",
		},
		{
			name:    "broken json",
			body:    `{"namespace":`,
			wantMsg: "data format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePushRequest([]byte(tt.body))
			require.Error(t, err)
			assert.True(t, isAPIError(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestPushMessageFields(t *testing.T) {
	m := &PushMessage{
		PushRequest: PushRequest{
			Namespace:    "chat",
			Room:         "lobby",
			PushData:     map[string]any{"text": "hi"},
			LeaveMessage: true,
		},
		ID:       7,
		SendDate: 1700000000000,
	}
	m.Expire = 24

	fields, err := m.fields()
	require.NoError(t, err)
	assert.Equal(t, int64(7), fields["id"])
	assert.Equal(t, "chat", fields["namespace"])
	assert.Equal(t, "true", fields["leaveMessage"])
	assert.JSONEq(t, `{"text":"hi"}`, fields["pushData"].(string))
	assert.Equal(t, 0, fields["ackCount"])
}
