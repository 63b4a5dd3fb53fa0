package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticRegistry(t *testing.T) {
	r := newStaticRegistry(map[string]NamespaceConfig{
		"chat": {},
		"dark": {Offline: "on"},
	})

	ns, ok := r.Lookup("chat")
	require.True(t, ok)
	assert.Equal(t, "chat", ns.Name)
	assert.NotEqual(t, "on", ns.Offline)

	ns, ok = r.Lookup("dark")
	require.True(t, ok)
	assert.Equal(t, "on", ns.Offline)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)

	// Close on a static registry is a no-op.
	r.Close()
}
