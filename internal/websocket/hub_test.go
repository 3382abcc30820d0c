package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubClient(hub *Hub) *Client {
	return &Client{hub: hub, Send: make(chan []byte, 8)}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	a := newStubClient(hub)
	b := newStubClient(hub)
	hub.Register <- a
	hub.Register <- b

	hub.Broadcast <- []byte(`{"action":"event"}`)

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"action":"event"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := newStubClient(hub)
	hub.Register <- c
	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		require.False(t, ok, "send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// Broadcasts after unregister do not reach the client.
	hub.Broadcast <- []byte("late")
}
