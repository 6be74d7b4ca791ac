package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVersions struct {
	version atomic.Int64
	err     error
}

func (s *stubVersions) GetLeaderboardVersion(ctx context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.version.Load(), nil
}

func decode(t *testing.T, raw []byte) VersionUpdate {
	t.Helper()
	var msg VersionUpdate
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestBroadcastOnlyOnVersionChange(t *testing.T) {
	versions := &stubVersions{}
	versions.version.Store(3)
	hub := NewHub(versions)
	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.clients[client] = true
	hub.lastVersion = 3

	hub.checkAndBroadcastVersion(context.Background())
	assert.Len(t, client.send, 0)

	versions.version.Store(4)
	hub.checkAndBroadcastVersion(context.Background())
	require.Len(t, client.send, 1)
	msg := decode(t, <-client.send)
	assert.Equal(t, MessageVersionUpdate, msg.Type)
	assert.Equal(t, int64(4), msg.Version)
}

func TestBroadcastSkipsOnSourceError(t *testing.T) {
	hub := NewHub(&stubVersions{err: errors.New("redis down")})
	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[client] = true

	hub.checkAndBroadcastVersion(context.Background())
	assert.Len(t, client.send, 0)
}

func TestBroadcastSkipsFullBuffers(t *testing.T) {
	versions := &stubVersions{}
	versions.version.Store(1)
	hub := NewHub(versions)
	slow := &Client{hub: hub, send: make(chan []byte)}
	fast := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.clients[slow] = true
	hub.clients[fast] = true

	hub.checkAndBroadcastVersion(context.Background())
	assert.Len(t, fast.send, 1)
}

func TestRunRegistersAndPrimesClients(t *testing.T) {
	versions := &stubVersions{}
	versions.version.Store(7)
	hub := NewHub(versions)
	hub.interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 4)}
	hub.register <- client

	select {
	case raw := <-client.send:
		assert.Equal(t, int64(7), decode(t, raw).Version)
	case <-time.After(time.Second):
		t.Fatal("new client did not receive the current version")
	}
	assert.Equal(t, 1, hub.GetClientCount())

	hub.unregister <- client
	cancel()
	<-stopped

	assert.Equal(t, 0, hub.GetClientCount())
	_, open := <-client.send
	assert.False(t, open)
}
