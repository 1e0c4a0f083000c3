package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apela812/server-stat-TG/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(id string) *ClientConnection {
	return &ClientConnection{ID: id, Send: make(chan WebSocketMessage, 64)}
}

func TestWebSocketHubBroadcastsStatus(t *testing.T) {
	collector := &stubCollector{status: &models.StatusSnapshot{
		CPU:    &models.CPUStats{Percent: 10},
		RAM:    &models.RAMStats{Percent: 20},
		System: &models.SystemInfo{Hostname: "srv"},
	}}
	hub := NewWebSocketHub(collector, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newTestClient("a")
	require.True(t, hub.Register(client))

	select {
	case msg := <-client.Send:
		assert.Equal(t, "status", msg.Type)
		assert.NotNil(t, msg.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("no status broadcast")
	}

	assert.True(t, hub.SendMessage("a", WebSocketMessage{Type: "pong"}))
	assert.False(t, hub.SendMessage("nobody", WebSocketMessage{Type: "pong"}))

	hub.Unregister("a")
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestWebSocketHubSkipsCollectionWithoutClients(t *testing.T) {
	collector := &stubCollector{status: &models.StatusSnapshot{}}
	hub := NewWebSocketHub(collector, 5*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
	assert.Equal(t, int32(0), collector.statusCalls.Load())
}

func TestWebSocketHubReportsCollectionErrors(t *testing.T) {
	collector := &stubCollector{err: errors.New("boom")}
	hub := NewWebSocketHub(collector, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := newTestClient("b")
	require.True(t, hub.Register(client))

	select {
	case msg := <-client.Send:
		assert.Equal(t, "error", msg.Type)
		assert.Equal(t, "status unavailable", msg.Error)
	case <-time.After(2 * time.Second):
		t.Fatal("no error message")
	}
}

func TestWebSocketHubStop(t *testing.T) {
	hub := NewWebSocketHub(&stubCollector{}, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newTestClient("c")
	require.True(t, hub.Register(client))

	cancel()
	<-stopped

	_, open := <-client.Send
	assert.False(t, open, "send channel is closed on shutdown")
	assert.False(t, hub.Register(newTestClient("late")))
	hub.Unregister("c")
}
