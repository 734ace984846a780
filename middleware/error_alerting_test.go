package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/models"
)

func newAlertServer(t *testing.T, received *atomic.Int32, last *discordgo.WebhookParams) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(last))
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWrapMessageHandler_RecoversPanic(t *testing.T) {
	var received atomic.Int32
	var payload discordgo.WebhookParams
	server := newAlertServer(t, &received, &payload)

	m := NewErrorAlertMiddleware(AlertConfig{WebhookURL: server.URL, Environment: "prod", AppName: "remindbot"})
	handler := m.WrapMessageHandler(func(ctx context.Context, event models.MessageEvent) {
		panic("boom")
	})

	event := models.MessageEvent{MessageID: "m1", ChannelID: "c1"}
	assert.NotPanics(t, func() { handler(context.Background(), event) })
	m.Wait()

	assert.Equal(t, int32(1), received.Load())
	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "🚨 [remindbot] Error Alert", payload.Embeds[0].Title)
	assert.Contains(t, payload.Embeds[0].Description, "message m1 in channel c1: PANIC - boom")
}

func TestWrapMessageHandler_DeduplicatesAlerts(t *testing.T) {
	var received atomic.Int32
	var payload discordgo.WebhookParams
	server := newAlertServer(t, &received, &payload)

	m := NewErrorAlertMiddleware(AlertConfig{WebhookURL: server.URL, Environment: "dev", AppName: "remindbot"})
	handler := m.WrapMessageHandler(func(ctx context.Context, event models.MessageEvent) {
		panic("same failure")
	})

	event := models.MessageEvent{MessageID: "m1", ChannelID: "c1"}
	for i := 0; i < 3; i++ {
		handler(context.Background(), event)
	}
	m.Wait()

	assert.Equal(t, int32(1), received.Load())
	assert.Equal(t, "[dev] 🚨 [remindbot] Error Alert", payload.Embeds[0].Title)
}

func TestWrapMessageHandler_NoWebhookConfigured(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{})
	called := false
	handler := m.WrapMessageHandler(func(ctx context.Context, event models.MessageEvent) {
		called = true
	})

	handler(context.Background(), models.MessageEvent{})
	m.Wait()
	assert.True(t, called)

	panicking := m.WrapMessageHandler(func(ctx context.Context, event models.MessageEvent) {
		panic("ignored")
	})
	assert.NotPanics(t, func() { panicking(context.Background(), models.MessageEvent{}) })
}

func TestHTTPMiddleware_RecoversPanic(t *testing.T) {
	m := NewErrorAlertMiddleware(AlertConfig{})
	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler failure")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	})
}
