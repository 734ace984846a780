package middleware

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"remindbot/core/log"
	"remindbot/models"
)

const alertColor = 0xd9534f

type AlertConfig struct {
	// WebhookURL is a Discord webhook; alerts are disabled when empty
	WebhookURL  string
	Environment string
	AppName     string
}

// ErrorAlertMiddleware recovers panics in message handlers and HTTP handlers, logs them and
// posts a deduplicated alert to a Discord webhook
type ErrorAlertMiddleware struct {
	config        AlertConfig
	httpClient    *http.Client
	alertedErrors map[string]time.Time // hash -> last alert time
	mutex         sync.Mutex
	alertCooldown time.Duration
	inFlight      sync.WaitGroup
}

func NewErrorAlertMiddleware(config AlertConfig) *ErrorAlertMiddleware {
	return &ErrorAlertMiddleware{
		config:        config,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		alertedErrors: make(map[string]time.Time),
		alertCooldown: 10 * time.Minute,
	}
}

// HTTPMiddleware wraps HTTP handlers
func (m *ErrorAlertMiddleware) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer m.recoverAndAlert(fmt.Sprintf("HTTP %s %s", r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

// WrapMessageHandler isolates a panic in one message from the worker running it
func (m *ErrorAlertMiddleware) WrapMessageHandler(
	handler func(context.Context, models.MessageEvent),
) func(context.Context, models.MessageEvent) {
	return func(ctx context.Context, event models.MessageEvent) {
		defer m.recoverAndAlert(fmt.Sprintf("message %s in channel %s", event.MessageID, event.ChannelID))
		handler(ctx, event)
	}
}

// Wait blocks until alerts that are being sent have finished
func (m *ErrorAlertMiddleware) Wait() {
	m.inFlight.Wait()
}

func (m *ErrorAlertMiddleware) recoverAndAlert(context string) {
	if r := recover(); r != nil {
		errorMsg := fmt.Sprintf("%s: PANIC - %v", context, r)
		log.Error("❌ Recovered from panic", "context", context, "panic", r)
		m.alertOnce(errorMsg, context+" (PANIC)")
	}
}

// alertOnce sends the alert unless the same message was alerted within the cooldown
func (m *ErrorAlertMiddleware) alertOnce(errorMsg, context string) {
	if m.config.WebhookURL == "" {
		return
	}

	hash := fmt.Sprintf("%x", md5.Sum([]byte(errorMsg)))

	m.mutex.Lock()
	if lastAlert, exists := m.alertedErrors[hash]; exists && time.Since(lastAlert) < m.alertCooldown {
		m.mutex.Unlock()
		return
	}
	m.alertedErrors[hash] = time.Now()
	m.mutex.Unlock()

	m.inFlight.Add(1)
	go func() {
		defer m.inFlight.Done()
		m.sendDiscordAlert(errorMsg, context)
	}()
}

func (m *ErrorAlertMiddleware) sendDiscordAlert(errorMsg, context string) {
	title := fmt.Sprintf("🚨 [%s] Error Alert", m.config.AppName)
	if m.config.Environment == "dev" {
		title = "[dev] " + title
	}

	payload := discordgo.WebhookParams{
		Username: m.config.AppName,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       title,
				Description: fmt.Sprintf("```%s```", errorMsg),
				Color:       alertColor,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Service", Value: m.config.AppName, Inline: true},
					{Name: "Environment", Value: m.config.Environment, Inline: true},
					{Name: "Context", Value: context},
				},
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Error("❌ Failed to encode alert", "error", err)
		return
	}

	resp, err := m.httpClient.Post(m.config.WebhookURL, "application/json", bytes.NewReader(payloadBytes))
	if err != nil {
		log.Error("❌ Failed to send Discord alert", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		log.Error("❌ Discord alert failed", "status", resp.StatusCode)
	}
}
