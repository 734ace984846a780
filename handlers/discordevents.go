package handlers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"remindbot/core/log"
	"remindbot/models"
)

const messageTimeout = 30 * time.Second

// MessageDispatcher handles a single inbound message
type MessageDispatcher interface {
	OnMessage(ctx context.Context, event models.MessageEvent)
}

// MessageWrapper decorates the per-message handler, e.g. with panic recovery
type MessageWrapper func(func(context.Context, models.MessageEvent)) func(context.Context, models.MessageEvent)

type DiscordEventsHandler struct {
	session *discordgo.Session
	handle  func(context.Context, models.MessageEvent)
	pool    *workerpool.WorkerPool
	baseCtx context.Context
	cancel  context.CancelFunc

	// held for reading while submitting; StopBot takes it to mark the pool closed
	stopMu  sync.RWMutex
	stopped bool
}

func NewDiscordEventsHandler(
	session *discordgo.Session,
	dispatcher MessageDispatcher,
	wrap MessageWrapper,
	workerCount int,
) *DiscordEventsHandler {
	baseCtx, cancel := context.WithCancel(context.Background())
	handler := &DiscordEventsHandler{
		session: session,
		handle:  dispatcher.OnMessage,
		pool:    workerpool.New(workerCount),
		baseCtx: baseCtx,
		cancel:  cancel,
	}
	if wrap != nil {
		handler.handle = wrap(handler.handle)
	}

	session.AddHandler(handler.handleMessageCreatedEvent)

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return handler
}

// StartBot opens the Discord connection and starts listening for events
func (h *DiscordEventsHandler) StartBot() error {
	if err := h.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Info("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot closes the Discord connection and waits for queued messages to finish
func (h *DiscordEventsHandler) StopBot() {
	if err := h.session.Close(); err != nil {
		log.Warn("⚠️ Failed to close Discord session", "error", err)
	}

	h.stopMu.Lock()
	h.stopped = true
	h.stopMu.Unlock()

	h.pool.StopWait()
	h.cancel()
	log.Info("🛑 Discord bot stopped")
}

func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	event := mapToMessageEvent(s, m)
	log.Debug("📨 Discord message received",
		"author_id", event.AuthorID, "guild_id", event.GuildID, "channel_id", event.ChannelID)

	h.Submit(event)
}

// Submit queues the event on the worker pool; messages are processed concurrently.
// Events arriving after StopBot are dropped.
func (h *DiscordEventsHandler) Submit(event models.MessageEvent) {
	h.stopMu.RLock()
	defer h.stopMu.RUnlock()

	if h.stopped {
		log.Warn("⚠️ Dropping message received during shutdown", "message_id", event.MessageID)
		return
	}

	h.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(h.baseCtx, messageTimeout)
		defer cancel()
		h.handle(ctx, event)
	})
}

func mapToMessageEvent(s *discordgo.Session, m *discordgo.MessageCreate) models.MessageEvent {
	event := models.MessageEvent{
		MessageID:   m.ID,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		AuthorIsBot: m.Author.Bot,
		ChannelID:   m.ChannelID,
		GuildID:     m.GuildID,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
	}

	if s != nil && s.State != nil {
		if channel, err := s.State.Channel(m.ChannelID); err == nil {
			event.ChannelName = channel.Name
		}
		if m.GuildID != "" {
			if guild, err := s.State.Guild(m.GuildID); err == nil {
				event.GuildName = guild.Name
			}
		}
	}

	return event
}
