package models

import (
	"time"
)

type Channel struct {
	ID           string     `db:"id"            json:"id"`
	ExternalID   string     `db:"external_id"   json:"external_id"`
	Name         *string    `db:"name"          json:"name,omitempty"`
	GuildID      *string    `db:"guild_id"      json:"guild_id,omitempty"`
	Blacklisted  bool       `db:"blacklisted"   json:"blacklisted"`
	Paused       bool       `db:"paused"        json:"paused"`
	PausedUntil  *time.Time `db:"paused_until"  json:"paused_until,omitempty"`
	WebhookID    *string    `db:"webhook_id"    json:"webhook_id,omitempty"`
	WebhookToken *string    `db:"webhook_token" json:"-"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"    json:"updated_at"`
}

// IsPausedAt reports whether the channel is paused at the given instant. A channel paused
// without an end time stays paused until explicitly resumed.
func (c *Channel) IsPausedAt(now time.Time) bool {
	if !c.Paused {
		return false
	}
	return c.PausedUntil == nil || now.Before(*c.PausedUntil)
}

// ChannelRef identifies a channel as seen on an inbound message
type ChannelRef struct {
	ID      string
	GuildID string
	Name    string
}
