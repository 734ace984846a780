package models

import (
	"time"
)

// MessageEvent is an inbound chat message as delivered by the gateway
type MessageEvent struct {
	MessageID   string
	AuthorID    string
	AuthorName  string
	AuthorIsBot bool
	ChannelID   string
	ChannelName string
	// GuildID and GuildName are empty for direct messages
	GuildID   string
	GuildName string
	Content   string
	Timestamp time.Time
}

func (e MessageEvent) IsDirect() bool {
	return e.GuildID == ""
}

func (e MessageEvent) Author() Author {
	return Author{ID: e.AuthorID, Name: e.AuthorName, IsBot: e.AuthorIsBot}
}

func (e MessageEvent) Channel() ChannelRef {
	return ChannelRef{ID: e.ChannelID, GuildID: e.GuildID, Name: e.ChannelName}
}

// Embed is a rich response rendered by the gateway client
type Embed struct {
	Title       string
	Description string
	Color       int
	Footer      string
}
