package cache

import (
	"context"
)

// PrefixCache maps a guild external id to its effective command prefix
type PrefixCache interface {
	// Get reports whether an entry exists for the guild
	Get(ctx context.Context, guildID string) (string, bool, error)
	// Set stores the entry, replacing any existing one
	Set(ctx context.Context, guildID, prefix string) error
	// Add stores the entry only if the guild has none, so a value read from storage cannot
	// replace a newer one written by Set in the meantime
	Add(ctx context.Context, guildID, prefix string) error
}
