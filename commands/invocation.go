package commands

import (
	"context"
	"time"

	"remindbot/clients"
	"remindbot/i18n"
	"remindbot/models"
	"remindbot/services"
)

// Services are the stateful collaborators available to handlers
type Services struct {
	Prefixes  services.PrefixesService
	Blacklist services.BlacklistService
	Identity  services.IdentityService
	Timers    services.TimersService
}

// Invocation is everything a handler needs to act on one matched message
type Invocation struct {
	Event   models.MessageEvent
	Spec    *CommandSpec
	User    *models.User
	Channel *models.Channel
	// Prefix is the prefix in effect where the message was sent
	Prefix string

	Gateway      clients.Gateway
	Strings      *i18n.Catalog
	Services     Services
	Now          func() time.Time
	DashboardURL string
}

// T returns the response string for key in the user's language with {prefix} and the given
// placeholder pairs substituted.
func (inv *Invocation) T(key string, replacements ...string) string {
	pairs := append([]string{"prefix", inv.Prefix}, replacements...)
	return inv.Strings.Format(inv.User.Language, key, pairs...)
}

func (inv *Invocation) Reply(ctx context.Context, text string) error {
	return inv.Gateway.SendText(ctx, inv.Event.ChannelID, text)
}

func (inv *Invocation) ReplyEmbed(ctx context.Context, embed models.Embed) error {
	return inv.Gateway.SendEmbed(ctx, inv.Event.ChannelID, embed)
}

// Owner is the scope that owns per-conversation resources such as timers:
// the guild in a server, the user in direct messages.
func (inv *Invocation) Owner() string {
	if inv.Event.IsDirect() {
		return inv.Event.AuthorID
	}
	return inv.Event.GuildID
}
