package dispatch

import (
	"context"
	"time"

	"remindbot/clients"
	"remindbot/commands"
	"remindbot/core/log"
	"remindbot/i18n"
	"remindbot/models"
	"remindbot/services"
)

// PermissionGuard decides whether a command may run in a channel
type PermissionGuard interface {
	IsPermitted(ctx context.Context, channelID string, spec *commands.CommandSpec) (bool, error)
}

type Config struct {
	IgnoreBots   bool
	DashboardURL string
}

// Dispatcher routes inbound messages to command handlers. Each message is handled
// independently; failures are logged and never affect other messages.
type Dispatcher struct {
	registry         *commands.Registry
	prefixesService  services.PrefixesService
	guard            PermissionGuard
	blacklistService services.BlacklistService
	identityService  services.IdentityService
	timersService    services.TimersService
	gateway          clients.Gateway
	strings          *i18n.Catalog
	config           Config
	now              func() time.Time
}

func NewDispatcher(
	registry *commands.Registry,
	prefixesService services.PrefixesService,
	guard PermissionGuard,
	blacklistService services.BlacklistService,
	identityService services.IdentityService,
	timersService services.TimersService,
	gateway clients.Gateway,
	catalog *i18n.Catalog,
	config Config,
) *Dispatcher {
	return &Dispatcher{
		registry:         registry,
		prefixesService:  prefixesService,
		guard:            guard,
		blacklistService: blacklistService,
		identityService:  identityService,
		timersService:    timersService,
		gateway:          gateway,
		strings:          catalog,
		config:           config,
		now:              time.Now,
	}
}

// WithClock replaces the time source handed to handlers
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// OnMessage runs the command contained in the message, if any
func (d *Dispatcher) OnMessage(ctx context.Context, event models.MessageEvent) {
	// Step 1: Skip other bots
	if d.config.IgnoreBots && event.AuthorIsBot {
		return
	}

	// Step 2: Resolve the prefix of the originating guild
	prefix, err := d.prefixesService.Resolve(ctx, event.GuildID)
	if err != nil {
		log.Error("❌ Failed to resolve prefix", "guild_id", event.GuildID, "message_id", event.MessageID, "error", err)
		return
	}

	// Step 3: Match against the registry
	match, ok := d.registry.Match(prefix, event.Content).Get()
	if !ok {
		return
	}
	spec := match.Spec

	log.Info("📋 Starting to dispatch command",
		"command", spec.Name, "user_id", event.AuthorID, "channel_id", event.ChannelID, "guild_id", event.GuildID)

	// Step 4: Blacklist gate, silent on denial
	permitted, err := d.guard.IsPermitted(ctx, event.ChannelID, spec)
	if err != nil {
		log.Error("❌ Failed to check channel permission", "command", spec.Name, "channel_id", event.ChannelID, "error", err)
		return
	}
	if !permitted {
		log.Debug("🔍 Command denied in blacklisted channel", "command", spec.Name, "channel_id", event.ChannelID)
		return
	}

	// Step 5: Load the acting identity
	user, err := d.identityService.LoadUser(ctx, event.Author())
	if err != nil {
		log.Error("❌ Failed to load user", "command", spec.Name, "user_id", event.AuthorID, "error", err)
		return
	}
	channel, err := d.identityService.LoadChannel(ctx, event.Channel())
	if err != nil {
		log.Error("❌ Failed to load channel", "command", spec.Name, "channel_id", event.ChannelID, "error", err)
		return
	}

	inv := &commands.Invocation{
		Event:   event,
		Spec:    spec,
		User:    user,
		Channel: channel,
		Prefix:  prefix,
		Gateway: d.gateway,
		Strings: d.strings,
		Services: commands.Services{
			Prefixes:  d.prefixesService,
			Blacklist: d.blacklistService,
			Identity:  d.identityService,
			Timers:    d.timersService,
		},
		Now:          d.now,
		DashboardURL: d.config.DashboardURL,
	}

	// Step 6: Guild management commands need Manage Server
	if spec.RequireManageGuild {
		allowed, err := d.canManageGuild(ctx, inv)
		if err != nil {
			log.Error("❌ Failed to check member permissions", "command", spec.Name, "user_id", event.AuthorID, "error", err)
			return
		}
		if !allowed {
			return
		}
	}

	// Step 7: Run the handler
	if err := spec.Handler(ctx, inv, match.Args); err != nil {
		log.Error("❌ Command handler failed", "command", spec.Name, "user_id", event.AuthorID, "error", err)
		return
	}

	log.Info("📋 Completed successfully - dispatched command", "command", spec.Name, "user_id", event.AuthorID)
}

// canManageGuild replies with the reason when the author may not run the command
func (d *Dispatcher) canManageGuild(ctx context.Context, inv *commands.Invocation) (bool, error) {
	if inv.Event.IsDirect() {
		return false, inv.Reply(ctx, inv.T("guild_only"))
	}

	allowed, err := d.gateway.MemberCanManageGuild(ctx, inv.Event.ChannelID, inv.Event.AuthorID)
	if err != nil {
		return false, err
	}
	if !allowed {
		return false, inv.Reply(ctx, inv.T("no_perms"))
	}
	return true, nil
}
