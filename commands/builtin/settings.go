package builtin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"remindbot/commands"
	"remindbot/services/identity"
	"remindbot/services/prefixes"
)

func Prefix(ctx context.Context, inv *commands.Invocation, args string) error {
	newPrefix := strings.TrimSpace(args)
	if newPrefix == "" {
		return inv.Reply(ctx, inv.T("prefix/no_argument"))
	}

	err := inv.Services.Prefixes.SetPrefix(ctx, inv.Event.GuildID, inv.Event.GuildName, newPrefix)
	if errors.Is(err, prefixes.ErrInvalidPrefix) {
		return inv.Reply(ctx, inv.T("prefix/too_long"))
	}
	if err != nil {
		return err
	}

	return inv.Reply(ctx, inv.T("prefix/success", "new_prefix", newPrefix))
}

// Blacklist toggles whether commands are accepted in the current channel
func Blacklist(ctx context.Context, inv *commands.Invocation, args string) error {
	blacklisted := !inv.Channel.Blacklisted
	if err := inv.Services.Blacklist.SetBlacklisted(ctx, inv.Event.Channel(), blacklisted); err != nil {
		return err
	}

	if blacklisted {
		return inv.Reply(ctx, inv.T("blacklist/added"))
	}
	return inv.Reply(ctx, inv.T("blacklist/removed"))
}

func Timezone(ctx context.Context, inv *commands.Invocation, args string) error {
	timezone := strings.TrimSpace(args)
	if timezone == "" {
		return inv.Reply(ctx, inv.T("timezone/no_argument", "timezone", inv.User.Timezone))
	}

	err := inv.Services.Identity.SetTimezone(ctx, inv.User.ExternalID, timezone)
	if errors.Is(err, identity.ErrInvalidTimezone) {
		return inv.Reply(ctx, inv.T("timezone/no_timezone"))
	}
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load stored timezone: %w", err)
	}
	now := inv.Now().In(loc).Format(inv.User.Meridian().TimeFormat())
	return inv.Reply(ctx, inv.T("timezone/set", "timezone", timezone, "time", now))
}

func Lang(ctx context.Context, inv *commands.Invocation, args string) error {
	language := strings.ToLower(strings.TrimSpace(args))

	err := inv.Services.Identity.SetLanguage(ctx, inv.User.ExternalID, language)
	if errors.Is(err, identity.ErrUnsupportedLanguage) {
		languages := strings.Join(inv.Strings.Languages(), ", ")
		return inv.Reply(ctx, inv.T("lang/invalid", "languages", languages))
	}
	if err != nil {
		return err
	}

	// confirm in the language just chosen
	return inv.Reply(ctx, inv.Strings.Format(language, "lang/set", "prefix", inv.Prefix))
}

// Meridian toggles between 12 and 24 hour display
func Meridian(ctx context.Context, inv *commands.Invocation, args string) error {
	twelveHour := !inv.User.MeridianTime
	if err := inv.Services.Identity.SetMeridian(ctx, inv.User.ExternalID, twelveHour); err != nil {
		return err
	}

	if twelveHour {
		return inv.Reply(ctx, inv.T("meridian/twelve"))
	}
	return inv.Reply(ctx, inv.T("meridian/twenty_four"))
}

// Pause without arguments toggles an indefinite pause of the channel; with a duration such
// as "1h30m" it pauses until then
func Pause(ctx context.Context, inv *commands.Invocation, args string) error {
	now := inv.Now()
	channel := inv.Event.Channel()
	arg := strings.TrimSpace(args)

	if arg == "" {
		if inv.Channel.IsPausedAt(now) {
			if err := inv.Services.Identity.SetPaused(ctx, channel, false, nil); err != nil {
				return err
			}
			return inv.Reply(ctx, inv.T("pause/unpaused"))
		}

		if err := inv.Services.Identity.SetPaused(ctx, channel, true, nil); err != nil {
			return err
		}
		return inv.Reply(ctx, inv.T("pause/paused_indefinite"))
	}

	duration, err := time.ParseDuration(arg)
	if err != nil || duration <= 0 {
		return inv.Reply(ctx, inv.T("pause/invalid_duration"))
	}

	until := now.Add(duration)
	if err := inv.Services.Identity.SetPaused(ctx, channel, true, &until); err != nil {
		return err
	}

	loc, err := inv.User.Location()
	if err != nil {
		return err
	}
	formatted := until.In(loc).Format(inv.User.Meridian().DateTimeFormat())
	return inv.Reply(ctx, inv.T("pause/paused_until", "time", formatted))
}
