package builtin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"remindbot/commands"
	"remindbot/models"
	"remindbot/services/timers"
)

// Timer dispatches the start, list and delete subcommands
func Timer(ctx context.Context, inv *commands.Invocation, args string) error {
	subcommand, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(subcommand) {
	case "start":
		return startTimer(ctx, inv, rest)
	case "list":
		return listTimers(ctx, inv)
	case "delete":
		if rest == "" {
			return inv.Reply(ctx, inv.T("timer/help"))
		}
		return deleteTimer(ctx, inv, rest)
	default:
		return inv.Reply(ctx, inv.T("timer/help"))
	}
}

func startTimer(ctx context.Context, inv *commands.Invocation, name string) error {
	timer, err := inv.Services.Timers.StartTimer(ctx, inv.Owner(), name)
	switch {
	case errors.Is(err, timers.ErrTooManyTimers):
		return inv.Reply(ctx, inv.T("timer/limit", "limit", strconv.Itoa(timers.MaxTimersPerOwner)))
	case errors.Is(err, timers.ErrNameTooLong):
		return inv.Reply(ctx, inv.T("timer/name_length"))
	case err != nil:
		return err
	}

	return inv.Reply(ctx, inv.T("timer/started", "name", timer.Name))
}

func listTimers(ctx context.Context, inv *commands.Invocation) error {
	owned, err := inv.Services.Timers.ListTimers(ctx, inv.Owner())
	if err != nil {
		return err
	}
	if len(owned) == 0 {
		return inv.Reply(ctx, inv.T("timer/no_timers"))
	}

	now := inv.Now()
	lines := make([]string, 0, len(owned))
	for _, timer := range owned {
		elapsed := timers.FormatElapsed(now.Sub(timer.StartTime))
		lines = append(lines, inv.T("timer/list_entry", "name", timer.Name, "elapsed", elapsed))
	}

	return inv.ReplyEmbed(ctx, models.Embed{
		Title:       inv.T("timer/list_title"),
		Description: strings.Join(lines, "\n"),
		Color:       ThemeColor,
	})
}

func deleteTimer(ctx context.Context, inv *commands.Invocation, name string) error {
	deleted, err := inv.Services.Timers.DeleteTimer(ctx, inv.Owner(), name)
	if err != nil {
		return err
	}
	if !deleted {
		return inv.Reply(ctx, inv.T("timer/not_found", "name", name))
	}
	return inv.Reply(ctx, inv.T("timer/deleted", "name", name))
}
