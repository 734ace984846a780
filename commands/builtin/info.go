package builtin

import (
	"context"
	"strings"

	"remindbot/commands"
	"remindbot/models"
)

func Help(ctx context.Context, inv *commands.Invocation, args string) error {
	return inv.ReplyEmbed(ctx, models.Embed{
		Title:       inv.T("help/title"),
		Description: inv.T("help/body"),
		Color:       ThemeColor,
	})
}

func Info(ctx context.Context, inv *commands.Invocation, args string) error {
	return inv.ReplyEmbed(ctx, models.Embed{
		Title:       inv.T("info/title"),
		Description: inv.T("info/body", "default_prefix", inv.Services.Prefixes.DefaultPrefix()),
		Color:       ThemeColor,
	})
}

func Donate(ctx context.Context, inv *commands.Invocation, args string) error {
	return inv.ReplyEmbed(ctx, models.Embed{
		Title:       inv.T("donate/title"),
		Description: inv.T("donate/body"),
		Color:       ThemeColor,
	})
}

func Dashboard(ctx context.Context, inv *commands.Invocation, args string) error {
	return inv.ReplyEmbed(ctx, models.Embed{
		Title:       inv.T("dashboard/title"),
		Description: inv.T("dashboard/body", "url", inv.DashboardURL),
		Color:       ThemeColor,
	})
}

// Clock replies with the current time in the user's timezone, in 12 hour format when the
// argument is "12"
func Clock(ctx context.Context, inv *commands.Invocation, args string) error {
	loc, err := inv.User.Location()
	if err != nil {
		return err
	}

	format := models.Meridian(false).TimeFormat()
	if strings.TrimSpace(args) == "12" {
		format = models.Meridian(true).TimeFormat()
	}

	now := inv.Now().In(loc)
	return inv.Reply(ctx, inv.T("clock/time", "time", now.Format(format)))
}
