package clients

import (
	"context"

	"remindbot/models"
)

// Gateway is the outbound side of the chat platform used by command handlers
type Gateway interface {
	SendText(ctx context.Context, channelID, text string) error
	SendEmbed(ctx context.Context, channelID string, embed models.Embed) error
	// OpenDMChannel returns the id of the direct message channel with the user, opening it if needed
	OpenDMChannel(ctx context.Context, userID string) (string, error)
	// MemberCanManageGuild reports whether the user holds Manage Server (or Administrator)
	// in the guild owning the channel
	MemberCanManageGuild(ctx context.Context, channelID, userID string) (bool, error)
}
