package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"remindbot/models"
)

// DiscordClient implements the clients.Gateway interface on top of a discordgo session
type DiscordClient struct {
	session *discordgo.Session
}

func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{session: session}
}

func (c *DiscordClient) SendText(ctx context.Context, channelID, text string) error {
	_, err := c.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

func (c *DiscordClient) SendEmbed(ctx context.Context, channelID string, embed models.Embed) error {
	messageEmbed := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}
	if embed.Footer != "" {
		messageEmbed.Footer = &discordgo.MessageEmbedFooter{Text: embed.Footer}
	}

	_, err := c.session.ChannelMessageSendEmbed(channelID, messageEmbed, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

func (c *DiscordClient) OpenDMChannel(ctx context.Context, userID string) (string, error) {
	channel, err := c.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to open dm channel for user %s: %w", userID, err)
	}
	if channel == nil {
		return "", fmt.Errorf("no dm channel returned for user %s", userID)
	}
	return channel.ID, nil
}

func (c *DiscordClient) MemberCanManageGuild(ctx context.Context, channelID, userID string) (bool, error) {
	permissions, err := c.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to get permissions of user %s in channel %s: %w", userID, channelID, err)
	}

	return hasManageGuild(permissions), nil
}

func hasManageGuild(permissions int64) bool {
	return permissions&discordgo.PermissionAdministrator != 0 ||
		permissions&discordgo.PermissionManageGuild != 0
}
