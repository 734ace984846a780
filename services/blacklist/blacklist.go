package blacklist

import (
	"context"
	"fmt"

	"remindbot/commands"
	"remindbot/core"
	"remindbot/core/log"
	"remindbot/models"
	"remindbot/services"
)

// BlacklistService decides whether a command may run in a channel
type BlacklistService struct {
	channelsRepo services.ChannelsRepository
}

func NewBlacklistService(channelsRepo services.ChannelsRepository) *BlacklistService {
	return &BlacklistService{channelsRepo: channelsRepo}
}

// IsPermitted reports whether spec may run in the channel. Exempt commands are permitted
// without touching storage; channels never seen before are not blacklisted.
func (s *BlacklistService) IsPermitted(
	ctx context.Context,
	channelID string,
	spec *commands.CommandSpec,
) (bool, error) {
	if spec != nil && spec.PermissionExempt {
		return true, nil
	}

	maybeChannel, err := s.channelsRepo.GetChannelByExternalID(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist for channel %s: %w", channelID, err)
	}

	channel, ok := maybeChannel.Get()
	if !ok {
		return true, nil
	}
	return !channel.Blacklisted, nil
}

// SetBlacklisted stores the blacklist flag of the channel, creating the channel row if needed
func (s *BlacklistService) SetBlacklisted(ctx context.Context, channel models.ChannelRef, blacklisted bool) error {
	log.Info("📋 Starting to set channel blacklist", "channel_id", channel.ID, "blacklisted", blacklisted)

	row := &models.Channel{ID: core.NewID("ch"), ExternalID: channel.ID}
	if channel.Name != "" {
		row.Name = &channel.Name
	}
	if _, err := s.channelsRepo.CreateChannelIfNotExists(ctx, row, channel.GuildID); err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	updated, err := s.channelsRepo.UpdateChannelBlacklisted(ctx, channel.ID, blacklisted)
	if err != nil {
		return fmt.Errorf("failed to set blacklist: %w", err)
	}
	if !updated {
		return fmt.Errorf("channel %s: %w", channel.ID, core.ErrNotFound)
	}

	log.Info("📋 Completed successfully - set channel blacklist", "channel_id", channel.ID, "blacklisted", blacklisted)
	return nil
}
