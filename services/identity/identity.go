package identity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/mo"

	"remindbot/core"
	"remindbot/core/log"
	"remindbot/models"
	"remindbot/services"
)

const (
	// rereadAttempts bounds how often a row written by a concurrent request is looked for
	// before giving up
	rereadAttempts = 3
	rereadBackoff  = 10 * time.Millisecond
)

var (
	ErrInvalidTimezone     = errors.New("unknown timezone")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// DMChannelOpener opens the private channel used to reach a user
type DMChannelOpener interface {
	OpenDMChannel(ctx context.Context, userID string) (string, error)
}

type Config struct {
	DefaultLanguage string
	DefaultTimezone string
	Languages       []string
}

// IdentityService finds or creates the user and channel records an inbound message acts on.
// Creation never relies on in-process locking: concurrent first contacts race on the unique
// external ids and every caller reads back the single surviving row.
type IdentityService struct {
	usersRepo    services.UsersRepository
	channelsRepo services.ChannelsRepository
	txManager    services.TransactionManager
	dmOpener     DMChannelOpener
	config       Config
}

func NewIdentityService(
	usersRepo services.UsersRepository,
	channelsRepo services.ChannelsRepository,
	txManager services.TransactionManager,
	dmOpener DMChannelOpener,
	config Config,
) *IdentityService {
	return &IdentityService{
		usersRepo:    usersRepo,
		channelsRepo: channelsRepo,
		txManager:    txManager,
		dmOpener:     dmOpener,
		config:       config,
	}
}

func (s *IdentityService) getUser(ctx context.Context, externalID string) (mo.Option[*models.User], error) {
	return s.usersRepo.GetUserByExternalID(ctx, externalID, s.config.DefaultLanguage, s.config.DefaultTimezone)
}

// LoadUser returns the user record of the author, creating it together with its direct
// message channel on first contact. If the direct message channel cannot be opened no user
// row is written.
func (s *IdentityService) LoadUser(ctx context.Context, author models.Author) (*models.User, error) {
	maybeUser, err := s.getUser(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user, ok := maybeUser.Get(); ok {
		return user, nil
	}

	log.Info("📋 Starting to create user on first contact", "user_id", author.ID)

	dmChannelID, err := s.dmOpener.OpenDMChannel(ctx, author.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open dm channel for user %s: %w", author.ID, err)
	}

	createErr := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		dmChannel, err := s.findOrCreateChannel(ctx, models.ChannelRef{ID: dmChannelID})
		if err != nil {
			return err
		}

		_, err = s.usersRepo.CreateUserIfNotExists(ctx, &models.User{
			ID:         core.NewID("u"),
			ExternalID: author.ID,
			Name:       author.Name,
			DMChannel:  dmChannel.ID,
		})
		return err
	})
	if createErr != nil {
		// a concurrent request may have created the user and made our insert fail
		log.Warn("⚠️ User creation did not commit, checking for concurrent insert",
			"user_id", author.ID, "error", createErr)
	}

	user, err := rereadWithRetry(ctx, func(ctx context.Context) (mo.Option[*models.User], error) {
		return s.getUser(ctx, author.ID)
	})
	if err != nil {
		if createErr != nil {
			return nil, fmt.Errorf("failed to create user: %w", createErr)
		}
		return nil, fmt.Errorf("failed to load user after create: %w", err)
	}

	log.Info("📋 Completed successfully - loaded user on first contact", "user_id", author.ID, "id", user.ID)
	return user, nil
}

// LoadChannel returns the channel record, creating it on first sight
func (s *IdentityService) LoadChannel(ctx context.Context, channel models.ChannelRef) (*models.Channel, error) {
	row, err := s.findOrCreateChannel(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to load channel: %w", err)
	}
	return row, nil
}

func (s *IdentityService) findOrCreateChannel(ctx context.Context, channel models.ChannelRef) (*models.Channel, error) {
	maybeChannel, err := s.channelsRepo.GetChannelByExternalID(ctx, channel.ID)
	if err != nil {
		return nil, err
	}
	if row, ok := maybeChannel.Get(); ok {
		return row, nil
	}

	row := &models.Channel{ID: core.NewID("ch"), ExternalID: channel.ID}
	if channel.Name != "" {
		row.Name = &channel.Name
	}
	if _, err := s.channelsRepo.CreateChannelIfNotExists(ctx, row, channel.GuildID); err != nil {
		return nil, err
	}

	return rereadWithRetry(ctx, func(ctx context.Context) (mo.Option[*models.Channel], error) {
		return s.channelsRepo.GetChannelByExternalID(ctx, channel.ID)
	})
}

// rereadWithRetry reads a row that an insert-or-ignore just guaranteed. A miss can only mean
// the winning insert is not visible yet, so the read is retried a few times.
func rereadWithRetry[T any](ctx context.Context, read func(context.Context) (mo.Option[T], error)) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		maybe, err := read(ctx)
		if err != nil {
			return zero, err
		}
		if value, ok := maybe.Get(); ok {
			return value, nil
		}
		if attempt == rereadAttempts {
			return zero, fmt.Errorf("row missing after %d reads: %w", attempt, core.ErrNotFound)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(rereadBackoff * time.Duration(attempt)):
		}
	}
}

func (s *IdentityService) SetTimezone(ctx context.Context, userID, timezone string) error {
	if timezone == "" || timezone == "Local" {
		return ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return ErrInvalidTimezone
	}

	updated, err := s.usersRepo.UpdateUserTimezone(ctx, userID, timezone)
	return checkUpdate("timezone", userID, updated, err)
}

func (s *IdentityService) SetLanguage(ctx context.Context, userID, language string) error {
	if !slices.Contains(s.config.Languages, language) {
		return ErrUnsupportedLanguage
	}

	updated, err := s.usersRepo.UpdateUserLanguage(ctx, userID, language)
	return checkUpdate("language", userID, updated, err)
}

func (s *IdentityService) SetMeridian(ctx context.Context, userID string, meridian bool) error {
	updated, err := s.usersRepo.UpdateUserMeridian(ctx, userID, meridian)
	return checkUpdate("meridian", userID, updated, err)
}

// SetPaused pauses or resumes the channel. A nil until pauses indefinitely.
func (s *IdentityService) SetPaused(
	ctx context.Context,
	channel models.ChannelRef,
	paused bool,
	until *time.Time,
) error {
	log.Info("📋 Starting to set channel pause", "channel_id", channel.ID, "paused", paused)

	if _, err := s.findOrCreateChannel(ctx, channel); err != nil {
		return fmt.Errorf("failed to load channel: %w", err)
	}
	if !paused {
		until = nil
	}

	updated, err := s.channelsRepo.UpdateChannelPause(ctx, channel.ID, paused, until)
	if err := checkUpdate("pause", channel.ID, updated, err); err != nil {
		return err
	}

	log.Info("📋 Completed successfully - set channel pause", "channel_id", channel.ID, "paused", paused)
	return nil
}

func checkUpdate(field, id string, updated bool, err error) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", field, err)
	}
	if !updated {
		return fmt.Errorf("failed to update %s of %s: %w", field, id, core.ErrNotFound)
	}
	return nil
}
