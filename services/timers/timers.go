package timers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"remindbot/core"
	"remindbot/core/log"
	"remindbot/models"
	"remindbot/services"
)

const (
	MaxTimersPerOwner = 25
	MaxTimerNameChars = 32
	DefaultTimerName  = "New timer"
)

var (
	ErrTooManyTimers = errors.New("timer limit reached")
	ErrNameTooLong   = errors.New("timer name too long")
)

// TimersService manages stopwatch timers owned by a guild, or by a user in direct messages
type TimersService struct {
	timersRepo services.TimersRepository
	txManager  services.TransactionManager
	now        func() time.Time
}

func NewTimersService(
	timersRepo services.TimersRepository,
	txManager services.TransactionManager,
	now func() time.Time,
) *TimersService {
	if now == nil {
		now = time.Now
	}
	return &TimersService{timersRepo: timersRepo, txManager: txManager, now: now}
}

func (s *TimersService) StartTimer(ctx context.Context, owner, name string) (*models.Timer, error) {
	log.Info("📋 Starting to create timer", "owner", owner)

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTimerName
	}
	if utf8.RuneCountInString(name) > MaxTimerNameChars {
		return nil, ErrNameTooLong
	}

	timer := &models.Timer{
		ID:        core.NewID("tm"),
		Name:      name,
		StartTime: s.now().UTC(),
		Owner:     owner,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.timersRepo.LockTimersOwner(ctx, owner); err != nil {
			return err
		}

		count, err := s.timersRepo.CountTimersByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if count >= MaxTimersPerOwner {
			return ErrTooManyTimers
		}
		return s.timersRepo.CreateTimer(ctx, timer)
	})
	if err != nil {
		if errors.Is(err, ErrTooManyTimers) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to start timer: %w", err)
	}

	log.Info("📋 Completed successfully - created timer", "owner", owner, "timer_id", timer.ID)
	return timer, nil
}

func (s *TimersService) ListTimers(ctx context.Context, owner string) ([]*models.Timer, error) {
	timers, err := s.timersRepo.GetTimersByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list timers: %w", err)
	}
	return timers, nil
}

func (s *TimersService) DeleteTimer(ctx context.Context, owner, name string) (bool, error) {
	deleted, err := s.timersRepo.DeleteTimerByName(ctx, owner, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("failed to delete timer: %w", err)
	}
	return deleted, nil
}

// FormatElapsed renders a duration as H:MM:SS, with days prefixed once a timer passes 24 hours
func FormatElapsed(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}

	total := int64(elapsed / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if days > 0 {
		return fmt.Sprintf("%dd %d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
