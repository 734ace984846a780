package prefixes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"remindbot/cache"
	"remindbot/core"
	"remindbot/core/log"
	"remindbot/models"
	"remindbot/services"
)

// MaxPrefixLength is measured in characters, not bytes
const MaxPrefixLength = 5

var ErrInvalidPrefix = errors.New("prefix must be 1 to 5 characters without whitespace")

// PrefixesService resolves guild prefixes through a cache in front of the guilds table
type PrefixesService struct {
	guildsRepo    services.GuildsRepository
	cache         cache.PrefixCache
	txManager     services.TransactionManager
	defaultPrefix string

	// held across the store write and the cache write of SetPrefix
	guildLocks *cache.KeyedMutex
}

func NewPrefixesService(
	guildsRepo services.GuildsRepository,
	prefixCache cache.PrefixCache,
	txManager services.TransactionManager,
	defaultPrefix string,
) *PrefixesService {
	return &PrefixesService{
		guildsRepo:    guildsRepo,
		cache:         prefixCache,
		txManager:     txManager,
		defaultPrefix: defaultPrefix,
		guildLocks:    cache.NewKeyedMutex(),
	}
}

func (s *PrefixesService) DefaultPrefix() string {
	return s.defaultPrefix
}

// Resolve returns the prefix in effect for the guild. Guilds without a stored row use the
// default prefix; that answer is cached too, and no row is created.
func (s *PrefixesService) Resolve(ctx context.Context, guildID string) (string, error) {
	if guildID == "" {
		return s.defaultPrefix, nil
	}

	prefix, ok, err := s.cache.Get(ctx, guildID)
	if err != nil {
		log.Warn("⚠️ Prefix cache read failed, reading from store", "guild_id", guildID, "error", err)
	} else if ok {
		return prefix, nil
	}

	maybeGuild, err := s.guildsRepo.GetGuildByExternalID(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve prefix for guild %s: %w", guildID, err)
	}

	prefix = s.defaultPrefix
	if guild, ok := maybeGuild.Get(); ok {
		prefix = guild.Prefix
	}

	if err := s.cache.Add(ctx, guildID, prefix); err != nil {
		log.Warn("⚠️ Failed to cache prefix", "guild_id", guildID, "error", err)
	}

	log.Debug("📋 Resolved prefix from store", "guild_id", guildID, "prefix", prefix)
	return prefix, nil
}

// SetPrefix stores a new prefix for the guild, creating the guild row if needed. The cache is
// updated before returning so the next Resolve observes the new value. Concurrent calls for
// one guild are serialized, so the cached prefix is always the last one committed.
func (s *PrefixesService) SetPrefix(ctx context.Context, guildID, guildName, prefix string) error {
	log.Info("📋 Starting to set guild prefix", "guild_id", guildID, "prefix", prefix)

	if guildID == "" {
		return fmt.Errorf("guild id cannot be empty")
	}
	if err := ValidatePrefix(prefix); err != nil {
		return err
	}

	unlock := s.guildLocks.Lock(guildID)
	defer unlock()

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		guild := &models.Guild{
			ID:         core.NewID("g"),
			ExternalID: guildID,
			Prefix:     s.defaultPrefix,
		}
		if guildName != "" {
			guild.Name = &guildName
		}

		if _, err := s.guildsRepo.CreateGuildIfNotExists(ctx, guild); err != nil {
			return err
		}

		updated, err := s.guildsRepo.UpdateGuildPrefix(ctx, guildID, prefix)
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("guild %s: %w", guildID, core.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set prefix: %w", err)
	}

	if err := s.cache.Set(ctx, guildID, prefix); err != nil {
		return fmt.Errorf("failed to update prefix cache: %w", err)
	}

	log.Info("📋 Completed successfully - set guild prefix", "guild_id", guildID, "prefix", prefix)
	return nil
}

func ValidatePrefix(prefix string) error {
	if prefix == "" || utf8.RuneCountInString(prefix) > MaxPrefixLength {
		return ErrInvalidPrefix
	}
	if strings.ContainsFunc(prefix, unicode.IsSpace) {
		return ErrInvalidPrefix
	}
	return nil
}
