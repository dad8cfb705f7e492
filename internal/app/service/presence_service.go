package service

import (
	"context"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/config"

	"github.com/rs/zerolog"
)

type PresenceService struct {
	presenceRepo repository.PresenceRepository
	gameService  *GameService
	logger       zerolog.Logger
}

func NewPresenceService(presenceRepo repository.PresenceRepository, gameService *GameService, logger zerolog.Logger) *PresenceService {
	return &PresenceService{
		presenceRepo: presenceRepo,
		gameService:  gameService,
		logger:       logger,
	}
}

// Heartbeat upserts a client's liveness entry, refreshing its beat
// timestamp and attaching the caller's authenticated identity when
// present. The game is created on first contact, so a bare heartbeat
// against an unknown slug opens a fresh lobby.
func (s *PresenceService) Heartbeat(ctx context.Context, gameSlug, clientID string, userID *string) (*model.HeartbeatResult, error) {
	if clientID == "" {
		return nil, common.Errorf("client id is required: %w", common.ErrValidation)
	}

	game, _, err := s.gameService.GetOrCreate(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	created, err := s.presenceRepo.Beat(ctx, game.Slug, clientID, userID, now)
	if err != nil {
		return nil, err
	}

	count, err := s.presenceRepo.ActiveCount(ctx, game.Slug, now.Add(-config.AppConfig.PresenceTTL))
	if err != nil {
		return nil, err
	}

	return &model.HeartbeatResult{Created: created, ActiveCount: count}, nil
}

// Leave removes the client's entry. Unknown clients and games are a no-op.
func (s *PresenceService) Leave(ctx context.Context, gameSlug, clientID string) error {
	if clientID == "" {
		return common.Errorf("client id is required: %w", common.ErrValidation)
	}
	return s.presenceRepo.Remove(ctx, gameSlug, clientID)
}

// ActiveCount reports how many clients beat within the TTL window.
func (s *PresenceService) ActiveCount(ctx context.Context, gameSlug string) (int64, error) {
	return s.presenceRepo.ActiveCount(ctx, gameSlug, time.Now().Add(-config.AppConfig.PresenceTTL))
}

// Roster lists the clients currently considered active.
func (s *PresenceService) Roster(ctx context.Context, gameSlug string) ([]model.PresenceEntry, error) {
	return s.presenceRepo.ActiveEntries(ctx, gameSlug, time.Now().Add(-config.AppConfig.PresenceTTL))
}

// ReapStale prunes entries older than the TTL across all tracked games.
// Called periodically by the lifecycle sweeper so presence sets stay
// bounded instead of accumulating forever.
func (s *PresenceService) ReapStale(ctx context.Context) (int64, error) {
	slugs, err := s.presenceRepo.TrackedGames(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-config.AppConfig.PresenceTTL)
	var total int64
	for _, gameSlug := range slugs {
		removed, err := s.presenceRepo.ReapStale(ctx, gameSlug, cutoff)
		if err != nil {
			s.logger.Warn().Err(err).Str("slug", gameSlug).Msg("failed to reap presence entries")
			continue
		}
		total += removed
	}
	return total, nil
}
