package worker

import (
	"context"
	"time"

	"codeclash/internal/app/service"
	"codeclash/internal/platform/config"

	"github.com/rs/zerolog"
)

// LifecycleSweeper runs the periodic maintenance the game loop needs:
// promoting games whose countdown expired to active, and pruning stale
// presence entries so the redis sets stay bounded.
type LifecycleSweeper struct {
	gameService     *service.GameService
	presenceService *service.PresenceService
	logger          zerolog.Logger
}

func NewLifecycleSweeper(gameService *service.GameService, presenceService *service.PresenceService, logger zerolog.Logger) *LifecycleSweeper {
	return &LifecycleSweeper{
		gameService:     gameService,
		presenceService: presenceService,
		logger:          logger,
	}
}

func (w *LifecycleSweeper) Start(ctx context.Context) {
	w.logger.Info().
		Dur("reap_interval", config.AppConfig.ReapInterval).
		Msg("lifecycle sweeper started")

	countdownTicker := time.NewTicker(time.Second)
	defer countdownTicker.Stop()
	reapTicker := time.NewTicker(config.AppConfig.ReapInterval)
	defer reapTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("lifecycle sweeper stopping")
			return
		case <-countdownTicker.C:
			promoted, err := w.gameService.PromoteDueCountdowns(ctx)
			if err != nil {
				w.logger.Error().Err(err).Msg("countdown promotion sweep failed")
				continue
			}
			if promoted > 0 {
				w.logger.Info().Int("promoted", promoted).Msg("countdowns promoted to active")
			}
		case <-reapTicker.C:
			removed, err := w.presenceService.ReapStale(ctx)
			if err != nil {
				w.logger.Error().Err(err).Msg("presence reap sweep failed")
				continue
			}
			if removed > 0 {
				w.logger.Debug().Int64("removed", removed).Msg("stale presence entries reaped")
			}
		}
	}
}
