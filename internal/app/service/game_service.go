package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
	"codeclash/internal/platform/config"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type GameService struct {
	gameRepo     repository.GameRepository
	presenceRepo repository.PresenceRepository
	scoreRepo    repository.ScoreRepository
	chatRepo     repository.ChatRepository
	logger       zerolog.Logger
}

func NewGameService(
	gameRepo repository.GameRepository,
	presenceRepo repository.PresenceRepository,
	scoreRepo repository.ScoreRepository,
	chatRepo repository.ChatRepository,
	logger zerolog.Logger,
) *GameService {
	return &GameService{
		gameRepo:     gameRepo,
		presenceRepo: presenceRepo,
		scoreRepo:    scoreRepo,
		chatRepo:     chatRepo,
		logger:       logger,
	}
}

const slugSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

type CreateGameRequest struct {
	Name        string  `json:"name"`
	ProblemSlug *string `json:"problem_slug,omitempty"`
}

// CreateGame creates a new lobby. The shareable slug is derived from the
// name; collisions are resolved by appending a short random suffix.
func (s *GameService) CreateGame(ctx context.Context, createdBy *string, req CreateGameRequest) (*model.Game, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Errorf("game name is required: %w", common.ErrValidation)
	}

	gameSlug := slug.Make(name)
	if gameSlug == "" {
		return nil, common.Errorf("game name yields an empty slug: %w", common.ErrValidation)
	}

	for attempt := 0; attempt < 3; attempt++ {
		game := &model.Game{
			ID:          uuid.NewString(),
			Slug:        gameSlug,
			Name:        name,
			Status:      model.StatusLobby,
			ProblemSlug: req.ProblemSlug,
			CreatedByID: createdBy,
		}
		err := s.gameRepo.Create(ctx, game)
		if err == nil {
			s.logger.Info().Str("slug", game.Slug).Str("game_id", game.ID).Msg("game created")
			return s.gameRepo.FindBySlug(ctx, game.Slug)
		}
		if !errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		suffix, serr := gonanoid.Generate(slugSuffixAlphabet, 6)
		if serr != nil {
			return nil, fmt.Errorf("failed to generate slug suffix: %w", serr)
		}
		gameSlug = slug.Make(name) + "-" + suffix
	}
	return nil, common.Errorf("could not allocate a unique slug for %q: %w", name, common.ErrConflict)
}

// GetOrCreate returns the game for slug, creating it in lobby if absent.
// Idempotent: repeated calls return the existing record with created=false.
// A create that loses the unique-slug race falls back to a re-read.
func (s *GameService) GetOrCreate(ctx context.Context, gameSlug string) (*model.Game, bool, error) {
	gameSlug = slug.Make(gameSlug)
	if gameSlug == "" {
		return nil, false, common.Errorf("game slug is required: %w", common.ErrValidation)
	}

	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err == nil {
		return game, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	game = &model.Game{
		ID:     uuid.NewString(),
		Slug:   gameSlug,
		Name:   nameFromSlug(gameSlug),
		Status: model.StatusLobby,
	}
	if err := s.gameRepo.Create(ctx, game); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost the race to a concurrent creator; the row exists now.
			existing, ferr := s.gameRepo.FindBySlug(ctx, gameSlug)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	s.logger.Info().Str("slug", gameSlug).Str("game_id", game.ID).Msg("game created on first contact")
	created, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *GameService) Get(ctx context.Context, gameSlug string) (*model.Game, error) {
	return s.gameRepo.FindBySlug(ctx, gameSlug)
}

// Start moves a game toward active play. With countdownSeconds > 0 the game
// enters countdown and the sweeper promotes it when the deadline passes;
// with zero it goes straight to active. Starting a completed game is a
// no-op, as is starting a game already active or counting down.
func (s *GameService) Start(ctx context.Context, gameSlug string, countdownSeconds int) (*model.Game, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	switch game.Status {
	case model.StatusCompleted, model.StatusActive, model.StatusCountdown:
		return game, nil
	}

	now := time.Now().UTC()
	if countdownSeconds > 0 {
		endsAt := now.Add(time.Duration(countdownSeconds) * time.Second)
		if err := s.transition(ctx, game, model.StatusCountdown, &endsAt, nil, nil); err != nil {
			return nil, err
		}
	} else {
		if err := s.activate(ctx, game, now); err != nil {
			return nil, err
		}
	}
	return s.gameRepo.FindBySlug(ctx, gameSlug)
}

// Finalize moves a game to its terminal state. Finalizing twice is a no-op.
func (s *GameService) Finalize(ctx context.Context, gameSlug string) (*model.Game, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}
	if game.Status == model.StatusCompleted {
		return game, nil
	}

	now := time.Now().UTC()
	if err := s.transition(ctx, game, model.StatusCompleted, nil, nil, &now); err != nil {
		return nil, err
	}
	s.systemMessage(ctx, game.ID, "The battle is over. Final scores are in.")
	return s.gameRepo.FindBySlug(ctx, gameSlug)
}

// PromoteDueCountdowns activates every game whose countdown deadline has
// passed. Called periodically by the lifecycle sweeper.
func (s *GameService) PromoteDueCountdowns(ctx context.Context) (int, error) {
	due, err := s.gameRepo.ListDueCountdowns(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	promoted := 0
	for i := range due {
		if err := s.activate(ctx, &due[i], time.Now().UTC()); err != nil {
			s.logger.Error().Err(err).Str("slug", due[i].Slug).Msg("failed to promote countdown")
			continue
		}
		promoted++
	}
	return promoted, nil
}

// SetProblem attaches problem metadata to a game before it starts.
func (s *GameService) SetProblem(ctx context.Context, gameSlug string, problem *model.Problem) (*model.Game, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}
	if game.Status == model.StatusActive || game.Status == model.StatusCompleted {
		return nil, common.Errorf("cannot change the problem of a %s game: %w", game.Status, common.ErrConflict)
	}
	if err := s.gameRepo.SetProblem(ctx, game.ID, problem.Slug, problem.Title, problem.Difficulty); err != nil {
		return nil, err
	}
	return s.gameRepo.FindBySlug(ctx, gameSlug)
}

// Snapshot assembles the state polling clients render.
func (s *GameService) Snapshot(ctx context.Context, gameSlug string) (*model.GameSnapshot, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	snapshot := &model.GameSnapshot{Game: game}
	cutoff := time.Now().Add(-config.AppConfig.PresenceTTL)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.presenceRepo.ActiveCount(gctx, game.Slug, cutoff)
		if err != nil {
			return err
		}
		snapshot.ActiveCount = count
		return nil
	})
	g.Go(func() error {
		scores, err := s.scoreRepo.ListByGame(gctx, game.ID)
		if err != nil {
			return err
		}
		snapshot.Scores = scores
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *GameService) activate(ctx context.Context, game *model.Game, now time.Time) error {
	if err := s.transition(ctx, game, model.StatusActive, nil, &now, nil); err != nil {
		return err
	}
	s.systemMessage(ctx, game.ID, "The battle has started. Good luck!")
	return nil
}

func (s *GameService) transition(ctx context.Context, game *model.Game, next model.GameStatus, countdownEndsAt, startedAt, completedAt *time.Time) error {
	if !game.Status.CanTransitionTo(next) {
		return common.Errorf("illegal transition %s -> %s for game %s: %w", game.Status, next, game.Slug, common.ErrConflict)
	}
	if err := s.gameRepo.UpdateStatus(ctx, game.ID, next, countdownEndsAt, startedAt, completedAt); err != nil {
		return err
	}
	s.logger.Info().Str("slug", game.Slug).Str("from", string(game.Status)).Str("to", string(next)).Msg("game transitioned")
	game.Status = next
	return nil
}

// systemMessage records an automated chat line; failures are logged, not
// propagated, because lifecycle transitions must not fail on chat writes.
func (s *GameService) systemMessage(ctx context.Context, gameID, body string) {
	msg := &model.ChatMessage{
		ID:         uuid.NewString(),
		GameID:     gameID,
		AuthorName: "system",
		Body:       body,
		IsSystem:   true,
	}
	if err := s.chatRepo.Create(ctx, msg); err != nil {
		s.logger.Warn().Err(err).Str("game_id", gameID).Msg("failed to record system message")
	}
}

func nameFromSlug(gameSlug string) string {
	words := strings.Split(gameSlug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
