package service

import (
	"context"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"
	"codeclash/internal/domain/scoring"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ScoreService struct {
	scoreRepo repository.ScoreRepository
	gameRepo  repository.GameRepository
	logger    zerolog.Logger
}

func NewScoreService(scoreRepo repository.ScoreRepository, gameRepo repository.GameRepository, logger zerolog.Logger) *ScoreService {
	return &ScoreService{scoreRepo: scoreRepo, gameRepo: gameRepo, logger: logger}
}

type SubmitScoreRequest struct {
	ClientID         string  `json:"client_id"`
	Code             string  `json:"code"`
	CompletionTimeMs int64   `json:"completion_time_ms"`
	TestCasesPassed  int     `json:"test_cases_passed"`
	TotalTestCases   int     `json:"total_test_cases"`
	ONotation        *string `json:"o_notation,omitempty"` // detected from code when absent
}

// Submit computes and persists a player's score for a game. The Big-O
// label is detected from the submitted source unless the caller already
// ran detection client-side.
func (s *ScoreService) Submit(ctx context.Context, gameSlug string, userID *string, req SubmitScoreRequest) (*model.GameScore, error) {
	if req.ClientID == "" {
		return nil, common.Errorf("client id is required: %w", common.ErrValidation)
	}
	if req.CompletionTimeMs < 0 {
		return nil, common.Errorf("completion time must be non-negative: %w", common.ErrValidation)
	}
	if req.TestCasesPassed < 0 || req.TotalTestCases < 0 || req.TestCasesPassed > req.TotalTestCases {
		return nil, common.Errorf("test case counts are inconsistent: %w", common.ErrValidation)
	}

	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}

	notation := ""
	if req.ONotation != nil {
		notation = *req.ONotation
	} else if req.Code != "" {
		notation = scoring.DetectONotation(req.Code)
	}

	breakdown := scoring.Calculate(scoring.Input{
		CompletionTimeMs: req.CompletionTimeMs,
		ONotation:        notation,
		TestCasesPassed:  req.TestCasesPassed,
		TotalTestCases:   req.TotalTestCases,
	})

	score := &model.GameScore{
		ID:               uuid.NewString(),
		GameID:           game.ID,
		ClientID:         req.ClientID,
		UserID:           userID,
		CompletionTimeMs: req.CompletionTimeMs,
		TestCasesPassed:  req.TestCasesPassed,
		TotalTestCases:   req.TotalTestCases,
		TimeScore:        breakdown.TimeScore,
		EfficiencyScore:  breakdown.EfficiencyScore,
		CorrectnessScore: breakdown.CorrectnessScore,
		FinalScore:       breakdown.FinalScore,
	}
	if notation != "" {
		score.ONotation = &notation
	}

	if err := s.scoreRepo.Upsert(ctx, score); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("slug", gameSlug).
		Str("client_id", req.ClientID).
		Float64("final_score", breakdown.FinalScore).
		Msg("score submitted")
	return score, nil
}

// Leaderboard returns a game's scores ordered best-first.
func (s *ScoreService) Leaderboard(ctx context.Context, gameSlug string) ([]model.GameScore, error) {
	game, err := s.gameRepo.FindBySlug(ctx, gameSlug)
	if err != nil {
		return nil, err
	}
	return s.scoreRepo.ListByGame(ctx, game.ID)
}
