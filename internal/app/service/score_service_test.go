package service

import (
	"context"
	"errors"
	"testing"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/rs/zerolog"
)

func newTestScoreService(t *testing.T) (*ScoreService, *model.Game) {
	t.Helper()
	gameRepo := newFakeGameRepo()
	game := &model.Game{ID: "game-1", Slug: "score-game", Name: "Score Game", Status: model.StatusActive}
	if err := gameRepo.Create(context.Background(), game); err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}
	return NewScoreService(newFakeScoreRepo(), gameRepo, zerolog.Nop()), game
}

func TestSubmitScore(t *testing.T) {
	ctx := context.Background()

	t.Run("computes the weighted score", func(t *testing.T) {
		svc, _ := newTestScoreService(t)
		notation := "O(1)"

		score, err := svc.Submit(ctx, "score-game", nil, SubmitScoreRequest{
			ClientID:         "client-1",
			CompletionTimeMs: 0,
			TestCasesPassed:  5,
			TotalTestCases:   5,
			ONotation:        &notation,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score.TimeScore != 100 || score.EfficiencyScore != 75 || score.CorrectnessScore != 100 {
			t.Errorf("unexpected breakdown: time=%v efficiency=%v correctness=%v",
				score.TimeScore, score.EfficiencyScore, score.CorrectnessScore)
		}
		if score.FinalScore != 92.5 {
			t.Errorf("expected final score 92.5, got %v", score.FinalScore)
		}
	})

	t.Run("detects the complexity label from code when absent", func(t *testing.T) {
		svc, _ := newTestScoreService(t)

		score, err := svc.Submit(ctx, "score-game", nil, SubmitScoreRequest{
			ClientID:        "client-1",
			Code:            "for (let i = 0; i < n; i++) { total += a[i]; }",
			TestCasesPassed: 3,
			TotalTestCases:  3,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if score.ONotation == nil || *score.ONotation != "O(n)" {
			t.Errorf("expected detected O(n), got %v", score.ONotation)
		}
	})

	t.Run("resubmission replaces the previous score", func(t *testing.T) {
		svc, game := newTestScoreService(t)

		svc.Submit(ctx, "score-game", nil, SubmitScoreRequest{ClientID: "client-1", TestCasesPassed: 1, TotalTestCases: 5})
		svc.Submit(ctx, "score-game", nil, SubmitScoreRequest{ClientID: "client-1", TestCasesPassed: 5, TotalTestCases: 5})

		scores, err := svc.Leaderboard(ctx, game.Slug)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(scores) != 1 {
			t.Fatalf("expected one score per client, got %d", len(scores))
		}
		if scores[0].TestCasesPassed != 5 {
			t.Errorf("expected the later submission to win, got %d passed", scores[0].TestCasesPassed)
		}
	})

	t.Run("rejects inconsistent input", func(t *testing.T) {
		svc, _ := newTestScoreService(t)

		for name, req := range map[string]SubmitScoreRequest{
			"missing client id":    {TestCasesPassed: 1, TotalTestCases: 1},
			"negative time":        {ClientID: "c", CompletionTimeMs: -1},
			"passed beyond total":  {ClientID: "c", TestCasesPassed: 6, TotalTestCases: 5},
			"negative total cases": {ClientID: "c", TotalTestCases: -1},
		} {
			if _, err := svc.Submit(ctx, "score-game", nil, req); !errors.Is(err, common.ErrValidation) {
				t.Errorf("%s: expected validation error, got %v", name, err)
			}
		}
	})

	t.Run("unknown game yields not found", func(t *testing.T) {
		svc, _ := newTestScoreService(t)

		_, err := svc.Submit(ctx, "no-such-game", nil, SubmitScoreRequest{ClientID: "c", TestCasesPassed: 1, TotalTestCases: 1})
		if !errors.Is(err, common.ErrNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})
}

func TestLeaderboardOrder(t *testing.T) {
	ctx := context.Background()
	svc, game := newTestScoreService(t)

	fast := "O(1)"
	slow := "O(n^2)"
	svc.Submit(ctx, game.Slug, nil, SubmitScoreRequest{ClientID: "slow", CompletionTimeMs: 600000, TestCasesPassed: 3, TotalTestCases: 5, ONotation: &slow})
	svc.Submit(ctx, game.Slug, nil, SubmitScoreRequest{ClientID: "fast", CompletionTimeMs: 60000, TestCasesPassed: 5, TotalTestCases: 5, ONotation: &fast})

	scores, err := svc.Leaderboard(ctx, game.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	if scores[0].ClientID != "fast" {
		t.Errorf("expected the stronger submission first, got %q", scores[0].ClientID)
	}
}
