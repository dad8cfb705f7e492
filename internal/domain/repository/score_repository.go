package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codeclash/internal/domain/model"
)

type ScoreRepository interface {
	Upsert(ctx context.Context, score *model.GameScore) error
	ListByGame(ctx context.Context, gameID string) ([]model.GameScore, error)
}

type pgScoreRepository struct {
	db *sql.DB
}

func NewPgScoreRepository(db *sql.DB) ScoreRepository {
	return &pgScoreRepository{db: db}
}

// Upsert keeps one score per (game, client); a resubmission replaces the
// previous score for that client.
func (r *pgScoreRepository) Upsert(ctx context.Context, s *model.GameScore) error {
	query := `INSERT INTO game_scores (id, game_id, client_id, user_id, completion_time_ms, o_notation,
	            test_cases_passed, total_test_cases, time_score, efficiency_score, correctness_score, final_score)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          ON CONFLICT (game_id, client_id) DO UPDATE SET
	            user_id = EXCLUDED.user_id,
	            completion_time_ms = EXCLUDED.completion_time_ms,
	            o_notation = EXCLUDED.o_notation,
	            test_cases_passed = EXCLUDED.test_cases_passed,
	            total_test_cases = EXCLUDED.total_test_cases,
	            time_score = EXCLUDED.time_score,
	            efficiency_score = EXCLUDED.efficiency_score,
	            correctness_score = EXCLUDED.correctness_score,
	            final_score = EXCLUDED.final_score`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.GameID, s.ClientID, s.UserID, s.CompletionTimeMs, s.ONotation,
		s.TestCasesPassed, s.TotalTestCases, s.TimeScore, s.EfficiencyScore, s.CorrectnessScore, s.FinalScore,
	)
	if err != nil {
		return fmt.Errorf("pgScoreRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgScoreRepository) ListByGame(ctx context.Context, gameID string) ([]model.GameScore, error) {
	query := `SELECT s.id, s.game_id, s.client_id, s.user_id, u.username,
	                 s.completion_time_ms, s.o_notation, s.test_cases_passed, s.total_test_cases,
	                 s.time_score, s.efficiency_score, s.correctness_score, s.final_score, s.created_at
	          FROM game_scores s
	          LEFT JOIN users u ON s.user_id = u.id
	          WHERE s.game_id = $1
	          ORDER BY s.final_score DESC, s.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListByGame query: %w", err)
	}
	defer rows.Close()

	scores := []model.GameScore{}
	for rows.Next() {
		var s model.GameScore
		if err := rows.Scan(
			&s.ID, &s.GameID, &s.ClientID, &s.UserID, &s.Username,
			&s.CompletionTimeMs, &s.ONotation, &s.TestCasesPassed, &s.TotalTestCases,
			&s.TimeScore, &s.EfficiencyScore, &s.CorrectnessScore, &s.FinalScore, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgScoreRepository.ListByGame scan: %w", err)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgScoreRepository.ListByGame rows.Err: %w", err)
	}
	return scores, nil
}
