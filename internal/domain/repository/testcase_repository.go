package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type TestCaseRepository interface {
	Upsert(ctx context.Context, set *model.TestCaseSet) error
	FindByProblemSlug(ctx context.Context, problemSlug string) (*model.TestCaseSet, error)
}

type pgTestCaseRepository struct {
	db *sql.DB
}

func NewPgTestCaseRepository(db *sql.DB) TestCaseRepository {
	return &pgTestCaseRepository{db: db}
}

func (r *pgTestCaseRepository) Upsert(ctx context.Context, set *model.TestCaseSet) error {
	payload, err := json.Marshal(set.TestCases)
	if err != nil {
		return fmt.Errorf("pgTestCaseRepository.Upsert marshal: %w", err)
	}

	query := `INSERT INTO test_case_sets (id, problem_slug, test_cases)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (problem_slug) DO UPDATE SET
	            test_cases = EXCLUDED.test_cases,
	            updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, query, set.ID, set.ProblemSlug, payload)
	if err != nil {
		return fmt.Errorf("pgTestCaseRepository.Upsert: %w", err)
	}
	return nil
}

func (r *pgTestCaseRepository) FindByProblemSlug(ctx context.Context, problemSlug string) (*model.TestCaseSet, error) {
	query := `SELECT id, problem_slug, test_cases, created_at, updated_at
	          FROM test_case_sets WHERE problem_slug = $1`

	set := &model.TestCaseSet{}
	var payload []byte
	err := r.db.QueryRowContext(ctx, query, problemSlug).Scan(
		&set.ID, &set.ProblemSlug, &payload, &set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTestCaseRepository.FindByProblemSlug: %w", err)
	}
	if err := json.Unmarshal(payload, &set.TestCases); err != nil {
		return nil, fmt.Errorf("pgTestCaseRepository.FindByProblemSlug unmarshal: %w", err)
	}
	return set, nil
}
