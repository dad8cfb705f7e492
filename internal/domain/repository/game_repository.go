package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	FindBySlug(ctx context.Context, slug string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	UpdateStatus(ctx context.Context, id string, status model.GameStatus, countdownEndsAt, startedAt, completedAt *time.Time) error
	SetProblem(ctx context.Context, id, problemSlug, problemTitle, problemDifficulty string) error
	ListDueCountdowns(ctx context.Context, now time.Time) ([]model.Game, error)
}

type pgGameRepository struct {
	db *sql.DB
}

func NewPgGameRepository(db *sql.DB) GameRepository {
	return &pgGameRepository{db: db}
}

func (r *pgGameRepository) Create(ctx context.Context, g *model.Game) error {
	query := `INSERT INTO games (id, slug, name, status, problem_slug, problem_title, problem_difficulty, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, g.ID, g.Slug, g.Name, g.Status, g.ProblemSlug, g.ProblemTitle, g.ProblemDifficulty, g.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("game with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgGameRepository.Create: %w", err)
	}
	return nil
}

const gameColumns = `id, slug, name, status, problem_slug, problem_title, problem_difficulty,
	countdown_ends_at, started_at, completed_at, created_by, created_at, updated_at`

func (r *pgGameRepository) scanGame(row *sql.Row) (*model.Game, error) {
	g := &model.Game{}
	err := row.Scan(
		&g.ID, &g.Slug, &g.Name, &g.Status, &g.ProblemSlug, &g.ProblemTitle, &g.ProblemDifficulty,
		&g.CountdownEndsAt, &g.StartedAt, &g.CompletedAt, &g.CreatedByID, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

func (r *pgGameRepository) FindBySlug(ctx context.Context, slug string) (*model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE slug = $1`
	g, err := r.scanGame(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgGameRepository.FindBySlug: %w", err)
	}
	return g, nil
}

func (r *pgGameRepository) FindByID(ctx context.Context, id string) (*model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	g, err := r.scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgGameRepository.FindByID: %w", err)
	}
	return g, nil
}

func (r *pgGameRepository) UpdateStatus(ctx context.Context, id string, status model.GameStatus, countdownEndsAt, startedAt, completedAt *time.Time) error {
	query := `UPDATE games SET status = $1,
	            countdown_ends_at = COALESCE($2, countdown_ends_at),
	            started_at = COALESCE($3, started_at),
	            completed_at = COALESCE($4, completed_at),
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, status, countdownEndsAt, startedAt, completedAt, id)
	if err != nil {
		return fmt.Errorf("pgGameRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgGameRepository) SetProblem(ctx context.Context, id, problemSlug, problemTitle, problemDifficulty string) error {
	query := `UPDATE games SET problem_slug = $1, problem_title = $2, problem_difficulty = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, problemSlug, problemTitle, problemDifficulty, id)
	if err != nil {
		return fmt.Errorf("pgGameRepository.SetProblem: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgGameRepository) ListDueCountdowns(ctx context.Context, now time.Time) ([]model.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
	          WHERE status = $1 AND countdown_ends_at IS NOT NULL AND countdown_ends_at <= $2`
	rows, err := r.db.QueryContext(ctx, query, model.StatusCountdown, now)
	if err != nil {
		return nil, fmt.Errorf("pgGameRepository.ListDueCountdowns query: %w", err)
	}
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(
			&g.ID, &g.Slug, &g.Name, &g.Status, &g.ProblemSlug, &g.ProblemTitle, &g.ProblemDifficulty,
			&g.CountdownEndsAt, &g.StartedAt, &g.CompletedAt, &g.CreatedByID, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgGameRepository.ListDueCountdowns scan: %w", err)
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgGameRepository.ListDueCountdowns rows.Err: %w", err)
	}
	return games, nil
}
