package repository

import (
	"context"
	"database/sql"
	"fmt"

	"codeclash/internal/domain/model"
)

type ChatRepository interface {
	Create(ctx context.Context, msg *model.ChatMessage) error
	ListByGame(ctx context.Context, gameID string, limit int) ([]model.ChatMessage, error)
}

type pgChatRepository struct {
	db *sql.DB
}

func NewPgChatRepository(db *sql.DB) ChatRepository {
	return &pgChatRepository{db: db}
}

func (r *pgChatRepository) Create(ctx context.Context, m *model.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, game_id, author_id, author_name, body, is_system)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, m.ID, m.GameID, m.AuthorID, m.AuthorName, m.Body, m.IsSystem)
	if err != nil {
		return fmt.Errorf("pgChatRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChatRepository) ListByGame(ctx context.Context, gameID string, limit int) ([]model.ChatMessage, error) {
	query := `SELECT id, game_id, author_id, author_name, body, is_system, sent_at, edited_at
	          FROM chat_messages WHERE game_id = $1
	          ORDER BY sent_at ASC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("pgChatRepository.ListByGame query: %w", err)
	}
	defer rows.Close()

	messages := []model.ChatMessage{}
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.GameID, &m.AuthorID, &m.AuthorName, &m.Body, &m.IsSystem, &m.SentAt, &m.EditedAt); err != nil {
			return nil, fmt.Errorf("pgChatRepository.ListByGame scan: %w", err)
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChatRepository.ListByGame rows.Err: %w", err)
	}
	return messages, nil
}
