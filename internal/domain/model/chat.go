package model

import "time"

const (
	ChatBodyMinLen = 1
	ChatBodyMaxLen = 500
)

type ChatMessage struct {
	ID         string     `json:"id"`
	GameID     string     `json:"game_id"`
	AuthorID   *string    `json:"author_id,omitempty"`
	AuthorName string     `json:"author_name"`
	Body       string     `json:"body"`
	IsSystem   bool       `json:"is_system"`
	SentAt     time.Time  `json:"sent_at"`
	EditedAt   *time.Time `json:"edited_at,omitempty"`
}
