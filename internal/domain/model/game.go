package model

import "time"

type GameStatus string

const (
	StatusLobby     GameStatus = "lobby"
	StatusCountdown GameStatus = "countdown"
	StatusActive    GameStatus = "active"
	StatusCompleted GameStatus = "completed"
)

// statusRank orders the lifecycle. Transitions are monotonic forward:
// a game never moves to a status with a lower or equal rank.
var statusRank = map[GameStatus]int{
	StatusLobby:     0,
	StatusCountdown: 1,
	StatusActive:    2,
	StatusCompleted: 3,
}

func (s GameStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether next is a legal forward transition.
// Skipping intermediate states is allowed (lobby -> active), going
// backward or staying put is not. Completed is terminal.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

type Game struct {
	ID                string     `json:"id"`
	Slug              string     `json:"slug"`
	Name              string     `json:"name"`
	Status            GameStatus `json:"status"`
	ProblemSlug       *string    `json:"problem_slug,omitempty"`
	ProblemTitle      *string    `json:"problem_title,omitempty"`
	ProblemDifficulty *string    `json:"problem_difficulty,omitempty"`
	CountdownEndsAt   *time.Time `json:"countdown_ends_at,omitempty"`
	StartedAt         *time.Time `json:"started_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CreatedByID       *string    `json:"created_by_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// GameSnapshot is what polling clients render: the record plus the
// derived presence and score state.
type GameSnapshot struct {
	Game        *Game       `json:"game"`
	ActiveCount int64       `json:"active_count"`
	Scores      []GameScore `json:"scores"`
}
