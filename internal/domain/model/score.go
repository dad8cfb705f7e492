package model

import "time"

type GameScore struct {
	ID               string    `json:"id"`
	GameID           string    `json:"game_id"`
	ClientID         string    `json:"client_id"`
	UserID           *string   `json:"user_id,omitempty"`
	Username         *string   `json:"username,omitempty"` // for display
	CompletionTimeMs int64     `json:"completion_time_ms"`
	ONotation        *string   `json:"o_notation,omitempty"`
	TestCasesPassed  int       `json:"test_cases_passed"`
	TotalTestCases   int       `json:"total_test_cases"`
	TimeScore        float64   `json:"time_score"`
	EfficiencyScore  float64   `json:"efficiency_score"`
	CorrectnessScore float64   `json:"correctness_score"`
	FinalScore       float64   `json:"final_score"`
	CreatedAt        time.Time `json:"created_at"`
}
