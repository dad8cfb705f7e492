package model

import "time"

type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Description    string `json:"description,omitempty"`
}

// TestCaseSet caches the generated cases for a problem. At most one set
// exists per problem slug; generation is lazy and cached thereafter.
type TestCaseSet struct {
	ID          string     `json:"_id"`
	ProblemSlug string     `json:"problemSlug"`
	TestCases   []TestCase `json:"testCases"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
