package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Completer is the LLM surface the service needs; satisfied by
// client.OpenRouterClient.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type TestCaseService struct {
	testCaseRepo repository.TestCaseRepository
	llm          Completer
	logger       zerolog.Logger
}

func NewTestCaseService(testCaseRepo repository.TestCaseRepository, llm Completer, logger zerolog.Logger) *TestCaseService {
	return &TestCaseService{testCaseRepo: testCaseRepo, llm: llm, logger: logger}
}

const testCaseSystemPrompt = `You generate test cases for competitive programming problems.
Respond with ONLY a JSON array of objects with keys "input", "expectedOutput"
and optional "description". No prose, no markdown fences.`

// fallbackTestCases is used when the provider's response cannot be parsed,
// so a game can always proceed with something runnable.
var fallbackTestCases = []model.TestCase{
	{Input: "1 2", ExpectedOutput: "3", Description: "small positive numbers"},
	{Input: "0 0", ExpectedOutput: "0", Description: "zero case"},
	{Input: "-5 3", ExpectedOutput: "-2", Description: "negative numbers"},
}

func (s *TestCaseService) Get(ctx context.Context, problemSlug string) (*model.TestCaseSet, error) {
	if problemSlug == "" {
		return nil, common.Errorf("problem slug is required: %w", common.ErrValidation)
	}
	return s.testCaseRepo.FindByProblemSlug(ctx, problemSlug)
}

// GetOrGenerate returns the cached set for the slug or generates one via
// the LLM. At most one set exists per slug; regeneration only happens on
// an explicit force.
func (s *TestCaseService) GetOrGenerate(ctx context.Context, problemSlug, problemTitle string, force bool) (*model.TestCaseSet, error) {
	if problemSlug == "" {
		return nil, common.Errorf("problem slug is required: %w", common.ErrValidation)
	}

	if !force {
		existing, err := s.testCaseRepo.FindByProblemSlug(ctx, problemSlug)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}

	cases, err := s.generate(ctx, problemSlug, problemTitle)
	if err != nil {
		return nil, err
	}

	set := &model.TestCaseSet{
		ID:          uuid.NewString(),
		ProblemSlug: problemSlug,
		TestCases:   cases,
	}
	if err := s.testCaseRepo.Upsert(ctx, set); err != nil {
		return nil, err
	}
	return s.testCaseRepo.FindByProblemSlug(ctx, problemSlug)
}

// Save stores a caller-provided set verbatim, replacing any cached one.
func (s *TestCaseService) Save(ctx context.Context, problemSlug string, cases []model.TestCase) (*model.TestCaseSet, error) {
	if problemSlug == "" {
		return nil, common.Errorf("problem slug is required: %w", common.ErrValidation)
	}
	if len(cases) == 0 {
		return nil, common.Errorf("at least one test case is required: %w", common.ErrValidation)
	}

	set := &model.TestCaseSet{
		ID:          uuid.NewString(),
		ProblemSlug: problemSlug,
		TestCases:   cases,
	}
	if err := s.testCaseRepo.Upsert(ctx, set); err != nil {
		return nil, err
	}
	return s.testCaseRepo.FindByProblemSlug(ctx, problemSlug)
}

func (s *TestCaseService) generate(ctx context.Context, problemSlug, problemTitle string) ([]model.TestCase, error) {
	title := problemTitle
	if title == "" {
		title = problemSlug
	}
	prompt := fmt.Sprintf("Generate 5 diverse test cases for the problem %q (slug: %s). Cover edge cases.", title, problemSlug)

	raw, err := s.llm.Complete(ctx, testCaseSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	cases, perr := parseTestCases(raw)
	if perr != nil {
		s.logger.Warn().Err(perr).Str("problem_slug", problemSlug).Msg("test case response unparseable, using fallback set")
		return fallbackTestCases, nil
	}
	return cases, nil
}

// parseTestCases tolerates markdown code fences around the JSON payload,
// which some models emit despite instructions.
func parseTestCases(raw string) ([]model.TestCase, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var cases []model.TestCase
	if err := json.Unmarshal([]byte(trimmed), &cases); err != nil {
		return nil, fmt.Errorf("parse test cases: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("parse test cases: empty array")
	}
	for i, tc := range cases {
		if tc.Input == "" && tc.ExpectedOutput == "" {
			return nil, fmt.Errorf("parse test cases: entry %d is empty", i)
		}
	}
	return cases, nil
}
