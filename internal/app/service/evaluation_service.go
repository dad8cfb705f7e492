package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/rs/zerolog"
)

// EvaluationService asks the LLM to judge code against test cases without
// executing it. Used when the sandbox is unavailable or for languages it
// does not support.
type EvaluationService struct {
	llm    Completer
	logger zerolog.Logger
}

func NewEvaluationService(llm Completer, logger zerolog.Logger) *EvaluationService {
	return &EvaluationService{llm: llm, logger: logger}
}

type EvaluateRequest struct {
	Code      string           `json:"code"`
	Language  string           `json:"language"`
	TestCases []model.TestCase `json:"testCases"`
}

type EvaluateVerdict struct {
	TestCase model.TestCase `json:"testCase"`
	Passed   bool           `json:"passed"`
	Reason   string         `json:"reason,omitempty"`
}

type EvaluateResponse struct {
	Verdicts []EvaluateVerdict `json:"verdicts"`
	Feedback string            `json:"feedback"`
}

const evaluateSystemPrompt = `You judge whether code would pass test cases WITHOUT running it.
Respond with ONLY JSON: {"verdicts":[{"passed":bool,"reason":string}...],"feedback":string}.
One verdict per test case, in order. No prose, no markdown fences.`

func (s *EvaluationService) Evaluate(ctx context.Context, req EvaluateRequest) (*EvaluateResponse, error) {
	if req.Code == "" {
		return nil, common.Errorf("code is required: %w", common.ErrValidation)
	}
	if len(req.TestCases) == 0 {
		return nil, common.Errorf("at least one test case is required: %w", common.ErrValidation)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Language: %s\n\nCode:\n%s\n\nTest cases:\n", req.Language, req.Code)
	for i, tc := range req.TestCases {
		fmt.Fprintf(&sb, "%d. input: %q expected: %q\n", i+1, tc.Input, tc.ExpectedOutput)
	}

	raw, err := s.llm.Complete(ctx, evaluateSystemPrompt, sb.String())
	if err != nil {
		return nil, err
	}

	parsed, err := parseVerdicts(raw, len(req.TestCases))
	if err != nil {
		s.logger.Warn().Err(err).Msg("evaluation response unparseable")
		return nil, common.Errorf("evaluation response unparseable: %w", common.ErrUpstream)
	}

	resp := &EvaluateResponse{Feedback: parsed.Feedback}
	for i, v := range parsed.Verdicts {
		resp.Verdicts = append(resp.Verdicts, EvaluateVerdict{
			TestCase: req.TestCases[i],
			Passed:   v.Passed,
			Reason:   v.Reason,
		})
	}
	return resp, nil
}

type rawEvaluation struct {
	Verdicts []struct {
		Passed bool   `json:"passed"`
		Reason string `json:"reason"`
	} `json:"verdicts"`
	Feedback string `json:"feedback"`
}

func parseVerdicts(raw string, expected int) (*rawEvaluation, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var parsed rawEvaluation
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, fmt.Errorf("parse verdicts: %w", err)
	}
	if len(parsed.Verdicts) != expected {
		return nil, fmt.Errorf("parse verdicts: got %d verdicts for %d test cases", len(parsed.Verdicts), expected)
	}
	return &parsed, nil
}
