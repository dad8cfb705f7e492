package service

import (
	"context"
	"strings"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
	"codeclash/internal/platform/client"
	"codeclash/internal/platform/config"

	"github.com/rs/zerolog"
)

// Executor is the sandbox surface the service needs; satisfied by
// client.PistonClient.
type Executor interface {
	Execute(ctx context.Context, params client.ExecuteParams) (*client.ExecutionOutcome, error)
}

type ExecutionService struct {
	executor Executor
	logger   zerolog.Logger
}

func NewExecutionService(executor Executor, logger zerolog.Logger) *ExecutionService {
	return &ExecutionService{executor: executor, logger: logger}
}

type ExecuteRequest struct {
	Code      string           `json:"code"`
	Language  string           `json:"language"`
	TestCases []model.TestCase `json:"testCases"`
}

type TestCaseResult struct {
	TestCase        model.TestCase `json:"testCase"`
	Passed          bool           `json:"passed"`
	ActualOutput    string         `json:"actualOutput"`
	ExpectedOutput  string         `json:"expectedOutput"`
	Error           string         `json:"error,omitempty"`
	ExecutionTimeMs int64          `json:"executionTime"`
}

type ExecuteResponse struct {
	Results []TestCaseResult `json:"results"`
}

// Run executes the code against each test case sequentially, with a fixed
// delay between sandbox calls to stay under the upstream rate limit. The
// first sandbox rejection triggers one retry with the complex request
// shape; once a shape works it is kept for the rest of the loop.
func (s *ExecutionService) Run(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	if req.Code == "" || req.Language == "" {
		return nil, common.Errorf("code and language are required: %w", common.ErrValidation)
	}
	if len(req.TestCases) == 0 {
		return nil, common.Errorf("at least one test case is required: %w", common.ErrValidation)
	}

	delay := time.Duration(config.AppConfig.ExecuteDelayMs) * time.Millisecond
	complexShape := false

	results := make([]TestCaseResult, 0, len(req.TestCases))
	for i, tc := range req.TestCases {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		outcome, err := s.executeOne(ctx, req, tc, &complexShape)
		result := TestCaseResult{
			TestCase:       tc,
			ExpectedOutput: tc.ExpectedOutput,
		}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.ActualOutput = strings.TrimSpace(outcome.Stdout)
			result.Passed = result.ActualOutput == strings.TrimSpace(tc.ExpectedOutput)
			result.ExecutionTimeMs = outcome.DurationMs
			if outcome.Stderr != "" && !result.Passed {
				result.Error = outcome.Stderr
			}
		}
		results = append(results, result)
	}

	return &ExecuteResponse{Results: results}, nil
}

type timedOutcome struct {
	Stdout     string
	Stderr     string
	DurationMs int64
}

func (s *ExecutionService) executeOne(ctx context.Context, req ExecuteRequest, tc model.TestCase, complexShape *bool) (*timedOutcome, error) {
	params := client.ExecuteParams{
		Language:         req.Language,
		Code:             req.Code,
		Stdin:            tc.Input,
		CompileTimeoutMs: config.AppConfig.CompileTimeoutMs,
		RunTimeoutMs:     config.AppConfig.RunTimeoutMs,
		Complex:          *complexShape,
	}

	start := time.Now()
	outcome, err := s.executor.Execute(ctx, params)
	if err != nil && !*complexShape {
		// Some deployments reject the simple shape outright; retry once
		// with the full one and keep it for the remaining cases.
		s.logger.Debug().Err(err).Msg("simple execution shape rejected, retrying complex")
		params.Complex = true
		outcome, err = s.executor.Execute(ctx, params)
		if err == nil {
			*complexShape = true
		}
	}
	if err != nil {
		return nil, err
	}

	return &timedOutcome{
		Stdout:     outcome.Stdout,
		Stderr:     outcome.Stderr,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}
