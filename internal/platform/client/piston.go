package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeclash/internal/common"
)

// PistonClient talks to a Piston-compatible remote execution sandbox.
type PistonClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPistonClient(baseURL string) *PistonClient {
	return &PistonClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type pistonFile struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// pistonRequest is the full ("complex") request shape. The simple shape
// omits version and file names; some deployments reject one or the other,
// so callers try simple-first with a complex fallback.
type pistonRequest struct {
	Language       string       `json:"language"`
	Version        string       `json:"version,omitempty"`
	Files          []pistonFile `json:"files"`
	Stdin          string       `json:"stdin,omitempty"`
	CompileTimeout int          `json:"compile_timeout,omitempty"`
	RunTimeout     int          `json:"run_timeout,omitempty"`
}

type pistonStage struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Code   *int   `json:"code"`
	Signal string `json:"signal"`
}

type pistonResponse struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Compile  *pistonStage `json:"compile,omitempty"`
	Run      pistonStage  `json:"run"`
	Message  string       `json:"message,omitempty"`
}

type ExecutionOutcome struct {
	Stdout        string
	Stderr        string
	CompileOutput string
	ExitCode      int
}

type ExecuteParams struct {
	Language         string
	Version          string
	Code             string
	Stdin            string
	CompileTimeoutMs int
	RunTimeoutMs     int
	Complex          bool // include version and file name in the request
}

// Execute runs one piece of code against one stdin in the sandbox.
func (c *PistonClient) Execute(ctx context.Context, params ExecuteParams) (*ExecutionOutcome, error) {
	req := pistonRequest{
		Language:       params.Language,
		Files:          []pistonFile{{Content: params.Code}},
		Stdin:          params.Stdin,
		CompileTimeout: params.CompileTimeoutMs,
		RunTimeout:     params.RunTimeoutMs,
	}
	if params.Complex {
		req.Version = params.Version
		if req.Version == "" {
			req.Version = "*"
		}
		req.Files[0].Name = "main"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("piston marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("piston build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("piston request failed: %w", common.ErrUpstream)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("piston read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("piston rate limited: %w", common.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("piston status %d: %s: %w", resp.StatusCode, string(body), common.ErrUpstream)
	}

	var out pistonResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("piston decode response: %w", err)
	}
	if out.Message != "" {
		return nil, fmt.Errorf("piston error: %s: %w", out.Message, common.ErrUpstream)
	}

	outcome := &ExecutionOutcome{
		Stdout: out.Run.Stdout,
		Stderr: out.Run.Stderr,
	}
	if out.Run.Code != nil {
		outcome.ExitCode = *out.Run.Code
	}
	if out.Compile != nil {
		outcome.CompileOutput = out.Compile.Output
	}
	return outcome, nil
}
