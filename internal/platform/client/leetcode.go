package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

// LeetCodeClient proxies problem metadata from a third-party scraper API.
type LeetCodeClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLeetCodeClient(baseURL string) *LeetCodeClient {
	return &LeetCodeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *LeetCodeClient) GetProblem(ctx context.Context, slug string) (*model.Problem, error) {
	endpoint := c.baseURL + "/select?titleSlug=" + url.QueryEscape(slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("leetcode build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leetcode request failed: %w", common.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("problem %q: %w", slug, common.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leetcode status %d: %w", resp.StatusCode, common.ErrUpstream)
	}

	var raw struct {
		TitleSlug     string `json:"titleSlug"`
		QuestionTitle string `json:"questionTitle"`
		Difficulty    string `json:"difficulty"`
		Question      string `json:"question"`
		TopicTags     []struct {
			Name string `json:"name"`
		} `json:"topicTags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("leetcode decode response: %w", common.ErrUpstream)
	}
	if raw.TitleSlug == "" {
		return nil, fmt.Errorf("problem %q: %w", slug, common.ErrNotFound)
	}

	problem := &model.Problem{
		Slug:       raw.TitleSlug,
		Title:      raw.QuestionTitle,
		Difficulty: raw.Difficulty,
		Content:    raw.Question,
	}
	for _, t := range raw.TopicTags {
		problem.Topics = append(problem.Topics, t.Name)
	}
	return problem, nil
}
