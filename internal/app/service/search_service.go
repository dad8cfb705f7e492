package service

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"

	"github.com/sahilm/fuzzy"
)

//go:embed problems.json
var problemDataset []byte

// SearchService does in-memory fuzzy matching over a static problem
// dataset, returning the best ten matches.
type SearchService struct {
	problems []model.ProblemSummary
	titles   titleSource
}

type titleSource []model.ProblemSummary

func (t titleSource) String(i int) string { return t[i].Title }
func (t titleSource) Len() int            { return len(t) }

func NewSearchService() (*SearchService, error) {
	var problems []model.ProblemSummary
	if err := json.Unmarshal(problemDataset, &problems); err != nil {
		return nil, fmt.Errorf("failed to load problem dataset: %w", err)
	}
	return &SearchService{problems: problems, titles: titleSource(problems)}, nil
}

const maxSearchResults = 10

func (s *SearchService) Search(query string) ([]model.ProblemSummary, error) {
	if query == "" {
		return nil, common.Errorf("query is required: %w", common.ErrValidation)
	}

	matches := fuzzy.FindFrom(query, s.titles)
	if len(matches) > maxSearchResults {
		matches = matches[:maxSearchResults]
	}

	results := make([]model.ProblemSummary, 0, len(matches))
	for _, m := range matches {
		results = append(results, s.problems[m.Index])
	}
	return results, nil
}
