package service

import (
	"errors"
	"testing"

	"codeclash/internal/common"
)

func TestSearch(t *testing.T) {
	svc, err := NewSearchService()
	if err != nil {
		t.Fatalf("failed to load dataset: %v", err)
	}

	t.Run("finds a problem by partial title", func(t *testing.T) {
		results, err := svc.Search("two sum")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) == 0 {
			t.Fatal("expected at least one result")
		}
		if results[0].Slug != "two-sum" {
			t.Errorf("expected two-sum as best match, got %q", results[0].Slug)
		}
	})

	t.Run("tolerates fuzzy input", func(t *testing.T) {
		results, err := svc.Search("min stck")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, r := range results {
			if r.Slug == "min-stack" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected min-stack among matches, got %v", results)
		}
	})

	t.Run("caps results at ten", func(t *testing.T) {
		// A single common letter matches a large share of the dataset.
		results, err := svc.Search("e")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) > 10 {
			t.Errorf("expected at most 10 results, got %d", len(results))
		}
	})

	t.Run("empty query is a validation error", func(t *testing.T) {
		_, err := svc.Search("")
		if !errors.Is(err, common.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("no matches yields an empty list, not an error", func(t *testing.T) {
		results, err := svc.Search("zzzzqqqqxxxx")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %v", results)
		}
	})
}
