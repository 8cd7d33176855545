package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/footprintlab/scanner/models"
)

type stubSocial struct {
	result *Result
	err    error
}

func (s stubSocial) Transform(context.Context, SocialMediaData) (*Result, error) {
	return s.result, s.err
}

type stubSearch struct {
	result *Result
	err    error
}

func (s stubSearch) Transform(context.Context, SearchResultsData) (*Result, error) {
	return s.result, s.err
}

type panickingSocial struct{}

func (panickingSocial) Transform(context.Context, SocialMediaData) (*Result, error) {
	panic("unexpected record shape")
}

func countedResult(items int) *Result {
	result := NewResult()
	result.Stats.ItemsProcessed = items
	return result
}

func TestUnifiedTransformMergesBothContributions(t *testing.T) {
	unified := &UnifiedTransformer{
		social: stubSocial{result: countedResult(2)},
		search: stubSearch{result: countedResult(3)},
	}

	merged := unified.Transform(context.Background(), Dataset{})
	assert.Equal(t, 5, merged.Stats.ItemsProcessed)
}

func TestUnifiedTransformDropsFailedTransformer(t *testing.T) {
	unified := &UnifiedTransformer{
		social: stubSocial{err: errors.New("malformed platform data")},
		search: stubSearch{result: countedResult(3)},
	}

	merged := unified.Transform(context.Background(), Dataset{})
	assert.Equal(t, 3, merged.Stats.ItemsProcessed)
}

func TestUnifiedTransformSurvivesPanickingTransformer(t *testing.T) {
	unified := &UnifiedTransformer{
		social: panickingSocial{},
		search: stubSearch{result: countedResult(3)},
	}

	merged := unified.Transform(context.Background(), Dataset{})
	assert.Equal(t, 3, merged.Stats.ItemsProcessed)
}

func TestSummarizeCountsDistinctSources(t *testing.T) {
	result := NewResult()
	result.NewFootprints = []*models.Footprint{
		{ReferenceURL: "https://a.example.com/1", SourceID: 1},
		{ReferenceURL: "https://a.example.com/2", SourceID: 1},
		{ReferenceURL: "https://b.example.com/1", SourceID: 2},
	}
	result.Stats.FootprintsFound = 3

	summary := Summarize(result)
	assert.Equal(t, 2, summary.SourcesWithData)
	assert.Equal(t, 3, summary.TotalFootprints)
}
