package transform

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"
)

// UnifiedSummary aggregates counts across both transformers.
type UnifiedSummary struct {
	SourcesWithData int   `json:"sources_with_data"`
	TotalFootprints int   `json:"total_footprints"`
	Stats           Stats `json:"stats"`
}

// socialSource and searchSource are what the unification layer needs from
// the per-source transformers.
type socialSource interface {
	Transform(ctx context.Context, data SocialMediaData) (*Result, error)
}

type searchSource interface {
	Transform(ctx context.Context, data SearchResultsData) (*Result, error)
}

// UnifiedTransformer fans out to the social media and search engine
// transformers concurrently and merges their outputs. A failure or panic in
// one transformer is logged and its contribution dropped; the other still
// completes.
type UnifiedTransformer struct {
	social socialSource
	search searchSource
}

func NewUnifiedTransformer(social *SocialMediaTransformer, search *SearchEngineTransformer) *UnifiedTransformer {
	return &UnifiedTransformer{social: social, search: search}
}

// Transform runs both transformers over the dataset and merges the results.
func (t *UnifiedTransformer) Transform(ctx context.Context, dataset Dataset) *Result {
	var socialResult, searchResult *Result

	var g errgroup.Group
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("unified: social media transformation panicked, dropping its contribution: %v", r)
			}
		}()
		result, err := t.social.Transform(ctx, dataset.SocialMedia)
		if err != nil {
			log.Printf("unified: social media transformation failed: %v", err)
			return nil
		}
		socialResult = result
		return nil
	})
	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("unified: search engine transformation panicked, dropping its contribution: %v", r)
			}
		}()
		result, err := t.search.Transform(ctx, dataset.SearchResults)
		if err != nil {
			log.Printf("unified: search engine transformation failed: %v", err)
			return nil
		}
		searchResult = result
		return nil
	})

	// failures surface as nil results, never as group errors
	_ = g.Wait()

	merged := NewResult()
	merged.Merge(socialResult)
	merged.Merge(searchResult)

	log.Printf("unified: transformation complete: %+v", merged.Stats)
	return merged
}

// Summarize rolls a merged result up into overall totals. Sources with data
// are counted as distinct source IDs across the new footprints.
func Summarize(result *Result) UnifiedSummary {
	sources := make(map[uint]struct{})
	for _, footprint := range result.NewFootprints {
		sources[footprint.SourceID] = struct{}{}
	}
	return UnifiedSummary{
		SourcesWithData: len(sources),
		TotalFootprints: result.Stats.FootprintsFound,
		Stats:           result.Stats,
	}
}
