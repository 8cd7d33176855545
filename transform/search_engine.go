package transform

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/footprintlab/scanner/matching"
	"github.com/footprintlab/scanner/models"
)

// SearchEngineTransformer correlates search engine results with the subject.
// Results carry no author, so only free-text matching applies.
type SearchEngineTransformer struct {
	matcher     *matching.Matcher
	resolver    *Resolver
	accumulator *Accumulator
	pipeline    Pipeline
}

func NewSearchEngineTransformer(
	matcher *matching.Matcher,
	resolver *Resolver,
	accumulator *Accumulator,
	pipeline Pipeline,
) *SearchEngineTransformer {
	return &SearchEngineTransformer{
		matcher:     matcher,
		resolver:    resolver,
		accumulator: accumulator,
		pipeline:    pipeline,
	}
}

type resultItem struct {
	engine models.Engine
	kind   models.ResultKind
	result SearchResult
}

// Transform flattens the per-engine result buckets into tagged items and
// runs them through the batch pipeline.
func (t *SearchEngineTransformer) Transform(ctx context.Context, data SearchResultsData) (*Result, error) {
	result := NewResult()
	if len(data.Engines) == 0 {
		log.Printf("search: no engine data present")
		return result, nil
	}

	var items []resultItem
	for _, engine := range data.Engines {
		for kind, results := range engine.Results {
			for _, searchResult := range results {
				items = append(items, resultItem{engine: engine.Name, kind: kind, result: searchResult})
			}
		}
	}
	log.Printf("search: collected %d results across %d engines", len(items), len(data.Engines))

	result.Merge(ProcessAll(ctx, t.pipeline, items, t.processResult))
	return result, nil
}

func (t *SearchEngineTransformer) processResult(ctx context.Context, item resultItem) (*Result, error) {
	result := NewResult()
	result.Stats.ItemsProcessed++

	searchResult := item.result
	if searchResult.URL == "" {
		log.Printf("search: result from %s missing URL, skipping", item.engine)
		return result, nil
	}

	footprintType, err := footprintTypeForResult(item.kind)
	if err != nil {
		return nil, err
	}

	if !t.matcher.MatchesFreeText(matching.TextFields{
		Title:       searchResult.Title,
		Content:     searchResult.Content,
		URL:         searchResult.URL,
		Description: searchResult.Description,
	}) {
		return result, nil
	}

	mediaHint := ""
	if footprintType == models.FootprintImage || footprintType == models.FootprintVideo {
		mediaHint = searchResult.URL
	}

	footprint, isNew, err := t.resolver.Resolve(ctx, searchResult.URL, footprintType, mediaHint)
	if err != nil {
		return nil, err
	}
	result.Stats.FootprintsFound++
	if isNew {
		result.NewFootprints = append(result.NewFootprints, footprint)
		result.Stats.NewFootprints++
	} else {
		result.Stats.ExistingFootprints++
	}

	identities := t.accumulator.IdentitiesInText(
		searchResult.Title + " " + searchResult.Description + " " + searchResult.Content)

	if footprint.MediaPath != nil &&
		(footprintType == models.FootprintImage || footprintType == models.FootprintVideo) {
		media := t.accumulator.AnalyzeMedia(*footprint.MediaPath, footprintType)
		identities = append(identities, media.Identities...)
		result.Stats.MediaFilesProcessed++
		if media.FaceMatchFound {
			result.Stats.FaceMatchesFound++
		}
		if media.Transcript != "" {
			result.Stats.VideosTranscribed++
		}
	}

	for _, kind := range identities {
		if result.TrackPendingIdentity(footprint, kind) {
			result.Stats.IdentitiesDetected++
		}
	}

	// search results carry no timestamp of their own
	result.TrackPendingActivity(footprint, time.Now())
	return result, nil
}

func footprintTypeForResult(kind models.ResultKind) (models.FootprintType, error) {
	switch kind {
	case models.ResultImage:
		return models.FootprintImage, nil
	case models.ResultVideo:
		return models.FootprintVideo, nil
	case models.ResultWebpage, models.ResultPDF:
		return models.FootprintText, nil
	default:
		return "", fmt.Errorf("unknown result kind %q", kind)
	}
}
