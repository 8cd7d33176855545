package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footprintlab/scanner/matching"
	"github.com/footprintlab/scanner/models"
)

func newTestSearchTransformer(t *testing.T) *SearchEngineTransformer {
	t.Helper()
	resolver, _ := newTestResolver(t)
	matcher := matching.NewMatcher(newScanSubject())
	accumulator := NewAccumulator(matcher, nil, nil, nil, "", ".")
	return NewSearchEngineTransformer(matcher, resolver, accumulator, NewPipeline(10, 50, 4))
}

func TestSearchTransformMatchedImageResult(t *testing.T) {
	transformer := newTestSearchTransformer(t)

	data := SearchResultsData{Engines: []EngineData{{
		Name: models.EngineGoogle,
		Results: map[models.ResultKind][]SearchResult{
			models.ResultImage: {{
				URL:   "https://photos.example.com/gallery/jane_doe.png",
				Title: "Jane Doe at the charity gala",
			}},
		},
	}}}

	result, err := transformer.Transform(context.Background(), data)
	require.NoError(t, err)

	require.Len(t, result.NewFootprints, 1)
	footprint := result.NewFootprints[0]
	assert.Equal(t, models.FootprintImage, footprint.Type)
	require.NotNil(t, footprint.MediaPath)
	assert.Equal(t, "media/images/mock_image.png", *footprint.MediaPath)

	// title identities carry over even though the body is empty
	assert.Contains(t, result.PendingIdentities[footprint.ReferenceURL], models.IdentityName)
	assert.Len(t, result.PendingActivity[footprint.ReferenceURL], 1)
}

func TestSearchTransformUnmatchedResultCountedButDropped(t *testing.T) {
	transformer := newTestSearchTransformer(t)

	data := SearchResultsData{Engines: []EngineData{{
		Name: models.EngineBing,
		Results: map[models.ResultKind][]SearchResult{
			models.ResultWebpage: {{
				URL:     "https://news.example.com/weather",
				Title:   "Storm expected this weekend",
				Content: "Forecasters warn of heavy rain.",
			}},
		},
	}}}

	result, err := transformer.Transform(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.ItemsProcessed)
	assert.Zero(t, result.Stats.FootprintsFound)
	assert.Empty(t, result.NewFootprints)
}

func TestSearchTransformWebpageAndPDFAreText(t *testing.T) {
	transformer := newTestSearchTransformer(t)

	data := SearchResultsData{Engines: []EngineData{{
		Name: models.EngineYahoo,
		Results: map[models.ResultKind][]SearchResult{
			models.ResultWebpage: {{
				URL:     "https://blog.example.com/team",
				Content: "Our team includes Jane Doe and three engineers.",
			}},
			models.ResultPDF: {{
				URL:     "https://university.example.edu/alumni.pdf",
				Content: "Alumni directory entry for Jane Doe.",
			}},
		},
	}}}

	result, err := transformer.Transform(context.Background(), data)
	require.NoError(t, err)

	require.Len(t, result.NewFootprints, 2)
	for _, footprint := range result.NewFootprints {
		assert.Equal(t, models.FootprintText, footprint.Type)
		assert.Nil(t, footprint.MediaPath)
	}
}

func TestSearchTransformDuplicateURLResolvesOnce(t *testing.T) {
	transformer := newTestSearchTransformer(t)

	duplicate := SearchResult{
		URL:     "https://blog.example.com/profile",
		Content: "An interview with Jane Doe.",
	}
	data := SearchResultsData{Engines: []EngineData{
		{Name: models.EngineGoogle, Results: map[models.ResultKind][]SearchResult{
			models.ResultWebpage: {duplicate},
		}},
		{Name: models.EngineBing, Results: map[models.ResultKind][]SearchResult{
			models.ResultWebpage: {duplicate},
		}},
	}}

	result, err := transformer.Transform(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.FootprintsFound)
	assert.Equal(t, 1, result.Stats.NewFootprints)
	assert.Equal(t, 1, result.Stats.ExistingFootprints)
	assert.Len(t, result.NewFootprints, 1)
}

func TestFootprintTypeForResult(t *testing.T) {
	videoType, err := footprintTypeForResult(models.ResultVideo)
	require.NoError(t, err)
	assert.Equal(t, models.FootprintVideo, videoType)

	_, err = footprintTypeForResult(models.ResultKind("news"))
	assert.Error(t, err)
}
