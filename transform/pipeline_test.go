package transform

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func countingProcess(ctx context.Context, item int) (*Result, error) {
	result := NewResult()
	result.Stats.ItemsProcessed++
	return result, nil
}

func TestProcessAllCountsEveryItemAtAnyChunkSize(t *testing.T) {
	items := make([]int, 137)
	for i := range items {
		items[i] = i
	}

	for chunkSize := 1; chunkSize <= len(items); chunkSize++ {
		pipeline := NewPipeline(chunkSize, chunkSize, 8)
		result := ProcessAll(context.Background(), pipeline, items, countingProcess)
		assert.Equal(t, len(items), result.Stats.ItemsProcessed, "chunk size %d", chunkSize)
	}
}

func TestProcessAllEmptyInput(t *testing.T) {
	pipeline := NewPipeline(10, 50, 8)
	result := ProcessAll(context.Background(), pipeline, nil, countingProcess)
	assert.Equal(t, 0, result.Stats.ItemsProcessed)
	assert.Empty(t, result.NewFootprints)
}

func TestProcessAllSkipsFailingItems(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	process := func(ctx context.Context, item int) (*Result, error) {
		if item%2 == 0 {
			return nil, errors.New("boom")
		}
		result := NewResult()
		result.Stats.ItemsProcessed++
		return result, nil
	}

	pipeline := NewPipeline(2, 2, 4)
	result := ProcessAll(context.Background(), pipeline, items, process)
	assert.Equal(t, 3, result.Stats.ItemsProcessed)
}

func TestProcessAllSurvivesPanickingItems(t *testing.T) {
	items := []int{1, 2, 3}
	process := func(ctx context.Context, item int) (*Result, error) {
		if item == 2 {
			panic("unexpected record shape")
		}
		result := NewResult()
		result.Stats.ItemsProcessed++
		return result, nil
	}

	pipeline := NewPipeline(10, 10, 2)
	result := ProcessAll(context.Background(), pipeline, items, process)
	assert.Equal(t, 2, result.Stats.ItemsProcessed)
}

func TestChunkSizeBounds(t *testing.T) {
	pipeline := NewPipeline(10, 50, 8)

	assert.Equal(t, 10, pipeline.ChunkSize(5), "small inputs clamp to the minimum")
	assert.Equal(t, 50, pipeline.ChunkSize(10000), "large inputs clamp to the maximum")

	size := pipeline.ChunkSize(200)
	assert.GreaterOrEqual(t, size, 10)
	assert.LessOrEqual(t, size, 50)
}

func TestChunkItemsCoversAllItems(t *testing.T) {
	items := make([]string, 23)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}

	chunks := chunkItems(items, 5)
	assert.Len(t, chunks, 5)

	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
		assert.LessOrEqual(t, len(chunk), 5)
	}
	assert.Equal(t, len(items), total)
}
