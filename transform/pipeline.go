package transform

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Pipeline bounds the concurrency of batch processing. Items are split into
// chunks; chunks run concurrently while items within a chunk run strictly
// sequentially, which keeps the content-analysis routines from competing
// with each other.
type Pipeline struct {
	MinChunkSize        int
	MaxChunkSize        int
	MaxConcurrentChunks int
}

func NewPipeline(minChunkSize, maxChunkSize, maxConcurrentChunks int) Pipeline {
	if minChunkSize <= 0 {
		minChunkSize = 10
	}
	if maxChunkSize < minChunkSize {
		maxChunkSize = minChunkSize
	}
	if maxConcurrentChunks <= 0 {
		maxConcurrentChunks = 8
	}
	return Pipeline{
		MinChunkSize:        minChunkSize,
		MaxChunkSize:        maxChunkSize,
		MaxConcurrentChunks: maxConcurrentChunks,
	}
}

// ChunkSize picks a chunk size targeting at most MaxConcurrentChunks
// concurrently running chunks, bounded to [MinChunkSize, MaxChunkSize].
func (p Pipeline) ChunkSize(totalItems int) int {
	targetChunks := runtime.GOMAXPROCS(0)
	if targetChunks > p.MaxConcurrentChunks {
		targetChunks = p.MaxConcurrentChunks
	}
	if targetChunks < 1 {
		targetChunks = 1
	}

	size := totalItems / targetChunks
	if size < p.MinChunkSize {
		size = p.MinChunkSize
	}
	if size > p.MaxChunkSize {
		size = p.MaxChunkSize
	}
	return size
}

func chunkItems[T any](items []T, chunkSize int) [][]T {
	var chunks [][]T
	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// ProcessAll runs process over every item with chunked scatter/gather and
// merges the per-chunk results. A failing or panicking item is logged and
// skipped; a chunk that fails outside the per-item guard drops its whole
// contribution. Neither aborts the batch.
func ProcessAll[T any](ctx context.Context, p Pipeline, items []T, process func(context.Context, T) (*Result, error)) *Result {
	main := NewResult()
	if len(items) == 0 {
		return main
	}

	chunkSize := p.ChunkSize(len(items))
	chunks := chunkItems(items, chunkSize)
	log.Printf("pipeline: processing %d items in %d chunks of size ~%d", len(items), len(chunks), chunkSize)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(p.MaxConcurrentChunks)

	for _, chunk := range chunks {
		g.Go(func() error {
			chunkResult, ok := processChunk(ctx, chunk, process)
			if !ok {
				return nil
			}
			mu.Lock()
			main.Merge(chunkResult)
			mu.Unlock()
			return nil
		})
	}

	// workers never return errors; failures become dropped contributions
	_ = g.Wait()
	return main
}

func processChunk[T any](ctx context.Context, chunk []T, process func(context.Context, T) (*Result, error)) (result *Result, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline: chunk failed, dropping its contribution: %v", r)
			result, ok = nil, false
		}
	}()

	result = NewResult()
	for _, item := range chunk {
		if ctx.Err() != nil {
			log.Printf("pipeline: context canceled, abandoning remaining chunk items: %v", ctx.Err())
			break
		}
		itemResult, err := processItem(ctx, item, process)
		if err != nil {
			log.Printf("pipeline: error processing item: %v", err)
			continue
		}
		result.Merge(itemResult)
	}
	return result, true
}

func processItem[T any](ctx context.Context, item T, process func(context.Context, T) (*Result, error)) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("item panicked: %v", r)
		}
	}()
	return process(ctx, item)
}
