package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when a key is absent. Callers must treat any
// other cache error the same way a miss is treated (fall through to storage)
// rather than aborting.
var ErrMiss = errors.New("cache: key not found")

// Cache is the minimal key-value contract consumed by the pipeline.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SubjectKey builds the cache key for a subject record.
func SubjectKey(subjectID uint) string {
	return fmt.Sprintf("subject:%d", subjectID)
}

// SourceKey builds the cache key for a source, keyed by its domain.
func SourceKey(domain string) string {
	return fmt.Sprintf("source:%s", domain)
}

// FootprintKey builds the composite cache key for a footprint natural key.
// mediaPath must already be sentinel-normalized (models.MediaPathOrSentinel).
func FootprintKey(referenceURL, mediaPath string) string {
	return fmt.Sprintf("footprint:%s:%s", referenceURL, mediaPath)
}
