package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/footprintlab/scanner/models"
)

// TTLSet groups per-entity expirations; sources change rarely so they live
// longer than subject data.
type TTLSet struct {
	Subject   time.Duration
	Source    time.Duration
	Footprint time.Duration
}

// EntityCache provides typed get/set over a raw Cache using JSON encoding.
type EntityCache struct {
	Cache Cache
	TTLs  TTLSet
}

func NewEntityCache(c Cache, ttls TTLSet) *EntityCache {
	return &EntityCache{Cache: c, TTLs: ttls}
}

// GetSubject returns the cached subject, or ErrMiss.
func (ec *EntityCache) GetSubject(ctx context.Context, subjectID uint) (*models.Subject, error) {
	data, err := ec.Cache.Get(ctx, SubjectKey(subjectID))
	if err != nil {
		return nil, err
	}
	var subject models.Subject
	if err := json.Unmarshal(data, &subject); err != nil {
		return nil, fmt.Errorf("decode cached subject %d: %w", subjectID, err)
	}
	return &subject, nil
}

func (ec *EntityCache) SetSubject(ctx context.Context, subject *models.Subject) error {
	data, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("encode subject %d: %w", subject.ID, err)
	}
	return ec.Cache.Set(ctx, SubjectKey(subject.ID), data, ec.TTLs.Subject)
}

func (ec *EntityCache) DeleteSubject(ctx context.Context, subjectID uint) error {
	return ec.Cache.Delete(ctx, SubjectKey(subjectID))
}

// GetSource returns the cached source for a domain, or ErrMiss.
func (ec *EntityCache) GetSource(ctx context.Context, domain string) (*models.Source, error) {
	data, err := ec.Cache.Get(ctx, SourceKey(domain))
	if err != nil {
		return nil, err
	}
	var source models.Source
	if err := json.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("decode cached source %s: %w", domain, err)
	}
	return &source, nil
}

func (ec *EntityCache) SetSource(ctx context.Context, source *models.Source) error {
	data, err := json.Marshal(source)
	if err != nil {
		return fmt.Errorf("encode source %s: %w", source.URL, err)
	}
	return ec.Cache.Set(ctx, SourceKey(source.URL), data, ec.TTLs.Source)
}

// GetFootprint returns the cached footprint for a natural key, or ErrMiss.
// mediaPath is the raw optional media path; sentinel handling happens here.
func (ec *EntityCache) GetFootprint(ctx context.Context, referenceURL string, mediaPath *string) (*models.Footprint, error) {
	key := FootprintKey(referenceURL, models.MediaPathOrSentinel(mediaPath))
	data, err := ec.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var footprint models.Footprint
	if err := json.Unmarshal(data, &footprint); err != nil {
		return nil, fmt.Errorf("decode cached footprint %s: %w", referenceURL, err)
	}
	return &footprint, nil
}

func (ec *EntityCache) SetFootprint(ctx context.Context, footprint *models.Footprint) error {
	data, err := json.Marshal(footprint)
	if err != nil {
		return fmt.Errorf("encode footprint %s: %w", footprint.ReferenceURL, err)
	}
	key := FootprintKey(footprint.ReferenceURL, footprint.MediaPathOrSentinel())
	return ec.Cache.Set(ctx, key, data, ec.TTLs.Footprint)
}
