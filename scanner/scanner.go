package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/footprintlab/scanner/analysis"
	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/config"
	"github.com/footprintlab/scanner/load"
	"github.com/footprintlab/scanner/matching"
	"github.com/footprintlab/scanner/models"
	"github.com/footprintlab/scanner/repository"
	"github.com/footprintlab/scanner/transform"
)

// Scanner wires the full pipeline for one dataset: subject lookup, matching,
// transformation and load.
type Scanner struct {
	db          *gorm.DB
	entities    *cache.EntityCache
	subjects    repository.SubjectRepositoryInterface
	sources     repository.SourceRepositoryInterface
	footprints  repository.FootprintRepositoryInterface
	images      analysis.ImageMatcher
	videos      analysis.VideoMatcher
	transcriber analysis.Transcriber
	cfg         config.Config
}

func New(
	db *gorm.DB,
	entities *cache.EntityCache,
	images analysis.ImageMatcher,
	videos analysis.VideoMatcher,
	transcriber analysis.Transcriber,
	cfg config.Config,
) *Scanner {
	return &Scanner{
		db:          db,
		entities:    entities,
		subjects:    repository.NewSubjectRepository(db),
		sources:     repository.NewSourceRepository(db),
		footprints:  repository.NewFootprintRepository(db),
		images:      images,
		videos:      videos,
		transcriber: transcriber,
		cfg:         cfg,
	}
}

// StageSummary reports one pipeline stage's lifecycle.
type StageSummary struct {
	Status   models.Status `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Summary is the combined outcome of one scan run.
type Summary struct {
	RunID           string                   `json:"run_id"`
	SubjectID       uint                     `json:"subject_id"`
	SubjectName     string                   `json:"subject_name"`
	SubjectEmail    string                   `json:"subject_email"`
	Transformation  StageSummary             `json:"transformation"`
	Transform       transform.UnifiedSummary `json:"transform_summary"`
	Load            load.Summary             `json:"load_summary"`
	PipelineSuccess bool                     `json:"pipeline_success"`
}

// Scan runs the full pipeline over a dataset for one subject: transform the
// record stream into footprints and pending facts, then persist them. The
// returned summary is populated even when the load phase fails.
func (s *Scanner) Scan(ctx context.Context, subjectID uint, dataset transform.Dataset) (*Summary, error) {
	runID := uuid.NewString()
	log.Printf("scanner: run %s starting for subject %d", runID, subjectID)

	subject, err := s.LoadSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:        runID,
		SubjectID:    subject.ID,
		SubjectName:  subject.FullName(),
		SubjectEmail: subject.Email,
	}

	matcher := matching.NewMatcher(subject)
	usernames := matching.NewUsernameRegistry()
	resolver := transform.NewResolver(s.entities, s.sources, s.footprints, false)
	accumulator := transform.NewAccumulator(
		matcher, s.images, s.videos, s.transcriber,
		subject.ReferencePicturePath(), s.cfg.MediaRootDir,
	)
	pipeline := transform.NewPipeline(s.cfg.MinChunkSize, s.cfg.MaxChunkSize, s.cfg.MaxConcurrentChunks)

	unified := transform.NewUnifiedTransformer(
		transform.NewSocialMediaTransformer(matcher, usernames, resolver, accumulator, pipeline),
		transform.NewSearchEngineTransformer(matcher, resolver, accumulator, pipeline),
	)

	transformStart := time.Now()
	summary.Transformation.Status = models.StatusInProgress
	result := unified.Transform(ctx, dataset)
	summary.Transformation.Status = models.StatusCompleted
	summary.Transformation.Duration = time.Since(transformStart)
	summary.Transform = transform.Summarize(result)

	loader := load.NewLoader(s.db, subject, s.entities)
	_, loadErr := loader.Load(ctx, result)
	summary.Load = loader.Summarize()
	summary.PipelineSuccess = summary.Transformation.Status == models.StatusCompleted && summary.Load.Success

	if loadErr != nil {
		return summary, fmt.Errorf("run %s: %w", runID, loadErr)
	}
	log.Printf("scanner: run %s completed for subject %d", runID, subjectID)
	return summary, nil
}

// LoadSubject fetches a subject cache-first with storage fallback and cache
// write-back. Cache failures degrade to the storage tier; a miss in both
// tiers surfaces as not found.
func (s *Scanner) LoadSubject(ctx context.Context, subjectID uint) (*models.Subject, error) {
	cached, err := s.entities.GetSubject(ctx, subjectID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("scanner: subject cache lookup failed for %d: %v", subjectID, err)
	}

	subject, err := s.subjects.GetByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("subject %d not found", subjectID)
		}
		return nil, fmt.Errorf("subject lookup %d: %w", subjectID, err)
	}

	if cacheErr := s.entities.SetSubject(ctx, subject); cacheErr != nil {
		log.Printf("scanner: failed to cache subject %d: %v", subjectID, cacheErr)
	}
	return subject, nil
}
