package transform

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/models"
	"github.com/footprintlab/scanner/repository"
)

// mock media placeholders backing resolved footprints
const (
	imageMediaDir     = "media/images"
	videoMediaDir     = "media/videos"
	defaultImageMedia = "media/images/mock_image.jpg"
	defaultVideoMedia = "media/videos/mock_video.mp4"
	audioMedia        = "media/audios/mock_audio.mp3"

	unknownDomain = "unknown.com"
)

// Resolver turns matched records into canonical footprints via cache-first
// get-or-create. New footprints are returned unpersisted; the load phase
// writes them. Sources however are created eagerly so footprints can carry
// a source ID.
type Resolver struct {
	entities   *cache.EntityCache
	sources    repository.SourceRepositoryInterface
	footprints repository.FootprintRepositoryInterface

	// deriveIDs assigns deterministic hash IDs to new footprints instead
	// of leaving assignment to the database
	deriveIDs bool

	// pending holds the footprints built during this run that have no
	// storage row yet, keyed by natural key. The shared cache only ever
	// holds persisted footprints; these stay resolver-local so a failed
	// load leaves nothing behind for later runs.
	mu      sync.Mutex
	pending map[string]*models.Footprint
}

func NewResolver(
	entities *cache.EntityCache,
	sources repository.SourceRepositoryInterface,
	footprints repository.FootprintRepositoryInterface,
	deriveIDs bool,
) *Resolver {
	return &Resolver{
		entities:   entities,
		sources:    sources,
		footprints: footprints,
		deriveIDs:  deriveIDs,
		pending:    make(map[string]*models.Footprint),
	}
}

// Resolve returns the canonical footprint for a reference URL, reporting
// whether it is new. Lookup order is the run's pending footprints, cache,
// storage, create. Cache failures of any kind degrade to a miss; a storage
// error other than not-found propagates, since proceeding would risk
// duplicating an existing row.
func (r *Resolver) Resolve(
	ctx context.Context,
	referenceURL string,
	footprintType models.FootprintType,
	mediaURLHint string,
) (*models.Footprint, bool, error) {
	urlForMedia := referenceURL
	if mediaURLHint != "" {
		urlForMedia = mediaURLHint
	}
	mediaPath := DeriveMediaPath(urlForMedia, footprintType)
	key := referenceURL + "|" + models.MediaPathOrSentinel(mediaPath)

	r.mu.Lock()
	if inRun, ok := r.pending[key]; ok {
		r.mu.Unlock()
		return inRun, false, nil
	}
	r.mu.Unlock()

	cached, err := r.entities.GetFootprint(ctx, referenceURL, mediaPath)
	if err == nil {
		return cached, false, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("resolver: footprint cache lookup failed for %s: %v", referenceURL, err)
	}

	existing, err := r.footprints.GetByNaturalKey(referenceURL, mediaPath)
	if err == nil {
		if cacheErr := r.entities.SetFootprint(ctx, existing); cacheErr != nil {
			log.Printf("resolver: failed to cache footprint %s: %v", referenceURL, cacheErr)
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("footprint lookup %s: %w", referenceURL, err)
	}

	source, err := r.resolveSource(ctx, referenceURL)
	if err != nil {
		return nil, false, err
	}

	footprint := &models.Footprint{
		Type:         footprintType,
		MediaPath:    mediaPath,
		ReferenceURL: referenceURL,
		SourceID:     source.ID,
	}
	if r.deriveIDs {
		footprint.ID = models.DeriveFootprintID(referenceURL, mediaPath)
	}

	// a concurrent chunk may have built the same footprint while the
	// source was resolving; the first one registered wins
	r.mu.Lock()
	if winner, ok := r.pending[key]; ok {
		r.mu.Unlock()
		return winner, false, nil
	}
	r.pending[key] = footprint
	r.mu.Unlock()
	return footprint, true, nil
}

// resolveSource gets or creates the source owning a reference URL, keyed by
// its domain. A uniqueness violation on create means another goroutine won
// the race; the row is re-read instead of failing.
func (r *Resolver) resolveSource(ctx context.Context, referenceURL string) (*models.Source, error) {
	domain := DomainFromURL(referenceURL)

	cached, err := r.entities.GetSource(ctx, domain)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Printf("resolver: source cache lookup failed for %s: %v", domain, err)
	}

	existing, err := r.sources.GetByURL(domain)
	if err == nil {
		if cacheErr := r.entities.SetSource(ctx, existing); cacheErr != nil {
			log.Printf("resolver: failed to cache source %s: %v", domain, cacheErr)
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("source lookup %s: %w", domain, err)
	}

	source := newSourceForDomain(domain)
	if err := r.sources.Create(source); err != nil {
		if database.IsUniqueViolation(err) {
			winner, readErr := r.sources.GetByURL(domain)
			if readErr != nil {
				return nil, fmt.Errorf("source re-read after conflict %s: %w", domain, readErr)
			}
			source = winner
		} else {
			return nil, fmt.Errorf("source create %s: %w", domain, err)
		}
	}

	if cacheErr := r.entities.SetSource(ctx, source); cacheErr != nil {
		log.Printf("resolver: failed to cache source %s: %v", domain, cacheErr)
	}
	return source, nil
}

// newSourceForDomain classifies a domain. Search engine and professional
// network domains are professional, platform domains are social media, and
// both count as verified; anything else is an unverified personal source.
func newSourceForDomain(domain string) *models.Source {
	category := models.SourcePersonal
	verified := false

	switch {
	case isEngineDomain(domain) || domain == "linkedin.com":
		category = models.SourceProfessional
		verified = true
	case isPlatformDomain(domain):
		category = models.SourceSocialMedia
		verified = true
	}

	return &models.Source{
		Name:     displayNameForDomain(domain),
		URL:      domain,
		Category: category,
		Verified: verified,
	}
}

func isEngineDomain(domain string) bool {
	for _, engine := range models.Engines {
		if domain == string(engine)+".com" {
			return true
		}
	}
	return false
}

func isPlatformDomain(domain string) bool {
	for _, platform := range models.Platforms {
		if domain == string(platform)+".com" {
			return true
		}
	}
	return false
}

func displayNameForDomain(domain string) string {
	name := strings.TrimSuffix(domain, ".com")
	if name == "" {
		return domain
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// DomainFromURL extracts the lowercased hostname, stripping a leading
// "www.". Unparseable or hostless URLs map to a fixed sentinel domain.
func DomainFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("resolver: failed to parse URL %s: %v", rawURL, err)
		return unknownDomain
	}
	domain := strings.ToLower(parsed.Hostname())
	domain = strings.TrimPrefix(domain, "www.")
	if domain == "" {
		return unknownDomain
	}
	return domain
}

// DeriveMediaPath maps a URL and footprint type onto a mock media file.
// Text footprints carry no media. Unrecognized extensions fall back to the
// default placeholder for the type.
func DeriveMediaPath(rawURL string, footprintType models.FootprintType) *string {
	if footprintType == models.FootprintText {
		return nil
	}

	ext := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		ext = strings.ToLower(path.Ext(parsed.Path))
	}

	var mediaPath string
	switch footprintType {
	case models.FootprintImage:
		if models.IsImageSuffix(ext) {
			mediaPath = path.Join(imageMediaDir, "mock_image"+ext)
		} else {
			mediaPath = defaultImageMedia
		}
	case models.FootprintVideo:
		if models.IsVideoSuffix(ext) {
			mediaPath = path.Join(videoMediaDir, "mock_video"+ext)
		} else {
			mediaPath = defaultVideoMedia
		}
	case models.FootprintAudio:
		mediaPath = audioMedia
	default:
		return nil
	}
	return &mediaPath
}
