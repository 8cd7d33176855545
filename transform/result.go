package transform

import (
	"time"

	"github.com/footprintlab/scanner/models"
)

// Stats counts what happened during a transformation run. Counters are
// summed when results merge.
type Stats struct {
	ItemsProcessed      int `json:"items_processed"`
	FootprintsFound     int `json:"footprints_found"`
	NewFootprints       int `json:"new_footprints"`
	ExistingFootprints  int `json:"existing_footprints"`
	IdentitiesDetected  int `json:"identities_detected"`
	MediaFilesProcessed int `json:"media_files_processed"`
	VideosTranscribed   int `json:"videos_transcribed"`
	FaceMatchesFound    int `json:"face_matches_found"`
}

func (s *Stats) Add(other Stats) {
	s.ItemsProcessed += other.ItemsProcessed
	s.FootprintsFound += other.FootprintsFound
	s.NewFootprints += other.NewFootprints
	s.ExistingFootprints += other.ExistingFootprints
	s.IdentitiesDetected += other.IdentitiesDetected
	s.MediaFilesProcessed += other.MediaFilesProcessed
	s.VideosTranscribed += other.VideosTranscribed
	s.FaceMatchesFound += other.FaceMatchesFound
}

// Result carries the output of a transformation: footprints that still need
// persistence plus identity and activity facts keyed by the footprint's
// reference URL. Facts stay keyed by natural key until the load phase
// assigns storage IDs.
//
// A Result is confined to a single goroutine; chunks each build their own
// and merge at the gather point.
type Result struct {
	NewFootprints     []*models.Footprint
	PendingIdentities map[string][]models.IdentityKind
	PendingActivity   map[string][]time.Time
	Stats             Stats
}

func NewResult() *Result {
	return &Result{
		PendingIdentities: make(map[string][]models.IdentityKind),
		PendingActivity:   make(map[string][]time.Time),
	}
}

// TrackPendingIdentity records that a footprint evidences an identity facet.
// Returns false when the facet is already tracked for that footprint, so
// repeated detections never inflate counters.
func (r *Result) TrackPendingIdentity(footprint *models.Footprint, kind models.IdentityKind) bool {
	key := footprint.ReferenceURL
	for _, existing := range r.PendingIdentities[key] {
		if existing == kind {
			return false
		}
	}
	r.PendingIdentities[key] = append(r.PendingIdentities[key], kind)
	return true
}

// TrackPendingActivity records that a footprint was active at a timestamp,
// deduplicating on exact timestamp equality.
func (r *Result) TrackPendingActivity(footprint *models.Footprint, timestamp time.Time) bool {
	key := footprint.ReferenceURL
	for _, existing := range r.PendingActivity[key] {
		if existing.Equal(timestamp) {
			return false
		}
	}
	r.PendingActivity[key] = append(r.PendingActivity[key], timestamp)
	return true
}

// Merge folds another result into this one: footprint lists concatenate,
// pending facts union per key with dedupe, counters sum.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.NewFootprints = append(r.NewFootprints, other.NewFootprints...)

	for key, kinds := range other.PendingIdentities {
		for _, kind := range kinds {
			r.trackPendingIdentityKey(key, kind)
		}
	}
	for key, timestamps := range other.PendingActivity {
		for _, timestamp := range timestamps {
			r.trackPendingActivityKey(key, timestamp)
		}
	}

	r.Stats.Add(other.Stats)
}

func (r *Result) trackPendingIdentityKey(key string, kind models.IdentityKind) {
	for _, existing := range r.PendingIdentities[key] {
		if existing == kind {
			return
		}
	}
	r.PendingIdentities[key] = append(r.PendingIdentities[key], kind)
}

func (r *Result) trackPendingActivityKey(key string, timestamp time.Time) {
	for _, existing := range r.PendingActivity[key] {
		if existing.Equal(timestamp) {
			return
		}
	}
	r.PendingActivity[key] = append(r.PendingActivity[key], timestamp)
}
