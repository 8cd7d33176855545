package load

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/models"
	"github.com/footprintlab/scanner/transform"
)

// LoadResult tallies what the load phase did. Counters are pipeline-local:
// when the transaction rolls back they still describe the attempted work.
type LoadResult struct {
	FootprintsInserted   int      `json:"footprints_inserted"`
	FootprintsSkipped    int      `json:"footprints_skipped"`
	IdentitiesInserted   int      `json:"identities_inserted"`
	IdentitiesSkipped    int      `json:"identities_skipped"`
	ActivityLogsInserted int      `json:"activity_logs_inserted"`
	ActivityLogsSkipped  int      `json:"activity_logs_skipped"`
	LinksInserted        int      `json:"links_inserted"`
	LinksSkipped         int      `json:"links_skipped"`
	Errors               []string `json:"errors"`
}

func (r *LoadResult) addError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("loader: %s", msg)
	r.Errors = append(r.Errors, msg)
}

// Summary is the user-facing outcome of one load run.
type Summary struct {
	SubjectID      uint          `json:"subject_id"`
	Status         models.Status `json:"status"`
	Duration       time.Duration `json:"duration"`
	TotalInserted  int           `json:"total_records_inserted"`
	TotalSkipped   int           `json:"total_records_skipped"`
	Breakdown      LoadResult    `json:"breakdown"`
	ErrorCount     int           `json:"error_count"`
	Success        bool          `json:"success"`
	FailureMessage string        `json:"failure_message,omitempty"`
}

// Loader persists transformation results. The write sequence is ordered:
// footprints first to obtain IDs, then the pending facts resolved against
// those IDs, then subject links. Everything runs in one transaction; the
// only hard failure mode is an error that escapes a stage, which rolls the
// whole transaction back.
type Loader struct {
	db       *gorm.DB
	subject  *models.Subject
	entities *cache.EntityCache

	status   models.Status
	started  time.Time
	duration time.Duration
	failure  string
	result   *LoadResult
}

// NewLoader builds a loader; entities may be nil when no cache refresh is
// wanted.
func NewLoader(db *gorm.DB, subject *models.Subject, entities *cache.EntityCache) *Loader {
	return &Loader{
		db:       db,
		subject:  subject,
		entities: entities,
		status:   models.StatusNotStarted,
		result:   &LoadResult{},
	}
}

// Load writes a transformation result to storage.
func (l *Loader) Load(ctx context.Context, result *transform.Result) (*LoadResult, error) {
	l.started = time.Now()
	l.status = models.StatusInProgress
	log.Printf("loader: starting load for subject %d", l.subject.ID)

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := l.loadFootprints(tx, result.NewFootprints); err != nil {
			return err
		}

		idByReferenceURL := footprintIDMap(result.NewFootprints)
		identities := l.resolveIdentities(result.PendingIdentities, idByReferenceURL)
		activityLogs := l.resolveActivityLogs(result.PendingActivity, idByReferenceURL)

		if err := l.loadIdentities(tx, identities); err != nil {
			return err
		}
		if err := l.loadActivityLogs(tx, activityLogs); err != nil {
			return err
		}
		return l.linkSubject(tx, result.NewFootprints)
	})

	l.duration = time.Since(l.started)
	if err != nil {
		l.status = models.StatusFailed
		l.failure = err.Error()
		log.Printf("loader: load failed for subject %d after %s: %v", l.subject.ID, l.duration, err)
		return l.result, fmt.Errorf("load for subject %d: %w", l.subject.ID, err)
	}

	l.status = models.StatusCompleted
	l.refreshFootprintCache(ctx, result.NewFootprints)
	log.Printf("loader: load completed for subject %d in %s", l.subject.ID, l.duration)
	return l.result, nil
}

// refreshFootprintCache re-caches footprints after ID assignment so entries
// cached before persistence do not linger without storage IDs.
func (l *Loader) refreshFootprintCache(ctx context.Context, footprints []*models.Footprint) {
	if l.entities == nil {
		return
	}
	for _, footprint := range footprints {
		if footprint.ID == 0 {
			continue
		}
		if err := l.entities.SetFootprint(ctx, footprint); err != nil {
			log.Printf("loader: failed to refresh cached footprint %s: %v", footprint.ReferenceURL, err)
		}
	}
}

// loadFootprints bulk-inserts new footprints, flushing IDs onto the passed
// objects. A uniqueness violation rolls the bulk attempt back and falls to
// per-row inserts that adopt existing IDs.
func (l *Loader) loadFootprints(tx *gorm.DB, footprints []*models.Footprint) error {
	if len(footprints) == 0 {
		log.Printf("loader: no footprints to load")
		return nil
	}
	log.Printf("loader: loading %d footprints", len(footprints))

	err := tx.Transaction(func(bulk *gorm.DB) error {
		return bulk.Create(footprints).Error
	})
	if err == nil {
		l.result.FootprintsInserted = len(footprints)
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return fmt.Errorf("bulk insert footprints: %w", err)
	}

	log.Printf("loader: footprint bulk insert hit a uniqueness conflict, retrying individually")
	return l.loadFootprintsIndividually(tx, footprints)
}

func (l *Loader) loadFootprintsIndividually(tx *gorm.DB, footprints []*models.Footprint) error {
	for _, footprint := range footprints {
		existing, err := findFootprintByNaturalKey(tx, footprint.ReferenceURL, footprint.MediaPath)
		if err != nil {
			return fmt.Errorf("footprint existence check %s: %w", footprint.ReferenceURL, err)
		}
		if existing != nil {
			// adopt the existing row's ID so links and facts still bind
			footprint.ID = existing.ID
			l.result.FootprintsSkipped++
			continue
		}

		if err := tx.Create(footprint).Error; err != nil {
			l.result.addError("failed to insert footprint %s: %v", footprint.ReferenceURL, err)
			l.result.FootprintsSkipped++
			continue
		}
		l.result.FootprintsInserted++
	}
	log.Printf("loader: inserted %d footprints individually, skipped %d",
		l.result.FootprintsInserted, l.result.FootprintsSkipped)
	return nil
}

func findFootprintByNaturalKey(tx *gorm.DB, referenceURL string, mediaPath *string) (*models.Footprint, error) {
	var footprint models.Footprint
	query := tx.Where("reference_url = ?", referenceURL)
	if mediaPath == nil {
		query = query.Where("media_path IS NULL")
	} else {
		query = query.Where("media_path = ?", *mediaPath)
	}
	err := query.First(&footprint).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &footprint, nil
}

// footprintIDMap indexes ID-bearing footprints by reference URL for pending
// fact resolution.
func footprintIDMap(footprints []*models.Footprint) map[string]int64 {
	idByURL := make(map[string]int64, len(footprints))
	for _, footprint := range footprints {
		if footprint.ID != 0 && footprint.ReferenceURL != "" {
			idByURL[footprint.ReferenceURL] = footprint.ID
		}
	}
	return idByURL
}

// resolveIdentities binds pending identity facets to footprint IDs. Facets
// whose reference URL resolved to no footprint are dropped and logged.
func (l *Loader) resolveIdentities(pending map[string][]models.IdentityKind, idByURL map[string]int64) []models.PersonalIdentity {
	var identities []models.PersonalIdentity
	for referenceURL, kinds := range pending {
		footprintID, ok := idByURL[referenceURL]
		if !ok {
			log.Printf("loader: no footprint resolved for pending identities at %s", referenceURL)
			continue
		}
		for _, kind := range kinds {
			identities = append(identities, models.PersonalIdentity{
				FootprintID: footprintID,
				Identity:    kind,
			})
		}
	}
	return identities
}

// resolveActivityLogs binds pending activity timestamps to footprint IDs.
func (l *Loader) resolveActivityLogs(pending map[string][]time.Time, idByURL map[string]int64) []models.ActivityLog {
	var activityLogs []models.ActivityLog
	for referenceURL, timestamps := range pending {
		footprintID, ok := idByURL[referenceURL]
		if !ok {
			log.Printf("loader: no footprint resolved for pending activity at %s", referenceURL)
			continue
		}
		for _, timestamp := range timestamps {
			activityLogs = append(activityLogs, models.ActivityLog{
				FootprintID: footprintID,
				Timestamp:   timestamp,
			})
		}
	}
	return activityLogs
}

func (l *Loader) loadIdentities(tx *gorm.DB, identities []models.PersonalIdentity) error {
	if len(identities) == 0 {
		log.Printf("loader: no personal identities to load")
		return nil
	}
	log.Printf("loader: loading %d personal identities", len(identities))

	err := tx.Transaction(func(bulk *gorm.DB) error {
		return bulk.Create(&identities).Error
	})
	if err == nil {
		l.result.IdentitiesInserted = len(identities)
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return fmt.Errorf("bulk insert identities: %w", err)
	}

	log.Printf("loader: identity bulk insert hit a uniqueness conflict, retrying individually")
	for _, identity := range identities {
		var count int64
		err := tx.Model(&models.PersonalIdentity{}).
			Where("footprint_id = ? AND identity = ?", identity.FootprintID, identity.Identity).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("identity existence check: %w", err)
		}
		if count > 0 {
			l.result.IdentitiesSkipped++
			continue
		}
		if err := tx.Create(&identity).Error; err != nil {
			l.result.addError("failed to insert identity %s for footprint %d: %v",
				identity.Identity, identity.FootprintID, err)
			l.result.IdentitiesSkipped++
			continue
		}
		l.result.IdentitiesInserted++
	}
	return nil
}

func (l *Loader) loadActivityLogs(tx *gorm.DB, activityLogs []models.ActivityLog) error {
	if len(activityLogs) == 0 {
		log.Printf("loader: no activity logs to load")
		return nil
	}
	log.Printf("loader: loading %d activity logs", len(activityLogs))

	err := tx.Transaction(func(bulk *gorm.DB) error {
		return bulk.Create(&activityLogs).Error
	})
	if err == nil {
		l.result.ActivityLogsInserted = len(activityLogs)
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return fmt.Errorf("bulk insert activity logs: %w", err)
	}

	log.Printf("loader: activity log bulk insert hit a uniqueness conflict, retrying individually")
	for _, activityLog := range activityLogs {
		var count int64
		err := tx.Model(&models.ActivityLog{}).
			Where("footprint_id = ? AND timestamp = ?", activityLog.FootprintID, activityLog.Timestamp).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("activity log existence check: %w", err)
		}
		if count > 0 {
			l.result.ActivityLogsSkipped++
			continue
		}
		if err := tx.Create(&activityLog).Error; err != nil {
			l.result.addError("failed to insert activity log for footprint %d at %s: %v",
				activityLog.FootprintID, activityLog.Timestamp, err)
			l.result.ActivityLogsSkipped++
			continue
		}
		l.result.ActivityLogsInserted++
	}
	return nil
}

// linkSubject connects the subject to every footprint that ended up with a
// real ID. Footprints without an ID cannot be linked and are reported.
func (l *Loader) linkSubject(tx *gorm.DB, footprints []*models.Footprint) error {
	if len(footprints) == 0 {
		log.Printf("loader: no footprints to link")
		return nil
	}

	var links []models.SubjectFootprint
	for _, footprint := range footprints {
		if footprint.ID == 0 {
			l.result.addError("footprint %s has no ID, cannot link", footprint.ReferenceURL)
			l.result.LinksSkipped++
			continue
		}
		links = append(links, models.SubjectFootprint{
			SubjectID:   l.subject.ID,
			FootprintID: footprint.ID,
		})
	}
	if len(links) == 0 {
		log.Printf("loader: no linkable footprints for subject %d", l.subject.ID)
		return nil
	}
	log.Printf("loader: linking %d footprints to subject %d", len(links), l.subject.ID)

	err := tx.Transaction(func(bulk *gorm.DB) error {
		return bulk.Create(&links).Error
	})
	if err == nil {
		l.result.LinksInserted = len(links)
		return nil
	}
	if !database.IsUniqueViolation(err) {
		return fmt.Errorf("bulk insert subject links: %w", err)
	}

	log.Printf("loader: link bulk insert hit a uniqueness conflict, retrying individually")
	for _, link := range links {
		var count int64
		err := tx.Model(&models.SubjectFootprint{}).
			Where("subject_id = ? AND footprint_id = ?", link.SubjectID, link.FootprintID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("subject link existence check: %w", err)
		}
		if count > 0 {
			l.result.LinksSkipped++
			continue
		}
		if err := tx.Create(&link).Error; err != nil {
			l.result.addError("failed to link subject %d to footprint %d: %v",
				link.SubjectID, link.FootprintID, err)
			l.result.LinksSkipped++
			continue
		}
		l.result.LinksInserted++
	}
	return nil
}

// Summarize reports the outcome of the last load run.
func (l *Loader) Summarize() Summary {
	totalInserted := l.result.FootprintsInserted + l.result.IdentitiesInserted +
		l.result.ActivityLogsInserted + l.result.LinksInserted
	totalSkipped := l.result.FootprintsSkipped + l.result.IdentitiesSkipped +
		l.result.ActivityLogsSkipped + l.result.LinksSkipped

	return Summary{
		SubjectID:      l.subject.ID,
		Status:         l.status,
		Duration:       l.duration,
		TotalInserted:  totalInserted,
		TotalSkipped:   totalSkipped,
		Breakdown:      *l.result,
		ErrorCount:     len(l.result.Errors),
		Success:        l.status == models.StatusCompleted,
		FailureMessage: l.failure,
	}
}
