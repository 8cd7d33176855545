package load

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/models"
	"github.com/footprintlab/scanner/transform"
)

var testDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:load_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func newLoadFixture(t *testing.T) (*gorm.DB, *models.Subject, *models.Source) {
	t.Helper()
	db := newTestDB(t)

	subject := &models.Subject{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Password:  "hashed",
		Phone:     "+12125550100",
		BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(subject).Error)

	source := &models.Source{
		Name:     "Facebook",
		URL:      "facebook.com",
		Category: models.SourceSocialMedia,
		Verified: true,
	}
	require.NoError(t, db.Create(source).Error)

	return db, subject, source
}

func newLoadResult(source *models.Source, referenceURLs ...string) *transform.Result {
	result := transform.NewResult()
	for _, referenceURL := range referenceURLs {
		result.NewFootprints = append(result.NewFootprints, &models.Footprint{
			Type:         models.FootprintText,
			ReferenceURL: referenceURL,
			SourceID:     source.ID,
		})
	}
	return result
}

func TestLoadBulkInsertHappyPath(t *testing.T) {
	db, subject, source := newLoadFixture(t)
	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	result := newLoadResult(source, "https://facebook.com/janedoe", "https://facebook.com/janedoe/posts/1")
	result.TrackPendingIdentity(result.NewFootprints[0], models.IdentityName)
	result.TrackPendingActivity(result.NewFootprints[0], timestamp)
	result.TrackPendingActivity(result.NewFootprints[1], timestamp)

	loader := NewLoader(db, subject, nil)
	loadResult, err := loader.Load(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, 2, loadResult.FootprintsInserted)
	assert.Equal(t, 1, loadResult.IdentitiesInserted)
	assert.Equal(t, 2, loadResult.ActivityLogsInserted)
	assert.Equal(t, 2, loadResult.LinksInserted)
	assert.Empty(t, loadResult.Errors)

	for _, footprint := range result.NewFootprints {
		assert.NotZero(t, footprint.ID, footprint.ReferenceURL)
	}

	summary := loader.Summarize()
	assert.True(t, summary.Success)
	assert.Equal(t, models.StatusCompleted, summary.Status)
	assert.Equal(t, 7, summary.TotalInserted)
	assert.Zero(t, summary.TotalSkipped)
}

func TestLoadAdoptsExistingFootprintID(t *testing.T) {
	db, subject, source := newLoadFixture(t)

	existing := &models.Footprint{
		Type:         models.FootprintText,
		ReferenceURL: "https://facebook.com/janedoe",
		SourceID:     source.ID,
	}
	require.NoError(t, db.Create(existing).Error)

	result := newLoadResult(source, "https://facebook.com/janedoe", "https://facebook.com/janedoe/posts/1")
	result.TrackPendingIdentity(result.NewFootprints[0], models.IdentityName)

	loader := NewLoader(db, subject, nil)
	loadResult, err := loader.Load(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, 1, loadResult.FootprintsInserted)
	assert.Equal(t, 1, loadResult.FootprintsSkipped)
	assert.Equal(t, existing.ID, result.NewFootprints[0].ID, "the conflicting footprint adopts the stored ID")

	// facts and links bind to the adopted ID, not a duplicate row
	var rowCount int64
	require.NoError(t, db.Model(&models.Footprint{}).
		Where("reference_url = ?", existing.ReferenceURL).Count(&rowCount).Error)
	assert.EqualValues(t, 1, rowCount)

	var identity models.PersonalIdentity
	require.NoError(t, db.First(&identity, "identity = ?", models.IdentityName).Error)
	assert.Equal(t, existing.ID, identity.FootprintID)

	assert.Equal(t, 2, loadResult.LinksInserted)
}

func TestLoadDropsPendingFactsWithoutFootprint(t *testing.T) {
	db, subject, source := newLoadFixture(t)

	result := newLoadResult(source, "https://facebook.com/janedoe")
	orphan := &models.Footprint{
		Type:         models.FootprintText,
		ReferenceURL: "https://example.com/never-resolved",
		SourceID:     source.ID,
	}
	result.TrackPendingIdentity(orphan, models.IdentityPhone)
	result.TrackPendingActivity(orphan, time.Now())

	loader := NewLoader(db, subject, nil)
	loadResult, err := loader.Load(context.Background(), result)
	require.NoError(t, err)

	assert.Equal(t, 1, loadResult.FootprintsInserted)
	assert.Zero(t, loadResult.IdentitiesInserted)
	assert.Zero(t, loadResult.ActivityLogsInserted)
}

func TestLoadEmptyResult(t *testing.T) {
	db, subject, _ := newLoadFixture(t)

	loader := NewLoader(db, subject, nil)
	loadResult, err := loader.Load(context.Background(), transform.NewResult())
	require.NoError(t, err)

	assert.Zero(t, loadResult.FootprintsInserted)
	summary := loader.Summarize()
	assert.True(t, summary.Success)
	assert.Zero(t, summary.TotalInserted)
}

func TestLoadRerunSkipsEverything(t *testing.T) {
	db, subject, source := newLoadFixture(t)
	timestamp := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := newLoadResult(source, "https://facebook.com/janedoe")
	first.TrackPendingIdentity(first.NewFootprints[0], models.IdentityName)
	first.TrackPendingActivity(first.NewFootprints[0], timestamp)

	_, err := NewLoader(db, subject, nil).Load(context.Background(), first)
	require.NoError(t, err)

	second := newLoadResult(source, "https://facebook.com/janedoe")
	second.TrackPendingIdentity(second.NewFootprints[0], models.IdentityName)
	second.TrackPendingActivity(second.NewFootprints[0], timestamp)

	loadResult, err := NewLoader(db, subject, nil).Load(context.Background(), second)
	require.NoError(t, err)

	assert.Zero(t, loadResult.FootprintsInserted)
	assert.Equal(t, 1, loadResult.FootprintsSkipped)
	assert.Equal(t, 1, loadResult.IdentitiesSkipped)
	assert.Equal(t, 1, loadResult.ActivityLogsSkipped)
	assert.Equal(t, 1, loadResult.LinksSkipped)
}

func TestLoadRefreshesFootprintCache(t *testing.T) {
	db, subject, source := newLoadFixture(t)
	entities := cache.NewEntityCache(cache.NewMemoryCache(), cache.TTLSet{Footprint: time.Hour})
	ctx := context.Background()

	result := newLoadResult(source, "https://facebook.com/janedoe")
	// simulate the stale entry cached before persistence, still without an ID
	require.NoError(t, entities.SetFootprint(ctx, result.NewFootprints[0]))

	_, err := NewLoader(db, subject, entities).Load(ctx, result)
	require.NoError(t, err)

	cached, err := entities.GetFootprint(ctx, "https://facebook.com/janedoe", nil)
	require.NoError(t, err)
	assert.Equal(t, result.NewFootprints[0].ID, cached.ID)
	assert.NotZero(t, cached.ID)
}
