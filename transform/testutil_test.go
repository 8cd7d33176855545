package transform

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/footprintlab/scanner/cache"
	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/models"
	"github.com/footprintlab/scanner/repository"
)

var testDBCounter atomic.Int64

// newTestDB opens a fresh in-memory database. Shared cache keeps all pooled
// connections on the same database instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:transform_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func newTestEntityCache() *cache.EntityCache {
	return cache.NewEntityCache(cache.NewMemoryCache(), cache.TTLSet{
		Subject:   time.Hour,
		Source:    time.Hour,
		Footprint: time.Hour,
	})
}

func newTestResolver(t *testing.T) (*Resolver, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	resolver := NewResolver(
		newTestEntityCache(),
		repository.NewSourceRepository(db),
		repository.NewFootprintRepository(db),
		false,
	)
	return resolver, db
}

func newScanSubject() *models.Subject {
	return &models.Subject{
		ID:        1,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@x.com",
		Phone:     "+12125550100",
	}
}
