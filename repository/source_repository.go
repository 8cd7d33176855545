package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/footprintlab/scanner/models"
)

// SourceRepository handles database operations for Source entities
type SourceRepository struct {
	DB *gorm.DB
}

// NewSourceRepository creates a new instance of SourceRepository
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{DB: db}
}

// Create inserts a source; concurrent creators racing on the same domain
// rely on the caller re-reading after a uniqueness violation.
func (r *SourceRepository) Create(source *models.Source) error {
	if err := r.DB.Create(source).Error; err != nil {
		return fmt.Errorf("failed to create source %s: %w", source.URL, err)
	}
	return nil
}

// GetByURL retrieves a source by its domain. Returns gorm.ErrRecordNotFound
// untouched on a miss.
func (r *SourceRepository) GetByURL(domain string) (*models.Source, error) {
	var source models.Source
	err := r.DB.Where("url = ?", domain).First(&source).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get source by url %s: %w", domain, err)
	}
	return &source, nil
}
