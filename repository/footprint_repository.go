package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/footprintlab/scanner/models"
)

// FootprintRepository handles database operations for Footprint entities
type FootprintRepository struct {
	DB *gorm.DB
}

// NewFootprintRepository creates a new instance of FootprintRepository
func NewFootprintRepository(db *gorm.DB) *FootprintRepository {
	return &FootprintRepository{DB: db}
}

// Create inserts a single footprint.
func (r *FootprintRepository) Create(footprint *models.Footprint) error {
	if err := r.DB.Create(footprint).Error; err != nil {
		return fmt.Errorf("failed to create footprint %s: %w", footprint.ReferenceURL, err)
	}
	return nil
}

// GetByNaturalKey retrieves a footprint by its (reference URL, media path)
// pair. A nil media path matches rows where the column is NULL. Returns
// gorm.ErrRecordNotFound untouched on a miss so callers never conflate a
// miss with a storage failure.
func (r *FootprintRepository) GetByNaturalKey(referenceURL string, mediaPath *string) (*models.Footprint, error) {
	var footprint models.Footprint
	query := r.DB.Where("reference_url = ?", referenceURL)
	if mediaPath == nil {
		query = query.Where("media_path IS NULL")
	} else {
		query = query.Where("media_path = ?", *mediaPath)
	}

	err := query.First(&footprint).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get footprint by natural key %s: %w", referenceURL, err)
	}
	return &footprint, nil
}

// GetByID retrieves a footprint by its storage-assigned ID.
func (r *FootprintRepository) GetByID(id int64) (*models.Footprint, error) {
	var footprint models.Footprint
	err := r.DB.First(&footprint, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get footprint %d: %w", id, err)
	}
	return &footprint, nil
}

// ListBySubjectID returns all footprints linked to a subject.
func (r *FootprintRepository) ListBySubjectID(subjectID uint) ([]models.Footprint, error) {
	var footprints []models.Footprint
	err := r.DB.
		Joins("JOIN subjects_digital_footprints ON subjects_digital_footprints.footprint_id = digital_footprints.id").
		Where("subjects_digital_footprints.subject_id = ?", subjectID).
		Find(&footprints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list footprints for subject %d: %w", subjectID, err)
	}
	return footprints, nil
}
