package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/footprintlab/scanner/models"
)

// SubjectRepository handles database operations for Subject entities
type SubjectRepository struct {
	DB *gorm.DB
}

// NewSubjectRepository creates a new instance of SubjectRepository
func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

// Create inserts a subject together with any attached secondary contact
// rows, addresses and pictures in one transaction.
func (r *SubjectRepository) Create(subject *models.Subject) error {
	if err := r.DB.Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject %s: %w", subject.Email, err)
	}
	return nil
}

// GetByID retrieves a subject with all owned relations preloaded. Returns
// gorm.ErrRecordNotFound untouched so callers can distinguish a miss from
// a storage failure.
func (r *SubjectRepository) GetByID(id uint) (*models.Subject, error) {
	var subject models.Subject
	err := r.DB.
		Preload("SecondaryEmails").
		Preload("SecondaryPhones").
		Preload("Addresses").
		Preload("Pictures").
		First(&subject, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get subject %d: %w", id, err)
	}
	return &subject, nil
}

// Delete removes a subject; owned rows cascade.
func (r *SubjectRepository) Delete(id uint) error {
	result := r.DB.Delete(&models.Subject{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subject %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
