package repository

import (
	"github.com/footprintlab/scanner/models"
)

// SubjectRepositoryInterface defines the methods for subject data operations
type SubjectRepositoryInterface interface {
	Create(subject *models.Subject) error
	GetByID(id uint) (*models.Subject, error)
	Delete(id uint) error
}

// SourceRepositoryInterface defines the methods for source data operations
type SourceRepositoryInterface interface {
	Create(source *models.Source) error
	GetByURL(domain string) (*models.Source, error)
}

// FootprintRepositoryInterface defines the methods for footprint data operations
type FootprintRepositoryInterface interface {
	Create(footprint *models.Footprint) error
	GetByNaturalKey(referenceURL string, mediaPath *string) (*models.Footprint, error)
	GetByID(id int64) (*models.Footprint, error)
	ListBySubjectID(subjectID uint) ([]models.Footprint, error)
}
