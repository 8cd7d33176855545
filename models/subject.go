package models

import "time"

// Subject represents the person whose digital footprint is being searched for.
// It corresponds to the 'subjects' table.
type Subject struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Email     string    `gorm:"size:320;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Phone     string    `gorm:"size:25;not null" json:"phone"`
	BirthDate time.Time `gorm:"not null" json:"birth_date"`

	// Relationships; all owned rows cascade on subject deletion
	SecondaryEmails []SecondaryEmail   `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"secondary_emails,omitempty"`
	SecondaryPhones []SecondaryPhone   `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"secondary_phones,omitempty"`
	Addresses       []Address          `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Pictures        []Picture          `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"pictures,omitempty"`
	FootprintLinks  []SubjectFootprint `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"footprint_links,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Subject) TableName() string {
	return "subjects"
}

// FullName returns the subject's display name.
func (s *Subject) FullName() string {
	return s.FirstName + " " + s.LastName
}

// ReferencePicturePath returns the first stored picture path, or empty when
// the subject has no reference photo for visual matching.
func (s *Subject) ReferencePicturePath() string {
	if len(s.Pictures) == 0 {
		return ""
	}
	return s.Pictures[0].Path
}
