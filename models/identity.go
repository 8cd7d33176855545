package models

import "time"

// PersonalIdentity asserts that a footprint evidences one facet of a
// subject's identity. It corresponds to the 'personal_identities' table.
type PersonalIdentity struct {
	FootprintID int64        `gorm:"primaryKey" json:"footprint_id"`
	Identity    IdentityKind `gorm:"primaryKey;size:10" json:"identity"`
}

func (PersonalIdentity) TableName() string {
	return "personal_identities"
}

// ActivityLog asserts a footprint was observed active at a timestamp.
// It corresponds to the 'activity_logs' table.
type ActivityLog struct {
	FootprintID int64     `gorm:"primaryKey" json:"footprint_id"`
	Timestamp   time.Time `gorm:"primaryKey" json:"timestamp"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// SubjectFootprint links a subject to a discovered footprint.
// It corresponds to the 'subjects_digital_footprints' table.
type SubjectFootprint struct {
	SubjectID   uint  `gorm:"primaryKey" json:"subject_id"`
	FootprintID int64 `gorm:"primaryKey" json:"footprint_id"`
}

func (SubjectFootprint) TableName() string {
	return "subjects_digital_footprints"
}
