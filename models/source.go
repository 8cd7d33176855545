package models

// Source represents a named origin (domain) of digital footprints.
// It corresponds to the 'sources' table.
type Source struct {
	ID       uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string         `gorm:"size:100;not null" json:"name"`
	URL      string         `gorm:"size:500;not null;index" json:"url"`
	Category SourceCategory `gorm:"size:20;not null" json:"category"`
	Verified bool           `gorm:"not null" json:"verified"`

	// Footprints are deleted with their owning source
	Footprints []Footprint `gorm:"foreignKey:SourceID;constraint:OnDelete:CASCADE" json:"footprints,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Source) TableName() string {
	return "sources"
}
