package models

import (
	"crypto/sha256"
	"encoding/binary"
)

// Footprint represents one piece of discovered content tied to a source and
// optional media. It corresponds to the 'digital_footprints' table.
//
// (ReferenceURL, MediaPath) is the natural key identifying a footprint before
// it has a storage-assigned ID; the unique index enforces at-most-one row per
// pair regardless of how many concurrent resolvers race on creation.
type Footprint struct {
	ID           int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Type         FootprintType `gorm:"size:10;not null" json:"type"`
	MediaPath    *string       `gorm:"size:255;uniqueIndex:uq_reference_url_media_path" json:"media_path,omitempty"`
	ReferenceURL string        `gorm:"size:255;not null;uniqueIndex:uq_reference_url_media_path" json:"reference_url"`
	SourceID     uint          `gorm:"not null" json:"source_id"`

	// Identity facts and activity logs are deleted with their footprint
	PersonalIdentities []PersonalIdentity `gorm:"foreignKey:FootprintID;constraint:OnDelete:CASCADE" json:"personal_identities,omitempty"`
	ActivityLogs       []ActivityLog      `gorm:"foreignKey:FootprintID;constraint:OnDelete:CASCADE" json:"activity_logs,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Footprint) TableName() string {
	return "digital_footprints"
}

// MediaPathOrSentinel returns the media path, or the fixed sentinel used in
// cache keys and natural-key comparisons when the footprint has no media.
func (f *Footprint) MediaPathOrSentinel() string {
	return MediaPathOrSentinel(f.MediaPath)
}

// NoMediaSentinel stands in for a nil media path in composite keys.
const NoMediaSentinel = "no_media"

// MediaPathOrSentinel normalizes an optional media path for key building.
func MediaPathOrSentinel(mediaPath *string) string {
	if mediaPath == nil || *mediaPath == "" {
		return NoMediaSentinel
	}
	return *mediaPath
}

// DeriveFootprintID deterministically derives a footprint ID from its natural
// key. The first 8 digest bytes are kept and masked to 63 bits so the value
// stays positive in an int64 column.
func DeriveFootprintID(referenceURL string, mediaPath *string) int64 {
	h := sha256.Sum256([]byte(referenceURL + "|" + MediaPathOrSentinel(mediaPath)))
	return int64(binary.BigEndian.Uint64(h[:8]) & 0x7FFFFFFFFFFFFFFF)
}
