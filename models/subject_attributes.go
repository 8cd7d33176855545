package models

// SecondaryEmail is an additional email address owned by a subject.
// It corresponds to the 'secondary_emails' table.
type SecondaryEmail struct {
	SubjectID uint   `gorm:"primaryKey" json:"subject_id"`
	Email     string `gorm:"primaryKey;size:320" json:"email"`
}

func (SecondaryEmail) TableName() string {
	return "secondary_emails"
}

// SecondaryPhone is an additional phone number owned by a subject.
// It corresponds to the 'secondary_phones' table.
type SecondaryPhone struct {
	SubjectID uint   `gorm:"primaryKey" json:"subject_id"`
	Phone     string `gorm:"primaryKey;size:25" json:"phone"`
}

func (SecondaryPhone) TableName() string {
	return "secondary_phones"
}

// Address is a postal address associated with a subject.
// It corresponds to the 'addresses' table.
type Address struct {
	SubjectID uint        `gorm:"primaryKey" json:"subject_id"`
	Type      AddressType `gorm:"primaryKey;size:10" json:"type"`
	Country   string      `gorm:"primaryKey;size:100" json:"country"`
	City      string      `gorm:"primaryKey;size:100" json:"city"`
	Street    string      `gorm:"primaryKey;size:200" json:"street"`
	Number    int         `gorm:"primaryKey" json:"number"`
}

func (Address) TableName() string {
	return "addresses"
}

// Picture is a reference photo of a subject used for visual matching.
// It corresponds to the 'pictures' table.
type Picture struct {
	SubjectID uint   `gorm:"primaryKey" json:"subject_id"`
	Path      string `gorm:"primaryKey;size:500" json:"path"`
}

func (Picture) TableName() string {
	return "pictures"
}
