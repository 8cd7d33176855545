package scanner

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/footprintlab/scanner/models"
)

// DefaultReferencePicture is assigned when a subject is provisioned without
// an explicit reference photo.
const DefaultReferencePicture = "media/images/mock_image.png"

// SubjectSpec describes a subject to provision. Validation failures are
// hard errors; nothing is silently defaulted except the reference picture.
type SubjectSpec struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	Phone            string
	BirthDate        string
	ReferencePicture string
	SecondaryEmails  []string
	SecondaryPhones  []string
	Addresses        []models.Address
}

// ProvisionSubject validates the spec and creates the subject with a
// bcrypt-hashed password and its reference picture in one transaction.
func ProvisionSubject(db *gorm.DB, spec SubjectSpec) (*models.Subject, error) {
	if spec.FirstName == "" || spec.LastName == "" {
		return nil, fmt.Errorf("subject requires a first and last name")
	}

	email, err := models.ValidateEmail(spec.Email)
	if err != nil {
		return nil, err
	}
	phone, err := models.ValidatePhone(spec.Phone)
	if err != nil {
		return nil, err
	}
	birthDate, err := models.ParseDate(spec.BirthDate)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(spec.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	referencePicture := spec.ReferencePicture
	if referencePicture == "" {
		referencePicture = DefaultReferencePicture
	}

	subject := &models.Subject{
		FirstName: spec.FirstName,
		LastName:  spec.LastName,
		Email:     email,
		Password:  string(hash),
		Phone:     phone,
		BirthDate: birthDate,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(subject).Error; err != nil {
			return fmt.Errorf("failed to create subject: %w", err)
		}

		picture := models.Picture{SubjectID: subject.ID, Path: referencePicture}
		if err := tx.Create(&picture).Error; err != nil {
			return fmt.Errorf("failed to create reference picture: %w", err)
		}
		subject.Pictures = append(subject.Pictures, picture)

		for _, secondary := range spec.SecondaryEmails {
			validated, err := models.ValidateEmail(secondary)
			if err != nil {
				return err
			}
			row := models.SecondaryEmail{SubjectID: subject.ID, Email: validated}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create secondary email: %w", err)
			}
			subject.SecondaryEmails = append(subject.SecondaryEmails, row)
		}

		for _, secondary := range spec.SecondaryPhones {
			validated, err := models.ValidatePhone(secondary)
			if err != nil {
				return err
			}
			row := models.SecondaryPhone{SubjectID: subject.ID, Phone: validated}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create secondary phone: %w", err)
			}
			subject.SecondaryPhones = append(subject.SecondaryPhones, row)
		}

		for _, address := range spec.Addresses {
			address.SubjectID = subject.ID
			if err := tx.Create(&address).Error; err != nil {
				return fmt.Errorf("failed to create address: %w", err)
			}
			subject.Addresses = append(subject.Addresses, address)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("scanner: provisioned subject %d (%s)", subject.ID, subject.Email)
	return subject, nil
}
