package scanner

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/footprintlab/scanner/database"
	"github.com/footprintlab/scanner/models"
)

var testDBCounter atomic.Int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:scanner_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	return db
}

func validSpec() SubjectSpec {
	return SubjectSpec{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "Jane@X.com",
		Password:  "hunter2hunter2",
		Phone:     "+12125550100",
		BirthDate: "1990-01-15",
	}
}

func TestProvisionSubject(t *testing.T) {
	db := newTestDB(t)

	spec := validSpec()
	spec.SecondaryEmails = []string{"jane.work@x.com"}
	spec.SecondaryPhones = []string{"+12125550101"}
	spec.Addresses = []models.Address{{Street: "42 Elm Street", City: "Springfield", Country: "USA"}}

	subject, err := ProvisionSubject(db, spec)
	require.NoError(t, err)
	assert.NotZero(t, subject.ID)
	assert.Equal(t, "jane@x.com", subject.Email)

	assert.NotEqual(t, spec.Password, subject.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(subject.Password), []byte(spec.Password)))

	assert.Equal(t, DefaultReferencePicture, subject.ReferencePicturePath())
	require.Len(t, subject.SecondaryEmails, 1)
	require.Len(t, subject.SecondaryPhones, 1)
	require.Len(t, subject.Addresses, 1)
	assert.Equal(t, subject.ID, subject.Addresses[0].SubjectID)

	var count int64
	require.NoError(t, db.Model(&models.Picture{}).Where("subject_id = ?", subject.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProvisionSubjectCustomReferencePicture(t *testing.T) {
	db := newTestDB(t)

	spec := validSpec()
	spec.ReferencePicture = "media/images/jane_reference.jpg"

	subject, err := ProvisionSubject(db, spec)
	require.NoError(t, err)
	assert.Equal(t, "media/images/jane_reference.jpg", subject.ReferencePicturePath())
}

func TestProvisionSubjectValidation(t *testing.T) {
	db := newTestDB(t)

	missingName := validSpec()
	missingName.LastName = ""
	_, err := ProvisionSubject(db, missingName)
	assert.Error(t, err)

	badEmail := validSpec()
	badEmail.Email = "not-an-email"
	_, err = ProvisionSubject(db, badEmail)
	assert.Error(t, err)

	badPhone := validSpec()
	badPhone.Phone = "555-0100"
	_, err = ProvisionSubject(db, badPhone)
	assert.Error(t, err)

	badDate := validSpec()
	badDate.BirthDate = "15/01/1990"
	_, err = ProvisionSubject(db, badDate)
	assert.Error(t, err)
}

func TestProvisionSubjectInvalidSecondaryRollsBack(t *testing.T) {
	db := newTestDB(t)

	spec := validSpec()
	spec.SecondaryEmails = []string{"broken email"}

	_, err := ProvisionSubject(db, spec)
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Subject{}).Count(&count).Error)
	assert.Zero(t, count, "validation failure inside the transaction leaves no subject behind")
}
