package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/footprintlab/scanner/models"
)

func TestMatchesProfileByName(t *testing.T) {
	m := NewMatcher(testSubject())

	assert.True(t, m.MatchesProfile(ProfileFields{FirstName: "Jane", LastName: "Doe"}))
	assert.True(t, m.MatchesProfile(ProfileFields{FirstName: "JANE", LastName: "DOE"}),
		"matching is case-fold invariant")
	assert.False(t, m.MatchesProfile(ProfileFields{FirstName: "Jane", LastName: "Smith"}))
	assert.False(t, m.MatchesProfile(ProfileFields{FirstName: "Jane"}),
		"first name alone is not a profile match")
}

func TestMatchesProfileByEmail(t *testing.T) {
	m := NewMatcher(testSubject())

	assert.True(t, m.MatchesProfile(ProfileFields{FirstName: "J", LastName: "D", Email: "JANE@X.COM"}))
	assert.False(t, m.MatchesProfile(ProfileFields{FirstName: "J", LastName: "D", Email: "other@x.com"}))
}

func TestMatchesProfileByPhone(t *testing.T) {
	m := NewMatcher(testSubject())

	assert.True(t, m.MatchesProfile(ProfileFields{Phone: "+12125550199"}))
	assert.False(t, m.MatchesProfile(ProfileFields{Phone: "+15550000000"}))
}

func TestMatchesProfileByAddress(t *testing.T) {
	subject := testSubject()
	subject.Addresses = []models.Address{
		{City: "Springfield", Country: "USA", Street: "Elm Street", Number: 42},
	}
	m := NewMatcher(subject)

	assert.True(t, m.MatchesProfile(ProfileFields{Address: "Apartment 3, 42 Elm Street, Springfield"}))
	assert.False(t, m.MatchesProfile(ProfileFields{Address: "42 Oak Street, Shelbyville"}))
}

func TestMatchesFreeTextRequiresBothNameTokens(t *testing.T) {
	m := NewMatcher(testSubject())

	assert.True(t, m.MatchesFreeText(TextFields{Content: "Jane Doe spotted downtown"}))
	assert.True(t, m.MatchesFreeText(TextFields{Title: "Interview with jane doe"}))
	assert.False(t, m.MatchesFreeText(TextFields{Content: "Jane was here"}))
	assert.False(t, m.MatchesFreeText(TextFields{Title: "Jane", Content: "Doe"}),
		"both tokens must appear in the same field")
}

func TestMatchesFreeTextCaseInvariance(t *testing.T) {
	m := NewMatcher(testSubject())

	lower := m.MatchesFreeText(TextFields{Content: "met jane doe yesterday"})
	upper := m.MatchesFreeText(TextFields{Content: "met JANE DOE yesterday"})
	assert.Equal(t, lower, upper)
	assert.True(t, lower)
}

func TestMatchesFreeTextByIdentifierSubstring(t *testing.T) {
	m := NewMatcher(testSubject())

	assert.True(t, m.MatchesFreeText(TextFields{Content: "contact jane@x.com for details"}))
	assert.True(t, m.MatchesFreeText(TextFields{Description: "call +12125550100 now"}))
	assert.False(t, m.MatchesFreeText(TextFields{Title: "contact jane@x.com"}),
		"identifier substrings only match in content and description")
}

func TestMatchesAuthored(t *testing.T) {
	discovered := make(StringSet)
	discovered.Add("janedoe123")

	assert.True(t, MatchesAuthored("janedoe123", nil, discovered))
	assert.True(t, MatchesAuthored("stranger", []string{"janedoe123"}, discovered))
	assert.False(t, MatchesAuthored("stranger", []string{"other"}, discovered))
	assert.False(t, MatchesAuthored("", nil, discovered))
}

func TestIdentitiesInTextName(t *testing.T) {
	m := NewMatcher(testSubject())

	found := m.IdentitiesInText("I met Jane at the park")
	assert.Contains(t, found, models.IdentityName)
}

func TestIdentitiesInTextPhoneStopsAfterFirst(t *testing.T) {
	m := NewMatcher(testSubject())

	found := m.IdentitiesInText("reach me on +12125550100 or +12125550199")
	count := 0
	for _, kind := range found {
		if kind == models.IdentityPhone {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestIdentitiesInTextAddressFirstMatchWins(t *testing.T) {
	subject := testSubject()
	subject.Addresses = []models.Address{
		{City: "Springfield", Country: "USA", Street: "Elm Street", Number: 42},
		{City: "Shelbyville", Country: "USA", Street: "Oak Avenue", Number: 7},
	}
	m := NewMatcher(subject)

	found := m.IdentitiesInText("moved from springfield to shelbyville")
	count := 0
	for _, kind := range found {
		if kind == models.IdentityAddress {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestIdentitiesInTextEmpty(t *testing.T) {
	m := NewMatcher(testSubject())
	assert.Empty(t, m.IdentitiesInText(""))
}

func TestUsernameRegistryPhases(t *testing.T) {
	registry := NewUsernameRegistry()
	registry.Record(models.PlatformFacebook, "janedoe123")
	registry.Record(models.PlatformFacebook, "jdoe")
	registry.Record(models.PlatformInstagram, "janedoe123")
	registry.Record(models.PlatformX, "")

	facebook := registry.Discovered(models.PlatformFacebook)
	assert.True(t, facebook.Contains("janedoe123"))
	assert.True(t, facebook.Contains("jdoe"))
	assert.False(t, registry.Discovered(models.PlatformX).Contains(""))

	assert.Len(t, registry.All(), 3)
}
