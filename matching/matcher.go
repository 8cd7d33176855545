package matching

import (
	"strings"

	"github.com/footprintlab/scanner/models"
)

// ProfileFields are the identity-bearing fields of a profile-shaped record.
type ProfileFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// TextFields are the searchable fields of a free-text record (posts, search
// results). Absent fields stay empty.
type TextFields struct {
	Title       string
	Content     string
	URL         string
	Description string
}

// Matcher decides whether raw content records belong to one subject.
// It is pure: no I/O, no side effects, safe for concurrent use.
type Matcher struct {
	subject *models.Subject
	index   *IdentifierIndex
}

func NewMatcher(subject *models.Subject) *Matcher {
	return &Matcher{
		subject: subject,
		index:   BuildIdentifierIndex(subject),
	}
}

// Index exposes the identifier index for diagnostics and tests.
func (m *Matcher) Index() *IdentifierIndex {
	return m.index
}

// MatchesProfile reports whether a profile record belongs to the subject:
// exact case-folded name equality, or membership of the email/phone in the
// index, or any index address appearing inside the profile address.
// OR semantics; ties are not scored.
func (m *Matcher) MatchesProfile(profile ProfileFields) bool {
	profileFirst := strings.ToLower(strings.TrimSpace(profile.FirstName))
	profileLast := strings.ToLower(strings.TrimSpace(profile.LastName))
	if profileFirst != "" && profileLast != "" &&
		profileFirst == strings.ToLower(m.subject.FirstName) &&
		profileLast == strings.ToLower(m.subject.LastName) {
		return true
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if email != "" && m.index.Emails.Contains(email) {
		return true
	}

	phone := strings.TrimSpace(profile.Phone)
	if phone != "" && m.index.Phones.Contains(phone) {
		return true
	}

	address := strings.ToLower(strings.TrimSpace(profile.Address))
	if address != "" && m.index.Addresses.ContainsAnySubstring(address) {
		return true
	}

	return false
}

// MatchesFreeText reports whether a free-text record relates to the subject.
// A name match requires both first and last name inside the same field; any
// indexed email, phone or address substring in content/description also
// matches.
func (m *Matcher) MatchesFreeText(text TextFields) bool {
	first := strings.ToLower(m.subject.FirstName)
	last := strings.ToLower(m.subject.LastName)

	for _, field := range []string{text.Title, text.Content, text.URL, text.Description} {
		lowered := strings.ToLower(field)
		if lowered != "" && strings.Contains(lowered, first) && strings.Contains(lowered, last) {
			return true
		}
	}

	content := strings.ToLower(text.Content)
	description := strings.ToLower(text.Description)
	for _, haystack := range []string{content, description} {
		if haystack == "" {
			continue
		}
		if m.index.Emails.ContainsAnySubstring(haystack) {
			return true
		}
		if m.index.Addresses.ContainsAnySubstring(haystack) {
			return true
		}
	}

	// phones keep their stored casing
	for _, haystack := range []string{text.Content, text.Description} {
		if haystack != "" && m.index.Phones.ContainsAnySubstring(haystack) {
			return true
		}
	}

	return false
}

// MatchesAuthored reports whether a post belongs to the subject via a
// username already discovered on the same platform, either as author or as
// a tagged user. Profile matching must have completed for the platform
// before this is meaningful.
func MatchesAuthored(author string, tagged []string, discovered StringSet) bool {
	if author != "" && discovered.Contains(author) {
		return true
	}
	for _, username := range tagged {
		if discovered.Contains(username) {
			return true
		}
	}
	return false
}

// IdentitiesInText scans free text for facets of the subject's identity:
// name (first, last or full name substring), phone (primary or secondary,
// as stored), and address (any street/city/country component; the first
// matching address wins and stops the scan).
func (m *Matcher) IdentitiesInText(text string) []models.IdentityKind {
	if text == "" {
		return nil
	}

	lowered := strings.ToLower(text)
	var found []models.IdentityKind

	first := strings.ToLower(m.subject.FirstName)
	last := strings.ToLower(m.subject.LastName)
	fullName := first + " " + last
	if strings.Contains(lowered, fullName) || strings.Contains(lowered, first) || strings.Contains(lowered, last) {
		found = append(found, models.IdentityName)
	}

	if m.subject.Phone != "" && strings.Contains(text, m.subject.Phone) {
		found = append(found, models.IdentityPhone)
	} else {
		for _, secondary := range m.subject.SecondaryPhones {
			if strings.Contains(text, secondary.Phone) {
				found = append(found, models.IdentityPhone)
				break
			}
		}
	}

	for _, addr := range m.subject.Addresses {
		components := []string{addr.Street, addr.City, addr.Country}
		matched := false
		for _, component := range components {
			if component != "" && strings.Contains(lowered, strings.ToLower(component)) {
				found = append(found, models.IdentityAddress)
				matched = true
				break
			}
		}
		if matched {
			break
		}
	}

	return found
}
