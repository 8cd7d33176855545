package matching

import (
	"fmt"
	"strings"

	"github.com/footprintlab/scanner/models"
)

// StringSet is a simple membership set over lower-cased identifier strings.
type StringSet map[string]struct{}

func (s StringSet) Add(value string) {
	if value != "" {
		s[value] = struct{}{}
	}
}

func (s StringSet) Contains(value string) bool {
	_, ok := s[value]
	return ok
}

// ContainsAnySubstring reports whether any set member appears as a substring
// of text. Plain substring containment can false-positive on short fragments;
// identifier construction keeps entries specific enough to limit that.
func (s StringSet) ContainsAnySubstring(text string) bool {
	for value := range s {
		if strings.Contains(text, value) {
			return true
		}
	}
	return false
}

// IdentifierIndex is the ephemeral view over a subject used for matching:
// every string token that could identify the subject in raw content, split
// into four disjoint groups. Recomputed once per scan, never persisted.
type IdentifierIndex struct {
	Names     StringSet
	Emails    StringSet
	Phones    StringSet
	Addresses StringSet
}

// BuildIdentifierIndex derives the identifier sets from a subject record.
// Missing or empty attributes are skipped, never an error.
func BuildIdentifierIndex(subject *models.Subject) *IdentifierIndex {
	idx := &IdentifierIndex{
		Names:     make(StringSet),
		Emails:    make(StringSet),
		Phones:    make(StringSet),
		Addresses: make(StringSet),
	}

	first := strings.ToLower(strings.TrimSpace(subject.FirstName))
	last := strings.ToLower(strings.TrimSpace(subject.LastName))
	if first != "" && last != "" {
		idx.Names.Add(first + " " + last)
		idx.Names.Add(first + last)
		idx.Names.Add(last + first)
	}

	idx.Emails.Add(strings.ToLower(subject.Email))
	for _, secondary := range subject.SecondaryEmails {
		idx.Emails.Add(strings.ToLower(secondary.Email))
	}

	// phones are matched as stored, not case-folded
	idx.Phones.Add(subject.Phone)
	for _, secondary := range subject.SecondaryPhones {
		idx.Phones.Add(secondary.Phone)
	}

	for _, addr := range subject.Addresses {
		addAddressIdentifiers(idx.Addresses, addr)
	}

	return idx
}

// addAddressIdentifiers emits up to three specificity tiers per address.
// Fewer than two available components yields nothing: a bare city or country
// is too common a fragment to match on.
func addAddressIdentifiers(set StringSet, addr models.Address) {
	var components []string

	street := ""
	if addr.Street != "" && addr.Number != 0 {
		street = strings.ToLower(fmt.Sprintf("%d %s", addr.Number, addr.Street))
		components = append(components, street)
	}

	city := strings.ToLower(strings.TrimSpace(addr.City))
	if city != "" {
		components = append(components, city)
	}

	country := strings.ToLower(strings.TrimSpace(addr.Country))
	if country != "" {
		components = append(components, country)
	}

	if len(components) < 2 {
		return
	}

	if len(components) >= 3 {
		set.Add(strings.Join(components, ", "))
	}
	if street != "" && city != "" {
		set.Add(street + ", " + city)
	}
	if city != "" && country != "" {
		set.Add(city + ", " + country)
	}
}
