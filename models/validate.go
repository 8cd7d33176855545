package models

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// e164Pattern accepts international phone numbers in E.164 shape.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)

// ValidateEmail checks format and returns the address lower-cased.
func ValidateEmail(value string) (string, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return "", fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid email format %q: %w", value, err)
	}
	return strings.ToLower(addr.Address), nil
}

// ValidatePhone checks a phone number is in E.164 form.
func ValidatePhone(value string) (string, error) {
	cleaned := strings.TrimSpace(value)
	if !e164Pattern.MatchString(cleaned) {
		return "", fmt.Errorf("invalid phone number %q: expected E.164 format", value)
	}
	return cleaned, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	return t, nil
}

// ValidateURL checks for an absolute http(s) URL.
func ValidateURL(value string) (string, error) {
	cleaned := strings.TrimSpace(value)
	parsed, err := url.Parse(cleaned)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: must include protocol and domain", value)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid URL %q: must use http or https", value)
	}
	return cleaned, nil
}

// ParseTimestamp parses an ISO-8601 timestamp; a trailing 'Z' is treated as
// UTC offset. Callers decide the fallback for unparseable values.
func ParseTimestamp(value string) (time.Time, error) {
	cleaned := strings.TrimSpace(value)
	t, err := time.Parse(time.RFC3339, cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected ISO format", value)
	}
	return t, nil
}
