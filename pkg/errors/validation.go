package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// practiceIDRegex matches kebab-case identifiers: lowercase alphanumeric
// segments separated by single hyphens.
var practiceIDRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidatePracticeID validates a catalog practice identifier.
//
// Identifiers must be kebab-case (e.g., "trunk-based-development") and of
// reasonable length. This rejects anything that could leak into URLs or
// storage keys unescaped.
func ValidatePracticeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPractice, "practice id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidPractice, "practice id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPractice, "practice id contains control characters")
		}
	}

	if !practiceIDRegex.MatchString(id) {
		return New(ErrCodeInvalidPractice, "practice id must be kebab-case: %q", id)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
