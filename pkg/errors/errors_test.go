package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad value %d", 42)
	if got := err.Error(); got != "INVALID_INPUT: bad value 42" {
		t.Errorf("Error() = %q", got)
	}

	cause := stderrors.New("disk full")
	wrapped := Wrap(ErrCodeStorage, cause, "persist state")
	if got := wrapped.Error(); !strings.Contains(got, "disk full") {
		t.Errorf("wrapped error lost cause: %q", got)
	}
	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is must see through the wrap")
	}
}

func TestIsAndGetCode(t *testing.T) {
	err := New(ErrCodeShareNotFound, "gone")

	if !Is(err, ErrCodeShareNotFound) {
		t.Error("Is failed on direct error")
	}
	if Is(err, ErrCodeStorage) {
		t.Error("Is matched wrong code")
	}

	// Codes survive fmt wrapping.
	deep := fmt.Errorf("handler: %w", err)
	if !Is(deep, ErrCodeShareNotFound) {
		t.Error("Is failed through fmt wrap")
	}
	if got := GetCode(deep); got != ErrCodeShareNotFound {
		t.Errorf("GetCode = %s", got)
	}

	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidCatalog, "catalog is broken")
	if got := UserMessage(err); got != "catalog is broken" {
		t.Errorf("UserMessage = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestValidatePracticeID(t *testing.T) {
	valid := []string{
		"a",
		"ci",
		"trunk-based-development",
		"level2-testing",
		"a1-b2-c3",
	}
	for _, id := range valid {
		if err := ValidatePracticeID(id); err != nil {
			t.Errorf("ValidatePracticeID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{
		"",
		"Continuous-Delivery",
		"-leading",
		"trailing-",
		"double--hyphen",
		"under_score",
		"spa ce",
		"dot.sep",
		strings.Repeat("a", 129),
		"tab\tid",
	}
	for _, id := range invalid {
		if err := ValidatePracticeID(id); err == nil {
			t.Errorf("ValidatePracticeID(%q) = nil, want error", id)
		}
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://example.org/x"); err != nil {
		t.Errorf("https rejected: %v", err)
	}
	if err := ValidateURL("http://example.org"); err != nil {
		t.Errorf("http rejected: %v", err)
	}
	for _, raw := range []string{"", "ftp://example.org", "javascript:alert(1)"} {
		if err := ValidateURL(raw); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", raw)
		}
	}
}
