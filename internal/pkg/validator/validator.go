package validator

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the only accepted wire format for dates
const DateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

// Add records a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Err returns nil when nothing was recorded, so callers can return it directly.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ToMap keys messages by field. A field reported twice keeps its first message.
func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v))
	for _, err := range v {
		if _, seen := result[err.Field]; !seen {
			result[err.Field] = err.Message
		}
	}
	return result
}

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate parses a YYYY-MM-DD calendar date.
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(dateStr))
	return date, err == nil
}

// IsOneOf reports whether value is one of the allowed values.
func IsOneOf[T ~string](value T, allowed ...T) bool {
	return slices.Contains(allowed, value)
}
