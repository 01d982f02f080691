package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	MaxServiceNameLength = 80
	MaxEmojiUnits        = 2
	MinEventContent      = 3
	MaxEventTitleLength  = 200
)

func ValidateServiceName(v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fmt.Errorf("%w: service name is required", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxServiceNameLength {
		return fmt.Errorf("%w: service name must be <= %d chars", ErrValidation, MaxServiceNameLength)
	}
	return nil
}

// ValidateEmoji counts UTF-16 code units, so one astral-plane emoji fills the limit.
func ValidateEmoji(v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fmt.Errorf("%w: service emoji is required", ErrValidation)
	}
	if len(utf16.Encode([]rune(trimmed))) > MaxEmojiUnits {
		return fmt.Errorf("%w: service emoji must be at most %d characters", ErrValidation, MaxEmojiUnits)
	}
	return nil
}

func ValidateEventTitle(v string) error {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(trimmed) > MaxEventTitleLength {
		return fmt.Errorf("%w: title must be <= %d chars", ErrValidation, MaxEventTitleLength)
	}
	return nil
}

func ValidateEventContent(v string) error {
	if utf8.RuneCountInString(strings.TrimSpace(v)) < MinEventContent {
		return fmt.Errorf("%w: content must be at least %d characters", ErrValidation, MinEventContent)
	}
	return nil
}

// ParseDate accepts only the YYYY-MM-DD form and returns midnight UTC.
func ParseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// NewDateRange validates both bounds. A start after end is allowed and simply matches nothing.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: range start must be YYYY-MM-DD", ErrValidation)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: range end must be YYYY-MM-DD", ErrValidation)
	}
	return DateRange{Start: FormatDate(s), End: FormatDate(e)}, nil
}

// ValidateClassification checks a classifier verdict before it is stored. Highlight has no
// invalid value once decoded.
func ValidateClassification(c Classification) error {
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("%w: category is missing", ErrClassification)
	}
	if strings.TrimSpace(c.Reason) == "" {
		return fmt.Errorf("%w: reason is missing", ErrClassification)
	}
	return nil
}
