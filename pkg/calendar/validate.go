package calendar

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Field limits enforced by Validate.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Validation rules, in the order Validate checks them. A *ValidationError
// matches its rule with errors.Is.
var (
	ErrTitleRequired      = errors.New("Event title is required")
	ErrTitleTooLong       = errors.New("Title must be at most 100 characters")
	ErrDescriptionTooLong = errors.New("Description must be at most 500 characters")
	ErrEndBeforeStart     = errors.New("End date must be after start date")
)

// ValidationError reports the first rule a candidate event failed.
type ValidationError struct {
	Field string
	Rule  error
}

func (e *ValidationError) Error() string {
	return e.Rule.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// Candidate is a possibly incomplete event submitted for validation. Nil
// fields are treated as missing.
type Candidate struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
}

// CandidateFrom wraps a complete event for validation.
func CandidateFrom(e Event) Candidate {
	return Candidate{
		Title:       &e.Title,
		Description: &e.Description,
		Start:       &e.Start,
		End:         &e.End,
	}
}

// Validate returns nil when c may be saved, otherwise a *ValidationError for
// the first failing rule. Lengths are counted in characters. Date ordering is
// only checked when both dates are present.
func Validate(c Candidate) error {
	if c.Title == nil || strings.TrimSpace(*c.Title) == "" {
		return &ValidationError{Field: "title", Rule: ErrTitleRequired}
	}
	if utf8.RuneCountInString(*c.Title) > MaxTitleLength {
		return &ValidationError{Field: "title", Rule: ErrTitleTooLong}
	}
	if c.Description != nil && utf8.RuneCountInString(*c.Description) > MaxDescriptionLength {
		return &ValidationError{Field: "description", Rule: ErrDescriptionTooLong}
	}
	if c.Start != nil && c.End != nil && !c.End.After(*c.Start) {
		return &ValidationError{Field: "end", Rule: ErrEndBeforeStart}
	}
	return nil
}

// ValidateEvent validates a complete event.
func ValidateEvent(e Event) error {
	return Validate(CandidateFrom(e))
}
