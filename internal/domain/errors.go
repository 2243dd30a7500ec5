package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEmptyQuery       = errors.New("location is required")
	ErrBusy             = errors.New("a guide is already being generated")
	ErrGenerationFailed = errors.New("generation failed")
	ErrExtraction       = errors.New("extraction failed")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRevoked          = errors.New("session revoked")
	ErrDuplicate        = errors.New("already exists")
)

// ExtractionError reports why no guide could be recovered from a completion.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract guide: %s: %v", e.Reason, e.Err)
	}
	return "extract guide: " + e.Reason
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExtraction, e.Err}
	}
	return []error{ErrExtraction}
}

// ValidationError maps field name -> problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range sortedKeys(e.Fields) {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = msg
}

// OrNil returns nil when no field failed, so callers can `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
