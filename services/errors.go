package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrFeedbackNotFound   = errors.New("feedback not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrEmptyBody          = errors.New("message body is empty")
	ErrFeedbackResolved   = errors.New("feedback is resolved")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidResumeToken = errors.New("invalid resume token")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is inactive")
)

// ValidationError carries per-field messages. errors.Is(err, ErrValidation) holds.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
