package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound means no editing session exists for the given ID.
	ErrSessionNotFound = errors.New("editing session not found")

	// ErrSectionNotFound means the referenced section is not in the document.
	ErrSectionNotFound = errors.New("section not found")

	// ErrQuestionNotFound means the referenced question is not in the section.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrOperationInProgress rejects a second persistence operation while one
	// is still running.
	ErrOperationInProgress = errors.New("another operation is already in progress")

	// ErrUnsavedChanges blocks a candidate switch that would silently drop
	// edits.
	ErrUnsavedChanges = errors.New("there are unsaved changes for the current candidate")

	// ErrConfirmationRequired guards destructive operations behind an
	// explicit confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrNothingToReset means the candidate has no stored question set.
	ErrNothingToReset = errors.New("no saved question set to reset")
)

// ValidationError is a user-facing rule violation found while validating a
// document or applying an edit.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// QuotaError means bulk AI generation has already been used for a candidate.
type QuotaError struct {
	CandidateID string
}

func (e *QuotaError) Error() string {
	return "AI question generation has already been used for this candidate; edit the existing AI questions instead of generating a new set"
}
