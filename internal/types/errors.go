package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrElementNotFound = errors.New("element not found")
	ErrFieldExtraction = errors.New("field extraction failed")
	ErrEmptyTitle      = errors.New("empty title attribute")
	ErrNegativePrice   = errors.New("negative price")
	ErrInvalidURL      = errors.New("invalid URL")
)

// ElementNotFoundError reports an element that could not be located within
// the session's wait budget.
type ElementNotFoundError struct {
	Locator string
	Err     error
}

func (e *ElementNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("element not found for %s: %v", e.Locator, e.Err)
	}
	return fmt.Sprintf("element not found for %s", e.Locator)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

func (e *ElementNotFoundError) Is(target error) bool { return target == ErrElementNotFound }

// FieldExtractionError reports a product field that could not be read or
// parsed. It fails the whole record, never just the field.
type FieldExtractionError struct {
	Field string
	Err   error
}

func (e *FieldExtractionError) Error() string {
	return fmt.Sprintf("extract field %q: %v", e.Field, e.Err)
}

func (e *FieldExtractionError) Unwrap() error { return e.Err }

func (e *FieldExtractionError) Is(target error) bool { return target == ErrFieldExtraction }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
