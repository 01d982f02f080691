package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrClassification    = errors.New("classification failed")
	ErrStore             = errors.New("store operation failed")
	ErrNotFound          = errors.New("resource not found")
	ErrCascadeIncomplete = errors.New("cascade delete incomplete")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// StoreError carries the failed repository operation. Error includes the driver detail;
// Public omits it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return ErrStore.Error() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Public() string {
	return ErrStore.Error() + ": " + e.Op
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}
