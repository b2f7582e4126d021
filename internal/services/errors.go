package services

import "errors"

// Service-level errors. Callers match them with errors.Is.
var (
	ErrNotFound = errors.New("record not found")

	// ErrConflict means the record was changed by someone else since it was
	// read. It still exists.
	ErrConflict = errors.New("record was modified by another request")

	ErrDuplicate        = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced city or vendor does not exist")
	ErrInvalidInput     = errors.New("invalid input")
	ErrImportFailed     = errors.New("import from open data failed")
	ErrRemoteFetch      = errors.New("open data request failed")
)
