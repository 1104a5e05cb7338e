package service

import "errors"

// Sentinel errors returned by the services below. Handlers map them to HTTP
// status codes with errors.Is; everything else surfaces as a generic failure.
var (
	// ErrInvalidLineValue rejects non-positive quantities or negative
	// prices/tax rates before anything is written.
	ErrInvalidLineValue = errors.New("line quantity must be positive and price/tax rate non-negative")

	// ErrDocumentLocked rejects line mutations outside the editable states.
	ErrDocumentLocked = errors.New("document lines can no longer be edited")

	// ErrDocumentNotFound is returned when a referenced document does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDependentRecordsExist blocks cancellation or deletion while payments
	// or dependent documents reference the record.
	ErrDependentRecordsExist = errors.New("payments or dependent documents exist")

	// ErrNotFound is the generic missing-record error for master data.
	ErrNotFound = errors.New("record not found")
)
