package core

import "errors"

// Business errors exported for the adapters. Services wrap these with
// fmt.Errorf("%w: ...") to attach the reference value the check failed
// against; classify with errors.Is.
var (
	// ErrInvalidTimestamp reports a date/time input that matched none of the
	// accepted spellings.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrOutOfOrder reports a timeline write whose start timestamp would
	// cross a neighboring record.
	ErrOutOfOrder = errors.New("status date out of chronological order")

	// ErrDuplicateInitialStatus reports an attempt to create a second
	// "Registered" record; the initial record is system-created exactly once.
	ErrDuplicateInitialStatus = errors.New("initial status record already exists")

	// ErrMissingRequiredDeadline reports a deadline-required status submitted
	// without a deadline in days.
	ErrMissingRequiredDeadline = errors.New("status requires a deadline in days")

	// ErrProtectedRecord reports an attempt to delete the "Registered" record.
	ErrProtectedRecord = errors.New("initial status record cannot be deleted")

	// ErrRecordNotFound reports a referenced order, record, payment, or
	// client that does not exist in the store.
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps a failed read or write against the external
	// record store. Not retried automatically; the caller re-submits.
	ErrStoreUnavailable = errors.New("record store unavailable")
)
