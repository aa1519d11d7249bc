package errs

import "errors"

// Sentinel errors shared by the usecase and handler layers
var (
	// Input errors
	ErrInvalidFormat = errors.New("invalid format")

	// Lookup errors
	ErrFacilityNotFound    = errors.New("facility not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrOverrideNotFound    = errors.New("override not found")

	// Business rule errors
	ErrValidationFailed    = errors.New("reservation validation failed")
	ErrReservationConflict = errors.New("reservation conflict")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDomainValidation    = errors.New("domain validation error")

	// Access errors
	ErrForbidden = errors.New("forbidden")

	// Idempotency errors
	ErrIdempotencyInProgress = errors.New("idempotency in progress")
	ErrIdempotencyMismatch   = errors.New("idempotency key reused with different request")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
