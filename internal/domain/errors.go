package domain

import "errors"

// Validation sentinels. Callers classify failures with errors.Is.
var (
	ErrNonPositiveWeight   = errors.New("weight must be greater than zero")
	ErrInvalidDate         = errors.New("date must be a valid YYYY-MM-DD day")
	ErrFutureDate          = errors.New("date is in the future")
	ErrNonPositivePressure = errors.New("systolic and diastolic must be greater than zero")
)
