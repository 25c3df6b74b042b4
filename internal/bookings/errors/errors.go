package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrDuplicatePatient means the (treatment, date, patient) triple already
	// has a booking. This is the expected double-submit outcome, not a fault.
	ErrDuplicatePatient = errors.New("patient already booked this treatment on this date")

	// ErrSlotTaken means another patient won the (treatment, date, slot) race.
	ErrSlotTaken = errors.New("slot already taken for this treatment and date")
)
