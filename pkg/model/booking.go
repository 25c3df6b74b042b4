package model

import "time"

// DateLayout is the calendar-day granularity used for treatment dates. Two
// bookings on the same date conflict regardless of time of day, so the date is
// a plain day string rather than a timestamp.
const DateLayout = "2006-01-02"

type Booking struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TreatmentName string    `json:"treatment_name" bson:"treatment_name" validate:"required,min=2,max=100"`
	TreatmentDate string    `json:"treatment_date" bson:"treatment_date" validate:"required,datetime=2006-01-02"`
	Slot          string    `json:"slot" bson:"slot" validate:"required,min=1,max=20"`
	PatientEmail  string    `json:"patient_email" bson:"patient_email" validate:"required,email"`
	PatientName   string    `json:"patient_name" bson:"patient_name" validate:"required,min=2,max=100"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Paid          bool      `json:"paid" bson:"paid"`
	TransactionID string    `json:"transaction_id,omitempty" bson:"transaction_id,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingResult is the outcome of a create request. A duplicate submission is
// a normal outcome, not an error: Success is false and Booking carries the
// record that already holds the (treatment, date, patient) triple.
type BookingResult struct {
	Success bool     `json:"success"`
	Booking *Booking `json:"booking"`
}

// Settlement carries the payment confirmation a client submits after the
// gateway charge completes.
type Settlement struct {
	TransactionID string `json:"transaction_id" validate:"required,min=1,max=100"`
}
