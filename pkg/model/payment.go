package model

import "time"

// Payment is the insert-only record of a settled transaction, written in the
// same transaction that flips the booking's paid flag.
type Payment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID     string    `json:"booking_id" bson:"booking_id" validate:"required,mongodb"`
	TransactionID string    `json:"transaction_id" bson:"transaction_id" validate:"required,min=1,max=100"`
	PatientEmail  string    `json:"patient_email" bson:"patient_email" validate:"required,email"`
	Amount        float64   `json:"amount" bson:"amount" validate:"required,gt=0"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
