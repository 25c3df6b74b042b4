package validator

import (
	"strings"
	"testing"

	"docportal/pkg/logger"
	"docportal/pkg/model"
)

func testValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.TEXT,
		Service: "test",
	}))
}

func validBooking() *model.Booking {
	return &model.Booking{
		TreatmentName: "Teeth Whitening",
		TreatmentDate: "2026-08-27",
		Slot:          "10am",
		PatientEmail:  "jordan@example.com",
		PatientName:   "Jordan Smith",
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := testValidator()

	if err := v.Validate(validBooking()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_OptionalPhone(t *testing.T) {
	v := testValidator()

	booking := validBooking()
	booking.Phone = "+12025550123"
	if err := v.Validate(booking); err != nil {
		t.Errorf("valid E.164 phone rejected: %v", err)
	}

	booking.Phone = "555-0123"
	if err := v.Validate(booking); err == nil {
		t.Error("expected error for non-E.164 phone")
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{"missing treatment", func(b *model.Booking) { b.TreatmentName = "" }, "TreatmentName"},
		{"single char treatment", func(b *model.Booking) { b.TreatmentName = "x" }, "TreatmentName"},
		{"missing date", func(b *model.Booking) { b.TreatmentDate = "" }, "TreatmentDate"},
		{"human readable date", func(b *model.Booking) { b.TreatmentDate = "Oct 12, 2022" }, "TreatmentDate"},
		{"missing slot", func(b *model.Booking) { b.Slot = "" }, "Slot"},
		{"bad email", func(b *model.Booking) { b.PatientEmail = "nope" }, "PatientEmail"},
		{"bad object id", func(b *model.Booking) { b.ID = "short" }, "ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking()
			tt.mutate(booking)

			err := v.Validate(booking)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error naming %s, got: %v", tt.wantField, err)
			}
		})
	}
}

func TestValidateSettlement(t *testing.T) {
	v := testValidator()

	if err := v.ValidateSettlement(&model.Settlement{TransactionID: "txn_123"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := v.ValidateSettlement(&model.Settlement{}); err == nil {
		t.Error("expected error for missing transaction id")
	}

	if err := v.ValidateSettlement(&model.Settlement{TransactionID: strings.Repeat("x", 101)}); err == nil {
		t.Error("expected error for oversized transaction id")
	}
}
