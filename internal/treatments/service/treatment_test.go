package service

import (
	"context"
	"testing"
	"time"

	"docportal/internal/treatments/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

// Mock repositories for testing
type mockTreatmentRepository struct {
	findAllFunc    func(ctx context.Context) ([]*model.Treatment, error)
	findNamesFunc  func(ctx context.Context) ([]*model.Treatment, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Treatment, error)
}

func (m *mockTreatmentRepository) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Treatment{}, nil
}

func (m *mockTreatmentRepository) FindNames(ctx context.Context) ([]*model.Treatment, error) {
	if m.findNamesFunc != nil {
		return m.findNamesFunc(ctx)
	}
	return []*model.Treatment{}, nil
}

func (m *mockTreatmentRepository) FindByName(ctx context.Context, name string) (*model.Treatment, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, repository.ErrNotFound
}

type mockBookingLookup struct {
	findByDateFunc func(ctx context.Context, date string) ([]*model.Booking, error)
}

func (m *mockBookingLookup) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, date)
	}
	return []*model.Booking{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.TEXT,
			Service: "test",
		}),
		ReadTimeout: 5 * time.Second,
	}
}

func TestAvailability_SubtractsBookedSlots(t *testing.T) {
	repo := &mockTreatmentRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Treatment, error) {
			return []*model.Treatment{
				{Name: "Teeth Whitening", Price: 100, Slots: []string{"9am", "10am", "11am"}},
			}, nil
		},
	}
	bookings := &mockBookingLookup{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{TreatmentName: "Teeth Whitening", TreatmentDate: date, Slot: "10am"},
			}, nil
		},
	}

	service := NewTreatmentService(repo, bookings, testConfig())

	result, err := service.Availability(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 treatment, got %d", len(result))
	}

	got := result[0].Slots
	want := []string{"9am", "11am"}
	if len(got) != len(want) {
		t.Fatalf("expected slots %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAvailability_PreservesTemplateOrder(t *testing.T) {
	repo := &mockTreatmentRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Treatment, error) {
			return []*model.Treatment{
				{Name: "Cavity Protection", Slots: []string{"8am", "11am", "9am", "10am"}},
			}, nil
		},
	}
	bookings := &mockBookingLookup{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{TreatmentName: "Cavity Protection", Slot: "9am"},
			}, nil
		},
	}

	service := NewTreatmentService(repo, bookings, testConfig())

	result, err := service.Availability(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"8am", "11am", "10am"}
	got := result[0].Slots
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestAvailability_FullyBookedStaysInResult(t *testing.T) {
	repo := &mockTreatmentRepository{
		findAllFunc: func(ctx context.Context) ([]*model.Treatment, error) {
			return []*model.Treatment{
				{Name: "Fluoride Treatment", Slots: []string{"9am"}},
				{Name: "Oral Surgery", Slots: []string{"9am", "10am"}},
			}, nil
		},
	}
	bookings := &mockBookingLookup{
		findByDateFunc: func(ctx context.Context, date string) ([]*model.Booking, error) {
			return []*model.Booking{
				{TreatmentName: "Fluoride Treatment", Slot: "9am"},
			}, nil
		},
	}

	service := NewTreatmentService(repo, bookings, testConfig())

	result, err := service.Availability(context.Background(), "2026-08-27")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 treatments, got %d", len(result))
	}
	if len(result[0].Slots) != 0 {
		t.Errorf("expected fully booked treatment to keep an empty slot list, got %v", result[0].Slots)
	}
	if len(result[1].Slots) != 2 {
		t.Errorf("expected untouched treatment to keep all slots, got %v", result[1].Slots)
	}
}

func TestAvailability_DateValidation(t *testing.T) {
	service := NewTreatmentService(&mockTreatmentRepository{}, &mockBookingLookup{}, testConfig())

	tests := []struct {
		name string
		date string
	}{
		{"missing date", ""},
		{"wrong layout", "Oct 12, 2022"},
		{"partial date", "2026-08"},
		{"not a date", "tomorrow"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Availability(context.Background(), tt.date)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.Code != apperrors.CodeInvalidInput {
				t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
			}
		})
	}
}

func TestPriceByName(t *testing.T) {
	repo := &mockTreatmentRepository{
		findByNameFunc: func(ctx context.Context, name string) (*model.Treatment, error) {
			if name == "Teeth Whitening" {
				return &model.Treatment{Name: name, Price: 150.5}, nil
			}
			return nil, repository.ErrNotFound
		},
	}

	service := NewTreatmentService(repo, &mockBookingLookup{}, testConfig())

	price, err := service.PriceByName(context.Background(), "Teeth Whitening")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 150.5 {
		t.Errorf("expected price 150.5, got %v", price)
	}

	if _, err := service.PriceByName(context.Background(), "Unknown"); err == nil {
		t.Error("expected error for unknown treatment")
	}
}
