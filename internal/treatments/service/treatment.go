package service

import (
	"context"
	"time"

	"docportal/internal/treatments/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
)

// BookingLookup is the slice of the bookings repository availability needs:
// every booking whose treatment date equals the target day.
type BookingLookup interface {
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
}

type TreatmentService interface {
	ListNames(ctx context.Context) ([]*model.Treatment, error)
	Availability(ctx context.Context, date string) ([]*model.TreatmentAvailability, error)
	PriceByName(ctx context.Context, name string) (float64, error)
}

type treatmentService struct {
	repo     repository.TreatmentRepository
	bookings BookingLookup
	cfg      *config.Config
}

func NewTreatmentService(repo repository.TreatmentRepository, bookings BookingLookup, cfg *config.Config) TreatmentService {
	return &treatmentService{
		repo:     repo,
		bookings: bookings,
		cfg:      cfg,
	}
}

func (s *treatmentService) ListNames(ctx context.Context) ([]*model.Treatment, error) {
	treatments, err := s.repo.FindNames(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list treatments", "error", err)
		return nil, apperrors.Internal("Failed to retrieve treatments", err)
	}
	return treatments, nil
}

// PriceByName resolves a treatment's current price. Settlement uses this so
// the payment record carries the catalog price at settle time.
func (s *treatmentService) PriceByName(ctx context.Context, name string) (float64, error) {
	treatment, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return 0, err
	}
	return treatment.Price, nil
}

// Availability subtracts the day's booked slots from each treatment's slot
// template. The result is a read-time snapshot: it holds no lock, and a slot
// reported open can be taken before the caller books it. The unique slot
// index on the bookings collection is what actually decides the race.
func (s *treatmentService) Availability(ctx context.Context, date string) ([]*model.TreatmentAvailability, error) {
	if date == "" {
		return nil, apperrors.InvalidInput("date query parameter is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return nil, apperrors.InvalidInput("date must be in YYYY-MM-DD format")
	}

	treatments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load treatment catalog", "error", err)
		return nil, apperrors.Internal("Failed to retrieve treatments", err)
	}

	bookings, err := s.bookings.FindByDate(ctx, date)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings for date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	booked := make(map[string]map[string]struct{}, len(treatments))
	for _, b := range bookings {
		slots, ok := booked[b.TreatmentName]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.TreatmentName] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	result := make([]*model.TreatmentAvailability, 0, len(treatments))
	for _, t := range treatments {
		available := make([]string, 0, len(t.Slots))
		for _, slot := range t.Slots {
			if _, taken := booked[t.Name][slot]; !taken {
				available = append(available, slot)
			}
		}
		// Fully booked treatments stay in the result with an empty list.
		result = append(result, &model.TreatmentAvailability{
			ID:    t.ID,
			Name:  t.Name,
			Price: t.Price,
			Slots: available,
			Image: t.Image,
		})
	}

	s.cfg.Log.Debug("Availability computed",
		"date", date,
		"treatments", len(result),
		"day_bookings", len(bookings),
	)
	return result, nil
}
