package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "docportal/internal/bookings/errors"
	"docportal/internal/bookings/repository"
	"docportal/internal/bookings/validator"
	"docportal/internal/events"
	paymentrepo "docportal/internal/payments/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
	"docportal/pkg/sanitizer"
)

// PriceResolver resolves a treatment's current price so the payment record
// carries the settled amount.
type PriceResolver interface {
	PriceByName(ctx context.Context, name string) (float64, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.BookingResult, error)
	GetByID(ctx context.Context, id string, requesterEmail string) (*model.Booking, error)
	ListByPatient(ctx context.Context, patientEmail string, requesterEmail string) ([]*model.Booking, error)
	Settle(ctx context.Context, id string, requesterEmail string, settlement *model.Settlement) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	payments  paymentrepo.PaymentRepository
	prices    PriceResolver
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	payments paymentrepo.PaymentRepository,
	prices PriceResolver,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		payments:  payments,
		prices:    prices,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create accepts a booking request and guarantees at most one booking per
// (treatment, date, patient) and per (treatment, date, slot). Both guarantees
// come from unique indexes, so two concurrent submissions cannot both win.
// A duplicate by the same patient is a normal outcome: Success is false and
// the existing record rides along.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.BookingResult, error) {
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	err := s.repo.Create(ctx, booking)
	if err == nil {
		s.cfg.Log.Info("Booking created",
			"id", booking.ID,
			"treatment", booking.TreatmentName,
			"date", booking.TreatmentDate,
			"slot", booking.Slot,
		)
		s.publishEvent(ctx, s.publisher.BookingCreated, booking)
		return &model.BookingResult{Success: true, Booking: booking}, nil
	}

	if errors.Is(err, bookingserrors.ErrDuplicatePatient) {
		existing, findErr := s.repo.FindByTriple(ctx, booking.TreatmentName, booking.TreatmentDate, booking.PatientEmail)
		if findErr != nil {
			return nil, apperrors.Internal("Failed to load existing booking", findErr)
		}
		s.cfg.Log.Info("Duplicate booking attempt",
			"treatment", booking.TreatmentName,
			"date", booking.TreatmentDate,
			"patient", booking.PatientEmail,
		)
		return &model.BookingResult{Success: false, Booking: existing}, nil
	}

	if errors.Is(err, bookingserrors.ErrSlotTaken) {
		return nil, apperrors.Conflict("Slot is no longer available for this treatment and date")
	}

	s.cfg.Log.Error("Failed to create booking", "error", err)
	return nil, apperrors.Internal("Failed to create booking", err)
}

// GetByID returns a booking only to the patient who owns it.
func (s *bookingService) GetByID(ctx context.Context, id string, requesterEmail string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}

	if booking.PatientEmail != sanitizer.SanitizeEmail(requesterEmail) {
		return nil, apperrors.Forbidden("Forbidden Access")
	}

	return booking, nil
}

// ListByPatient requires the requested email to match the verified identity;
// a structurally valid token for someone else is still forbidden.
func (s *bookingService) ListByPatient(ctx context.Context, patientEmail string, requesterEmail string) ([]*model.Booking, error) {
	patientEmail = sanitizer.SanitizeEmail(patientEmail)
	if patientEmail == "" {
		return nil, apperrors.InvalidInput("patient_email query parameter is required")
	}
	if patientEmail != sanitizer.SanitizeEmail(requesterEmail) {
		return nil, apperrors.Forbidden("Forbidden Access")
	}

	bookings, err := s.repo.FindByPatient(ctx, patientEmail)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "patient", patientEmail, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// Settle marks the booking paid and records the payment in one transaction;
// the two writes commit together or not at all. Replaying the same
// transaction id is idempotent, a different id on a paid booking conflicts.
func (s *bookingService) Settle(ctx context.Context, id string, requesterEmail string, settlement *model.Settlement) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateSettlement(settlement); err != nil {
		s.cfg.Log.Warn("Settlement validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid settlement input", map[string]any{"error": err.Error()})
	}

	var settled *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}

		if booking.PatientEmail != sanitizer.SanitizeEmail(requesterEmail) {
			return apperrors.Forbidden("Forbidden Access")
		}

		if booking.Paid {
			if booking.TransactionID == settlement.TransactionID {
				// Idempotent replay; the previous settlement stands.
				settled = booking
				return nil
			}
			return apperrors.Conflict("Booking already settled with a different transaction")
		}

		if _, err := s.repo.MarkPaid(sessCtx, id, settlement.TransactionID); err != nil {
			return apperrors.Internal("Failed to mark booking paid", err)
		}

		payment := &model.Payment{
			BookingID:     id,
			TransactionID: settlement.TransactionID,
			PatientEmail:  booking.PatientEmail,
			Amount:        0,
		}
		if err := s.lookupAmount(sessCtx, booking, payment); err != nil {
			return err
		}
		if err := s.payments.Insert(sessCtx, payment); err != nil {
			return apperrors.Internal("Failed to record payment", err)
		}

		booking.Paid = true
		booking.TransactionID = settlement.TransactionID
		settled = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to settle booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking settled", "id", id, "transaction_id", settlement.TransactionID)
	s.publishEvent(ctx, s.publisher.BookingSettled, settled)
	return settled, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.TreatmentName = sanitizer.SanitizeName(b.TreatmentName)
	b.Slot = sanitizer.SanitizeSlot(b.Slot)
	b.PatientEmail = sanitizer.SanitizeEmail(b.PatientEmail)
	b.PatientName = sanitizer.SanitizeName(b.PatientName)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

// lookupAmount resolves the settled amount from the treatment catalog when a
// price resolver is wired; the payment record keeps amount 0 otherwise.
func (s *bookingService) lookupAmount(ctx context.Context, booking *model.Booking, payment *model.Payment) error {
	if s.prices == nil {
		return nil
	}
	price, err := s.prices.PriceByName(ctx, booking.TreatmentName)
	if err != nil {
		return apperrors.Internal("Failed to resolve treatment price", err)
	}
	payment.Amount = price
	return nil
}

func (s *bookingService) publishEvent(ctx context.Context, publish func(context.Context, *model.Booking) error, booking *model.Booking) {
	if err := publish(ctx, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "id", booking.ID, "error", err)
	}
}
