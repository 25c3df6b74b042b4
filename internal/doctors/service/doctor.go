package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"docportal/internal/doctors/repository"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
	"docportal/pkg/sanitizer"
)

type DoctorService interface {
	List(ctx context.Context) ([]*model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error)
	DeleteByEmail(ctx context.Context, email string) error
}

type doctorService struct {
	repo     repository.DoctorRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewDoctorService(repo repository.DoctorRepository, cfg *config.Config) DoctorService {
	return &doctorService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *doctorService) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list doctors", "error", err)
		return nil, apperrors.Internal("Failed to retrieve doctors", err)
	}
	return doctors, nil
}

func (s *doctorService) Create(ctx context.Context, doctor *model.Doctor) (*model.Doctor, error) {
	doctor.Name = sanitizer.SanitizeName(doctor.Name)
	doctor.Email = sanitizer.SanitizeEmail(doctor.Email)
	doctor.Specialty = sanitizer.SanitizeName(doctor.Specialty)

	if err := s.validate.Struct(doctor); err != nil {
		s.cfg.Log.Warn("Doctor validation failed", "error", err)
		return nil, apperrors.Validation("Doctor validation failed", map[string]any{"error": err.Error()})
	}

	created, err := s.repo.Insert(ctx, doctor)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("A doctor with this email already exists")
		}
		s.cfg.Log.Error("Failed to create doctor", "email", doctor.Email, "error", err)
		return nil, apperrors.Internal("Failed to create doctor", err)
	}

	s.cfg.Log.Info("Doctor created", "id", created.ID, "email", created.Email)
	return created, nil
}

func (s *doctorService) DeleteByEmail(ctx context.Context, email string) error {
	email = sanitizer.SanitizeEmail(email)
	if email == "" {
		return apperrors.InvalidInput("Email cannot be empty")
	}

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Doctor")
		}
		s.cfg.Log.Error("Failed to delete doctor", "email", email, "error", err)
		return apperrors.Internal("Failed to delete doctor", err)
	}

	s.cfg.Log.Info("Doctor deleted", "email", email)
	return nil
}
