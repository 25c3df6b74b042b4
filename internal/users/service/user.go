package service

import (
	"context"
	"errors"

	"docportal/internal/users/repository"
	"docportal/pkg/auth"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/model"
	"docportal/pkg/sanitizer"
)

// SignInResult pairs the upsert outcome with a fresh bearer token; sign-in
// is the only way a caller obtains one.
type SignInResult struct {
	Upserted    bool        `json:"upserted"`
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

type UserService interface {
	SignIn(ctx context.Context, email string, profile *model.User) (*SignInResult, error)
	List(ctx context.Context) ([]*model.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	Promote(ctx context.Context, email string) (*model.User, error)
	RequireAdmin(ctx context.Context, email string) error
}

type userService struct {
	repo   repository.UserRepository
	tokens *auth.TokenMaker
	cfg    *config.Config
}

func NewUserService(repo repository.UserRepository, tokens *auth.TokenMaker, cfg *config.Config) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		cfg:    cfg,
	}
}

// SignIn upserts the user record and issues a bearer token for the email.
// Unauthenticated by design: this is how a user gets their first token.
func (s *userService) SignIn(ctx context.Context, email string, profile *model.User) (*SignInResult, error) {
	email = sanitizer.SanitizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	user := &model.User{
		Email: email,
		Name:  sanitizer.SanitizeName(profile.Name),
	}

	result, err := s.repo.Upsert(ctx, user)
	if err != nil {
		s.cfg.Log.Error("Failed to upsert user", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to save user", err)
	}

	token, err := s.tokens.Sign(email)
	if err != nil {
		s.cfg.Log.Error("Failed to sign access token", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to issue access token", err)
	}

	s.cfg.Log.Info("User signed in", "email", email, "upserted", result.UpsertedCount > 0)
	return &SignInResult{
		Upserted:    result.UpsertedCount > 0,
		User:        user,
		AccessToken: token,
	}, nil
}

func (s *userService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}

// IsAdmin reports whether the given email holds the admin role. A missing
// record is NotFound, never a silent false.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, sanitizer.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperrors.NotFound("User")
		}
		return false, apperrors.Internal("Failed to retrieve user", err)
	}
	return user.IsAdmin(), nil
}

// Promote grants the admin role to the target email.
func (s *userService) Promote(ctx context.Context, email string) (*model.User, error) {
	email = sanitizer.SanitizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email cannot be empty")
	}

	if _, err := s.repo.SetRole(ctx, email, model.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("User")
		}
		s.cfg.Log.Error("Failed to promote user", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to promote user", err)
	}

	s.cfg.Log.Info("User promoted to admin", "email", email)
	return &model.User{Email: email, Role: model.RoleAdmin}, nil
}

// RequireAdmin is the role authority behind admin-gated routes. An
// authenticated identity with no user record is an UnknownUser, kept
// distinct from plain Forbidden so the broken lookup is visible.
func (s *userService) RequireAdmin(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, sanitizer.SanitizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.cfg.Log.Warn("Authenticated caller has no user record", "email", email)
			return apperrors.UnknownUser(email)
		}
		return apperrors.Internal("Failed to retrieve user", err)
	}

	if !user.IsAdmin() {
		return apperrors.Forbidden("Forbidden Access")
	}

	return nil
}
