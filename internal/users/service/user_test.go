package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"docportal/internal/users/repository"
	"docportal/pkg/auth"
	"docportal/pkg/config"
	apperrors "docportal/pkg/errors"
	"docportal/pkg/logger"
	"docportal/pkg/model"
)

// Mock repository for testing
type mockUserRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findAllFunc     func(ctx context.Context) ([]*model.User, error)
	upsertFunc      func(ctx context.Context, user *model.User) (*mongo.UpdateResult, error)
	setRoleFunc     func(ctx context.Context, email string, role model.Role) (*mongo.UpdateResult, error)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.User{}, nil
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *model.User) (*mongo.UpdateResult, error) {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	return &mongo.UpdateResult{UpsertedCount: 1}, nil
}

func (m *mockUserRepository) SetRole(ctx context.Context, email string, role model.Role) (*mongo.UpdateResult, error) {
	if m.setRoleFunc != nil {
		return m.setRoleFunc(ctx, email, role)
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.TEXT,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestService(repo repository.UserRepository) UserService {
	return NewUserService(repo, auth.NewTokenMaker("test-secret", time.Hour), testConfig())
}

func TestSignIn_UpsertsAndIssuesToken(t *testing.T) {
	var upserted *model.User
	repo := &mockUserRepository{
		upsertFunc: func(ctx context.Context, user *model.User) (*mongo.UpdateResult, error) {
			upserted = user
			return &mongo.UpdateResult{UpsertedCount: 1}, nil
		},
	}
	service := newTestService(repo)

	result, err := service.SignIn(context.Background(), "  Jordan@Example.COM ", &model.User{Name: "  Jordan   Smith "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token")
	}
	if !result.Upserted {
		t.Error("expected Upserted true for a new record")
	}
	if upserted.Email != "jordan@example.com" {
		t.Errorf("expected sanitized email, got %q", upserted.Email)
	}
	if upserted.Name != "Jordan Smith" {
		t.Errorf("expected sanitized name, got %q", upserted.Name)
	}

	maker := auth.NewTokenMaker("test-secret", time.Hour)
	claims, err := maker.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("token must verify against the same secret: %v", err)
	}
	if claims.Email != "jordan@example.com" {
		t.Errorf("expected token email jordan@example.com, got %s", claims.Email)
	}
}

func TestSignIn_EmptyEmailRejected(t *testing.T) {
	service := newTestService(&mockUserRepository{})

	_, err := service.SignIn(context.Background(), "   ", &model.User{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %s", apperrors.CodeInvalidInput, appErr.Code)
	}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name      string
		user      *model.User
		userErr   error
		want      bool
		wantErr   string
	}{
		{"admin user", &model.User{Email: "a@example.com", Role: model.RoleAdmin}, nil, true, ""},
		{"patient user", &model.User{Email: "p@example.com", Role: model.RolePatient}, nil, false, ""},
		{"no role set", &model.User{Email: "n@example.com"}, nil, false, ""},
		{"missing user", nil, repository.ErrNotFound, false, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
					return tt.user, tt.userErr
				},
			}
			service := newTestService(repo)

			got, err := service.IsAdmin(context.Background(), "someone@example.com")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if code := apperrors.AsAppError(err).Code; code != tt.wantErr {
					t.Errorf("expected code %s, got %s", tt.wantErr, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, Role: model.RoleAdmin}, nil
		},
	}
	service := newTestService(repo)

	if err := service.RequireAdmin(context.Background(), "admin@example.com"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRequireAdmin_PatientForbidden(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{Email: email, Role: model.RolePatient}, nil
		},
	}
	service := newTestService(repo)

	err := service.RequireAdmin(context.Background(), "patient@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeForbidden {
		t.Errorf("expected code %s, got %s", apperrors.CodeForbidden, code)
	}
}

// A verified token whose email has no user record is its own failure mode,
// never a plain Forbidden.
func TestRequireAdmin_MissingRecordIsUnknownUser(t *testing.T) {
	service := newTestService(&mockUserRepository{})

	err := service.RequireAdmin(context.Background(), "ghost@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeUnknownUser {
		t.Errorf("expected code %s, got %s", apperrors.CodeUnknownUser, appErr.Code)
	}
	if appErr.HTTPStatus != 403 {
		t.Errorf("expected status 403, got %d", appErr.HTTPStatus)
	}
}

func TestPromote_MissingUserIsNotFound(t *testing.T) {
	repo := &mockUserRepository{
		setRoleFunc: func(ctx context.Context, email string, role model.Role) (*mongo.UpdateResult, error) {
			return nil, repository.ErrNotFound
		},
	}
	service := newTestService(repo)

	_, err := service.Promote(context.Background(), "ghost@example.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeNotFound, code)
	}
}

func TestPromote_SetsAdminRole(t *testing.T) {
	var gotRole model.Role
	repo := &mockUserRepository{
		setRoleFunc: func(ctx context.Context, email string, role model.Role) (*mongo.UpdateResult, error) {
			gotRole = role
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		},
	}
	service := newTestService(repo)

	user, err := service.Promote(context.Background(), "Future.Admin@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRole != model.RoleAdmin {
		t.Errorf("expected role %s, got %s", model.RoleAdmin, gotRole)
	}
	if user.Email != "future.admin@example.com" {
		t.Errorf("expected sanitized email, got %q", user.Email)
	}
}
