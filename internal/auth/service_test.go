package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/Moyo-Made/social-shake-backend/pkg/auth"
	"github.com/Moyo-Made/social-shake-backend/pkg/config"
	"github.com/Moyo-Made/social-shake-backend/pkg/db/models"
	"github.com/Moyo-Made/social-shake-backend/pkg/enums"
	pkgerrors "github.com/Moyo-Made/social-shake-backend/pkg/errors"
	"github.com/Moyo-Made/social-shake-backend/pkg/security"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "social-shake",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestServiceLoginMintsTokenWithRole(t *testing.T) {
	password := "brand-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "brand@example.com",
		DisplayName:  "Acme",
		Role:         enums.UserRoleBrand,
		PasswordHash: mustHashPassword(t, password),
	}
	cfg := testJWTConfig()

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleBrand {
		t.Fatalf("expected brand role claim, got %s", claims.Role)
	}
	if resp.User == nil || resp.User.Email != user.Email {
		t.Fatalf("expected user DTO in response")
	}
}

func TestServiceLoginNormalizesEmail(t *testing.T) {
	password := "creator-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "creator@example.com",
		Role:         enums.UserRoleCreator,
		PasswordHash: mustHashPassword(t, password),
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginRequest{Email: "  Creator@Example.com ", Password: password}); err != nil {
		t.Fatalf("login with unnormalized email: %v", err)
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "brand@example.com",
		Role:         enums.UserRoleBrand,
		PasswordHash: mustHashPassword(t, "correct"),
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownUser(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "anything"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
