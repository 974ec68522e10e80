package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rejoiceevents/decor-backend/internal/users"
	pkgauth "github.com/rejoiceevents/decor-backend/pkg/auth"
	"github.com/rejoiceevents/decor-backend/pkg/config"
	"github.com/rejoiceevents/decor-backend/pkg/db/models"
	"github.com/rejoiceevents/decor-backend/pkg/enums"
	pkgerrors "github.com/rejoiceevents/decor-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "rejoice-test", ExpirationMinutes: 60}
}

// fastArgonConfig keeps hashing cheap enough for the test suite.
func fastArgonConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := "file:auth_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(db),
		JWTConfig:      testJWTConfig(),
		PasswordConfig: fastArgonConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Client@Example.com",
		Password: "sup3rsecret",
		Name:     "Rejoice Client",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "client@example.com" {
		t.Fatalf("expected lowercased email, got %q", registered.User.Email)
	}
	if registered.User.Role != string(enums.UserRoleUser) {
		t.Fatalf("new accounts are customers, got %q", registered.User.Role)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), registered.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != registered.User.ID || claims.Role != enums.UserRoleUser {
		t.Fatalf("unexpected claims %+v", claims)
	}

	// Case-insensitive login with the same credentials.
	loggedIn, err := svc.Login(context.Background(), LoginRequest{Email: "CLIENT@example.com", Password: "sup3rsecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatal("login must resolve the registered account")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	cases := []RegisterRequest{
		{Email: "not-an-email", Password: "sup3rsecret", Name: "A"},
		{Email: "a@b.com", Password: "short", Name: "A"},
		{Email: "a@b.com", Password: "sup3rsecret", Name: "  "},
	}
	for i, req := range cases {
		_, err := svc.Register(context.Background(), req)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected VALIDATION_ERROR, got %v", i, err)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	req := RegisterRequest{Email: "dup@example.com", Password: "sup3rsecret", Name: "First"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "DUP@example.com", Password: "sup3rsecret", Name: "Second"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register(context.Background(), RegisterRequest{Email: "c@example.com", Password: "sup3rsecret", Name: "C"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []LoginRequest{
		{Email: "c@example.com", Password: "wrongpass"},
		{Email: "unknown@example.com", Password: "sup3rsecret"},
		{Email: "", Password: ""},
	}
	for i, req := range cases {
		_, err := svc.Login(context.Background(), req)
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("case %d: expected UNAUTHORIZED, got %v", i, err)
		}
	}
}
