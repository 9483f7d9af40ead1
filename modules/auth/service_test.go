package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/example/catalog-api/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupService creates an AuthService backed by an in-memory SQLite database.
func setupService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.AccessToken{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	jwtConfig := DefaultJWTConfig()
	jwtConfig.TokenDuration = time.Hour
	return NewAuthService(NewUserRepository(db), NewPasswordHasher(), NewJWTManager(jwtConfig))
}

func TestAuthService_Register(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	t.Run("valid registration issues a token", func(t *testing.T) {
		user, token, err := svc.Register(ctx, "Maria Silva", "maria@example.com", "password123", "password123")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.ID == 0 {
			t.Error("expected persisted user with non-zero ID")
		}
		if user.Role != domain.RoleUser {
			t.Errorf("expected role %q, got %q", domain.RoleUser, user.Role)
		}
		if token == "" {
			t.Error("expected a token")
		}

		claims, err := svc.ValidateToken(ctx, token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("expected claims for user %d, got %d", user.ID, claims.UserID)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		if _, _, err := svc.Register(ctx, "Maria Outra", "maria@example.com", "password123", "password123"); !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	tests := []struct {
		name         string
		userName     string
		email        string
		password     string
		confirmation string
		wantErr      error
	}{
		{name: "short name", userName: "ab", email: "a@example.com", password: "password123", confirmation: "password123", wantErr: ErrInvalidName},
		{name: "bad email", userName: "Valid Name", email: "not-an-email", password: "password123", confirmation: "password123", wantErr: ErrInvalidEmail},
		{name: "weak password", userName: "Valid Name", email: "b@example.com", password: "short", confirmation: "short", wantErr: ErrWeakPassword},
		{name: "password too long", userName: "Valid Name", email: "d@example.com", password: strings.Repeat("a", 73), confirmation: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
		{name: "confirmation mismatch", userName: "Valid Name", email: "c@example.com", password: "password123", confirmation: "different123", wantErr: ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.userName, tt.email, tt.password, tt.confirmation)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Joao Souza", "joao@example.com", "password123", "password123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := svc.Login(ctx, "joao@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.Email != "joao@example.com" {
			t.Errorf("unexpected user %q", user.Email)
		}
		if _, err := svc.ValidateToken(ctx, token); err != nil {
			t.Errorf("issued token did not validate: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "joao@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "Ana Lima", "ana@example.com", "password123", "password123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.ValidateToken(ctx, token); err != nil {
		t.Fatalf("token invalid before logout: %v", err)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	// A revoked token keeps its valid signature but must be rejected.
	if _, err := svc.ValidateToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after logout, got %v", err)
	}

	// Logout is idempotent.
	if err := svc.Logout(ctx, token); err != nil {
		t.Errorf("repeated Logout() error = %v", err)
	}
}
