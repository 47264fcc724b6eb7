package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

func newAuthFixture(t *testing.T) (*fakeRepository, AuthService, *auth.TokenManager) {
	t.Helper()

	repo := newFakeRepository()
	tokens := auth.NewTokenManager([]byte("test-secret"), "forum-service", time.Hour)
	service := NewAuthService(repo, tokens, newTestLogger(), validator.New())
	return repo, service, tokens
}

func registerRequest(username string) *RegisterRequest {
	return &RegisterRequest{
		FullName:    "Jamie Doe",
		DateOfBirth: time.Date(2001, 5, 20, 0, 0, 0, 0, time.UTC),
		Contact:     username + "@campus.test",
		Username:    username,
		Password:    "secret123",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registration always creates a student", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		profile, err := service.Register(ctx, registerRequest("freshman1"))
		if err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		if profile.Role != models.RoleStudent {
			t.Errorf("Expected Student role, got %s", profile.Role)
		}
		if profile.Username != "freshman1" {
			t.Errorf("Expected username 'freshman1', got %q", profile.Username)
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		if _, err := service.Register(ctx, registerRequest("taken1")); err != nil {
			t.Fatalf("Failed to register first user: %v", err)
		}
		_, err := service.Register(ctx, registerRequest("taken1"))
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("future birth date fails validation", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		req := registerRequest("futurist")
		req.DateOfBirth = time.Now().Add(24 * time.Hour)
		_, err := service.Register(ctx, req)
		if KindOf(err) != KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("short password fails validation", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		req := registerRequest("shorty1")
		req.Password = "abc"
		_, err := service.Register(ctx, req)
		if KindOf(err) != KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("login returns a parseable token", func(t *testing.T) {
		_, service, tokens := newAuthFixture(t)

		if _, err := service.Register(ctx, registerRequest("login1")); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}

		resp, err := service.Login(ctx, &LoginRequest{Username: "login1", Password: "secret123"})
		if err != nil {
			t.Fatalf("Failed to login: %v", err)
		}
		if resp.Token == "" {
			t.Fatal("Expected a token")
		}

		identity, err := tokens.Parse(resp.Token)
		if err != nil {
			t.Fatalf("Failed to parse issued token: %v", err)
		}
		if identity.Username != "login1" {
			t.Errorf("Expected token for 'login1', got %q", identity.Username)
		}
		if identity.Role != models.RoleStudent {
			t.Errorf("Expected Student role in token, got %s", identity.Role)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		if _, err := service.Register(ctx, registerRequest("login2")); err != nil {
			t.Fatalf("Failed to register: %v", err)
		}
		_, err := service.Login(ctx, &LoginRequest{Username: "login2", Password: "wrongpass"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown username is indistinguishable from wrong password", func(t *testing.T) {
		_, service, _ := newAuthFixture(t)

		_, err := service.Login(ctx, &LoginRequest{Username: "nobody", Password: "whatever1"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestAuthService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	repo, service, _ := newAuthFixture(t)

	user := seedUser(t, repo, "profile1", models.RoleStudent, "secret123")

	name := "Renamed Person"
	contact := "new@campus.test"
	profile, err := service.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{
		FullName: &name,
		Contact:  &contact,
	})
	if err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}
	if profile.FullName != name {
		t.Errorf("Expected full name %q, got %q", name, profile.FullName)
	}
	if profile.Contact != contact {
		t.Errorf("Expected contact %q, got %q", contact, profile.Contact)
	}
	if profile.Username != "profile1" {
		t.Errorf("Expected username untouched, got %q", profile.Username)
	}
}

func TestAuthService_UpdateLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("change password then login with it", func(t *testing.T) {
		repo, service, _ := newAuthFixture(t)
		user := seedUser(t, repo, "creds1", models.RoleStudent, "oldsecret")

		newPassword := "newsecret"
		err := service.UpdateLogin(ctx, user.ID, &UpdateLoginRequest{
			CurrentPassword: "oldsecret",
			NewPassword:     &newPassword,
		})
		if err != nil {
			t.Fatalf("Failed to update credentials: %v", err)
		}

		if _, err := service.Login(ctx, &LoginRequest{Username: "creds1", Password: "newsecret"}); err != nil {
			t.Errorf("Expected login with new password to succeed, got %v", err)
		}
		if _, err := service.Login(ctx, &LoginRequest{Username: "creds1", Password: "oldsecret"}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected old password to stop working, got %v", err)
		}
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		repo, service, _ := newAuthFixture(t)
		user := seedUser(t, repo, "creds2", models.RoleStudent, "oldsecret")

		newPassword := "newsecret"
		err := service.UpdateLogin(ctx, user.ID, &UpdateLoginRequest{
			CurrentPassword: "notmine",
			NewPassword:     &newPassword,
		})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("new username must be free", func(t *testing.T) {
		repo, service, _ := newAuthFixture(t)
		seedUser(t, repo, "creds3", models.RoleStudent, "secret123")
		user := seedUser(t, repo, "creds4", models.RoleStudent, "secret123")

		taken := "creds3"
		err := service.UpdateLogin(ctx, user.ID, &UpdateLoginRequest{
			CurrentPassword: "secret123",
			NewUsername:     &taken,
		})
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("nothing to update fails validation", func(t *testing.T) {
		repo, service, _ := newAuthFixture(t)
		user := seedUser(t, repo, "creds5", models.RoleStudent, "secret123")

		err := service.UpdateLogin(ctx, user.ID, &UpdateLoginRequest{CurrentPassword: "secret123"})
		if KindOf(err) != KindValidation {
			t.Errorf("Expected validation error, got %v", err)
		}
	})
}

func TestAuthService_CheckUsername(t *testing.T) {
	ctx := context.Background()
	repo, service, _ := newAuthFixture(t)

	seedUser(t, repo, "existing1", models.RoleStudent, "secret123")

	available, err := service.CheckUsername(ctx, "existing1")
	if err != nil {
		t.Fatalf("Failed to check username: %v", err)
	}
	if available {
		t.Error("Expected taken username to be unavailable")
	}

	available, err = service.CheckUsername(ctx, "brandnew1")
	if err != nil {
		t.Fatalf("Failed to check username: %v", err)
	}
	if !available {
		t.Error("Expected fresh username to be available")
	}
}
