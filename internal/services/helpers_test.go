package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/CTU-F-2025/forum-service/internal/auth"
	"github.com/CTU-F-2025/forum-service/internal/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func seedUser(t *testing.T, f *fakeRepository, username string, role models.UserRole, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		FullName:     "Test " + username,
		DateOfBirth:  time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC),
		Contact:      username + "@campus.test",
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := f.User().Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user %s: %v", username, err)
	}
	return user
}

func seedPost(t *testing.T, f *fakeRepository, authorID uint, status models.PostStatus, hidden bool) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:   "Seeded post",
		Content: "Seeded content",
		Type:    models.PostTypeText,
		Status:  status,
		Hidden:  hidden,
		UserID:  authorID,
	}
	if err := f.Post().Create(context.Background(), post); err != nil {
		t.Fatalf("Failed to seed post: %v", err)
	}
	return post
}

func identityOf(user *models.User) auth.Identity {
	return auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}
