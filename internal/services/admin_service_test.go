package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CTU-F-2025/forum-service/internal/cache"
	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
	"github.com/CTU-F-2025/forum-service/internal/validator"
)

func newAdminFixture(t *testing.T) (*fakeRepository, AdminService) {
	t.Helper()

	repo := newFakeRepository()
	service := NewAdminService(repo, cache.NewCacheManager(nil), newTestLogger(), validator.New())
	return repo, service
}

func adminCreateRequest(username string, role models.UserRole) *AdminCreateUserRequest {
	return &AdminCreateUserRequest{
		FullName:    "Managed " + username,
		DateOfBirth: time.Date(1999, 3, 10, 0, 0, 0, 0, time.UTC),
		Contact:     username + "@campus.test",
		Username:    username,
		Password:    "secret123",
		Role:        role,
	}
}

func TestAdminService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("admin can create another admin", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss1", models.RoleAdmin, "secret123")

		profile, err := service.CreateUser(ctx, adminCreateRequest("deputy1", models.RoleAdmin), identityOf(admin))
		if err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
		if profile.Role != models.RoleAdmin {
			t.Errorf("Expected Admin role, got %s", profile.Role)
		}
	})

	t.Run("students cannot create users", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		student := seedUser(t, repo, "student1", models.RoleStudent, "secret123")

		_, err := service.CreateUser(ctx, adminCreateRequest("sneaky1", models.RoleAdmin), identityOf(student))
		if KindOf(err) != KindForbidden {
			t.Errorf("Expected forbidden error, got %v", err)
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss2", models.RoleAdmin, "secret123")
		seedUser(t, repo, "clash1", models.RoleStudent, "secret123")

		_, err := service.CreateUser(ctx, adminCreateRequest("clash1", models.RoleStudent), identityOf(admin))
		if !errors.Is(err, ErrUsernameTaken) {
			t.Errorf("Expected ErrUsernameTaken, got %v", err)
		}
	})
}

func TestAdminService_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("promote a student", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss3", models.RoleAdmin, "secret123")
		student := seedUser(t, repo, "student2", models.RoleStudent, "secret123")

		role := models.RoleAdmin
		profile, err := service.UpdateUser(ctx, student.ID, &AdminUpdateUserRequest{Role: &role}, identityOf(admin))
		if err != nil {
			t.Fatalf("Failed to update user: %v", err)
		}
		if profile.Role != models.RoleAdmin {
			t.Errorf("Expected Admin role, got %s", profile.Role)
		}
	})

	t.Run("cannot demote the last admin", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss4", models.RoleAdmin, "secret123")

		role := models.RoleStudent
		_, err := service.UpdateUser(ctx, admin.ID, &AdminUpdateUserRequest{Role: &role}, identityOf(admin))
		if !errors.Is(err, ErrLastAdmin) {
			t.Errorf("Expected ErrLastAdmin, got %v", err)
		}
	})

	t.Run("demotion works once a second admin exists", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss5", models.RoleAdmin, "secret123")
		seedUser(t, repo, "boss6", models.RoleAdmin, "secret123")

		role := models.RoleStudent
		profile, err := service.UpdateUser(ctx, admin.ID, &AdminUpdateUserRequest{Role: &role}, identityOf(admin))
		if err != nil {
			t.Fatalf("Failed to demote admin: %v", err)
		}
		if profile.Role != models.RoleStudent {
			t.Errorf("Expected Student role, got %s", profile.Role)
		}
	})
}

func TestAdminService_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("delete removes likes and notifications but keeps posts", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss7", models.RoleAdmin, "secret123")
		victim := seedUser(t, repo, "leaver1", models.RoleStudent, "secret123")
		other := seedUser(t, repo, "stayer1", models.RoleStudent, "secret123")

		post := seedPost(t, repo, victim.ID, models.StatusApproved, false)
		otherPost := seedPost(t, repo, other.ID, models.StatusApproved, false)

		if err := repo.Like().Create(ctx, &models.Like{UserID: victim.ID, PostID: otherPost.ID}); err != nil {
			t.Fatalf("Failed to seed like: %v", err)
		}
		if err := repo.Notification().Create(ctx, &models.Notification{UserID: victim.ID, Content: "hello"}); err != nil {
			t.Fatalf("Failed to seed notification: %v", err)
		}

		if err := service.DeleteUser(ctx, victim.ID, identityOf(admin)); err != nil {
			t.Fatalf("Failed to delete user: %v", err)
		}

		if _, err := repo.User().GetByID(ctx, victim.ID); err == nil {
			t.Error("Expected user to be gone")
		}
		count, _ := repo.Like().CountByPost(ctx, otherPost.ID)
		if count != 0 {
			t.Errorf("Expected the user's likes to be gone, got %d", count)
		}
		notifications, _ := repo.Notification().ListByUser(ctx, victim.ID)
		if len(notifications) != 0 {
			t.Errorf("Expected the user's notifications to be gone, got %d", len(notifications))
		}

		// Content survives the account.
		if _, err := repo.Post().GetByID(ctx, post.ID); err != nil {
			t.Errorf("Expected the user's post to survive, got %v", err)
		}
	})

	t.Run("cannot delete the last admin", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss8", models.RoleAdmin, "secret123")

		err := service.DeleteUser(ctx, admin.ID, identityOf(admin))
		if !errors.Is(err, ErrLastAdmin) {
			t.Errorf("Expected ErrLastAdmin, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		repo, service := newAdminFixture(t)
		admin := seedUser(t, repo, "boss9", models.RoleAdmin, "secret123")

		err := service.DeleteUser(ctx, 999, identityOf(admin))
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()
	repo, service := newAdminFixture(t)

	admin := seedUser(t, repo, "boss10", models.RoleAdmin, "secret123")
	seedUser(t, repo, "roster1", models.RoleStudent, "secret123")
	seedUser(t, repo, "roster2", models.RoleStudent, "secret123")

	t.Run("role filter", func(t *testing.T) {
		role := models.RoleStudent
		resp, err := service.ListUsers(ctx, repositories.UserFilters{Role: &role}, identityOf(admin))
		if err != nil {
			t.Fatalf("Failed to list users: %v", err)
		}
		if resp.Total != 2 {
			t.Errorf("Expected 2 students, got %d", resp.Total)
		}
	})

	t.Run("students are rejected", func(t *testing.T) {
		student, _ := repo.User().GetByUsername(ctx, "roster1")
		_, err := service.ListUsers(ctx, repositories.UserFilters{}, identityOf(student))
		if KindOf(err) != KindForbidden {
			t.Errorf("Expected forbidden error, got %v", err)
		}
	})
}

func TestAdminService_ModerationStats(t *testing.T) {
	ctx := context.Background()
	repo, service := newAdminFixture(t)

	admin := seedUser(t, repo, "boss11", models.RoleAdmin, "secret123")
	author := seedUser(t, repo, "statauthor", models.RoleStudent, "secret123")

	seedPost(t, repo, author.ID, models.StatusPending, false)
	seedPost(t, repo, author.ID, models.StatusApproved, false)
	seedPost(t, repo, author.ID, models.StatusApproved, true)
	seedPost(t, repo, author.ID, models.StatusRejected, false)

	stats, err := service.ModerationStats(ctx, identityOf(admin))
	if err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if stats.TotalPosts != 4 {
		t.Errorf("Expected 4 total posts, got %d", stats.TotalPosts)
	}
	if stats.PendingPosts != 1 {
		t.Errorf("Expected 1 pending post, got %d", stats.PendingPosts)
	}
	if stats.ApprovedPosts != 2 {
		t.Errorf("Expected 2 approved posts, got %d", stats.ApprovedPosts)
	}
	if stats.RejectedPosts != 1 {
		t.Errorf("Expected 1 rejected post, got %d", stats.RejectedPosts)
	}
	if stats.HiddenPosts != 1 {
		t.Errorf("Expected 1 hidden post, got %d", stats.HiddenPosts)
	}
}

func TestAdminService_ModerationReport(t *testing.T) {
	ctx := context.Background()
	repo, service := newAdminFixture(t)

	admin := seedUser(t, repo, "boss12", models.RoleAdmin, "secret123")
	author := seedUser(t, repo, "reportauthor", models.RoleStudent, "secret123")
	seedPost(t, repo, author.ID, models.StatusApproved, false)

	report, err := service.ModerationReport(ctx, identityOf(admin))
	if err != nil {
		t.Fatalf("Failed to export report: %v", err)
	}
	if len(report) == 0 {
		t.Fatal("Expected a non-empty workbook")
	}
	// xlsx files are zip archives.
	if !bytes.HasPrefix(report, []byte("PK")) {
		t.Error("Expected report to be a zip-based workbook")
	}
}
