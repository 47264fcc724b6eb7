package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/CTU-F-2025/forum-service/internal/models"
	"github.com/CTU-F-2025/forum-service/internal/repositories"
)

// fakeRepository is an in-memory Repository used by the service tests.
// Not-found and duplicate-key conditions surface as the same gorm errors
// the postgres implementation produces.
type fakeRepository struct {
	mu sync.Mutex

	users         map[uint]*models.User
	posts         map[uint]*models.Post
	comments      map[uint]*models.Comment
	likes         map[[2]uint]*models.Like // (userID, postID)
	notifications map[uint]*models.Notification

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         make(map[uint]*models.User),
		posts:         make(map[uint]*models.Post),
		comments:      make(map[uint]*models.Comment),
		likes:         make(map[[2]uint]*models.Like),
		notifications: make(map[uint]*models.Notification),
	}
}

func (f *fakeRepository) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) User() repositories.UserRepository                 { return &fakeUserRepo{f} }
func (f *fakeRepository) Post() repositories.PostRepository                 { return &fakePostRepo{f} }
func (f *fakeRepository) Comment() repositories.CommentRepository           { return &fakeCommentRepo{f} }
func (f *fakeRepository) Like() repositories.LikeRepository                 { return &fakeLikeRepo{f} }
func (f *fakeRepository) Notification() repositories.NotificationRepository { return &fakeNotificationRepo{f} }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== USERS =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for _, u := range r.f.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.f.id()
	user.CreatedAt = time.Now()
	copied := *user
	r.f.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	user, ok := r.f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for _, user := range r.f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	if _, ok := r.f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, u := range r.f.users {
		if u.Username == user.Username && u.ID != user.ID {
			return gorm.ErrDuplicatedKey
		}
	}
	copied := *user
	r.f.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	delete(r.f.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var users []*models.User
	for _, user := range r.f.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string, excludeID uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for _, user := range r.f.users {
		if user.Username == username && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var count int64
	for _, user := range r.f.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) NamesByIDs(ctx context.Context, ids []uint) (map[uint]string, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	result := make(map[uint]string)
	for _, id := range ids {
		if user, ok := r.f.users[id]; ok {
			result[id] = user.FullName
		}
	}
	return result, nil
}

// ===== POSTS =====

type fakePostRepo struct{ f *fakeRepository }

func (r *fakePostRepo) Create(ctx context.Context, post *models.Post) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	post.ID = r.f.id()
	post.CreatedAt = time.Now()
	copied := *post
	r.f.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	post, ok := r.f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *models.Post) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	if _, ok := r.f.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *post
	r.f.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	delete(r.f.posts, id)
	return nil
}

func (r *fakePostRepo) List(ctx context.Context, filters repositories.PostFilters) ([]*models.Post, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var posts []*models.Post
	for _, post := range r.f.posts {
		if filters.Status != nil && post.Status != *filters.Status {
			continue
		}
		if filters.Hidden != nil && post.Hidden != *filters.Hidden {
			continue
		}
		if filters.AuthorID != nil && post.UserID != *filters.AuthorID {
			continue
		}
		copied := *post
		posts = append(posts, &copied)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (r *fakePostRepo) UpdateStatusIfPending(ctx context.Context, id uint, status models.PostStatus) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	post, ok := r.f.posts[id]
	if !ok || post.Status != models.StatusPending {
		return false, nil
	}
	post.Status = status
	return true, nil
}

func (r *fakePostRepo) SetHidden(ctx context.Context, id uint, hidden bool) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	post, ok := r.f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.Hidden = hidden
	return nil
}

func (r *fakePostRepo) CountByStatus(ctx context.Context) (*repositories.ModerationStats, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	stats := &repositories.ModerationStats{}
	for _, post := range r.f.posts {
		stats.TotalPosts++
		switch post.Status {
		case models.StatusPending:
			stats.PendingPosts++
		case models.StatusApproved:
			stats.ApprovedPosts++
		case models.StatusRejected:
			stats.RejectedPosts++
		}
		if post.Hidden {
			stats.HiddenPosts++
		}
	}
	return stats, nil
}

func (r *fakePostRepo) ListReportRows(ctx context.Context) ([]repositories.PostReportRow, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var rows []repositories.PostReportRow
	for _, post := range r.f.posts {
		author := "Unknown"
		if user, ok := r.f.users[post.UserID]; ok {
			author = user.FullName
		}
		var likeCount int64
		for key := range r.f.likes {
			if key[1] == post.ID {
				likeCount++
			}
		}
		rows = append(rows, repositories.PostReportRow{
			ID:        post.ID,
			Title:     post.Title,
			Author:    author,
			Status:    post.Status,
			Hidden:    post.Hidden,
			LikeCount: likeCount,
			CreatedAt: post.CreatedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// ===== COMMENTS =====

type fakeCommentRepo struct{ f *fakeRepository }

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	comment.ID = r.f.id()
	comment.CreatedAt = time.Now()
	copied := *comment
	r.f.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) ListViewsByPost(ctx context.Context, postID uint) ([]models.CommentView, error) {
	views, err := r.ListViewsByPosts(ctx, []uint{postID})
	if err != nil {
		return nil, err
	}
	if views[postID] == nil {
		return []models.CommentView{}, nil
	}
	return views[postID], nil
}

func (r *fakeCommentRepo) ListViewsByPosts(ctx context.Context, postIDs []uint) (map[uint][]models.CommentView, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	wanted := make(map[uint]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = true
	}

	var comments []*models.Comment
	for _, comment := range r.f.comments {
		if wanted[comment.PostID] {
			comments = append(comments, comment)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })

	result := make(map[uint][]models.CommentView)
	for _, comment := range comments {
		author := "Unknown"
		if user, ok := r.f.users[comment.UserID]; ok {
			author = user.FullName
		}
		result[comment.PostID] = append(result[comment.PostID], models.CommentView{
			ID:        comment.ID,
			Content:   comment.Content,
			Author:    author,
			CreatedAt: comment.CreatedAt,
		})
	}
	return result, nil
}

func (r *fakeCommentRepo) DeleteByPost(ctx context.Context, postID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for id, comment := range r.f.comments {
		if comment.PostID == postID {
			delete(r.f.comments, id)
		}
	}
	return nil
}

// ===== LIKES =====

type fakeLikeRepo struct{ f *fakeRepository }

func (r *fakeLikeRepo) Create(ctx context.Context, like *models.Like) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	key := [2]uint{like.UserID, like.PostID}
	if _, exists := r.f.likes[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	like.CreatedAt = time.Now()
	copied := *like
	r.f.likes[key] = &copied
	return nil
}

func (r *fakeLikeRepo) Delete(ctx context.Context, userID, postID uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	key := [2]uint{userID, postID}
	if _, exists := r.f.likes[key]; !exists {
		return false, nil
	}
	delete(r.f.likes, key)
	return true, nil
}

func (r *fakeLikeRepo) Exists(ctx context.Context, userID, postID uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	_, exists := r.f.likes[[2]uint{userID, postID}]
	return exists, nil
}

func (r *fakeLikeRepo) CountByPost(ctx context.Context, postID uint) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var count int64
	for key := range r.f.likes {
		if key[1] == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) CountByPosts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	result := make(map[uint]int64)
	for _, id := range postIDs {
		count, _ := r.CountByPost(ctx, id)
		result[id] = count
	}
	return result, nil
}

func (r *fakeLikeRepo) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	result := make(map[uint]bool)
	for _, id := range postIDs {
		if _, exists := r.f.likes[[2]uint{userID, id}]; exists {
			result[id] = true
		}
	}
	return result, nil
}

func (r *fakeLikeRepo) DeleteByPost(ctx context.Context, postID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for key := range r.f.likes {
		if key[1] == postID {
			delete(r.f.likes, key)
		}
	}
	return nil
}

func (r *fakeLikeRepo) DeleteByUser(ctx context.Context, userID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for key := range r.f.likes {
		if key[0] == userID {
			delete(r.f.likes, key)
		}
	}
	return nil
}

// ===== NOTIFICATIONS =====

type fakeNotificationRepo struct{ f *fakeRepository }

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	notification.ID = r.f.id()
	notification.CreatedAt = time.Now()
	copied := *notification
	r.f.notifications[notification.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	var notifications []*models.Notification
	for _, n := range r.f.notifications {
		if n.UserID == userID {
			copied := *n
			notifications = append(notifications, &copied)
		}
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return notifications, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID uint) (bool, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	n, ok := r.f.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (r *fakeNotificationRepo) DeleteByUser(ctx context.Context, userID uint) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()

	for id, n := range r.f.notifications {
		if n.UserID == userID {
			delete(r.f.notifications, id)
		}
	}
	return nil
}
