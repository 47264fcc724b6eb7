package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// propagating errors; a stale cache entry must never fail a write path.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of propagating errors.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidatePostCache drops every cached view a post change can stale:
// the post itself, the public feed, and the moderation stats.
func InvalidatePostCache(ctx context.Context, cm *CacheManager, postID uint) {
	SafeDelete(ctx, cm.Post, fmt.Sprintf("id:%d", postID))
	SafeInvalidatePattern(ctx, cm.Feed, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "moderation*")
}

// InvalidateUserCache drops the cached display name for a user.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("name:%d", userID))
}
