package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache invalidates all course-related caches
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint, teacherID string) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%d", courseID))

	SafeInvalidatePattern(ctx, cm.Course, fmt.Sprintf("teacher:%s:*", teacherID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}

// InvalidateUserCache invalidates the cached profile entries for one user
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID, email string) {
	SafeDelete(ctx, cm.User,
		fmt.Sprintf("id:%s", userID),
		fmt.Sprintf("email:%s", email))
	SafeInvalidatePattern(ctx, cm.Exists, fmt.Sprintf("*%s*", userID))
	SafeInvalidatePattern(ctx, cm.Stats, "dashboard:*")
}
