package cache

import (
	"context"
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

// InvalidateSchoolCache bumps the list version and drops old snapshots
func InvalidateSchoolCache(ctx context.Context, cm *CacheManager) {
	if err := cm.InvalidateSchoolList(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to bump school list version", "error", err)
	}
	SafeInvalidatePattern(ctx, cm.School, "snapshot:*")
}
