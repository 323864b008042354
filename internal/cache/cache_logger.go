package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateJob drops the cached posting and roster for one job. Called after
// a rollout so subsequent reads see fresh per-candidate state.
func InvalidateJob(ctx context.Context, cm *CacheManager, jobID string) {
	SafeDelete(ctx, cm.Job, fmt.Sprintf("id:%s", jobID))
	SafeInvalidatePattern(ctx, cm.Roster, fmt.Sprintf("job:%s*", jobID))
}
