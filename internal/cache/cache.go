package cache

import (
	"context"
	"errors"
	"fmt"

	"mymarket-be/internal/logger"

	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// CartCache is the invalidation side of the rendered cart view cache.
type CartCache interface {
	Invalidate(ctx context.Context, sessionID string) error
}

// CartViewCache adds read-through access for the cart query path.
type CartViewCache interface {
	CartCache
	Get(ctx context.Context, sessionID string, dest any) error
	Set(ctx context.Context, sessionID string, view any) error
}

func CartViewKey(sessionID string) string {
	return fmt.Sprintf("cart:view:%s", sessionID)
}

// Invalidate deletes the cached view. Failures are logged, never returned.
func Invalidate(ctx context.Context, c CartCache, sessionID string) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx, sessionID); err != nil {
		logger.FromCtx(ctx).Warn("cart view cache invalidation failed",
			zap.String("key", CartViewKey(sessionID)),
			zap.Error(err),
		)
	}
}
