package cart

import (
	"context"
	"errors"

	"mymarket-be/internal/cache"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service defines the shopper facing cart operations.
type Service interface {
	Increment(ctx context.Context, sessionID string, itemID int64) error
	DecrementOrDelete(ctx context.Context, sessionID string, itemID int64) (LineOutcome, error)
	Delete(ctx context.Context, sessionID string, itemID int64) error
	Clear(ctx context.Context, sessionID string) error

	GetCartView(ctx context.Context, sessionID string) (*CartView, error)
	CartTotal(ctx context.Context, sessionID string) (int64, error)
}

type service struct {
	repo  Repository
	cache cache.CartViewCache
	sfg   singleflight.Group
}

func NewService(repo Repository, viewCache cache.CartViewCache) Service {
	return &service{repo: repo, cache: viewCache}
}

func validate(sessionID string, itemID int64) error {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return err
	}
	if itemID <= 0 {
		return ErrInvalidItemID
	}
	return nil
}

// Increment adds one unit of the item, creating the ACTIVE cart on first use.
func (s *service) Increment(ctx context.Context, sessionID string, itemID int64) error {
	if err := validate(sessionID, itemID); err != nil {
		return err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Increment"),
		zap.Int64("item_id", itemID),
	)

	c, err := s.repo.GetOrCreateActiveCart(ctx, sessionID)
	if err != nil {
		return err
	}
	defer cache.Invalidate(ctx, s.cache, sessionID)

	if err := s.repo.IncrementItemQuantity(ctx, c.ID, itemID); err != nil {
		log.Error("failed to increment item quantity", zap.Error(err))
		return err
	}

	log.Debug("item incremented", zap.Int64("cart_id", c.ID))
	return nil
}

// DecrementOrDelete removes the line when its quantity is 1, otherwise decrements it.
// Both statements carry their own quantity predicate so at most one applies.
func (s *service) DecrementOrDelete(ctx context.Context, sessionID string, itemID int64) (LineOutcome, error) {
	if err := validate(sessionID, itemID); err != nil {
		return LineUnchanged, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DecrementOrDelete"),
		zap.Int64("item_id", itemID),
	)

	c, err := s.repo.FindActiveCart(ctx, sessionID)
	if err != nil {
		return LineUnchanged, err
	}
	defer cache.Invalidate(ctx, s.cache, sessionID)

	if c == nil {
		return LineUnchanged, ErrActiveCartNotFound
	}

	deleted, err := s.repo.DeleteWhenQuantityIsOne(ctx, c.ID, itemID)
	if err != nil {
		log.Error("conditional delete failed", zap.Error(err))
		return LineUnchanged, err
	}
	if deleted > 0 {
		return LineDeleted, nil
	}

	decremented, err := s.repo.DecrementWhenQuantityGreaterThanOne(ctx, c.ID, itemID)
	if err != nil {
		log.Error("conditional decrement failed", zap.Error(err))
		return LineUnchanged, err
	}
	if decremented > 0 {
		return LineDecremented, nil
	}

	log.Debug("no line matched, nothing changed")
	return LineUnchanged, nil
}

// Delete removes the line regardless of quantity. A missing cart is a no-op.
func (s *service) Delete(ctx context.Context, sessionID string, itemID int64) error {
	if err := validate(sessionID, itemID); err != nil {
		return err
	}

	c, err := s.repo.FindActiveCart(ctx, sessionID)
	if err != nil {
		return err
	}
	defer cache.Invalidate(ctx, s.cache, sessionID)

	if c == nil {
		return nil
	}

	_, err = s.repo.DeleteCartItem(ctx, c.ID, itemID)
	return err
}

// Clear removes every line of the ACTIVE cart. A missing cart is a no-op.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return err
	}

	c, err := s.repo.FindActiveCart(ctx, sessionID)
	if err != nil {
		return err
	}
	defer cache.Invalidate(ctx, s.cache, sessionID)

	if c == nil {
		return nil
	}

	removed, err := s.repo.DeleteByCartID(ctx, c.ID)
	if err != nil {
		return err
	}

	logger.FromCtx(ctx).Debug("cart cleared",
		zap.Int64("cart_id", c.ID),
		zap.Int64("removed_lines", removed),
	)
	return nil
}

// GetCartView serves the rendered cart from cache, falling back to storage.
// Concurrent misses for the same session share one storage read.
func (s *service) GetCartView(ctx context.Context, sessionID string) (*CartView, error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetCartView"),
	)

	v, err, _ := s.sfg.Do(sessionID, func() (any, error) {
		var cached CartView
		err := s.cache.Get(ctx, sessionID, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("cart view cache read failed", zap.Error(err))
		}

		view, err := s.loadView(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, sessionID, view); err != nil {
			log.Warn("cart view cache write failed", zap.Error(err))
		}
		return view, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*CartView), nil
}

func (s *service) loadView(ctx context.Context, sessionID string) (*CartView, error) {
	c, err := s.repo.FindActiveCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return MapRowsToView(sessionID, nil), nil
	}

	rows, err := s.repo.FindCartRows(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return MapRowsToView(sessionID, rows), nil
}

func (s *service) CartTotal(ctx context.Context, sessionID string) (int64, error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return 0, err
	}
	return s.repo.CalculateCartTotal(ctx, sessionID)
}
