package order

import (
	"context"

	"mymarket-be/internal/logger"
	"mymarket-be/internal/utils"

	"go.uber.org/zap"
)

// Service answers order history queries for a session.
type Service interface {
	GetOrders(ctx context.Context, sessionID string) ([]*Order, error)
	GetOrder(ctx context.Context, sessionID string, orderID int64) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// GetOrders returns the session's orders newest first, each with its items.
func (s *service) GetOrders(ctx context.Context, sessionID string) ([]*Order, error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return nil, err
	}

	orders, err := s.repo.GetOrdersBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}

	items, err := s.repo.GetOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}

	return orders, nil
}

// GetOrder hides orders of other sessions behind ErrOrderNotFound.
func (s *service) GetOrder(ctx context.Context, sessionID string, orderID int64) (*Order, error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return nil, err
	}
	if orderID <= 0 {
		return nil, ErrInvalidOrderID
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil || o.SessionID != sessionID {
		logger.FromCtx(ctx).Debug("order not visible to session", zap.Int64("order_id", orderID))
		return nil, ErrOrderNotFound
	}

	items, err := s.repo.GetOrderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}
