package order

import (
	"context"
	"errors"

	"mymarket-be/internal/apperror"
	"mymarket-be/internal/cache"
	"mymarket-be/internal/cart"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/payment"
	"mymarket-be/internal/utils"

	"go.uber.org/zap"
)

// CheckoutService turns the session's ACTIVE cart into a paid order.
type CheckoutService interface {
	Checkout(ctx context.Context, sessionID string) (int64, error)
	GetCheckoutAvailability(ctx context.Context, sessionID string) (*CheckoutAvailability, error)
}

type checkoutService struct {
	carts   cart.Repository
	orders  Repository
	ledger  payment.Gateway
	cache   cache.CartCache
	metrics *metrics.CheckoutMetrics
}

func NewCheckoutService(
	carts cart.Repository,
	orders Repository,
	ledger payment.Gateway,
	cartCache cache.CartCache,
	m *metrics.CheckoutMetrics,
) CheckoutService {
	return &checkoutService{
		carts:   carts,
		orders:  orders,
		ledger:  ledger,
		cache:   cartCache,
		metrics: m,
	}
}

// Checkout reserves funds before anything is recorded. A failure after the
// reservation leaves the money held with no order; nothing is refunded here.
func (s *checkoutService) Checkout(ctx context.Context, sessionID string) (orderID int64, err error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return 0, err
	}

	timer := metrics.StartTimer()
	defer func() {
		s.metrics.Observe(checkoutOutcome(err), timer.Duration())
	}()

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	// 1. Active cart
	c, err := s.carts.FindActiveCart(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if c == nil {
		return 0, cart.ErrActiveCartNotFound
	}

	// 2. Lines
	rows, err := s.carts.FindCartRows(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, cart.ErrCartEmpty
	}

	// 3. Total
	total := cart.CalculateTotal(rows)
	log = log.With(zap.Int64("cart_id", c.ID), zap.Int64("total_minor", total))

	// 4. Reserve
	accepted, err := s.ledger.Reserve(ctx, sessionID, total)
	if err != nil {
		log.Warn("reserve failed", zap.Error(err))
		return 0, err
	}
	if !accepted {
		log.Info("reserve rejected")
		return 0, &apperror.InsufficientFundsError{SessionID: sessionID, Amount: total}
	}

	// 5. Order and item snapshots
	o := &Order{
		SessionID:  sessionID,
		Status:     StatusCreated,
		TotalMinor: total,
		Items:      SnapshotItems(rows),
	}
	if err := s.orders.CreateOrder(ctx, o); err != nil {
		log.Error("funds reserved but order not recorded, needs reconciliation", zap.Error(err))
		return 0, err
	}

	// 6. Retire the cart, 7. drop the cached view
	defer cache.Invalidate(ctx, s.cache, sessionID)
	if err := s.carts.ClearAndMarkOrdered(ctx, c.ID); err != nil {
		log.Error("order recorded but cart not retired", zap.Int64("order_id", o.ID), zap.Error(err))
		return 0, err
	}

	log.Info("checkout completed", zap.Int64("order_id", o.ID))
	return o.ID, nil
}

// GetCheckoutAvailability compares the cart total with the balance. It never
// reserves and never touches the cart.
func (s *checkoutService) GetCheckoutAvailability(ctx context.Context, sessionID string) (*CheckoutAvailability, error) {
	if err := utils.EnsureSessionID(sessionID); err != nil {
		return nil, err
	}

	total, err := s.carts.CalculateCartTotal(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	balance, err := s.ledger.ReadBalance(ctx, sessionID)
	if errors.Is(err, apperror.ErrServiceUnavailable) {
		logger.FromCtx(ctx).Warn("balance unavailable for availability check", zap.Error(err))
		return &CheckoutAvailability{Available: false, Reason: ReasonPaymentUnavailable}, nil
	}
	if err != nil {
		return nil, err
	}

	if balance >= total {
		return &CheckoutAvailability{Available: true}, nil
	}
	return &CheckoutAvailability{Available: false, Reason: ReasonInsufficientFunds}, nil
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperror.ErrInsufficientFunds):
		return metrics.OutcomeInsufficientFunds
	case errors.Is(err, apperror.ErrServiceUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, apperror.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
