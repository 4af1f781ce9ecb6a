package order

import (
	"context"

	"mymarket-be/internal/cart"

	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrder(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetOrdersBySession(ctx context.Context, sessionID string) ([]*Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) GetOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]*OrderItem, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64][]*OrderItem), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindActiveCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) GetOrCreateActiveCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) IncrementItemQuantity(ctx context.Context, cartID, itemID int64) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

func (m *MockCartRepository) DeleteWhenQuantityIsOne(ctx context.Context, cartID, itemID int64) (int64, error) {
	args := m.Called(ctx, cartID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) DecrementWhenQuantityGreaterThanOne(ctx context.Context, cartID, itemID int64) (int64, error) {
	args := m.Called(ctx, cartID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) DeleteCartItem(ctx context.Context, cartID, itemID int64) (int64, error) {
	args := m.Called(ctx, cartID, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) FindCartRows(ctx context.Context, cartID int64) ([]*cart.CartRow, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartRow), args.Error(1)
}

func (m *MockCartRepository) CalculateCartTotal(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCartRepository) ClearAndMarkOrdered(ctx context.Context, cartID int64) error {
	return m.Called(ctx, cartID).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ReadBalance(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) Reserve(ctx context.Context, accountID string, amount int64) (bool, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Bool(0), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Invalidate(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}
