package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mymarket-be/internal/apperror"
	"mymarket-be/internal/cart"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/middleware"
	"mymarket-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Increment(ctx context.Context, sessionID string, itemID int64) error {
	return m.Called(ctx, sessionID, itemID).Error(0)
}

func (m *MockCartService) DecrementOrDelete(ctx context.Context, sessionID string, itemID int64) (cart.LineOutcome, error) {
	args := m.Called(ctx, sessionID, itemID)
	return args.Get(0).(cart.LineOutcome), args.Error(1)
}

func (m *MockCartService) Delete(ctx context.Context, sessionID string, itemID int64) error {
	return m.Called(ctx, sessionID, itemID).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCartService) GetCartView(ctx context.Context, sessionID string) (*cart.CartView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartView), args.Error(1)
}

func (m *MockCartService) CartTotal(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Checkout(ctx context.Context, sessionID string) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCheckoutService) GetCheckoutAvailability(ctx context.Context, sessionID string) (*order.CheckoutAvailability, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CheckoutAvailability), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrders(ctx context.Context, sessionID string) ([]*order.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, sessionID string, orderID int64) (*order.Order, error) {
	args := m.Called(ctx, sessionID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type fixture struct {
	cart     *MockCartService
	checkout *MockCheckoutService
	orders   *MockOrderService
	router   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		cart:     new(MockCartService),
		checkout: new(MockCheckoutService),
		orders:   new(MockOrderService),
	}
	reg := metrics.NewRegistry()
	f.router = NewRouter(RouterDeps{
		Handler:  NewHandler(f.cart, f.checkout, f.orders),
		Server:   metrics.NewServerMetrics(reg, "api"),
		Registry: reg,
	})
	return f
}

func (f *fixture) do(method, path, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OK")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	f := newFixture()
	f.do(http.MethodGet, "/health", "")

	rec := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mymarket_api_http_requests_total")
}

func TestRouter_Cart(t *testing.T) {
	t.Run("Increment", func(t *testing.T) {
		f := newFixture()
		f.cart.On("Increment", mock.Anything, "sess-1", int64(10)).Return(nil)

		rec := f.do(http.MethodPost, "/cart/items/10/increment", "sess-1")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		f.cart.AssertExpectations(t)
	})

	t.Run("IncrementBadItem", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodPost, "/cart/items/abc/increment", "sess-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.cart.AssertNotCalled(t, "Increment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("IncrementUnknownItemIsNotFound", func(t *testing.T) {
		f := newFixture()
		f.cart.On("Increment", mock.Anything, "sess-1", int64(999)).Return(cart.ErrItemNotFound)

		rec := f.do(http.MethodPost, "/cart/items/999/increment", "sess-1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("MissingSessionIsBadRequest", func(t *testing.T) {
		f := newFixture()
		f.cart.On("Increment", mock.Anything, "", int64(10)).
			Return(fmt.Errorf("session id is empty: %w", apperror.ErrInvalidInput))

		rec := f.do(http.MethodPost, "/cart/items/10/increment", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DecrementReportsOutcome", func(t *testing.T) {
		f := newFixture()
		f.cart.On("DecrementOrDelete", mock.Anything, "sess-1", int64(10)).Return(cart.LineDeleted, nil)

		rec := f.do(http.MethodPost, "/cart/items/10/decrement", "sess-1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"item_id":10,"outcome":"deleted"}`, rec.Body.String())
	})

	t.Run("DecrementNoCart", func(t *testing.T) {
		f := newFixture()
		f.cart.On("DecrementOrDelete", mock.Anything, "sess-1", int64(10)).
			Return(cart.LineUnchanged, cart.ErrActiveCartNotFound)

		rec := f.do(http.MethodPost, "/cart/items/10/decrement", "sess-1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("DeleteAndClear", func(t *testing.T) {
		f := newFixture()
		f.cart.On("Delete", mock.Anything, "sess-1", int64(10)).Return(nil)
		f.cart.On("Clear", mock.Anything, "sess-1").Return(nil)

		assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/cart/items/10", "sess-1").Code)
		assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/cart", "sess-1").Code)
		f.cart.AssertExpectations(t)
	})

	t.Run("GetCart", func(t *testing.T) {
		f := newFixture()
		f.cart.On("GetCartView", mock.Anything, "sess-1").Return(&cart.CartView{SessionID: "sess-1", TotalMinor: 200}, nil)

		rec := f.do(http.MethodGet, "/cart", "sess-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		var view cart.CartView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		assert.Equal(t, int64(200), view.TotalMinor)
	})

	t.Run("InternalErrorHidesDetail", func(t *testing.T) {
		f := newFixture()
		f.cart.On("GetCartView", mock.Anything, "sess-1").Return(nil, errors.New("pq: connection refused"))

		rec := f.do(http.MethodGet, "/cart", "sess-1")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "pq")
	})
}

func TestRouter_Checkout(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, "sess-1").Return(int64(42), nil)

		rec := f.do(http.MethodPost, "/checkout", "sess-1")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"order_id":42}`, rec.Body.String())
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, "sess-1").
			Return(int64(0), &apperror.InsufficientFundsError{SessionID: "sess-1", Amount: 200})

		rec := f.do(http.MethodPost, "/checkout", "sess-1")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("LedgerUnavailable", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("Checkout", mock.Anything, "sess-1").Return(int64(0), apperror.ErrServiceUnavailable)

		rec := f.do(http.MethodPost, "/checkout", "sess-1")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Availability", func(t *testing.T) {
		f := newFixture()
		f.checkout.On("GetCheckoutAvailability", mock.Anything, "sess-1").
			Return(&order.CheckoutAvailability{Available: false, Reason: order.ReasonInsufficientFunds}, nil)

		rec := f.do(http.MethodGet, "/checkout/availability", "sess-1")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"available":false,"reason":"Insufficient funds"}`, rec.Body.String())
	})
}

func TestRouter_Orders(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetOrders", mock.Anything, "sess-1").Return([]*order.Order{{ID: 1, TotalMinor: 200}}, nil)

		rec := f.do(http.MethodGet, "/orders", "sess-1")
		assert.Equal(t, http.StatusOK, rec.Code)

		var out []order.OrderResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
		assert.Len(t, out, 1)
	})

	t.Run("GetOtherSession", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetOrder", mock.Anything, "sess-1", int64(9)).Return(nil, order.ErrOrderNotFound)

		rec := f.do(http.MethodGet, "/orders/9", "sess-1")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		f := newFixture()
		rec := f.do(http.MethodGet, "/orders/0", "sess-1")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
