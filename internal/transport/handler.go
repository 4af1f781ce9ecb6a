package transport

import (
	"net/http"

	"mymarket-be/internal/apperror"
	"mymarket-be/internal/cart"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/order"
	"mymarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	cartSvc     cart.Service
	checkoutSvc order.CheckoutService
	orderSvc    order.Service
}

func NewHandler(cartSvc cart.Service, checkoutSvc order.CheckoutService, orderSvc order.Service) *Handler {
	return &Handler{cartSvc: cartSvc, checkoutSvc: checkoutSvc, orderSvc: orderSvc}
}

type lineOutcomeResponse struct {
	ItemID  int64  `json:"item_id"`
	Outcome string `json:"outcome"`
}

type checkoutResponse struct {
	OrderID int64 `json:"order_id"`
}

// ----------------- Cart -----------------

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartSvc.GetCartView(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	if err := h.cartSvc.Increment(r.Context(), sessionFrom(r), itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	outcome, err := h.cartSvc.DecrementOrDelete(r.Context(), sessionFrom(r), itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, lineOutcomeResponse{ItemID: itemID, Outcome: outcome.String()})
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := itemIDParam(w, r)
	if !ok {
		return
	}

	if err := h.cartSvc.Delete(r.Context(), sessionFrom(r), itemID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cartSvc.Clear(r.Context(), sessionFrom(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------- Checkout -----------------

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	orderID, err := h.checkoutSvc.Checkout(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, checkoutResponse{OrderID: orderID})
}

func (h *Handler) CheckoutAvailability(w http.ResponseWriter, r *http.Request) {
	avail, err := h.checkoutSvc.GetCheckoutAvailability(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, avail)
}

// ----------------- Orders -----------------

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.GetOrders(r.Context(), sessionFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.ToOrderResponses(orders))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := utils.ToInt64(chi.URLParam(r, "orderId"))
	if err != nil || orderID <= 0 {
		utils.WriteJSONError(w, "orderId must be a positive integer", http.StatusBadRequest)
		return
	}

	o, err := h.orderSvc.GetOrder(r.Context(), sessionFrom(r), orderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order.ToOrderResponse(o))
}

func itemIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	itemID, err := utils.ToInt64(chi.URLParam(r, "itemId"))
	if err != nil || itemID <= 0 {
		utils.WriteJSONError(w, "itemId must be a positive integer", http.StatusBadRequest)
		return 0, false
	}
	return itemID, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperror.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	utils.WriteJSONError(w, msg, code)
}
