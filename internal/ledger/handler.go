package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mymarket-be/internal/apperror"
	"mymarket-be/internal/logger"
	"mymarket-be/internal/metrics"
	"mymarket-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	store   Store
	metrics *metrics.LedgerMetrics
	server  *metrics.ServerMetrics
}

func NewHandler(store Store, lm *metrics.LedgerMetrics, sm *metrics.ServerMetrics) *Handler {
	return &Handler{store: store, metrics: lm, server: sm}
}

// Routes mounts the ledger API:
//
//	GET  /balance/{accountId}
//	POST /pay/{accountId}      {"amount": n}
//	POST /deposit/{accountId}  {"amount": n}
func (h *Handler) Routes(r chi.Router) {
	r.Get("/balance/{accountId}", h.GetBalance)
	r.Post("/pay/{accountId}", h.Pay)
	r.Post("/deposit/{accountId}", h.Deposit)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	timer := metrics.StartTimer()
	accountID := chi.URLParam(r, "accountId")

	balance, err := h.store.Balance(r.Context(), accountID)
	if err != nil {
		h.fail(w, r, "balance", timer, err)
		return
	}

	h.server.Observe("balance", "200", timer.Duration())
	utils.WriteJSON(w, http.StatusOK, BalanceResponse{AccountID: accountID, Balance: balance})
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	timer := metrics.StartTimer()
	accountID := chi.URLParam(r, "accountId")

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.server.Observe("pay", "400", timer.Duration())
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	result, err := h.store.Reserve(r.Context(), accountID, req.Amount)
	switch {
	case errors.Is(err, ErrRejected):
		h.metrics.ObserveReserve(metrics.ReserveRejected, result.Retries)
		h.server.Observe("pay", "409", timer.Duration())
		utils.WriteJSON(w, http.StatusConflict, PaymentResponse{AccountID: accountID, Amount: req.Amount, Success: false})
		return
	case err != nil:
		if !errors.Is(err, apperror.ErrInvalidInput) {
			h.metrics.ObserveReserve(metrics.ReserveError, result.Retries)
		}
		h.fail(w, r, "pay", timer, err)
		return
	}

	h.metrics.ObserveReserve(metrics.ReserveAccepted, result.Retries)
	h.server.Observe("pay", "200", timer.Duration())
	utils.WriteJSON(w, http.StatusOK, PaymentResponse{AccountID: accountID, Amount: req.Amount, Success: true})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	timer := metrics.StartTimer()
	accountID := chi.URLParam(r, "accountId")

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.server.Observe("deposit", "400", timer.Duration())
		utils.WriteJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	balance, err := h.store.Deposit(r.Context(), accountID, req.Amount)
	if err != nil {
		h.fail(w, r, "deposit", timer, err)
		return
	}

	h.server.Observe("deposit", "200", timer.Duration())
	utils.WriteJSON(w, http.StatusOK, BalanceResponse{AccountID: accountID, Balance: balance})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, handler string, timer *metrics.Timer, err error) {
	code := apperror.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("ledger request failed",
			zap.String("handler", handler),
			zap.Error(err),
		)
	}
	h.server.Observe(handler, strconv.Itoa(code), timer.Duration())

	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	utils.WriteJSONError(w, msg, code)
}
