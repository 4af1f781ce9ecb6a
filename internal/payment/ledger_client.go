package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mymarket-be/internal/apperror"
	"mymarket-be/internal/ledger"
	"mymarket-be/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	breakerName             = "ledger"
	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

var (
	errServerStatus = errors.New("ledger responded with server error")

	// errCallerGone marks requests whose own context ended first.
	errCallerGone = errors.New("caller abandoned ledger request")
)

type ledgerClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// ----------------- Constructor -----------------

func NewLedgerClient(baseURL string, timeout time.Duration) Gateway {
	if baseURL == "" {
		logger.L().Warn("ledger base url is empty")
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		// Abandoned calls are neither successes nor failures.
		IsExcluded: func(err error) bool {
			return errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ledgerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
	}
}

// ----------------- ReadBalance -----------------

func (c *ledgerClient) ReadBalance(ctx context.Context, accountID string) (int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "ReadBalance"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("balance", accountID), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.do(req)
	if err != nil {
		log.Warn("ledger unreachable", zap.Error(err))
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, unexpectedStatus(resp)
	}

	var out ledger.BalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode balance response", zap.Error(err))
		return 0, fmt.Errorf("%w: decode balance: %v", apperror.ErrServiceUnavailable, err)
	}

	return out.Balance, nil
}

// ----------------- Reserve -----------------

func (c *ledgerClient) Reserve(ctx context.Context, accountID string, amount int64) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "Reserve"),
		zap.Int64("amount", amount),
	)

	body, err := json.Marshal(ledger.PaymentRequest{Amount: amount})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("pay", accountID), bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		log.Warn("ledger unreachable", zap.Error(err))
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out ledger.PaymentResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			log.Error("failed to decode payment response", zap.Error(err))
			return false, fmt.Errorf("%w: decode payment: %v", apperror.ErrServiceUnavailable, err)
		}
		return out.Success, nil
	case http.StatusConflict:
		log.Info("reservation rejected by ledger")
		return false, nil
	default:
		return false, unexpectedStatus(resp)
	}
}

// do sends the request through the breaker. Only transport errors and 5xx
// replies count against it. A client timeout counts, a cancelled or expired
// caller context does not.
func (c *ledgerClient) do(req *http.Request) (*http.Response, error) {
	callerCtx := req.Context()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctxErr := callerCtx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("%w: %w", errCallerGone, ctxErr)
			}
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errServerStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrServiceUnavailable, err)
	}
	return resp, nil
}

func (c *ledgerClient) url(op, accountID string) string {
	return c.baseURL + "/" + op + "/" + url.PathEscape(accountID)
}

func unexpectedStatus(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: ledger rejected request: %s", apperror.ErrInvalidInput, strings.TrimSpace(string(raw)))
	}
	return fmt.Errorf("ledger returned unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
