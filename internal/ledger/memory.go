package ledger

import (
	"context"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// MemoryStore keeps balances in process. Every debit is a compare-and-swap on
// the account's counter.
type MemoryStore struct {
	initial  int64
	accounts sync.Map // accountID -> *atomic.Int64
}

func NewMemoryStore(initialBalance int64) *MemoryStore {
	return &MemoryStore{initial: initialBalance}
}

func (s *MemoryStore) account(accountID string) *atomic.Int64 {
	if v, ok := s.accounts.Load(accountID); ok {
		return v.(*atomic.Int64)
	}
	fresh := new(atomic.Int64)
	fresh.Store(s.initial)
	v, _ := s.accounts.LoadOrStore(accountID, fresh)
	return v.(*atomic.Int64)
}

func (s *MemoryStore) Balance(ctx context.Context, accountID string) (int64, error) {
	if strings.TrimSpace(accountID) == "" {
		return 0, ErrInvalidAccount
	}
	return s.account(accountID).Load(), nil
}

func (s *MemoryStore) Reserve(ctx context.Context, accountID string, amount int64) (ReserveResult, error) {
	if err := validate(accountID, amount); err != nil {
		return ReserveResult{}, err
	}

	acc := s.account(accountID)
	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			return ReserveResult{Retries: retries}, err
		}

		current := acc.Load()
		if current < amount {
			return ReserveResult{Balance: current, Retries: retries}, ErrRejected
		}
		if acc.CompareAndSwap(current, current-amount) {
			return ReserveResult{Balance: current - amount, Retries: retries}, nil
		}
		retries++
	}
}

func (s *MemoryStore) Deposit(ctx context.Context, accountID string, amount int64) (int64, error) {
	if err := validate(accountID, amount); err != nil {
		return 0, err
	}

	acc := s.account(accountID)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		current := acc.Load()
		if current > math.MaxInt64-amount {
			return current, ErrBalanceOverflow
		}
		if acc.CompareAndSwap(current, current+amount) {
			return current + amount, nil
		}
	}
}
