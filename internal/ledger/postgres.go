package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"mymarket-be/internal/logger"

	"go.uber.org/zap"
)

// PostgresStore debits with a conditional UPDATE so postgres re-checks the
// balance predicate at write time.
type PostgresStore struct {
	db      *sql.DB
	initial int64
}

func NewPostgresStore(db *sql.DB, initialBalance int64) *PostgresStore {
	return &PostgresStore{db: db, initial: initialBalance}
}

func (s *PostgresStore) ensureAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_accounts (account_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (account_id) DO NOTHING
	`, accountID, s.initial)
	if err != nil {
		return fmt.Errorf("provision account: %w", err)
	}
	return nil
}

func (s *PostgresStore) readBalance(ctx context.Context, accountID string) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT balance FROM ledger_accounts WHERE account_id = $1
	`, accountID).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

func (s *PostgresStore) Balance(ctx context.Context, accountID string) (int64, error) {
	if strings.TrimSpace(accountID) == "" {
		return 0, ErrInvalidAccount
	}
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return 0, err
	}
	return s.readBalance(ctx, accountID)
}

func (s *PostgresStore) Reserve(ctx context.Context, accountID string, amount int64) (ReserveResult, error) {
	if err := validate(accountID, amount); err != nil {
		return ReserveResult{}, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "ledger"),
		zap.String("method", "Reserve"),
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
	)

	if err := s.ensureAccount(ctx, accountID); err != nil {
		return ReserveResult{}, err
	}

	retries := 0
	for {
		if err := ctx.Err(); err != nil {
			log.Warn("reserve abandoned", zap.Int("retries", retries), zap.Error(err))
			return ReserveResult{Retries: retries}, err
		}

		var balance int64
		err := s.db.QueryRowContext(ctx, `
			UPDATE ledger_accounts
			SET balance = balance - $1,
			    updated_at = NOW()
			WHERE account_id = $2
			  AND balance >= $1
			RETURNING balance
		`, amount, accountID).Scan(&balance)
		if err == nil {
			log.Debug("reserve accepted", zap.Int64("balance", balance), zap.Int("retries", retries))
			return ReserveResult{Balance: balance, Retries: retries}, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error("conditional debit failed", zap.Error(err))
			return ReserveResult{Retries: retries}, fmt.Errorf("conditional debit: %w", err)
		}

		// No row matched. Either the balance is short or a concurrent writer moved it.
		current, err := s.readBalance(ctx, accountID)
		if err != nil {
			return ReserveResult{Retries: retries}, err
		}
		if current < amount {
			log.Info("reserve rejected", zap.Int64("balance", current))
			return ReserveResult{Balance: current, Retries: retries}, ErrRejected
		}
		retries++
	}
}

func (s *PostgresStore) Deposit(ctx context.Context, accountID string, amount int64) (int64, error) {
	if err := validate(accountID, amount); err != nil {
		return 0, err
	}
	if err := s.ensureAccount(ctx, accountID); err != nil {
		return 0, err
	}

	// The account exists after ensureAccount, so no row means the headroom check failed.
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE ledger_accounts
		SET balance = balance + $1,
		    updated_at = NOW()
		WHERE account_id = $2
		  AND balance <= $3
		RETURNING balance
	`, amount, accountID, math.MaxInt64-amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBalanceOverflow
	}
	if err != nil {
		return 0, fmt.Errorf("deposit: %w", err)
	}
	return balance, nil
}
