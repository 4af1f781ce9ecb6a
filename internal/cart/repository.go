package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mymarket-be/internal/db"
	"mymarket-be/internal/logger"

	"go.uber.org/zap"
)

// Repository exposes the cart header lookups and the single statement line
// primitives. Every quantity mutation is one SQL statement whose predicate is
// re-evaluated by postgres at write time.
type Repository interface {
	FindActiveCart(ctx context.Context, sessionID string) (*Cart, error)
	GetOrCreateActiveCart(ctx context.Context, sessionID string) (*Cart, error)

	IncrementItemQuantity(ctx context.Context, cartID, itemID int64) error
	DeleteWhenQuantityIsOne(ctx context.Context, cartID, itemID int64) (int64, error)
	DecrementWhenQuantityGreaterThanOne(ctx context.Context, cartID, itemID int64) (int64, error)
	DeleteCartItem(ctx context.Context, cartID, itemID int64) (int64, error)
	DeleteByCartID(ctx context.Context, cartID int64) (int64, error)

	FindCartRows(ctx context.Context, cartID int64) ([]*CartRow, error)
	CalculateCartTotal(ctx context.Context, sessionID string) (int64, error)

	ClearAndMarkOrdered(ctx context.Context, cartID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const cartColumns = `id, session_id, status, created_at, updated_at`

func scanCart(row *sql.Row) (*Cart, error) {
	var c Cart
	err := row.Scan(&c.ID, &c.SessionID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindActiveCart returns nil, nil when the session has no ACTIVE cart.
func (r *repository) FindActiveCart(ctx context.Context, sessionID string) (*Cart, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+cartColumns+`
		FROM carts
		WHERE session_id = $1 AND status = 'ACTIVE'
	`, sessionID)

	c, err := scanCart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active cart: %w", err)
	}
	return c, nil
}

// GetOrCreateActiveCart relies on the partial unique index
// carts_one_active_per_session so concurrent first mutations converge on one row.
func (r *repository) GetOrCreateActiveCart(ctx context.Context, sessionID string) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetOrCreateActiveCart"),
	)

	row := r.db.QueryRowContext(ctx, `
		INSERT INTO carts (session_id, status)
		VALUES ($1, 'ACTIVE')
		ON CONFLICT (session_id) WHERE status = 'ACTIVE'
		DO UPDATE SET updated_at = NOW()
		RETURNING `+cartColumns, sessionID)

	c, err := scanCart(row)
	if err != nil {
		log.Error("failed to get or create active cart", zap.Error(err))
		return nil, fmt.Errorf("get or create active cart: %w", err)
	}

	log.Debug("active cart resolved", zap.Int64("cart_id", c.ID))
	return c, nil
}

func (r *repository) IncrementItemQuantity(ctx context.Context, cartID, itemID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, item_id, quantity, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (cart_id, item_id)
		DO UPDATE SET
			quantity = cart_items.quantity + 1,
			updated_at = NOW()
	`, cartID, itemID)
	if db.IsForeignKeyViolation(err) {
		return ErrItemNotFound
	}
	if err != nil {
		return fmt.Errorf("increment item quantity: %w", err)
	}
	return nil
}

func (r *repository) DeleteWhenQuantityIsOne(ctx context.Context, cartID, itemID int64) (int64, error) {
	return r.exec(ctx, "delete when quantity is one", `
		DELETE FROM cart_items
		WHERE cart_id = $1
		  AND item_id = $2
		  AND quantity = 1
	`, cartID, itemID)
}

func (r *repository) DecrementWhenQuantityGreaterThanOne(ctx context.Context, cartID, itemID int64) (int64, error) {
	return r.exec(ctx, "decrement when quantity greater than one", `
		UPDATE cart_items
		SET quantity = quantity - 1,
		    updated_at = NOW()
		WHERE cart_id = $1
		  AND item_id = $2
		  AND quantity > 1
	`, cartID, itemID)
}

func (r *repository) DeleteCartItem(ctx context.Context, cartID, itemID int64) (int64, error) {
	return r.exec(ctx, "delete cart item", `
		DELETE FROM cart_items
		WHERE cart_id = $1 AND item_id = $2
	`, cartID, itemID)
}

func (r *repository) DeleteByCartID(ctx context.Context, cartID int64) (int64, error) {
	return r.exec(ctx, "delete cart items", `
		DELETE FROM cart_items
		WHERE cart_id = $1
	`, cartID)
}

func (r *repository) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return affected, nil
}

func (r *repository) FindCartRows(ctx context.Context, cartID int64) ([]*CartRow, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FindCartRows"),
		zap.Int64("cart_id", cartID),
	)

	start := time.Now()

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			i.id,
			i.title,
			i.price_minor,
			ci.quantity
		FROM cart_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.cart_id = $1
		ORDER BY lower(i.title) ASC, i.id ASC
	`, cartID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, fmt.Errorf("find cart rows: %w", err)
	}
	defer rows.Close()

	result := make([]*CartRow, 0)
	for rows.Next() {
		var row CartRow
		if err := rows.Scan(&row.ItemID, &row.Title, &row.PriceMinor, &row.Quantity); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}

	log.Debug("query success",
		zap.Int("rows", len(result)),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (r *repository) CalculateCartTotal(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ci.quantity * i.price_minor), 0)
		FROM carts c
		JOIN cart_items ci ON ci.cart_id = c.id
		JOIN items i ON i.id = ci.item_id
		WHERE c.session_id = $1 AND c.status = 'ACTIVE'
	`, sessionID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("calculate cart total: %w", err)
	}
	return total, nil
}

// ClearAndMarkOrdered deletes every line of the cart and retires it in one transaction.
func (r *repository) ClearAndMarkOrdered(ctx context.Context, cartID int64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ClearAndMarkOrdered"),
		zap.Int64("cart_id", cartID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear cart tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET status = 'ORDERED', updated_at = NOW()
		WHERE id = $1 AND status = 'ACTIVE'
	`, cartID)
	if err != nil {
		return fmt.Errorf("mark cart ordered: %w", err)
	}

	n, err := res.RowsAffected()
	switch {
	case err != nil:
		log.Warn("could not confirm cart was marked ordered", zap.Error(err))
	case n == 0:
		log.Warn("cart was already retired by a concurrent checkout")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear cart tx: %w", err)
	}
	return nil
}
