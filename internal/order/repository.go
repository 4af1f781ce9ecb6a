package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mymarket-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrder inserts the order and its item snapshots in one transaction
	// and fills in the generated id and timestamp.
	CreateOrder(ctx context.Context, o *Order) error
	GetOrdersBySession(ctx context.Context, sessionID string) ([]*Order, error)
	GetOrder(ctx context.Context, orderID int64) (*Order, error)
	GetOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]*OrderItem, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrder"),
		zap.Int64("total_minor", o.TotalMinor),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer tx.Rollback()

	// 1. Insert order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (session_id, status, total_minor)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, o.SessionID, o.Status, o.TotalMinor).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return fmt.Errorf("insert order: %w", err)
	}

	// 2. Insert item snapshots
	for _, item := range o.Items {
		item.OrderID = o.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, item_id, title_snapshot,
				price_minor_snapshot, quantity
			) VALUES ($1, $2, $3, $4, $5)
		`,
			o.ID,
			item.ItemID,
			item.Title,
			item.PriceMinor,
			item.Quantity,
		)
		if err != nil {
			log.Error("failed to insert order item", zap.Int64("item_id", item.ItemID), zap.Error(err))
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}

	log.Info("order created", zap.Int64("order_id", o.ID), zap.Int("items", len(o.Items)))
	return nil
}

const orderColumns = `id, session_id, status, total_minor, created_at`

func (r *repository) GetOrdersBySession(ctx context.Context, sessionID string) ([]*Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.SessionID, &o.Status, &o.TotalMinor, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, nil
}

// GetOrder returns nil, nil when the order does not exist.
func (r *repository) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID).Scan(&o.ID, &o.SessionID, &o.Status, &o.TotalMinor, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *repository) GetOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]*OrderItem, error) {
	result := make(map[int64][]*OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, item_id, title_snapshot, price_minor_snapshot, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, lower(title_snapshot), item_id
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.OrderID, &item.ItemID, &item.Title, &item.PriceMinor, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return result, nil
}
