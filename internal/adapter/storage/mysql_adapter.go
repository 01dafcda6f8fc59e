package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/order-service/internal/core/domain"
)

var ErrOrderNotFound = errors.New("order not found")

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// Save writes the order and its line items in one transaction. The
// transaction covers only this write; it is never held open across a network
// round trip to inventory.
func (m *MySQLAdapter) Save(ctx context.Context, order domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_number, created_at)
		VALUES (?, ?)`,
		order.OrderNumber, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.LineItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_line_items (order_number, sku_code, quantity, price)
			VALUES (?, ?, ?, ?)`,
			order.OrderNumber, item.SKUCode, item.Quantity, item.Price,
		)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}

	return tx.Commit()
}

// GetByOrderNumber loads a persisted order with its line items.
func (m *MySQLAdapter) GetByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	var order domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT order_number, created_at
		FROM orders WHERE order_number = ?`, orderNumber,
	).Scan(&order.OrderNumber, &order.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, `
		SELECT sku_code, quantity, price
		FROM order_line_items WHERE order_number = ?`, orderNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderLineItem
		if err := rows.Scan(&item.SKUCode, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		order.LineItems = append(order.LineItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}

	return &order, nil
}
