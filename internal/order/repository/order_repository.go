package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"omegashop/internal/domain"
	"omegashop/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

// Create inserts the order header and all line items in one transaction.
// If any insert fails the whole order is rolled back; callers never observe a
// header without its items.
func (r *MySQLOrderRepository) Create(ctx context.Context, order domain.Order, items []domain.OrderItem) (*domain.OrderWithItems, error) {
	vendorIDs, err := json.Marshal(order.VendorIDs)
	if err != nil {
		return nil, fmt.Errorf("encoding vendor ids: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	// MySQL ignores rollback after a successful commit.
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (amount, status, customer_id, vendor_ids) VALUES (?, ?, ?, ?)`,
		order.Amount, order.Status, order.CustomerID, vendorIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting order: %w", err)
	}

	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	created := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		itemResult, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, qty, total) VALUES (?, ?, ?, ?)`,
			orderID, item.ProductID, item.Qty, item.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting order item: %w", err)
		}

		itemID, err := itemResult.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("getting order item id: %w", err)
		}

		item.ID = uint(itemID)
		item.OrderID = uint(orderID)
		created = append(created, item)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing order: %w", err)
	}

	header, err := r.FindByID(ctx, uint(orderID))
	if err != nil {
		return nil, err
	}

	return &domain.OrderWithItems{Order: *header, Items: created}, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	query := `
		SELECT id, amount, status, customer_id, vendor_ids, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	var (
		order     domain.Order
		vendorIDs []byte
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.Amount, &order.Status, &order.CustomerID, &vendorIDs,
		&order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	if err := json.Unmarshal(vendorIDs, &order.VendorIDs); err != nil {
		return nil, fmt.Errorf("decoding vendor ids: %w", err)
	}

	return &order, nil
}

func (r *MySQLOrderRepository) FindItems(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, qty, total
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Qty, &item.Total); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	return items, nil
}

func (r *MySQLOrderRepository) ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	query := `
		SELECT id, amount, status, customer_id, vendor_ids, created_at, updated_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by customer: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func (r *MySQLOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, amount, status, customer_id, vendor_ids, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var (
			order     domain.Order
			vendorIDs []byte
		)
		err := rows.Scan(
			&order.ID, &order.Amount, &order.Status, &order.CustomerID, &vendorIDs,
			&order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		if err := json.Unmarshal(vendorIDs, &order.VendorIDs); err != nil {
			return nil, fmt.Errorf("decoding vendor ids: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return nil
}
