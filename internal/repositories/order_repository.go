package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/models"
	"github.com/mercadito-app/storefront-api/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error)
	// FindRecentOrderByUser returns the newest order the user created at or
	// after since, or sql.ErrNoRows. Used by checkout reconciliation.
	FindRecentOrderByUser(ctx context.Context, userID uuid.UUID, since time.Time) (*models.Order, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const insertOrderQuery = `
	INSERT INTO orders (id, user_id, seller_id, items, total, status, shipping_address, payment_method, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	_, err = r.DB.ExecContext(dbCtx, insertOrderQuery,
		order.ID, order.UserID, order.SellerID, itemsJSON, order.Total,
		order.Status, order.ShippingAddress, order.PaymentMethod, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

const selectOrderColumns = `id, user_id, seller_id, items, total, status, shipping_address, payment_method, created_at`

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + selectOrderColumns + `
		FROM orders
		WHERE id = $1`

	row := r.DB.QueryRowContext(dbCtx, query, id)

	return scanOrder(row)
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM orders WHERE user_id = $1`
	if err := r.DB.QueryRowContext(dbCtx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT ` + selectOrderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order
		var itemsJSON []byte

		err := rows.Scan(&order.ID, &order.UserID, &order.SellerID, &itemsJSON,
			&order.Total, &order.Status, &order.ShippingAddress,
			&order.PaymentMethod, &order.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order items: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) FindRecentOrderByUser(ctx context.Context, userID uuid.UUID, since time.Time) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + selectOrderColumns + `
		FROM orders
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1`

	row := r.DB.QueryRowContext(dbCtx, query, userID, since)

	return scanOrder(row)
}

func scanOrder(row *sql.Row) (*models.Order, error) {

	order := &models.Order{}

	var itemsJSON []byte

	err := row.Scan(&order.ID, &order.UserID, &order.SellerID, &itemsJSON,
		&order.Total, &order.Status, &order.ShippingAddress,
		&order.PaymentMethod, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	return order, nil
}
