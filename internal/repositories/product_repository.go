package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mercadito-app/storefront-api/internal/models"
	"github.com/mercadito-app/storefront-api/internal/utils"
)

// ErrInsufficientStock reports a conditional decrement that matched no row:
// either the product is gone or its stock is below the requested amount.
var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) error
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (seller_id, title, description, price, image, category, rating_rate, rating_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		product.SellerID, product.Title, product.Description, product.Price,
		product.Image, product.Category, product.Rating.Rate, product.Rating.Count).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT id, seller_id, title, description, price, image, category, rating_rate, rating_count, created_at, updated_at
		FROM products
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(
		&product.ID, &product.SellerID, &product.Title, &product.Description,
		&product.Price, &product.Image, &product.Category,
		&product.Rating.Rate, &product.Rating.Count,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}

		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := `SELECT COUNT(*) FROM products`
	if err := r.DB.QueryRowContext(dbCtx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * size

	query := `
		SELECT id, seller_id, title, description, price, image, category, rating_rate, rating_count, created_at, updated_at
		FROM products
		ORDER BY title
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, seller_id, title, description, price, image, category, rating_rate, rating_count, created_at, updated_at
		FROM products
		WHERE seller_id = $1
		ORDER BY title`

	rows, err := r.DB.QueryContext(dbCtx, query, sellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list seller products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET title = $1, description = $2, price = $3, image = $4, category = $5, rating_rate = $6, rating_count = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Title, product.Description, product.Price, product.Image,
		product.Category, product.Rating.Rate, product.Rating.Count, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// DecrementStock applies a relative, conditional decrement: the row is only
// updated when the remaining stock covers the requested amount, so two
// concurrent buyers cannot drive the count negative.
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET rating_count = rating_count - $2, updated_at = NOW()
		WHERE id = $1 AND rating_count >= $2`

	result, err := r.DB.ExecContext(dbCtx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updated == 0 {
		return ErrInsufficientStock
	}

	return nil
}

func scanProducts(rows *sql.Rows) ([]*models.Product, error) {

	var products []*models.Product

	for rows.Next() {

		product := &models.Product{}

		err := rows.Scan(
			&product.ID, &product.SellerID, &product.Title, &product.Description,
			&product.Price, &product.Image, &product.Category,
			&product.Rating.Rate, &product.Rating.Count,
			&product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// IsPermissionDenied reports whether err is a Postgres privilege failure,
// which checkout surfaces differently from generic failures.
func IsPermissionDenied(err error) bool {

	var pqErr *pq.Error

	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "insufficient_privilege"
	}

	return false
}
