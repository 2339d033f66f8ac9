package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/models"
	"github.com/mercadito-app/storefront-api/internal/utils"
)

// ErrAtomicCommitUnavailable marks a failure of the batch mechanism itself
// (or a rejected batch). Callers fall back to individual writes on it;
// business failures such as ErrInsufficientStock never wear this mark.
var ErrAtomicCommitUnavailable = errors.New("atomic commit unavailable")

// StockDecrement is one relative stock adjustment inside a checkout batch.
type StockDecrement struct {
	ProductID uuid.UUID
	Quantity  int
}

type CheckoutRepository interface {
	// CommitAtomic applies the order insert, every stock decrement and every
	// cart line delete as one transaction. All three take effect together or
	// not at all.
	CommitAtomic(ctx context.Context, order *models.Order, decrements []StockDecrement, cartItemIDs []uuid.UUID) error
}

type checkoutRepository struct {
	DB *sql.DB
}

func NewCheckoutRepo(db *sql.DB) CheckoutRepository {
	return &checkoutRepository{DB: db}
}

func (r *checkoutRepository) CommitAtomic(ctx context.Context, order *models.Order, decrements []StockDecrement, cartItemIDs []uuid.UUID) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAtomicCommitUnavailable, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(dbCtx, insertOrderQuery,
		order.ID, order.UserID, order.SellerID, itemsJSON, order.Total,
		order.Status, order.ShippingAddress, order.PaymentMethod, order.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to insert order: %w", ErrAtomicCommitUnavailable, err)
	}

	decrementQuery := `
		UPDATE products
		SET rating_count = rating_count - $2, updated_at = NOW()
		WHERE id = $1 AND rating_count >= $2`

	for _, dec := range decrements {

		result, err := tx.ExecContext(dbCtx, decrementQuery, dec.ProductID, dec.Quantity)
		if err != nil {
			return fmt.Errorf("%w: failed to decrement stock: %w", ErrAtomicCommitUnavailable, err)
		}

		updated, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: failed to get updated rows: %w", ErrAtomicCommitUnavailable, err)
		}

		if updated == 0 {
			// Business validation, not a mechanism failure: no fallback.
			return fmt.Errorf("product %s: %w", dec.ProductID, ErrInsufficientStock)
		}
	}

	for _, itemID := range cartItemIDs {
		if _, err := tx.ExecContext(dbCtx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
			return fmt.Errorf("%w: failed to delete cart item: %w", ErrAtomicCommitUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit failed: %w", ErrAtomicCommitUnavailable, err)
	}

	return nil
}
