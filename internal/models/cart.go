package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one cart line, a row per product per user. FromCatalog marks
// lines sourced from the read-only remote catalog: their quantity is not
// adjustable and they never trigger a stock decrement.
type CartItem struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Quantity    int       `json:"quantity"`
	SellerID    string    `json:"seller_id"`
	FromCatalog bool      `json:"from_catalog"`
	CreatedAt   time.Time `json:"created_at"`
}

// Subtotal is price times quantity for this line.
func (i *CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type AddItemRequest struct {
	ProductID   string  `json:"product_id" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Quantity    int     `json:"quantity" validate:"omitempty,min=1"`
	SellerID    string  `json:"seller_id"`
	FromCatalog bool    `json:"from_catalog"`
}

// UpdateQuantityRequest carries the new absolute quantity for a cart line.
// A quantity below 1 degrades into a removal of the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}
