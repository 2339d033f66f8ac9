package models

import "github.com/google/uuid"

type CheckoutStatus string

const (
	// CheckoutSuccess: the order was created and stock and cart state are
	// consistent with it.
	CheckoutSuccess CheckoutStatus = "success"
	// CheckoutPartialSuccess: an order exists, but stock or cart state may
	// be inconsistent. Surfaced as an ambiguous outcome, not a success.
	CheckoutPartialSuccess CheckoutStatus = "partial_success"
	CheckoutFailed         CheckoutStatus = "failed"
	CheckoutAuthRequired   CheckoutStatus = "auth_required"
	CheckoutEmptyCart      CheckoutStatus = "empty_cart"
)

// CheckoutResult is the terminal outcome of a single checkout attempt.
type CheckoutResult struct {
	Status  CheckoutStatus `json:"status"`
	OrderID uuid.UUID      `json:"order_id,omitempty"`
	// Atomic is false when the order was committed through the individual
	// fallback path, which does not carry the all-or-nothing guarantee.
	Atomic bool   `json:"atomic"`
	Reason string `json:"reason,omitempty"`
}
