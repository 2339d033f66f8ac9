package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Rating mirrors the catalog API shape. For locally-owned products Count
// doubles as the available stock and is decremented on purchase.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a locally-owned catalog entry, created and managed by an app
// user. SellerID is always set; its presence is what makes the product
// stock-adjustable.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Rating      Rating    `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogProduct is a read-only entry from the remote catalog API. It
// carries no seller and its stock is not locally adjustable.
type CatalogProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// ExternalSellerID is the sentinel seller for catalog products and for
// cart lines whose seller is unknown.
const ExternalSellerID = "api-product"

// ListingItem is one entry of the pooled storefront listing. The
// local-vs-external distinction is resolved once, here, and carried as
// FromCatalog from then on.
type ListingItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Rating      Rating  `json:"rating"`
	SellerID    string  `json:"seller_id"`
	FromCatalog bool    `json:"from_catalog"`
}

// ListingFromProduct converts a locally-owned product into a listing entry.
func ListingFromProduct(p *Product) ListingItem {
	return ListingItem{
		ID:          p.ID.String(),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating,
		SellerID:    p.SellerID.String(),
		FromCatalog: false,
	}
}

// ListingFromCatalog converts a remote catalog product into a listing entry.
func ListingFromCatalog(p *CatalogProduct) ListingItem {
	return ListingItem{
		ID:          strconv.Itoa(p.ID),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating,
		SellerID:    ExternalSellerID,
		FromCatalog: true,
	}
}

type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Image       string  `json:"image" validate:"omitempty,url"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock" validate:"omitempty,min=0"`
}

type UpdateProductRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Image       *string  `json:"image,omitempty" validate:"omitempty,url"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
}
