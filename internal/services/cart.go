package service

import (
	"context"
	"database/sql"
	"math"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/models"
	repository "github.com/mercadito-app/storefront-api/internal/repositories"
)

type CartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// roundMoney keeps money totals at two decimals so float accumulation never
// leaks sub-cent noise to clients.
func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartResponse, error) {

	items, err := s.repo.ListItems(ctx, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	var total float64
	for i := range items {
		total += items[i].Subtotal()
	}

	return &models.CartResponse{
		Items: items,
		Total: roundMoney(total),
	}, nil
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.CartItem, error) {

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	sellerID := req.SellerID
	if sellerID == "" {
		sellerID = models.ExternalSellerID
	}

	item := &models.CartItem{
		UserID:      userID,
		ProductID:   req.ProductID,
		Title:       req.Title,
		Price:       req.Price,
		Image:       req.Image,
		Quantity:    quantity,
		SellerID:    sellerID,
		FromCatalog: req.FromCatalog,
	}

	if err := s.repo.InsertItem(ctx, item); err != nil {
		return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
	}

	return item, nil
}

// UpdateQuantity sets the absolute quantity of a cart line. Quantities below
// one remove the line. Catalog-sourced lines are fixed at quantity one and
// cannot be adjusted.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {

	item, err := s.getOwnedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if quantity < 1 {
		return s.deleteItem(ctx, itemID)
	}

	if item.FromCatalog {
		return errors.ForbiddenError("Catalog items cannot change quantity")
	}

	if err := s.repo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Cart item not found")
		}

		return errors.DatabaseError("Failed to update cart item").WithError(err)
	}

	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {

	if _, err := s.getOwnedItem(ctx, userID, itemID); err != nil {
		return err
	}

	return s.deleteItem(ctx, itemID)
}

func (s *CartService) getOwnedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {

	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Cart item not found")
		}

		return nil, errors.DatabaseError("Failed to fetch cart item").WithError(err)
	}

	if item.UserID != userID {
		return nil, errors.ForbiddenError("Cart item belongs to another user")
	}

	return item, nil
}

func (s *CartService) deleteItem(ctx context.Context, itemID uuid.UUID) error {

	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Cart item not found")
		}

		return errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}
