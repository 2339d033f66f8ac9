package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/api/middleware"
	"github.com/mercadito-app/storefront-api/internal/catalog"
	"github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/models"
	repository "github.com/mercadito-app/storefront-api/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

// ProductService manages locally-owned products and merges them with the
// remote catalog into the pooled storefront listing.
type ProductService struct {
	repo      repository.ProductRepository
	catalog   catalog.Client
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, catalogClient catalog.Client) *ProductService {
	return &ProductService{
		repo:      repo,
		catalog:   catalogClient,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		SellerID:    sellerID,
		Title:       s.sanitizer.Sanitize(req.Title),
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Rating:      models.Rating{Count: req.Stock},
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundError("Product not found")
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

// ListStorefront returns the pooled listing: locally-owned products first,
// then the remote catalog. A catalog outage degrades the listing to local
// products only instead of failing the request.
func (s *ProductService) ListStorefront(ctx context.Context, page, size int) ([]models.ListingItem, error) {

	logger := middleware.LoggerFromContext(ctx)

	local, _, err := s.repo.ListProducts(ctx, page, size)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list products").WithError(err)
	}

	listing := make([]models.ListingItem, 0, len(local))

	for _, p := range local {
		listing = append(listing, models.ListingFromProduct(p))
	}

	remote, err := s.catalog.ListProducts(ctx)
	if err != nil {
		logger.Warn("Catalog unavailable, serving local products only", slog.Any("error", err))
		return listing, nil
	}

	for i := range remote {
		listing = append(listing, models.ListingFromCatalog(&remote[i]))
	}

	return listing, nil
}

func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*models.Product, error) {

	products, err := s.repo.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list seller products").WithError(err)
	}

	return products, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, requesterID, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID != requesterID {
		return nil, errors.ForbiddenError("Only the seller can modify this product")
	}

	if req.Title != nil {
		product.Title = s.sanitizer.Sanitize(*req.Title)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.Category != nil {
		product.Category = *req.Category
	}

	if req.Stock != nil {
		product.Rating.Count = *req.Stock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, requesterID, productID uuid.UUID) error {

	product, err := s.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.SellerID != requesterID {
		return errors.ForbiddenError("Only the seller can delete this product")
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		if err == sql.ErrNoRows {
			return errors.NotFoundError("Product not found")
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	return nil
}
