package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/models"
	repository "github.com/mercadito-app/storefront-api/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	if user := args.Get(0); user != nil {
		return user.(*models.User), args.Error(1)
	}

	return nil, args.Error(1)
}

type mockRateLimitRepo struct {
	mock.Mock
}

func (m *mockRateLimitRepo) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *mockProductRepo) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if product := args.Get(0); product != nil {
		return product.(*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)

	if products := args.Get(0); products != nil {
		return products.([]*models.Product), args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *mockProductRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]*models.Product, error) {
	args := m.Called(ctx, sellerID)

	if products := args.Get(0); products != nil {
		return products.([]*models.Product), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *mockProductRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockProductRepo) DecrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	args := m.Called(ctx, id, amount)

	return args.Error(0)
}

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) ListItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	args := m.Called(ctx, userID)

	if items := args.Get(0); items != nil {
		return items.([]models.CartItem), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCartRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	args := m.Called(ctx, itemID)

	if item := args.Get(0); item != nil {
		return item.(*models.CartItem), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCartRepo) InsertItem(ctx context.Context, item *models.CartItem) error {
	args := m.Called(ctx, item)

	return args.Error(0)
}

func (m *mockCartRepo) UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	args := m.Called(ctx, itemID, quantity)

	return args.Error(0)
}

func (m *mockCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	args := m.Called(ctx, itemID)

	return args.Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *mockOrderRepo) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockOrderRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)

	if orders := args.Get(0); orders != nil {
		return orders.([]models.Order), args.Int(1), args.Error(2)
	}

	return nil, args.Int(1), args.Error(2)
}

func (m *mockOrderRepo) FindRecentOrderByUser(ctx context.Context, userID uuid.UUID, since time.Time) (*models.Order, error) {
	args := m.Called(ctx, userID, since)

	if order := args.Get(0); order != nil {
		return order.(*models.Order), args.Error(1)
	}

	return nil, args.Error(1)
}

type mockCheckoutRepo struct {
	mock.Mock
}

func (m *mockCheckoutRepo) CommitAtomic(ctx context.Context, order *models.Order, decrements []repository.StockDecrement, cartItemIDs []uuid.UUID) error {
	args := m.Called(ctx, order, decrements, cartItemIDs)

	return args.Error(0)
}

type mockCatalogClient struct {
	mock.Mock
}

func (m *mockCatalogClient) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {
	args := m.Called(ctx)

	if products := args.Get(0); products != nil {
		return products.([]models.CatalogProduct), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockCatalogClient) GetProduct(ctx context.Context, id int) (*models.CatalogProduct, error) {
	args := m.Called(ctx, id)

	if product := args.Get(0); product != nil {
		return product.(*models.CatalogProduct), args.Error(1)
	}

	return nil, args.Error(1)
}
