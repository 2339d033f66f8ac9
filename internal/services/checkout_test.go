package service_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	appErrors "github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/models"
	repository "github.com/mercadito-app/storefront-api/internal/repositories"
	service "github.com/mercadito-app/storefront-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutMocks struct {
	checkoutRepo *mockCheckoutRepo
	orderRepo    *mockOrderRepo
	productRepo  *mockProductRepo
	cartRepo     *mockCartRepo
	catalog      *mockCatalogClient
}

func newCheckoutService() (*service.CheckoutService, *checkoutMocks) {

	m := &checkoutMocks{
		checkoutRepo: &mockCheckoutRepo{},
		orderRepo:    &mockOrderRepo{},
		productRepo:  &mockProductRepo{},
		cartRepo:     &mockCartRepo{},
		catalog:      &mockCatalogClient{},
	}

	svc := service.NewCheckoutService(m.checkoutRepo, m.orderRepo, m.productRepo, m.cartRepo, m.catalog)

	return svc, m
}

// checkoutFixture builds a two-line cart: one locally-owned product and one
// read-only catalog product.
type checkoutFixture struct {
	userID    uuid.UUID
	sellerID  uuid.UUID
	productID uuid.UUID
	items     []models.CartItem
	product   *models.Product
}

func newCheckoutFixture() *checkoutFixture {

	f := &checkoutFixture{
		userID:    uuid.New(),
		sellerID:  uuid.New(),
		productID: uuid.New(),
	}

	f.items = []models.CartItem{
		{
			ID:        uuid.New(),
			UserID:    f.userID,
			ProductID: f.productID.String(),
			Title:     "Handmade mug",
			Price:     10.50,
			Quantity:  2,
			SellerID:  f.sellerID.String(),
		},
		{
			ID:          uuid.New(),
			UserID:      f.userID,
			ProductID:   "3",
			Title:       "Catalog backpack",
			Price:       5.25,
			Quantity:    1,
			SellerID:    models.ExternalSellerID,
			FromCatalog: true,
		},
	}

	f.product = &models.Product{
		ID:       f.productID,
		SellerID: f.sellerID,
		Title:    "Handmade mug",
		Price:    10.50,
		Rating:   models.Rating{Count: 5},
	}

	return f
}

func TestCheckout_AuthGate(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()

	t.Run("Nil Session Is Recoverable", func(t *testing.T) {
		// Act
		result, err := svc.Checkout(ctx, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutAuthRequired, result.Status)
		assert.Equal(t, uuid.Nil, result.OrderID)
		m.cartRepo.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
		m.checkoutRepo.AssertNotCalled(t, "CommitAtomic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Anonymous Session Is Recoverable", func(t *testing.T) {
		// Act
		result, err := svc.Checkout(ctx, &models.SessionUser{ID: uuid.New(), Anonymous: true})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutAuthRequired, result.Status)
		m.cartRepo.AssertNotCalled(t, "ListItems", mock.Anything, mock.Anything)
	})
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	userID := uuid.New()

	// Arrange
	m.cartRepo.On("ListItems", ctx, userID).Return([]models.CartItem{}, nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: userID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutEmptyCart, result.Status)
	m.checkoutRepo.AssertNotCalled(t, "CommitAtomic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	m.cartRepo.AssertExpectations(t)
}

func TestCheckout_AtomicSuccess(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	f := newCheckoutFixture()

	// Arrange
	m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
	m.checkoutRepo.On("CommitAtomic", ctx, mock.MatchedBy(func(order *models.Order) bool {
		return order.UserID == f.userID &&
			order.SellerID == f.sellerID.String() &&
			order.Total == 26.25 && // 2*10.50 + 5.25, rounded to cents
			order.Status == models.OrderStatusPending &&
			order.PaymentMethod == models.PaymentMethodUnspecified &&
			len(order.Items) == 2
	}), mock.MatchedBy(func(decrements []repository.StockDecrement) bool {
		// The catalog line must not produce a stock decrement.
		return len(decrements) == 1 &&
			decrements[0].ProductID == f.productID &&
			decrements[0].Quantity == 2
	}), mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 2 && ids[0] == f.items[0].ID && ids[1] == f.items[1].ID
	})).Return(nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutSuccess, result.Status)
	assert.True(t, result.Atomic)
	assert.NotEqual(t, uuid.Nil, result.OrderID)
	m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	m.checkoutRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
	m.productRepo.AssertExpectations(t)
}

func TestCheckout_TotalRounding(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	// Arrange: 3 * 0.1 accumulates float noise without explicit rounding.
	items := []models.CartItem{
		{ID: uuid.New(), UserID: userID, ProductID: productID.String(), Title: "Sticker", Price: 0.1, Quantity: 3, SellerID: uuid.NewString()},
	}

	m.cartRepo.On("ListItems", ctx, userID).Return(items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, productID).
		Return(&models.Product{ID: productID, Rating: models.Rating{Count: 10}}, nil).Once()
	m.checkoutRepo.On("CommitAtomic", ctx, mock.MatchedBy(func(order *models.Order) bool {
		return order.Total == 0.3
	}), mock.Anything, mock.Anything).Return(nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: userID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutSuccess, result.Status)
	m.checkoutRepo.AssertExpectations(t)
}

func TestCheckout_StockPreCheckFails(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	f := newCheckoutFixture()

	// Arrange: stock below the requested quantity
	f.product.Rating.Count = 1

	m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)

	m.checkoutRepo.AssertNotCalled(t, "CommitAtomic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestCheckout_InsufficientStockInsideCommit(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	f := newCheckoutFixture()

	// Arrange: the commit loses the stock race. That is a business failure,
	// so no fallback may run.
	m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
	m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("product %s: %w", f.productID, repository.ErrInsufficientStock)).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)

	m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	m.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	m.checkoutRepo.AssertExpectations(t)
}

func TestCheckout_FallbackSuccess(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	f := newCheckoutFixture()

	// Arrange: the atomic mechanism is down, individual writes all succeed.
	m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
	m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: connection reset", repository.ErrAtomicCommitUnavailable)).Once()
	m.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	m.productRepo.On("DecrementStock", ctx, f.productID, 2).Return(nil).Once()
	m.cartRepo.On("DeleteItem", ctx, f.items[0].ID).Return(nil).Once()
	m.cartRepo.On("DeleteItem", ctx, f.items[1].ID).Return(nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutSuccess, result.Status)
	assert.False(t, result.Atomic, "fallback success must not claim atomicity")
	assert.NotEqual(t, uuid.Nil, result.OrderID)
	m.orderRepo.AssertNotCalled(t, "FindRecentOrderByUser", mock.Anything, mock.Anything, mock.Anything)
	m.checkoutRepo.AssertExpectations(t)
	m.orderRepo.AssertExpectations(t)
	m.productRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
}

func TestCheckout_FallbackPartialSuccess(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	f := newCheckoutFixture()

	recentOrder := &models.Order{ID: uuid.New(), UserID: f.userID}

	// Arrange: order insert lands, stock decrement dies, reconciliation
	// finds the order.
	m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
	m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
	m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: connection reset", repository.ErrAtomicCommitUnavailable)).Once()
	m.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()
	m.productRepo.On("DecrementStock", ctx, f.productID, 2).Return(errors.New("connection lost")).Once()
	m.orderRepo.On("FindRecentOrderByUser", ctx, f.userID, mock.MatchedBy(func(since time.Time) bool {
		// The lookback window is 60 seconds.
		return time.Since(since) >= 60*time.Second && time.Since(since) < 65*time.Second
	})).Return(recentOrder, nil).Once()

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutPartialSuccess, result.Status)
	assert.Equal(t, recentOrder.ID, result.OrderID)
	assert.False(t, result.Atomic)
	assert.NotEmpty(t, result.Reason)
	m.cartRepo.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	m.orderRepo.AssertExpectations(t)
}

func TestCheckout_FallbackFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("No Order Found", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange: nothing landed, reconciliation confirms it.
		m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: connection reset", repository.ErrAtomicCommitUnavailable)).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).
			Return(errors.New("connection lost")).Once()
		m.orderRepo.On("FindRecentOrderByUser", ctx, f.userID, mock.AnythingOfType("time.Time")).
			Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Permission Denied Is Distinguished", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		pqErr := &pq.Error{Code: "42501"} // insufficient_privilege

		// Arrange
		m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: connection reset", repository.ErrAtomicCommitUnavailable)).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).Return(pqErr).Once()
		m.orderRepo.On("FindRecentOrderByUser", ctx, f.userID, mock.AnythingOfType("time.Time")).
			Return(nil, sql.ErrNoRows).Once()

		// Act
		result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodePermissionDenied, appErr.Code)
		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Reconciliation Query Error", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange: even the outcome lookup fails, reported as a failure.
		m.cartRepo.On("ListItems", ctx, f.userID).Return(f.items, nil).Once()
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.checkoutRepo.On("CommitAtomic", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: connection reset", repository.ErrAtomicCommitUnavailable)).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.AnythingOfType("*models.Order")).
			Return(errors.New("connection lost")).Once()
		m.orderRepo.On("FindRecentOrderByUser", ctx, f.userID, mock.AnythingOfType("time.Time")).
			Return(nil, errors.New("query timeout")).Once()

		// Act
		result, err := svc.Checkout(ctx, &models.SessionUser{ID: f.userID})

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}

func TestCheckout_SingleFlightPerUser(t *testing.T) {
	svc, m := newCheckoutService()
	ctx := context.Background()
	userID := uuid.New()

	started := make(chan struct{})
	release := make(chan struct{})

	// Arrange: the first attempt parks inside the cart load so a second
	// attempt arrives while it is still in flight.
	m.cartRepo.On("ListItems", ctx, userID).Run(func(args mock.Arguments) {
		close(started)
		<-release
	}).Return([]models.CartItem{}, nil).Once()

	firstDone := make(chan error, 1)

	go func() {
		_, err := svc.Checkout(ctx, &models.SessionUser{ID: userID})
		firstDone <- err
	}()

	<-started

	// Act
	result, err := svc.Checkout(ctx, &models.SessionUser{ID: userID})

	// Assert
	require.Error(t, err)
	assert.Nil(t, result)

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrCodeCheckoutInFlight, appErr.Code)

	close(release)
	require.NoError(t, <-firstDone)

	// The guard is released once the first attempt finishes.
	m.cartRepo.On("ListItems", ctx, userID).Return([]models.CartItem{}, nil).Once()

	retried, err := svc.Checkout(ctx, &models.SessionUser{ID: userID})
	require.NoError(t, err)
	assert.Equal(t, models.CheckoutEmptyCart, retried.Status)
}

func TestBuyNow(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous Purchase Is Recoverable", func(t *testing.T) {
		svc, m := newCheckoutService()

		// Act
		result, err := svc.BuyNow(ctx, nil, uuid.New().String())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutAuthRequired, result.Status)
		m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Success - Local Product", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.MatchedBy(func(order *models.Order) bool {
			return order.UserID == f.userID &&
				order.SellerID == f.sellerID.String() &&
				order.Total == 10.50 &&
				len(order.Items) == 1 &&
				order.Items[0].Quantity == 1 &&
				order.Status == models.OrderStatusPending
		})).Return(nil).Once()
		m.productRepo.On("DecrementStock", ctx, f.productID, 1).Return(nil).Once()

		// Act
		result, err := svc.BuyNow(ctx, &models.SessionUser{ID: f.userID}, f.productID.String())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSuccess, result.Status)
		assert.NotEqual(t, uuid.Nil, result.OrderID)
		m.productRepo.AssertExpectations(t)
		m.orderRepo.AssertExpectations(t)
	})

	t.Run("Success - Catalog Product Without Decrement", func(t *testing.T) {
		svc, m := newCheckoutService()
		userID := uuid.New()

		// Arrange
		m.catalog.On("GetProduct", ctx, 3).Return(&models.CatalogProduct{
			ID:    3,
			Title: "Catalog backpack",
			Price: 5.25,
		}, nil).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.MatchedBy(func(order *models.Order) bool {
			return order.SellerID == models.ExternalSellerID &&
				order.Total == 5.25 &&
				len(order.Items) == 1
		})).Return(nil).Once()

		// Act
		result, err := svc.BuyNow(ctx, &models.SessionUser{ID: userID}, "3")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutSuccess, result.Status)
		m.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		m.catalog.AssertExpectations(t)
	})

	t.Run("Failure - Out Of Stock", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange
		soldOut := &models.Product{ID: f.productID, SellerID: f.sellerID, Title: "Handmade mug"}
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(soldOut, nil).Once()

		// Act
		result, err := svc.BuyNow(ctx, &models.SessionUser{ID: f.userID}, f.productID.String())

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeInsufficientStock, appErr.Code)
		m.orderRepo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Permission Denied On Order Insert", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.Anything).Return(&pq.Error{Code: "42501"}).Once()

		// Act
		result, err := svc.BuyNow(ctx, &models.SessionUser{ID: f.userID}, f.productID.String())

		// Assert
		require.Error(t, err)
		assert.Nil(t, result)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodePermissionDenied, appErr.Code)
		m.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Generic Order Insert Error", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.Anything).Return(fmt.Errorf("write failed")).Once()

		// Act
		_, err := svc.BuyNow(ctx, &models.SessionUser{ID: f.userID}, f.productID.String())

		// Assert
		require.Error(t, err)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})

	t.Run("Partial Success - Decrement Fails After Order Insert", func(t *testing.T) {
		svc, m := newCheckoutService()
		f := newCheckoutFixture()

		// Arrange
		m.productRepo.On("GetProductByID", ctx, f.productID).Return(f.product, nil).Once()
		m.orderRepo.On("CreateOrder", ctx, mock.Anything).Return(nil).Once()
		m.productRepo.On("DecrementStock", ctx, f.productID, 1).Return(sql.ErrConnDone).Once()

		// Act
		result, err := svc.BuyNow(ctx, &models.SessionUser{ID: f.userID}, f.productID.String())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.CheckoutPartialSuccess, result.Status)
		assert.NotEqual(t, uuid.Nil, result.OrderID)
		assert.NotEmpty(t, result.Reason)
	})

	t.Run("Failure - Invalid Product Reference", func(t *testing.T) {
		svc, _ := newCheckoutService()

		// Act
		_, err := svc.BuyNow(ctx, &models.SessionUser{ID: uuid.New()}, "not-a-product")

		// Assert
		require.Error(t, err)

		var appErr *appErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeBadRequest, appErr.Code)
	})
}
