package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mercadito-app/storefront-api/internal/api/middleware"
	"github.com/mercadito-app/storefront-api/internal/catalog"
	apperrors "github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/metrics"
	"github.com/mercadito-app/storefront-api/internal/models"
	repository "github.com/mercadito-app/storefront-api/internal/repositories"
)

// reconciliationWindow bounds the lookback when an ambiguous fallback
// failure forces us to check whether the order write actually landed.
const reconciliationWindow = 60 * time.Second

// CheckoutService commits a user's cart into an order. The happy path is a
// single atomic commit; when the atomic mechanism itself is unavailable the
// same writes are replayed individually, and an ambiguous failure there is
// resolved by querying for the order before reporting the outcome.
type CheckoutService struct {
	checkoutRepo repository.CheckoutRepository
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	cartRepo     repository.CartRepository
	catalog      catalog.Client

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

func NewCheckoutService(checkoutRepo repository.CheckoutRepository, orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, catalogClient catalog.Client) *CheckoutService {
	return &CheckoutService{
		checkoutRepo: checkoutRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		cartRepo:     cartRepo,
		catalog:      catalogClient,
		inFlight:     make(map[uuid.UUID]struct{}),
	}
}

// Checkout runs one checkout attempt for the session user. At most one
// attempt per user runs at a time; a second concurrent call fails fast
// instead of double-purchasing.
func (s *CheckoutService) Checkout(ctx context.Context, session *models.SessionUser) (*models.CheckoutResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	// Recoverable gate, not an error: the client prompts a sign-in and the
	// cart is left untouched.
	if session == nil || session.Anonymous {
		metrics.ObserveCheckout(string(models.CheckoutAuthRequired))
		return &models.CheckoutResult{
			Status: models.CheckoutAuthRequired,
			Reason: "Sign in to complete your purchase",
		}, nil
	}

	if !s.acquire(session.ID) {
		return nil, apperrors.CheckoutInFlightError("A checkout is already in progress")
	}
	defer s.release(session.ID)

	items, err := s.cartRepo.ListItems(ctx, session.ID)
	if err != nil {
		return nil, apperrors.DatabaseError("Failed to load cart").WithError(err)
	}

	if len(items) == 0 {
		metrics.ObserveCheckout(string(models.CheckoutEmptyCart))
		return &models.CheckoutResult{
			Status: models.CheckoutEmptyCart,
			Reason: "Cart is empty",
		}, nil
	}

	decrements, err := s.validateStock(ctx, items)
	if err != nil {
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, err
	}

	order := buildOrder(session.ID, items)

	cartItemIDs := make([]uuid.UUID, 0, len(items))
	for i := range items {
		cartItemIDs = append(cartItemIDs, items[i].ID)
	}

	err = s.checkoutRepo.CommitAtomic(ctx, order, decrements, cartItemIDs)
	if err == nil {
		logger.Info("Checkout committed atomically", slog.String("orderId", order.ID.String()))
		metrics.ObserveCheckout(string(models.CheckoutSuccess))
		return &models.CheckoutResult{
			Status:  models.CheckoutSuccess,
			OrderID: order.ID,
			Atomic:  true,
		}, nil
	}

	// Business validation losing a race inside the transaction is a plain
	// failure; only a broken commit mechanism justifies the fallback.
	if errors.Is(err, repository.ErrInsufficientStock) {
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, apperrors.InsufficientStockError("Not enough stock to complete the purchase").WithError(err)
	}

	if !errors.Is(err, repository.ErrAtomicCommitUnavailable) {
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, apperrors.DatabaseError("Checkout failed").WithError(err)
	}

	logger.Warn("Atomic commit unavailable, falling back to individual writes", slog.Any("error", err))
	metrics.ObserveCheckoutFallback()

	result, err := s.fallbackCommit(ctx, order, decrements, cartItemIDs)
	if err != nil {
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, err
	}

	metrics.ObserveCheckout(string(result.Status))

	return result, nil
}

// BuyNow purchases a single unit of one product straight from its detail
// page, without touching the cart. Local products get the same stock gate
// and decrement as checkout; catalog products are external and are only
// snapshotted into the order. The writes are sequential, so a decrement
// failing after the order insert is reported as a partial success.
func (s *CheckoutService) BuyNow(ctx context.Context, session *models.SessionUser, productRef string) (*models.CheckoutResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	if session == nil || session.Anonymous {
		metrics.ObserveCheckout(string(models.CheckoutAuthRequired))
		return &models.CheckoutResult{
			Status: models.CheckoutAuthRequired,
			Reason: "Sign in to complete your purchase",
		}, nil
	}

	if !s.acquire(session.ID) {
		return nil, apperrors.CheckoutInFlightError("A purchase is already in progress")
	}
	defer s.release(session.ID)

	line, decrement, err := s.resolvePurchaseLine(ctx, session.ID, productRef)
	if err != nil {
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, err
	}

	order := buildOrder(session.ID, []models.CartItem{*line})

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		logger.Error("Direct purchase order insert failed", slog.Any("error", err))
		metrics.ObserveCheckout(string(models.CheckoutFailed))
		return nil, s.failureError(err)
	}

	if decrement != nil {
		if err := s.productRepo.DecrementStock(ctx, decrement.ProductID, decrement.Quantity); err != nil {
			logger.Error("Direct purchase stock decrement failed",
				slog.String("productId", decrement.ProductID.String()), slog.Any("error", err))
			metrics.ObserveCheckout(string(models.CheckoutPartialSuccess))
			return &models.CheckoutResult{
				Status:  models.CheckoutPartialSuccess,
				OrderID: order.ID,
				Reason:  "Order was created but the stock update did not complete",
			}, nil
		}
	}

	logger.Info("Direct purchase committed", slog.String("orderId", order.ID.String()))
	metrics.ObserveCheckout(string(models.CheckoutSuccess))

	return &models.CheckoutResult{
		Status:  models.CheckoutSuccess,
		OrderID: order.ID,
	}, nil
}

// resolvePurchaseLine turns a product reference into a one-unit order line.
// A UUID resolves against the local store and carries a stock decrement; a
// numeric reference resolves against the remote catalog and does not.
func (s *CheckoutService) resolvePurchaseLine(ctx context.Context, userID uuid.UUID, productRef string) (*models.CartItem, *repository.StockDecrement, error) {

	if productID, err := uuid.Parse(productRef); err == nil {

		product, err := s.productRepo.GetProductByID(ctx, productID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, nil, apperrors.NotFoundError("Product is no longer available")
			}

			return nil, nil, apperrors.DatabaseError("Failed to load product").WithError(err)
		}

		if product.Rating.Count < 1 {
			return nil, nil, apperrors.InsufficientStockError(fmt.Sprintf("Not enough stock for %q", product.Title))
		}

		line := &models.CartItem{
			UserID:    userID,
			ProductID: product.ID.String(),
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  1,
			SellerID:  product.SellerID.String(),
		}

		return line, &repository.StockDecrement{ProductID: product.ID, Quantity: 1}, nil
	}

	catalogID, err := strconv.Atoi(productRef)
	if err != nil {
		return nil, nil, apperrors.BadRequestError("Invalid product reference")
	}

	product, err := s.catalog.GetProduct(ctx, catalogID)
	if err != nil {
		return nil, nil, apperrors.ThirdPartyError("Failed to load catalog product").WithError(err)
	}

	line := &models.CartItem{
		UserID:      userID,
		ProductID:   strconv.Itoa(product.ID),
		Title:       product.Title,
		Price:       product.Price,
		Image:       product.Image,
		Quantity:    1,
		SellerID:    models.ExternalSellerID,
		FromCatalog: true,
	}

	return line, nil, nil
}

func (s *CheckoutService) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[userID]; busy {
		return false
	}

	s.inFlight[userID] = struct{}{}

	return true
}

func (s *CheckoutService) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, userID)
}

// validateStock pre-checks every locally-owned line against current stock
// and returns the decrements checkout must apply. Catalog lines are skipped:
// their stock is not ours to adjust.
func (s *CheckoutService) validateStock(ctx context.Context, items []models.CartItem) ([]repository.StockDecrement, error) {

	var decrements []repository.StockDecrement

	for i := range items {

		item := &items[i]

		if item.FromCatalog {
			continue
		}

		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperrors.BadRequestError(fmt.Sprintf("Invalid product reference in cart line %q", item.Title)).WithError(err)
		}

		product, err := s.productRepo.GetProductByID(ctx, productID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, apperrors.NotFoundError(fmt.Sprintf("Product %q is no longer available", item.Title))
			}

			return nil, apperrors.DatabaseError("Failed to verify stock").WithError(err)
		}

		if product.Rating.Count < item.Quantity {
			return nil, apperrors.InsufficientStockError(fmt.Sprintf("Not enough stock for %q", item.Title))
		}

		decrements = append(decrements, repository.StockDecrement{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	return decrements, nil
}

// buildOrder snapshots the cart into an order. The seller is taken from the
// first line; carts are not split per seller.
func buildOrder(userID uuid.UUID, items []models.CartItem) *models.Order {

	orderItems := make([]models.OrderItem, 0, len(items))

	var total float64

	for i := range items {

		item := &items[i]

		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			SellerID:  item.SellerID,
		})

		total += item.Subtotal()
	}

	sellerID := models.ExternalSellerID
	if items[0].SellerID != "" {
		sellerID = items[0].SellerID
	}

	return &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		SellerID:      sellerID,
		Items:         orderItems,
		Total:         roundMoney(total),
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodUnspecified,
		CreatedAt:     time.Now().UTC(),
	}
}

// fallbackCommit replays the checkout as individual writes, order first.
// There is no rollback here: once the order insert lands, any later failure
// leaves real partial state, so the outcome is resolved by reconciliation
// rather than guessed.
func (s *CheckoutService) fallbackCommit(ctx context.Context, order *models.Order, decrements []repository.StockDecrement, cartItemIDs []uuid.UUID) (*models.CheckoutResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	startedAt := time.Now()

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		logger.Error("Fallback order insert failed", slog.Any("error", err))
		return s.reconcile(ctx, order.UserID, startedAt, err)
	}

	for _, dec := range decrements {
		if err := s.productRepo.DecrementStock(ctx, dec.ProductID, dec.Quantity); err != nil {
			logger.Error("Fallback stock decrement failed",
				slog.String("productId", dec.ProductID.String()), slog.Any("error", err))
			return s.reconcile(ctx, order.UserID, startedAt, err)
		}
	}

	for _, itemID := range cartItemIDs {
		if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
			logger.Error("Fallback cart delete failed",
				slog.String("itemId", itemID.String()), slog.Any("error", err))
			return s.reconcile(ctx, order.UserID, startedAt, err)
		}
	}

	logger.Info("Checkout committed through fallback", slog.String("orderId", order.ID.String()))

	return &models.CheckoutResult{
		Status:  models.CheckoutSuccess,
		OrderID: order.ID,
		Atomic:  false,
	}, nil
}

// reconcile decides between partial success and failure after the fallback
// broke midway. An order written within the window means the purchase
// happened even if stock or cart cleanup did not.
func (s *CheckoutService) reconcile(ctx context.Context, userID uuid.UUID, startedAt time.Time, cause error) (*models.CheckoutResult, error) {

	logger := middleware.LoggerFromContext(ctx)

	since := startedAt.Add(-reconciliationWindow)

	recent, err := s.orderRepo.FindRecentOrderByUser(ctx, userID, since)
	if err != nil {

		if err == sql.ErrNoRows {
			return nil, s.failureError(cause)
		}

		// The reconciliation query itself failed; the outcome stays unknown
		// and is reported as a failure.
		logger.Error("Reconciliation query failed", slog.Any("error", err))
		return nil, s.failureError(cause)
	}

	logger.Warn("Checkout partially succeeded, order exists but later writes failed",
		slog.String("orderId", recent.ID.String()), slog.Any("cause", cause))

	return &models.CheckoutResult{
		Status:  models.CheckoutPartialSuccess,
		OrderID: recent.ID,
		Atomic:  false,
		Reason:  "Order was created but some cart or stock updates did not complete",
	}, nil
}

func (s *CheckoutService) failureError(cause error) error {

	if repository.IsPermissionDenied(cause) {
		return apperrors.PermissionDeniedError("Purchase rejected by store permissions, contact support").WithError(cause)
	}

	return apperrors.DatabaseError("Checkout failed, no order was created").WithError(cause)
}
