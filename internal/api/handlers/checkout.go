package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mercadito-app/storefront-api/internal/api/middleware"
	"github.com/mercadito-app/storefront-api/internal/models"
	service "github.com/mercadito-app/storefront-api/internal/services"
	"github.com/mercadito-app/storefront-api/internal/utils/response"
	"github.com/mercadito-app/storefront-api/pkg/sendgrid"
)

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	emailService    sendgrid.EmailService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService, emailService sendgrid.EmailService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		emailService:    emailService,
	}
}

// Checkout commits the session user's cart. The route uses optional auth:
// anonymous requests reach the service and come back as a recoverable
// auth_required outcome instead of a flat 401.
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, claims := sessionFromRequest(r)

		result, err := h.checkoutService.Checkout(r.Context(), session)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		h.writeResult(w, logger, claims, result)
	}
}

// BuyNow purchases one unit of the product in the path, skipping the cart.
// Same optional-auth contract as Checkout.
func (h *CheckoutHandler) BuyNow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session, claims := sessionFromRequest(r)

		result, err := h.checkoutService.BuyNow(r.Context(), session, r.PathValue("id"))
		if err != nil {
			logger.Error("Direct purchase failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		h.writeResult(w, logger, claims, result)
	}
}

func sessionFromRequest(r *http.Request) (*models.SessionUser, *models.Claims) {

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		return nil, nil
	}

	return &models.SessionUser{
		ID:        claims.UserID,
		Anonymous: claims.Anonymous,
	}, claims
}

func (h *CheckoutHandler) writeResult(w http.ResponseWriter, logger *slog.Logger, claims *models.Claims, result *models.CheckoutResult) {

	switch result.Status {

	case models.CheckoutSuccess:
		if claims != nil {
			h.sendConfirmation(logger, claims.Email, result)
		}
		response.Success(w, http.StatusCreated, result)

	case models.CheckoutPartialSuccess:
		// The order exists, so this is not reported as an error, but the
		// ambiguity is kept visible in the payload.
		response.Success(w, http.StatusOK, result)

	case models.CheckoutAuthRequired:
		response.WriteJson(w, http.StatusUnauthorized, response.APIResponse{Success: false, Data: result})

	case models.CheckoutEmptyCart:
		response.WriteJson(w, http.StatusBadRequest, response.APIResponse{Success: false, Data: result})

	default:
		response.WriteJson(w, http.StatusInternalServerError, response.APIResponse{Success: false, Data: result})
	}
}

// sendConfirmation fires the order confirmation email without blocking or
// failing the checkout response.
func (h *CheckoutHandler) sendConfirmation(logger *slog.Logger, email string, result *models.CheckoutResult) {

	if h.emailService == nil || email == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req := &sendgrid.EmailRequest{
			To:      email,
			Subject: "Your order is confirmed",
			Content: fmt.Sprintf("Thanks for your purchase! Your order %s is being processed.", result.OrderID),
		}

		if err := h.emailService.Send(ctx, req); err != nil {
			logger.Warn("Order confirmation email failed", slog.Any("error", err))
		}
	}()
}
