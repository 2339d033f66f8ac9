package handlers

import (
	"net/http"
	"strconv"

	"github.com/mercadito-app/storefront-api/internal/api/middleware"
	"github.com/mercadito-app/storefront-api/internal/errors"
	"github.com/mercadito-app/storefront-api/internal/models"
	"github.com/mercadito-app/storefront-api/internal/utils/response"
)

// currentClaims pulls the authenticated claims set by the auth middleware.
// Writes the error response itself when the request is anonymous.
func currentClaims(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, false
	}

	return claims, true
}

// pagination reads page/size query parameters with sane bounds.
func pagination(r *http.Request) (page, size int) {

	page, size = 1, 20

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	if s, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && s > 0 && s <= 100 {
		size = s
	}

	return page, size
}
