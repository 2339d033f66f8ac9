package catalog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mercadito-app/storefront-api/internal/catalog"
	"github.com/mercadito-app/storefront-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) catalog.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Catalog.BaseURL = server.URL
	cfg.Catalog.Timeout = 2 * time.Second
	cfg.Cache.CatalogTTL = time.Minute

	return catalog.NewClient(cfg, nil)
}

func TestListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":3,"title":"Catalog backpack","price":5.25,"rating":{"rate":4.1,"count":120}}]`))
		})

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, 3, products[0].ID)
		assert.Equal(t, "Catalog backpack", products[0].Title)
		assert.Equal(t, 120, products[0].Rating.Count)
	})

	t.Run("Failure - Upstream Error", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		// Act
		products, err := client.ListProducts(ctx)

		// Assert
		require.Error(t, err)
		assert.Nil(t, products)
		assert.ErrorContains(t, err, "status 502")
	})

	t.Run("Failure - Malformed Body", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{not json`))
		})

		// Act
		_, err := client.ListProducts(ctx)

		// Assert
		require.Error(t, err)
		assert.ErrorContains(t, err, "decode")
	})
}

func TestGetProduct(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/3", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":3,"title":"Catalog backpack","price":5.25}`))
		})

		// Act
		product, err := client.GetProduct(ctx, 3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 3, product.ID)
		assert.Equal(t, 5.25, product.Price)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		// Act
		product, err := client.GetProduct(ctx, 999)

		// Assert
		require.Error(t, err)
		assert.Nil(t, product)
	})
}
