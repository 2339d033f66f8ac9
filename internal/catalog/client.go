package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mercadito-app/storefront-api/internal/api/middleware"
	"github.com/mercadito-app/storefront-api/internal/cache"
	"github.com/mercadito-app/storefront-api/internal/config"
	"github.com/mercadito-app/storefront-api/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client reads products from the remote catalog API. The catalog is
// read-only: its listings never carry seller accounts or stock counts
// we manage.
type Client interface {
	ListProducts(ctx context.Context) ([]models.CatalogProduct, error)
	GetProduct(ctx context.Context, id int) (*models.CatalogProduct, error)
}

type client struct {
	httpClient *http.Client
	baseURL    string
	cache      cache.Cache
	ttl        time.Duration
}

func NewClient(cfg *config.Config, c cache.Cache) Client {
	return &client{
		httpClient: &http.Client{
			Timeout:   cfg.Catalog.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.Catalog.BaseURL,
		cache:   c,
		ttl:     cfg.Cache.CatalogTTL,
	}
}

func (c *client) ListProducts(ctx context.Context) ([]models.CatalogProduct, error) {

	logger := middleware.LoggerFromContext(ctx)

	cacheKey := cache.Key(cache.CatalogKeyPrefix, "all")

	var products []models.CatalogProduct

	if c.cache != nil {
		found, err := c.cache.Get(ctx, cacheKey, &products)
		if err != nil {
			logger.Warn("Catalog cache lookup failed", slog.Any("error", err))
		}
		if found {
			return products, nil
		}
	}

	if err := c.getJSON(ctx, c.baseURL+"/products", &products); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, products, c.ttl); err != nil {
			logger.Warn("Failed to cache catalog listing", slog.Any("error", err))
		}
	}

	return products, nil
}

func (c *client) GetProduct(ctx context.Context, id int) (*models.CatalogProduct, error) {

	logger := middleware.LoggerFromContext(ctx)

	cacheKey := cache.Key(cache.CatalogKeyPrefix, strconv.Itoa(id))

	var product models.CatalogProduct

	if c.cache != nil {
		found, err := c.cache.Get(ctx, cacheKey, &product)
		if err != nil {
			logger.Warn("Catalog cache lookup failed", slog.Any("error", err))
		}
		if found {
			return &product, nil
		}
	}

	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	if err := c.getJSON(ctx, url, &product); err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, product, c.ttl); err != nil {
			logger.Warn("Failed to cache catalog product", slog.Any("error", err))
		}
	}

	return &product, nil
}

func (c *client) getJSON(ctx context.Context, url string, dest any) error {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}

	return nil
}
