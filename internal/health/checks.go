package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/mercadito-app/storefront-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// Endpoints carries the live connection handles the checks ping, so the
// health endpoint reports on the pools the service actually uses instead
// of opening fresh ones.
type Endpoints struct {
	DB          *sql.DB
	RedisClient *redis.Client
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{

			Name:    "storefront-api",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: func(ctx context.Context) error {

					if err := endpoints.DB.PingContext(ctx); err != nil {
						return fmt.Errorf("failed to ping database: %w", err)
					}

					return nil
				},
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: func(ctx context.Context) error {

					if err := endpoints.RedisClient.Ping(ctx).Err(); err != nil {
						return fmt.Errorf("failed to ping redis: %w", err)
					}

					return nil
				},
			},
			health.Config{
				Name:      "catalog",
				Timeout:   5 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {

					req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Catalog.BaseURL+"/products/1", nil)
					if err != nil {
						return fmt.Errorf("failed to build catalog health request: %w", err)
					}

					resp, err := http.DefaultClient.Do(req)
					if err != nil {
						return fmt.Errorf("failed to connect to catalog: %w", err)
					}
					defer resp.Body.Close()

					if resp.StatusCode >= http.StatusInternalServerError {
						return fmt.Errorf("catalog returned status %d", resp.StatusCode)
					}

					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
