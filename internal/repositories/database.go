package repository

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/mercadito-app/storefront-api/internal/config"

	_ "github.com/lib/pq"
)

// Repos bundles every store-backed repository behind a single handle so the
// wiring in main stays flat.
type Repos struct {
	DB       *sql.DB
	User     UserRepository
	Product  ProductRepository
	Cart     CartRepository
	Order    OrderRepository
	Checkout CheckoutRepository
}

func New(cfg *config.Config) (*Repos, error) {

	driverName, err := otelsql.Register("postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to register traced driver: %w", err)
	}

	db, err := sql.Open(driverName, cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	// Test the connection to make sure DB is reachable
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Repos{
		DB:       db,
		User:     NewUserRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Order:    NewOrderRepo(db),
		Checkout: NewCheckoutRepo(db),
	}, nil
}

func (r *Repos) Close() error {
	return r.DB.Close()
}
