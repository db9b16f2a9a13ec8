// Package domain defines the core interfaces and types for the food wastage portal.
package domain

import (
	"context"
	"time"
)

// Repository defines the data access contract of the portal.
//
// Every method is a single statement against the store. Writes auto-commit and
// are not coordinated with each other: concurrent Update and Delete calls on
// the same id are last-writer-wins.
type Repository interface {
	// Providers
	ListProviders(ctx context.Context) ([]Provider, error)
	AddProvider(ctx context.Context, in ProviderInput) error
	UpdateProvider(ctx context.Context, id int64, in ProviderInput) error
	DeleteProvider(ctx context.Context, id int64) error

	// Receivers
	ListReceivers(ctx context.Context) ([]Receiver, error)
	AddReceiver(ctx context.Context, in ReceiverInput) error
	UpdateReceiver(ctx context.Context, id int64, in ReceiverInput) error
	DeleteReceiver(ctx context.Context, id int64) error

	// Read-only tables
	ListFoodListings(ctx context.Context) ([]FoodListing, error)
	ListClaims(ctx context.Context) ([]Claim, error)

	// Search and analytics
	SearchFood(ctx context.Context, f FoodFilter) ([]FoodSearchRow, error)
	RunReport(ctx context.Context, r Report) (*ReportResult, error)
	RunAllReports(ctx context.Context) ([]*ReportResult, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
	Contacts(ctx context.Context, kind ContactKind) ([]Contact, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// RepositoryConfig holds configuration for repository initialization.
type RepositoryConfig struct {
	// Driver is the database driver: "sqlite" or "postgres"
	Driver string `koanf:"driver" json:"driver" validate:"required,oneof=sqlite postgres"`

	// SQLite specific
	SQLitePath string `koanf:"sqlite_path" json:"sqlitePath"`

	// PostgreSQL specific
	PostgresHost     string `koanf:"postgres_host" json:"postgresHost"`
	PostgresPort     int    `koanf:"postgres_port" json:"postgresPort" validate:"gte=0,lte=65535"`
	PostgresUser     string `koanf:"postgres_user" json:"postgresUser"`
	PostgresPassword string `koanf:"postgres_password" json:"-"`
	PostgresDB       string `koanf:"postgres_db" json:"postgresDb"`
	PostgresSSLMode  string `koanf:"postgres_sslmode" json:"postgresSslMode"`

	// Connection pool settings
	MaxOpenConns    int           `koanf:"max_open_conns" json:"maxOpenConns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" json:"maxIdleConns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" json:"connMaxLifetime"`
}
