package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/leafchain/leafchain-api/internal/config"
)

// Database represents a database connection
type Database struct {
	db *sqlx.DB
}

// NewDatabase creates a new database connection
func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	// Build the connection string
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)

	// Connect to the database
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Check the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the sqlx.DB instance
func (d *Database) GetDB() *sqlx.DB {
	return d.db
}

// Transaction executes a function within a transaction
func (d *Database) Transaction(fn func(*sqlx.Tx) error) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// EnsureSchema creates the base tables and the token id sequence if they do
// not exist. Collections carry derived counters only and can be rebuilt from
// nfts + trades.
func (d *Database) EnsureSchema(tokenIDBase int64) error {
	schema := []string{
		fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS plant_nft_token_seq START WITH %d`, tokenIDBase+1),
		`CREATE TABLE IF NOT EXISTS nfts (
			id TEXT PRIMARY KEY,
			token_id BIGINT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			species_name TEXT NOT NULL,
			common_name TEXT NOT NULL DEFAULT '',
			plant_type TEXT NOT NULL DEFAULT '',
			impact JSONB NOT NULL,
			metadata JSONB NOT NULL,
			ownership JSONB NOT NULL,
			chain JSONB NOT NULL DEFAULT '[]',
			market JSONB,
			version BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			token_id BIGINT NOT NULL,
			from_address TEXT NOT NULL,
			to_address TEXT NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			currency TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			tx_hash TEXT NOT NULL,
			marketplace_fee DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			total_supply BIGINT NOT NULL DEFAULT 0,
			minted_count BIGINT NOT NULL DEFAULT 0,
			floor_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			average_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_volume DOUBLE PRECISION NOT NULL DEFAULT 0,
			trade_count BIGINT NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			contract_address TEXT NOT NULL DEFAULT '',
			owner_address TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range schema {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
