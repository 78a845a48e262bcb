package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Statements use only types and clauses shared by PostgreSQL and SQLite so the
// repositories can be exercised against an in-memory database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(64) PRIMARY KEY,
		restaurant_id VARCHAR(64) NOT NULL,
		category_id VARCHAR(64),
		sku VARCHAR(128) NOT NULL,
		barcode VARCHAR(128),
		name TEXT NOT NULL,
		description TEXT,
		base_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		cost_price DOUBLE PRECISION,
		tax_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
		has_variants BOOLEAN NOT NULL DEFAULT FALSE,
		track_inventory BOOLEAN NOT NULL DEFAULT FALSE,
		image_url TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		attributes TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_restaurant ON products (restaurant_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_products_restaurant_sku ON products (restaurant_id, sku)`,
	`CREATE TABLE IF NOT EXISTS product_variations (
		id VARCHAR(64) PRIMARY KEY,
		product_id VARCHAR(64) NOT NULL REFERENCES products (id) ON DELETE CASCADE,
		key_tuple TEXT NOT NULL DEFAULT '{}',
		attribute_hash VARCHAR(64) NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		sku VARCHAR(128) NOT NULL DEFAULT '',
		price VARCHAR(32) NOT NULL DEFAULT '',
		sale_price VARCHAR(32) NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		is_virtual BOOLEAN NOT NULL DEFAULT FALSE,
		downloadable BOOLEAN NOT NULL DEFAULT FALSE,
		manage_stock BOOLEAN NOT NULL DEFAULT TRUE,
		weight VARCHAR(32) NOT NULL DEFAULT '',
		dimensions TEXT NOT NULL DEFAULT '{}',
		image TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_variations_product ON product_variations (product_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_product_variations_hash ON product_variations (product_id, attribute_hash)`,
	`CREATE TABLE IF NOT EXISTS global_attributes (
		id VARCHAR(64) PRIMARY KEY,
		restaurant_id VARCHAR(64) NOT NULL,
		name VARCHAR(128) NOT NULL,
		attr_values TEXT NOT NULL DEFAULT '[]',
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_global_attributes_name ON global_attributes (restaurant_id, name)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id VARCHAR(64) PRIMARY KEY,
		restaurant_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		variation_id VARCHAR(64) NOT NULL,
		movement_type VARCHAR(32) NOT NULL,
		quantity_change INTEGER NOT NULL,
		quantity_before INTEGER NOT NULL,
		quantity_after INTEGER NOT NULL,
		reference_type VARCHAR(32),
		reference_id VARCHAR(64),
		notes TEXT NOT NULL DEFAULT '',
		created_by VARCHAR(64),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stock_movements_variation ON stock_movements (restaurant_id, variation_id, created_at)`,
}

// Migrate creates missing tables and indexes. It is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
