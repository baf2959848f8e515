package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Migration is one versioned schema change
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations returns the postgres schema of the stores service in order
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create stores table",
			SQL: `
				CREATE TABLE IF NOT EXISTS stores (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					name JSONB NOT NULL,
					short_description JSONB NOT NULL,
					long_description JSONB,
					slug VARCHAR(255) NOT NULL,
					cover TEXT,
					logo TEXT,
					phone VARCHAR(64),
					email VARCHAR(255),
					address TEXT,
					country VARCHAR(64),
					default_language VARCHAR(16) NOT NULL,
					slogan TEXT,
					rating DOUBLE PRECISION NOT NULL DEFAULT 0,
					status VARCHAR(32) NOT NULL DEFAULT 'draft',
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT stores_slug_key UNIQUE (slug)
				);

				CREATE INDEX IF NOT EXISTS idx_stores_user_id ON stores(user_id);
			`,
		},
		{
			Version:     2,
			Description: "Create base_products and products tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS base_products (
					id BIGSERIAL PRIMARY KEY,
					store_id BIGINT NOT NULL REFERENCES stores(id),
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					name JSONB NOT NULL,
					short_description JSONB NOT NULL,
					long_description JSONB,
					seo_title JSONB,
					category_id BIGINT NOT NULL,
					views BIGINT NOT NULL DEFAULT 0,
					rating DOUBLE PRECISION NOT NULL DEFAULT 0,
					slug VARCHAR(255),
					status VARCHAR(32) NOT NULL DEFAULT 'draft',
					currency VARCHAR(8) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_base_products_store_id ON base_products(store_id);

				CREATE TABLE IF NOT EXISTS products (
					id BIGSERIAL PRIMARY KEY,
					base_product_id BIGINT NOT NULL REFERENCES base_products(id),
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					discount DOUBLE PRECISION,
					photo_main TEXT,
					additional_photos JSONB NOT NULL DEFAULT '[]',
					vendor_code VARCHAR(255) NOT NULL,
					cashback DOUBLE PRECISION,
					price DOUBLE PRECISION NOT NULL,
					currency VARCHAR(8) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_products_base_product_id ON products(base_product_id);
			`,
		},
		{
			Version:     3,
			Description: "Create attributes and categories tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS attributes (
					id BIGSERIAL PRIMARY KEY,
					name JSONB NOT NULL,
					value_type VARCHAR(16) NOT NULL,
					meta_field JSONB
				);

				CREATE TABLE IF NOT EXISTS prod_attr_values (
					id BIGSERIAL PRIMARY KEY,
					prod_id BIGINT NOT NULL REFERENCES products(id),
					base_prod_id BIGINT NOT NULL REFERENCES base_products(id),
					attr_id BIGINT NOT NULL REFERENCES attributes(id),
					value TEXT NOT NULL,
					value_type VARCHAR(16) NOT NULL
				);

				CREATE INDEX IF NOT EXISTS idx_prod_attr_values_prod_id ON prod_attr_values(prod_id);

				CREATE TABLE IF NOT EXISTS categories (
					id BIGSERIAL PRIMARY KEY,
					name JSONB NOT NULL,
					parent_id BIGINT REFERENCES categories(id),
					level INT NOT NULL,
					meta_field JSONB
				);

				CREATE TABLE IF NOT EXISTS cat_attr_values (
					id BIGSERIAL PRIMARY KEY,
					cat_id BIGINT NOT NULL REFERENCES categories(id),
					attr_id BIGINT NOT NULL REFERENCES attributes(id),
					UNIQUE (cat_id, attr_id)
				);

				CREATE TABLE IF NOT EXISTS custom_attributes (
					id BIGSERIAL PRIMARY KEY,
					base_product_id BIGINT NOT NULL REFERENCES base_products(id),
					attribute_id BIGINT NOT NULL REFERENCES attributes(id)
				);
			`,
		},
		{
			Version:     4,
			Description: "Create user_roles table",
			SQL: `
				CREATE TABLE IF NOT EXISTS user_roles (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					name VARCHAR(32) NOT NULL,
					created_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT user_roles_user_id_name_key UNIQUE (user_id, name)
				);
			`,
		},
		{
			Version:     5,
			Description: "Create moderation, wizard, exchange and coupon tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS moderator_product_comments (
					id BIGSERIAL PRIMARY KEY,
					moderator_id BIGINT NOT NULL,
					base_product_id BIGINT NOT NULL REFERENCES base_products(id),
					comments TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL
				);

				CREATE TABLE IF NOT EXISTS moderator_store_comments (
					id BIGSERIAL PRIMARY KEY,
					moderator_id BIGINT NOT NULL,
					store_id BIGINT NOT NULL REFERENCES stores(id),
					comments TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL
				);

				CREATE TABLE IF NOT EXISTS wizard_stores (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					store_id BIGINT REFERENCES stores(id),
					name TEXT,
					short_description TEXT,
					default_language VARCHAR(16),
					slug VARCHAR(255),
					country VARCHAR(64),
					address TEXT,
					completed BOOLEAN NOT NULL DEFAULT FALSE,
					CONSTRAINT wizard_stores_user_id_key UNIQUE (user_id)
				);

				CREATE TABLE IF NOT EXISTS currency_exchange (
					id BIGSERIAL PRIMARY KEY,
					data JSONB NOT NULL,
					created_at TIMESTAMPTZ NOT NULL
				);

				CREATE TABLE IF NOT EXISTS coupons (
					id BIGSERIAL PRIMARY KEY,
					code VARCHAR(32) NOT NULL,
					title TEXT NOT NULL,
					store_id BIGINT NOT NULL REFERENCES stores(id),
					scope VARCHAR(32) NOT NULL,
					percent INT NOT NULL CHECK (percent > 0 AND percent <= 100),
					quantity INT NOT NULL DEFAULT 0,
					expired_at TIMESTAMPTZ,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL,
					CONSTRAINT coupons_code_key UNIQUE (code)
				);
			`,
		},
		{
			Version:     6,
			Description: "Create coupon scope, coupon usage and attribute value tables",
			SQL: `
				CREATE TABLE IF NOT EXISTS coupon_scope_base_products (
					id BIGSERIAL PRIMARY KEY,
					coupon_id BIGINT NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
					base_product_id BIGINT NOT NULL REFERENCES base_products(id),
					CONSTRAINT coupon_scope_base_products_key UNIQUE (coupon_id, base_product_id)
				);

				CREATE TABLE IF NOT EXISTS used_coupons (
					coupon_id BIGINT NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL,
					PRIMARY KEY (coupon_id, user_id)
				);

				CREATE TABLE IF NOT EXISTS attribute_values (
					id BIGSERIAL PRIMARY KEY,
					attr_id BIGINT NOT NULL REFERENCES attributes(id),
					code VARCHAR(255) NOT NULL,
					translates JSONB,
					CONSTRAINT attribute_values_attr_id_code_key UNIQUE (attr_id, code)
				);
			`,
		},
	}
}

// RunMigrations applies every pending migration, each in its own transaction
func RunMigrations(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stores_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range Migrations() {
		if applied[m.Version] {
			continue
		}

		log.WithField("version", m.Version).Infof("running migration: %s", m.Description)
		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO stores_migrations (version, description) VALUES ($1, $2)", m.Version, m.Description)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM stores_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}
