// Package repostest provides an in-memory SQLite database carrying the stores
// schema for repository and service tests.
package repostest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Schema mirrors the postgres migrations with SQLite types
const Schema = `
	CREATE TABLE stores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		name TEXT NOT NULL,
		short_description TEXT NOT NULL,
		long_description TEXT,
		slug TEXT NOT NULL UNIQUE,
		cover TEXT,
		logo TEXT,
		phone TEXT,
		email TEXT,
		address TEXT,
		country TEXT,
		default_language TEXT NOT NULL,
		slogan TEXT,
		rating REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE base_products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		store_id INTEGER NOT NULL REFERENCES stores(id),
		is_active BOOLEAN NOT NULL DEFAULT 1,
		name TEXT NOT NULL,
		short_description TEXT NOT NULL,
		long_description TEXT,
		seo_title TEXT,
		category_id INTEGER NOT NULL,
		views INTEGER NOT NULL DEFAULT 0,
		rating REAL NOT NULL DEFAULT 0,
		slug TEXT,
		status TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_product_id INTEGER NOT NULL REFERENCES base_products(id),
		is_active BOOLEAN NOT NULL DEFAULT 1,
		discount REAL,
		photo_main TEXT,
		additional_photos TEXT NOT NULL DEFAULT '[]',
		vendor_code TEXT NOT NULL,
		cashback REAL,
		price REAL NOT NULL,
		currency TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE attributes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		value_type TEXT NOT NULL,
		meta_field TEXT
	);

	CREATE TABLE prod_attr_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prod_id INTEGER NOT NULL,
		base_prod_id INTEGER NOT NULL,
		attr_id INTEGER NOT NULL,
		value TEXT NOT NULL,
		value_type TEXT NOT NULL
	);

	CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		parent_id INTEGER,
		level INTEGER NOT NULL,
		meta_field TEXT
	);

	CREATE TABLE cat_attr_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cat_id INTEGER NOT NULL,
		attr_id INTEGER NOT NULL
	);

	CREATE TABLE custom_attributes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_product_id INTEGER NOT NULL,
		attribute_id INTEGER NOT NULL
	);

	CREATE TABLE user_roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE (user_id, name)
	);

	CREATE TABLE moderator_product_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		moderator_id INTEGER NOT NULL,
		base_product_id INTEGER NOT NULL,
		comments TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE moderator_store_comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		moderator_id INTEGER NOT NULL,
		store_id INTEGER NOT NULL,
		comments TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE wizard_stores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL UNIQUE,
		store_id INTEGER,
		name TEXT,
		short_description TEXT,
		default_language TEXT,
		slug TEXT,
		country TEXT,
		address TEXT,
		completed BOOLEAN NOT NULL DEFAULT 0
	);

	CREATE TABLE currency_exchange (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE coupons (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		code TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		store_id INTEGER NOT NULL,
		scope TEXT NOT NULL,
		percent INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0,
		expired_at TIMESTAMP,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE coupon_scope_base_products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		coupon_id INTEGER NOT NULL,
		base_product_id INTEGER NOT NULL,
		UNIQUE (coupon_id, base_product_id)
	);

	CREATE TABLE used_coupons (
		coupon_id INTEGER NOT NULL,
		user_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (coupon_id, user_id)
	);

	CREATE TABLE attribute_values (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		attr_id INTEGER NOT NULL,
		code TEXT NOT NULL,
		translates TEXT,
		UNIQUE (attr_id, code)
	);
`

// NewDB opens a fresh database with Schema applied. It is closed when t ends.
func NewDB(t testing.TB) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	_, err = db.Exec(Schema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}
