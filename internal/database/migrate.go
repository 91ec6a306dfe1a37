package database

import (
	"context"
	"database/sql"
	"fmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(150) NOT NULL DEFAULT '',
		last_name VARCHAR(150) NOT NULL DEFAULT '',
		email VARCHAR(254) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(150) NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at BIGINT NOT NULL,
		revoked_at BIGINT NULL,
		UNIQUE KEY uq_sessions_token_hash (token_hash),
		KEY idx_sessions_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS dealerships (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		full_name VARCHAR(200) NOT NULL,
		short_name VARCHAR(100) NOT NULL DEFAULT '',
		city VARCHAR(100) NOT NULL DEFAULT '',
		address VARCHAR(200) NOT NULL DEFAULT '',
		zip VARCHAR(20) NOT NULL DEFAULT '',
		state VARCHAR(50) NOT NULL DEFAULT '',
		KEY idx_dealerships_state (state)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS car_makes (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS car_models (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		car_make_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(100) NOT NULL,
		body_type VARCHAR(10) NOT NULL DEFAULT 'SUV',
		model_year INT NOT NULL,
		dealer_id BIGINT UNSIGNED NOT NULL DEFAULT 0,
		CONSTRAINT fk_car_models_make FOREIGN KEY (car_make_id) REFERENCES car_makes (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		token_hash TEXT NOT NULL UNIQUE,
		expires_at INTEGER NOT NULL,
		revoked_at INTEGER NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_username ON sessions (username)`,
	`CREATE TABLE IF NOT EXISTS dealerships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		full_name TEXT NOT NULL,
		short_name TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		zip TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dealerships_state ON dealerships (state)`,
	`CREATE TABLE IF NOT EXISTS car_makes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS car_models (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		car_make_id INTEGER NOT NULL REFERENCES car_makes (id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		body_type TEXT NOT NULL DEFAULT 'SUV',
		model_year INTEGER NOT NULL,
		dealer_id INTEGER NOT NULL DEFAULT 0
	)`,
}

// Migrate creates the tables used by the service. Every statement is
// idempotent so it is safe to run on each start.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case "mysql":
		stmts = mysqlSchema
	case "sqlite":
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported db driver %q", driver)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
