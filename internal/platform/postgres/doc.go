// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, using the pgx
// database/sql driver. It also owns the embedded goose migrations for the
// PostgreSQL schema.
package postgres
