// Package store defines interfaces for data persistence operations.
// The PostgreSQL and SQLite packages under internal/platform implement them;
// services depend only on these interfaces and on RunInTransaction.
package store
