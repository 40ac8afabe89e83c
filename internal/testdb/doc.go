// Package testdb provides database fixtures for tests.
//
// NewSQLite gives every test its own migrated database file and needs no
// external services. GetPostgresDBWithT connects to the database named by
// DATABASE_URL and skips the test when it is unset; pair it with WithTx so
// each test's writes are rolled back.
package testdb
