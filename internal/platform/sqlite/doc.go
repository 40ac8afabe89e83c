// Package sqlite implements the store interfaces on an embedded SQLite
// database using the pure-Go modernc.org/sqlite driver.
//
// Identifiers are stored as TEXT and timestamps as INTEGER microseconds since
// the Unix epoch, so ORDER BY created_at sorts chronologically.
//
// Open limits the pool to a single connection. Code running inside
// store.RunInTransaction must use stores obtained through WithTx; touching the
// pool directly while a transaction is open blocks forever.
package sqlite
