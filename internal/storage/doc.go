// Package storage persists the project registry in SQLite.
//
// The registry is deliberately small: one row per registered repository
// carrying its identity (UUID, unique name), origin URL and the coarse
// pipeline status (pending, analyzing, generated, failed). Everything
// heavyweight (vectors, chunk metadata, generated pages) lives on the
// filesystem under the data directory, keyed by the project UUID.
//
// Two interchangeable SQLite drivers are selected by build tag: the pure Go
// modernc.org/sqlite driver by default, or mattn/go-sqlite3 with the
// sqlite_cgo tag when CGO is available. Schema changes go through versioned
// migrations in migrations.go.
package storage
