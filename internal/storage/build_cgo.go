//go:build cgosqlite
// +build cgosqlite

package storage

// This file is compiled when building with CGO and the cgosqlite tag.
// It selects the C SQLite driver.
//
// Build command:
//   CGO_ENABLED=1 go build -tags "cgosqlite" ./...
//
// The CGO driver provides:
//   - The mature C SQLite implementation
//   - Faster bulk inserts and lookups on large stores
//   - Requires a C compiler on the build host
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)

// connString builds the DSN for path in this driver's parameter syntax.
// The settings ride on the DSN so every pooled connection carries them.
func connString(path string) string {
	return path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=1"
}
