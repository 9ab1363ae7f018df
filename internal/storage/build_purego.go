//go:build !cgosqlite
// +build !cgosqlite

package storage

// This file is compiled when building without the cgosqlite tag.
// It uses a pure Go SQLite implementation.
//
// Build command:
//   CGO_ENABLED=0 go build ./...
//
// The pure Go implementation provides:
//   - No C compiler required
//   - Cross-platform compilation
//   - Somewhat slower bulk operations than the C driver
//   - The default for development and most deployments
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)

// connString builds the DSN for path in this driver's parameter syntax.
// The settings ride on the DSN so every pooled connection carries them.
func connString(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}
