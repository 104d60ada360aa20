// Package sqlite provides the SQLite-backed chat log.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It persists question and answer exchanges only; chunks and vectors
// always live in memory.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/chatlog.db
package sqlite
