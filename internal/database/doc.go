// Package database stores search history in a local SQLite database.
//
// Every completed search can be persisted with its ranked offers, so
// past prices remain queryable after the fact. The store uses the pure
// Go modernc.org/sqlite driver; no cgo and no external daemon.
package database
