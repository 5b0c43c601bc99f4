package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pricescout/pricescout/internal/model"
)

// dbFileName is the SQLite file created inside the data directory.
const dbFileName = "pricescout.db"

// HistoryDB provides SQLite-based storage for past searches and their
// ranked offers.
//
// Design decision: one database file for all searches rather than one
// per query. Price history across searches is the point of keeping the
// data, and cross-search queries need a single file.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the given directory.
// With CreateIfNotExists unset, a missing database is an error rather
// than an empty store.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; one connection avoids lock
	// contention entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per completed search
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		country TEXT NOT NULL,
		currency TEXT,
		total_results INTEGER NOT NULL,
		search_time REAL NOT NULL,
		sources_used TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_searches_query ON searches(query);
	CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at);

	-- Ranked offers belonging to a search
	CREATE TABLE IF NOT EXISTS offers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		search_id INTEGER NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
		rank INTEGER NOT NULL,
		product_name TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT,
		source TEXT NOT NULL,
		link TEXT,
		similarity REAL
	);

	CREATE INDEX IF NOT EXISTS idx_offers_search ON offers(search_id);
	CREATE INDEX IF NOT EXISTS idx_offers_product ON offers(product_name);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SearchRecord is one stored search with optional offers.
type SearchRecord struct {
	ID           int64
	Query        string
	Country      string
	Currency     string
	TotalResults int
	SearchTime   float64
	SourcesUsed  []string
	CreatedAt    time.Time

	// Offers is populated by GetSearch, not by ListSearches.
	Offers []OfferRecord
}

// OfferRecord is one stored ranked offer.
type OfferRecord struct {
	ID          int64
	SearchID    int64
	Rank        int
	ProductName string
	Price       string
	Currency    string
	Source      string
	Link        string
	Similarity  float64
}

// SaveSearch persists a completed search and its ranked offers in one
// transaction. Returns the new search id.
func (hdb *HistoryDB) SaveSearch(ctx context.Context, resp *model.SearchResponse) (int64, error) {
	sourcesJSON, err := json.Marshal(resp.SourcesUsed)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize sources: %w", err)
	}

	currency := ""
	if len(resp.Results) > 0 {
		currency = resp.Results[0].Currency
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO searches (query, country, currency, total_results, search_time, sources_used)
	VALUES (?, ?, ?, ?, ?, ?)`,
		resp.Query,
		resp.Country,
		currency,
		resp.TotalResults,
		resp.SearchTime,
		string(sourcesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert search: %w", err)
	}

	searchID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read search id: %w", err)
	}

	for _, item := range resp.Results {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO offers (search_id, rank, product_name, price, currency, source, link, similarity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			searchID,
			item.Rank,
			item.ProductName,
			item.Price,
			item.Currency,
			item.Source,
			item.Link,
			item.SimilarityScore,
		); err != nil {
			return 0, fmt.Errorf("failed to insert offer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit search: %w", err)
	}
	return searchID, nil
}

// ListSearches returns stored searches, most recent first, up to limit.
// A non-positive limit returns everything.
func (hdb *HistoryDB) ListSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	query := `
	SELECT id, query, country, currency, total_results, search_time, sources_used, created_at
	FROM searches
	ORDER BY created_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list searches: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var records []SearchRecord
	for rows.Next() {
		record, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetSearch retrieves one stored search with its offers.
// Returns nil when the id is unknown.
func (hdb *HistoryDB) GetSearch(ctx context.Context, id int64) (*SearchRecord, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, query, country, currency, total_results, search_time, sources_used, created_at
	FROM searches
	WHERE id = ?`, id)

	record, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, search_id, rank, product_name, price, currency, source, link, similarity
	FROM offers
	WHERE search_id = ?
	ORDER BY rank ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var offer OfferRecord
		if err := rows.Scan(
			&offer.ID,
			&offer.SearchID,
			&offer.Rank,
			&offer.ProductName,
			&offer.Price,
			&offer.Currency,
			&offer.Source,
			&offer.Link,
			&offer.Similarity,
		); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		record.Offers = append(record.Offers, offer)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &record, nil
}

// scanner abstracts sql.Row and sql.Rows for scanSearch.
type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(s scanner) (SearchRecord, error) {
	var (
		record      SearchRecord
		sourcesJSON string
		createdAt   string
	)
	if err := s.Scan(
		&record.ID,
		&record.Query,
		&record.Country,
		&record.Currency,
		&record.TotalResults,
		&record.SearchTime,
		&sourcesJSON,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, err
		}
		return record, fmt.Errorf("failed to scan search: %w", err)
	}

	record.CreatedAt = parseTimestamp(createdAt)
	if sourcesJSON != "" {
		if err := json.Unmarshal([]byte(sourcesJSON), &record.SourcesUsed); err != nil {
			return record, fmt.Errorf("failed to parse sources: %w", err)
		}
	}
	return record, nil
}

// timestampFormats contains the timestamp formats SQLite may return.
// Order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp parses a timestamp string using multiple formats.
// SQLite returns different formats depending on configuration; an
// unparseable value degrades to the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
