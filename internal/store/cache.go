// Package store provides a SQLite-backed cache for the normalized budget table.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"orcaview/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	path       TEXT PRIMARY KEY,
	sha256     TEXT NOT NULL,
	mtime_ns   INTEGER NOT NULL,
	size_bytes INTEGER NOT NULL,
	loaded_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	source_path          TEXT NOT NULL,
	year                 INTEGER NOT NULL,
	action_code          TEXT NOT NULL,
	action_name          TEXT NOT NULL,
	program_code         TEXT NOT NULL,
	program_name         TEXT NOT NULL,
	expense_group_code   TEXT NOT NULL,
	result_category_code TEXT NOT NULL,
	result_category_name TEXT NOT NULL,
	funding_source_code  TEXT NOT NULL,
	work_program_code    TEXT NOT NULL,
	allocation           TEXT NOT NULL,
	committed            TEXT NOT NULL,
	settled              TEXT NOT NULL,
	paid                 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_source ON records(source_path);

CREATE TABLE IF NOT EXISTS warnings (
	source_path TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	message     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_warnings_source ON warnings(source_path);
`

// Cache stores normalized tables keyed on source identity so repeated
// interactions do not re-parse the spreadsheet.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SourceInfo identifies the cached content of a source file.
type SourceInfo struct {
	SHA256    string
	MtimeNs   int64
	SizeBytes int64
}

// LookupSource returns the tracked identity for path, or nil when untracked.
func (c *Cache) LookupSource(path string) (*SourceInfo, error) {
	var info SourceInfo
	err := c.db.QueryRow(
		"SELECT sha256, mtime_ns, size_bytes FROM sources WHERE path = ?", path,
	).Scan(&info.SHA256, &info.MtimeNs, &info.SizeBytes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// SaveTable replaces the cached table for path in a single transaction.
// Derived balances are not stored; they are recomputed on load so they can
// never drift from the base fields.
func (c *Cache) SaveTable(path, sha256 string, mtimeNs, sizeBytes int64, recs []model.Record, warnings []string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM records WHERE source_path = ?", path); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM warnings WHERE source_path = ?", path); err != nil {
		return err
	}

	ins, err := tx.Prepare(`INSERT INTO records
		(source_path, year, action_code, action_name, program_code, program_name,
		 expense_group_code, result_category_code, result_category_name,
		 funding_source_code, work_program_code, allocation, committed, settled, paid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = ins.Close() }()

	for _, r := range recs {
		_, err := ins.Exec(
			path, r.Year, r.ActionCode, r.ActionName, r.ProgramCode, r.ProgramName,
			r.ExpenseGroupCode, r.ResultCategoryCode, r.ResultCategoryName,
			r.FundingSourceCode, r.WorkProgramCode,
			r.Allocation.String(), r.Committed.String(), r.Settled.String(), r.Paid.String(),
		)
		if err != nil {
			return err
		}
	}

	for i, w := range warnings {
		if _, err := tx.Exec(
			"INSERT INTO warnings (source_path, seq, message) VALUES (?, ?, ?)",
			path, i, w,
		); err != nil {
			return err
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`INSERT OR REPLACE INTO sources (path, sha256, mtime_ns, size_bytes, loaded_at)
		VALUES (?, ?, ?, ?, ?)`, path, sha256, mtimeNs, sizeBytes, now); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadTable reads the cached table and its ingestion warnings for path.
func (c *Cache) LoadTable(path string) ([]model.Record, []string, error) {
	rows, err := c.db.Query(`SELECT
		year, action_code, action_name, program_code, program_name,
		expense_group_code, result_category_code, result_category_name,
		funding_source_code, work_program_code, allocation, committed, settled, paid
		FROM records WHERE source_path = ? ORDER BY rowid`, path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []model.Record
	for rows.Next() {
		var r model.Record
		var allocation, committed, settled, paid string
		err := rows.Scan(
			&r.Year, &r.ActionCode, &r.ActionName, &r.ProgramCode, &r.ProgramName,
			&r.ExpenseGroupCode, &r.ResultCategoryCode, &r.ResultCategoryName,
			&r.FundingSourceCode, &r.WorkProgramCode,
			&allocation, &committed, &settled, &paid,
		)
		if err != nil {
			return nil, nil, err
		}
		if r.Allocation, err = decimal.NewFromString(allocation); err != nil {
			return nil, nil, fmt.Errorf("cached allocation %q: %w", allocation, err)
		}
		if r.Committed, err = decimal.NewFromString(committed); err != nil {
			return nil, nil, fmt.Errorf("cached committed %q: %w", committed, err)
		}
		if r.Settled, err = decimal.NewFromString(settled); err != nil {
			return nil, nil, fmt.Errorf("cached settled %q: %w", settled, err)
		}
		if r.Paid, err = decimal.NewFromString(paid); err != nil {
			return nil, nil, fmt.Errorf("cached paid %q: %w", paid, err)
		}
		r.Derive()
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var warnings []string
	wrows, err := c.db.Query("SELECT message FROM warnings WHERE source_path = ? ORDER BY seq", path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = wrows.Close() }()
	for wrows.Next() {
		var msg string
		if err := wrows.Scan(&msg); err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, msg)
	}

	return recs, warnings, wrows.Err()
}

// DeleteSource removes a cached table and its tracking row.
func (c *Cache) DeleteSource(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, q := range []string{
		"DELETE FROM records WHERE source_path = ?",
		"DELETE FROM warnings WHERE source_path = ?",
		"DELETE FROM sources WHERE path = ?",
	} {
		if _, err := tx.Exec(q, path); err != nil {
			return err
		}
	}
	return tx.Commit()
}
