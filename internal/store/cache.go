// Package store provides a SQLite-backed cache for parsed data files.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/my2ndangelic/mapletrack/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Cache provides SQLite-backed parse caching keyed by file path.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
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

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// Entry is one cached parse.
type Entry struct {
	Path     string
	Name     string
	Kind     string
	Format   string
	Data     *model.Dataset
	Warnings []string
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveEntry stores a parsed file and its tracking info.
func (c *Cache) SaveEntry(e Entry, mtimeNs, sizeBytes int64) error {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", e.Name, err)
	}
	warnings, err := json.Marshal(e.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings for %s: %w", e.Name, err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO parsed_files
		(file_path, file_name, kind, format, payload, warnings, file_mtime_ns, file_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Path, e.Name, e.Kind, e.Format, string(payload), string(warnings), mtimeNs, sizeBytes, now,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM file_accounts WHERE file_path = ?", e.Path)
	if err != nil {
		return err
	}
	if e.Data != nil {
		for _, a := range e.Data.Accounts {
			_, err = tx.Exec(`INSERT OR REPLACE INTO file_accounts (file_path, ign, level, job_name)
				VALUES (?, ?, ?, ?)`, e.Path, a.IGN, a.Level, a.JobName)
			if err != nil {
				return err
			}
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, e.Path, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadEntries reads the cached parses for the given paths. Paths that are
// not cached are absent from the result.
func (c *Cache) LoadEntries(paths []string) (map[string]Entry, error) {
	want := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		want[p] = struct{}{}
	}

	rows, err := c.db.Query(`SELECT file_path, file_name, kind, format, payload, warnings FROM parsed_files`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]Entry, len(paths))
	for rows.Next() {
		var e Entry
		var payload string
		var warnings sql.NullString
		if err := rows.Scan(&e.Path, &e.Name, &e.Kind, &e.Format, &payload, &warnings); err != nil {
			return nil, err
		}
		if _, ok := want[e.Path]; !ok {
			continue
		}
		e.Data = &model.Dataset{}
		if err := json.Unmarshal([]byte(payload), e.Data); err != nil {
			return nil, fmt.Errorf("decoding cached %s: %w", e.Name, err)
		}
		if warnings.Valid && warnings.String != "" {
			_ = json.Unmarshal([]byte(warnings.String), &e.Warnings)
		}
		result[e.Path] = e
	}
	return result, rows.Err()
}

// CachedAccounts returns the account rows of every cached file, keyed by IGN.
func (c *Cache) CachedAccounts() (map[string]model.Account, error) {
	rows, err := c.db.Query("SELECT ign, level, job_name FROM file_accounts")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]model.Account)
	for rows.Next() {
		var a model.Account
		var job sql.NullString
		var level sql.NullInt64
		if err := rows.Scan(&a.IGN, &level, &job); err != nil {
			return nil, err
		}
		a.Level = int(level.Int64)
		a.JobName = job.String
		result[a.IGN] = a
	}
	return result, rows.Err()
}

// DeleteFile removes a cached parse and its tracking entry.
func (c *Cache) DeleteFile(filePath string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM parsed_files WHERE file_path = ?", filePath); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath); err != nil {
		return err
	}
	return tx.Commit()
}

// EntryCount returns the number of cached files.
func (c *Cache) EntryCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM parsed_files").Scan(&count)
	return count, err
}
