package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// UpdateRecord is one finished update attempt.
type UpdateRecord struct {
	ID          string
	SiteID      string
	Slug        string
	Type        string // "plugin", "theme", "core"
	Name        string
	FromVersion string
	ToVersion   string
	Result      string // "completed" or "error"
	Message     string // failure detail, empty on success
	StartedAt   time.Time
	FinishedAt  time.Time
}

type HistoryStorage struct {
	db *sql.DB
}

func NewHistoryStorage(dataDir string) (*HistoryStorage, error) {
	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &HistoryStorage{db: db}

	if err := storage.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (hs *HistoryStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS update_history (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL,
		slug TEXT NOT NULL,
		type TEXT NOT NULL,
		name TEXT NOT NULL,
		from_version TEXT,
		to_version TEXT,
		result TEXT NOT NULL,
		message TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_site ON update_history(site_id);
	CREATE INDEX IF NOT EXISTS idx_history_slug ON update_history(slug);
	`

	_, err := hs.db.Exec(schema)
	if err != nil {
		return err
	}

	// Migration: add message column for databases created before failure
	// details were recorded
	if err := hs.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds missing columns to existing databases
func (hs *HistoryStorage) migrateSchema() error {
	hasMessage, err := hs.columnExists("update_history", "message")
	if err != nil {
		return fmt.Errorf("failed to check for message column: %w", err)
	}

	switch {
	case !hasMessage:
		_, err := hs.db.Exec(`ALTER TABLE update_history ADD COLUMN message TEXT DEFAULT ''`)
		if err != nil {
			return fmt.Errorf("failed to add message column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (hs *HistoryStorage) columnExists(tableName, columnName string) (bool, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)
	rows, err := hs.db.Query(query)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk)
		if err != nil {
			return false, err
		}

		switch {
		case name == columnName:
			return true, nil
		}
	}

	return false, rows.Err()
}

// Save records a finished update attempt. An ID is assigned when missing.
func (hs *HistoryStorage) Save(record UpdateRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now()
	}
	if record.StartedAt.IsZero() {
		record.StartedAt = record.FinishedAt
	}

	query := `
	INSERT OR REPLACE INTO update_history (id, site_id, slug, type, name, from_version, to_version, result, message, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := hs.db.Exec(query,
		record.ID,
		record.SiteID,
		record.Slug,
		record.Type,
		record.Name,
		record.FromVersion,
		record.ToVersion,
		record.Result,
		record.Message,
		record.StartedAt,
		record.FinishedAt,
	)

	return err
}

// List returns the most recent records for a site, newest first.
// A limit of 0 returns everything.
func (hs *HistoryStorage) List(siteID string, limit int) ([]UpdateRecord, error) {
	query := `
	SELECT id, site_id, slug, type, name, from_version, to_version, result, message, started_at, finished_at
	FROM update_history
	WHERE site_id = ?
	ORDER BY finished_at DESC
	`
	args := []interface{}{siteID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []UpdateRecord
	for rows.Next() {
		var record UpdateRecord
		err := rows.Scan(
			&record.ID,
			&record.SiteID,
			&record.Slug,
			&record.Type,
			&record.Name,
			&record.FromVersion,
			&record.ToVersion,
			&record.Result,
			&record.Message,
			&record.StartedAt,
			&record.FinishedAt,
		)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// ListBySlug returns the history for one item, newest first.
func (hs *HistoryStorage) ListBySlug(siteID, slug string) ([]UpdateRecord, error) {
	query := `
	SELECT id, site_id, slug, type, name, from_version, to_version, result, message, started_at, finished_at
	FROM update_history
	WHERE site_id = ? AND slug = ?
	ORDER BY finished_at DESC
	`

	rows, err := hs.db.Query(query, siteID, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []UpdateRecord
	for rows.Next() {
		var record UpdateRecord
		err := rows.Scan(
			&record.ID,
			&record.SiteID,
			&record.Slug,
			&record.Type,
			&record.Name,
			&record.FromVersion,
			&record.ToVersion,
			&record.Result,
			&record.Message,
			&record.StartedAt,
			&record.FinishedAt,
		)
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Prune removes records older than the cutoff.
func (hs *HistoryStorage) Prune(before time.Time) error {
	_, err := hs.db.Exec(`DELETE FROM update_history WHERE finished_at < ?`, before)
	return err
}

func (hs *HistoryStorage) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
