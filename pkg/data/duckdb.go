package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/rs/zerolog/log"
)

// SettingsKey is the fixed key the settings record is stored under.
const SettingsKey = "lu-collection_settings"

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key VARCHAR PRIMARY KEY,
		value VARCHAR NOT NULL
	)`,
	`CREATE SEQUENCE IF NOT EXISTS import_id_seq`,
	`CREATE TABLE IF NOT EXISTS imports (
		id BIGINT PRIMARY KEY DEFAULT nextval('import_id_seq'),
		entry_name VARCHAR NOT NULL,
		kind VARCHAR NOT NULL,
		final_name VARCHAR,
		success BOOLEAN NOT NULL,
		was_renamed BOOLEAN NOT NULL,
		error VARCHAR,
		imported_at TIMESTAMP NOT NULL
	)`,
}

func InitDuckDB(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// Repository persists settings and import history.
type Repository struct {
	db *sql.DB
}

func NewDuckDBRepository(path string) (*Repository, error) {
	db, err := InitDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Get returns the raw value stored under key, or "" and false.
func (r *Repository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *Repository) Put(key, value string) error {
	_, err := r.db.Exec(`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

// LoadSettings merges the stored record over the defaults. A record that
// cannot be decoded is ignored and the defaults are returned.
func (r *Repository) LoadSettings() (Settings, error) {
	settings := DefaultSettings()

	raw, ok, err := r.Get(SettingsKey)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings: %w", err)
	}
	if !ok {
		return settings, nil
	}

	merged := settings
	if err := json.Unmarshal([]byte(raw), &merged); err != nil {
		log.Warn().Err(err).Str("key", SettingsKey).Msg("stored settings are unreadable, using defaults")
		return settings, nil
	}
	return merged, nil
}

func (r *Repository) SaveSettings(settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := r.Put(SettingsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (r *Repository) RecordImport(rec *ImportRecord) error {
	if rec.ImportedAt.IsZero() {
		rec.ImportedAt = time.Now()
	}
	err := r.db.QueryRow(`
		INSERT INTO imports (entry_name, kind, final_name, success, was_renamed, error, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		rec.EntryName, string(rec.Kind), rec.FinalName, rec.Success, rec.WasRenamed, rec.Error, rec.ImportedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to record import: %w", err)
	}
	return nil
}

// ListImports returns the most recent import attempts first. limit <= 0 means all.
func (r *Repository) ListImports(limit int) ([]*ImportRecord, error) {
	query := `
		SELECT id, entry_name, kind, COALESCE(final_name, ''), success, was_renamed, COALESCE(error, ''), imported_at
		FROM imports
		ORDER BY imported_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanImports(rows)
}

// LatestImports returns the newest attempt per manifest entry, keyed by kind and name.
func (r *Repository) LatestImports() (map[string]*ImportRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, entry_name, kind, COALESCE(final_name, ''), success, was_renamed, COALESCE(error, ''), imported_at
		FROM imports
		QUALIFY row_number() OVER (PARTITION BY kind, entry_name ORDER BY imported_at DESC, id DESC) = 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanImports(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*ImportRecord, len(records))
	for _, rec := range records {
		out[ImportKey(rec.Kind, rec.EntryName)] = rec
	}
	return out, nil
}

// ImportKey builds the lookup key used by LatestImports.
func ImportKey(kind Kind, name string) string {
	return string(kind) + ":" + name
}

func scanImports(rows *sql.Rows) ([]*ImportRecord, error) {
	var out []*ImportRecord
	for rows.Next() {
		var (
			rec  ImportRecord
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.EntryName, &kind, &rec.FinalName, &rec.Success, &rec.WasRenamed, &rec.Error, &rec.ImportedAt); err != nil {
			return nil, err
		}
		rec.Kind = Kind(kind)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
