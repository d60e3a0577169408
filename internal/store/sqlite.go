package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the chaosimg history database.
const schema = `
CREATE TABLE IF NOT EXISTS operations (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ns     INTEGER NOT NULL,
    op               TEXT NOT NULL CHECK (op IN ('encrypt', 'decrypt')),
    scheme           TEXT NOT NULL,
    input_path       TEXT NOT NULL,
    output_path      TEXT NOT NULL,
    mode             TEXT NOT NULL,
    size             INTEGER NOT NULL,
    resized          INTEGER NOT NULL DEFAULT 0,
    key_fingerprint  TEXT NOT NULL,
    duration_ns      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON operations(timestamp_ns);
CREATE INDEX IF NOT EXISTS idx_operations_fingerprint ON operations(key_fingerprint);

CREATE TABLE IF NOT EXISTS analyses (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp_ns    INTEGER NOT NULL,
    file_path       TEXT NOT NULL,
    mode            TEXT NOT NULL,
    width           INTEGER NOT NULL,
    height          INTEGER NOT NULL,
    entropy         REAL NOT NULL,
    corr_h          REAL NOT NULL,
    corr_v          REAL NOT NULL,
    corr_d          REAL NOT NULL,
    quality_score   REAL NOT NULL,
    duration_ns     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_timestamp ON analyses(timestamp_ns);
`

const operationColumns = `id, timestamp_ns, op, scheme, input_path, output_path, mode, size, resized, key_fingerprint, duration_ns`

const analysisColumns = `id, timestamp_ns, file_path, mode, width, height, entropy, corr_h, corr_v, corr_d, quality_score, duration_ns`

// Store represents the SQLite history store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and applies the schema.
func Open(path string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertOperation records an operation and returns its ID.
func (s *Store) InsertOperation(o *Operation) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO operations (timestamp_ns, op, scheme, input_path, output_path, mode, size, resized, key_fingerprint, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.TimestampNs, o.Op, o.Scheme, o.InputPath, o.OutputPath, o.Mode, o.Size, o.Resized, o.KeyFingerprint, o.DurationNs,
	)
	if err != nil {
		return 0, fmt.Errorf("insert operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// InsertAnalysis records an analysis run and returns its ID.
func (s *Store) InsertAnalysis(a *Analysis) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO analyses (timestamp_ns, file_path, mode, width, height, entropy, corr_h, corr_v, corr_d, quality_score, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.TimestampNs, a.FilePath, a.Mode, a.Width, a.Height, a.Entropy, a.Horizontal, a.Vertical, a.Diagonal, a.QualityScore, a.DurationNs,
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}
	return id, nil
}

// GetOperation retrieves an operation by ID. A missing row gives nil, nil.
func (s *Store) GetOperation(id int64) (*Operation, error) {
	row := s.db.QueryRow(`SELECT `+operationColumns+` FROM operations WHERE id = ?`, id)

	o, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return o, nil
}

// RecentOperations returns up to limit operations, newest first.
func (s *Store) RecentOperations(limit int) ([]Operation, error) {
	rows, err := s.db.Query(`
		SELECT `+operationColumns+`
		FROM operations
		ORDER BY timestamp_ns DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent operations: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// OperationsByFingerprint returns every operation made with the key that has
// the given fingerprint, oldest first.
func (s *Store) OperationsByFingerprint(fingerprint string) ([]Operation, error) {
	rows, err := s.db.Query(`
		SELECT `+operationColumns+`
		FROM operations
		WHERE key_fingerprint = ?
		ORDER BY timestamp_ns ASC, id ASC`, fingerprint,
	)
	if err != nil {
		return nil, fmt.Errorf("query operations by fingerprint: %w", err)
	}
	defer rows.Close()

	return scanOperations(rows)
}

// RecentAnalyses returns up to limit analysis runs, newest first.
func (s *Store) RecentAnalyses(limit int) ([]Analysis, error) {
	rows, err := s.db.Query(`
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY timestamp_ns DESC, id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		if err := rows.Scan(&a.ID, &a.TimestampNs, &a.FilePath, &a.Mode, &a.Width, &a.Height,
			&a.Entropy, &a.Horizontal, &a.Vertical, &a.Diagonal, &a.QualityScore, &a.DurationNs); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

// Counts returns the number of recorded operations and analyses.
func (s *Store) Counts() (operations, analyses int64, err error) {
	err = s.db.QueryRow(`SELECT (SELECT COUNT(*) FROM operations), (SELECT COUNT(*) FROM analyses)`).
		Scan(&operations, &analyses)
	if err != nil {
		return 0, 0, fmt.Errorf("count history: %w", err)
	}
	return operations, analyses, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperation(row scanner) (*Operation, error) {
	var o Operation
	err := row.Scan(&o.ID, &o.TimestampNs, &o.Op, &o.Scheme, &o.InputPath, &o.OutputPath,
		&o.Mode, &o.Size, &o.Resized, &o.KeyFingerprint, &o.DurationNs)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOperations(rows *sql.Rows) ([]Operation, error) {
	var out []Operation
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}
	return out, nil
}
