package embedding

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"titlecluster/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS embeddings (
	token  TEXT PRIMARY KEY,
	vector BLOB NOT NULL
);`

// SQLiteStore serves lookups from an embeddings table. Vectors are stored as
// little-endian float32 blobs; the dimension lives in meta under "dimension".
type SQLiteStore struct {
	db        *sql.DB
	lookup    *sql.Stmt
	path      string
	dimension int
}

// OpenSQLite opens an existing embedding database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := statArtifact(path); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &domain.MissingResourceError{Resource: "embedding model", Path: path, Err: err}
	}
	var raw string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'dimension'`).Scan(&raw); err != nil {
		db.Close()
		return nil, &domain.MissingResourceError{Resource: "embedding model", Path: path, Err: fmt.Errorf("read dimension: %w", err)}
	}
	dim, err := strconv.Atoi(raw)
	if err != nil || dim <= 0 {
		db.Close()
		return nil, fmt.Errorf("sqlite model %s: invalid dimension %q", path, raw)
	}
	stmt, err := db.Prepare(`SELECT vector FROM embeddings WHERE token = ?`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare lookup: %w", err)
	}
	return &SQLiteStore{db: db, lookup: stmt, path: path, dimension: dim}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Dimension() int { return s.dimension }

func (s *SQLiteStore) Lookup(token string) ([]float64, bool, error) {
	var blob []byte
	err := s.lookup.QueryRow(token).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q: %w", token, err)
	}
	vec, err := decodeVector(blob)
	if err != nil {
		return nil, false, fmt.Errorf("lookup %q: %w", token, err)
	}
	if len(vec) != s.dimension {
		return nil, false, &domain.DimensionMismatchError{Token: token, Want: s.dimension, Got: len(vec)}
	}
	return vec, true, nil
}

func (s *SQLiteStore) Close() error {
	if s.lookup != nil {
		_ = s.lookup.Close()
	}
	return s.db.Close()
}

// WriteSQLite stores tbl into a (new or existing) database at path, replacing
// rows for tokens already present.
func WriteSQLite(path string, tbl *Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var existing string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'dimension'`).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read dimension: %w", err)
	case existing != strconv.Itoa(tbl.Dimension()):
		got, _ := strconv.Atoi(existing)
		return &domain.DimensionMismatchError{Want: got, Got: tbl.Dimension()}
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key, value) VALUES ('dimension', ?)`, strconv.Itoa(tbl.Dimension())); err != nil {
		return fmt.Errorf("write dimension: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO embeddings(token, vector) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, token := range tbl.Tokens() {
		vec, _, _ := tbl.Lookup(token)
		if _, err := stmt.Exec(token, encodeVector(vec)); err != nil {
			return fmt.Errorf("insert %q: %w", token, err)
		}
	}
	return tx.Commit()
}

func encodeVector(vec []float64) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(float32(v)))
	}
	return b
}

func decodeVector(b []byte) ([]float64, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float64, len(b)/4)
	for i := range vec {
		vec[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:])))
	}
	return vec, nil
}
