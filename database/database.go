package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/latticelab/xtal/config"
	_ "modernc.org/sqlite"
)

var (
	store     *Store
	storeOnce sync.Once
)

var ErrNotFound = errors.New("artifact not found")

// Artifact is one stored structure file.
type Artifact struct {
	ID        string
	Filename  string
	Format    string
	Data      []byte
	SHA256    string
	CreatedAt time.Time
}

// Store persists structure artifacts and their attributes in sqlite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS structures (
	id         TEXT NOT NULL,
	filename   TEXT NOT NULL UNIQUE,
	format     TEXT NOT NULL,
	data       BLOB,
	sha256     TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS attributes (
	filename TEXT NOT NULL,
	name     TEXT NOT NULL,
	value    BLOB NOT NULL,
	PRIMARY KEY (filename, name)
);
`

// GetDatabaseContext returns a new context for store operations
func GetDatabaseContext() context.Context {
	return context.Background()
}

// GetStore returns a thread safe store singleton backed by the configured
// sqlite file.
func GetStore() (*Store, error) {
	var openErr error
	storeOnce.Do(func() {
		store, openErr = Open(config.GetConfig().Store.Path)
	})
	if openErr != nil {
		return nil, openErr
	}
	if store == nil {
		return nil, fmt.Errorf("store failed to open earlier")
	}
	return store, nil
}

// SetStore replaces the store singleton before it is opened. For tests.
func SetStore(s *Store) {
	storeOnce.Do(func() {})
	store = s
}

// CloseStore closes the store singleton
func CloseStore() {
	if store != nil {
		store.Close()
	}
}

// Open opens (and creates if needed) a sqlite artifact store at path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// UniqueFilename returns filename, or filename with a _1, _2, ... suffix if
// it is already taken in the store.
func (s *Store) UniqueFilename(ctx context.Context, filename string) (string, error) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	proposed := filename
	counter := 1
	for {
		var existing string
		err := s.db.QueryRowContext(ctx,
			`SELECT filename FROM structures WHERE filename = ?`, proposed,
		).Scan(&existing)
		if errors.Is(err, sql.ErrNoRows) {
			return proposed, nil
		}
		if err != nil {
			return "", err
		}
		proposed = fmt.Sprintf("%s_%d%s", base, counter, ext)
		counter++
	}
}

// Save stores an artifact under a unique filename and returns the filename
// actually used. Empty data is rejected.
func (s *Store) Save(ctx context.Context, filename, format string, data []byte, sha256hex string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("cannot save empty data for %s", filename)
	}
	name, err := s.UniqueFilename(ctx, filename)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO structures (id, filename, format, data, sha256, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), name, strings.ToUpper(format), data, sha256hex,
		time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return name, nil
}

// Get loads one artifact by filename.
func (s *Store) Get(ctx context.Context, filename string) (*Artifact, error) {
	var a Artifact
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, filename, format, data, sha256, created_at
		 FROM structures WHERE filename = ?`, filename,
	).Scan(&a.ID, &a.Filename, &a.Format, &a.Data, &a.SHA256, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(created, 0)
	return &a, nil
}

// List returns all artifacts without their data blobs, oldest first.
func (s *Store) List(ctx context.Context) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, format, sha256, created_at
		 FROM structures ORDER BY created_at, filename`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Artifact
	for rows.Next() {
		var a Artifact
		var created int64
		if err := rows.Scan(&a.ID, &a.Filename, &a.Format, &a.SHA256, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = time.Unix(created, 0)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes one artifact and its attributes.
func (s *Store) Delete(ctx context.Context, filename string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM structures WHERE filename = ?`, filename)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	_, err = s.db.ExecContext(ctx, `DELETE FROM attributes WHERE filename = ?`, filename)
	return err
}

// Clear removes every artifact and attribute.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM structures`); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM attributes`)
	return err
}

// Clean removes artifacts whose data is missing or empty.
func (s *Store) Clean(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM structures WHERE data IS NULL OR length(data) = 0`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetAttribute stores a CBOR-encoded attribute value for an artifact.
// The artifact must exist.
func (s *Store) SetAttribute(ctx context.Context, filename, name string, value []byte) error {
	if _, err := s.Get(ctx, filename); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attributes (filename, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (filename, name) DO UPDATE SET value = excluded.value`,
		filename, name, value)
	return err
}

// GetAttribute returns the CBOR-encoded value of one attribute.
func (s *Store) GetAttribute(ctx context.Context, filename, name string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM attributes WHERE filename = ? AND name = ?`,
		filename, name,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return value, err
}

// Attributes returns all attribute names and CBOR values for an artifact.
func (s *Store) Attributes(ctx context.Context, filename string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value FROM attributes WHERE filename = ?`, filename)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][]byte{}
	for rows.Next() {
		var name string
		var value []byte
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		out[name] = value
	}
	return out, rows.Err()
}
