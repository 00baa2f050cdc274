// Package store persists file records in a SQLite database.
//
// Column names follow the schema of earlier deployments so existing databases
// can be opened as-is: the content digest lives in blockchain_hash, the stored
// passphrase (verifier or legacy cleartext) in aes_key and the wrapped content
// key in encrypted_fernet_key.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ErrNotFound is returned when no record exists for an ID.
var ErrNotFound = errors.New("record not found")

// Record describes one uploaded file.
type Record struct {
	ID            string
	Name          string
	Size          int64
	BlobID        string
	ContentDigest string
	Passphrase    string
	WrappedKey    string
	UploadedAt    time.Time
}

// Encrypted reports whether the stored content is ciphertext.
func (r Record) Encrypted() bool {
	return r.WrappedKey != ""
}

// Store is a SQLite-backed record repository.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite allows a single writer; serializing here avoids SQLITE_BUSY under parallel uploads.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if err := s.initSchema(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS vault_files (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		size INTEGER NOT NULL,
		blob_id TEXT NOT NULL,
		blockchain_hash TEXT NOT NULL,
		aes_key TEXT,
		encrypted_fernet_key TEXT,
		uploaded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_vault_files_blob ON vault_files(blob_id);
	`
	_, err := s.db.ExecContext(ctx, schema)

	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert stores rec. A missing ID or upload time is filled in and written back to rec.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = time.Now()
	}

	rec.UploadedAt = rec.UploadedAt.Truncate(time.Second)

	query := `
	INSERT INTO vault_files (id, file_name, size, blob_id, blockchain_hash, aes_key, encrypted_fernet_key, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Size, rec.BlobID, rec.ContentDigest,
		nullable(rec.Passphrase), nullable(rec.WrappedKey), rec.UploadedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert record %s: %w", rec.ID, err)
	}

	return nil
}

const selectColumns = `SELECT id, file_name, size, blob_id, blockchain_hash, aes_key, encrypted_fernet_key, uploaded_at
	FROM vault_files`

// Get returns the record with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scan(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return Record{}, fmt.Errorf("get record %s: %w", id, err)
	}

	return rec, nil
}

// List returns all records, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY uploaded_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

// Delete removes the record with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vault_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}

	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// CountBlobRefs returns the number of records referencing blobID.
func (s *Store) CountBlobRefs(ctx context.Context, blobID string) (int, error) {
	var n int

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vault_files WHERE blob_id = ?`, blobID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count blob references: %w", err)
	}

	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (Record, error) {
	var (
		rec                    Record
		passphrase, wrappedKey sql.NullString
		uploaded               int64
	)

	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Size, &rec.BlobID, &rec.ContentDigest,
		&passphrase, &wrappedKey, &uploaded,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Passphrase = passphrase.String
	rec.WrappedKey = wrappedKey.String
	rec.UploadedAt = time.Unix(uploaded, 0)

	return rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
