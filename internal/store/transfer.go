package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/snapshot"
)

// ImportRecord describes a snapshot that was imported.
type ImportRecord struct {
	Checksum   string
	Source     string
	Records    int
	ImportedAt time.Time
}

// Export reads every collection.
func (db *DB) Export(ctx context.Context) (snapshot.Stores, error) {
	notes, err := db.ListNotes(ctx)
	if err != nil {
		return snapshot.Stores{}, err
	}
	ops, err := db.ListOperations(ctx)
	if err != nil {
		return snapshot.Stores{}, err
	}
	people, err := db.ListPersonnel(ctx)
	if err != nil {
		return snapshot.Stores{}, err
	}
	return snapshot.Stores{Notes: notes, Operations: ops, Personnel: people}, nil
}

// Import replaces every collection carried by s and records the import, all
// within one transaction. It returns the number of records written.
func (db *DB) Import(ctx context.Context, s *snapshot.Snapshot, rec ImportRecord) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	written := 0
	for _, name := range s.Collections {
		table, err := tableFor(name)
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return 0, fmt.Errorf("store: clear %s: %w", name, err)
		}
		switch name {
		case models.CollectionNotes:
			for _, n := range s.Stores.Notes {
				if err := putNote(ctx, tx, n); err != nil {
					return 0, err
				}
			}
			written += len(s.Stores.Notes)
		case models.CollectionOperations:
			for _, o := range s.Stores.Operations {
				if err := putOperation(ctx, tx, o); err != nil {
					return 0, err
				}
			}
			written += len(s.Stores.Operations)
		case models.CollectionPersonnel:
			for _, p := range s.Stores.Personnel {
				if err := putPerson(ctx, tx, p); err != nil {
					return 0, err
				}
			}
			written += len(s.Stores.Personnel)
		}
	}

	if rec.Checksum != "" {
		if rec.ImportedAt.IsZero() {
			rec.ImportedAt = time.Now()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO imports (checksum, source, records, imported_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(checksum) DO UPDATE SET
				source      = excluded.source,
				records     = excluded.records,
				imported_at = excluded.imported_at
		`, rec.Checksum, rec.Source, written, encodeTime(rec.ImportedAt))
		if err != nil {
			return 0, fmt.Errorf("store: record import: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit import: %w", err)
	}
	return written, nil
}

// LastImport returns the import recorded for checksum, or nil.
func (db *DB) LastImport(ctx context.Context, checksum string) (*ImportRecord, error) {
	var (
		rec ImportRecord
		at  string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT checksum, source, records, imported_at FROM imports WHERE checksum = ?`, checksum,
	).Scan(&rec.Checksum, &rec.Source, &rec.Records, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: last import: %w", err)
	}
	rec.ImportedAt = decodeTime(at)
	return &rec, nil
}
