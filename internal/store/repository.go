package store

import (
	"context"

	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/snapshot"
)

// RecordStore defines the record persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type.
type RecordStore interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	GetNote(ctx context.Context, id string) (models.Note, error)
	PutNote(ctx context.Context, n models.Note) error
	DeleteNote(ctx context.Context, id string) error

	ListOperations(ctx context.Context) ([]models.Operation, error)
	GetOperation(ctx context.Context, id string) (models.Operation, error)
	PutOperation(ctx context.Context, o models.Operation) error
	DeleteOperation(ctx context.Context, id string) error

	ListPersonnel(ctx context.Context) ([]models.Person, error)
	GetPerson(ctx context.Context, id string) (models.Person, error)
	PutPerson(ctx context.Context, p models.Person) error
	DeletePerson(ctx context.Context, id string) error

	Count(ctx context.Context, collection string) (int, error)
	Export(ctx context.Context) (snapshot.Stores, error)
	Import(ctx context.Context, s *snapshot.Snapshot, rec ImportRecord) (int, error)
	LastImport(ctx context.Context, checksum string) (*ImportRecord, error)
	Close() error
}

// Verify *DB satisfies RecordStore at compile time.
var _ RecordStore = (*DB)(nil)
