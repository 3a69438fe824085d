package recordservice

import (
	"context"
	"fmt"

	"github.com/starford/tablero/internal/checksum"
	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/snapshot"
	"github.com/starford/tablero/internal/store"
)

// Export takes a snapshot of every collection.
func (s *Service) Export(ctx context.Context) (*snapshot.Snapshot, error) {
	stores, err := s.store.Export(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.New(stores, s.now()), nil
}

// ImportResult summarizes an import.
type ImportResult struct {
	Checksum    string   `json:"checksum"`
	Collections []string `json:"collections"`
	Records     int      `json:"records"`
}

// Import replaces every collection carried by the export document data.
// Records without an id get a fresh one.
func (s *Service) Import(ctx context.Context, data []byte, source string) (*ImportResult, error) {
	snap, err := snapshot.Parse(data)
	if err != nil {
		return nil, err
	}
	for i := range snap.Stores.Notes {
		if snap.Stores.Notes[i].ID == "" {
			snap.Stores.Notes[i].ID = s.newID()
		}
	}
	for i := range snap.Stores.Operations {
		if snap.Stores.Operations[i].ID == "" {
			snap.Stores.Operations[i].ID = s.newID()
		}
	}
	for i := range snap.Stores.Personnel {
		if snap.Stores.Personnel[i].ID == "" {
			snap.Stores.Personnel[i].ID = s.newID()
		}
	}

	sum := checksum.Sum(data)
	n, err := s.store.Import(ctx, snap, store.ImportRecord{
		Checksum:   sum,
		Source:     source,
		ImportedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("recordservice: import: %w", err)
	}

	counts := map[string]int{
		models.CollectionNotes:      len(snap.Stores.Notes),
		models.CollectionOperations: len(snap.Stores.Operations),
		models.CollectionPersonnel:  len(snap.Stores.Personnel),
	}
	for _, c := range snap.Collections {
		s.notify(c, models.ChangeImported, "", counts[c])
	}
	return &ImportResult{Checksum: sum, Collections: snap.Collections, Records: n}, nil
}

// AlreadyImported reports whether a document with the given checksum was
// imported before.
func (s *Service) AlreadyImported(ctx context.Context, sum string) (bool, error) {
	rec, err := s.store.LastImport(ctx, sum)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}
