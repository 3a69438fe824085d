// Package snapshot reads and writes the bulk export document:
//
//	{"version": "1.0", "timestamp": "...", "stores": {"notas": [...], ...}}
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/starford/tablero/internal/apperr"
	"github.com/starford/tablero/internal/models"
)

// Version is written into every export.
const Version = "1.0"

// TimestampLayout matches the millisecond ISO form browsers emit.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Stores holds the records of every collection.
type Stores struct {
	Notes      []models.Note      `json:"notas"`
	Operations []models.Operation `json:"operaciones"`
	Personnel  []models.Person    `json:"personal"`
}

// Count returns the number of records across collections.
func (s Stores) Count() int {
	return len(s.Notes) + len(s.Operations) + len(s.Personnel)
}

// Snapshot is a full export of the record store.
type Snapshot struct {
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Stores    Stores `json:"stores"`

	// Collections lists the collections present in a parsed document.
	// Import replaces only these.
	Collections []string `json:"-"`
}

// New builds a snapshot of every collection taken at now.
func New(stores Stores, now time.Time) *Snapshot {
	return &Snapshot{
		Version:     Version,
		Timestamp:   now.UTC().Format(TimestampLayout),
		Stores:      stores,
		Collections: slices.Clone(models.Collections),
	}
}

// Has reports whether the snapshot carries the named collection.
func (s *Snapshot) Has(collection string) bool {
	return slices.Contains(s.Collections, collection)
}

// Count returns the number of records in the collections carried.
func (s *Snapshot) Count() int {
	n := 0
	if s.Has(models.CollectionNotes) {
		n += len(s.Stores.Notes)
	}
	if s.Has(models.CollectionOperations) {
		n += len(s.Stores.Operations)
	}
	if s.Has(models.CollectionPersonnel) {
		n += len(s.Stores.Personnel)
	}
	return n
}

// Parse decodes an export document. The timestamp and the stores object are
// required; unknown collections are ignored.
func Parse(data []byte) (*Snapshot, error) {
	var raw struct {
		Version   string                     `json:"version"`
		Timestamp string                     `json:"timestamp"`
		Stores    map[string]json.RawMessage `json:"stores"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformedSnapshot, err)
	}
	if raw.Stores == nil {
		return nil, fmt.Errorf("%w: missing stores", apperr.ErrMalformedSnapshot)
	}
	if raw.Timestamp == "" {
		return nil, fmt.Errorf("%w: missing timestamp", apperr.ErrMalformedSnapshot)
	}

	s := &Snapshot{Version: raw.Version, Timestamp: raw.Timestamp, Collections: []string{}}
	targets := map[string]any{
		models.CollectionNotes:      &s.Stores.Notes,
		models.CollectionOperations: &s.Stores.Operations,
		models.CollectionPersonnel:  &s.Stores.Personnel,
	}
	for _, name := range models.Collections {
		msg, ok := raw.Stores[name]
		if !ok {
			continue
		}
		if err := decodeCollection(msg, targets[name]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", apperr.ErrMalformedSnapshot, name, err)
		}
		s.Collections = append(s.Collections, name)
	}

	for i := range s.Stores.Operations {
		s.Stores.Operations[i].Status = s.Stores.Operations[i].Status.OrDefault()
	}
	return s, nil
}

func decodeCollection(msg json.RawMessage, target any) error {
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil
	}
	return json.Unmarshal(msg, target)
}

// Encode renders s as indented JSON.
func Encode(s *Snapshot) ([]byte, error) {
	if s.Stores.Notes == nil {
		s.Stores.Notes = []models.Note{}
	}
	if s.Stores.Operations == nil {
		s.Stores.Operations = []models.Operation{}
	}
	if s.Stores.Personnel == nil {
		s.Stores.Personnel = []models.Person{}
	}
	return json.MarshalIndent(s, "", "  ")
}

// FileName returns the download name of an export taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("gestion_produccion_%s_%s.json", t.Format("2006-01-02"), t.Format("15-04-05"))
}
