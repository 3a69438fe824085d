// Package models defines the domain types for Tablero.
package models

import "time"

// Collection names as used by the record store and the export format.
const (
	CollectionNotes      = "notas"
	CollectionOperations = "operaciones"
	CollectionPersonnel  = "personal"
)

// Collections lists every persisted collection in export order.
var Collections = []string{CollectionNotes, CollectionOperations, CollectionPersonnel}

// Note is a free-text activity record tied to a work area and a date.
//
// Date is kept as written by the client ("2006-01-02" or "2006-01-02T15:04");
// parse it with the calendar package.
type Note struct {
	ID           string    `json:"id"`
	Area         Area      `json:"area"`
	Date         string    `json:"fecha"`
	Content      string    `json:"contenido"`
	PersonIDs    []string  `json:"personaIds,omitempty"`
	PersonsNames []string  `json:"personasNombres,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// Operation is a client-facing delivery or classification event.
type Operation struct {
	ID          string        `json:"id"`
	Type        OperationType `json:"tipo"`
	Place       Place         `json:"lugar"`
	Date        string        `json:"fecha"`
	Description string        `json:"descripcion,omitempty"`
	PersonIDs   []string      `json:"personaIds,omitempty"`
	PersonsInfo string        `json:"personasInfo,omitempty"`
	Status      Status        `json:"estado"`
	CreatedAt   time.Time     `json:"createdAt,omitzero"`
	UpdatedAt   time.Time     `json:"updatedAt,omitzero"`
}

// EffectiveStatus returns the operation status, defaulting to pendiente.
func (o Operation) EffectiveStatus() Status {
	return o.Status.OrDefault()
}

// HasPerson reports whether id is among the assigned persons.
func (o Operation) HasPerson(id string) bool {
	for _, p := range o.PersonIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Person is a member of the production staff.
//
// Active is a pointer because records without the field count as active.
type Person struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Role      string    `json:"cargo,omitempty"`
	Active    *bool     `json:"activo,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// IsActive reports whether the person is active. A missing flag means active.
func (p Person) IsActive() bool {
	return p.Active == nil || *p.Active
}
