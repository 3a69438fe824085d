package models

import "time"

// Change kinds.
const (
	ChangeCreated  = "created"
	ChangeUpdated  = "updated"
	ChangeDeleted  = "deleted"
	ChangeImported = "imported"
)

// Change describes one mutation of the record store.
type Change struct {
	Collection string    `json:"collection"`
	Kind       string    `json:"kind"`
	ID         string    `json:"id,omitempty"`
	Count      int       `json:"count,omitempty"`
	At         time.Time `json:"at"`
}

// Topic returns "<collection>.<kind>", the name used for change events.
func (c Change) Topic() string {
	return c.Collection + "." + c.Kind
}
