package activity

import (
	"fmt"
	"strings"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// Kind tells notes and operations apart in a merged timeline.
type Kind string

const (
	KindNote      Kind = "nota"
	KindOperation Kind = "operacion"
)

// Item is the read-only timeline projection of a note or an operation.
type Item struct {
	ID                  string        `json:"id"`
	Kind                Kind          `json:"kind"`
	Date                calendar.Time `json:"fecha"`
	Category            string        `json:"category"`
	Detail              string        `json:"detail"`
	AssignedPersonNames []string      `json:"assignedPersonNames"`
	Status              models.Status `json:"status,omitempty"`
	Badge               string        `json:"badge"`
}

// FromNote projects a note.
func (e *Engine) FromNote(n models.Note) Item {
	area := n.Area.OrGeneral()
	names := make([]string, 0, len(n.PersonsNames))
	for _, name := range n.PersonsNames {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return Item{
		ID:                  n.ID,
		Kind:                KindNote,
		Date:                e.Parse(n.Date),
		Category:            string(area),
		Detail:              n.Content,
		AssignedPersonNames: names,
		Badge:               AreaBadge(area),
	}
}

// FromOperation projects an operation.
func (e *Engine) FromOperation(o models.Operation) Item {
	return Item{
		ID:                  o.ID,
		Kind:                KindOperation,
		Date:                e.Parse(o.Date),
		Category:            fmt.Sprintf("%s: %s", o.Type, o.Place),
		Detail:              o.Description,
		AssignedPersonNames: SplitNames(o.PersonsInfo),
		Status:              o.EffectiveStatus(),
		Badge:               TypeBadge(o.Type),
	}
}

// SplitNames splits a comma-joined list of display names.
func SplitNames(info string) []string {
	out := []string{}
	for _, part := range strings.Split(info, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// JoinNames is the inverse of SplitNames.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}
