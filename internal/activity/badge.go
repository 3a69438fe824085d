package activity

import (
	"strings"

	"github.com/starford/tablero/internal/models"
)

// DefaultBadge is the badge class of anything outside the badge table.
const DefaultBadge = "bg-secondary"

// badgeTable is the only mapping from display categories to badge classes.
var badgeTable = struct {
	areas map[string]string
	types map[models.OperationType]string
}{
	areas: map[string]string{
		"túnel":          "bg-info",
		"tunel":          "bg-info",
		"empaquetado":    "bg-success",
		"glaseo":         "bg-warning text-dark",
		"corte":          "bg-danger",
		"echar y tratar": "bg-primary",
	},
	types: map[models.OperationType]string{
		models.OperationUnloading:      "bg-success",
		models.OperationClassification: "bg-warning text-dark",
	},
}

// AreaBadge returns the badge class for a note area, ignoring case.
func AreaBadge(a models.Area) string {
	if b, ok := badgeTable.areas[strings.ToLower(strings.TrimSpace(string(a)))]; ok {
		return b
	}
	return DefaultBadge
}

// TypeBadge returns the badge class for an operation type.
func TypeBadge(t models.OperationType) string {
	if b, ok := badgeTable.types[t]; ok {
		return b
	}
	return DefaultBadge
}
