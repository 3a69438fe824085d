package activity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/tablero/internal/models"
)

func TestFromNote(t *testing.T) {
	e := testEngine()
	n := models.Note{ID: "n1", Area: models.AreaGlazing, Date: "2024-03-13T10:15", Content: "Revisión", PersonsNames: []string{"Ana", " ", "Luis"}}
	it := e.FromNote(n)

	if it.Kind != KindNote || it.Category != "Glaseo" || it.Detail != "Revisión" {
		t.Errorf("unexpected item: %+v", it)
	}
	if it.Badge != "bg-warning text-dark" {
		t.Errorf("badge = %q", it.Badge)
	}
	if diff := cmp.Diff([]string{"Ana", "Luis"}, it.AssignedPersonNames); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if it.Status != "" {
		t.Errorf("notes carry no status, got %q", it.Status)
	}
	if !it.Date.HasClock() {
		t.Error("time of day must be preserved")
	}
}

func TestFromNoteDefaultsToGeneral(t *testing.T) {
	it := testEngine().FromNote(models.Note{ID: "n", Date: "2024-03-13"})
	if it.Category != "General" {
		t.Errorf("category = %q, want General", it.Category)
	}
	if it.Badge != DefaultBadge {
		t.Errorf("badge = %q, want default", it.Badge)
	}
	if it.AssignedPersonNames == nil {
		t.Error("names must be non-nil")
	}
}

func TestFromOperation(t *testing.T) {
	e := testEngine()
	o := models.Operation{ID: "o1", Type: models.OperationUnloading, Place: models.PlaceISP, Date: "2024-03-13", PersonsInfo: "Ana, Luis,"}
	it := e.FromOperation(o)

	if it.Category != "Descarga: ISP" {
		t.Errorf("category = %q", it.Category)
	}
	if it.Detail != "" {
		t.Errorf("detail = %q, want empty", it.Detail)
	}
	if it.Status != models.StatusPending {
		t.Errorf("status = %q, want pendiente", it.Status)
	}
	if it.Badge != "bg-success" {
		t.Errorf("badge = %q", it.Badge)
	}
	if diff := cmp.Diff([]string{"Ana", "Luis"}, it.AssignedPersonNames); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestAreaBadge(t *testing.T) {
	tests := map[models.Area]string{
		"Túnel":          "bg-info",
		"tunel":          "bg-info",
		"EMPAQUETADO":    "bg-success",
		"Glaseo":         "bg-warning text-dark",
		"Corte":          "bg-danger",
		"Echar y tratar": "bg-primary",
		"Elaboración":    DefaultBadge,
		"Limpieza":       DefaultBadge,
	}
	for area, want := range tests {
		if got := AreaBadge(area); got != want {
			t.Errorf("AreaBadge(%q) = %q, want %q", area, got, want)
		}
	}
	if got := TypeBadge("Carga"); got != DefaultBadge {
		t.Errorf("TypeBadge(unknown) = %q", got)
	}
}

func TestSplitJoinNames(t *testing.T) {
	if got := SplitNames(""); len(got) != 0 || got == nil {
		t.Errorf("SplitNames(\"\") = %#v", got)
	}
	names := []string{"Ana", "Luis"}
	if diff := cmp.Diff(names, SplitNames(JoinNames(names))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
