package activity

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/tablero/internal/models"
)

func TestFilterByPlaceOrdersByDate(t *testing.T) {
	ops := []models.Operation{
		op("b", models.OperationClassification, models.PlaceFrigalsa, "2024-01-02"),
		op("a", models.OperationUnloading, models.PlaceFrigalsa, "2024-01-01"),
		op("c", models.OperationUnloading, models.PlaceISP, "2024-01-01"),
	}
	got := testEngine().Filter(ops, FilterSpec{Place: models.PlaceFrigalsa})
	if diff := cmp.Diff([]string{"a", "b"}, opIDs(got)); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterPendingBeforeCompletedOnSameDay(t *testing.T) {
	done := op("done", models.OperationUnloading, models.PlaceISP, "2024-03-12")
	done.Status = models.StatusCompleted
	pending := op("pending", models.OperationUnloading, models.PlaceISP, "2024-03-12")
	pending.Status = models.StatusPending
	unset := op("unset", models.OperationClassification, models.PlaceISP, "2024-03-12")
	earlier := op("earlier", models.OperationClassification, models.PlaceISP, "2024-03-11")
	earlier.Status = models.StatusCompleted

	got := testEngine().Filter([]models.Operation{done, pending, unset, earlier}, FilterSpec{})
	if diff := cmp.Diff([]string{"earlier", "pending", "unset", "done"}, opIDs(got)); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterTieBreakIgnoresTimeOfDay(t *testing.T) {
	done := op("done", models.OperationUnloading, models.PlaceISP, "2024-03-12T07:00")
	done.Status = models.StatusCompleted
	pending := op("pending", models.OperationUnloading, models.PlaceISP, "2024-03-12T18:00")

	got := testEngine().Filter([]models.Operation{done, pending}, FilterSpec{})
	if diff := cmp.Diff([]string{"pending", "done"}, opIDs(got)); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterPredicates(t *testing.T) {
	completed := op("c1", models.OperationClassification, models.PlaceAtunlo, "2024-03-14")
	completed.Status = models.StatusCompleted
	completed.Description = "Clasificación URGENTE"
	withPeople := op("p1", models.OperationUnloading, models.PlacePayPay, "2024-03-13")
	withPeople.PersonIDs = []string{"u1", "u2"}
	ops := []models.Operation{
		completed,
		withPeople,
		op("i1", models.OperationUnloading, models.PlaceISP, "2024-03-13T16:00"),
	}

	tests := []struct {
		name string
		spec FilterSpec
		want []string
	}{
		{"wildcard", FilterSpec{}, []string{"p1", "i1", "c1"}},
		{"date", FilterSpec{Date: "2024-03-13"}, []string{"p1", "i1"}},
		{"type", FilterSpec{Type: models.OperationClassification}, []string{"c1"}},
		{"search description", FilterSpec{Search: "urgente"}, []string{"c1"}},
		{"search place", FilterSpec{Search: "pay-"}, []string{"p1"}},
		{"person", FilterSpec{Person: "u2"}, []string{"p1"}},
		{"status pending", FilterSpec{Status: "pendiente"}, []string{"p1", "i1"}},
		{"status completed", FilterSpec{Status: "completado"}, []string{"c1"}},
		{"status any", FilterSpec{Status: StatusAny}, []string{"p1", "i1", "c1"}},
		{"conjunction", FilterSpec{Date: "2024-03-13", Type: models.OperationUnloading, Place: models.PlaceISP}, []string{"i1"}},
		{"no match", FilterSpec{Place: models.PlaceFrigalsa}, []string{}},
		{"unparsable date", FilterSpec{Date: "ayer"}, []string{}},
	}
	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, opIDs(e.Filter(ops, tt.spec))); diff != "" {
				t.Errorf("Filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterWeeksPartition(t *testing.T) {
	var ops []models.Operation
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, madrid)
	for i := range 40 {
		d := start.AddDate(0, 0, i).Format("2006-01-02")
		ops = append(ops, op(fmt.Sprintf("op-%02d", i), models.OperationUnloading, models.PlaceISP, d))
	}

	e := testEngine()
	current := e.Filter(ops, FilterSpec{Week: WeekCurrent})
	next := e.Filter(ops, FilterSpec{Week: WeekNext})

	if len(current) != 7 || len(next) != 7 {
		t.Fatalf("len(current)=%d len(next)=%d, want 7 and 7", len(current), len(next))
	}
	if current[0].Date != "2024-03-10" || current[6].Date != "2024-03-16" {
		t.Errorf("current week = %s..%s", current[0].Date, current[6].Date)
	}
	if next[0].Date != "2024-03-17" || next[6].Date != "2024-03-23" {
		t.Errorf("next week = %s..%s", next[0].Date, next[6].Date)
	}
	seen := map[string]bool{}
	for _, o := range append(current, next...) {
		if seen[o.ID] {
			t.Errorf("%s in both weeks", o.ID)
		}
		seen[o.ID] = true
	}
}

func TestFilterExcludesMalformedFromWindows(t *testing.T) {
	ops := []models.Operation{
		op("bad", models.OperationUnloading, models.PlaceISP, "13/03/2024"),
		op("good", models.OperationUnloading, models.PlaceISP, "2024-03-13"),
	}
	e := testEngine()
	if diff := cmp.Diff([]string{"good"}, opIDs(e.Filter(ops, FilterSpec{Week: WeekCurrent}))); diff != "" {
		t.Errorf("week filter mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"good", "bad"}, opIDs(e.Filter(ops, FilterSpec{}))); diff != "" {
		t.Errorf("unwindowed filter mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	ops := []models.Operation{
		op("b", models.OperationUnloading, models.PlaceISP, "2024-03-14"),
		op("a", models.OperationUnloading, models.PlaceISP, "2024-03-13"),
	}
	_ = testEngine().Filter(ops, FilterSpec{})
	if diff := cmp.Diff([]string{"b", "a"}, opIDs(ops)); diff != "" {
		t.Errorf("input reordered (-want +got):\n%s", diff)
	}
}

func TestFilterSpecValidate(t *testing.T) {
	valid := []FilterSpec{
		{},
		{Status: "todos", Week: "todas"},
		{Status: "completado", Week: "proxima", Date: "2024-03-01", Type: models.OperationUnloading, Place: models.PlacePayPay},
	}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", f, err)
		}
	}
	invalid := []FilterSpec{
		{Status: "archivado"},
		{Week: "pasada"},
		{Date: "mañana"},
		{Type: "Carga"},
		{Place: "MERCADONA"},
	}
	for _, f := range invalid {
		if err := f.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", f)
		}
	}
}

func TestFilterSpecIsZero(t *testing.T) {
	if !(FilterSpec{Status: StatusAny, Week: WeekAny}).IsZero() {
		t.Error("wildcards must be zero")
	}
	if (FilterSpec{Search: "x"}).IsZero() {
		t.Error("search is not zero")
	}
}
