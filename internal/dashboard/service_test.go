package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/models"
)

type fakeSource struct {
	notes  []models.Note
	ops    []models.Operation
	people []models.Person
	err    error
}

func (f *fakeSource) ListNotes(context.Context) ([]models.Note, error) { return f.notes, f.err }
func (f *fakeSource) ListOperations(context.Context) ([]models.Operation, error) {
	return f.ops, f.err
}
func (f *fakeSource) ListPersonnel(context.Context) ([]models.Person, error) {
	return f.people, f.err
}

func testEngine(t *testing.T) *activity.Engine {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatal(err)
	}
	// Wednesday.
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, loc)
	return activity.New(
		activity.WithLocation(loc),
		activity.WithClock(func() time.Time { return now }),
	)
}

func boolPtr(b bool) *bool { return &b }

func sampleSource() *fakeSource {
	return &fakeSource{
		ops: []models.Operation{
			{ID: "o1", Type: models.OperationUnloading, Place: models.PlaceISP, Date: "2024-03-13T08:00"},
			{ID: "o2", Type: models.OperationClassification, Place: models.PlaceFrigalsa, Date: "2024-03-11"},
			{ID: "o3", Type: models.OperationUnloading, Place: models.PlaceAtunlo, Date: "2024-03-15"},
			{ID: "o4", Type: models.OperationUnloading, Place: models.PlaceISP, Date: "2024-03-02", Status: models.StatusCompleted},
			{ID: "bad", Type: models.OperationUnloading, Place: models.PlaceISP, Date: "no-date"},
		},
		notes: []models.Note{
			{ID: "n1", Area: models.AreaTunnel, Date: "2024-03-13", Content: "Temperatura"},
			{ID: "n2", Area: models.AreaElaboration, Date: "2024-03-12", Content: "Lote 4"},
			{ID: "n3", Area: models.AreaGlazing, Date: "2024-03-16", Content: "Revisión"},
		},
		people: []models.Person{
			{ID: "p1", Name: "Ana", Role: "Encargada"},
			{ID: "p2", Name: "Luis", Role: "Operario", Active: boolPtr(false)},
			{ID: "p3", Name: "Marta", Role: "Operario"},
		},
	}
}

func TestBuild(t *testing.T) {
	svc := NewService(sampleSource(), testEngine(t), 0, nil)
	v, err := svc.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if diff := cmp.Diff([]string{"o1"}, ids(v.Today.Operations)); diff != "" {
		t.Errorf("today operations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"n1"}, ids(v.Today.Notes)); diff != "" {
		t.Errorf("today notes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"o3"}, ids(v.Upcoming.Operations)); diff != "" {
		t.Errorf("upcoming operations mismatch (-want +got):\n%s", diff)
	}

	var places []models.Place
	for _, c := range v.Clients {
		places = append(places, c.Place)
	}
	// o3 (ATUNLO) lies after today and is outside the trailing window.
	want := []models.Place{models.PlaceISP, models.PlaceFrigalsa}
	if diff := cmp.Diff(want, places); diff != "" {
		t.Errorf("client order mismatch (-want +got):\n%s", diff)
	}

	wantPersonal := PersonalSummary{
		Total:  3,
		Active: 2,
		ByRole: []RoleCount{{Role: "Encargada", Count: 1}, {Role: "Operario", Count: 2}},
	}
	if diff := cmp.Diff(wantPersonal, v.Personal); diff != "" {
		t.Errorf("personal mismatch (-want +got):\n%s", diff)
	}

	if got := len(v.Charts); got != len(Slots) {
		t.Fatalf("charts = %d, want %d", got, len(Slots))
	}
	for slot, ds := range v.Charts {
		if !ds.Aligned() {
			t.Errorf("chart %s is not aligned", slot)
		}
	}
	// Week to date is Sun 10 .. Wed 13: o1 and o2; o3 lies in the future.
	if got := v.Charts[SlotOperationsWeek].Total("Descarga") + v.Charts[SlotOperationsWeek].Total("Clasificación"); got != 2 {
		t.Errorf("operations this week = %d, want 2", got)
	}
	if got := v.Charts[SlotOperationsMonth].Total("Descarga"); got != 2 {
		t.Errorf("unloadings this month = %d, want 2", got)
	}
	if diff := cmp.Diff(v.Charts[SlotNotesMonth], v.Charts[SlotNotesDistribution]); diff != "" {
		t.Errorf("notes distribution differs from notes_month (-month +distribution):\n%s", diff)
	}
	if diff := cmp.Diff(Totals{Notes: 3, Operations: 5, Personnel: 3}, v.Totals); diff != "" {
		t.Errorf("totals mismatch (-want +got):\n%s", diff)
	}
}

func TestUpcomingDaysOverride(t *testing.T) {
	svc := NewService(sampleSource(), testEngine(t), 1, nil)
	tl, err := svc.Upcoming(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if tl.Len() != 0 {
		t.Errorf("1-day window should be empty, got %d items", tl.Len())
	}
	tl, err = svc.Upcoming(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"o3"}, ids(tl.Operations)); diff != "" {
		t.Errorf("upcoming mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterUsesEngine(t *testing.T) {
	svc := NewService(sampleSource(), testEngine(t), 0, nil)
	ops, err := svc.Filter(context.Background(), activity.FilterSpec{Place: models.PlaceISP, Status: string(models.StatusPending)})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, o := range ops {
		got = append(got, o.ID)
	}
	if diff := cmp.Diff([]string{"o1", "bad"}, got); diff != "" {
		t.Errorf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestChartUnknownSlot(t *testing.T) {
	svc := NewService(sampleSource(), testEngine(t), 0, nil)
	if _, err := svc.Chart(context.Background(), "pie"); err == nil {
		t.Error("expected error for unknown slot")
	}
	ds, err := svc.Chart(context.Background(), SlotWeeklyStats)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(activity.WeekdayLabels, ds.Labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPropagatesSourceError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeSource{err: boom}, testEngine(t), 0, nil)
	if _, err := svc.Build(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestSummarizePersonnelEmpty(t *testing.T) {
	got := SummarizePersonnel(nil)
	if diff := cmp.Diff(PersonalSummary{ByRole: []RoleCount{}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func ids(items []activity.Item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
