package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/models"
)

// Chart slots of the dashboard view.
const (
	SlotWeeklyStats     = "weekly_stats"
	SlotOperationsWeek  = "operations_week"
	SlotOperationsMonth = "operations_month"
	SlotNotesWeek       = "notes_week"
	SlotNotesMonth      = "notes_month"

	// SlotNotesDistribution is the month's notes per area drawn as a
	// distribution; it shares the notes_month dataset but is its own chart.
	SlotNotesDistribution = "notes_distribution"
)

// Slots lists every chart slot in display order.
var Slots = []string{
	SlotWeeklyStats,
	SlotOperationsWeek,
	SlotOperationsMonth,
	SlotNotesWeek,
	SlotNotesMonth,
	SlotNotesDistribution,
}

// Charts holds one dataset per slot.
type Charts map[string]activity.ChartDataset

// RoleCount is the number of staff members holding one cargo.
type RoleCount struct {
	Role  string `json:"cargo"`
	Count int    `json:"count"`
}

// PersonalSummary counts the staff.
type PersonalSummary struct {
	Total  int         `json:"total"`
	Active int         `json:"active"`
	ByRole []RoleCount `json:"byRole"`
}

// Totals counts the records of each collection.
type Totals struct {
	Notes      int `json:"notas"`
	Operations int `json:"operaciones"`
	Personnel  int `json:"personal"`
}

// View is one refresh of the dashboard.
type View struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Today       activity.Timeline        `json:"today"`
	Upcoming    activity.Timeline        `json:"upcoming"`
	Clients     []activity.ClientSummary `json:"clients"`
	Personal    PersonalSummary          `json:"personal"`
	Charts      Charts                   `json:"charts"`
	Totals      Totals                   `json:"totals"`
}

// SummarizePersonnel counts staff members, active ones, and members per role.
// Members without a role are counted under "".
func SummarizePersonnel(people []models.Person) PersonalSummary {
	sum := PersonalSummary{Total: len(people), ByRole: []RoleCount{}}
	byRole := make(map[string]int)
	for _, p := range people {
		if p.IsActive() {
			sum.Active++
		}
		byRole[p.Role]++
	}
	for role, n := range byRole {
		sum.ByRole = append(sum.ByRole, RoleCount{Role: role, Count: n})
	}
	slices.SortFunc(sum.ByRole, func(a, b RoleCount) int {
		return cmp.Compare(a.Role, b.Role)
	})
	return sum
}
