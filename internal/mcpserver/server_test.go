package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/recordservice"
	"github.com/starford/tablero/internal/testutil"
)

func testServer(t *testing.T) (*Server, *dashboard.Session) {
	t.Helper()
	loc := testutil.Madrid(t)
	// Wednesday.
	clock := testutil.FixedClock(time.Date(2024, 3, 13, 9, 0, 0, 0, loc))

	records := recordservice.NewService(testutil.TestDB(t),
		recordservice.WithClock(clock),
		recordservice.WithLocation(loc),
	)
	engine := activity.New(activity.WithLocation(loc), activity.WithClock(clock))
	sessions := dashboard.NewSessions(clock)
	t.Cleanup(sessions.Close)
	session := sessions.Get("mcp")

	srv := New(records, dashboard.NewService(records, engine, 0, nil), session)
	srv.now = clock
	return srv, session
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "dashboard_today":
		result, err = srv.dashboardToday(ctx, req)
	case "dashboard_upcoming":
		result, err = srv.dashboardUpcoming(ctx, req)
	case "client_summary":
		result, err = srv.clientSummary(ctx, req)
	case "chart":
		result, err = srv.chart(ctx, req)
	case "filter_operations":
		result, err = srv.filterOperations(ctx, req)
	case "create_operation":
		result, err = srv.createOperation(ctx, req)
	case "create_note":
		result, err = srv.createNote(ctx, req)
	case "set_operation_status":
		result, err = srv.setOperationStatus(ctx, req)
	case "import_snapshot":
		result, err = srv.importSnapshot(ctx, req)
	case "get_vocabulary":
		result, err = srv.getVocabulary(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func resultJSON[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

func TestCreateOperationAndFilter(t *testing.T) {
	srv, _ := testServer(t)

	op := resultJSON[models.Operation](t, callTool(t, srv, "create_operation", map[string]interface{}{
		"tipo":  "Descarga",
		"lugar": "ISP",
		"fecha": "2024-03-13T10:30",
	}))
	if op.Status != models.StatusPending {
		t.Errorf("estado = %q, want pendiente", op.Status)
	}
	callTool(t, srv, "create_operation", map[string]interface{}{
		"tipo": "Clasificación", "lugar": "ATUNLO", "fecha": "2024-03-20",
	})

	got := resultJSON[struct {
		Operations []models.Operation `json:"operaciones"`
		Total      int                `json:"total"`
	}](t, callTool(t, srv, "filter_operations", map[string]interface{}{"lugar": "ISP"}))
	if got.Total != 1 || got.Operations[0].ID != op.ID {
		t.Errorf("filter = %+v", got)
	}
}

func TestCreateOperationInvalid(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_operation", map[string]interface{}{
		"tipo": "Pesca", "lugar": "ISP", "fecha": "2024-03-13",
	})
	if !r.IsError {
		t.Error("expected error for unknown tipo")
	}
}

func TestFilterRemember(t *testing.T) {
	srv, session := testServer(t)
	callTool(t, srv, "create_operation", map[string]interface{}{"tipo": "Descarga", "lugar": "ISP", "fecha": "2024-03-13"})
	callTool(t, srv, "create_operation", map[string]interface{}{"tipo": "Descarga", "lugar": "ISP", "fecha": "2024-03-19"})

	r := callTool(t, srv, "filter_operations", map[string]interface{}{"semana": "proxima", "remember": true})
	if r.IsError {
		t.Fatalf("filter: %s", resultText(r))
	}
	if session.Filter().Week != activity.WeekNext {
		t.Errorf("session filter = %+v", session.Filter())
	}

	got := resultJSON[struct {
		Total int `json:"total"`
	}](t, callTool(t, srv, "filter_operations", map[string]interface{}{}))
	if got.Total != 1 {
		t.Errorf("remembered filter total = %d, want 1", got.Total)
	}

	if r := callTool(t, srv, "filter_operations", map[string]interface{}{"semana": "pasada"}); !r.IsError {
		t.Error("expected error for invalid week")
	}
}

func TestSetOperationStatus(t *testing.T) {
	srv, _ := testServer(t)
	op := resultJSON[models.Operation](t, callTool(t, srv, "create_operation", map[string]interface{}{
		"tipo": "Descarga", "lugar": "FRIGALSA", "fecha": "2024-03-13",
	}))

	got := resultJSON[models.Operation](t, callTool(t, srv, "set_operation_status", map[string]interface{}{
		"id": op.ID, "estado": "completado",
	}))
	if got.Status != models.StatusCompleted {
		t.Errorf("estado = %q", got.Status)
	}
	if r := callTool(t, srv, "set_operation_status", map[string]interface{}{"id": "missing", "estado": "completado"}); !r.IsError {
		t.Error("expected error for missing operation")
	}
}

func TestDashboardToday(t *testing.T) {
	srv, _ := testServer(t)
	callTool(t, srv, "create_note", map[string]interface{}{
		"area": "Túnel", "fecha": "2024-03-13T08:00", "contenido": "Temperatura estable",
	})
	callTool(t, srv, "create_operation", map[string]interface{}{"tipo": "Descarga", "lugar": "ISP", "fecha": "2024-03-13T10:00"})
	callTool(t, srv, "create_operation", map[string]interface{}{"tipo": "Descarga", "lugar": "ISP", "fecha": "2024-03-14"})

	groups := resultJSON[[]struct {
		Day   string            `json:"day"`
		Items []json.RawMessage `json:"items"`
	}](t, callTool(t, srv, "dashboard_today", nil))
	if len(groups) != 1 || groups[0].Day != "2024-03-13" || len(groups[0].Items) != 2 {
		t.Errorf("today = %+v", groups)
	}

	upcoming := resultJSON[[]struct {
		Day string `json:"day"`
	}](t, callTool(t, srv, "dashboard_upcoming", map[string]interface{}{"days": 2}))
	if len(upcoming) != 1 || upcoming[0].Day != "2024-03-14" {
		t.Errorf("upcoming = %+v", upcoming)
	}
}

func TestCreateNoteRequiresContent(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "create_note", map[string]interface{}{"area": "Túnel", "fecha": "2024-03-13"})
	if !r.IsError {
		t.Error("expected error for missing contenido")
	}
}

func TestChartReplacesSessionSlot(t *testing.T) {
	srv, session := testServer(t)
	callTool(t, srv, "create_operation", map[string]interface{}{"tipo": "Descarga", "lugar": "ISP", "fecha": "2024-03-12"})

	ds := resultJSON[activity.ChartDataset](t, callTool(t, srv, "chart", map[string]interface{}{"slot": dashboard.SlotOperationsWeek}))
	if ds.Total(string(models.OperationUnloading)) != 1 {
		t.Errorf("dataset = %+v", ds)
	}
	first, ok := session.Chart(dashboard.SlotOperationsWeek)
	if !ok {
		t.Fatal("chart not held by session")
	}

	callTool(t, srv, "chart", map[string]interface{}{"slot": dashboard.SlotOperationsWeek})
	if !first.Disposed() {
		t.Error("previous chart should be disposed")
	}
	if r := callTool(t, srv, "chart", map[string]interface{}{"slot": "pie"}); !r.IsError {
		t.Error("expected error for unknown slot")
	}
}

const exportDoc = `{"version":"1.0","timestamp":"2024-03-13T08:00:00.000Z","stores":{"operaciones":[{"id":"o1","tipo":"Descarga","lugar":"ISP","fecha":"2024-03-11"}]}}`

func TestImportSnapshotJSONAndDataURI(t *testing.T) {
	srv, _ := testServer(t)

	res := resultJSON[recordservice.ImportResult](t, callTool(t, srv, "import_snapshot", map[string]interface{}{"source": exportDoc}))
	if res.Records != 1 {
		t.Errorf("records = %d, want 1", res.Records)
	}

	uri := "data:application/json;base64," + base64.StdEncoding.EncodeToString([]byte(exportDoc))
	res = resultJSON[recordservice.ImportResult](t, callTool(t, srv, "import_snapshot", map[string]interface{}{"source": uri}))
	if len(res.Collections) != 1 || res.Collections[0] != models.CollectionOperations {
		t.Errorf("collections = %v", res.Collections)
	}

	clients := resultJSON[[]struct {
		Place models.Place `json:"place"`
		Total int          `json:"totalInWindow"`
	}](t, callTool(t, srv, "client_summary", nil))
	if len(clients) != 1 || clients[0].Place != models.PlaceISP || clients[0].Total != 1 {
		t.Errorf("clients = %+v", clients)
	}
}

func TestImportSnapshotRejected(t *testing.T) {
	srv, _ := testServer(t)
	for _, src := range []string{
		"http://127.0.0.1/backup.json",
		"ftp://example.com/backup.json",
		"data:image/png;base64,AAAA",
		`{"version":"1.0"}`,
	} {
		if r := callTool(t, srv, "import_snapshot", map[string]interface{}{"source": src}); !r.IsError {
			t.Errorf("source %q: expected error", src)
		}
	}
}

func TestVocabulary(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_vocabulary", nil))
	for _, want := range []string{"Clasificación", "PAY-PAY", "proxima", "weekly_stats"} {
		if !strings.Contains(text, want) {
			t.Errorf("vocabulary missing %q", want)
		}
	}
}
