// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Tablero dashboard tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/recordservice"
)

// VocabularyURI is the resource describing the record format.
const VocabularyURI = "tablero://vocabulary"

// Server wraps the MCP server with Tablero tools.
type Server struct {
	mcp     *server.MCPServer
	records *recordservice.Service
	dash    *dashboard.Service
	session *dashboard.Session
	now     func() time.Time
}

// New creates a new MCP server with all Tablero tools registered. The stdio
// transport has a single client, so every tool shares one session.
func New(records *recordservice.Service, dash *dashboard.Service, session *dashboard.Session) *Server {
	s := &Server{records: records, dash: dash, session: session, now: time.Now}

	s.mcp = server.NewMCPServer(
		"Tablero",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("dashboard_today",
		mcp.WithDescription("Notes and operations dated today, sorted by time."),
	), s.dashboardToday)

	s.mcp.AddTool(mcp.NewTool("dashboard_upcoming",
		mcp.WithDescription("Notes and operations dated after today, within the next days."),
		mcp.WithNumber("days", mcp.Description("Window length in days (default from configuration)")),
	), s.dashboardUpcoming)

	s.mcp.AddTool(mcp.NewTool("client_summary",
		mcp.WithDescription("Recent activity per client: operation count in the trailing window, "+
			"most recent date and a sample of the latest operations."),
	), s.clientSummary)

	s.mcp.AddTool(mcp.NewTool("chart",
		mcp.WithDescription("Dataset of one dashboard chart."),
		mcp.WithString("slot", mcp.Required(), mcp.Enum(dashboard.Slots...), mcp.Description("Chart slot")),
	), s.chart)

	s.mcp.AddTool(mcp.NewTool("filter_operations",
		mcp.WithDescription("List operations matching a filter. Without filter arguments the "+
			"remembered filter applies. Read "+VocabularyURI+" for the accepted values."),
		mcp.WithString("fecha", mcp.Description("Day (YYYY-MM-DD)")),
		mcp.WithString("tipo", mcp.Description("Operation type")),
		mcp.WithString("lugar", mcp.Description("Client")),
		mcp.WithString("persona", mcp.Description("Assigned person id")),
		mcp.WithString("estado", mcp.Description("todos, pendiente or completado")),
		mcp.WithString("semana", mcp.Description("todas, actual or proxima")),
		mcp.WithString("busqueda", mcp.Description("Text to find in description or client")),
		mcp.WithBoolean("remember", mcp.Description("Keep this filter for later calls")),
	), s.filterOperations)

	s.mcp.AddTool(mcp.NewTool("create_operation",
		mcp.WithDescription("Create a pending operation."),
		mcp.WithString("tipo", mcp.Required(), mcp.Description("Descarga or Clasificación")),
		mcp.WithString("lugar", mcp.Required(), mcp.Description("FRIGALSA, ISP, PAY-PAY or ATUNLO")),
		mcp.WithString("fecha", mcp.Required(), mcp.Description("Date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")),
		mcp.WithString("descripcion", mcp.Description("Free text")),
		mcp.WithArray("personaIds", mcp.WithStringItems(), mcp.Description("Assigned person ids")),
	), s.createOperation)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a note for a work area."),
		mcp.WithString("area", mcp.Required(), mcp.Description("Work area, e.g. Túnel or Elaboración")),
		mcp.WithString("fecha", mcp.Required(), mcp.Description("Date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")),
		mcp.WithString("contenido", mcp.Required(), mcp.Description("Note text")),
		mcp.WithArray("personaIds", mcp.WithStringItems(), mcp.Description("Person ids")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("set_operation_status",
		mcp.WithDescription("Mark an operation pendiente or completado."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Operation id")),
		mcp.WithString("estado", mcp.Required(), mcp.Enum(string(models.StatusPending), string(models.StatusCompleted))),
	), s.setOperationStatus)

	s.mcp.AddTool(mcp.NewTool("import_snapshot",
		mcp.WithDescription("Replace collections from an export document. The source is the JSON "+
			"text itself, a base64 data URI or an http(s) URL."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Export document, data URI or URL")),
	), s.importSnapshot)

	s.mcp.AddTool(mcp.NewTool("get_vocabulary",
		mcp.WithDescription("Returns the record format and the accepted values of every field."),
	), s.getVocabulary)

	s.mcp.AddResource(
		mcp.NewResource(VocabularyURI, "Record Vocabulary",
			mcp.WithResourceDescription("Record format and accepted values for notes, operations and filters."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readVocabularyResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) dashboardToday(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tl, err := s.dash.Today(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tl.ByDay()), nil
}

func (s *Server) dashboardUpcoming(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 0)
	if days < 0 {
		return mcp.NewToolResultError("days must be positive"), nil
	}
	tl, err := s.dash.Upcoming(ctx, days)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tl.ByDay()), nil
}

func (s *Server) clientSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clients, err := s.dash.Clients(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(clients), nil
}

func (s *Server) chart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slot, err := req.RequireString("slot")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ds, err := s.dash.Chart(ctx, slot)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.session.ReplaceChart(dashboard.NewChart(slot, ds, s.now()))
	return jsonResult(ds), nil
}

func (s *Server) filterOperations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec := activity.FilterSpec{
		Date:   req.GetString("fecha", ""),
		Type:   models.OperationType(req.GetString("tipo", "")),
		Place:  models.Place(req.GetString("lugar", "")),
		Person: req.GetString("persona", ""),
		Status: req.GetString("estado", ""),
		Week:   req.GetString("semana", ""),
		Search: req.GetString("busqueda", ""),
	}
	if spec.IsZero() {
		spec = s.session.Filter()
	} else if err := spec.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.GetBool("remember", false) {
		if err := s.session.SetFilter(spec); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	ops, err := s.dash.Filter(ctx, spec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"filtro":      spec.WithDefaults(),
		"operaciones": ops,
		"total":       len(ops),
	}), nil
}

func (s *Server) createOperation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := recordservice.OperationInput{
		Type:        models.OperationType(req.GetString("tipo", "")),
		Place:       models.Place(req.GetString("lugar", "")),
		Date:        req.GetString("fecha", ""),
		Description: req.GetString("descripcion", ""),
		PersonIDs:   req.GetStringSlice("personaIds", nil),
	}
	op, err := s.records.CreateOperation(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(op), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("contenido")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := recordservice.NoteInput{
		Area:      models.Area(req.GetString("area", "")),
		Date:      req.GetString("fecha", ""),
		Content:   content,
		PersonIDs: req.GetStringSlice("personaIds", nil),
	}
	n, err := s.records.CreateNote(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(n), nil
}

func (s *Server) setOperationStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	status, err := req.RequireString("estado")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	op, err := s.records.SetOperationStatus(ctx, id, models.Status(status))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(op), nil
}

func (s *Server) getVocabulary(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(Vocabulary), nil
}

func (s *Server) readVocabularyResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      VocabularyURI,
			MIMEType: "text/markdown",
			Text:     Vocabulary,
		},
	}, nil
}
