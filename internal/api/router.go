package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/recordservice"
)

// Deps holds everything the API routes need.
type Deps struct {
	Records   *recordservice.Service
	Dashboard *dashboard.Service
	Sessions  *dashboard.Sessions

	// Scheduler, if non-nil, serves GET /dashboard so a manual fetch is a
	// refresh pass shared with the timed and change-driven ones.
	Scheduler *dashboard.Scheduler

	// AuthEnabled controls whether Bearer token auth is enforced.
	AuthEnabled bool
	Token       string

	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler

	// Now replaces time.Now for export timestamps.
	Now func() time.Time
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(d Deps) chi.Router {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := NewHandler(d.Records, d.Dashboard, d.Scheduler, d.Sessions)
	th := NewTransferHandler(d.Records, d.Now)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(d.AuthEnabled, d.Token))

	// Notes CRUD.
	r.Route("/notas", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)
		r.Get("/{id}", h.GetNote)
		r.Put("/{id}", h.UpdateNote)
		r.Delete("/{id}", h.DeleteNote)
	})

	// Operations CRUD and status transitions.
	r.Route("/operaciones", func(r chi.Router) {
		r.Get("/", h.ListOperations)
		r.Post("/", h.CreateOperation)
		r.Get("/{id}", h.GetOperation)
		r.Put("/{id}", h.UpdateOperation)
		r.Delete("/{id}", h.DeleteOperation)
		r.Put("/{id}/estado", h.SetOperationStatus)
	})

	// Personnel CRUD.
	r.Route("/personal", func(r chi.Router) {
		r.Get("/", h.ListPersonnel)
		r.Post("/", h.CreatePerson)
		r.Get("/{id}", h.GetPerson)
		r.Put("/{id}", h.UpdatePerson)
		r.Delete("/{id}", h.DeletePerson)
	})

	// Dashboard views.
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/", h.Dashboard)
		r.Get("/today", h.Today)
		r.Get("/upcoming", h.Upcoming)
		r.Get("/clients", h.Clients)
		r.Get("/charts", h.Charts)
	})

	// Per-client session state.
	r.Get("/session/filter", h.GetSessionFilter)
	r.Put("/session/filter", h.PutSessionFilter)
	r.Delete("/session", h.DeleteSession)

	// Bulk export and import.
	r.Get("/export", th.Export)
	r.Post("/import", th.Import)

	// SSE endpoint (protected by same auth middleware).
	if d.Events != nil {
		r.Get("/events", d.Events.ServeHTTP)
	}

	return r
}
