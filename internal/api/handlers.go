package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/recordservice"
)

// Handler holds API route handlers.
type Handler struct {
	records   *recordservice.Service
	dash      *dashboard.Service
	scheduler *dashboard.Scheduler
	sessions  *dashboard.Sessions
}

// NewHandler creates a new Handler. A nil scheduler makes GET /dashboard
// build views directly instead of refreshing through the scheduler.
func NewHandler(records *recordservice.Service, dash *dashboard.Service, scheduler *dashboard.Scheduler, sessions *dashboard.Sessions) *Handler {
	return &Handler{records: records, dash: dash, scheduler: scheduler, sessions: sessions}
}

func recordID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// ifMatch returns the If-Match header without surrounding quotes.
func ifMatch(r *http.Request) string {
	return strings.Trim(r.Header.Get("If-Match"), `"`)
}

func setETag(w http.ResponseWriter, v any) {
	if tag := recordservice.ETag(v); tag != "" {
		w.Header().Set("ETag", `"`+tag+`"`)
	}
}

// ListNotes handles GET /api/notas.
//
//	@Summary		List every note
//	@Tags			notas
//	@Produce		json
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notas [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.records.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: notes, Total: len(notes)})
}

// GetNote handles GET /api/notas/{id}.
//
//	@Summary		Get a single note
//	@Tags			notas
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notas/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.records.GetNote(r.Context(), recordID(r))
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	setETag(w, n)
	writeJSON(w, http.StatusOK, n)
}

// CreateNote handles POST /api/notas.
//
//	@Summary		Create a note
//	@Tags			notas
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteRequest	true	"Note to create"
//	@Success		201		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notas [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := h.records.CreateNote(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create note", err)
		return
	}
	setETag(w, n)
	writeJSON(w, http.StatusCreated, n)
}

// UpdateNote handles PUT /api/notas/{id}.
//
//	@Summary		Update a note with optimistic concurrency
//	@Tags			notas
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string		true	"Note id"
//	@Param			If-Match	header		string		false	"ETag of the version being replaced"
//	@Param			body		body		NoteRequest	true	"Updated note"
//	@Success		200			{object}	models.Note
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notas/{id} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	n, err := h.records.UpdateNote(r.Context(), recordID(r), req, ifMatch(r))
	if err != nil {
		writeServiceError(w, "update note", err)
		return
	}
	setETag(w, n)
	writeJSON(w, http.StatusOK, n)
}

// DeleteNote handles DELETE /api/notas/{id}.
//
//	@Summary		Delete a note
//	@Tags			notas
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notas/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteNote(r.Context(), recordID(r)); err != nil {
		writeServiceError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
