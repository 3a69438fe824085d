package api

import (
	"net/http"

	"github.com/starford/tablero/internal/activity"
)

// GetSessionFilter handles GET /api/session/filter.
//
//	@Summary		Stored operation filter of the session
//	@Tags			session
//	@Produce		json
//	@Param			X-Session-ID	header		string	false	"Session id"
//	@Success		200				{object}	activity.FilterSpec
//	@Security		BearerAuth
//	@Router			/session/filter [get]
func (h *Handler) GetSessionFilter(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Get(sessionID(r)).Filter().WithDefaults())
}

// PutSessionFilter handles PUT /api/session/filter.
//
//	@Summary		Replace the session's operation filter
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string				false	"Session id"
//	@Param			body			body		activity.FilterSpec	true	"New filter"
//	@Success		200				{object}	activity.FilterSpec
//	@Failure		400				{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/filter [put]
func (h *Handler) PutSessionFilter(w http.ResponseWriter, r *http.Request) {
	var spec activity.FilterSpec
	if !decodeBody(w, r, &spec) {
		return
	}
	s := h.sessions.Get(sessionID(r))
	if err := s.SetFilter(spec); err != nil {
		writeServiceError(w, "set filter", err)
		return
	}
	writeJSON(w, http.StatusOK, s.Filter().WithDefaults())
}

// DeleteSession handles DELETE /api/session.
//
//	@Summary		Close the session and dispose its charts
//	@Tags			session
//	@Param			X-Session-ID	header	string	false	"Session id"
//	@Success		204				"Session closed"
//	@Security		BearerAuth
//	@Router			/session [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Drop(sessionID(r))
	w.WriteHeader(http.StatusNoContent)
}
