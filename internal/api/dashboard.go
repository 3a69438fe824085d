package api

import (
	"net/http"
	"strconv"
	"time"
)

// Dashboard handles GET /api/dashboard.
//
// The view is produced by a scheduler refresh, so subscribers such as the
// SSE stream see it too. A refresh already running is joined, not repeated.
//
//	@Summary		Full dashboard view
//	@Description	Today's timeline, upcoming days, client summaries, staff counts and every chart.
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	DashboardView
//	@Security		BearerAuth
//	@Router			/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	build := h.dash.Build
	if h.scheduler != nil {
		build = h.scheduler.Refresh
	}
	v, err := build(r.Context())
	if err != nil {
		writeServiceError(w, "build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Today handles GET /api/dashboard/today.
//
//	@Summary		Today's notes and operations
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	Timeline
//	@Security		BearerAuth
//	@Router			/dashboard/today [get]
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	tl, err := h.dash.Today(r.Context())
	if err != nil {
		writeServiceError(w, "today", err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// Upcoming handles GET /api/dashboard/upcoming.
//
//	@Summary		Notes and operations of the next days
//	@Tags			dashboard
//	@Produce		json
//	@Param			days	query		int	false	"Window length in days"	minimum(1)	maximum(366)
//	@Success		200		{object}	Timeline
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dashboard/upcoming [get]
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 366 {
			writeJSON(w, http.StatusBadRequest, errorBody("days must be between 1 and 366"))
			return
		}
		days = n
	}
	tl, err := h.dash.Upcoming(r.Context(), days)
	if err != nil {
		writeServiceError(w, "upcoming", err)
		return
	}
	writeJSON(w, http.StatusOK, tl)
}

// Clients handles GET /api/dashboard/clients.
//
//	@Summary		Recent activity per client
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{array}	ClientSummary
//	@Security		BearerAuth
//	@Router			/dashboard/clients [get]
func (h *Handler) Clients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.dash.Clients(r.Context())
	if err != nil {
		writeServiceError(w, "clients", err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

// Charts handles GET /api/dashboard/charts.
//
// The datasets are rendered into the caller's session, replacing and
// disposing the charts it rendered before.
//
//	@Summary		Chart datasets
//	@Tags			dashboard
//	@Produce		json
//	@Param			X-Session-ID	header		string	false	"Session id"
//	@Success		200				{object}	ChartsResponse
//	@Security		BearerAuth
//	@Router			/dashboard/charts [get]
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	charts, err := h.dash.Charts(r.Context())
	if err != nil {
		writeServiceError(w, "charts", err)
		return
	}
	rendered := h.sessions.Get(sessionID(r)).Render(charts, time.Now())
	resp := ChartsResponse{Charts: make([]ChartItem, 0, len(rendered))}
	for _, c := range rendered {
		resp.Charts = append(resp.Charts, ChartItem{Slot: c.Slot, Dataset: c.Dataset})
	}
	writeJSON(w, http.StatusOK, resp)
}
