package api

import (
	"net/http"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/models"
)

// filterParams are the query parameters of GET /api/operaciones.
var filterParams = []string{"fecha", "tipo", "lugar", "persona", "estado", "semana", "busqueda"}

// filterFromQuery reads a FilterSpec from the query string. ok is false when
// none of the filter parameters is present.
func filterFromQuery(r *http.Request) (spec activity.FilterSpec, ok bool) {
	q := r.URL.Query()
	for _, p := range filterParams {
		if q.Has(p) {
			ok = true
			break
		}
	}
	if !ok {
		return spec, false
	}
	return activity.FilterSpec{
		Date:   q.Get("fecha"),
		Type:   models.OperationType(q.Get("tipo")),
		Place:  models.Place(q.Get("lugar")),
		Person: q.Get("persona"),
		Status: q.Get("estado"),
		Week:   q.Get("semana"),
		Search: q.Get("busqueda"),
	}, true
}

// ListOperations handles GET /api/operaciones.
//
// Without filter parameters the session's stored filter applies.
//
//	@Summary		List operations matching a filter
//	@Tags			operaciones
//	@Produce		json
//	@Param			fecha		query		string	false	"Day (YYYY-MM-DD)"
//	@Param			tipo		query		string	false	"Operation type"	Enums(Descarga, Clasificación)
//	@Param			lugar		query		string	false	"Client"			Enums(FRIGALSA, ISP, PAY-PAY, ATUNLO)
//	@Param			persona		query		string	false	"Assigned person id"
//	@Param			estado		query		string	false	"Status"			Enums(todos, pendiente, completado)
//	@Param			semana		query		string	false	"Week"				Enums(todas, actual, proxima)
//	@Param			busqueda	query		string	false	"Text in description or client"
//	@Param			X-Session-ID	header	string	false	"Session id"
//	@Success		200			{object}	OperationListResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones [get]
func (h *Handler) ListOperations(w http.ResponseWriter, r *http.Request) {
	spec, ok := filterFromQuery(r)
	if ok {
		if err := spec.Validate(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	} else {
		spec = h.sessions.Get(sessionID(r)).Filter()
	}
	ops, err := h.dash.Filter(r.Context(), spec)
	if err != nil {
		writeServiceError(w, "list operations", err)
		return
	}
	writeJSON(w, http.StatusOK, OperationListResponse{
		Operations: ops,
		Total:      len(ops),
		Filter:     spec.WithDefaults(),
	})
}

// GetOperation handles GET /api/operaciones/{id}.
//
//	@Summary		Get a single operation
//	@Tags			operaciones
//	@Produce		json
//	@Param			id	path		string	true	"Operation id"
//	@Success		200	{object}	models.Operation
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones/{id} [get]
func (h *Handler) GetOperation(w http.ResponseWriter, r *http.Request) {
	op, err := h.records.GetOperation(r.Context(), recordID(r))
	if err != nil {
		writeServiceError(w, "get operation", err)
		return
	}
	setETag(w, op)
	writeJSON(w, http.StatusOK, op)
}

// CreateOperation handles POST /api/operaciones.
//
//	@Summary		Create a pending operation
//	@Tags			operaciones
//	@Accept			json
//	@Produce		json
//	@Param			body	body		OperationRequest	true	"Operation to create"
//	@Success		201		{object}	models.Operation
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones [post]
func (h *Handler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var req OperationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	op, err := h.records.CreateOperation(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create operation", err)
		return
	}
	setETag(w, op)
	writeJSON(w, http.StatusCreated, op)
}

// UpdateOperation handles PUT /api/operaciones/{id}.
//
//	@Summary		Update an operation, keeping its status
//	@Tags			operaciones
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string				true	"Operation id"
//	@Param			If-Match	header		string				false	"ETag of the version being replaced"
//	@Param			body		body		OperationRequest	true	"Updated operation"
//	@Success		200			{object}	models.Operation
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones/{id} [put]
func (h *Handler) UpdateOperation(w http.ResponseWriter, r *http.Request) {
	var req OperationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	op, err := h.records.UpdateOperation(r.Context(), recordID(r), req, ifMatch(r))
	if err != nil {
		writeServiceError(w, "update operation", err)
		return
	}
	setETag(w, op)
	writeJSON(w, http.StatusOK, op)
}

// SetOperationStatus handles PUT /api/operaciones/{id}/estado.
//
//	@Summary		Change the status of an operation
//	@Tags			operaciones
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Operation id"
//	@Param			body	body		StatusRequest	true	"New status"
//	@Success		200		{object}	models.Operation
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones/{id}/estado [put]
func (h *Handler) SetOperationStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	op, err := h.records.SetOperationStatus(r.Context(), recordID(r), req.Status)
	if err != nil {
		writeServiceError(w, "set operation status", err)
		return
	}
	setETag(w, op)
	writeJSON(w, http.StatusOK, op)
}

// DeleteOperation handles DELETE /api/operaciones/{id}.
//
//	@Summary		Delete an operation
//	@Tags			operaciones
//	@Param			id	path	string	true	"Operation id"
//	@Success		204	"Operation deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/operaciones/{id} [delete]
func (h *Handler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteOperation(r.Context(), recordID(r)); err != nil {
		writeServiceError(w, "delete operation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
