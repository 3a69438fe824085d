package api

import "net/http"

// ListPersonnel handles GET /api/personal.
//
//	@Summary		List every staff member
//	@Tags			personal
//	@Produce		json
//	@Success		200	{object}	PersonListResponse
//	@Security		BearerAuth
//	@Router			/personal [get]
func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	people, err := h.records.ListPersonnel(r.Context())
	if err != nil {
		writeServiceError(w, "list personnel", err)
		return
	}
	writeJSON(w, http.StatusOK, PersonListResponse{Personnel: people, Total: len(people)})
}

// GetPerson handles GET /api/personal/{id}.
//
//	@Summary		Get a staff member
//	@Tags			personal
//	@Produce		json
//	@Param			id	path		string	true	"Person id"
//	@Success		200	{object}	models.Person
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/personal/{id} [get]
func (h *Handler) GetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := h.records.GetPerson(r.Context(), recordID(r))
	if err != nil {
		writeServiceError(w, "get person", err)
		return
	}
	setETag(w, p)
	writeJSON(w, http.StatusOK, p)
}

// CreatePerson handles POST /api/personal.
//
//	@Summary		Add a staff member
//	@Tags			personal
//	@Accept			json
//	@Produce		json
//	@Param			body	body		PersonRequest	true	"Staff member"
//	@Success		201		{object}	models.Person
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/personal [post]
func (h *Handler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.records.CreatePerson(r.Context(), req)
	if err != nil {
		writeServiceError(w, "create person", err)
		return
	}
	setETag(w, p)
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePerson handles PUT /api/personal/{id}.
//
//	@Summary		Update a staff member
//	@Tags			personal
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string			true	"Person id"
//	@Param			If-Match	header		string			false	"ETag of the version being replaced"
//	@Param			body		body		PersonRequest	true	"Staff member"
//	@Success		200			{object}	models.Person
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Failure		409			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/personal/{id} [put]
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req PersonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.records.UpdatePerson(r.Context(), recordID(r), req, ifMatch(r))
	if err != nil {
		writeServiceError(w, "update person", err)
		return
	}
	setETag(w, p)
	writeJSON(w, http.StatusOK, p)
}

// DeletePerson handles DELETE /api/personal/{id}.
//
//	@Summary		Remove a staff member
//	@Tags			personal
//	@Param			id	path	string	true	"Person id"
//	@Success		204	"Person deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/personal/{id} [delete]
func (h *Handler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeletePerson(r.Context(), recordID(r)); err != nil {
		writeServiceError(w, "delete person", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
