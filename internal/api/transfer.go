package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/starford/tablero/internal/recordservice"
	"github.com/starford/tablero/internal/snapshot"
)

const maxImportBytes = 50 << 20 // 50 MB

// TransferHandler serves bulk export and import.
type TransferHandler struct {
	records *recordservice.Service
	now     func() time.Time
}

// NewTransferHandler creates a handler exporting and importing through records.
func NewTransferHandler(records *recordservice.Service, now func() time.Time) *TransferHandler {
	return &TransferHandler{records: records, now: now}
}

// Export handles GET /api/export.
//
//	@Summary		Download every collection as an export document
//	@Tags			transfer
//	@Produce		json
//	@Success		200	{object}	snapshot.Snapshot
//	@Security		BearerAuth
//	@Router			/export [get]
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.records.Export(r.Context())
	if err != nil {
		writeServiceError(w, "export", err)
		return
	}
	data, err := snapshot.Encode(snap)
	if err != nil {
		writeServiceError(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snapshot.FileName(h.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Import handles POST /api/import (multipart/form-data field "file", or a
// raw JSON body).
//
//	@Summary		Replace collections from an export document
//	@Tags			transfer
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			file	formData	file	false	"Export document"
//	@Success		200		{object}	recordservice.ImportResult
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/import [post]
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	var (
		data   []byte
		source = "upload"
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
			return
		}
		defer file.Close()
		if data, err = io.ReadAll(file); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
			return
		}
		source = filepath.Base(header.Filename)
	} else {
		var err error
		if data, err = io.ReadAll(r.Body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("body too large"))
			return
		}
	}

	res, err := h.records.Import(r.Context(), data, source)
	if err != nil {
		writeServiceError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
