package api

import (
	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/dashboard"
	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/recordservice"
)

// NoteRequest is the request body for creating or updating a note.
type NoteRequest = recordservice.NoteInput

// OperationRequest is the request body for creating or updating an operation.
type OperationRequest = recordservice.OperationInput

// PersonRequest is the request body for creating or updating a staff member.
type PersonRequest = recordservice.PersonInput

// StatusRequest is the request body of PUT /operaciones/{id}/estado.
type StatusRequest struct {
	Status models.Status `json:"estado" example:"completado" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []models.Note `json:"notas" validate:"required"`
	Total int           `json:"total" example:"7" validate:"required"`
}

// OperationListResponse wraps filtered operation listings with the filter
// that produced them.
type OperationListResponse struct {
	Operations []models.Operation  `json:"operaciones" validate:"required"`
	Total      int                 `json:"total" example:"3" validate:"required"`
	Filter     activity.FilterSpec `json:"filtro" validate:"required"`
}

// PersonListResponse wraps staff listings.
type PersonListResponse struct {
	Personnel []models.Person `json:"personal" validate:"required"`
	Total     int             `json:"total" example:"4" validate:"required"`
}

// DashboardView is the full dashboard response (aliased from the domain layer).
type DashboardView = dashboard.View

// Timeline is a list of dated notes and operations (aliased from the domain layer).
type Timeline = activity.Timeline

// ClientSummary is the recent activity of one client (aliased from the domain layer).
type ClientSummary = activity.ClientSummary

// ChartItem is one rendered chart.
type ChartItem struct {
	Slot    string                `json:"slot" example:"operations_week" validate:"required"`
	Dataset activity.ChartDataset `json:"dataset" validate:"required"`
}

// ChartsResponse lists the charts rendered for the session, in display order.
type ChartsResponse struct {
	Charts []ChartItem `json:"charts" validate:"required"`
}
