package recordservice

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

// OperationInput is the writable part of an operation.
type OperationInput struct {
	Type        models.OperationType `json:"tipo"`
	Place       models.Place         `json:"lugar"`
	Date        string               `json:"fecha"`
	Description string               `json:"descripcion"`
	PersonIDs   []string             `json:"personaIds"`
}

// Validate implements validation.Validatable.
func (in OperationInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Type, validation.Required,
			validation.In(models.OperationUnloading, models.OperationClassification)),
		validation.Field(&in.Place, validation.Required,
			validation.In(models.PlaceFrigalsa, models.PlaceISP, models.PlacePayPay, models.PlaceAtunlo)),
		validation.Field(&in.Date, validation.Required, validation.By(validDate)),
		validation.Field(&in.PersonIDs, validation.Each(validation.Required)),
	)
}

// NoteInput is the writable part of a note.
type NoteInput struct {
	Area      models.Area `json:"area"`
	Date      string      `json:"fecha"`
	Content   string      `json:"contenido"`
	PersonIDs []string    `json:"personaIds"`
}

// Validate implements validation.Validatable.
func (in NoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Area, validation.Required),
		validation.Field(&in.Date, validation.Required, validation.By(validDate)),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.PersonIDs, validation.Each(validation.Required)),
	)
}

// PersonInput is the writable part of a staff member.
type PersonInput struct {
	Name   string `json:"nombre"`
	Role   string `json:"cargo"`
	Active *bool  `json:"activo"`
}

// Validate implements validation.Validatable.
func (in PersonInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Role, validation.Length(0, 120)),
	)
}

func validDate(v any) error {
	s, _ := v.(string)
	if s == "" {
		return nil
	}
	if !calendar.Parse(s, nil).Valid() {
		return validation.NewError("validation_date_invalid", "must be a date (YYYY-MM-DD)")
	}
	return nil
}
