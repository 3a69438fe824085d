package recordservice

import (
	"context"

	"github.com/starford/tablero/internal/calendar"
	"github.com/starford/tablero/internal/models"
)

var exampleOperations = []struct {
	typ   models.OperationType
	place models.Place
	desc  string
}{
	{models.OperationUnloading, models.PlaceFrigalsa, "Descarga matutina"},
	{models.OperationClassification, models.PlaceFrigalsa, "Clasificación estándar"},
	{models.OperationUnloading, models.PlaceISP, "Descarga vespertina"},
	{models.OperationClassification, models.PlacePayPay, "Clasificación especial"},
	{models.OperationUnloading, models.PlaceAtunlo, "Descarga programada"},
	{models.OperationClassification, models.PlaceISP, "Clasificación urgente"},
	{models.OperationUnloading, models.PlacePayPay, "Descarga especial"},
}

var exampleNotes = []struct {
	area    models.Area
	content string
}{
	{models.AreaTunnel, "Revisión de temperatura"},
	{models.AreaPacking, "Control de calidad"},
	{models.AreaGlazing, "Mantenimiento programado"},
	{models.AreaCutting, "Ajuste de máquinas"},
	{models.AreaTreatment, "Inspección de proceso"},
	{models.AreaTunnel, "Limpieza general"},
	{models.AreaPacking, "Cambio de turno"},
}

// SeedExamples fills empty operation and note collections with one week of
// example records, the last one dated today. It returns the number of records
// written.
func (s *Service) SeedExamples(ctx context.Context) (int, error) {
	today := calendar.Of(s.now().In(s.loc)).Day()
	dateOf := func(i, n int) string {
		return today.AddDays(i - (n - 1)).Key()
	}
	written := 0

	count, err := s.store.Count(ctx, models.CollectionOperations)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		for i, ex := range exampleOperations {
			op := models.Operation{
				ID:          s.newID(),
				Type:        ex.typ,
				Place:       ex.place,
				Date:        dateOf(i, len(exampleOperations)),
				Description: ex.desc,
				PersonIDs:   []string{},
				Status:      models.StatusPending,
				CreatedAt:   s.now().UTC(),
			}
			if err := s.store.PutOperation(ctx, op); err != nil {
				return written, err
			}
			written++
		}
		s.notify(models.CollectionOperations, models.ChangeCreated, "", len(exampleOperations))
	}

	count, err = s.store.Count(ctx, models.CollectionNotes)
	if err != nil {
		return written, err
	}
	if count == 0 {
		for i, ex := range exampleNotes {
			n := models.Note{
				ID:           s.newID(),
				Area:         ex.area,
				Date:         dateOf(i, len(exampleNotes)),
				Content:      ex.content,
				PersonIDs:    []string{},
				PersonsNames: []string{},
				CreatedAt:    s.now().UTC(),
			}
			if err := s.store.PutNote(ctx, n); err != nil {
				return written, err
			}
			written++
		}
		s.notify(models.CollectionNotes, models.ChangeCreated, "", len(exampleNotes))
	}
	return written, nil
}
