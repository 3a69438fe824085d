// Package recordservice applies the write rules of the record collections on
// top of a store.RecordStore and reports every mutation to a Notifier.
package recordservice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tablero/internal/activity"
	"github.com/starford/tablero/internal/apperr"
	"github.com/starford/tablero/internal/checksum"
	"github.com/starford/tablero/internal/models"
	"github.com/starford/tablero/internal/store"
)

// Notifier receives a Change after every successful mutation.
type Notifier interface {
	Notify(models.Change)
}

// Service coordinates validation, derived fields and persistence.
type Service struct {
	store    store.RecordStore
	notifier Notifier
	now      func() time.Time
	newID    func() string
	loc      *time.Location
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the change receiver.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLocation sets the zone used to date seeded records.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a new record service.
func NewService(st store.RecordStore, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ETag returns the version tag of a record, used with If-Match.
func ETag(v any) string {
	sum, err := checksum.Of(v)
	if err != nil {
		return ""
	}
	return sum
}

// --- operations ---

// ListOperations returns every operation.
func (s *Service) ListOperations(ctx context.Context) ([]models.Operation, error) {
	return s.store.ListOperations(ctx)
}

// GetOperation returns one operation.
func (s *Service) GetOperation(ctx context.Context, id string) (models.Operation, error) {
	return s.store.GetOperation(ctx, id)
}

// CreateOperation stores a new pending operation.
func (s *Service) CreateOperation(ctx context.Context, in OperationInput) (models.Operation, error) {
	if err := in.Validate(); err != nil {
		return models.Operation{}, invalid(err)
	}
	names, err := s.personNames(ctx, in.PersonIDs)
	if err != nil {
		return models.Operation{}, err
	}
	op := models.Operation{
		ID:          s.newID(),
		Type:        in.Type,
		Place:       in.Place,
		Date:        in.Date,
		Description: in.Description,
		PersonIDs:   nonNilSlice(in.PersonIDs),
		PersonsInfo: activity.JoinNames(names),
		Status:      models.StatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.PutOperation(ctx, op); err != nil {
		return models.Operation{}, err
	}
	s.notify(models.CollectionOperations, models.ChangeCreated, op.ID, 1)
	return op, nil
}

// UpdateOperation replaces the writable fields of an operation. The status is
// kept. A non-empty ifMatch must equal the current ETag.
func (s *Service) UpdateOperation(ctx context.Context, id string, in OperationInput, ifMatch string) (models.Operation, error) {
	if err := in.Validate(); err != nil {
		return models.Operation{}, invalid(err)
	}
	op, err := s.store.GetOperation(ctx, id)
	if err != nil {
		return models.Operation{}, err
	}
	if ifMatch != "" && ifMatch != ETag(op) {
		return models.Operation{}, apperr.ErrConflict
	}
	names, err := s.personNames(ctx, in.PersonIDs)
	if err != nil {
		return models.Operation{}, err
	}
	op.Type = in.Type
	op.Place = in.Place
	op.Date = in.Date
	op.Description = in.Description
	op.PersonIDs = nonNilSlice(in.PersonIDs)
	op.PersonsInfo = activity.JoinNames(names)
	op.Status = op.EffectiveStatus()
	op.UpdatedAt = s.now().UTC()
	if err := s.store.PutOperation(ctx, op); err != nil {
		return models.Operation{}, err
	}
	s.notify(models.CollectionOperations, models.ChangeUpdated, op.ID, 1)
	return op, nil
}

// SetOperationStatus moves an operation to status.
func (s *Service) SetOperationStatus(ctx context.Context, id string, status models.Status) (models.Operation, error) {
	if !status.Known() {
		return models.Operation{}, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalid, status)
	}
	op, err := s.store.GetOperation(ctx, id)
	if err != nil {
		return models.Operation{}, err
	}
	op.Status = status
	op.UpdatedAt = s.now().UTC()
	if err := s.store.PutOperation(ctx, op); err != nil {
		return models.Operation{}, err
	}
	s.notify(models.CollectionOperations, models.ChangeUpdated, op.ID, 1)
	return op, nil
}

// DeleteOperation removes an operation.
func (s *Service) DeleteOperation(ctx context.Context, id string) error {
	if err := s.store.DeleteOperation(ctx, id); err != nil {
		return err
	}
	s.notify(models.CollectionOperations, models.ChangeDeleted, id, 1)
	return nil
}

// --- notes ---

// ListNotes returns every note.
func (s *Service) ListNotes(ctx context.Context) ([]models.Note, error) {
	return s.store.ListNotes(ctx)
}

// GetNote returns one note.
func (s *Service) GetNote(ctx context.Context, id string) (models.Note, error) {
	return s.store.GetNote(ctx, id)
}

// CreateNote stores a new note.
func (s *Service) CreateNote(ctx context.Context, in NoteInput) (models.Note, error) {
	if err := in.Validate(); err != nil {
		return models.Note{}, invalid(err)
	}
	names, err := s.personNames(ctx, in.PersonIDs)
	if err != nil {
		return models.Note{}, err
	}
	n := models.Note{
		ID:           s.newID(),
		Area:         in.Area,
		Date:         in.Date,
		Content:      in.Content,
		PersonIDs:    nonNilSlice(in.PersonIDs),
		PersonsNames: names,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.PutNote(ctx, n); err != nil {
		return models.Note{}, err
	}
	s.notify(models.CollectionNotes, models.ChangeCreated, n.ID, 1)
	return n, nil
}

// UpdateNote replaces the writable fields of a note.
func (s *Service) UpdateNote(ctx context.Context, id string, in NoteInput, ifMatch string) (models.Note, error) {
	if err := in.Validate(); err != nil {
		return models.Note{}, invalid(err)
	}
	n, err := s.store.GetNote(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	if ifMatch != "" && ifMatch != ETag(n) {
		return models.Note{}, apperr.ErrConflict
	}
	names, err := s.personNames(ctx, in.PersonIDs)
	if err != nil {
		return models.Note{}, err
	}
	n.Area = in.Area
	n.Date = in.Date
	n.Content = in.Content
	n.PersonIDs = nonNilSlice(in.PersonIDs)
	n.PersonsNames = names
	n.UpdatedAt = s.now().UTC()
	if err := s.store.PutNote(ctx, n); err != nil {
		return models.Note{}, err
	}
	s.notify(models.CollectionNotes, models.ChangeUpdated, n.ID, 1)
	return n, nil
}

// DeleteNote removes a note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return err
	}
	s.notify(models.CollectionNotes, models.ChangeDeleted, id, 1)
	return nil
}

// --- personnel ---

// ListPersonnel returns every staff member.
func (s *Service) ListPersonnel(ctx context.Context) ([]models.Person, error) {
	return s.store.ListPersonnel(ctx)
}

// GetPerson returns one staff member.
func (s *Service) GetPerson(ctx context.Context, id string) (models.Person, error) {
	return s.store.GetPerson(ctx, id)
}

// CreatePerson stores a new staff member. A missing activo flag means active.
func (s *Service) CreatePerson(ctx context.Context, in PersonInput) (models.Person, error) {
	if err := in.Validate(); err != nil {
		return models.Person{}, invalid(err)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	p := models.Person{
		ID:        s.newID(),
		Name:      in.Name,
		Role:      in.Role,
		Active:    &active,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.PutPerson(ctx, p); err != nil {
		return models.Person{}, err
	}
	s.notify(models.CollectionPersonnel, models.ChangeCreated, p.ID, 1)
	return p, nil
}

// UpdatePerson replaces the writable fields of a staff member. Names already
// copied into notes and operations are left untouched.
func (s *Service) UpdatePerson(ctx context.Context, id string, in PersonInput, ifMatch string) (models.Person, error) {
	if err := in.Validate(); err != nil {
		return models.Person{}, invalid(err)
	}
	p, err := s.store.GetPerson(ctx, id)
	if err != nil {
		return models.Person{}, err
	}
	if ifMatch != "" && ifMatch != ETag(p) {
		return models.Person{}, apperr.ErrConflict
	}
	p.Name = in.Name
	p.Role = in.Role
	if in.Active != nil {
		active := *in.Active
		p.Active = &active
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.store.PutPerson(ctx, p); err != nil {
		return models.Person{}, err
	}
	s.notify(models.CollectionPersonnel, models.ChangeUpdated, p.ID, 1)
	return p, nil
}

// DeletePerson removes a staff member.
func (s *Service) DeletePerson(ctx context.Context, id string) error {
	if err := s.store.DeletePerson(ctx, id); err != nil {
		return err
	}
	s.notify(models.CollectionPersonnel, models.ChangeDeleted, id, 1)
	return nil
}

// personNames resolves ids to names in the given order, skipping unknown ids.
func (s *Service) personNames(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	people, err := s.store.ListPersonnel(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(people))
	for _, p := range people {
		byID[p.ID] = p.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *Service) notify(collection, kind, id string, count int) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(models.Change{
		Collection: collection,
		Kind:       kind,
		ID:         id,
		Count:      count,
		At:         s.now().UTC(),
	})
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
