package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/tablero/internal/apperr"
	"github.com/starford/tablero/internal/models"
)

const noteColumns = `id, area, fecha, contenido, persona_ids, personas_nombres, created_at, updated_at`

// ListNotes returns every note in insertion order.
func (db *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+noteColumns+` FROM notas ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetNote returns the note with the given id.
func (db *DB) GetNote(ctx context.Context, id string) (models.Note, error) {
	n, err := scanNote(db.conn.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notas WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, fmt.Errorf("store: note %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// PutNote inserts or replaces a note.
func (db *DB) PutNote(ctx context.Context, n models.Note) error {
	return putNote(ctx, db.conn, n)
}

func putNote(ctx context.Context, ex execer, n models.Note) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO notas (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			area             = excluded.area,
			fecha            = excluded.fecha,
			contenido        = excluded.contenido,
			persona_ids      = excluded.persona_ids,
			personas_nombres = excluded.personas_nombres,
			created_at       = excluded.created_at,
			updated_at       = excluded.updated_at
	`, n.ID, string(n.Area), n.Date, n.Content, encodeList(n.PersonIDs), encodeList(n.PersonsNames),
		encodeTime(n.CreatedAt), encodeTime(n.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: put note: %w", err)
	}
	return nil
}

// DeleteNote removes a note.
func (db *DB) DeleteNote(ctx context.Context, id string) error {
	return db.deleteByID(ctx, models.CollectionNotes, id)
}

const operationColumns = `id, tipo, lugar, fecha, descripcion, persona_ids, personas_info, estado, created_at, updated_at`

// ListOperations returns every operation in insertion order.
func (db *DB) ListOperations(ctx context.Context) ([]models.Operation, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+operationColumns+` FROM operaciones ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list operations: %w", err)
	}
	defer rows.Close()

	out := []models.Operation{}
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan operation: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetOperation returns the operation with the given id.
func (db *DB) GetOperation(ctx context.Context, id string) (models.Operation, error) {
	o, err := scanOperation(db.conn.QueryRowContext(ctx, `SELECT `+operationColumns+` FROM operaciones WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Operation{}, fmt.Errorf("store: operation %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Operation{}, fmt.Errorf("store: get operation: %w", err)
	}
	return o, nil
}

// PutOperation inserts or replaces an operation.
func (db *DB) PutOperation(ctx context.Context, o models.Operation) error {
	return putOperation(ctx, db.conn, o)
}

func putOperation(ctx context.Context, ex execer, o models.Operation) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO operaciones (`+operationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tipo          = excluded.tipo,
			lugar         = excluded.lugar,
			fecha         = excluded.fecha,
			descripcion   = excluded.descripcion,
			persona_ids   = excluded.persona_ids,
			personas_info = excluded.personas_info,
			estado        = excluded.estado,
			created_at    = excluded.created_at,
			updated_at    = excluded.updated_at
	`, o.ID, string(o.Type), string(o.Place), o.Date, o.Description, encodeList(o.PersonIDs), o.PersonsInfo,
		string(o.Status.OrDefault()), encodeTime(o.CreatedAt), encodeTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: put operation: %w", err)
	}
	return nil
}

// DeleteOperation removes an operation.
func (db *DB) DeleteOperation(ctx context.Context, id string) error {
	return db.deleteByID(ctx, models.CollectionOperations, id)
}

const personColumns = `id, nombre, cargo, activo, created_at, updated_at`

// ListPersonnel returns every person in insertion order.
func (db *DB) ListPersonnel(ctx context.Context) ([]models.Person, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT `+personColumns+` FROM personal ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list personnel: %w", err)
	}
	defer rows.Close()

	out := []models.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPerson returns the person with the given id.
func (db *DB) GetPerson(ctx context.Context, id string) (models.Person, error) {
	p, err := scanPerson(db.conn.QueryRowContext(ctx, `SELECT `+personColumns+` FROM personal WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, fmt.Errorf("store: person %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("store: get person: %w", err)
	}
	return p, nil
}

// PutPerson inserts or replaces a person.
func (db *DB) PutPerson(ctx context.Context, p models.Person) error {
	return putPerson(ctx, db.conn, p)
}

func putPerson(ctx context.Context, ex execer, p models.Person) error {
	var active sql.NullBool
	if p.Active != nil {
		active = sql.NullBool{Bool: *p.Active, Valid: true}
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO personal (`+personColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			nombre     = excluded.nombre,
			cargo      = excluded.cargo,
			activo     = excluded.activo,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, p.Role, active, encodeTime(p.CreatedAt), encodeTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: put person: %w", err)
	}
	return nil
}

// DeletePerson removes a person. Records referencing the person keep the
// display names derived when they were written.
func (db *DB) DeletePerson(ctx context.Context, id string) error {
	return db.deleteByID(ctx, models.CollectionPersonnel, id)
}

// Count returns the number of records in a collection.
func (db *DB) Count(ctx context.Context, collection string) (int, error) {
	table, err := tableFor(collection)
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count %s: %w", collection, err)
	}
	return n, nil
}

func (db *DB) deleteByID(ctx context.Context, collection, id string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	res, err := db.conn.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", collection, err)
	}
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", collection, err)
	}
	if !ok {
		return fmt.Errorf("store: %s %s: %w", collection, id, apperr.ErrNotFound)
	}
	return nil
}

// tableFor maps a collection name to its table. Table names are never taken
// from user input directly.
func tableFor(collection string) (string, error) {
	switch collection {
	case models.CollectionNotes:
		return "notas", nil
	case models.CollectionOperations:
		return "operaciones", nil
	case models.CollectionPersonnel:
		return "personal", nil
	}
	return "", fmt.Errorf("store: unknown collection %q: %w", collection, apperr.ErrInvalid)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (models.Note, error) {
	var (
		n                models.Note
		area             string
		ids, names       string
		created, updated string
	)
	if err := s.Scan(&n.ID, &area, &n.Date, &n.Content, &ids, &names, &created, &updated); err != nil {
		return models.Note{}, err
	}
	n.Area = models.Area(area)
	n.PersonIDs = decodeList(ids)
	n.PersonsNames = decodeList(names)
	n.CreatedAt = decodeTime(created)
	n.UpdatedAt = decodeTime(updated)
	return n, nil
}

func scanOperation(s scanner) (models.Operation, error) {
	var (
		o                        models.Operation
		tipo, lugar, estado, ids string
		created, updated         string
	)
	if err := s.Scan(&o.ID, &tipo, &lugar, &o.Date, &o.Description, &ids, &o.PersonsInfo, &estado, &created, &updated); err != nil {
		return models.Operation{}, err
	}
	o.Type = models.OperationType(tipo)
	o.Place = models.Place(lugar)
	o.Status = models.Status(estado).OrDefault()
	o.PersonIDs = decodeList(ids)
	o.CreatedAt = decodeTime(created)
	o.UpdatedAt = decodeTime(updated)
	return o, nil
}

func scanPerson(s scanner) (models.Person, error) {
	var (
		p                models.Person
		active           sql.NullBool
		created, updated string
	)
	if err := s.Scan(&p.ID, &p.Name, &p.Role, &active, &created, &updated); err != nil {
		return models.Person{}, err
	}
	if active.Valid {
		v := active.Bool
		p.Active = &v
	}
	p.CreatedAt = decodeTime(created)
	p.UpdatedAt = decodeTime(updated)
	return p, nil
}
