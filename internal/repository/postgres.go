package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/deppfellow/crm-api/internal/model"
)

// matchPersonID compares person_id as a JSON value, so a person_id that
// was changed to a number no longer matches its string form.
const matchPersonID = `doc->'person_id' = to_jsonb($1::text)`

var errImmutableStoreID = errors.New("Performing an update on the path '_id' would modify the immutable field '_id'")

// PostgresPersonRepository stores persons as JSONB documents in a single
// table. Insertion order is kept by a sequence column so that "first match"
// means the same thing it does in MongoDB.
type PostgresPersonRepository struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresPersonRepository expects table to be an already sanitized identifier.
func NewPostgresPersonRepository(pool *pgxpool.Pool, table string) *PostgresPersonRepository {
	return &PostgresPersonRepository{pool: pool, table: table}
}

func (r *PostgresPersonRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY seq`, r.table))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	persons, err := pgx.CollectRows(rows, scanPerson)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if persons == nil {
		persons = []model.Person{}
	}
	return persons, nil
}

func (r *PostgresPersonRepository) FindByStoreID(ctx context.Context, id string) (model.Person, bool, error) {
	oid, err := ParseStoreID(id)
	if err != nil {
		return nil, false, err
	}

	stmt := fmt.Sprintf(`SELECT id, doc FROM %s WHERE id = $1`, r.table)
	return r.queryOne(ctx, stmt, oid.Hex())
}

func (r *PostgresPersonRepository) FindByPersonID(ctx context.Context, personID string) (model.Person, bool, error) {
	stmt := fmt.Sprintf(`SELECT id, doc FROM %s WHERE %s ORDER BY seq LIMIT 1`, r.table, matchPersonID)
	return r.queryOne(ctx, stmt, personID)
}

func (r *PostgresPersonRepository) queryOne(ctx context.Context, stmt string, args ...any) (model.Person, bool, error) {
	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, false, errors.WithStack(err)
	}

	person, err := pgx.CollectOneRow(rows, scanPerson)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	return person, true, nil
}

func (r *PostgresPersonRepository) Insert(ctx context.Context, doc model.Person) (string, error) {
	id := NewStoreID()

	body := doc.Clone()
	delete(body, model.FieldStoreID)

	raw, err := json.Marshal(body)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode document")
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2::jsonb)`, r.table)
	if _, err := r.pool.Exec(ctx, stmt, id, string(raw)); err != nil {
		return "", errors.WithStack(err)
	}
	return id, nil
}

func (r *PostgresPersonRepository) UpdateByPersonID(ctx context.Context, personID string, fields model.Person) (model.UpdateResult, error) {
	var result model.UpdateResult
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		lookup := fmt.Sprintf(`SELECT id FROM %s WHERE %s ORDER BY seq LIMIT 1 FOR UPDATE`, r.table, matchPersonID)
		if err := tx.QueryRow(ctx, lookup, personID).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
		result.MatchedCount = 1

		patch, err := withoutStoreID(fields, id)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(patch)
		if err != nil {
			return errors.Wrap(err, "failed to encode update")
		}

		merge := fmt.Sprintf(
			`UPDATE %s SET doc = doc || $2::jsonb WHERE id = $1 AND (doc || $2::jsonb) IS DISTINCT FROM doc`,
			r.table,
		)
		tag, err := tx.Exec(ctx, merge, id, string(raw))
		if err != nil {
			return err
		}
		result.ModifiedCount = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return model.UpdateResult{}, errors.WithStack(err)
	}
	return result, nil
}

// withoutStoreID drops _id from an update. The id lives in its own column,
// so an _id equal to the stored one changes nothing and any other value is
// rejected.
func withoutStoreID(fields model.Person, id string) (model.Person, error) {
	v, ok := fields[model.FieldStoreID]
	if !ok {
		return fields, nil
	}
	if s, isString := v.(string); !isString || s != id {
		return nil, errImmutableStoreID
	}

	patch := fields.Clone()
	delete(patch, model.FieldStoreID)
	return patch, nil
}

func (r *PostgresPersonRepository) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	stmt := fmt.Sprintf(
		`DELETE FROM %[1]s WHERE id = (SELECT id FROM %[1]s WHERE %[2]s ORDER BY seq LIMIT 1)`,
		r.table, matchPersonID,
	)
	tag, err := r.pool.Exec(ctx, stmt, personID)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresPersonRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// scanPerson reads an (id, doc) row and puts the id back under _id.
func scanPerson(row pgx.CollectableRow) (model.Person, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	person, err := model.DecodePerson(raw)
	if err != nil {
		return nil, err
	}
	person[model.FieldStoreID] = id
	return person, nil
}
