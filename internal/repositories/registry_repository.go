package repositories

import (
	"context"
	"errors"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/database"
	"coffee-backend/internal/db"
	"coffee-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// RegistryTable describes one normalized-name registry table.
type RegistryTable struct {
	Table       string
	Label       string
	HasProperty bool
	// KeyExpr must match the unique index expression exactly for ON CONFLICT.
	KeyExpr string
}

var (
	ProducersTable = RegistryTable{
		Table:       "producers",
		Label:       "producer",
		HasProperty: true,
		KeyExpr:     database.ProducerKeyExpr,
	}
	DriversTable = RegistryTable{
		Table:   "drivers",
		Label:   "driver",
		KeyExpr: database.DriverKeyExpr,
	}
)

// RegistryRepository stores producers or drivers. Callers pass trimmed
// names; comparisons are done on the normalized key in SQL.
type RegistryRepository struct {
	DB    db.Querier
	Table RegistryTable
}

func NewRegistryRepository(q db.Querier, table RegistryTable) *RegistryRepository {
	return &RegistryRepository{DB: q, Table: table}
}

// InsertIfAbsent inserts unless the normalized key exists. It reports whether
// a row was written.
func (r *RegistryRepository) InsertIfAbsent(ctx context.Context, name, property string) (bool, error) {
	query, args := r.insertSQL(name, property)
	result, err := r.DB.Exec(ctx, query+` ON CONFLICT (`+r.Table.KeyExpr+`) DO NOTHING`, args...)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RegistryRepository) Exists(ctx context.Context, name, property string) (bool, error) {
	where, args := r.matchKey(name, property)
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+r.Table.Table+` WHERE `+where+`)`, args...).Scan(&exists)
	return exists, err
}

func (r *RegistryRepository) Insert(ctx context.Context, name, property string) (*models.RegistryEntry, error) {
	query, args := r.insertSQL(name, property)
	var e models.RegistryEntry
	err := r.DB.QueryRow(ctx, query+` RETURNING id::text, name, `+r.propertyColumn(), args...).
		Scan(&e.ID, &e.Name, &e.Property)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflict("%s already exists", r.Table.Label)
		}
		return nil, err
	}
	return &e, nil
}

func (r *RegistryRepository) Delete(ctx context.Context, name, property string) error {
	where, args := r.matchKey(name, property)
	result, err := r.DB.Exec(ctx, `DELETE FROM `+r.Table.Table+` WHERE `+where, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("%s not found", r.Table.Label)
	}
	return nil
}

func (r *RegistryRepository) List(ctx context.Context) ([]*models.RegistryEntry, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id::text, name, `+r.propertyColumn()+` FROM `+r.Table.Table+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*models.RegistryEntry{}
	for rows.Next() {
		var e models.RegistryEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Property); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func (r *RegistryRepository) insertSQL(name, property string) (string, []any) {
	if r.Table.HasProperty {
		return `INSERT INTO ` + r.Table.Table + ` (name, property_name) VALUES ($1, $2)`, []any{name, property}
	}
	return `INSERT INTO ` + r.Table.Table + ` (name) VALUES ($1)`, []any{name}
}

func (r *RegistryRepository) matchKey(name, property string) (string, []any) {
	where := `LOWER(TRIM(name)) = LOWER(TRIM($1))`
	if r.Table.HasProperty {
		return where + ` AND LOWER(TRIM(COALESCE(property_name, ''))) = LOWER(TRIM($2))`, []any{name, property}
	}
	return where, []any{name}
}

func (r *RegistryRepository) propertyColumn() string {
	if r.Table.HasProperty {
		return `COALESCE(property_name, '')`
	}
	return `''`
}
