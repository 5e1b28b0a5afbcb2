package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coffee-backend/internal/apperr"
	"coffee-backend/internal/database"
	"coffee-backend/internal/db"
	"coffee-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type CoffeeLotRepository struct {
	DB db.Querier
}

func NewCoffeeLotRepository(q db.Querier) *CoffeeLotRepository {
	return &CoffeeLotRepository{DB: q}
}

// Insert writes every column in CoffeeLotColumns order. Absent fields are NULL.
func (r *CoffeeLotRepository) Insert(ctx context.Context, f models.LotFields) (*models.CoffeeLot, error) {
	var lot models.CoffeeLot
	err := r.DB.QueryRow(ctx, insertLotSQL(), f.Args(models.CoffeeLotColumns)...).Scan(lot.ScanTargets()...)
	if err != nil {
		return nil, translateLotError(err, f)
	}
	return &lot, nil
}

func (r *CoffeeLotRepository) Get(ctx context.Context, id string) (*models.CoffeeLot, error) {
	var lot models.CoffeeLot
	err := r.DB.QueryRow(ctx,
		`SELECT `+lotColumnList()+` FROM coffee_lots WHERE id = $1`, id,
	).Scan(lot.ScanTargets()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("coffee lot not found")
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *CoffeeLotRepository) List(ctx context.Context) ([]*models.CoffeeLot, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+lotColumnList()+` FROM coffee_lots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lots := []*models.CoffeeLot{}
	for rows.Next() {
		var lot models.CoffeeLot
		if err := rows.Scan(lot.ScanTargets()...); err != nil {
			return nil, err
		}
		lots = append(lots, &lot)
	}
	return lots, rows.Err()
}

// Update rewrites only the columns present in f.
func (r *CoffeeLotRepository) Update(ctx context.Context, id string, f models.LotFields) error {
	query, args := updateLotSQL(id, f)
	if query == "" {
		return apperr.Validation("no fields provided for update")
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return translateLotError(err, f)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("coffee lot not found")
	}
	return nil
}

func (r *CoffeeLotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.Exec(ctx, `DELETE FROM coffee_lots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("coffee lot not found")
	}
	return nil
}

// ActiveLotInBay reports whether an active lot other than excludeID holds bay.
func (r *CoffeeLotRepository) ActiveLotInBay(ctx context.Context, bay int, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM coffee_lots WHERE status = 'active' AND boca_entrada = $1`
	args := []any{bay}
	if excludeID != "" {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	query += `)`

	var taken bool
	if err := r.DB.QueryRow(ctx, query, args...).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func lotColumnList() string {
	names := make([]string, len(models.CoffeeLotColumns))
	for i, c := range models.CoffeeLotColumns {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func insertLotSQL() string {
	placeholders := make([]string, len(models.CoffeeLotColumns))
	for i := range models.CoffeeLotColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	cols := lotColumnList()
	return `INSERT INTO coffee_lots (` + cols + `) VALUES (` + strings.Join(placeholders, ", ") + `) RETURNING ` + cols
}

// updateLotSQL returns "" when f has no updatable column.
func updateLotSQL(id string, f models.LotFields) (string, []any) {
	var sets []string
	var args []any
	for _, c := range models.CoffeeLotColumns {
		if c.Name == models.ColID || !f.Has(c.Name) {
			continue
		}
		args = append(args, f[c.Name])
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}
	args = append(args, id)
	return fmt.Sprintf(`UPDATE coffee_lots SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args)), args
}

// activeBayDetail matches the key in a unique violation detail, e.g.
// "Key (boca_entrada)=(3) already exists."
var activeBayDetail = regexp.MustCompile(`\(boca_entrada\)=\((\d+)\)`)

// translateLotError maps the active-bay unique index to the validator's
// message. The bay comes from the payload, else from the violation detail.
func translateLotError(err error, f models.LotFields) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation || pgErr.ConstraintName != database.ActiveBayIndex {
		return err
	}

	if n := f.Int(models.ColBocaEntrada); n != nil {
		return apperr.Validation("%s", models.BayInUseMessage(int(*n)))
	}
	if m := activeBayDetail.FindStringSubmatch(pgErr.Detail); m != nil {
		if bay, convErr := strconv.Atoi(m[1]); convErr == nil {
			return apperr.Validation("%s", models.BayInUseMessage(bay))
		}
	}
	return apperr.Validation("%s", models.BayTakenMessage)
}
