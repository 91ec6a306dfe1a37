package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/dealership-reviews/internal/model"
)

// DealershipRepo reads the local dealerships table.
type DealershipRepo struct {
	db *sql.DB
}

func NewDealershipRepo(db *sql.DB) *DealershipRepo {
	return &DealershipRepo{db: db}
}

const dealershipCols = "id, full_name, short_name, city, address, zip, state"

// ListAll returns every dealership ordered by id.
func (r *DealershipRepo) ListAll(ctx context.Context) ([]model.Dealership, error) {
	return r.list(ctx, "SELECT "+dealershipCols+" FROM dealerships ORDER BY id")
}

// ListByState returns the dealerships of one state ordered by id.
func (r *DealershipRepo) ListByState(ctx context.Context, state string) ([]model.Dealership, error) {
	return r.list(ctx, "SELECT "+dealershipCols+" FROM dealerships WHERE state = ? ORDER BY id", state)
}

// GetByID fetches a dealership by id or returns ErrDealershipNotFound.
func (r *DealershipRepo) GetByID(ctx context.Context, id uint64) (model.Dealership, error) {
	var d model.Dealership
	err := r.db.QueryRowContext(ctx, "SELECT "+dealershipCols+" FROM dealerships WHERE id = ?", id).
		Scan(&d.ID, &d.FullName, &d.ShortName, &d.City, &d.Address, &d.Zip, &d.State)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Dealership{}, ErrDealershipNotFound
	}
	return d, err
}

// Create inserts a dealership and sets its ID.
func (r *DealershipRepo) Create(ctx context.Context, d *model.Dealership) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO dealerships (full_name, short_name, city, address, zip, state) VALUES (?,?,?,?,?,?)",
		d.FullName, d.ShortName, d.City, d.Address, d.Zip, d.State)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

func (r *DealershipRepo) list(ctx context.Context, q string, args ...any) ([]model.Dealership, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Dealership{}
	for rows.Next() {
		var d model.Dealership
		if err := rows.Scan(&d.ID, &d.FullName, &d.ShortName, &d.City, &d.Address, &d.Zip, &d.State); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
