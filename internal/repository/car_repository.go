package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/dealership-reviews/internal/model"
)

// CarRepo encapsulates queries on car_makes and car_models.
type CarRepo struct {
	db *sql.DB
}

func NewCarRepo(db *sql.DB) *CarRepo {
	return &CarRepo{db: db}
}

// CountMakes returns the number of rows in car_makes.
func (r *CarRepo) CountMakes(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM car_makes").Scan(&n)
	return n, err
}

// ListModels returns every car model joined with its make, ordered by id.
func (r *CarRepo) ListModels(ctx context.Context) ([]model.CarModel, error) {
	const q = `SELECT m.id, m.car_make_id, m.name, m.body_type, m.model_year, m.dealer_id,
	                  mk.id, mk.name, mk.description
	           FROM car_models m
	           JOIN car_makes mk ON mk.id = m.car_make_id
	           ORDER BY m.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CarModel{}
	for rows.Next() {
		var (
			m  model.CarModel
			mk model.CarMake
		)
		if err := rows.Scan(&m.ID, &m.MakeID, &m.Name, &m.BodyType, &m.Year, &m.DealerID,
			&mk.ID, &mk.Name, &mk.Description); err != nil {
			return nil, err
		}
		m.Make = &mk
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SeedIfEmpty inserts the reference makes and models in one transaction
// when car_makes is empty. It reports whether rows were inserted. The count
// is re-checked inside the transaction so a concurrent seeder that already
// committed is detected.
func (r *CarRepo) SeedIfEmpty(ctx context.Context, makes []SeedMake) (seeded bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var n int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM car_makes").Scan(&n); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, mk := range makes {
		res, execErr := tx.ExecContext(ctx,
			"INSERT INTO car_makes (name, description) VALUES (?, ?)", mk.Name, mk.Description)
		if execErr != nil {
			err = fmt.Errorf("insert make %s: %w", mk.Name, execErr)
			return false, err
		}
		makeID, idErr := res.LastInsertId()
		if idErr != nil {
			err = idErr
			return false, err
		}
		for _, cm := range mk.Models {
			if _, execErr := tx.ExecContext(ctx,
				"INSERT INTO car_models (car_make_id, name, body_type, model_year, dealer_id) VALUES (?,?,?,?,?)",
				makeID, cm.Name, cm.BodyType, cm.Year, cm.DealerID); execErr != nil {
				err = fmt.Errorf("insert model %s: %w", cm.Name, execErr)
				return false, err
			}
		}
	}
	return true, nil
}
