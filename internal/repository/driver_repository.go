package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// DriverRepo encapsulates all database queries related to drivers.
type DriverRepo struct {
	db *sql.DB
}

// NewDriverRepo constructs a DriverRepo with the provided DB handle.
func NewDriverRepo(db *sql.DB) *DriverRepo { return &DriverRepo{db: db} }

// Create inserts a new driver and populates its generated ID. Returns
// ErrDuplicate when the license number is already taken.
func (r *DriverRepo) Create(ctx context.Context, d *model.Driver) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO drivers (name, phone, license_number) VALUES (?, ?, ?)`,
		d.Name, d.Phone, d.LicenseNumber)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetByID fetches a driver by id. Returns ErrDriverNotFound when absent.
func (r *DriverRepo) GetByID(ctx context.Context, id uint64) (*model.Driver, error) {
	var d model.Driver
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, phone, license_number FROM drivers WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListAll returns every driver ordered by id.
func (r *DriverRepo) ListAll(ctx context.Context) ([]*model.Driver, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, phone, license_number FROM drivers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Driver
	for rows.Next() {
		var d model.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LicenseNumber); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *DriverRepo) Update(ctx context.Context, id uint64, p model.DriverPatch) (*model.Driver, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *p.Phone)
	}
	if p.LicenseNumber != nil {
		sets = append(sets, "license_number = ?")
		args = append(args, *p.LicenseNumber)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.db.ExecContext(ctx,
			`UPDATE drivers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			if isDuplicate(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a driver. Returns ErrDriverNotFound when no row was deleted.
func (r *DriverRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drivers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDriverNotFound
	}
	return nil
}
