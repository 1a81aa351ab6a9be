package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// LoadRepo encapsulates all database queries related to freight loads.
type LoadRepo struct {
	db *sql.DB
}

// NewLoadRepo constructs a LoadRepo with the provided DB handle.
func NewLoadRepo(db *sql.DB) *LoadRepo { return &LoadRepo{db: db} }

const loadColumns = `id, load_number, shipper_name, shipper_address, driver_id, shipment_id, status, created_at`

func scanLoad(row interface{ Scan(dest ...any) error }) (*model.Load, error) {
	var (
		l        model.Load
		driver   sql.NullInt64
		shipment sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.LoadNumber, &l.ShipperName, &l.ShipperAddress,
		&driver, &shipment, &l.Status, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if driver.Valid {
		v := uint64(driver.Int64)
		l.DriverID = &v
	}
	if shipment.Valid {
		v := uint64(shipment.Int64)
		l.ShipmentID = &v
	}
	return &l, nil
}

// Create inserts a new load. New loads start in the pending status. The row
// is read back after insert so defaults (status, created_at) are populated.
func (r *LoadRepo) Create(ctx context.Context, l *model.Load) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO loads (load_number, shipper_name, shipper_address, driver_id, shipment_id)
		 VALUES (?, ?, ?, ?, ?)`,
		l.LoadNumber, l.ShipperName, l.ShipperAddress, nullableID(l.DriverID), nullableID(l.ShipmentID))
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
	stored, err := scanLoad(r.db.QueryRowContext(ctx,
		`SELECT `+loadColumns+` FROM loads WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*l = *stored
	return nil
}

// GetByID fetches a load by id. Returns ErrLoadNotFound when absent.
func (r *LoadRepo) GetByID(ctx context.Context, id uint64) (*model.Load, error) {
	l, err := scanLoad(r.db.QueryRowContext(ctx,
		`SELECT `+loadColumns+` FROM loads WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoadNotFound
		}
		return nil, err
	}
	return l, nil
}

// ListAll returns every load ordered by id.
func (r *LoadRepo) ListAll(ctx context.Context) ([]*model.Load, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+loadColumns+` FROM loads ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of the patch one by one and returns the
// updated row. Returns ErrLoadNotFound when the load does not exist.
func (r *LoadRepo) Update(ctx context.Context, id uint64, p model.LoadPatch) (*model.Load, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if p.LoadNumber != nil {
		sets = append(sets, "load_number = ?")
		args = append(args, *p.LoadNumber)
	}
	if p.ShipperName != nil {
		sets = append(sets, "shipper_name = ?")
		args = append(args, *p.ShipperName)
	}
	if p.ShipperAddress != nil {
		sets = append(sets, "shipper_address = ?")
		args = append(args, *p.ShipperAddress)
	}
	if p.DriverID != nil {
		sets = append(sets, "driver_id = ?")
		args = append(args, *p.DriverID)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.db.ExecContext(ctx,
			`UPDATE loads SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			if isDuplicate(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a load. Returns ErrLoadNotFound when no row was deleted.
func (r *LoadRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLoadNotFound
	}
	return nil
}

// nullableID converts an optional foreign key into a driver-friendly value.
func nullableID(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}

// isDuplicate detects MySQL error 1062 (duplicate entry for a unique key).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
