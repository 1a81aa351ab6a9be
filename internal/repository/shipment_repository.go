package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// ShipmentRepo encapsulates all database queries related to shipments.
type ShipmentRepo struct {
	db *sql.DB
}

// NewShipmentRepo constructs a ShipmentRepo with the provided DB handle.
func NewShipmentRepo(db *sql.DB) *ShipmentRepo { return &ShipmentRepo{db: db} }

const shipmentColumns = `id, origin, destination, status, driver_id, warehouse_id, customer_id`

func scanShipment(row interface{ Scan(dest ...any) error }) (*model.Shipment, error) {
	var (
		s         model.Shipment
		driver    sql.NullInt64
		warehouse sql.NullInt64
		customer  sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.Origin, &s.Destination, &s.Status, &driver, &warehouse, &customer)
	if err != nil {
		return nil, err
	}
	if driver.Valid {
		v := uint64(driver.Int64)
		s.DriverID = &v
	}
	if warehouse.Valid {
		v := uint64(warehouse.Int64)
		s.WarehouseID = &v
	}
	if customer.Valid {
		v := uint64(customer.Int64)
		s.CustomerID = &v
	}
	return &s, nil
}

// Create inserts a new shipment and reads the stored row back.
func (r *ShipmentRepo) Create(ctx context.Context, s *model.Shipment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shipments (origin, destination, status, driver_id, warehouse_id, customer_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.Origin, s.Destination, s.Status,
		nullableID(s.DriverID), nullableID(s.WarehouseID), nullableID(s.CustomerID))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := scanShipment(r.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, id))
	if err != nil {
		return err
	}
	*s = *stored
	return nil
}

// GetByID fetches a shipment by id. Returns ErrShipmentNotFound when absent.
func (r *ShipmentRepo) GetByID(ctx context.Context, id uint64) (*model.Shipment, error) {
	s, err := scanShipment(r.db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListAll returns every shipment ordered by id.
func (r *ShipmentRepo) ListAll(ctx context.Context) ([]*model.Shipment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *ShipmentRepo) Update(ctx context.Context, id uint64, p model.ShipmentPatch) (*model.Shipment, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if p.Origin != nil {
		sets = append(sets, "origin = ?")
		args = append(args, *p.Origin)
	}
	if p.Destination != nil {
		sets = append(sets, "destination = ?")
		args = append(args, *p.Destination)
	}
	if p.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *p.Status)
	}
	if p.DriverID != nil {
		sets = append(sets, "driver_id = ?")
		args = append(args, *p.DriverID)
	}
	if p.WarehouseID != nil {
		sets = append(sets, "warehouse_id = ?")
		args = append(args, *p.WarehouseID)
	}
	if p.CustomerID != nil {
		sets = append(sets, "customer_id = ?")
		args = append(args, *p.CustomerID)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE shipments SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// AssignDriver links a shipment to a driver.
func (r *ShipmentRepo) AssignDriver(ctx context.Context, shipmentID, driverID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shipments SET driver_id = ? WHERE id = ?`, driverID, shipmentID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Zero rows can also mean the driver was already assigned; confirm
		// the shipment exists before reporting not found.
		var one int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM shipments WHERE id = ?`, shipmentID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrShipmentNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a shipment. Returns ErrShipmentNotFound when no row was deleted.
func (r *ShipmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrShipmentNotFound
	}
	return nil
}
