package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// WarehouseRepo encapsulates all database queries related to warehouses.
type WarehouseRepo struct {
	db *sql.DB
}

// NewWarehouseRepo constructs a WarehouseRepo with the provided DB handle.
func NewWarehouseRepo(db *sql.DB) *WarehouseRepo { return &WarehouseRepo{db: db} }

// Create inserts a new warehouse and populates its generated ID.
func (r *WarehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO warehouses (name, location, capacity) VALUES (?, ?, ?)`,
		w.Name, w.Location, w.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	return nil
}

// GetByID fetches a warehouse by id. Returns ErrWarehouseNotFound when absent.
func (r *WarehouseRepo) GetByID(ctx context.Context, id uint64) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, location, capacity FROM warehouses WHERE id = ?`, id).
		Scan(&w.ID, &w.Name, &w.Location, &w.Capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}
	return &w, nil
}

// ListAll returns every warehouse ordered by id.
func (r *WarehouseRepo) ListAll(ctx context.Context) ([]*model.Warehouse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, location, capacity FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Warehouse
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.Capacity); err != nil {
			return nil, err
		}
		out = append(out, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *WarehouseRepo) Update(ctx context.Context, id uint64, p model.WarehousePatch) (*model.Warehouse, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *p.Location)
	}
	if p.Capacity != nil {
		sets = append(sets, "capacity = ?")
		args = append(args, *p.Capacity)
	}
	if len(sets) > 0 {
		args = append(args, id)
		if _, err := r.db.ExecContext(ctx,
			`UPDATE warehouses SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a warehouse. Returns ErrWarehouseNotFound when no row was deleted.
func (r *WarehouseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM warehouses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWarehouseNotFound
	}
	return nil
}
