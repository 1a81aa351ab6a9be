package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// CustomerRepo encapsulates all database queries related to customers.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the provided DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

// Create inserts a new customer and populates its generated ID. Returns
// ErrDuplicate when the email is already registered.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO customers (name, email, phone) VALUES (?, ?, ?)`,
		c.Name, c.Email, c.Phone)
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
	c.ID = uint64(id)
	return nil
}

// GetByID fetches a customer by id. Returns ErrCustomerNotFound when absent.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone FROM customers WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns every customer ordered by id.
func (r *CustomerRepo) ListAll(ctx context.Context) ([]*model.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of the patch and returns the updated row.
func (r *CustomerRepo) Update(ctx context.Context, id uint64, p model.CustomerPatch) (*model.Customer, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *p.Name)
	}
	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *p.Phone)
	}
	if len(sets) > 0 {
		args = append(args, id)
		_, err := r.db.ExecContext(ctx,
			`UPDATE customers SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
		if err != nil {
			if isDuplicate(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a customer. Returns ErrCustomerNotFound when no row was deleted.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
