package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aberkani/logistics-tracker/internal/model"
)

// DetentionRepo persists detention events. Check-in and check-out each run
// inside a transaction so a reader never observes a half-written transition
// (for example a checkout_time without its settled amount).
type DetentionRepo struct {
	db *sql.DB
}

// NewDetentionRepo returns a DetentionRepo bound to the given database.
func NewDetentionRepo(db *sql.DB) *DetentionRepo { return &DetentionRepo{db: db} }

const detentionColumns = `id, load_id, driver_id, checkin_time, checkout_time,
	free_time_minutes, detention_rate, detention_minutes, detention_amount, status, notes`

// scanEvent reads one detention_events row from any row scanner.
func scanEvent(row interface {
	Scan(dest ...any) error
}) (*model.DetentionEvent, error) {
	var (
		ev       model.DetentionEvent
		checkout sql.NullTime
		notes    sql.NullString
	)
	err := row.Scan(&ev.ID, &ev.LoadID, &ev.DriverID, &ev.CheckinTime, &checkout,
		&ev.FreeTimeMinutes, &ev.DetentionRate, &ev.DetentionMinutes,
		&ev.DetentionAmount, &ev.Status, &notes)
	if err != nil {
		return nil, err
	}
	if checkout.Valid {
		t := checkout.Time
		ev.CheckoutTime = &t
	}
	if notes.Valid {
		s := notes.String
		ev.Notes = &s
	}
	return &ev, nil
}

// Create inserts a new active event and flips the referenced load to
// in_transit in the same transaction. The event's ID is populated on return
// and the row is read back so callers receive exactly what was stored.
// Returns ErrLoadNotFound when the load row has disappeared between the
// service-level existence check and the insert.
func (r *DetentionRepo) Create(ctx context.Context, ev *model.DetentionEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE loads SET status = ? WHERE id = ?`, model.LoadInTransit, ev.LoadID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both when the load is missing and when it is
		// already in_transit; distinguish with an existence probe.
		var one int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM loads WHERE id = ?`, ev.LoadID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrLoadNotFound
			}
			return err
		}
	}

	ins, err := tx.ExecContext(ctx,
		`INSERT INTO detention_events
		 (load_id, driver_id, checkin_time, free_time_minutes, detention_rate, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.LoadID, ev.DriverID, ev.CheckinTime, ev.FreeTimeMinutes,
		ev.DetentionRate, ev.Status, ev.Notes)
	if err != nil {
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)

	stored, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE id = ?`, ev.ID))
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	*ev = *stored
	return nil
}

// GetByID fetches an event by id. Returns ErrEventNotFound when absent.
func (r *DetentionRepo) GetByID(ctx context.Context, id uint64) (*model.DetentionEvent, error) {
	ev, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return ev, nil
}

// Complete performs the active->completed transition as a conditional
// update: the WHERE clause matches only the active row, so of two racing
// check-outs exactly one succeeds and the other receives ErrEventCompleted.
// Notes are replaced only when a non-nil value is supplied; COALESCE keeps
// the stored text otherwise.
func (r *DetentionRepo) Complete(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE detention_events
		 SET checkout_time = ?, detention_minutes = ?, detention_amount = ?,
		     status = ?, notes = COALESCE(?, notes)
		 WHERE id = ? AND status = ?`,
		checkout, minutes, amount, model.DetentionCompleted, notes, id, model.DetentionActive)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var status string
		if err := tx.QueryRowContext(ctx,
			`SELECT status FROM detention_events WHERE id = ?`, id).Scan(&status); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrEventNotFound
			}
			return nil, err
		}
		return nil, ErrEventCompleted
	}

	ev, err := scanEvent(tx.QueryRowContext(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return ev, nil
}

// ListActive returns all open events ordered by id so live-projection
// output is deterministic.
func (r *DetentionRepo) ListActive(ctx context.Context) ([]*model.DetentionEvent, error) {
	return r.list(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE status = ? ORDER BY id`,
		model.DetentionActive)
}

// ListByLoad returns every event for a load regardless of status, ordered by id.
func (r *DetentionRepo) ListByLoad(ctx context.Context, loadID uint64) ([]*model.DetentionEvent, error) {
	return r.list(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE load_id = ? ORDER BY id`, loadID)
}

// ListByDriver returns every event for a driver regardless of status, ordered by id.
func (r *DetentionRepo) ListByDriver(ctx context.Context, driverID uint64) ([]*model.DetentionEvent, error) {
	return r.list(ctx,
		`SELECT `+detentionColumns+` FROM detention_events WHERE driver_id = ? ORDER BY id`, driverID)
}

// HasActiveForLoad reports whether the load currently has an open event.
// Used by the optional single-active-event policy at check-in.
func (r *DetentionRepo) HasActiveForLoad(ctx context.Context, loadID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM detention_events WHERE load_id = ? AND status = ? LIMIT 1`,
		loadID, model.DetentionActive).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *DetentionRepo) list(ctx context.Context, query string, args ...any) ([]*model.DetentionEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.DetentionEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
