// Package service holds the detention accrual and settlement engine. It
// owns the two lifecycle transitions (check-in, check-out), the live
// projection for open events, and the fee arithmetic. Persistence is
// reached through narrow store interfaces so the engine can be exercised
// in tests with hand-written doubles.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

// ErrInvalidInput wraps all request-validation failures. Handlers map it to
// HTTP 400.
var ErrInvalidInput = errors.New("invalid input")

// DetentionStore is the persistence surface the engine needs for events.
// *repository.DetentionRepo satisfies it.
type DetentionStore interface {
	Create(ctx context.Context, ev *model.DetentionEvent) error
	GetByID(ctx context.Context, id uint64) (*model.DetentionEvent, error)
	Complete(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error)
	ListActive(ctx context.Context) ([]*model.DetentionEvent, error)
	ListByLoad(ctx context.Context, loadID uint64) ([]*model.DetentionEvent, error)
	ListByDriver(ctx context.Context, driverID uint64) ([]*model.DetentionEvent, error)
	HasActiveForLoad(ctx context.Context, loadID uint64) (bool, error)
}

// LoadStore resolves load references. *repository.LoadRepo satisfies it.
type LoadStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Load, error)
}

// DriverStore resolves driver references. *repository.DriverRepo satisfies it.
type DriverStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Driver, error)
}

// DetentionService implements the detention workflow. ExclusiveActive, when
// set, rejects a check-in against a load that already has an open event;
// the default keeps the permissive behavior where repeated check-ins may
// overlap (multi-stop detention).
type DetentionService struct {
	Events          DetentionStore
	Loads           LoadStore
	Drivers         DriverStore
	ExclusiveActive bool

	// Clock returns the current time; replaced in tests.
	Clock func() time.Time
}

// NewDetentionService wires the engine to its stores.
func NewDetentionService(events DetentionStore, loads LoadStore, drivers DriverStore, exclusiveActive bool) *DetentionService {
	return &DetentionService{
		Events:          events,
		Loads:           loads,
		Drivers:         drivers,
		ExclusiveActive: exclusiveActive,
		Clock:           time.Now,
	}
}

// CheckInInput carries the check-in request. Omitted free time and rate
// fall back to the per-event defaults (120 minutes, $50/hour).
type CheckInInput struct {
	LoadID          uint64
	DriverID        uint64
	FreeTimeMinutes *int
	DetentionRate   *float64
	Notes           *string
}

// CheckIn opens a detention event. The check-in timestamp is always
// assigned server-side so callers cannot backdate accrual. The referenced
// load must exist; its status moves to in_transit atomically with the
// event insert.
func (s *DetentionService) CheckIn(ctx context.Context, in CheckInInput) (*model.DetentionEvent, error) {
	free := model.DefaultFreeTimeMinutes
	if in.FreeTimeMinutes != nil {
		free = *in.FreeTimeMinutes
	}
	rate := model.DefaultDetentionRate
	if in.DetentionRate != nil {
		rate = *in.DetentionRate
	}
	if free < 0 {
		return nil, fmt.Errorf("%w: free_time_minutes must be non-negative", ErrInvalidInput)
	}
	if rate < 0 {
		return nil, fmt.Errorf("%w: detention_rate must be non-negative", ErrInvalidInput)
	}

	if _, err := s.Loads.GetByID(ctx, in.LoadID); err != nil {
		return nil, err
	}
	if s.ExclusiveActive {
		active, err := s.Events.HasActiveForLoad(ctx, in.LoadID)
		if err != nil {
			return nil, err
		}
		if active {
			return nil, repository.ErrActiveEventExists
		}
	}

	ev := &model.DetentionEvent{
		LoadID:          in.LoadID,
		DriverID:        in.DriverID,
		CheckinTime:     s.Clock().UTC(),
		FreeTimeMinutes: free,
		DetentionRate:   rate,
		Status:          model.DetentionActive,
		Notes:           in.Notes,
	}
	if err := s.Events.Create(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// CheckOut closes an event: it stamps the checkout time, settles the
// detention minutes and amount from the stored check-in data, and marks
// the event completed. The store performs the transition as a conditional
// update, so a second concurrent check-out surfaces ErrEventCompleted.
// An empty notes value never clears existing notes.
func (s *DetentionService) CheckOut(ctx context.Context, eventID uint64, notes *string) (*model.DetentionEvent, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Status != model.DetentionActive {
		return nil, repository.ErrEventCompleted
	}

	checkout := s.Clock().UTC()
	minutes, amount := Settle(ev.CheckinTime, checkout, ev.FreeTimeMinutes, ev.DetentionRate)

	if notes != nil && *notes == "" {
		notes = nil
	}
	return s.Events.Complete(ctx, eventID, checkout, minutes, amount, notes)
}

// ListActive returns the live projection for every open event, ordered by
// event id. Nothing is persisted; the figures are recomputed against the
// current clock.
func (s *DetentionService) ListActive(ctx context.Context) ([]model.ActiveDetention, error) {
	events, err := s.Events.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Clock().UTC()
	out := make([]model.ActiveDetention, 0, len(events))
	for _, ev := range events {
		elapsed := ElapsedMinutes(ev.CheckinTime, now)
		detained := max(0, elapsed-ev.FreeTimeMinutes)
		out = append(out, model.ActiveDetention{
			ID:                ev.ID,
			LoadID:            ev.LoadID,
			DriverID:          ev.DriverID,
			CheckinTime:       ev.CheckinTime,
			ElapsedMinutes:    elapsed,
			FreeTimeRemaining: max(0, ev.FreeTimeMinutes-elapsed),
			DetentionMinutes:  detained,
			DetentionAmount:   DetentionAmount(detained, ev.DetentionRate),
			Status:            ev.Status,
		})
	}
	return out, nil
}

// ListByLoad returns all events for a load, any status.
func (s *DetentionService) ListByLoad(ctx context.Context, loadID uint64) ([]*model.DetentionEvent, error) {
	return s.Events.ListByLoad(ctx, loadID)
}

// ListByDriver returns all events for a driver, any status.
func (s *DetentionService) ListByDriver(ctx context.Context, driverID uint64) ([]*model.DetentionEvent, error) {
	return s.Events.ListByDriver(ctx, driverID)
}

// DetentionReport bundles an event with its referenced load and driver for
// rendering. Load and Driver may be nil when the referenced rows have been
// removed administratively; the renderer substitutes placeholders.
type DetentionReport struct {
	Event  *model.DetentionEvent
	Load   *model.Load
	Driver *model.Driver
}

// Report assembles the data behind the detention report document. Only the
// event itself is required to exist.
func (s *DetentionService) Report(ctx context.Context, eventID uint64) (DetentionReport, error) {
	ev, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return DetentionReport{}, err
	}
	rep := DetentionReport{Event: ev}
	if l, err := s.Loads.GetByID(ctx, ev.LoadID); err == nil {
		rep.Load = l
	} else if !errors.Is(err, repository.ErrLoadNotFound) {
		return DetentionReport{}, err
	}
	if d, err := s.Drivers.GetByID(ctx, ev.DriverID); err == nil {
		rep.Driver = d
	} else if !errors.Is(err, repository.ErrDriverNotFound) {
		return DetentionReport{}, err
	}
	return rep, nil
}

// ElapsedMinutes returns the whole minutes between two instants, floored.
// Both are normalized to UTC before subtracting so rows written by older
// deployments without zone information compare correctly.
func ElapsedMinutes(from, to time.Time) int {
	d := to.UTC().Sub(from.UTC())
	if d < 0 {
		return 0
	}
	return int(d / time.Minute)
}

// Settle computes the final detention minutes and amount for a completed
// event: minutes beyond the free period at the hourly rate, rounded to
// cents.
func Settle(checkin, checkout time.Time, freeMinutes int, rate float64) (int, float64) {
	elapsed := ElapsedMinutes(checkin, checkout)
	minutes := max(0, elapsed-freeMinutes)
	return minutes, DetentionAmount(minutes, rate)
}

// DetentionAmount converts detained minutes at an hourly rate into a
// monetary value rounded to two decimals.
func DetentionAmount(minutes int, rate float64) float64 {
	return math.Round(float64(minutes)/60*rate*100) / 100
}
