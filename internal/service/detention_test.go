package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
	"github.com/aberkani/logistics-tracker/internal/service"
)

// ---- mock stores -----------------------------------------------------------

// mockDetentionStore is a hand-written test double for service.DetentionStore.
type mockDetentionStore struct {
	create           func(ctx context.Context, ev *model.DetentionEvent) error
	getByID          func(ctx context.Context, id uint64) (*model.DetentionEvent, error)
	complete         func(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error)
	listActive       func(ctx context.Context) ([]*model.DetentionEvent, error)
	listByLoad       func(ctx context.Context, loadID uint64) ([]*model.DetentionEvent, error)
	listByDriver     func(ctx context.Context, driverID uint64) ([]*model.DetentionEvent, error)
	hasActiveForLoad func(ctx context.Context, loadID uint64) (bool, error)
}

func (m *mockDetentionStore) Create(ctx context.Context, ev *model.DetentionEvent) error {
	return m.create(ctx, ev)
}
func (m *mockDetentionStore) GetByID(ctx context.Context, id uint64) (*model.DetentionEvent, error) {
	return m.getByID(ctx, id)
}
func (m *mockDetentionStore) Complete(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error) {
	return m.complete(ctx, id, checkout, minutes, amount, notes)
}
func (m *mockDetentionStore) ListActive(ctx context.Context) ([]*model.DetentionEvent, error) {
	return m.listActive(ctx)
}
func (m *mockDetentionStore) ListByLoad(ctx context.Context, loadID uint64) ([]*model.DetentionEvent, error) {
	return m.listByLoad(ctx, loadID)
}
func (m *mockDetentionStore) ListByDriver(ctx context.Context, driverID uint64) ([]*model.DetentionEvent, error) {
	return m.listByDriver(ctx, driverID)
}
func (m *mockDetentionStore) HasActiveForLoad(ctx context.Context, loadID uint64) (bool, error) {
	if m.hasActiveForLoad != nil {
		return m.hasActiveForLoad(ctx, loadID)
	}
	return false, nil
}

var _ service.DetentionStore = (*mockDetentionStore)(nil)

type mockLoadStore struct {
	getByID func(ctx context.Context, id uint64) (*model.Load, error)
}

func (m *mockLoadStore) GetByID(ctx context.Context, id uint64) (*model.Load, error) {
	return m.getByID(ctx, id)
}

var _ service.LoadStore = (*mockLoadStore)(nil)

type mockDriverStore struct {
	getByID func(ctx context.Context, id uint64) (*model.Driver, error)
}

func (m *mockDriverStore) GetByID(ctx context.Context, id uint64) (*model.Driver, error) {
	return m.getByID(ctx, id)
}

var _ service.DriverStore = (*mockDriverStore)(nil)

// ---- helpers ---------------------------------------------------------------

func existingLoad() *mockLoadStore {
	return &mockLoadStore{
		getByID: func(_ context.Context, id uint64) (*model.Load, error) {
			return &model.Load{ID: id, LoadNumber: "LD-1001", Status: model.LoadPending}, nil
		},
	}
}

func newService(events *mockDetentionStore, loads *mockLoadStore) *service.DetentionService {
	return service.NewDetentionService(events, loads, &mockDriverStore{}, false)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

// ---- settlement arithmetic -------------------------------------------------

func TestSettle(t *testing.T) {
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		elapsed     time.Duration
		freeMinutes int
		rate        float64
		wantMinutes int
		wantAmount  float64
	}{
		{"within free time", 90 * time.Minute, 120, 50.0, 0, 0.0},
		{"exactly at free time", 120 * time.Minute, 120, 50.0, 0, 0.0},
		{"thirty minutes over", 90 * time.Minute, 60, 40.0, 30, 20.0},
		{"default rate overage", 150 * time.Minute, 120, 50.0, 30, 25.0},
		{"partial minute floors", 30*time.Minute + 59*time.Second, 0, 60.0, 30, 30.0},
		{"rounds to cents", 25 * time.Minute, 0, 47.5, 25, 19.79},
		{"zero rate", 300 * time.Minute, 0, 0.0, 300, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minutes, amount := service.Settle(base, base.Add(tt.elapsed), tt.freeMinutes, tt.rate)
			assert.Equal(t, tt.wantMinutes, minutes)
			assert.InDelta(t, tt.wantAmount, amount, 0.0001)
		})
	}
}

func TestElapsedMinutes_MixedZones(t *testing.T) {
	// A row written without zone information is interpreted as UTC, so a
	// checkin scanned in a fixed offset zone must still compare correctly.
	est := time.FixedZone("EST", -5*3600)
	checkin := time.Date(2025, 3, 10, 3, 0, 0, 0, est) // 08:00 UTC
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, 90, service.ElapsedMinutes(checkin, now))
}

func TestElapsedMinutes_NeverNegative(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, service.ElapsedMinutes(now.Add(time.Hour), now))
}

// ---- CheckIn ---------------------------------------------------------------

func TestCheckIn_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	events := &mockDetentionStore{
		create: func(_ context.Context, ev *model.DetentionEvent) error {
			ev.ID = 7
			return nil
		},
	}
	svc := newService(events, existingLoad())
	svc.Clock = fixedClock(now)

	ev, err := svc.CheckIn(context.Background(), service.CheckInInput{LoadID: 1, DriverID: 2})
	require.NoError(t, err)

	assert.Equal(t, uint64(7), ev.ID)
	assert.Equal(t, model.DetentionActive, ev.Status)
	assert.Nil(t, ev.CheckoutTime)
	assert.Equal(t, now, ev.CheckinTime)
	assert.Equal(t, 120, ev.FreeTimeMinutes)
	assert.Equal(t, 50.0, ev.DetentionRate)
	assert.Equal(t, 0, ev.DetentionMinutes)
	assert.Equal(t, 0.0, ev.DetentionAmount)
}

func TestCheckIn_CustomTerms(t *testing.T) {
	events := &mockDetentionStore{
		create: func(_ context.Context, ev *model.DetentionEvent) error {
			ev.ID = 8
			return nil
		},
	}
	svc := newService(events, existingLoad())

	ev, err := svc.CheckIn(context.Background(), service.CheckInInput{
		LoadID:          1,
		DriverID:        2,
		FreeTimeMinutes: intPtr(60),
		DetentionRate:   floatPtr(40.0),
		Notes:           strPtr("dock 14"),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, ev.FreeTimeMinutes)
	assert.Equal(t, 40.0, ev.DetentionRate)
	require.NotNil(t, ev.Notes)
	assert.Equal(t, "dock 14", *ev.Notes)
}

func TestCheckIn_LoadNotFound(t *testing.T) {
	loads := &mockLoadStore{
		getByID: func(_ context.Context, _ uint64) (*model.Load, error) {
			return nil, repository.ErrLoadNotFound
		},
	}
	svc := newService(&mockDetentionStore{}, loads)

	_, err := svc.CheckIn(context.Background(), service.CheckInInput{LoadID: 99, DriverID: 2})
	assert.ErrorIs(t, err, repository.ErrLoadNotFound)
}

func TestCheckIn_RejectsNegativeTerms(t *testing.T) {
	svc := newService(&mockDetentionStore{}, existingLoad())

	_, err := svc.CheckIn(context.Background(), service.CheckInInput{
		LoadID: 1, DriverID: 2, FreeTimeMinutes: intPtr(-1),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CheckIn(context.Background(), service.CheckInInput{
		LoadID: 1, DriverID: 2, DetentionRate: floatPtr(-0.5),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCheckIn_ExclusivePolicy(t *testing.T) {
	events := &mockDetentionStore{
		hasActiveForLoad: func(_ context.Context, _ uint64) (bool, error) { return true, nil },
	}
	svc := service.NewDetentionService(events, existingLoad(), &mockDriverStore{}, true)

	_, err := svc.CheckIn(context.Background(), service.CheckInInput{LoadID: 1, DriverID: 2})
	assert.ErrorIs(t, err, repository.ErrActiveEventExists)
}

// ---- CheckOut --------------------------------------------------------------

func TestCheckOut_SettlesAndCompletes(t *testing.T) {
	checkin := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	now := checkin.Add(90 * time.Minute)

	var gotMinutes int
	var gotAmount float64
	var gotCheckout time.Time
	events := &mockDetentionStore{
		getByID: func(_ context.Context, id uint64) (*model.DetentionEvent, error) {
			return &model.DetentionEvent{
				ID: id, LoadID: 1, DriverID: 2,
				CheckinTime:     checkin,
				FreeTimeMinutes: 60,
				DetentionRate:   40.0,
				Status:          model.DetentionActive,
			}, nil
		},
		complete: func(_ context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error) {
			gotCheckout, gotMinutes, gotAmount = checkout, minutes, amount
			return &model.DetentionEvent{
				ID: id, LoadID: 1, DriverID: 2,
				CheckinTime:      checkin,
				CheckoutTime:     &checkout,
				FreeTimeMinutes:  60,
				DetentionRate:    40.0,
				DetentionMinutes: minutes,
				DetentionAmount:  amount,
				Status:           model.DetentionCompleted,
				Notes:            notes,
			}, nil
		},
	}
	svc := newService(events, existingLoad())
	svc.Clock = fixedClock(now)

	ev, err := svc.CheckOut(context.Background(), 5, nil)
	require.NoError(t, err)

	assert.Equal(t, 30, gotMinutes)
	assert.InDelta(t, 20.0, gotAmount, 0.0001)
	assert.Equal(t, now, gotCheckout)
	assert.Equal(t, model.DetentionCompleted, ev.Status)
	require.NotNil(t, ev.CheckoutTime)
	assert.Equal(t, now, *ev.CheckoutTime)
}

func TestCheckOut_EmptyNotesDoNotClear(t *testing.T) {
	checkin := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	var gotNotes *string = strPtr("sentinel")
	events := &mockDetentionStore{
		getByID: func(_ context.Context, id uint64) (*model.DetentionEvent, error) {
			return &model.DetentionEvent{
				ID: id, CheckinTime: checkin,
				FreeTimeMinutes: 120, DetentionRate: 50.0,
				Status: model.DetentionActive,
			}, nil
		},
		complete: func(_ context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error) {
			gotNotes = notes
			return &model.DetentionEvent{ID: id, Status: model.DetentionCompleted}, nil
		},
	}
	svc := newService(events, existingLoad())
	svc.Clock = fixedClock(checkin.Add(time.Hour))

	_, err := svc.CheckOut(context.Background(), 5, strPtr(""))
	require.NoError(t, err)
	assert.Nil(t, gotNotes, "empty notes must not overwrite stored notes")
}

func TestCheckOut_NotFound(t *testing.T) {
	events := &mockDetentionStore{
		getByID: func(_ context.Context, _ uint64) (*model.DetentionEvent, error) {
			return nil, repository.ErrEventNotFound
		},
	}
	svc := newService(events, existingLoad())

	_, err := svc.CheckOut(context.Background(), 99, nil)
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestCheckOut_AlreadyCompleted(t *testing.T) {
	done := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := &mockDetentionStore{
		getByID: func(_ context.Context, id uint64) (*model.DetentionEvent, error) {
			return &model.DetentionEvent{
				ID: id, CheckinTime: done.Add(-3 * time.Hour), CheckoutTime: &done,
				Status: model.DetentionCompleted,
			}, nil
		},
	}
	svc := newService(events, existingLoad())

	_, err := svc.CheckOut(context.Background(), 5, nil)
	assert.ErrorIs(t, err, repository.ErrEventCompleted)
}

// ---- live projection ---------------------------------------------------------

func TestListActive_Projection(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := &mockDetentionStore{
		listActive: func(_ context.Context) ([]*model.DetentionEvent, error) {
			return []*model.DetentionEvent{
				{
					ID: 1, LoadID: 10, DriverID: 20,
					CheckinTime:     now.Add(-150 * time.Minute),
					FreeTimeMinutes: 120,
					DetentionRate:   50.0,
					Status:          model.DetentionActive,
				},
				{
					ID: 2, LoadID: 11, DriverID: 21,
					CheckinTime:     now.Add(-30 * time.Minute),
					FreeTimeMinutes: 120,
					DetentionRate:   50.0,
					Status:          model.DetentionActive,
				},
			}, nil
		},
	}
	svc := newService(events, existingLoad())
	svc.Clock = fixedClock(now)

	got, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// 150 minutes elapsed against 120 free: 30 detained minutes at $50/h.
	assert.Equal(t, 150, got[0].ElapsedMinutes)
	assert.Equal(t, 0, got[0].FreeTimeRemaining)
	assert.Equal(t, 30, got[0].DetentionMinutes)
	assert.InDelta(t, 25.0, got[0].DetentionAmount, 0.0001)

	// Still inside the free period: fee stays zero, remaining counts down.
	assert.Equal(t, 30, got[1].ElapsedMinutes)
	assert.Equal(t, 90, got[1].FreeTimeRemaining)
	assert.Equal(t, 0, got[1].DetentionMinutes)
	assert.Equal(t, 0.0, got[1].DetentionAmount)
}

// ---- report ----------------------------------------------------------------

func TestReport_MissingLoadAndDriverTolerated(t *testing.T) {
	events := &mockDetentionStore{
		getByID: func(_ context.Context, id uint64) (*model.DetentionEvent, error) {
			return &model.DetentionEvent{ID: id, LoadID: 1, DriverID: 2, Status: model.DetentionActive}, nil
		},
	}
	loads := &mockLoadStore{
		getByID: func(_ context.Context, _ uint64) (*model.Load, error) {
			return nil, repository.ErrLoadNotFound
		},
	}
	drivers := &mockDriverStore{
		getByID: func(_ context.Context, _ uint64) (*model.Driver, error) {
			return nil, repository.ErrDriverNotFound
		},
	}
	svc := service.NewDetentionService(events, loads, drivers, false)

	rep, err := svc.Report(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, rep.Event)
	assert.Nil(t, rep.Load)
	assert.Nil(t, rep.Driver)
}
