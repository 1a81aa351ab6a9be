package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aberkani/logistics-tracker/internal/handler"
	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
	"github.com/aberkani/logistics-tracker/internal/service"
)

type stubEventStore struct {
	create     func(ctx context.Context, ev *model.DetentionEvent) error
	getByID    func(ctx context.Context, id uint64) (*model.DetentionEvent, error)
	complete   func(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error)
	listActive func(ctx context.Context) ([]*model.DetentionEvent, error)
}

func (s *stubEventStore) Create(ctx context.Context, ev *model.DetentionEvent) error {
	return s.create(ctx, ev)
}

func (s *stubEventStore) GetByID(ctx context.Context, id uint64) (*model.DetentionEvent, error) {
	return s.getByID(ctx, id)
}

func (s *stubEventStore) Complete(ctx context.Context, id uint64, checkout time.Time, minutes int, amount float64, notes *string) (*model.DetentionEvent, error) {
	return s.complete(ctx, id, checkout, minutes, amount, notes)
}

func (s *stubEventStore) ListActive(ctx context.Context) ([]*model.DetentionEvent, error) {
	return s.listActive(ctx)
}

func (s *stubEventStore) ListByLoad(context.Context, uint64) ([]*model.DetentionEvent, error) {
	return nil, nil
}

func (s *stubEventStore) ListByDriver(context.Context, uint64) ([]*model.DetentionEvent, error) {
	return nil, nil
}

func (s *stubEventStore) HasActiveForLoad(context.Context, uint64) (bool, error) {
	return false, nil
}

type stubLoadStore struct {
	getByID func(ctx context.Context, id uint64) (*model.Load, error)
}

func (s *stubLoadStore) GetByID(ctx context.Context, id uint64) (*model.Load, error) {
	return s.getByID(ctx, id)
}

type stubDriverStore struct{}

func (stubDriverStore) GetByID(context.Context, uint64) (*model.Driver, error) {
	return &model.Driver{ID: 7, Name: "Dana"}, nil
}

var (
	_ service.DetentionStore = (*stubEventStore)(nil)
	_ service.LoadStore      = (*stubLoadStore)(nil)
	_ service.DriverStore    = stubDriverStore{}
)

func postJSON(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newHandler(events *stubEventStore, loads *stubLoadStore) *handler.DetentionHandler {
	svc := service.NewDetentionService(events, loads, stubDriverStore{}, false)
	svc.Clock = func() time.Time {
		return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	}
	return handler.NewDetentionHandler(svc)
}

func TestCheckInEndpoint_Created(t *testing.T) {
	events := &stubEventStore{
		create: func(_ context.Context, ev *model.DetentionEvent) error {
			ev.ID = 42
			return nil
		},
	}
	loads := &stubLoadStore{
		getByID: func(_ context.Context, id uint64) (*model.Load, error) {
			return &model.Load{ID: id, Status: model.LoadPending}, nil
		},
	}
	h := newHandler(events, loads)

	c, rec := postJSON(t, "/v1/detention/checkin", `{"load_id":3,"driver_id":7}`)
	require.NoError(t, h.CheckIn(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var got model.DetentionEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, model.DetentionActive, got.Status)
	assert.Equal(t, model.DefaultFreeTimeMinutes, got.FreeTimeMinutes)
	assert.Equal(t, model.DefaultDetentionRate, got.DetentionRate)
}

func TestCheckInEndpoint_LoadMissing(t *testing.T) {
	loads := &stubLoadStore{
		getByID: func(context.Context, uint64) (*model.Load, error) {
			return nil, repository.ErrLoadNotFound
		},
	}
	h := newHandler(&stubEventStore{}, loads)

	c, rec := postJSON(t, "/v1/detention/checkin", `{"load_id":99,"driver_id":7}`)
	require.NoError(t, h.CheckIn(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckInEndpoint_NegativeRateRejected(t *testing.T) {
	loads := &stubLoadStore{
		getByID: func(_ context.Context, id uint64) (*model.Load, error) {
			return &model.Load{ID: id}, nil
		},
	}
	h := newHandler(&stubEventStore{}, loads)

	c, rec := postJSON(t, "/v1/detention/checkin", `{"load_id":3,"driver_id":7,"detention_rate":-1}`)
	require.NoError(t, h.CheckIn(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckOutEndpoint_Conflict(t *testing.T) {
	done := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	events := &stubEventStore{
		getByID: func(_ context.Context, id uint64) (*model.DetentionEvent, error) {
			return &model.DetentionEvent{
				ID:           id,
				Status:       model.DetentionCompleted,
				CheckinTime:  done.Add(-3 * time.Hour),
				CheckoutTime: &done,
			}, nil
		},
	}
	h := newHandler(events, &stubLoadStore{})

	c, rec := postJSON(t, "/v1/detention/checkout/5", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.CheckOut(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestActiveEndpoint_Projection(t *testing.T) {
	events := &stubEventStore{
		listActive: func(context.Context) ([]*model.DetentionEvent, error) {
			return []*model.DetentionEvent{{
				ID:              1,
				LoadID:          3,
				DriverID:        7,
				CheckinTime:     time.Date(2025, 3, 10, 5, 30, 0, 0, time.UTC),
				FreeTimeMinutes: 120,
				DetentionRate:   50,
				Status:          model.DetentionActive,
			}}, nil
		},
	}
	h := newHandler(events, &stubLoadStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/detention/active", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Active(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []model.ActiveDetention `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	// 150 elapsed minutes against 120 free at the fixed clock.
	assert.Equal(t, 150, resp.Items[0].ElapsedMinutes)
	assert.Equal(t, 30, resp.Items[0].DetentionMinutes)
	assert.InDelta(t, 25.0, resp.Items[0].DetentionAmount, 0.001)
}
