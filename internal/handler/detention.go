package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/queue"
	"github.com/aberkani/logistics-tracker/internal/repository"
	"github.com/aberkani/logistics-tracker/internal/service"
)

// DetentionHandler exposes check-in, check-out and reporting over the
// detention engine.
type DetentionHandler struct {
	Svc *service.DetentionService
}

// NewDetentionHandler wires the detention endpoints to the service layer.
func NewDetentionHandler(svc *service.DetentionService) *DetentionHandler {
	if svc == nil {
		panic("nil detention service passed to NewDetentionHandler")
	}
	return &DetentionHandler{Svc: svc}
}

// CheckIn handles POST /v1/detention/checkin. The check-in timestamp is
// assigned server-side; clients only choose the load, driver and terms.
func (h *DetentionHandler) CheckIn(c echo.Context) error {
	var body struct {
		LoadID          uint64   `json:"load_id"`
		DriverID        uint64   `json:"driver_id"`
		FreeTimeMinutes *int     `json:"free_time_minutes"`
		DetentionRate   *float64 `json:"detention_rate"`
		Notes           *string  `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if body.LoadID == 0 || body.DriverID == 0 {
		return errJSON(c, http.StatusBadRequest, "load_id and driver_id are required")
	}
	ev, err := h.Svc.CheckIn(c.Request().Context(), service.CheckInInput{
		LoadID:          body.LoadID,
		DriverID:        body.DriverID,
		FreeTimeMinutes: body.FreeTimeMinutes,
		DetentionRate:   body.DetentionRate,
		Notes:           body.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			return errJSON(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrLoadNotFound):
			return errJSON(c, http.StatusNotFound, "load not found")
		case errors.Is(err, repository.ErrActiveEventExists):
			return errJSON(c, http.StatusConflict, "load already has an active detention event")
		}
		return errJSON(c, http.StatusInternalServerError, "check-in failed")
	}
	return c.JSON(http.StatusCreated, ev)
}

// CheckOut handles POST /v1/detention/checkout/:id. Only active events may
// be checked out; a second checkout of the same event gets 409.
func (h *DetentionHandler) CheckOut(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	ev, err := h.Svc.CheckOut(c.Request().Context(), id, body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return errJSON(c, http.StatusNotFound, "detention event not found")
		case errors.Is(err, repository.ErrEventCompleted):
			return errJSON(c, http.StatusConflict, "detention event already completed")
		}
		return errJSON(c, http.StatusInternalServerError, "check-out failed")
	}

	// Settlement notification is best-effort; the checkout already committed.
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msg := queue.DetentionCompletedEvent{
			EventID:          ev.ID,
			LoadID:           ev.LoadID,
			DriverID:         ev.DriverID,
			CheckinTime:      ev.CheckinTime.Format(time.RFC3339),
			FreeTimeMinutes:  ev.FreeTimeMinutes,
			DetentionRate:    ev.DetentionRate,
			DetentionMinutes: ev.DetentionMinutes,
			DetentionAmount:  ev.DetentionAmount,
		}
		if ev.CheckoutTime != nil {
			msg.CheckoutTime = ev.CheckoutTime.Format(time.RFC3339)
		}
		if err := queue.PublishDetentionCompleted(pctx, msg); err != nil {
			log.Printf("detention.completed publish failed for event %d: %v", ev.ID, err)
		}
	}()

	return c.JSON(http.StatusOK, ev)
}

// Active handles GET /v1/detention/active and returns the live projection
// of every open event.
func (h *DetentionHandler) Active(c echo.Context) error {
	items, err := h.Svc.ListActive(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ByLoad handles GET /v1/detention/load/:id.
func (h *DetentionHandler) ByLoad(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	items, err := h.Svc.ListByLoad(c.Request().Context(), id)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ByDriver handles GET /v1/detention/driver/:id.
func (h *DetentionHandler) ByDriver(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	items, err := h.Svc.ListByDriver(c.Request().Context(), id)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
