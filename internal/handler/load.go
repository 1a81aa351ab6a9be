package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

var loadStatuses = map[string]bool{
	model.LoadPending:   true,
	model.LoadInTransit: true,
	model.LoadDelivered: true,
}

// CreateLoad handles POST /v1/loads. New loads start out pending.
func (h *ResourceHandler) CreateLoad(c echo.Context) error {
	var body struct {
		LoadNumber     string  `json:"load_number"`
		ShipperName    string  `json:"shipper_name"`
		ShipperAddress string  `json:"shipper_address"`
		DriverID       *uint64 `json:"driver_id"`
		ShipmentID     *uint64 `json:"shipment_id"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.LoadNumber = strings.TrimSpace(body.LoadNumber)
	if body.LoadNumber == "" {
		return errJSON(c, http.StatusBadRequest, "load_number is required")
	}
	l := &model.Load{
		LoadNumber:     body.LoadNumber,
		ShipperName:    body.ShipperName,
		ShipperAddress: body.ShipperAddress,
		DriverID:       body.DriverID,
		ShipmentID:     body.ShipmentID,
		Status:         model.LoadPending,
	}
	if err := h.Loads.Create(c.Request().Context(), l); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errJSON(c, http.StatusConflict, "load number already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "could not create load")
	}
	return c.JSON(http.StatusCreated, l)
}

// ListLoads handles GET /v1/loads.
func (h *ResourceHandler) ListLoads(c echo.Context) error {
	items, err := h.Loads.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetLoad handles GET /v1/loads/:id.
func (h *ResourceHandler) GetLoad(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	l, err := h.Loads.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrLoadNotFound) {
			return errJSON(c, http.StatusNotFound, "load not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, l)
}

// UpdateLoad handles PUT /v1/loads/:id.
func (h *ResourceHandler) UpdateLoad(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var patch model.LoadPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if patch.Status != nil && !loadStatuses[*patch.Status] {
		return errJSON(c, http.StatusBadRequest, "invalid status")
	}
	l, err := h.Loads.Update(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLoadNotFound):
			return errJSON(c, http.StatusNotFound, "load not found")
		case errors.Is(err, repository.ErrDuplicate):
			return errJSON(c, http.StatusConflict, "load number already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, l)
}

// DeleteLoad handles DELETE /v1/loads/:id.
func (h *ResourceHandler) DeleteLoad(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Loads.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrLoadNotFound) {
			return errJSON(c, http.StatusNotFound, "load not found")
		}
		return errJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return deleted(c, "Load")
}
