package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

var shipmentStatuses = map[string]bool{
	"pending":    true,
	"in_transit": true,
	"delivered":  true,
	"cancelled":  true,
}

// CreateShipment handles POST /v1/shipments.
func (h *ResourceHandler) CreateShipment(c echo.Context) error {
	var body struct {
		Origin      string  `json:"origin"`
		Destination string  `json:"destination"`
		Status      string  `json:"status"`
		DriverID    *uint64 `json:"driver_id"`
		WarehouseID *uint64 `json:"warehouse_id"`
		CustomerID  *uint64 `json:"customer_id"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.Origin = strings.TrimSpace(body.Origin)
	body.Destination = strings.TrimSpace(body.Destination)
	if body.Origin == "" || body.Destination == "" {
		return errJSON(c, http.StatusBadRequest, "origin and destination are required")
	}
	if body.Status == "" {
		body.Status = "pending"
	}
	if !shipmentStatuses[body.Status] {
		return errJSON(c, http.StatusBadRequest, "invalid status")
	}
	s := &model.Shipment{
		Origin:      body.Origin,
		Destination: body.Destination,
		Status:      body.Status,
		DriverID:    body.DriverID,
		WarehouseID: body.WarehouseID,
		CustomerID:  body.CustomerID,
	}
	if err := h.Shipments.Create(c.Request().Context(), s); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not create shipment")
	}
	return c.JSON(http.StatusCreated, s)
}

// ListShipments handles GET /v1/shipments.
func (h *ResourceHandler) ListShipments(c echo.Context) error {
	items, err := h.Shipments.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetShipment handles GET /v1/shipments/:id.
func (h *ResourceHandler) GetShipment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	s, err := h.Shipments.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return errJSON(c, http.StatusNotFound, "shipment not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, s)
}

// UpdateShipment handles PUT /v1/shipments/:id.
func (h *ResourceHandler) UpdateShipment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var patch model.ShipmentPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if patch.Status != nil && !shipmentStatuses[*patch.Status] {
		return errJSON(c, http.StatusBadRequest, "invalid status")
	}
	s, err := h.Shipments.Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return errJSON(c, http.StatusNotFound, "shipment not found")
		}
		return errJSON(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteShipment handles DELETE /v1/shipments/:id.
func (h *ResourceHandler) DeleteShipment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Shipments.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return errJSON(c, http.StatusNotFound, "shipment not found")
		}
		return errJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return deleted(c, "Shipment")
}
