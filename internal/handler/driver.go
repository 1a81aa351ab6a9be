package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

// CreateDriver handles POST /v1/drivers.
func (h *ResourceHandler) CreateDriver(c echo.Context) error {
	var body struct {
		Name          string `json:"name"`
		Phone         string `json:"phone"`
		LicenseNumber string `json:"license_number"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	body.LicenseNumber = strings.TrimSpace(body.LicenseNumber)
	if body.Name == "" || body.LicenseNumber == "" {
		return errJSON(c, http.StatusBadRequest, "name and license_number are required")
	}
	d := &model.Driver{Name: body.Name, Phone: body.Phone, LicenseNumber: body.LicenseNumber}
	if err := h.Drivers.Create(c.Request().Context(), d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errJSON(c, http.StatusConflict, "license number already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "could not create driver")
	}
	return c.JSON(http.StatusCreated, d)
}

// ListDrivers handles GET /v1/drivers.
func (h *ResourceHandler) ListDrivers(c echo.Context) error {
	items, err := h.Drivers.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetDriver handles GET /v1/drivers/:id.
func (h *ResourceHandler) GetDriver(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	d, err := h.Drivers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return errJSON(c, http.StatusNotFound, "driver not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, d)
}

// UpdateDriver handles PUT /v1/drivers/:id with a partial update body.
func (h *ResourceHandler) UpdateDriver(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var patch model.DriverPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	d, err := h.Drivers.Update(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDriverNotFound):
			return errJSON(c, http.StatusNotFound, "driver not found")
		case errors.Is(err, repository.ErrDuplicate):
			return errJSON(c, http.StatusConflict, "license number already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, d)
}

// DeleteDriver handles DELETE /v1/drivers/:id.
func (h *ResourceHandler) DeleteDriver(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Drivers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return errJSON(c, http.StatusNotFound, "driver not found")
		}
		return errJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return deleted(c, "Driver")
}

// AssignShipment handles PUT /v1/drivers/:id/assign/:shipment_id and links
// a shipment to the driver.
func (h *ResourceHandler) AssignShipment(c echo.Context) error {
	driverID, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid driver id")
	}
	shipmentID, ok := pathID(c, "shipment_id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid shipment id")
	}
	ctx := c.Request().Context()
	if _, err := h.Drivers.GetByID(ctx, driverID); err != nil {
		if errors.Is(err, repository.ErrDriverNotFound) {
			return errJSON(c, http.StatusNotFound, "driver not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	if err := h.Shipments.AssignDriver(ctx, shipmentID, driverID); err != nil {
		if errors.Is(err, repository.ErrShipmentNotFound) {
			return errJSON(c, http.StatusNotFound, "shipment not found")
		}
		return errJSON(c, http.StatusInternalServerError, "assign failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "shipment assigned",
		"shipment_id": shipmentID,
		"driver_id":   driverID,
	})
}
