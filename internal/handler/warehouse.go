package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

// CreateWarehouse handles POST /v1/warehouses.
func (h *ResourceHandler) CreateWarehouse(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Location string `json:"location"`
		Capacity int    `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return errJSON(c, http.StatusBadRequest, "name is required")
	}
	if body.Capacity < 0 {
		return errJSON(c, http.StatusBadRequest, "capacity must not be negative")
	}
	w := &model.Warehouse{Name: body.Name, Location: body.Location, Capacity: body.Capacity}
	if err := h.Warehouses.Create(c.Request().Context(), w); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not create warehouse")
	}
	return c.JSON(http.StatusCreated, w)
}

// ListWarehouses handles GET /v1/warehouses.
func (h *ResourceHandler) ListWarehouses(c echo.Context) error {
	items, err := h.Warehouses.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetWarehouse handles GET /v1/warehouses/:id.
func (h *ResourceHandler) GetWarehouse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	w, err := h.Warehouses.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return errJSON(c, http.StatusNotFound, "warehouse not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, w)
}

// UpdateWarehouse handles PUT /v1/warehouses/:id.
func (h *ResourceHandler) UpdateWarehouse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var patch model.WarehousePatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if patch.Capacity != nil && *patch.Capacity < 0 {
		return errJSON(c, http.StatusBadRequest, "capacity must not be negative")
	}
	w, err := h.Warehouses.Update(c.Request().Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return errJSON(c, http.StatusNotFound, "warehouse not found")
		}
		return errJSON(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, w)
}

// DeleteWarehouse handles DELETE /v1/warehouses/:id.
func (h *ResourceHandler) DeleteWarehouse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Warehouses.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrWarehouseNotFound) {
			return errJSON(c, http.StatusNotFound, "warehouse not found")
		}
		return errJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return deleted(c, "Warehouse")
}
