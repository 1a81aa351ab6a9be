package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/model"
	"github.com/aberkani/logistics-tracker/internal/repository"
)

// CreateCustomer handles POST /v1/customers.
func (h *ResourceHandler) CreateCustomer(c echo.Context) error {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	if body.Name == "" || body.Email == "" {
		return errJSON(c, http.StatusBadRequest, "name and email are required")
	}
	cu := &model.Customer{Name: body.Name, Email: body.Email, Phone: body.Phone}
	if err := h.Customers.Create(c.Request().Context(), cu); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errJSON(c, http.StatusConflict, "email already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "could not create customer")
	}
	return c.JSON(http.StatusCreated, cu)
}

// ListCustomers handles GET /v1/customers.
func (h *ResourceHandler) ListCustomers(c echo.Context) error {
	items, err := h.Customers.ListAll(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetCustomer handles GET /v1/customers/:id.
func (h *ResourceHandler) GetCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	cu, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return errJSON(c, http.StatusNotFound, "customer not found")
		}
		return errJSON(c, http.StatusInternalServerError, "db error")
	}
	return c.JSON(http.StatusOK, cu)
}

// UpdateCustomer handles PUT /v1/customers/:id.
func (h *ResourceHandler) UpdateCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var patch model.CustomerPatch
	if err := c.Bind(&patch); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if patch.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*patch.Email))
		patch.Email = &normalized
	}
	cu, err := h.Customers.Update(c.Request().Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCustomerNotFound):
			return errJSON(c, http.StatusNotFound, "customer not found")
		case errors.Is(err, repository.ErrDuplicate):
			return errJSON(c, http.StatusConflict, "email already exists")
		}
		return errJSON(c, http.StatusInternalServerError, "update failed")
	}
	return c.JSON(http.StatusOK, cu)
}

// DeleteCustomer handles DELETE /v1/customers/:id.
func (h *ResourceHandler) DeleteCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.Customers.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return errJSON(c, http.StatusNotFound, "customer not found")
		}
		return errJSON(c, http.StatusInternalServerError, "delete failed")
	}
	return deleted(c, "Customer")
}
