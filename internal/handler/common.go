package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/aberkani/logistics-tracker/internal/repository"
)

// ResourceHandler bundles the repositories behind the entity CRUD
// endpoints (drivers, warehouses, customers, shipments, loads). All
// methods assume JWT authentication and role validation have already run.
type ResourceHandler struct {
	Drivers    *repository.DriverRepo
	Warehouses *repository.WarehouseRepo
	Customers  *repository.CustomerRepo
	Shipments  *repository.ShipmentRepo
	Loads      *repository.LoadRepo
}

// NewResourceHandler constructs a ResourceHandler and panics if any
// dependency is nil.
func NewResourceHandler(drivers *repository.DriverRepo, warehouses *repository.WarehouseRepo, customers *repository.CustomerRepo, shipments *repository.ShipmentRepo, loads *repository.LoadRepo) *ResourceHandler {
	if drivers == nil || warehouses == nil || customers == nil || shipments == nil || loads == nil {
		panic("nil repository passed to NewResourceHandler")
	}
	return &ResourceHandler{
		Drivers:    drivers,
		Warehouses: warehouses,
		Customers:  customers,
		Shipments:  shipments,
		Loads:      loads,
	}
}

// pathID parses the named path parameter as a positive integer id.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// errJSON writes a single-field error body.
func errJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}

// deleted is the body returned by successful delete endpoints.
func deleted(c echo.Context, what string) error {
	return c.JSON(http.StatusOK, echo.Map{"message": what + " deleted successfully"})
}
