// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/aberkani/logistics-tracker/internal/config"
	"github.com/aberkani/logistics-tracker/internal/handler"
	"github.com/aberkani/logistics-tracker/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication. Currently
// only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Token issuance lives
// under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token and issues a fresh pair.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("DISPATCHER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterAPI registers the dispatch resources and the detention engine.
// Everything here requires an access token with a dispatcher or admin role.
// Reference list endpoints sit behind the Redis response cache; writes go
// straight through.
func RegisterAPI(e *echo.Echo, res *handler.ResourceHandler, det *handler.DetentionHandler, jwtSecret string, rdb *redis.Client) {
	api := e.Group("/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	api.Use(middleware.RequireRole("DISPATCHER", "ADMIN"))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	api.POST("/drivers", res.CreateDriver)
	api.GET("/drivers", res.ListDrivers, cache)
	api.GET("/drivers/:id", res.GetDriver)
	api.PUT("/drivers/:id", res.UpdateDriver)
	api.DELETE("/drivers/:id", res.DeleteDriver)
	api.PUT("/drivers/:id/assign/:shipment_id", res.AssignShipment)

	api.POST("/warehouses", res.CreateWarehouse)
	api.GET("/warehouses", res.ListWarehouses, cache)
	api.GET("/warehouses/:id", res.GetWarehouse)
	api.PUT("/warehouses/:id", res.UpdateWarehouse)
	api.DELETE("/warehouses/:id", res.DeleteWarehouse)

	api.POST("/customers", res.CreateCustomer)
	api.GET("/customers", res.ListCustomers, cache)
	api.GET("/customers/:id", res.GetCustomer)
	api.PUT("/customers/:id", res.UpdateCustomer)
	api.DELETE("/customers/:id", res.DeleteCustomer)

	api.POST("/shipments", res.CreateShipment)
	api.GET("/shipments", res.ListShipments)
	api.GET("/shipments/:id", res.GetShipment)
	api.PUT("/shipments/:id", res.UpdateShipment)
	api.DELETE("/shipments/:id", res.DeleteShipment)

	api.POST("/loads", res.CreateLoad)
	api.GET("/loads", res.ListLoads)
	api.GET("/loads/:id", res.GetLoad)
	api.PUT("/loads/:id", res.UpdateLoad)
	api.DELETE("/loads/:id", res.DeleteLoad)

	// Detention engine. Active listings are never cached: elapsed time and
	// accrued amounts are recomputed on every read.
	d := api.Group("/detention")
	d.POST("/checkin", det.CheckIn)
	d.POST("/checkout/:id", det.CheckOut)
	d.GET("/active", det.Active)
	d.GET("/load/:id", det.ByLoad)
	d.GET("/driver/:id", det.ByDriver)
	d.GET("/:id/report", det.Report)
}
