package middleware

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// RequestTrace assigns each request a UUID (honoring an inbound
// X-Request-ID from a proxy), echoes it back in the response header, and
// logs one line per request with method, path, status and duration so log
// output can be correlated across services.
func RequestTrace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set("request_id", id)
			c.Response().Header().Set(requestIDHeader, id)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Printf("%s %s status=%d duration=%s request_id=%s",
				c.Request().Method, c.Request().URL.Path,
				c.Response().Status, time.Since(start).Round(time.Millisecond), id)
			return err
		}
	}
}
