package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/aberkani/logistics-tracker/internal/config"
)

func rateCtx(userID any) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/loads", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/loads")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestCurrentUserID(t *testing.T) {
	// jwt.MapClaims delivers numeric claims as float64.
	assert.Equal(t, "42", currentUserID(rateCtx(float64(42))))
	assert.Equal(t, "7", currentUserID(rateCtx(uint64(7))))
	assert.Equal(t, "abc", currentUserID(rateCtx("abc")))
	assert.Equal(t, "anon", currentUserID(rateCtx(nil)))
	assert.Equal(t, "anon", currentUserID(rateCtx("")))
}

func TestBuildRateKey_Strategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "ltrl", KeyStrategy: "user_route"}
	key := buildRateKey(cfg, rateCtx(float64(42)))
	assert.Equal(t, "ltrl:user:42:route:GET /v1/loads", key)

	cfg.KeyStrategy = "user"
	assert.Equal(t, "ltrl:user:anon", buildRateKey(cfg, rateCtx(nil)))
}
