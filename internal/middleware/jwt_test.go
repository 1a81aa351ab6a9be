package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aberkani/logistics-tracker/internal/middleware"
	"github.com/aberkani/logistics-tracker/internal/utils"
)

const testSecret = "unit-test-secret"

func invoke(mw echo.MiddlewareFunc, authorization string, inner echo.HandlerFunc) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(inner)(c)
	return rec
}

func TestJWTAuth_ValidTokenSetsContext(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 9, "ADMIN", 5)
	require.NoError(t, err)

	var gotRole any
	rec := invoke(middleware.JWTAuth(testSecret), "Bearer "+at.Token, func(c echo.Context) error {
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", gotRole)
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec := invoke(middleware.JWTAuth(testSecret), "", func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 9, "ADMIN", 5)
	require.NoError(t, err)

	rec := invoke(middleware.JWTAuth(testSecret), "Bearer "+at.Token, func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	run := func(role any) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		mw := middleware.RequireRole("DISPATCHER", "ADMIN")
		_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
		return rec
	}

	assert.Equal(t, http.StatusOK, run("DISPATCHER").Code)
	assert.Equal(t, http.StatusOK, run("ADMIN").Code)
	assert.Equal(t, http.StatusForbidden, run("DRIVER").Code)
	assert.Equal(t, http.StatusForbidden, run(nil).Code)
}
