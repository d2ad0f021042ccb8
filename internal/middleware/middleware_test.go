package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vendor-service/pkg/config"
	"vendor-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(mw...)
	e.GET("/api/whoami/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":    c.Get("user_id"),
			"request_id": c.Get("request_id"),
		})
	})
	e.GET("/api/fail/", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "nope")
	})
	return e
}

func serve(e *echo.Echo, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	e := newEcho(RequestIDMiddleware)

	rec := serve(e, "/api/whoami/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get(echo.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami/", nil)
	req.Header.Set(echo.HeaderXRequestID, "caller-id")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "caller-id", rec.Header().Get(echo.HeaderXRequestID))
	assert.Contains(t, rec.Body.String(), `"request_id":"caller-id"`)
}

func TestAuthMiddleware(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "middleware-test", ExpirationHours: 1})
	e := newEcho(AuthMiddleware)

	token, err := jwtutil.GenerateToken("buyer@example.com", 12, "buyer")
	require.NoError(t, err)

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"bearer", "Bearer " + token, http.StatusOK},
		{"lowercase bearer", "bearer " + token, http.StatusOK},
		{"raw token", token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, "/api/whoami/", tt.auth)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"user_id":12`)
			}
		})
	}
}

func TestMetricsAndLogging_WriteHandlerErrors(t *testing.T) {
	e := newEcho(MetricsMiddleware, RequestLogger)

	rec := serve(e, "/api/fail/", "")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}
