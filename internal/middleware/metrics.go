package middleware

import (
	"time"

	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MetricsMiddleware records prometheus metrics for every HTTP request.
// The route template is used as path label to keep cardinality bounded.
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		// Process request
		err := next(c)
		if err != nil {
			// Let echo write the error response so the recorded status is final
			c.Error(err)
		}

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
		return nil
	}
}

// RequestLogger logs one structured line per request
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		// Process request
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		// Log request details
		logger.FromContext(c).Info("HTTP Request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Float64("duration_s", time.Since(start).Seconds()),
			zap.String("ip", c.RealIP()),
		)
		return nil
	}
}
