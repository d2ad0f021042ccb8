package main

import (
	"vendor-service/internal/handler"
	"vendor-service/internal/middleware"
	"vendor-service/internal/performance"
	"vendor-service/internal/service"
	"vendor-service/pkg/config"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// newServer wires services, handlers and middleware into an echo instance
func newServer(cfg *config.Config, db *gorm.DB) *echo.Echo {
	recalculator := performance.NewRecalculator(performance.ResponseTimeMode(cfg.Metrics.ResponseTimeMode))
	vendors := service.NewVendorService(db)
	orders := service.NewPurchaseOrderService(db, recalculator)

	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Pre(echomiddleware.AddTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(middleware.MetricsMiddleware)
	e.Use(middleware.RequestLogger)

	var apiMiddleware []echo.MiddlewareFunc
	if cfg.JWT.Enabled {
		apiMiddleware = append(apiMiddleware, middleware.AuthMiddleware)
	}

	handler.New(db, vendors, orders).Register(e, apiMiddleware...)
	return e
}
