package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vendor-service/internal/service"
	"vendor-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the vendor and purchase order API
type Handler struct {
	db      *gorm.DB
	vendors *service.VendorService
	orders  *service.PurchaseOrderService
}

// New creates a handler on top of the given services. db is only used by
// the health check.
func New(db *gorm.DB, vendors *service.VendorService, orders *service.PurchaseOrderService) *Handler {
	return &Handler{db: db, vendors: vendors, orders: orders}
}

// Register mounts every route on e. Paths carry a trailing slash and expect
// the AddTrailingSlash pre-middleware to normalise requests. apiMiddleware is
// applied to the /api group only, so health and metrics stay public.
func (h *Handler) Register(e *echo.Echo, apiMiddleware ...echo.MiddlewareFunc) {
	// Public routes
	e.GET("/", Hello)
	e.GET("/health/", h.HealthCheck)
	e.GET("/metrics/", echo.WrapHandler(promhttp.Handler()))

	// API routes
	api := e.Group("/api", apiMiddleware...)

	vendors := api.Group("/vendors")
	vendors.GET("/", h.ListVendors)
	vendors.POST("/", h.CreateVendor)
	vendors.GET("/:id/", h.GetVendor)
	vendors.PUT("/:id/", h.UpdateVendor)
	vendors.PATCH("/:id/", h.PatchVendor)
	vendors.DELETE("/:id/", h.DeleteVendor)
	vendors.GET("/:id/performance/", h.VendorPerformance)
	vendors.GET("/:id/history/", h.VendorHistory)
	vendors.POST("/purchase_orders/:po_id/acknowledge/", h.AcknowledgePurchaseOrder)

	orders := api.Group("/purchase_orders")
	orders.GET("/", h.ListPurchaseOrders)
	orders.POST("/", h.CreatePurchaseOrder)
	orders.GET("/:id/", h.GetPurchaseOrder)
	orders.PUT("/:id/", h.UpdatePurchaseOrder)
	orders.PATCH("/:id/", h.PatchPurchaseOrder)
	orders.DELETE("/:id/", h.DeletePurchaseOrder)
}

func detail(message string) echo.Map {
	return echo.Map{"detail": message}
}

// parseID reads a positive integer path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Message: name + ": A valid integer is required."}
	}
	return uint(id), nil
}

// respondError maps service errors onto HTTP responses
func respondError(c echo.Context, err error, action string) error {
	log := logger.FromContext(c)

	// Map error type to status code
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Warn(action+" rejected", zap.String("reason", ve.Message))
		return c.JSON(http.StatusBadRequest, detail(ve.Message))
	case errors.Is(err, service.ErrNotFound):
		log.Info(action+" target not found")
		return c.JSON(http.StatusNotFound, detail("Not found."))
	default:
		log.Error("Failed to "+action, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, detail("Internal server error"))
	}
}

func badRequest(c echo.Context, err error) error {
	logger.FromContext(c).Error("Invalid request data", zap.Error(err))
	return c.JSON(http.StatusBadRequest, detail("Invalid request data"))
}
