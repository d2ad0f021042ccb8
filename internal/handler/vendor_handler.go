package handler

import (
	"net/http"

	"vendor-service/internal/service"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListVendors returns every vendor
func (h *Handler) ListVendors(c echo.Context) error {
	prometheus.RecordOperation("vendor", "list")

	vendors, err := h.vendors.List(logger.RequestContext(c))
	if err != nil {
		return respondError(c, err, "list vendors")
	}
	return c.JSON(http.StatusOK, vendors)
}

// CreateVendor creates a new vendor. Metric fields in the body are ignored.
func (h *Handler) CreateVendor(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new vendor")
	prometheus.RecordOperation("vendor", "create")

	// Bind request body
	var req service.VendorInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	// Save vendor
	vendor, err := h.vendors.Create(logger.RequestContext(c), req)
	if err != nil {
		return respondError(c, err, "create vendor")
	}
	return c.JSON(http.StatusCreated, vendor)
}

// GetVendor returns a single vendor
func (h *Handler) GetVendor(c echo.Context) error {
	prometheus.RecordOperation("vendor", "get")

	// Parse vendor ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "get vendor")
	}

	vendor, err := h.vendors.Get(logger.RequestContext(c), id)
	if err != nil {
		return respondError(c, err, "get vendor")
	}
	return c.JSON(http.StatusOK, vendor)
}

// UpdateVendor replaces a vendor's writable fields
func (h *Handler) UpdateVendor(c echo.Context) error {
	return h.updateVendor(c, false)
}

// PatchVendor updates only the supplied vendor fields
func (h *Handler) PatchVendor(c echo.Context) error {
	return h.updateVendor(c, true)
}

func (h *Handler) updateVendor(c echo.Context, partial bool) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("vendor", "update")

	// Parse vendor ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "update vendor")
	}

	// Bind request body
	var req service.VendorInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	log.Info("Vendor update request", zap.Uint("vendor_id", id), zap.Bool("partial", partial))
	// Apply changes
	vendor, err := h.vendors.Update(logger.RequestContext(c), id, req, partial)
	if err != nil {
		return respondError(c, err, "update vendor")
	}
	return c.JSON(http.StatusOK, vendor)
}

// DeleteVendor removes a vendor together with its orders and history
func (h *Handler) DeleteVendor(c echo.Context) error {
	prometheus.RecordOperation("vendor", "delete")

	// Parse vendor ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "delete vendor")
	}

	// Delete the vendor and its orders
	if err := h.vendors.Delete(logger.RequestContext(c), id); err != nil {
		return respondError(c, err, "delete vendor")
	}
	return c.NoContent(http.StatusNoContent)
}

// VendorPerformance returns the vendor's four current metrics
func (h *Handler) VendorPerformance(c echo.Context) error {
	prometheus.RecordOperation("vendor", "performance")

	// Parse vendor ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "get vendor performance")
	}

	// Read stored metrics
	metrics, err := h.vendors.Performance(logger.RequestContext(c), id)
	if err != nil {
		return respondError(c, err, "get vendor performance")
	}
	return c.JSON(http.StatusOK, metrics)
}

// VendorHistory returns the vendor's performance snapshots, newest first
func (h *Handler) VendorHistory(c echo.Context) error {
	prometheus.RecordOperation("vendor", "history")

	// Parse vendor ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "get vendor history")
	}

	history, err := h.vendors.History(logger.RequestContext(c), id)
	if err != nil {
		return respondError(c, err, "get vendor history")
	}
	return c.JSON(http.StatusOK, history)
}
