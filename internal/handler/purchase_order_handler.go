package handler

import (
	"net/http"
	"strconv"

	"vendor-service/internal/service"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListPurchaseOrders returns purchase orders, optionally for one vendor
func (h *Handler) ListPurchaseOrders(c echo.Context) error {
	prometheus.RecordOperation("purchase_order", "list")

	// Handle query parameters for filtering
	var filter service.PurchaseOrderFilter
	if raw := c.QueryParam("vendor_id"); raw != "" {
		vendorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, detail("vendor_id: A valid integer is required."))
		}
		id := uint(vendorID)
		filter.VendorID = &id
	}

	orders, err := h.orders.List(logger.RequestContext(c), filter)
	if err != nil {
		return respondError(c, err, "list purchase orders")
	}
	return c.JSON(http.StatusOK, orders)
}

// CreatePurchaseOrder creates a purchase order and refreshes its vendor's metrics
func (h *Handler) CreatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new purchase order")
	prometheus.RecordOperation("purchase_order", "create")

	// Bind request body
	var req service.PurchaseOrderInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	// Save order and refresh vendor metrics
	po, err := h.orders.Create(logger.RequestContext(c), req)
	if err != nil {
		return respondError(c, err, "create purchase order")
	}
	return c.JSON(http.StatusCreated, po)
}

// GetPurchaseOrder returns a single purchase order
func (h *Handler) GetPurchaseOrder(c echo.Context) error {
	prometheus.RecordOperation("purchase_order", "get")

	// Parse purchase order ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "get purchase order")
	}

	po, err := h.orders.Get(logger.RequestContext(c), id)
	if err != nil {
		return respondError(c, err, "get purchase order")
	}
	return c.JSON(http.StatusOK, po)
}

// UpdatePurchaseOrder replaces a purchase order's writable fields
func (h *Handler) UpdatePurchaseOrder(c echo.Context) error {
	return h.updatePurchaseOrder(c, false)
}

// PatchPurchaseOrder updates only the supplied purchase order fields
func (h *Handler) PatchPurchaseOrder(c echo.Context) error {
	return h.updatePurchaseOrder(c, true)
}

func (h *Handler) updatePurchaseOrder(c echo.Context, partial bool) error {
	log := logger.FromContext(c)
	prometheus.RecordOperation("purchase_order", "update")

	// Parse purchase order ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "update purchase order")
	}

	// Bind request body
	var req service.PurchaseOrderInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	log.Info("Purchase order update request",
		zap.Uint("purchase_order_id", id),
		zap.Bool("partial", partial),
		zap.Bool("delivery_date", req.DeliveryDate != nil))

	// Apply changes
	po, err := h.orders.Update(logger.RequestContext(c), id, req, partial)
	if err != nil {
		return respondError(c, err, "update purchase order")
	}
	return c.JSON(http.StatusOK, po)
}

// DeletePurchaseOrder removes a purchase order and refreshes its vendor's metrics
func (h *Handler) DeletePurchaseOrder(c echo.Context) error {
	prometheus.RecordOperation("purchase_order", "delete")

	// Parse purchase order ID from path
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err, "delete purchase order")
	}

	if err := h.orders.Delete(logger.RequestContext(c), id); err != nil {
		return respondError(c, err, "delete purchase order")
	}
	return c.NoContent(http.StatusNoContent)
}

// AcknowledgePurchaseOrder records the vendor's acknowledgment of an order.
// The request body is ignored.
func (h *Handler) AcknowledgePurchaseOrder(c echo.Context) error {
	prometheus.RecordOperation("purchase_order", "acknowledge")

	// Parse purchase order ID from path
	poID, err := parseID(c, "po_id")
	if err != nil {
		return respondError(c, err, "acknowledge purchase order")
	}

	// Stamp acknowledgment date, a repeat call keeps the first one
	po, acknowledged, err := h.orders.Acknowledge(logger.RequestContext(c), poID)
	if err != nil {
		return respondError(c, err, "acknowledge purchase order")
	}

	message := "Purchase Order acknowledged successfully"
	if !acknowledged {
		message = "Purchase Order already acknowledged"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"detail":              message,
		"acknowledgment_date": po.AcknowledgmentDate,
	})
}
