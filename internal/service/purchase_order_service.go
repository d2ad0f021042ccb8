package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"vendor-service/internal/model"
	"vendor-service/internal/performance"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeliveryDateLayout is the only accepted format for delivery dates
const DeliveryDateLayout = "2006-01-02T15:04:05Z"

// Messages returned by the delivery-date update guard
const (
	MsgInvalidDeliveryDate = "Invalid date format for delivery date."
	MsgNotAcknowledged     = "Purchase Order must be acknowledged before updating delivery date."
	MsgDeliveryBeforeAck   = "New delivery date must be equal to or greater than the acknowledgment date."
)

// PurchaseOrderInput carries client-writable purchase order fields; nil
// means "not supplied". order_date, issue_date and acknowledgment_date are
// never client-writable.
type PurchaseOrderInput struct {
	VendorID             *uint              `json:"vendor"`
	VendorRef            *uint              `json:"vendor_id"`
	Items                json.RawMessage    `json:"items"`
	Quantity             *int               `json:"quantity"`
	Status               *model.OrderStatus `json:"status"`
	QualityRating        *float64           `json:"quality_rating"`
	ExpectedDeliveryDate *time.Time         `json:"expected_delivery_date"`
	DeliveryDate         *string            `json:"delivery_date"`
}

// PurchaseOrderFilter narrows List results
type PurchaseOrderFilter struct {
	VendorID *uint
}

// PurchaseOrderService manages purchase orders and keeps vendor metrics in
// step with every write through its OrderObserver
type PurchaseOrderService struct {
	db       *gorm.DB
	observer performance.OrderObserver
	now      func() time.Time
}

// NewPurchaseOrderService creates a purchase order service. observer is
// invoked inside each write transaction.
func NewPurchaseOrderService(db *gorm.DB, observer performance.OrderObserver) *PurchaseOrderService {
	return &PurchaseOrderService{db: db, observer: observer, now: time.Now}
}

func (s *PurchaseOrderService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func hasItems(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// normalize accepts the vendor_id spelling that responses use
func (in *PurchaseOrderInput) normalize() {
	if in.VendorID == nil {
		in.VendorID = in.VendorRef
	}
}

func (in *PurchaseOrderInput) requireFull() error {
	switch {
	case in.VendorID == nil:
		return invalid("vendor: This field is required.")
	case !hasItems(in.Items):
		return invalid("items: This field is required.")
	case in.Quantity == nil:
		return invalid("quantity: This field is required.")
	}
	return nil
}

// parseDeliveryDate accepts only YYYY-MM-DDTHH:MM:SSZ, interpreted as UTC
func parseDeliveryDate(raw string) (time.Time, error) {
	// time.Parse tolerates fractional seconds the layout does not mention
	if len(raw) != len(DeliveryDateLayout) {
		return time.Time{}, invalid(MsgInvalidDeliveryDate)
	}
	t, err := time.Parse(DeliveryDateLayout, raw)
	if err != nil {
		return time.Time{}, invalid(MsgInvalidDeliveryDate)
	}
	return t.UTC(), nil
}

// guardDeliveryDate validates a delivery date change against the order's
// acknowledgment
func guardDeliveryDate(po *model.PurchaseOrder, raw string) (time.Time, error) {
	delivery, err := parseDeliveryDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if !po.Acknowledged() {
		return time.Time{}, invalid(MsgNotAcknowledged)
	}
	if delivery.Before(*po.AcknowledgmentDate) {
		return time.Time{}, invalid(MsgDeliveryBeforeAck)
	}
	return delivery, nil
}

// apply copies supplied fields onto po after validating them. The delivery
// date is handled by the caller because creation and update guard it
// differently.
func (in *PurchaseOrderInput) apply(tx *gorm.DB, po *model.PurchaseOrder) error {
	if in.VendorID != nil {
		var count int64
		if err := tx.Model(&model.Vendor{}).Where("id = ?", *in.VendorID).Count(&count).Error; err != nil {
			return storeErr(err, "check vendor")
		}
		if count == 0 {
			return invalid("vendor: Invalid pk \"%d\" - object does not exist.", *in.VendorID)
		}
		po.VendorID = *in.VendorID
	}
	if in.Items != nil {
		if !hasItems(in.Items) {
			return invalid("items: This field may not be null.")
		}
		if !json.Valid(in.Items) {
			return invalid("items: Value must be valid JSON.")
		}
		po.Items = datatypes.JSON(bytes.TrimSpace(in.Items))
	}
	if in.Quantity != nil {
		if *in.Quantity <= 0 {
			return invalid("quantity: Ensure this value is greater than 0.")
		}
		po.Quantity = *in.Quantity
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return invalid("status: \"%s\" is not a valid choice.", *in.Status)
		}
		po.Status = *in.Status
	}
	if in.QualityRating != nil {
		po.QualityRating = in.QualityRating
	}
	if in.ExpectedDeliveryDate != nil {
		expected := in.ExpectedDeliveryDate.UTC()
		po.ExpectedDeliveryDate = &expected
	}
	return nil
}

// Create stores a new purchase order and recalculates its vendor
func (s *PurchaseOrderService) Create(ctx context.Context, in PurchaseOrderInput) (*model.PurchaseOrder, error) {
	log := logger.FromCtx(ctx)
	in.normalize()
	if err := in.requireFull(); err != nil {
		return nil, err
	}

	now := s.timestamp()
	po := model.PurchaseOrder{
		OrderDate: now,
		IssueDate: now,
		Status:    model.OrderPending,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	var recalculated performance.Recalculated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := in.apply(tx, &po); err != nil {
			return err
		}
		// A new order is not acknowledged yet, so the guard rejects any
		// well-formed date as well
		if in.DeliveryDate != nil {
			delivery, err := guardDeliveryDate(&po, *in.DeliveryDate)
			if err != nil {
				return err
			}
			po.DeliveryDate = &delivery
		}
		if err := tx.Create(&po).Error; err != nil {
			return storeErr(err, "create purchase order")
		}
		var err error
		recalculated, err = s.observer.OrdersChanged(ctx, tx, po.VendorID)
		return err
	})
	if err != nil {
		if !IsValidation(err) {
			log.Error("Failed to create purchase order", zap.Error(err))
		}
		return nil, err
	}
	recalculated.Publish()

	log.Info("Purchase order created successfully",
		zap.Uint("purchase_order_id", po.ID),
		zap.Uint("vendor_id", po.VendorID),
		zap.String("status", string(po.Status)))
	return &po, nil
}

// Get returns one purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, id uint) (*model.PurchaseOrder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var po model.PurchaseOrder
	if err := s.db.WithContext(ctx).First(&po, id).Error; err != nil {
		return nil, storeErr(err, "get purchase order")
	}
	return &po, nil
}

// List returns purchase orders ordered by id, optionally for one vendor
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderFilter) ([]model.PurchaseOrder, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.WithContext(ctx).Order("id")
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}

	orders := []model.PurchaseOrder{}
	if err := query.Find(&orders).Error; err != nil {
		return nil, storeErr(err, "list purchase orders")
	}
	return orders, nil
}

// Update replaces (partial=false) or patches (partial=true) a purchase
// order. A supplied delivery date must pass the acknowledgment guard. Both
// the previous and the current vendor are recalculated.
func (s *PurchaseOrderService) Update(ctx context.Context, id uint, in PurchaseOrderInput, partial bool) (*model.PurchaseOrder, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("purchase_order_id", id))
	in.normalize()
	defer prometheus.TrackDBOperation("update")(time.Now())

	var po model.PurchaseOrder
	var recalculated performance.Recalculated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A missing order is reported before an incomplete body
		if err := tx.First(&po, id).Error; err != nil {
			return storeErr(err, "load purchase order")
		}
		if !partial {
			if err := in.requireFull(); err != nil {
				return err
			}
		}
		previousVendor := po.VendorID

		if in.DeliveryDate != nil {
			delivery, err := guardDeliveryDate(&po, *in.DeliveryDate)
			if err != nil {
				return err
			}
			po.DeliveryDate = &delivery
		}
		if err := in.apply(tx, &po); err != nil {
			return err
		}

		if err := tx.Save(&po).Error; err != nil {
			return storeErr(err, "update purchase order")
		}
		var err error
		recalculated, err = s.observer.OrdersChanged(ctx, tx, previousVendor, po.VendorID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !IsValidation(err) {
			log.Error("Failed to update purchase order", zap.Error(err))
		}
		return nil, err
	}
	recalculated.Publish()

	log.Info("Purchase order updated successfully",
		zap.Uint("vendor_id", po.VendorID),
		zap.String("status", string(po.Status)))
	return &po, nil
}

// Delete removes a purchase order and recalculates its vendor over the
// remaining orders
func (s *PurchaseOrderService) Delete(ctx context.Context, id uint) error {
	log := logger.FromCtx(ctx).With(zap.Uint("purchase_order_id", id))
	defer prometheus.TrackDBOperation("delete")(time.Now())

	var recalculated performance.Recalculated
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po model.PurchaseOrder
		if err := tx.First(&po, id).Error; err != nil {
			return storeErr(err, "load purchase order")
		}
		if err := tx.Delete(&po).Error; err != nil {
			return storeErr(err, "delete purchase order")
		}
		var err error
		recalculated, err = s.observer.OrdersChanged(ctx, tx, po.VendorID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Error("Failed to delete purchase order", zap.Error(err))
		}
		return err
	}
	recalculated.Publish()

	log.Info("Purchase order deleted successfully")
	return nil
}

// Acknowledge records the vendor's confirmation of a purchase order. The
// returned bool is false when the order had already been acknowledged, in
// which case nothing is written and the original timestamp is kept.
func (s *PurchaseOrderService) Acknowledge(ctx context.Context, poID uint) (*model.PurchaseOrder, bool, error) {
	return s.acknowledge(ctx, 0, poID)
}

// AcknowledgeForVendor is Acknowledge scoped to one vendor: an order that
// belongs to another vendor is reported as not found
func (s *PurchaseOrderService) AcknowledgeForVendor(ctx context.Context, vendorID, poID uint) (*model.PurchaseOrder, bool, error) {
	return s.acknowledge(ctx, vendorID, poID)
}

func (s *PurchaseOrderService) acknowledge(ctx context.Context, vendorID, poID uint) (*model.PurchaseOrder, bool, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("purchase_order_id", poID))
	defer prometheus.TrackDBOperation("update")(time.Now())

	var po model.PurchaseOrder
	var recalculated performance.Recalculated
	acknowledged := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("id = ?", poID)
		if vendorID != 0 {
			query = query.Where("vendor_id = ?", vendorID)
		}
		if err := query.First(&po).Error; err != nil {
			return storeErr(err, "load purchase order")
		}
		if po.Acknowledged() {
			return nil
		}

		now := s.timestamp()
		// delivery_date must never precede acknowledgment_date
		if po.DeliveryDate != nil && po.DeliveryDate.Before(now) {
			return invalid(MsgDeliveryBeforeAck)
		}
		if err := tx.Model(&po).Update("acknowledgment_date", now).Error; err != nil {
			return storeErr(err, "acknowledge purchase order")
		}
		po.AcknowledgmentDate = &now
		acknowledged = true
		var err error
		recalculated, err = s.observer.OrdersChanged(ctx, tx, po.VendorID)
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !IsValidation(err) {
			log.Error("Failed to acknowledge purchase order", zap.Error(err))
		}
		return nil, false, err
	}
	recalculated.Publish()

	if acknowledged {
		log.Info("Purchase order acknowledged",
			zap.Uint("vendor_id", po.VendorID),
			zap.Time("acknowledgment_date", *po.AcknowledgmentDate))
	} else {
		log.Info("Purchase order already acknowledged, keeping original timestamp",
			zap.Uint("vendor_id", po.VendorID))
	}
	return &po, acknowledged, nil
}
