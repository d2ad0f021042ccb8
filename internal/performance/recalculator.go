package performance

import (
	"context"
	"time"

	"vendor-service/internal/model"
	"vendor-service/pkg/logger"
	"vendor-service/prometheus"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrVendorMissing is returned when the vendor to update no longer exists
var ErrVendorMissing = eris.New("vendor to recalculate does not exist")

// OrderObserver is notified after purchase orders of the given vendors were
// written. It runs inside the writer's transaction; a returned error aborts
// the whole write.
type OrderObserver interface {
	OrdersChanged(ctx context.Context, tx *gorm.DB, vendorIDs ...uint) (Recalculated, error)
}

// Recalculated holds the metrics written in one transaction, keyed by vendor id
type Recalculated map[uint]Metrics

// Publish exports the metrics to the vendor gauges. Only call it after the
// transaction that stored them has committed.
func (r Recalculated) Publish() {
	for vendorID, m := range r {
		prometheus.UpdateVendorPerformance(vendorID,
			m.OnTimeDeliveryRate,
			m.QualityRatingAvg,
			m.AverageResponseTime,
			m.FulfillmentRate)
	}
}

// Recalculator recomputes and stores vendor metrics
type Recalculator struct {
	mode ResponseTimeMode
}

// NewRecalculator creates a recalculator using the given response time mode
func NewRecalculator(mode ResponseTimeMode) *Recalculator {
	if mode != LegacySecondsComponent {
		mode = ElapsedHours
	}
	return &Recalculator{mode: mode}
}

// OrdersChanged recalculates every distinct vendor once
func (r *Recalculator) OrdersChanged(ctx context.Context, tx *gorm.DB, vendorIDs ...uint) (Recalculated, error) {
	done := make(Recalculated, len(vendorIDs))
	for _, id := range vendorIDs {
		if _, ok := done[id]; ok || id == 0 {
			continue
		}
		metrics, err := r.Recalculate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		done[id] = metrics
	}
	return done, nil
}

// Recalculate loads the vendor's orders, computes the metrics and writes them
// onto the vendor row. Gauges are left alone; see Recalculated.Publish.
func (r *Recalculator) Recalculate(ctx context.Context, tx *gorm.DB, vendorID uint) (metrics Metrics, err error) {
	log := logger.FromCtx(ctx).With(zap.Uint("vendor_id", vendorID))
	start := time.Now()
	defer func() { prometheus.RecordRecalculation(err, start) }()

	var orders []model.PurchaseOrder
	if err = tx.WithContext(ctx).Where("vendor_id = ?", vendorID).Find(&orders).Error; err != nil {
		log.Error("Failed to load purchase orders for recalculation", zap.Error(err))
		return Metrics{}, eris.Wrap(err, "load purchase orders")
	}

	metrics = Compute(orders, r.mode)

	result := tx.WithContext(ctx).Model(&model.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"on_time_delivery_rate": metrics.OnTimeDeliveryRate,
			"quality_rating_avg":    metrics.QualityRatingAvg,
			"average_response_time": metrics.AverageResponseTime,
			"fulfillment_rate":      metrics.FulfillmentRate,
		})
	if result.Error != nil {
		err = eris.Wrap(result.Error, "store vendor metrics")
		log.Error("Failed to store vendor metrics", zap.Error(result.Error))
		return Metrics{}, err
	}
	if result.RowsAffected == 0 {
		err = eris.Wrapf(ErrVendorMissing, "vendor %d", vendorID)
		log.Warn("Vendor disappeared before metrics could be stored")
		return Metrics{}, err
	}

	log.Debug("Vendor performance recalculated",
		zap.Int("orders", len(orders)),
		zap.Float64("on_time_delivery_rate", metrics.OnTimeDeliveryRate),
		zap.Float64("quality_rating_avg", metrics.QualityRatingAvg),
		zap.Float64("average_response_time", metrics.AverageResponseTime),
		zap.Float64("fulfillment_rate", metrics.FulfillmentRate))

	return metrics, nil
}
