// Package performance derives the four rolling vendor metrics from a vendor's
// purchase orders and persists them whenever those orders change.
package performance

import (
	"time"

	"vendor-service/internal/model"

	"github.com/shopspring/decimal"
)

// ResponseTimeMode selects how acknowledgment latency is converted to hours
type ResponseTimeMode string

const (
	// ElapsedHours uses the true elapsed time between issue and acknowledgment
	ElapsedHours ResponseTimeMode = "elapsed"
	// LegacySecondsComponent drops whole days and keeps only the seconds-of-day
	// component of the latency, matching the metrics produced by the previous system
	LegacySecondsComponent ResponseTimeMode = "legacy"
)

const (
	secondsPerDay      = 24 * 60 * 60
	microsecondsPerDay = secondsPerDay * 1_000_000
)

// Metrics holds one computed set of vendor performance values
type Metrics struct {
	OnTimeDeliveryRate  float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    float64 `json:"quality_rating_avg"`
	AverageResponseTime float64 `json:"average_response_time"`
	FulfillmentRate     float64 `json:"fulfillment_rate"`
}

// Compute derives all four metrics from a vendor's orders
func Compute(orders []model.PurchaseOrder, mode ResponseTimeMode) Metrics {
	return Metrics{
		OnTimeDeliveryRate:  OnTimeDeliveryRate(orders),
		QualityRatingAvg:    QualityRatingAvg(orders),
		AverageResponseTime: AverageResponseTime(orders, mode),
		FulfillmentRate:     FulfillmentRate(orders),
	}
}

// OnTimeDeliveryRate is the percentage of completed orders delivered on time.
// An order is on time when it has a delivery date that does not exceed its
// expected delivery date; orders without an expected date count as on time
// once delivered.
func OnTimeDeliveryRate(orders []model.PurchaseOrder) float64 {
	completed, onTime := 0, 0
	for i := range orders {
		po := &orders[i]
		if !po.Completed() {
			continue
		}
		completed++
		if deliveredOnTime(po) {
			onTime++
		}
	}
	if completed == 0 {
		return 0
	}
	return float64(onTime) / float64(completed) * 100
}

func deliveredOnTime(po *model.PurchaseOrder) bool {
	if po.DeliveryDate == nil {
		return false
	}
	if po.ExpectedDeliveryDate == nil {
		return true
	}
	return !po.DeliveryDate.After(*po.ExpectedDeliveryDate)
}

// QualityRatingAvg is the mean rating of completed, rated orders
func QualityRatingAvg(orders []model.PurchaseOrder) float64 {
	sum, n := 0.0, 0
	for i := range orders {
		po := &orders[i]
		if !po.Completed() || po.QualityRating == nil {
			continue
		}
		sum += *po.QualityRating
		n++
	}
	if n == 0 {
		return 0.0
	}
	return sum / float64(n)
}

// AverageResponseTime is the mean acknowledgment latency in hours over
// acknowledged orders, rounded to two decimals
func AverageResponseTime(orders []model.PurchaseOrder, mode ResponseTimeMode) float64 {
	total, n := 0.0, 0
	for i := range orders {
		po := &orders[i]
		if po.AcknowledgmentDate == nil {
			continue
		}
		total += responseHours(po.AcknowledgmentDate.Sub(po.IssueDate), mode)
		n++
	}
	if n == 0 {
		return 0
	}
	return decimal.NewFromFloat(total / float64(n)).Round(2).InexactFloat64()
}

func responseHours(d time.Duration, mode ResponseTimeMode) float64 {
	if mode != LegacySecondsComponent {
		return d.Hours()
	}
	// Floor the microseconds into days so negative latencies normalize the same
	// way as positive ones, then keep the whole seconds left within the day.
	us := d.Microseconds()
	days := us / microsecondsPerDay
	if us%microsecondsPerDay < 0 {
		days--
	}
	seconds := (us - days*microsecondsPerDay) / 1_000_000
	return float64(seconds) / 3600
}

// FulfillmentRate is the percentage of all orders that are completed
func FulfillmentRate(orders []model.PurchaseOrder) float64 {
	if len(orders) == 0 {
		return 0
	}
	completed := 0
	for i := range orders {
		if orders[i].Completed() {
			completed++
		}
	}
	return float64(completed) / float64(len(orders)) * 100
}
