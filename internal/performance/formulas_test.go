package performance

import (
	"testing"
	"time"

	"vendor-service/internal/model"

	"github.com/stretchr/testify/assert"
)

var issued = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func ptrFloat(v float64) *float64 { return &v }

func ptrTime(t time.Time) *time.Time { return &t }

func order(status model.OrderStatus) model.PurchaseOrder {
	return model.PurchaseOrder{Status: status, IssueDate: issued, OrderDate: issued, Quantity: 1}
}

func TestCompute_NoOrdersIsAllZero(t *testing.T) {
	assert.Equal(t, Metrics{}, Compute(nil, ElapsedHours))
	assert.Equal(t, Metrics{}, Compute([]model.PurchaseOrder{}, LegacySecondsComponent))
}

func TestFulfillmentRate(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		other     int
		want      float64
	}{
		{"none completed", 0, 3, 0},
		{"all completed", 4, 0, 100},
		{"one of four", 1, 3, 25},
		{"two of three", 2, 1, 2.0 / 3.0 * 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var orders []model.PurchaseOrder
			for i := 0; i < tt.completed; i++ {
				orders = append(orders, order(model.OrderCompleted))
			}
			for i := 0; i < tt.other; i++ {
				orders = append(orders, order(model.OrderPending))
			}
			assert.InDelta(t, tt.want, FulfillmentRate(orders), 1e-9)
		})
	}
}

func TestQualityRatingAvg_OnlyCompletedAndRated(t *testing.T) {
	a := order(model.OrderCompleted)
	a.QualityRating = ptrFloat(4.0)
	b := order(model.OrderCompleted)
	b.QualityRating = ptrFloat(5.0)
	c := order(model.OrderCompleted)
	d := order(model.OrderPending)
	d.QualityRating = ptrFloat(1.0)

	assert.Equal(t, 4.5, QualityRatingAvg([]model.PurchaseOrder{a, b, c, d}))
	assert.Equal(t, 0.0, QualityRatingAvg([]model.PurchaseOrder{c, d}))
}

func TestOnTimeDeliveryRate(t *testing.T) {
	expected := issued.Add(72 * time.Hour)

	early := order(model.OrderCompleted)
	early.ExpectedDeliveryDate = ptrTime(expected)
	early.DeliveryDate = ptrTime(expected.Add(-time.Hour))

	exact := order(model.OrderCompleted)
	exact.ExpectedDeliveryDate = ptrTime(expected)
	exact.DeliveryDate = ptrTime(expected)

	late := order(model.OrderCompleted)
	late.ExpectedDeliveryDate = ptrTime(expected)
	late.DeliveryDate = ptrTime(expected.Add(time.Minute))

	undelivered := order(model.OrderCompleted)

	noPromise := order(model.OrderCompleted)
	noPromise.DeliveryDate = ptrTime(expected)

	pendingLate := order(model.OrderPending)
	pendingLate.ExpectedDeliveryDate = ptrTime(expected)
	pendingLate.DeliveryDate = ptrTime(expected.Add(time.Hour))

	orders := []model.PurchaseOrder{early, exact, late, undelivered, noPromise, pendingLate}
	assert.InDelta(t, 60.0, OnTimeDeliveryRate(orders), 1e-9)
	assert.Equal(t, 0.0, OnTimeDeliveryRate([]model.PurchaseOrder{pendingLate}))
}

func TestAverageResponseTime_Elapsed(t *testing.T) {
	a := order(model.OrderPending)
	a.AcknowledgmentDate = ptrTime(issued.Add(2 * time.Hour))
	b := order(model.OrderPending)
	b.AcknowledgmentDate = ptrTime(issued.Add(26*time.Hour + 30*time.Minute))
	unacked := order(model.OrderPending)

	assert.Equal(t, 14.25, AverageResponseTime([]model.PurchaseOrder{a, b, unacked}, ElapsedHours))
}

func TestAverageResponseTime_RoundsToTwoDecimals(t *testing.T) {
	a := order(model.OrderPending)
	a.AcknowledgmentDate = ptrTime(issued.Add(20 * time.Minute))

	assert.Equal(t, 0.33, AverageResponseTime([]model.PurchaseOrder{a}, ElapsedHours))
}

func TestAverageResponseTime_LegacyDropsWholeDays(t *testing.T) {
	a := order(model.OrderPending)
	a.AcknowledgmentDate = ptrTime(issued.Add(26*time.Hour + 30*time.Minute))

	assert.Equal(t, 2.5, AverageResponseTime([]model.PurchaseOrder{a}, LegacySecondsComponent))
}

func TestAverageResponseTime_LegacyNormalizesNegativeLatency(t *testing.T) {
	a := order(model.OrderPending)
	a.AcknowledgmentDate = ptrTime(issued.Add(-time.Hour))

	// -1h normalizes to -1 day + 23h
	assert.Equal(t, 23.0, AverageResponseTime([]model.PurchaseOrder{a}, LegacySecondsComponent))
	assert.Equal(t, -1.0, AverageResponseTime([]model.PurchaseOrder{a}, ElapsedHours))
}

func TestAverageResponseTime_NoAcknowledgments(t *testing.T) {
	assert.Equal(t, 0.0, AverageResponseTime([]model.PurchaseOrder{order(model.OrderCompleted)}, ElapsedHours))
}
