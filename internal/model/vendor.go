package model

import (
	"time"
)

// Vendor represents a supplier together with its derived performance metrics.
// The four metric columns are only ever written by the performance recalculator.
type Vendor struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Name                string    `json:"name" gorm:"type:varchar(255);index;not null"`
	ContactDetails      string    `json:"contact_details" gorm:"type:text"`
	Address             string    `json:"address" gorm:"type:text"`
	OnTimeDeliveryRate  *float64  `json:"on_time_delivery_rate"`
	QualityRatingAvg    *float64  `json:"quality_rating_avg"`
	AverageResponseTime *float64  `json:"average_response_time"`
	FulfillmentRate     *float64  `json:"fulfillment_rate"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	PurchaseOrders []PurchaseOrder         `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	History        []HistoricalPerformance `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Vendor
func (Vendor) TableName() string {
	return "vendors"
}

// PerformanceMetrics is the flat view of a vendor's current metrics
type PerformanceMetrics struct {
	OnTimeDeliveryRate  *float64 `json:"on_time_delivery_rate"`
	QualityRatingAvg    *float64 `json:"quality_rating_avg"`
	AverageResponseTime *float64 `json:"average_response_time"`
	FulfillmentRate     *float64 `json:"fulfillment_rate"`
}

// Performance returns the vendor's current metric fields
func (v *Vendor) Performance() PerformanceMetrics {
	return PerformanceMetrics{
		OnTimeDeliveryRate:  v.OnTimeDeliveryRate,
		QualityRatingAvg:    v.QualityRatingAvg,
		AverageResponseTime: v.AverageResponseTime,
		FulfillmentRate:     v.FulfillmentRate,
	}
}
