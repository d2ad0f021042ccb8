package model

import "time"

// HistoricalPerformance is an append-only snapshot of a vendor's metrics
type HistoricalPerformance struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	VendorID            uint      `json:"vendor_id" gorm:"index;not null"`
	Date                time.Time `json:"date" gorm:"index;not null"`
	OnTimeDeliveryRate  float64   `json:"on_time_delivery_rate" gorm:"not null"`
	QualityRatingAvg    float64   `json:"quality_rating_avg" gorm:"not null"`
	AverageResponseTime float64   `json:"average_response_time" gorm:"not null"`
	FulfillmentRate     float64   `json:"fulfillment_rate" gorm:"not null"`
}

// TableName specifies the table name for HistoricalPerformance
func (HistoricalPerformance) TableName() string {
	return "historical_performances"
}

// All returns every model managed by the service, in migration order
func All() []interface{} {
	return []interface{}{&Vendor{}, &PurchaseOrder{}, &HistoricalPerformance{}}
}
