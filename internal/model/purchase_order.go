package model

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus is the lifecycle state of a purchase order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is one of the known statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

// PurchaseOrder represents an order placed with a vendor
type PurchaseOrder struct {
	ID                   uint           `json:"id" gorm:"primaryKey"`
	VendorID             uint           `json:"vendor_id" gorm:"index;not null"`
	OrderDate            time.Time      `json:"order_date" gorm:"not null"`
	IssueDate            time.Time      `json:"issue_date" gorm:"not null"`
	ExpectedDeliveryDate *time.Time     `json:"expected_delivery_date"`
	DeliveryDate         *time.Time     `json:"delivery_date"`
	Items                datatypes.JSON `json:"items" gorm:"not null"`
	Quantity             int            `json:"quantity" gorm:"not null"`
	Status               OrderStatus    `json:"status" gorm:"type:varchar(50);index;not null;default:'pending'"`
	QualityRating        *float64       `json:"quality_rating"`
	AcknowledgmentDate   *time.Time     `json:"acknowledgment_date"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// TableName specifies the table name for PurchaseOrder
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Acknowledged reports whether the vendor has confirmed the order
func (po *PurchaseOrder) Acknowledged() bool {
	return po.AcknowledgmentDate != nil
}

// Completed reports whether the order has been fulfilled
func (po *PurchaseOrder) Completed() bool {
	return po.Status == OrderCompleted
}
