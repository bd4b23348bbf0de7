package entity

import (
	"gorm.io/gorm"
)

// Order is the table's running bill. TotalAmount is derived from the
// item list and is only ever written by the total recompute; nothing
// else may set it.
type Order struct {
	gorm.Model
	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	TableID   uint   `gorm:"index" json:"tableId"`
	Table     Table  `json:"-"`
	TableName string `json:"tableName"`

	OrderStatus string `gorm:"default:OPEN;index" json:"orderStatus"`
	TotalAmount int64  `json:"totalAmount"`

	PaymentMethod    string `json:"paymentMethod,omitempty"`
	GatewayOrderID   string `gorm:"index" json:"-"`
	ClosedByWaiterID *uint  `json:"closedByWaiterId,omitempty"`

	Items []OrderItem `json:"items"`
}
