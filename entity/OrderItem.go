package entity

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem is one line on an order. Name and Price are snapshots taken
// from the menu item at submission time and are immutable afterwards.
// Items are never deleted; cancellation is a terminal status.
type OrderItem struct {
	gorm.Model
	OrderID uint  `gorm:"index" json:"orderId"`
	Order   Order `json:"-"`

	MenuItemID uint   `gorm:"index" json:"menuItemId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int    `json:"quantity"`

	ItemStatus string `gorm:"default:PENDING;index" json:"itemStatus"`

	ChefID   *uint `json:"chefId,omitempty"`
	WaiterID *uint `json:"waiterId,omitempty"`

	ReadyAt *time.Time `json:"readyAt,omitempty"`

	Selections []OrderItemSelection `json:"selections"`
}

// LineTotal is (price + modifier prices) x quantity.
func (i *OrderItem) LineTotal() int64 {
	unit := i.Price
	for _, s := range i.Selections {
		unit += s.Price
	}
	return unit * int64(i.Quantity)
}
