package entity

import (
	"gorm.io/gorm"
)

// OrderItemSelection is a validated modifier choice copied from the
// server-held menu data; the client never supplies the price.
type OrderItemSelection struct {
	gorm.Model
	OrderItemID uint      `gorm:"index" json:"orderItemId"`
	OrderItem   OrderItem `json:"-"`

	Title      string `json:"title"`
	OptionName string `json:"optionName"`
	Price      int64  `json:"price"`
}
