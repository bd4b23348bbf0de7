package entity

import (
	"gorm.io/gorm"
)

// MenuItem is a branch-priced menu entry. Orders snapshot its name and
// price at submission time, so later edits never touch order history.
type MenuItem struct {
	gorm.Model
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	IsVeg       bool   `gorm:"default:true" json:"isVeg"`
	IsAvailable bool   `gorm:"default:true;index" json:"isAvailable"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	KitchenStationID uint           `gorm:"index" json:"kitchenStationId"`
	KitchenStation   KitchenStation `json:"-"`

	Modifiers []ModifierGroup `json:"modifiers"`
}
