package entity

import (
	"gorm.io/gorm"
)

type KitchenStation struct {
	gorm.Model
	Name string `json:"name"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	MenuItems []MenuItem `json:"-"`
}
