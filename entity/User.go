package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Role     string `json:"role"`

	RestaurantID *uint      `json:"restaurantId,omitempty"`
	Restaurant   Restaurant `json:"-"`

	// Chefs are bound to at most one station.
	KitchenStationID *uint          `json:"kitchenStationId,omitempty"`
	KitchenStation   KitchenStation `json:"-"`
}
