package entity

import (
	"time"

	"gorm.io/gorm"
)

type Table struct {
	gorm.Model
	Name   string `json:"name"`
	Status string `gorm:"default:AVAILABLE;index" json:"status"`

	RestaurantID uint       `gorm:"index" json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	CurrentWaiterID *uint `json:"currentWaiterId,omitempty"`

	// Session secret; never serialized, never logged.
	CurrentPin        string     `json:"-"`
	CurrentPinExpires *time.Time `json:"-"`

	IsArchived bool `gorm:"default:false" json:"isArchived"`
}
