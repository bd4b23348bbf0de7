package entity

import (
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`

	// Firewall thresholds, configurable per venue.
	MaxItemQuantity int   `gorm:"default:10" json:"maxItemQuantity"`
	MaxOrderValue   int64 `gorm:"default:8000" json:"maxOrderValue"`

	// Payment gateway settings. Secret never leaves the server.
	AllowInAppPayment bool   `json:"allowInAppPayment"`
	GatewayKeyID      string `json:"gatewayKeyId"`
	GatewayKeySecret  string `json:"-"`

	Tables    []Table          `json:"-"`
	Stations  []KitchenStation `json:"-"`
	MenuItems []MenuItem       `json:"-"`
	Orders    []Order          `json:"-"`
	Staff     []User           `json:"-"`
}
