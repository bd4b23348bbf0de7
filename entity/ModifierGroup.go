package entity

import (
	"gorm.io/gorm"
)

const (
	ModifierSingleSelect = "SINGLE_SELECT"
	ModifierMultiSelect  = "MULTI_SELECT"
)

type ModifierGroup struct {
	gorm.Model
	MenuItemID uint   `gorm:"index" json:"menuItemId"`
	Title      string `json:"title"`
	Type       string `gorm:"default:SINGLE_SELECT" json:"type"`

	Options []ModifierOption `json:"options"`
}
