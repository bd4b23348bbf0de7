package entity

import (
	"gorm.io/gorm"
)

type ModifierOption struct {
	gorm.Model
	ModifierGroupID uint   `gorm:"index" json:"modifierGroupId"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
}
