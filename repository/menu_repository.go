package repository

import (
	"tableserve/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// GetItem loads a branch menu item with its modifier groups and options.
func (r *MenuRepository) GetItem(itemID uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	err := r.DB.Preload("Modifiers.Options").First(&m, itemID).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListAvailable is the public menu read: available items only.
func (r *MenuRepository) ListAvailable(restID uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.Preload("Modifiers.Options").
		Where("restaurant_id = ? AND is_available = ?", restID, true).
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *MenuRepository) GetRestaurant(restID uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, restID).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}
