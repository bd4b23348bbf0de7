package repository

import (
	"time"

	"tableserve/entity"

	"gorm.io/gorm"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

func (r *TableRepository) Create(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) Get(tableID uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.First(&t, tableID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetForRestaurant scopes the lookup to one tenant; a wrong-tenant id
// behaves exactly like a missing row.
func (r *TableRepository) GetForRestaurant(tableID, restID uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.Where("id = ? AND restaurant_id = ?", tableID, restID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) ListForRestaurant(restID uint) ([]entity.Table, error) {
	var tables []entity.Table
	err := r.DB.Where("restaurant_id = ? AND is_archived = ?", restID, false).
		Order("name ASC").
		Find(&tables).Error
	return tables, err
}

func (r *TableRepository) NameExists(restID uint, name string) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Table{}).
		Where("restaurant_id = ? AND name = ? AND is_archived = ?", restID, name, false).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// OpenGuard starts a session on an AVAILABLE table. RowsAffected 0 means
// the table was taken (or left AVAILABLE) between read and write.
func (r *TableRepository) OpenGuard(tx *gorm.DB, tableID, waiterID uint, pin string, expires time.Time) (int64, error) {
	res := tx.Model(&entity.Table{}).
		Where("id = ? AND status = ?", tableID, entity.TableAvailable).
		Updates(map[string]any{
			"status":              entity.TableInUse,
			"current_waiter_id":   waiterID,
			"current_pin":         pin,
			"current_pin_expires": expires,
		})
	return res.RowsAffected, res.Error
}

// Release resets the table to AVAILABLE and clears the session fields in
// one statement.
func (r *TableRepository) Release(tx *gorm.DB, tableID uint) error {
	return tx.Model(&entity.Table{}).
		Where("id = ?", tableID).
		Updates(map[string]any{
			"status":              entity.TableAvailable,
			"current_waiter_id":   nil,
			"current_pin":         "",
			"current_pin_expires": nil,
		}).Error
}

func (r *TableRepository) Archive(tableID uint) error {
	return r.DB.Model(&entity.Table{}).
		Where("id = ?", tableID).
		Update("is_archived", true).Error
}
