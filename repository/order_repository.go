package repository

import (
	"time"

	"tableserve/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// FindOpenByTable returns the table's single OPEN order, or
// gorm.ErrRecordNotFound if the table has none.
func (r *OrderRepository) FindOpenByTable(tx *gorm.DB, tableID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("table_id = ? AND order_status = ?", tableID, entity.OrderOpen).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForRestaurant(orderID, restID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items.Selections").
		Where("id = ? AND restaurant_id = ?", orderID, restID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOpenOrderWithItems(tableID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items.Selections").
		Where("table_id = ? AND order_status = ?", tableID, entity.OrderOpen).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) FindByGatewayOrderID(ref string) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Where("gateway_order_id = ?", ref).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByStatus(restID uint, statuses ...string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.DB.Preload("Items.Selections").
		Where("restaurant_id = ? AND order_status IN ?", restID, statuses).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// UpdateStatusGuard flips order status only if it still holds the
// expected value; the caller checks RowsAffected.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to string) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status = ?", orderID, from).
		Update("order_status", to)
	return res.RowsAffected, res.Error
}

// CloseGuard marks an OPEN order PAID and records how and by whom it was
// settled, all behind the same status guard.
func (r *OrderRepository) CloseGuard(tx *gorm.DB, orderID uint, method string, waiterID *uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status = ?", orderID, entity.OrderOpen).
		Updates(map[string]any{
			"order_status":        entity.OrderPaid,
			"payment_method":      method,
			"closed_by_waiter_id": waiterID,
		})
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) SetGatewayOrderID(orderID uint, ref string) error {
	return r.DB.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("gateway_order_id", ref).Error
}

// RecomputeTotal re-derives total_amount from the committed item rows in
// a single statement, so the total can never drift from the list it is
// computed over.
func (r *OrderRepository) RecomputeTotal(tx *gorm.DB, orderID uint) error {
	return tx.Exec(`
		UPDATE orders SET total_amount = COALESCE((
			SELECT SUM((oi.price + COALESCE((
				SELECT SUM(s.price) FROM order_item_selections s
				WHERE s.order_item_id = oi.id AND s.deleted_at IS NULL
			), 0)) * oi.quantity)
			FROM order_items oi
			WHERE oi.order_id = orders.id
			  AND oi.item_status <> ?
			  AND oi.deleted_at IS NULL
		), 0)
		WHERE id = ?`, entity.ItemCancelled, orderID).Error
}

func (r *OrderRepository) GetTotal(tx *gorm.DB, orderID uint) (int64, error) {
	var row struct{ TotalAmount int64 }
	err := tx.Model(&entity.Order{}).
		Select("total_amount").Where("id = ?", orderID).
		First(&row).Error
	return row.TotalAmount, err
}

// ---------------- Order items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

// GetItemForRestaurant fetches an item together with its order, scoped
// to the caller's restaurant.
func (r *OrderRepository) GetItemForRestaurant(itemID, restID uint) (*entity.OrderItem, *entity.Order, error) {
	var item entity.OrderItem
	err := r.DB.Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.id = ? AND orders.restaurant_id = ?", itemID, restID).
		First(&item).Error
	if err != nil {
		return nil, nil, err
	}
	var o entity.Order
	if err := r.DB.First(&o, item.OrderID).Error; err != nil {
		return nil, nil, err
	}
	return &item, &o, nil
}

// ClaimGuard is the kitchen race arbiter: two concurrent claims see one
// winner because only one UPDATE matches the PENDING row.
func (r *OrderRepository) ClaimGuard(tx *gorm.DB, itemID, chefID uint) (int64, error) {
	res := tx.Model(&entity.OrderItem{}).
		Where("id = ? AND item_status = ?", itemID, entity.ItemPending).
		Updates(map[string]any{
			"item_status": entity.ItemPreparing,
			"chef_id":     chefID,
		})
	return res.RowsAffected, res.Error
}

// ReadyGuard requires both the PREPARING status and the claiming chef.
func (r *OrderRepository) ReadyGuard(tx *gorm.DB, itemID, chefID uint, readyAt time.Time) (int64, error) {
	res := tx.Model(&entity.OrderItem{}).
		Where("id = ? AND item_status = ? AND chef_id = ?", itemID, entity.ItemPreparing, chefID).
		Updates(map[string]any{
			"item_status": entity.ItemReady,
			"ready_at":    readyAt,
		})
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) ServeGuard(tx *gorm.DB, itemID, waiterID uint) (int64, error) {
	res := tx.Model(&entity.OrderItem{}).
		Where("id = ? AND item_status = ?", itemID, entity.ItemReady).
		Updates(map[string]any{
			"item_status": entity.ItemServed,
			"waiter_id":   waiterID,
		})
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) CancelItemGuard(tx *gorm.DB, itemID uint) (int64, error) {
	res := tx.Model(&entity.OrderItem{}).
		Where("id = ? AND item_status = ?", itemID, entity.ItemPending).
		Update("item_status", entity.ItemCancelled)
	return res.RowsAffected, res.Error
}

func (r *OrderRepository) CountItems(tx *gorm.DB, orderID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.OrderItem{}).
		Where("order_id = ?", orderID).
		Count(&cnt).Error
	return cnt, err
}

// CancelPendingItems cancels every still-PENDING item on the order in
// one statement; in-flight items are untouched.
func (r *OrderRepository) CancelPendingItems(tx *gorm.DB, orderID uint) (int64, error) {
	res := tx.Model(&entity.OrderItem{}).
		Where("order_id = ? AND item_status = ?", orderID, entity.ItemPending).
		Update("item_status", entity.ItemCancelled)
	return res.RowsAffected, res.Error
}

// ActiveItemCount counts non-cancelled items.
func (r *OrderRepository) ActiveItemCount(tx *gorm.DB, orderID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.OrderItem{}).
		Where("order_id = ? AND item_status <> ?", orderID, entity.ItemCancelled).
		Count(&cnt).Error
	return cnt, err
}

// UnfinishedItemCount counts items still in flight; an order may only
// close once this reaches zero.
func (r *OrderRepository) UnfinishedItemCount(tx *gorm.DB, orderID uint) (int64, error) {
	var cnt int64
	err := tx.Model(&entity.OrderItem{}).
		Where("order_id = ? AND item_status NOT IN ?", orderID,
			[]string{entity.ItemServed, entity.ItemCancelled}).
		Count(&cnt).Error
	return cnt, err
}

// ---------------- Kitchen / waiter queues ----------------

// KitchenTicket is the projection shown on station and pickup displays.
type KitchenTicket struct {
	ItemID    uint      `json:"itemId"`
	OrderID   uint      `json:"orderId"`
	TableName string    `json:"tableName"`
	ItemName  string    `json:"itemName"`
	Quantity  int       `json:"quantity"`
	QueuedAt  time.Time `json:"queuedAt"`
}

// ListPendingForStation returns PENDING items of OPEN orders routed to
// one kitchen station, oldest first.
func (r *OrderRepository) ListPendingForStation(restID, stationID uint) ([]KitchenTicket, error) {
	var out []KitchenTicket
	err := r.DB.Table("order_items AS oi").
		Select("oi.id AS item_id, o.id AS order_id, o.table_name, oi.name AS item_name, oi.quantity, oi.created_at AS queued_at").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Joins("JOIN menu_items m ON m.id = oi.menu_item_id").
		Where("o.restaurant_id = ? AND o.order_status = ?", restID, entity.OrderOpen).
		Where("oi.item_status = ? AND oi.deleted_at IS NULL", entity.ItemPending).
		Where("m.kitchen_station_id = ?", stationID).
		Order("oi.created_at ASC").
		Scan(&out).Error
	return out, err
}

// ListReadyForRestaurant returns READY items of OPEN orders, oldest
// ready first, for the waiter pickup queue.
func (r *OrderRepository) ListReadyForRestaurant(restID uint) ([]KitchenTicket, error) {
	var out []KitchenTicket
	err := r.DB.Table("order_items AS oi").
		Select("oi.id AS item_id, o.id AS order_id, o.table_name, oi.name AS item_name, oi.quantity, oi.ready_at AS queued_at").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.restaurant_id = ? AND o.order_status = ?", restID, entity.OrderOpen).
		Where("oi.item_status = ? AND oi.deleted_at IS NULL", entity.ItemReady).
		Order("oi.ready_at ASC").
		Scan(&out).Error
	return out, err
}
