package services

import (
	"fmt"
	"time"

	"tableserve/entity"
	"tableserve/repository"
	"tableserve/ws"

	"gorm.io/gorm"
)

// KitchenService drives the claim/prepare/ready/serve pipeline. Item
// transitions are mutually exclusive per item (guarded updates) but
// independent across items, so two chefs can work the same order
// concurrently.
type KitchenService struct {
	DB     *gorm.DB
	Repo   *repository.OrderRepository
	Events EventPublisher

	now func() time.Time
}

func NewKitchenService(db *gorm.DB, repo *repository.OrderRepository) *KitchenService {
	return &KitchenService{DB: db, Repo: repo, Events: nopPublisher{}, now: time.Now}
}

// PendingForStation is the chef's queue: PENDING items whose menu item
// is bound to the chef's station, oldest first.
func (s *KitchenService) PendingForStation(restID, stationID uint) ([]repository.KitchenTicket, error) {
	if stationID == 0 {
		return nil, fmt.Errorf("chef is not assigned to a kitchen station: %w", ErrUnauthorized)
	}
	return s.Repo.ListPendingForStation(restID, stationID)
}

// Claim moves PENDING -> PREPARING and records the chef. Exactly one of
// two concurrent claims wins; the loser gets Conflict.
func (s *KitchenService) Claim(itemID, restID, chefID uint) (*entity.OrderItem, error) {
	item, order, err := s.Repo.GetItemForRestaurant(itemID, restID)
	if err != nil {
		return nil, fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}

	affected, err := s.Repo.ClaimGuard(s.DB, item.ID, chefID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("item is already %s: %w", item.ItemStatus, ErrConflict)
	}

	item.ItemStatus = entity.ItemPreparing
	item.ChefID = &chefID

	s.Events.Publish(ws.EventItemStatusUpdate, order.RestaurantID, itemStatusPayload{
		OrderID: order.ID, ItemID: item.ID, Status: entity.ItemPreparing,
	})
	return item, nil
}

// MarkReady moves PREPARING -> READY; only the claiming chef may
// complete their own claim.
func (s *KitchenService) MarkReady(itemID, restID, chefID uint) error {
	item, order, err := s.Repo.GetItemForRestaurant(itemID, restID)
	if err != nil {
		return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}
	if item.ChefID != nil && *item.ChefID != chefID {
		return fmt.Errorf("this item was claimed by another chef: %w", ErrUnauthorized)
	}

	affected, err := s.Repo.ReadyGuard(s.DB, item.ID, chefID, s.now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("item must be PREPARING to be marked ready: %w", ErrConflict)
	}

	s.Events.Publish(ws.EventItemReady, order.RestaurantID, readyItemPayload{
		OrderID: order.ID, ItemID: item.ID, TableName: order.TableName,
	})
	return nil
}

// ReadyItems is the waiter pickup queue: oldest ready first so nothing
// goes cold.
func (s *KitchenService) ReadyItems(restID uint) ([]repository.KitchenTicket, error) {
	return s.Repo.ListReadyForRestaurant(restID)
}

// MarkServed moves READY -> SERVED and records the waiter.
func (s *KitchenService) MarkServed(itemID, restID, waiterID uint) error {
	item, order, err := s.Repo.GetItemForRestaurant(itemID, restID)
	if err != nil {
		return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}

	affected, err := s.Repo.ServeGuard(s.DB, item.ID, waiterID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("item must be READY to be served: %w", ErrConflict)
	}

	s.Events.Publish(ws.EventItemStatusUpdate, order.RestaurantID, itemStatusPayload{
		OrderID: order.ID, ItemID: item.ID, Status: entity.ItemServed,
	})
	return nil
}

type readyItemPayload struct {
	OrderID   uint   `json:"orderId"`
	ItemID    uint   `json:"itemId"`
	TableName string `json:"tableName"`
}
