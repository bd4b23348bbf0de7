package services

import (
	"errors"
	"fmt"

	"tableserve/entity"
	"tableserve/repository"
	"tableserve/ws"

	"gorm.io/gorm"
)

// OrderService is the order aggregate: all item-list mutation funnels
// through here so the derived total can never drift from the lines it
// is computed over.
type OrderService struct {
	DB     *gorm.DB
	Repo   *repository.OrderRepository
	Tables *TableService
	Menu   *MenuService
	Rest   *repository.MenuRepository
	Events EventPublisher
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, tables *TableService, menu *MenuService) *OrderService {
	return &OrderService{
		DB:     db,
		Repo:   repo,
		Tables: tables,
		Menu:   menu,
		Rest:   menu.Repo,
		Events: nopPublisher{},
	}
}

// ----- DTOs -----

type OrderLineIn struct {
	MenuItemID uint                  `json:"menuItemId" binding:"required"`
	Quantity   int                   `json:"quantity" binding:"required,min=1"`
	Selections []ModifierSelectionIn `json:"selectedModifiers"`
}

type SubmitResult struct {
	OrderID     uint   `json:"orderId"`
	OrderStatus string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
	TotalItems  int64  `json:"totalItems"`
}

// newOrderItemsPayload is what the kitchen (or the manager, after an
// approval) receives.
type newOrderItemsPayload struct {
	OrderID   uint               `json:"orderId"`
	TableName string             `json:"tableName"`
	Items     []entity.OrderItem `json:"items"`
}

type itemStatusPayload struct {
	OrderID uint   `json:"orderId"`
	ItemID  uint   `json:"itemId"`
	Status  string `json:"status"`
}

type orderRefPayload struct {
	OrderID uint `json:"orderId"`
}

type orderUpdatePayload struct {
	OrderID uint   `json:"orderId"`
	Status  string `json:"status"`
}

// SubmitItems validates the session, resolves every line against live
// menu data, appends the lines to the table's single OPEN order (lazily
// created) and runs the fraud firewall over the result. Resolution is
// all or nothing: one bad line fails the whole submission.
func (s *OrderService) SubmitItems(tableID uint, pin string, lines []OrderLineIn) (*SubmitResult, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("at least one item is required: %w", ErrInvalidItem)
	}

	table, err := s.Tables.ValidateSession(tableID, pin)
	if err != nil {
		return nil, err
	}

	rest, err := s.Rest.GetRestaurant(table.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurant %d: %w", table.RestaurantID, ErrNotFound)
	}
	settings := FirewallSettings{
		MaxItemQuantity: rest.MaxItemQuantity,
		MaxOrderValue:   rest.MaxOrderValue,
	}

	newItems := make([]entity.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("quantity must be at least 1: %w", ErrInvalidItem)
		}
		menuItem, err := s.Menu.ResolveItem(line.MenuItemID, table.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("menu item %d is not valid or available: %w", line.MenuItemID, ErrInvalidItem)
		}
		newItems = append(newItems, entity.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
			ItemStatus: entity.ItemPending,
			Selections: s.Menu.ResolveModifiers(menuItem, line.Selections),
		})
	}

	var out SubmitResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.FindOpenByTable(tx, table.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order = &entity.Order{
				RestaurantID: table.RestaurantID,
				TableID:      table.ID,
				TableName:    table.Name,
				OrderStatus:  entity.OrderOpen,
			}
			if err := s.Repo.CreateOrder(tx, order); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		for i := range newItems {
			newItems[i].OrderID = order.ID
			if err := s.Repo.CreateOrderItem(tx, &newItems[i]); err != nil {
				return err
			}
		}

		// The recompute runs inside the same transaction as the append
		// so the firewall sees the total exactly as committed.
		if err := s.Repo.RecomputeTotal(tx, order.ID); err != nil {
			return err
		}
		total, err := s.Repo.GetTotal(tx, order.ID)
		if err != nil {
			return err
		}

		verdict := EvaluateSubmission(newItems, total, settings)
		status := entity.OrderOpen
		if verdict.Suspicious {
			if _, err := s.Repo.UpdateStatusGuard(tx, order.ID, entity.OrderOpen, entity.OrderPendingApproval); err != nil {
				return err
			}
			status = entity.OrderPendingApproval
		}

		count, err := s.Repo.CountItems(tx, order.ID)
		if err != nil {
			return err
		}

		out = SubmitResult{OrderID: order.ID, OrderStatus: status, TotalAmount: total, TotalItems: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Kitchen routing is suppressed until a flagged order is approved.
	if out.OrderStatus == entity.OrderPendingApproval {
		s.Events.Publish(ws.EventSuspiciousOrder, table.RestaurantID, orderRefPayload{OrderID: out.OrderID})
	} else {
		s.Events.Publish(ws.EventNewOrderItems, table.RestaurantID, newOrderItemsPayload{
			OrderID:   out.OrderID,
			TableName: table.Name,
			Items:     newItems,
		})
	}

	return &out, nil
}

// CancelItem is manager-only and valid only while the item is PENDING;
// once preparation starts, an item commits.
func (s *OrderService) CancelItem(itemID, restID uint) error {
	item, order, err := s.Repo.GetItemForRestaurant(itemID, restID)
	if err != nil {
		return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.CancelItemGuard(tx, item.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("cannot cancel item, it is already %s: %w", item.ItemStatus, ErrInvalidState)
		}
		return s.Repo.RecomputeTotal(tx, order.ID)
	})
	if err != nil {
		return err
	}

	s.Events.Publish(ws.EventItemStatusUpdate, order.RestaurantID, itemStatusPayload{
		OrderID: order.ID, ItemID: item.ID, Status: entity.ItemCancelled,
	})
	return nil
}

// Approve returns a flagged order to OPEN and releases its held items
// to the kitchen.
func (s *OrderService) Approve(orderID, restID uint) error {
	order, err := s.Repo.GetOrderForRestaurant(orderID, restID)
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}

	affected, err := s.Repo.UpdateStatusGuard(s.DB, order.ID, entity.OrderPendingApproval, entity.OrderOpen)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("this order is not pending approval: %w", ErrInvalidState)
	}

	pending := make([]entity.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if item.ItemStatus == entity.ItemPending {
			pending = append(pending, item)
		}
	}
	s.Events.Publish(ws.EventNewOrderItems, order.RestaurantID, newOrderItemsPayload{
		OrderID:   order.ID,
		TableName: order.TableName,
		Items:     pending,
	})
	return nil
}

// Reject cancels the whole flagged order, earlier in-progress items
// included. See RejectNewItems for the narrower alternative.
func (s *OrderService) Reject(orderID, restID uint) error {
	order, err := s.Repo.GetOrderForRestaurant(orderID, restID)
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}

	affected, err := s.Repo.UpdateStatusGuard(s.DB, order.ID, entity.OrderPendingApproval, entity.OrderCancelled)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("this order is not pending approval: %w", ErrInvalidState)
	}

	s.Events.Publish(ws.EventOrderUpdate, order.TableID, orderUpdatePayload{
		OrderID: order.ID, Status: entity.OrderCancelled,
	})
	return nil
}

// RejectNewItems cancels only the held PENDING lines. If earlier items
// are still on the bill the order returns to OPEN; otherwise the whole
// order is cancelled.
func (s *OrderService) RejectNewItems(orderID, restID uint) error {
	order, err := s.Repo.GetOrderForRestaurant(orderID, restID)
	if err != nil {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if order.OrderStatus != entity.OrderPendingApproval {
		return fmt.Errorf("this order is not pending approval: %w", ErrInvalidState)
	}

	var finalStatus string
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.CancelPendingItems(tx, order.ID); err != nil {
			return err
		}
		if err := s.Repo.RecomputeTotal(tx, order.ID); err != nil {
			return err
		}

		remaining, err := s.Repo.ActiveItemCount(tx, order.ID)
		if err != nil {
			return err
		}
		finalStatus = entity.OrderOpen
		if remaining == 0 {
			finalStatus = entity.OrderCancelled
		}

		affected, err := s.Repo.UpdateStatusGuard(tx, order.ID, entity.OrderPendingApproval, finalStatus)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("this order is not pending approval: %w", ErrInvalidState)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Events.Publish(ws.EventOrderUpdate, order.TableID, orderUpdatePayload{
		OrderID: order.ID, Status: finalStatus,
	})
	return nil
}

// StatusForTable is the customer's live order view, gated by the same
// PIN as submission.
func (s *OrderService) StatusForTable(tableID uint, pin string) (*entity.Order, error) {
	table, err := s.Tables.ValidateSession(tableID, pin)
	if err != nil {
		return nil, err
	}
	order, err := s.Repo.GetOpenOrderWithItems(table.ID)
	if err != nil {
		return nil, fmt.Errorf("no open order for this table: %w", ErrNotFound)
	}
	return order, nil
}

func (s *OrderService) OpenOrders(restID uint) ([]entity.Order, error) {
	return s.Repo.ListByStatus(restID, entity.OrderOpen, entity.OrderPendingApproval)
}

func (s *OrderService) SuspiciousOrders(restID uint) ([]entity.Order, error) {
	return s.Repo.ListByStatus(restID, entity.OrderPendingApproval)
}
