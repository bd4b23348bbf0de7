package services

import (
	"errors"
	"testing"

	"tableserve/entity"
	"tableserve/ws"
)

func TestSubmitItemsCreatesOpenOrder(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Dal.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("SubmitItems: %v", err)
	}
	if out.OrderStatus != entity.OrderOpen {
		t.Errorf("status = %s, want %s", out.OrderStatus, entity.OrderOpen)
	}
	if out.TotalAmount != 600 {
		t.Errorf("total = %d, want 600", out.TotalAmount)
	}
	if out.TotalItems != 1 {
		t.Errorf("items = %d, want 1", out.TotalItems)
	}

	e := s.Pub.last()
	if e.Kind != ws.EventNewOrderItems || e.ScopeID != s.Venue.Rest.ID {
		t.Errorf("published %s/%d, want %s/%d", e.Kind, e.ScopeID, ws.EventNewOrderItems, s.Venue.Rest.ID)
	}
}

func TestSubmitItemsAppendsToSameOrder(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	first, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Dal.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.OrderID != second.OrderID {
		t.Errorf("got two orders %d and %d, want one", first.OrderID, second.OrderID)
	}
	if second.TotalAmount != 340 {
		t.Errorf("total = %d, want 340", second.TotalAmount)
	}
	if second.TotalItems != 2 {
		t.Errorf("items = %d, want 2", second.TotalItems)
	}
}

func TestSubmitItemsPricesModifiersFromMenu(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{
			MenuItemID: s.Venue.Dal.ID,
			Quantity:   2,
			Selections: []ModifierSelectionIn{
				{Title: "Portion", OptionName: "Large"},
				{Title: "Portion", OptionName: "No Such Option"},
				{Title: "No Such Group", OptionName: "Large"},
			},
		},
	})
	if err != nil {
		t.Fatalf("SubmitItems: %v", err)
	}

	// (300 + 100) * 2; the unmatched selections are dropped.
	if out.TotalAmount != 800 {
		t.Errorf("total = %d, want 800", out.TotalAmount)
	}

	var selections []entity.OrderItemSelection
	if err := s.DB.Find(&selections).Error; err != nil {
		t.Fatal(err)
	}
	if len(selections) != 1 {
		t.Fatalf("stored %d selections, want 1", len(selections))
	}
	if selections[0].OptionName != "Large" || selections[0].Price != 100 {
		t.Errorf("selection = %+v", selections[0])
	}

	// Stored total matches the sum over the item lines.
	var items []entity.OrderItem
	if err := s.DB.Preload("Selections").Where("order_id = ?", out.OrderID).Find(&items).Error; err != nil {
		t.Fatal(err)
	}
	var sum int64
	for i := range items {
		sum += items[i].LineTotal()
	}
	if sum != out.TotalAmount {
		t.Errorf("line totals sum to %d, stored total %d", sum, out.TotalAmount)
	}
}

func TestSubmitItemsRejectsBadLine(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	// One bad line fails the whole submission; nothing is written.
	_, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 1},
		{MenuItemID: 9999, Quantity: 1},
	})
	if !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("got %v, want ErrInvalidItem", err)
	}

	var count int64
	s.DB.Model(&entity.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("order created despite invalid line")
	}
}

func TestSubmitItemsRejectsUnavailableItem(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	s.DB.Model(&entity.MenuItem{}).Where("id = ?", s.Venue.Chai.ID).Update("is_available", false)

	_, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 1},
	})
	if !errors.Is(err, ErrInvalidItem) {
		t.Errorf("got %v, want ErrInvalidItem", err)
	}
}

func TestSubmitItemsRequiresSession(t *testing.T) {
	s := newStack(t)

	_, err := s.Orders.SubmitItems(s.Venue.Table.ID, "1234", []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 1},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

func TestFirewallFlagsOversizedQuantity(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 15},
	})
	if err != nil {
		t.Fatalf("SubmitItems: %v", err)
	}
	if out.OrderStatus != entity.OrderPendingApproval {
		t.Errorf("status = %s, want %s", out.OrderStatus, entity.OrderPendingApproval)
	}

	e := s.Pub.last()
	if e.Kind != ws.EventSuspiciousOrder {
		t.Errorf("published %s, want %s", e.Kind, ws.EventSuspiciousOrder)
	}
}

func TestFirewallFlagsOversizedTotal(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	// 10 * 900 = 9000 > 8000, each quantity within limits.
	big := entity.MenuItem{Name: "Feast Platter", Price: 900, IsAvailable: true,
		RestaurantID: s.Venue.Rest.ID, KitchenStationID: s.Venue.Station.ID}
	if err := s.DB.Create(&big).Error; err != nil {
		t.Fatal(err)
	}

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: big.ID, Quantity: 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.OrderStatus != entity.OrderPendingApproval {
		t.Errorf("status = %s, want %s", out.OrderStatus, entity.OrderPendingApproval)
	}
}

func TestApproveReleasesHeldOrder(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 15},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Orders.Approve(out.OrderID, s.Venue.Rest.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}

	var order entity.Order
	s.DB.First(&order, out.OrderID)
	if order.OrderStatus != entity.OrderOpen {
		t.Errorf("status = %s, want %s", order.OrderStatus, entity.OrderOpen)
	}

	e := s.Pub.last()
	if e.Kind != ws.EventNewOrderItems {
		t.Errorf("published %s, want %s (held items released to kitchen)", e.Kind, ws.EventNewOrderItems)
	}

	// Approving twice fails the guard.
	if err := s.Orders.Approve(out.OrderID, s.Venue.Rest.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second approve: got %v, want ErrInvalidState", err)
	}
}

func TestRejectCancelsWholeOrder(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 15},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Orders.Reject(out.OrderID, s.Venue.Rest.ID); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	var order entity.Order
	s.DB.First(&order, out.OrderID)
	if order.OrderStatus != entity.OrderCancelled {
		t.Errorf("status = %s, want %s", order.OrderStatus, entity.OrderCancelled)
	}

	e := s.Pub.last()
	if e.Kind != ws.EventOrderUpdate || e.ScopeID != s.Venue.Table.ID {
		t.Errorf("published %s/%d, want %s scoped to table %d", e.Kind, e.ScopeID, ws.EventOrderUpdate, s.Venue.Table.ID)
	}
}

func TestRejectNewItemsKeepsEarlierLines(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	// First round goes through and gets claimed by a chef.
	first, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Dal.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	var firstItem entity.OrderItem
	s.DB.Where("order_id = ?", first.OrderID).First(&firstItem)
	if _, err := s.Kitchen.Claim(firstItem.ID, s.Venue.Rest.ID, 7); err != nil {
		t.Fatal(err)
	}

	// Second round trips the firewall.
	if _, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 15},
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.Orders.RejectNewItems(first.OrderID, s.Venue.Rest.ID); err != nil {
		t.Fatalf("RejectNewItems: %v", err)
	}

	var order entity.Order
	s.DB.First(&order, first.OrderID)
	if order.OrderStatus != entity.OrderOpen {
		t.Errorf("status = %s, want %s (claimed item keeps the order alive)", order.OrderStatus, entity.OrderOpen)
	}
	if order.TotalAmount != 300 {
		t.Errorf("total = %d, want 300 (held chai dropped)", order.TotalAmount)
	}

	var statuses []string
	s.DB.Model(&entity.OrderItem{}).Where("order_id = ?", first.OrderID).
		Order("id").Pluck("item_status", &statuses)
	want := []string{entity.ItemPreparing, entity.ItemCancelled}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("item %d status = %s, want %s", i, statuses[i], want[i])
		}
	}
}

func TestRejectNewItemsCancelsEmptyOrder(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 15},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Orders.RejectNewItems(out.OrderID, s.Venue.Rest.ID); err != nil {
		t.Fatalf("RejectNewItems: %v", err)
	}

	var order entity.Order
	s.DB.First(&order, out.OrderID)
	if order.OrderStatus != entity.OrderCancelled {
		t.Errorf("status = %s, want %s (no active items left)", order.OrderStatus, entity.OrderCancelled)
	}
}

func TestCancelItemRecomputesTotal(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Dal.ID, Quantity: 1},
		{MenuItemID: s.Venue.Chai.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.TotalAmount != 380 {
		t.Fatalf("total = %d, want 380", out.TotalAmount)
	}

	var chaiItem entity.OrderItem
	s.DB.Where("order_id = ? AND menu_item_id = ?", out.OrderID, s.Venue.Chai.ID).First(&chaiItem)

	if err := s.Orders.CancelItem(chaiItem.ID, s.Venue.Rest.ID); err != nil {
		t.Fatalf("CancelItem: %v", err)
	}

	var order entity.Order
	s.DB.First(&order, out.OrderID)
	if order.TotalAmount != 300 {
		t.Errorf("total = %d, want 300 after cancel", order.TotalAmount)
	}
}

func TestCancelItemOnlyWhilePending(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Dal.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	var item entity.OrderItem
	s.DB.Where("order_id = ?", out.OrderID).First(&item)

	if _, err := s.Kitchen.Claim(item.ID, s.Venue.Rest.ID, 7); err != nil {
		t.Fatal(err)
	}
	if err := s.Orders.CancelItem(item.ID, s.Venue.Rest.ID); !errors.Is(err, ErrInvalidState) {
		t.Errorf("cancel claimed item: got %v, want ErrInvalidState", err)
	}
}

func TestStatusForTableRequiresPin(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)

	out, err := s.Orders.SubmitItems(s.Venue.Table.ID, pin, []OrderLineIn{
		{MenuItemID: s.Venue.Chai.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	order, err := s.Orders.StatusForTable(s.Venue.Table.ID, pin)
	if err != nil {
		t.Fatalf("StatusForTable: %v", err)
	}
	if order.ID != out.OrderID || len(order.Items) != 1 {
		t.Errorf("order %d with %d items", order.ID, len(order.Items))
	}

	if _, err := s.Orders.StatusForTable(s.Venue.Table.ID, "0000"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong pin: got %v, want ErrUnauthorized", err)
	}
}
