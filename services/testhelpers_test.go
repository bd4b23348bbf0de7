package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"tableserve/entity"
	"tableserve/repository"
	"tableserve/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.Restaurant{}, &entity.KitchenStation{}, &entity.User{},
		&entity.Table{},
		&entity.MenuItem{}, &entity.ModifierGroup{}, &entity.ModifierOption{},
		&entity.Order{}, &entity.OrderItem{}, &entity.OrderItemSelection{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// venue is a ready-to-order fixture: one restaurant, one station, one
// table and a small menu.
type venue struct {
	Rest    entity.Restaurant
	Station entity.KitchenStation
	Table   entity.Table
	Dal     entity.MenuItem // 300, with modifiers
	Chai    entity.MenuItem // 40, plain
}

func seedVenue(t *testing.T, db *gorm.DB) venue {
	t.Helper()

	v := venue{
		Rest: entity.Restaurant{
			Name:            "Test Kitchen",
			MaxItemQuantity: 10,
			MaxOrderValue:   8000,
		},
	}
	if err := db.Create(&v.Rest).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}

	v.Station = entity.KitchenStation{Name: "Hot", RestaurantID: v.Rest.ID}
	if err := db.Create(&v.Station).Error; err != nil {
		t.Fatalf("seed station: %v", err)
	}

	v.Table = entity.Table{Name: "T1", RestaurantID: v.Rest.ID, Status: entity.TableAvailable}
	if err := db.Create(&v.Table).Error; err != nil {
		t.Fatalf("seed table: %v", err)
	}

	v.Dal = entity.MenuItem{
		Name: "Dal Makhani", Price: 300, IsAvailable: true,
		RestaurantID: v.Rest.ID, KitchenStationID: v.Station.ID,
		Modifiers: []entity.ModifierGroup{
			{
				Title: "Portion", Type: entity.ModifierSingleSelect,
				Options: []entity.ModifierOption{
					{Name: "Regular", Price: 0},
					{Name: "Large", Price: 100},
				},
			},
		},
	}
	if err := db.Create(&v.Dal).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}

	v.Chai = entity.MenuItem{
		Name: "Masala Chai", Price: 40, IsAvailable: true,
		RestaurantID: v.Rest.ID, KitchenStationID: v.Station.ID,
	}
	if err := db.Create(&v.Chai).Error; err != nil {
		t.Fatalf("seed menu item: %v", err)
	}

	return v
}

// recordedEvent captures one Publish call.
type recordedEvent struct {
	Kind    ws.EventKind
	ScopeID uint
	Payload any
}

type capturePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *capturePublisher) Publish(kind ws.EventKind, scopeID uint, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Kind: kind, ScopeID: scopeID, Payload: payload})
}

func (p *capturePublisher) kinds() []ws.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ws.EventKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}

func (p *capturePublisher) last() recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return recordedEvent{}
	}
	return p.events[len(p.events)-1]
}

// newStack wires the full service graph over one test database.
type stack struct {
	DB      *gorm.DB
	Venue   venue
	Tables  *TableService
	Menu    *MenuService
	Orders  *OrderService
	Kitchen *KitchenService
	Pay     *PaymentService
	Pub     *capturePublisher
}

func newStack(t *testing.T) *stack {
	t.Helper()
	db := testDB(t)
	v := seedVenue(t, db)

	pub := &capturePublisher{}
	tables := NewTableService(db, repository.NewTableRepository(db))
	menu := NewMenuService(repository.NewMenuRepository(db))
	orders := NewOrderService(db, repository.NewOrderRepository(db), tables, menu)
	orders.Events = pub
	kitchen := NewKitchenService(db, repository.NewOrderRepository(db))
	kitchen.Events = pub
	pay := NewPaymentService(db, repository.NewOrderRepository(db), repository.NewMenuRepository(db), tables, nil)
	pay.Events = pub

	return &stack{DB: db, Venue: v, Tables: tables, Menu: menu, Orders: orders, Kitchen: kitchen, Pay: pay, Pub: pub}
}

// openSession opens the fixture table and returns the live PIN.
func (s *stack) openSession(t *testing.T, waiterID uint) string {
	t.Helper()
	out, err := s.Tables.OpenTable(s.Venue.Table.ID, s.Venue.Rest.ID, waiterID)
	if err != nil {
		t.Fatalf("open table: %v", err)
	}
	return out.TablePin
}
