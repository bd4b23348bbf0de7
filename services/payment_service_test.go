package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"tableserve/entity"
	"tableserve/ws"
)

type stubGateway struct {
	created []string
	fail    error
}

func (g *stubGateway) CreateOrder(keyID, keySecret string, amount int64, receipt string) (*GatewayOrder, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	g.created = append(g.created, receipt)
	return &GatewayOrder{ID: "gw_order_" + receipt, Amount: amount, Currency: "INR"}, nil
}

func sign(secret, orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}

func enableInAppPayment(t *testing.T, s *stack) {
	t.Helper()
	err := s.DB.Model(&entity.Restaurant{}).Where("id = ?", s.Venue.Rest.ID).
		Updates(map[string]any{
			"allow_in_app_payment": true,
			"gateway_key_id":       "key_test",
			"gateway_key_secret":   "secret_test",
		}).Error
	if err != nil {
		t.Fatal(err)
	}
}

func TestCloseOrderHappyPath(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Dal.ID, 2)

	if _, err := s.Kitchen.Claim(item.ID, s.Venue.Rest.ID, 7); err != nil {
		t.Fatal(err)
	}
	if err := s.Kitchen.MarkReady(item.ID, s.Venue.Rest.ID, 7); err != nil {
		t.Fatal(err)
	}
	if err := s.Kitchen.MarkServed(item.ID, s.Venue.Rest.ID, 42); err != nil {
		t.Fatal(err)
	}

	out, err := s.Pay.CloseOrder(item.OrderID, s.Venue.Rest.ID, 42, entity.PayCash)
	if err != nil {
		t.Fatalf("CloseOrder: %v", err)
	}
	if out.TotalAmount != 600 || out.PaymentMethod != entity.PayCash {
		t.Errorf("result = %+v", out)
	}

	var order entity.Order
	s.DB.First(&order, item.OrderID)
	if order.OrderStatus != entity.OrderPaid {
		t.Errorf("order status = %s, want %s", order.OrderStatus, entity.OrderPaid)
	}
	if order.ClosedByWaiterID == nil || *order.ClosedByWaiterID != 42 {
		t.Errorf("closing waiter not recorded: %v", order.ClosedByWaiterID)
	}

	// The table is released in the same transaction.
	var table entity.Table
	s.DB.First(&table, s.Venue.Table.ID)
	if table.Status != entity.TableAvailable {
		t.Errorf("table status = %s, want %s", table.Status, entity.TableAvailable)
	}

	e := s.Pub.last()
	if e.Kind != ws.EventOrderClosed {
		t.Errorf("published %s, want %s", e.Kind, ws.EventOrderClosed)
	}
}

func TestCloseOrderWithUnfinishedItems(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Dal.ID, 1)

	_, err := s.Pay.CloseOrder(item.OrderID, s.Venue.Rest.ID, 42, entity.PayCash)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}

	// Nothing changed.
	var order entity.Order
	s.DB.First(&order, item.OrderID)
	if order.OrderStatus != entity.OrderOpen {
		t.Errorf("order status = %s, want %s", order.OrderStatus, entity.OrderOpen)
	}
	var table entity.Table
	s.DB.First(&table, s.Venue.Table.ID)
	if table.Status != entity.TableInUse {
		t.Errorf("table status = %s, want %s", table.Status, entity.TableInUse)
	}
}

func TestCloseOrderCancelledItemsDoNotBlock(t *testing.T) {
	s := newStack(t)
	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Chai.ID, 1)

	if err := s.Orders.CancelItem(item.ID, s.Venue.Rest.ID); err != nil {
		t.Fatal(err)
	}

	out, err := s.Pay.CloseOrder(item.OrderID, s.Venue.Rest.ID, 42, entity.PayCash)
	if err != nil {
		t.Fatalf("CloseOrder: %v", err)
	}
	if out.TotalAmount != 0 {
		t.Errorf("total = %d, want 0 (only cancelled items)", out.TotalAmount)
	}
}

func TestCloseOrderUnknownMethod(t *testing.T) {
	s := newStack(t)
	if _, err := s.Pay.CloseOrder(1, s.Venue.Rest.ID, 42, "BARTER"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("got %v, want ErrInvalidState", err)
	}
}

func TestInitiatePayment(t *testing.T) {
	s := newStack(t)
	gw := &stubGateway{}
	s.Pay.Gateway = gw
	enableInAppPayment(t, s)

	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Dal.ID, 2)

	intent, err := s.Pay.InitiatePayment(s.Venue.Table.ID, pin)
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if intent.Amount != 600 || intent.Currency != "INR" || intent.GatewayKeyID != "key_test" {
		t.Errorf("intent = %+v", intent)
	}

	var order entity.Order
	s.DB.First(&order, item.OrderID)
	if order.GatewayOrderID != intent.GatewayOrderID {
		t.Errorf("gateway ref not stored: %q vs %q", order.GatewayOrderID, intent.GatewayOrderID)
	}
	// Initiation never changes order state.
	if order.OrderStatus != entity.OrderOpen {
		t.Errorf("order status = %s, want %s", order.OrderStatus, entity.OrderOpen)
	}
}

func TestInitiatePaymentDisabled(t *testing.T) {
	s := newStack(t)
	s.Pay.Gateway = &stubGateway{}

	pin := s.openSession(t, 42)
	submitOne(t, s, pin, s.Venue.Dal.ID, 1)

	if _, err := s.Pay.InitiatePayment(s.Venue.Table.ID, pin); !errors.Is(err, ErrInvalidState) {
		t.Errorf("got %v, want ErrInvalidState", err)
	}
}

func TestVerifyPaymentClosesOrder(t *testing.T) {
	s := newStack(t)
	s.Pay.Gateway = &stubGateway{}
	enableInAppPayment(t, s)

	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Dal.ID, 1)

	intent, err := s.Pay.InitiatePayment(s.Venue.Table.ID, pin)
	if err != nil {
		t.Fatal(err)
	}

	sig := sign("secret_test", intent.GatewayOrderID, "pay_123")
	out, err := s.Pay.VerifyPayment(intent.GatewayOrderID, "pay_123", sig)
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if out.OrderID != item.OrderID || out.PaymentID != "pay_123" {
		t.Errorf("result = %+v", out)
	}

	var order entity.Order
	s.DB.First(&order, item.OrderID)
	if order.OrderStatus != entity.OrderPaid || order.PaymentMethod != entity.PayInApp {
		t.Errorf("order = %s/%s", order.OrderStatus, order.PaymentMethod)
	}
	var table entity.Table
	s.DB.First(&table, s.Venue.Table.ID)
	if table.Status != entity.TableAvailable {
		t.Errorf("table status = %s, want %s", table.Status, entity.TableAvailable)
	}
}

func TestVerifyPaymentTamperedSignature(t *testing.T) {
	s := newStack(t)
	s.Pay.Gateway = &stubGateway{}
	enableInAppPayment(t, s)

	pin := s.openSession(t, 42)
	item := submitOne(t, s, pin, s.Venue.Dal.ID, 1)

	intent, err := s.Pay.InitiatePayment(s.Venue.Table.ID, pin)
	if err != nil {
		t.Fatal(err)
	}

	sig := sign("wrong_secret", intent.GatewayOrderID, "pay_123")
	if _, err := s.Pay.VerifyPayment(intent.GatewayOrderID, "pay_123", sig); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("got %v, want ErrInvalidSignature", err)
	}

	// Fail closed: order and table untouched.
	var order entity.Order
	s.DB.First(&order, item.OrderID)
	if order.OrderStatus != entity.OrderOpen {
		t.Errorf("order status = %s, want %s", order.OrderStatus, entity.OrderOpen)
	}
	var table entity.Table
	s.DB.First(&table, s.Venue.Table.ID)
	if table.Status != entity.TableInUse {
		t.Errorf("table status = %s, want %s", table.Status, entity.TableInUse)
	}
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	s := newStack(t)
	if _, err := s.Pay.VerifyPayment("gw_order_none", "pay_1", "deadbeef"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	s := newStack(t)
	if _, err := s.Pay.VerifyPayment("", "pay_1", "sig"); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("got %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyGatewaySignature(t *testing.T) {
	secret := "s3cret"
	good := sign(secret, "order_1", "pay_1")

	if !VerifyGatewaySignature(secret, "order_1", "pay_1", good) {
		t.Error("valid signature rejected")
	}
	if VerifyGatewaySignature(secret, "order_1", "pay_2", good) {
		t.Error("signature accepted for a different payment")
	}
	if VerifyGatewaySignature("other", "order_1", "pay_1", good) {
		t.Error("signature accepted with wrong secret")
	}
}
