package services

import (
	"fmt"

	"tableserve/entity"
	"tableserve/repository"
	"tableserve/ws"

	"gorm.io/gorm"
)

// PaymentService is the settlement engine: it closes orders via manual
// payment recording or verified gateway callbacks and returns the table
// to availability.
type PaymentService struct {
	DB      *gorm.DB
	Repo    *repository.OrderRepository
	Rest    *repository.MenuRepository
	Tables  *TableService
	Gateway Gateway
	Events  EventPublisher
}

func NewPaymentService(db *gorm.DB, repo *repository.OrderRepository, rest *repository.MenuRepository, tables *TableService, gw Gateway) *PaymentService {
	return &PaymentService{
		DB:      db,
		Repo:    repo,
		Rest:    rest,
		Tables:  tables,
		Gateway: gw,
		Events:  nopPublisher{},
	}
}

type CloseOrderResult struct {
	OrderID       uint   `json:"orderId"`
	TotalAmount   int64  `json:"totalAmount"`
	PaymentMethod string `json:"paymentMethod"`
}

// CloseOrder settles an OPEN order once every item is terminal (SERVED
// or CANCELLED), records method and closing waiter, and releases the
// table in the same transaction.
func (s *PaymentService) CloseOrder(orderID, restID uint, waiterID uint, method string) (*CloseOrderResult, error) {
	if !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("unknown payment method %q: %w", method, ErrInvalidState)
	}

	order, err := s.Repo.GetOrderForRestaurant(orderID, restID)
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if order.OrderStatus != entity.OrderOpen {
		return nil, fmt.Errorf("order is already %s: %w", order.OrderStatus, ErrInvalidState)
	}

	var out CloseOrderResult
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		unfinished, err := s.Repo.UnfinishedItemCount(tx, order.ID)
		if err != nil {
			return err
		}
		if unfinished > 0 {
			return fmt.Errorf("cannot close order, %d items are still pending or being prepared: %w", unfinished, ErrInvalidState)
		}

		affected, err := s.Repo.CloseGuard(tx, order.ID, method, &waiterID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("order is no longer open: %w", ErrConflict)
		}

		if err := s.Tables.CloseSession(tx, order.TableID); err != nil {
			return err
		}

		total, err := s.Repo.GetTotal(tx, order.ID)
		if err != nil {
			return err
		}
		out = CloseOrderResult{OrderID: order.ID, TotalAmount: total, PaymentMethod: method}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ws.EventOrderClosed, order.RestaurantID, orderRefPayload{OrderID: order.ID})
	return &out, nil
}

type PaymentIntent struct {
	GatewayKeyID   string `json:"gatewayKeyId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	RestaurantName string `json:"restaurantName"`
}

// InitiatePayment creates a provider-side intent for the order's
// current total and stores the provider reference. Order status does
// not change here; it changes only on verified completion.
func (s *PaymentService) InitiatePayment(tableID uint, pin string) (*PaymentIntent, error) {
	table, err := s.Tables.ValidateSession(tableID, pin)
	if err != nil {
		return nil, err
	}

	order, err := s.Repo.GetOpenOrderWithItems(table.ID)
	if err != nil || order.TotalAmount <= 0 {
		return nil, fmt.Errorf("no open order or billable amount for this table: %w", ErrNotFound)
	}

	rest, err := s.Rest.GetRestaurant(order.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("restaurant %d: %w", order.RestaurantID, ErrNotFound)
	}
	if !rest.AllowInAppPayment || rest.GatewayKeyID == "" || rest.GatewayKeySecret == "" {
		return nil, fmt.Errorf("this restaurant does not accept online payments: %w", ErrInvalidState)
	}

	gwOrder, err := s.Gateway.CreateOrder(rest.GatewayKeyID, rest.GatewayKeySecret, order.TotalAmount, fmt.Sprintf("%d", order.ID))
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SetGatewayOrderID(order.ID, gwOrder.ID); err != nil {
		return nil, err
	}

	return &PaymentIntent{
		GatewayKeyID:   rest.GatewayKeyID,
		GatewayOrderID: gwOrder.ID,
		Amount:         gwOrder.Amount,
		Currency:       gwOrder.Currency,
		RestaurantName: rest.Name,
	}, nil
}

type VerifyPaymentResult struct {
	OrderID   uint   `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

// VerifyPayment authorizes close-and-release only on an exact signature
// match; any mismatch fails closed with InvalidSignature and leaves
// both the order and the table untouched.
func (s *PaymentService) VerifyPayment(orderRef, paymentRef, signature string) (*VerifyPaymentResult, error) {
	if orderRef == "" || paymentRef == "" || signature == "" {
		return nil, fmt.Errorf("payment verification details are required: %w", ErrInvalidSignature)
	}

	order, err := s.Repo.FindByGatewayOrderID(orderRef)
	if err != nil {
		return nil, fmt.Errorf("order for payment reference: %w", ErrNotFound)
	}

	rest, err := s.Rest.GetRestaurant(order.RestaurantID)
	if err != nil || rest.GatewayKeySecret == "" {
		return nil, fmt.Errorf("payment gateway not configured: %w", ErrInvalidState)
	}

	if !VerifyGatewaySignature(rest.GatewayKeySecret, orderRef, paymentRef, signature) {
		return nil, fmt.Errorf("payment signature mismatch: %w", ErrInvalidSignature)
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.CloseGuard(tx, order.ID, entity.PayInApp, nil)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("order is no longer open: %w", ErrConflict)
		}
		return s.Tables.CloseSession(tx, order.TableID)
	})
	if err != nil {
		return nil, err
	}

	s.Events.Publish(ws.EventOrderClosed, order.RestaurantID, orderRefPayload{OrderID: order.ID})
	return &VerifyPaymentResult{OrderID: order.ID, PaymentID: paymentRef}, nil
}
