package controllers

import (
	"tableserve/pkg/resp"
	"tableserve/services"
	"tableserve/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type PlaceOrderRequest struct {
	TableID uint                   `json:"tableId" binding:"required"`
	Pin     string                 `json:"pin" binding:"required"`
	Items   []services.OrderLineIn `json:"items" binding:"required,min=1,dive"`
}

// POST /orders (public, PIN gated)
func (o *OrderController) Place(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := o.Orders.SubmitItems(req.TableID, req.Pin, req.Items)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.Created(c, out)
}

type OrderStatusRequest struct {
	TableID uint   `json:"tableId" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
}

// POST /public/order-status (public, PIN gated)
func (o *OrderController) StatusForTable(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	order, err := o.Orders.StatusForTable(req.TableID, req.Pin)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, order)
}

// GET /orders/open (manager)
func (o *OrderController) Open(c *gin.Context) {
	orders, err := o.Orders.OpenOrders(utils.CurrentRestaurantID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, orders)
}

// GET /orders/suspicious (manager)
func (o *OrderController) Suspicious(c *gin.Context) {
	orders, err := o.Orders.SuspiciousOrders(utils.CurrentRestaurantID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, orders)
}

// PATCH /orders/:orderId/approve (manager)
func (o *OrderController) Approve(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	if err := o.Orders.Approve(orderID, utils.CurrentRestaurantID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "order approved and sent to kitchen"})
}

// PATCH /orders/:orderId/reject (manager) — cancels the whole order.
func (o *OrderController) Reject(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	if err := o.Orders.Reject(orderID, utils.CurrentRestaurantID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "order rejected"})
}

// PATCH /orders/:orderId/reject-new (manager) — cancels only the held
// new lines, keeping any earlier in-progress items.
func (o *OrderController) RejectNewItems(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	if err := o.Orders.RejectNewItems(orderID, utils.CurrentRestaurantID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "new items rejected"})
}

// PATCH /orders/items/:itemId/cancel (manager)
func (o *OrderController) CancelItem(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	if err := o.Orders.CancelItem(itemID, utils.CurrentRestaurantID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "item cancelled"})
}
