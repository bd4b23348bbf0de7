package controllers

import (
	"tableserve/pkg/resp"
	"tableserve/services"
	"tableserve/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

type CloseOrderRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// PATCH /orders/:orderId/close (waiter)
func (p *PaymentController) Close(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}

	var req CloseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := p.Payments.CloseOrder(orderID, utils.CurrentRestaurantID(c), utils.CurrentUserID(c), req.PaymentMethod)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, out)
}

type InitiatePaymentRequest struct {
	TableID uint   `json:"tableId" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
}

// POST /public/payments/initiate (public, PIN gated)
func (p *PaymentController) Initiate(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	intent, err := p.Payments.InitiatePayment(req.TableID, req.Pin)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, intent)
}

type VerifyPaymentRequest struct {
	GatewayOrderID   string `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
}

// POST /public/payments/verify (public)
func (p *PaymentController) Verify(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	out, err := p.Payments.VerifyPayment(req.GatewayOrderID, req.GatewayPaymentID, req.Signature)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, out)
}
