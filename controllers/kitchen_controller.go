package controllers

import (
	"tableserve/pkg/resp"
	"tableserve/services"
	"tableserve/utils"

	"github.com/gin-gonic/gin"
)

type KitchenController struct {
	Kitchen *services.KitchenService
}

func NewKitchenController(kitchen *services.KitchenService) *KitchenController {
	return &KitchenController{Kitchen: kitchen}
}

// GET /kitchen/pending (chef)
func (k *KitchenController) Pending(c *gin.Context) {
	items, err := k.Kitchen.PendingForStation(utils.CurrentRestaurantID(c), utils.CurrentStationID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, items)
}

// PATCH /orders/items/:itemId/claim (chef)
func (k *KitchenController) Claim(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	item, err := k.Kitchen.Claim(itemID, utils.CurrentRestaurantID(c), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, item)
}

// PATCH /orders/items/:itemId/ready (chef)
func (k *KitchenController) Ready(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	if err := k.Kitchen.MarkReady(itemID, utils.CurrentRestaurantID(c), utils.CurrentUserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "item marked as READY"})
}

// GET /waiter/ready (waiter)
func (k *KitchenController) ReadyList(c *gin.Context) {
	items, err := k.Kitchen.ReadyItems(utils.CurrentRestaurantID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, items)
}

// PATCH /orders/items/:itemId/served (waiter)
func (k *KitchenController) Served(c *gin.Context) {
	itemID, ok := paramID(c, "itemId")
	if !ok {
		return
	}

	if err := k.Kitchen.MarkServed(itemID, utils.CurrentRestaurantID(c), utils.CurrentUserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "item marked as SERVED"})
}
