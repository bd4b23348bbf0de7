package controllers

import (
	"tableserve/pkg/resp"
	"tableserve/services"

	"github.com/gin-gonic/gin"
)

type PublicController struct {
	Menu   *services.MenuService
	Tables *services.TableService
}

func NewPublicController(menu *services.MenuService, tables *services.TableService) *PublicController {
	return &PublicController{Menu: menu, Tables: tables}
}

// GET /public/menu/:restaurantId
func (p *PublicController) MenuByRestaurant(c *gin.Context) {
	restID, ok := paramID(c, "restaurantId")
	if !ok {
		return
	}

	items, err := p.Menu.ListMenu(restID)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, items)
}

type ValidateSessionRequest struct {
	TableID uint   `json:"tableId" binding:"required"`
	Pin     string `json:"pin" binding:"required"`
}

// POST /public/session/validate
func (p *PublicController) ValidateSession(c *gin.Context) {
	var req ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	table, err := p.Tables.ValidateSession(req.TableID, req.Pin)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{
		"tableId":      table.ID,
		"tableName":    table.Name,
		"restaurantId": table.RestaurantID,
	})
}
