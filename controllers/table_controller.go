package controllers

import (
	"strconv"

	"tableserve/pkg/resp"
	"tableserve/services"
	"tableserve/utils"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	Tables *services.TableService
}

func NewTableController(tables *services.TableService) *TableController {
	return &TableController{Tables: tables}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

type CreateTableRequest struct {
	Name string `json:"name" binding:"required"`
}

// POST /tables (manager)
func (t *TableController) Create(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	table, err := t.Tables.CreateTable(utils.CurrentRestaurantID(c), req.Name)
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.Created(c, table)
}

// GET /tables (manager, waiter)
func (t *TableController) List(c *gin.Context) {
	tables, err := t.Tables.ListTables(utils.CurrentRestaurantID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, tables)
}

// POST /tables/:id/open (waiter)
func (t *TableController) Open(c *gin.Context) {
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}

	out, err := t.Tables.OpenTable(tableID, utils.CurrentRestaurantID(c), utils.CurrentUserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, out)
}

// DELETE /tables/:id (manager)
func (t *TableController) Archive(c *gin.Context) {
	tableID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := t.Tables.ArchiveTable(tableID, utils.CurrentRestaurantID(c)); err != nil {
		respondErr(c, err)
		return
	}
	resp.OK(c, gin.H{"archived": true})
}
