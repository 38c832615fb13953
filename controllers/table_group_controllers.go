package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type TableGroupController struct {
	Floor *services.FloorService
}

func NewTableGroupController(floor *services.FloorService) *TableGroupController {
	return &TableGroupController{Floor: floor}
}

func (gc *TableGroupController) GetActiveGroups(c *gin.Context) {
	groups, err := gc.Floor.ListActiveGroups(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active table groups", groups)
}

// GroupTables -> {"table_ids": [1, 3], "name": "optional"}
func (gc *TableGroupController) GroupTables(c *gin.Context) {
	var req services.GroupTablesInput
	if !bindJSON(c, &req) {
		return
	}
	group, err := gc.Floor.GroupTables(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table group %d created: %s", group.ID, group.Name)
	utils.RespondJSON(c, http.StatusCreated, "Tables grouped", group)
}

func (gc *TableGroupController) Ungroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	group, err := gc.Floor.Ungroup(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table group %d dissolved", group.ID)
	utils.RespondJSON(c, http.StatusOK, "Table group dissolved", group)
}
