package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type TableController struct {
	Floor *services.FloorService
}

func NewTableController(floor *services.FloorService) *TableController {
	return &TableController{Floor: floor}
}

// GetAllTables -> floor plan, optionally filtered by ?status= and ?zone_id=
func (tc *TableController) GetAllTables(c *gin.Context) {
	zoneID, ok := queryUint(c, "zone_id")
	if !ok {
		return
	}
	tables, err := tc.Floor.ListTables(c.Request.Context(), services.TableFilter{
		Status: c.Query("status"),
		ZoneID: zoneID,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	table, err := tc.Floor.GetTable(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var req services.TableInput
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.Floor.CreateTable(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("New table created: #%d (capacity=%d)", table.Number, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.TableUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.Floor.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) UpdateTablePosition(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		X *float64 `json:"x" binding:"required"`
		Y *float64 `json:"y" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	table, err := tc.Floor.UpdateTablePosition(c.Request.Context(), id, *req.X, *req.Y)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table position updated", table)
}

// UpdateTableStatus -> manual status change by staff
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	table, err := tc.Floor.SetTableStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table #%d status changed to %s", table.Number, table.Status)
	utils.RespondJSON(c, http.StatusOK, "Table status updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := tc.Floor.DeleteTable(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{"id": id})
}

// GetActiveRonda -> open tab of the table with its orders and running total
func (tc *TableController) GetActiveRonda(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ronda, err := tc.Floor.GetActiveRonda(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active ronda", ronda)
}

// CloseTable -> bill the table's active ronda and free the table
func (tc *TableController) CloseTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.CloseInput
	if !bindJSON(c, &req) {
		return
	}
	if userID := currentUserID(c); userID != 0 {
		req.ClosedByID = &userID
	}

	result, err := tc.Floor.CloseTable(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d closed: ronda=%d total=%s method=%s",
		id, result.Ronda.ID, result.Total.StringFixed(2), result.Payment.Method)
	utils.RespondJSON(c, http.StatusOK, "Table closed", result)
}
