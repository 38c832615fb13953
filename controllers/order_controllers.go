package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type OrderController struct {
	Floor *services.FloorService
}

func NewOrderController(floor *services.FloorService) *OrderController {
	return &OrderController{Floor: floor}
}

// CreateOrder -> mozo takes an order for a table; opens the ronda on the first one
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.ProcessOrderInput
	if !bindJSON(c, &req) {
		return
	}
	req.MozoID = currentUserID(c)

	result, err := oc.Floor.ProcessOrder(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created for table #%d (ronda=%d, new=%t)",
		result.Order.ID, result.Table.Number, result.Ronda.ID, result.RondaCreated)
	utils.RespondJSON(c, http.StatusCreated, "Order created", result)
}

// GetActiveOrders -> kitchen/bar board, ?status= and ?type=COCINA|BARRA
func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	orders, err := oc.Floor.ListActiveOrders(c.Request.Context(), services.OrderFilter{
		Status:      c.Query("status"),
		ProductType: c.Query("type"),
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
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

	order, err := oc.Floor.UpdateOrderStatus(c.Request.Context(), id, body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d status changed to %s", order.ID, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
