package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type RondaController struct {
	Floor *services.FloorService
}

func NewRondaController(floor *services.FloorService) *RondaController {
	return &RondaController{Floor: floor}
}

// GetRondas -> ?active=true, ?from=, ?to=
func (rc *RondaController) GetRondas(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}
	rondas, err := rc.Floor.ListRondas(c.Request.Context(), c.Query("active") == "true", from, to)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of rondas", rondas)
}

func (rc *RondaController) GetRonda(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ronda, err := rc.Floor.GetRonda(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ronda detail", ronda)
}

func (rc *RondaController) CloseRonda(c *gin.Context) {
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

	result, err := rc.Floor.CloseRonda(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Ronda %d closed: total=%s method=%s", id, result.Total.StringFixed(2), result.Payment.Method)
	utils.RespondJSON(c, http.StatusOK, "Ronda closed", result)
}
