package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type ZoneController struct {
	Floor *services.FloorService
}

func NewZoneController(floor *services.FloorService) *ZoneController {
	return &ZoneController{Floor: floor}
}

func (zc *ZoneController) GetAllZones(c *gin.Context) {
	zones, err := zc.Floor.ListZones(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of zones", zones)
}

func (zc *ZoneController) CreateZone(c *gin.Context) {
	var req services.ZoneInput
	if !bindJSON(c, &req) {
		return
	}
	zone, err := zc.Floor.CreateZone(c.Request.Context(), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Zone created", zone)
}

func (zc *ZoneController) UpdateZone(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.ZoneInput
	if !bindJSON(c, &req) {
		return
	}
	zone, err := zc.Floor.UpdateZone(c.Request.Context(), id, req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Zone updated", zone)
}

func (zc *ZoneController) DeleteZone(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := zc.Floor.DeleteZone(c.Request.Context(), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Zone deleted", gin.H{"id": id})
}
