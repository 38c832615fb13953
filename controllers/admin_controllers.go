package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type AdminController struct {
	Floor *services.FloorService
}

func NewAdminController(floor *services.FloorService) *AdminController {
	return &AdminController{Floor: floor}
}

// GetDashboardStats -> tables, rondas and today's billing
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	stats, err := ac.Floor.AdminStats(c.Request.Context())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"stats":                   stats,
		"today_revenue_formatted": utils.FormatCurrencyARS(stats.TodayRevenue),
	})
}
