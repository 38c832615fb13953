package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

type PaymentController struct {
	Floor        *services.FloorService
	BusinessName string
}

func NewPaymentController(floor *services.FloorService, businessName string) *PaymentController {
	return &PaymentController{Floor: floor, BusinessName: businessName}
}

// GetPayments -> ?from=, ?to=, ?method=EFECTIVO|TARJETA|TRANSFERENCIA
func (pc *PaymentController) GetPayments(c *gin.Context) {
	from, ok := queryTime(c, "from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return
	}

	method := strings.ToUpper(c.Query("method"))
	switch models.PaymentMethod(method) {
	case "", models.PaymentEfectivo, models.PaymentTarjeta, models.PaymentTransferencia:
	default:
		utils.RespondAppError(c, apperrors.Validation("invalid payment method %q", c.Query("method")))
		return
	}

	payments, err := pc.Floor.ListPayments(c.Request.Context(), services.PaymentFilter{From: from, To: to, Method: method})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Floor.GetPayment(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment detail", gin.H{
		"payment":   payment,
		"formatted": utils.FormatCurrencyARS(payment.Amount),
	})
}
