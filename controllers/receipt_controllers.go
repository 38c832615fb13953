package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/services"
	"github.com/yeremiapane/ronda-app/utils"
)

// DownloadReceipt renders the ticket of a payment as PDF.
func (pc *PaymentController) DownloadReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := pc.Floor.GetPayment(c.Request.Context(), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderReceiptPDF(&buf, payment, pc.BusinessName); err != nil {
		utils.RespondAppError(c, apperrors.Internal("failed to render receipt", err))
		return
	}

	utils.InfoLogger.Printf("Receipt generated for payment %d (%s)", payment.ID, utils.FormatCurrencyARS(payment.Amount))
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=recibo-%06d.pdf", payment.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
