package services

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/yeremiapane/ronda-app/models"
	"github.com/yeremiapane/ronda-app/utils"
)

// RenderReceiptPDF writes a 74x105mm ticket for a payment. The payment must be
// loaded with Ronda.Table and Ronda.Orders.Items.Product.
func RenderReceiptPDF(w io.Writer, payment *models.Payment, businessName string) error {
	if payment == nil || payment.Ronda == nil {
		return fmt.Errorf("receipt: payment %v has no ronda loaded", payment)
	}
	ronda := payment.Ronda

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 6, tr(businessName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)

	tableLabel := fmt.Sprintf("Mesa %d", ronda.TableID)
	if ronda.Table != nil {
		tableLabel = fmt.Sprintf("Mesa %d", ronda.Table.Number)
	}
	pdf.CellFormat(contentW, 4, fmt.Sprintf("%s  -  Ronda #%d", tableLabel, ronda.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, payment.CreatedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	col1 := contentW * 0.52
	col2 := contentW * 0.14
	col3 := contentW * 0.34

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 4, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 4, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 4, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, order := range ronda.Orders {
		for _, item := range order.Items {
			name := fmt.Sprintf("Producto %d", item.ProductID)
			if item.Product != nil {
				name = item.Product.Name
			}
			if len(name) > 24 {
				name = name[:23] + "."
			}
			pdf.CellFormat(col1, 4, tr(name), "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
			pdf.CellFormat(col3, 4, utils.FormatCurrencyARS(item.Subtotal()), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 5, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 5, utils.FormatCurrencyARS(payment.Amount), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Pago: %s (%s)", payment.Method, payment.SplitType), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su visita!"), "", 1, "C", false, 0, "")

	return pdf.Output(w)
}
