package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ronda-app/models"
)

func TestRenderReceiptPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	table := f.table(t, 4, 4)
	p := f.product(t, "Empanada de carne", "1250.50")

	_, err := f.svc.ProcessOrder(ctx, orderOf(table.ID, f.mozo.ID, item(p.ID, 3)))
	require.NoError(t, err)
	closed, err := f.svc.CloseTable(ctx, table.ID, CloseInput{Method: models.PaymentTransferencia})
	require.NoError(t, err)

	payment, err := f.svc.GetPayment(ctx, closed.Payment.ID)
	require.NoError(t, err)
	require.NotNil(t, payment.Ronda)
	require.Len(t, payment.Ronda.Orders, 1)

	var buf bytes.Buffer
	require.NoError(t, RenderReceiptPDF(&buf, payment, "Ronda Bar"))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRenderReceiptPDFWithoutRonda(t *testing.T) {
	var buf bytes.Buffer
	err := RenderReceiptPDF(&buf, &models.Payment{ID: 1}, "Ronda Bar")
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
