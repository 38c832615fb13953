package services

import (
	"context"
	"time"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
)

type PaymentFilter struct {
	From   time.Time
	To     time.Time
	Method string
}

// ListPayments returns recorded payments, newest first.
func (s *FloorService) ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	q := s.db(ctx).Preload("Ronda.Table")
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To.UTC())
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}

	var payments []models.Payment
	if err := q.Order("created_at DESC, id DESC").Find(&payments).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return payments, nil
}

// GetPayment loads a payment with everything its receipt prints.
func (s *FloorService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := s.db(ctx).
		Preload("Ronda.Table").
		Preload("Ronda.Orders.Items.Product").
		First(&payment, id).Error
	if err != nil {
		return nil, apperrors.From(notFoundOr(err, "payment %d not found", id))
	}
	return &payment, nil
}
