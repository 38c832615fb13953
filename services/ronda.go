package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

// RondaSummary is a ronda with its orders and the billed total.
type RondaSummary struct {
	*models.Ronda
	Total decimal.Decimal `json:"total"`
}

func summarize(r *models.Ronda) *RondaSummary {
	return &RondaSummary{Ronda: r, Total: r.Total()}
}

type CloseInput struct {
	Method     models.PaymentMethod `json:"method" validate:"required,oneof=EFECTIVO TARJETA TRANSFERENCIA"`
	SplitType  models.SplitType     `json:"split_type" validate:"omitempty,oneof=SINGLE EQUAL BY_ITEM"`
	ClosedByID *uint                `json:"-"`
}

type CloseResult struct {
	Payment *models.Payment `json:"payment"`
	Ronda   *models.Ronda   `json:"ronda"`
	Total   decimal.Decimal `json:"total"`
	// Tables are the tables freed by the close: one, or every member of a group.
	Tables []models.Table `json:"tables"`
}

// findOrCreateActiveRonda returns the active ronda serving table, creating it
// when none exists. Callers hold the table scope lock; the unique index on
// active_table_id rejects a second active ronda if they do not.
func (s *FloorService) findOrCreateActiveRonda(tx *gorm.DB, table *models.Table) (*models.Ronda, bool, error) {
	var ronda models.Ronda
	if err := activeRondaQuery(tx, table).Order("id").Limit(1).Find(&ronda).Error; err != nil {
		return nil, false, err
	}
	if ronda.ID != 0 {
		return &ronda, false, nil
	}

	activeTableID := table.ID
	ronda = models.Ronda{
		TableID:       table.ID,
		TableGroupID:  table.TableGroupID,
		IsActive:      true,
		ActiveTableID: &activeTableID,
		OpenedAt:      s.clock(),
	}
	if err := tx.Create(&ronda).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, apperrors.Conflict("table %d already has an active ronda", table.Number)
		}
		return nil, false, err
	}
	return &ronda, true, nil
}

// FindOrCreateActiveRonda opens a ronda for the table unless one is already active.
func (s *FloorService) FindOrCreateActiveRonda(ctx context.Context, tableID uint) (*models.Ronda, bool, error) {
	table, unlock, err := s.lockTableScope(ctx, tableID)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	var (
		ronda   *models.Ronda
		created bool
	)
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var err error
		ronda, created, err = s.findOrCreateActiveRonda(tx, &table)
		if err != nil {
			return err
		}
		_, err = reconcileTable(tx, table.ID)
		return err
	})
	unlock()
	if err != nil {
		return nil, false, err
	}
	if created {
		s.publish(ctx, kds.EventRondaOpened, ronda)
	}
	return ronda, created, nil
}

// CloseTable bills and closes the active ronda serving the table.
func (s *FloorService) CloseTable(ctx context.Context, tableID uint, in CloseInput) (*CloseResult, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	table, unlock, err := s.lockTableScope(ctx, tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *CloseResult
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var ronda models.Ronda
		if err := activeRondaQuery(tx, &table).Order("id").First(&ronda).Error; err != nil {
			return notFoundOr(err, "table %d has no active ronda", table.Number)
		}
		var err error
		result, err = s.closeRondaTx(tx, ronda.ID, in)
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publishClose(ctx, result)
	return result, nil
}

// CloseRonda bills and closes a ronda by id.
func (s *FloorService) CloseRonda(ctx context.Context, rondaID uint, in CloseInput) (*CloseResult, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var ronda models.Ronda
	if err := s.db(ctx).First(&ronda, rondaID).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "ronda %d not found", rondaID))
	}

	_, unlock, err := s.lockTableScope(ctx, ronda.TableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *CloseResult
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.closeRondaTx(tx, rondaID, in)
		return err
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publishClose(ctx, result)
	return result, nil
}

func (s *FloorService) closeRondaTx(tx *gorm.DB, rondaID uint, in CloseInput) (*CloseResult, error) {
	var ronda models.Ronda
	if err := tx.Preload("Orders.Items").First(&ronda, rondaID).Error; err != nil {
		return nil, notFoundOr(err, "ronda %d not found", rondaID)
	}
	if !ronda.IsActive {
		return nil, apperrors.Conflict("ronda %d is already closed", rondaID)
	}

	split := in.SplitType
	if split == "" {
		split = models.SplitSingle
	}

	total := ronda.Total()
	payment := models.Payment{
		RondaID:    ronda.ID,
		Amount:     total,
		Method:     in.Method,
		SplitType:  split,
		ClosedByID: in.ClosedByID,
	}
	if err := tx.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("ronda %d is already paid", ronda.ID)
		}
		return nil, err
	}

	closedAt := s.clock()
	if err := tx.Model(&models.Ronda{}).Where("id = ?", ronda.ID).Updates(map[string]interface{}{
		"is_active":       false,
		"active_table_id": nil,
		"closed_at":       closedAt,
	}).Error; err != nil {
		return nil, err
	}
	ronda.IsActive = false
	ronda.ActiveTableID = nil
	ronda.ClosedAt = &closedAt

	q := tx.Model(&models.Table{})
	if ronda.TableGroupID != nil {
		q = q.Where("id = ? OR table_group_id = ?", ronda.TableID, *ronda.TableGroupID)
	} else {
		q = q.Where("id = ?", ronda.TableID)
	}
	if err := q.Update("status", models.TableLibre).Error; err != nil {
		return nil, err
	}

	var tables []models.Table
	freed := tx.Order("number")
	if ronda.TableGroupID != nil {
		freed = freed.Where("id = ? OR table_group_id = ?", ronda.TableID, *ronda.TableGroupID)
	} else {
		freed = freed.Where("id = ?", ronda.TableID)
	}
	if err := freed.Find(&tables).Error; err != nil {
		return nil, err
	}

	return &CloseResult{Payment: &payment, Ronda: &ronda, Total: total, Tables: tables}, nil
}

func (s *FloorService) publishClose(ctx context.Context, result *CloseResult) {
	s.publish(ctx, kds.EventPaymentCreated, result.Payment)
	s.publish(ctx, kds.EventRondaClosed, map[string]interface{}{
		"ronda_id": result.Ronda.ID,
		"table_id": result.Ronda.TableID,
		"total":    result.Total,
	})
	for _, t := range result.Tables {
		s.publish(ctx, kds.EventTableUpdated, t)
	}
}

func preloadRonda(q *gorm.DB) *gorm.DB {
	return q.Preload("Table").
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Orders.Items.Product").
		Preload("Orders.Mozo").
		Preload("Payment")
}

// GetActiveRonda returns the open tab serving a table with its running total.
func (s *FloorService) GetActiveRonda(ctx context.Context, tableID uint) (*RondaSummary, error) {
	var table models.Table
	if err := s.db(ctx).First(&table, tableID).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "table %d not found", tableID))
	}

	var ronda models.Ronda
	if err := preloadRonda(activeRondaQuery(s.db(ctx), &table)).Order("id").First(&ronda).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "table %d has no active ronda", table.Number))
	}
	return summarize(&ronda), nil
}

func (s *FloorService) GetRonda(ctx context.Context, rondaID uint) (*RondaSummary, error) {
	var ronda models.Ronda
	if err := preloadRonda(s.db(ctx)).First(&ronda, rondaID).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "ronda %d not found", rondaID))
	}
	return summarize(&ronda), nil
}

// ListRondas returns rondas opened in [from, to), newest first.
func (s *FloorService) ListRondas(ctx context.Context, activeOnly bool, from, to time.Time) ([]RondaSummary, error) {
	q := preloadRonda(s.db(ctx))
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if !from.IsZero() {
		q = q.Where("opened_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("opened_at < ?", to.UTC())
	}

	var rondas []models.Ronda
	if err := q.Order("opened_at DESC, id DESC").Find(&rondas).Error; err != nil {
		return nil, apperrors.From(err)
	}
	out := make([]RondaSummary, 0, len(rondas))
	for i := range rondas {
		out = append(out, *summarize(&rondas[i]))
	}
	return out, nil
}
