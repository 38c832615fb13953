package services

import (
	"context"
	"errors"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

type TableInput struct {
	Number   int     `json:"number" validate:"required,min=1"`
	Capacity int     `json:"capacity" validate:"required,min=1,max=50"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	ZoneID   *uint   `json:"zone_id"`
}

type TableUpdateInput struct {
	Number   *int  `json:"number" validate:"omitempty,min=1"`
	Capacity *int  `json:"capacity" validate:"omitempty,min=1,max=50"`
	ZoneID   *uint `json:"zone_id"`
	// ClearZone detaches the table from its zone.
	ClearZone bool `json:"clear_zone"`
}

type TableFilter struct {
	Status string
	ZoneID uint
}

func (s *FloorService) ListTables(ctx context.Context, f TableFilter) ([]models.Table, error) {
	q := s.db(ctx).Preload("Zone").Preload("TableGroup")
	if f.Status != "" {
		if !models.TableStatus(f.Status).Valid() {
			return nil, apperrors.Validation("invalid table status %q", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.ZoneID != 0 {
		q = q.Where("zone_id = ?", f.ZoneID)
	}

	var tables []models.Table
	if err := q.Order("number").Find(&tables).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return tables, nil
}

func (s *FloorService) GetTable(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := s.db(ctx).Preload("Zone").Preload("TableGroup").First(&table, id).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "table %d not found", id))
	}
	return &table, nil
}

func checkZone(tx *gorm.DB, zoneID *uint) error {
	if zoneID == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Zone{}).Where("id = ?", *zoneID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperrors.InvalidReference("zone %d does not exist", *zoneID)
	}
	return nil
}

func checkTableNumber(tx *gorm.DB, number int, exceptID uint) error {
	var n int64
	if err := tx.Model(&models.Table{}).Where("number = ? AND id <> ?", number, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Conflict("table number %d already exists", number)
	}
	return nil
}

// CreateTable adds a table to the floor plan. New tables start LIBRE.
func (s *FloorService) CreateTable(ctx context.Context, in TableInput) (*models.Table, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	table := models.Table{
		Number:   in.Number,
		Capacity: in.Capacity,
		Status:   models.TableLibre,
		X:        in.X,
		Y:        in.Y,
		ZoneID:   in.ZoneID,
	}
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := checkZone(tx, in.ZoneID); err != nil {
			return err
		}
		if err := checkTableNumber(tx, in.Number, 0); err != nil {
			return err
		}
		if err := tx.Create(&table).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("table number %d already exists", in.Number)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableCreated, table)
	return &table, nil
}

func (s *FloorService) UpdateTable(ctx context.Context, id uint, in TableUpdateInput) (*models.Table, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	unlock, err := s.Locker.Lock(ctx, tableKey(id))
	if err != nil {
		return nil, apperrors.Internal("failed to lock table", err)
	}
	defer unlock()

	var table models.Table
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return notFoundOr(err, "table %d not found", id)
		}

		updates := map[string]interface{}{}
		if in.Number != nil && *in.Number != table.Number {
			if err := checkTableNumber(tx, *in.Number, table.ID); err != nil {
				return err
			}
			updates["number"] = *in.Number
		}
		if in.Capacity != nil {
			updates["capacity"] = *in.Capacity
		}
		if in.ClearZone {
			updates["zone_id"] = nil
		} else if in.ZoneID != nil {
			if err := checkZone(tx, in.ZoneID); err != nil {
				return err
			}
			updates["zone_id"] = *in.ZoneID
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Table{}).Where("id = ?", table.ID).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&table, table.ID).Error
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableUpdated, table)
	return &table, nil
}

// UpdateTablePosition moves a table on the floor plan.
func (s *FloorService) UpdateTablePosition(ctx context.Context, id uint, x, y float64) (*models.Table, error) {
	var table models.Table
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return notFoundOr(err, "table %d not found", id)
		}
		if err := tx.Model(&models.Table{}).Where("id = ?", id).Updates(map[string]interface{}{"x": x, "y": y}).Error; err != nil {
			return err
		}
		table.X, table.Y = x, y
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableUpdated, table)
	return &table, nil
}

// DeleteTable removes a table with no billing history and no group.
func (s *FloorService) DeleteTable(ctx context.Context, id uint) error {
	unlock, err := s.Locker.Lock(ctx, tableKey(id))
	if err != nil {
		return apperrors.Internal("failed to lock table", err)
	}
	defer unlock()

	var table models.Table
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&table, id).Error; err != nil {
			return notFoundOr(err, "table %d not found", id)
		}
		if table.TableGroupID != nil {
			return apperrors.Conflict("table %d belongs to a group", table.Number)
		}

		var active, history int64
		if err := tx.Model(&models.Ronda{}).Where("table_id = ? AND is_active = ?", id, true).Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Conflict("table %d has an active ronda", table.Number)
		}
		if err := tx.Model(&models.Ronda{}).Where("table_id = ?", id).Count(&history).Error; err != nil {
			return err
		}
		if history > 0 {
			return apperrors.Conflict("table %d has billing history and cannot be deleted", table.Number)
		}

		if err := tx.Where("table_id = ?", id).Delete(&models.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&table).Error
	})
	unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, kds.EventTableDeleted, map[string]interface{}{"id": table.ID, "number": table.Number})
	return nil
}
