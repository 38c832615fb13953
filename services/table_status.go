package services

import (
	"context"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

// TableFacts are the stored facts a table status can be derived from.
type TableFacts struct {
	HasActiveRonda       bool
	HasActiveReservation bool
}

// ReconcileTableStatus returns the status a table should have given its facts.
// A table with an open tab is never free or merely reserved; a reserved table
// with nothing left to wait for is free. Any other explicit status stands.
func ReconcileTableStatus(current models.TableStatus, facts TableFacts) models.TableStatus {
	if facts.HasActiveRonda {
		if !current.InService() {
			return models.TableOcupada
		}
		return current
	}
	if current == models.TableReservada && !facts.HasActiveReservation {
		return models.TableLibre
	}
	return current
}

// activeRondaQuery selects the active ronda serving a table, which for a
// grouped table is the group's ronda.
func activeRondaQuery(tx *gorm.DB, table *models.Table) *gorm.DB {
	q := tx.Model(&models.Ronda{}).Where("is_active = ?", true)
	if table.TableGroupID != nil {
		return q.Where("(table_id = ? OR table_group_id = ?)", table.ID, *table.TableGroupID)
	}
	return q.Where("table_id = ?", table.ID)
}

func tableFacts(tx *gorm.DB, table *models.Table) (TableFacts, error) {
	var facts TableFacts

	var rondas int64
	if err := activeRondaQuery(tx, table).Count(&rondas).Error; err != nil {
		return facts, err
	}
	var reservations int64
	if err := tx.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", table.ID, models.ActiveReservationStatuses).
		Count(&reservations).Error; err != nil {
		return facts, err
	}

	facts.HasActiveRonda = rondas > 0
	facts.HasActiveReservation = reservations > 0
	return facts, nil
}

// reconcileTable reloads a table, derives its status and persists it if it changed.
func reconcileTable(tx *gorm.DB, tableID uint) (*models.Table, error) {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		return nil, err
	}
	facts, err := tableFacts(tx, &table)
	if err != nil {
		return nil, err
	}
	next := ReconcileTableStatus(table.Status, facts)
	if next != table.Status {
		if err := tx.Model(&table).Update("status", next).Error; err != nil {
			return nil, err
		}
		table.Status = next
	}
	return &table, nil
}

// SetTableStatus applies a manual status change from staff. The request is
// rejected when it contradicts the table's rondas or reservations.
func (s *FloorService) SetTableStatus(ctx context.Context, tableID uint, status string) (*models.Table, error) {
	next := models.TableStatus(status)
	if !next.Valid() {
		return nil, apperrors.Validation("invalid table status %q", status)
	}

	table, unlock, err := s.lockTableScope(ctx, tableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.runTx(ctx, func(tx *gorm.DB) error {
		facts, err := tableFacts(tx, &table)
		if err != nil {
			return err
		}
		if derived := ReconcileTableStatus(next, facts); derived != next {
			if facts.HasActiveRonda {
				return apperrors.Conflict("table %d has an active ronda and cannot be %s", table.Number, next)
			}
			return apperrors.Conflict("table %d has no active reservation and cannot be %s", table.Number, next)
		}
		if err := tx.Model(&table).Update("status", next).Error; err != nil {
			return err
		}
		table.Status = next
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableUpdated, table)
	return &table, nil
}
