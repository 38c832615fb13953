package services

import (
	"context"
	"strings"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

type GroupTablesInput struct {
	TableIDs []uint `json:"table_ids" validate:"required,min=2"`
	Name     string `json:"name" validate:"max=100"`
}

// GroupTables merges free tables into one billing unit. All members become OCUPADA.
func (s *FloorService) GroupTables(ctx context.Context, in GroupTablesInput) (*models.TableGroup, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	ids := uniqueSorted(in.TableIDs)
	if len(ids) < 2 {
		return nil, apperrors.Validation("at least two distinct tables are required")
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = tableKey(id)
	}
	unlock, err := lockAll(ctx, s.Locker, keys...)
	if err != nil {
		return nil, apperrors.Internal("failed to lock tables", err)
	}
	defer unlock()

	var group models.TableGroup
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var tables []models.Table
		if err := tx.Where("id IN ?", ids).Order("number").Find(&tables).Error; err != nil {
			return err
		}
		if len(tables) != len(ids) {
			found := make(map[uint]bool, len(tables))
			for _, t := range tables {
				found[t.ID] = true
			}
			var missing []uint
			for _, id := range ids {
				if !found[id] {
					missing = append(missing, id)
				}
			}
			return apperrors.NotFound("tables not found: %s", joinIDs(missing))
		}

		var grouped, numbers []int
		for _, t := range tables {
			numbers = append(numbers, t.Number)
			if t.TableGroupID != nil {
				grouped = append(grouped, t.Number)
			}
		}
		if len(grouped) > 0 {
			return apperrors.Conflict("tables already grouped: %s", joinNumbers(grouped, ", "))
		}

		var busyIDs []uint
		if err := tx.Model(&models.Ronda{}).
			Where("is_active = ? AND table_id IN ?", true, ids).
			Distinct().Pluck("table_id", &busyIDs).Error; err != nil {
			return err
		}
		if len(busyIDs) > 0 {
			busy := make(map[uint]bool, len(busyIDs))
			for _, id := range busyIDs {
				busy[id] = true
			}
			var busyNumbers []int
			for _, t := range tables {
				if busy[t.ID] {
					busyNumbers = append(busyNumbers, t.Number)
				}
			}
			return apperrors.Conflict("tables with an active ronda: %s", joinNumbers(busyNumbers, ", "))
		}

		name := strings.TrimSpace(in.Name)
		if name == "" {
			name = "Mesa " + joinNumbers(numbers, "+")
		}
		group = models.TableGroup{Name: name, IsActive: true}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Table{}).Where("id IN ?", ids).Updates(map[string]interface{}{
			"table_group_id": group.ID,
			"status":         models.TableOcupada,
		}).Error; err != nil {
			return err
		}
		return tx.Preload("Tables", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
			First(&group, group.ID).Error
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableGroupCreated, group)
	for _, t := range group.Tables {
		s.publish(ctx, kds.EventTableUpdated, t)
	}
	return &group, nil
}

// Ungroup dissolves a group whose tables have no open tab. Members become LIBRE.
func (s *FloorService) Ungroup(ctx context.Context, groupID uint) (*models.TableGroup, error) {
	var group models.TableGroup
	if err := s.db(ctx).Preload("Tables").First(&group, groupID).Error; err != nil {
		return nil, apperrors.From(notFoundOr(err, "table group %d not found", groupID))
	}
	if !group.IsActive {
		return nil, apperrors.NotFound("table group %d not found", groupID)
	}

	ids := make([]uint, 0, len(group.Tables))
	for _, t := range group.Tables {
		ids = append(ids, t.ID)
	}
	ids = uniqueSorted(ids)
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, tableKey(id))
	}
	keys = append(keys, groupKey(group.ID))

	unlock, err := lockAll(ctx, s.Locker, keys...)
	if err != nil {
		return nil, apperrors.Internal("failed to lock tables", err)
	}
	defer unlock()

	var freed []models.Table
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&group, groupID).Error; err != nil {
			return notFoundOr(err, "table group %d not found", groupID)
		}
		if !group.IsActive {
			return apperrors.NotFound("table group %d not found", groupID)
		}

		var members []models.Table
		if err := tx.Where("table_group_id = ?", group.ID).Order("number").Find(&members).Error; err != nil {
			return err
		}
		memberIDs := make([]uint, 0, len(members))
		for _, t := range members {
			memberIDs = append(memberIDs, t.ID)
		}

		q := tx.Model(&models.Ronda{}).Where("is_active = ?", true)
		if len(memberIDs) > 0 {
			q = q.Where("(table_group_id = ? OR table_id IN ?)", group.ID, memberIDs)
		} else {
			q = q.Where("table_group_id = ?", group.ID)
		}
		var active int64
		if err := q.Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Conflict("table group %q has an active ronda", group.Name)
		}

		if err := tx.Model(&models.Table{}).Where("table_group_id = ?", group.ID).Updates(map[string]interface{}{
			"table_group_id": nil,
			"status":         models.TableLibre,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TableGroup{}).Where("id = ?", group.ID).Update("is_active", false).Error; err != nil {
			return err
		}
		group.IsActive = false

		for i := range members {
			members[i].TableGroupID = nil
			members[i].Status = models.TableLibre
		}
		freed = members
		group.Tables = members
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventTableGroupDissolved, group)
	for _, t := range freed {
		s.publish(ctx, kds.EventTableUpdated, t)
	}
	return &group, nil
}

// ListActiveGroups returns the active groups with their tables and open rondas.
func (s *FloorService) ListActiveGroups(ctx context.Context) ([]models.TableGroup, error) {
	var groups []models.TableGroup
	err := s.db(ctx).
		Where("is_active = ?", true).
		Preload("Tables", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Rondas", "is_active = ?", true).
		Order("created_at DESC, id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, apperrors.From(err)
	}
	return groups, nil
}
