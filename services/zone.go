package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

var zoneColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

type ZoneInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Color    string `json:"color" validate:"required"`
	Capacity int    `json:"capacity" validate:"omitempty,min=1,max=100"`
	Width    int    `json:"width" validate:"omitempty,min=400,max=1200"`
	Height   int    `json:"height" validate:"omitempty,min=300,max=800"`
}

type ZoneSummary struct {
	models.Zone
	TableCount int64 `json:"table_count"`
}

func (in *ZoneInput) normalize() {
	in.Name = strings.ToUpper(strings.TrimSpace(in.Name))
	in.Color = strings.TrimSpace(in.Color)
	if in.Capacity == 0 {
		in.Capacity = 20
	}
	if in.Width == 0 {
		in.Width = 600
	}
	if in.Height == 0 {
		in.Height = 400
	}
}

func (s *FloorService) checkZoneInput(in ZoneInput) error {
	if err := s.check(in); err != nil {
		return err
	}
	if !zoneColor.MatchString(in.Color) {
		return apperrors.Validation("color %q must be #RGB or #RRGGBB", in.Color)
	}
	return nil
}

func checkZoneName(tx *gorm.DB, name string, exceptID uint) error {
	var n int64
	if err := tx.Model(&models.Zone{}).Where("name = ? AND id <> ?", name, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return apperrors.Conflict("zone %q already exists", name)
	}
	return nil
}

// ListZones returns zones by name with the number of tables in each.
func (s *FloorService) ListZones(ctx context.Context) ([]ZoneSummary, error) {
	var zones []models.Zone
	if err := s.db(ctx).Order("name").Find(&zones).Error; err != nil {
		return nil, apperrors.From(err)
	}

	var counts []struct {
		ZoneID uint
		Count  int64
	}
	if err := s.db(ctx).Model(&models.Table{}).
		Select("zone_id, COUNT(*) AS count").
		Where("zone_id IS NOT NULL").
		Group("zone_id").
		Scan(&counts).Error; err != nil {
		return nil, apperrors.From(err)
	}
	byZone := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byZone[c.ZoneID] = c.Count
	}

	out := make([]ZoneSummary, 0, len(zones))
	for _, z := range zones {
		out = append(out, ZoneSummary{Zone: z, TableCount: byZone[z.ID]})
	}
	return out, nil
}

func (s *FloorService) CreateZone(ctx context.Context, in ZoneInput) (*models.Zone, error) {
	in.normalize()
	if err := s.checkZoneInput(in); err != nil {
		return nil, err
	}

	zone := models.Zone{Name: in.Name, Color: in.Color, Capacity: in.Capacity, Width: in.Width, Height: in.Height}
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := checkZoneName(tx, zone.Name, 0); err != nil {
			return err
		}
		if err := tx.Create(&zone).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("zone %q already exists", zone.Name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (s *FloorService) UpdateZone(ctx context.Context, id uint, in ZoneInput) (*models.Zone, error) {
	in.normalize()
	if err := s.checkZoneInput(in); err != nil {
		return nil, err
	}

	var zone models.Zone
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&zone, id).Error; err != nil {
			return notFoundOr(err, "zone %d not found", id)
		}
		if err := checkZoneName(tx, in.Name, zone.ID); err != nil {
			return err
		}
		zone.Name, zone.Color = in.Name, in.Color
		zone.Capacity, zone.Width, zone.Height = in.Capacity, in.Width, in.Height
		return tx.Save(&zone).Error
	})
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// DeleteZone removes a zone no table is assigned to.
func (s *FloorService) DeleteZone(ctx context.Context, id uint) error {
	return s.runTx(ctx, func(tx *gorm.DB) error {
		var zone models.Zone
		if err := tx.First(&zone, id).Error; err != nil {
			return notFoundOr(err, "zone %d not found", id)
		}
		var tables int64
		if err := tx.Model(&models.Table{}).Where("zone_id = ?", id).Count(&tables).Error; err != nil {
			return err
		}
		if tables > 0 {
			return apperrors.Conflict("zone %q still has %d tables", zone.Name, tables)
		}
		return tx.Delete(&zone).Error
	})
}
