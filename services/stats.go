package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
)

type TableRevenue struct {
	TableID     uint            `json:"table_id"`
	TableNumber int             `json:"table_number"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type AdminStats struct {
	TotalTables    int64                        `json:"total_tables"`
	OccupiedTables int64                        `json:"occupied_tables"`
	ActiveRondas   int64                        `json:"active_rondas"`
	TodayOrders    int64                        `json:"today_orders"`
	TodayRevenue   decimal.Decimal              `json:"today_revenue"`
	TablesByStatus map[models.TableStatus]int64 `json:"tables_by_status"`
	TopTables      []TableRevenue               `json:"top_tables"`
}

// itemRevenue is one billed line joined to the table that ordered it.
type itemRevenue struct {
	TableID         uint
	Quantity        int
	PriceAtSnapshot decimal.Decimal
}

// AdminStats aggregates the dashboard figures. "Today" is the current UTC day.
func (s *FloorService) AdminStats(ctx context.Context) (*AdminStats, error) {
	db := s.db(ctx)
	stats := &AdminStats{TablesByStatus: make(map[models.TableStatus]int64)}

	if err := db.Model(&models.Table{}).Count(&stats.TotalTables).Error; err != nil {
		return nil, apperrors.From(err)
	}
	if err := db.Model(&models.Table{}).Where("status <> ?", models.TableLibre).Count(&stats.OccupiedTables).Error; err != nil {
		return nil, apperrors.From(err)
	}
	if err := db.Model(&models.Ronda{}).Where("is_active = ?", true).Count(&stats.ActiveRondas).Error; err != nil {
		return nil, apperrors.From(err)
	}

	var byStatus []struct {
		Status models.TableStatus
		Count  int64
	}
	if err := db.Model(&models.Table{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, apperrors.From(err)
	}
	for _, row := range byStatus {
		stats.TablesByStatus[row.Status] = row.Count
	}

	start := s.clock().Truncate(24 * time.Hour)
	end := start.Add(24 * time.Hour)
	if err := db.Model(&models.Order{}).Where("created_at >= ? AND created_at < ?", start, end).Count(&stats.TodayOrders).Error; err != nil {
		return nil, apperrors.From(err)
	}

	var today []itemRevenue
	if err := db.Model(&models.OrderItem{}).
		Select("rondas.table_id, order_items.quantity, order_items.price_at_snapshot").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN rondas ON rondas.id = orders.ronda_id").
		Where("orders.created_at >= ? AND orders.created_at < ?", start, end).
		Scan(&today).Error; err != nil {
		return nil, apperrors.From(err)
	}
	stats.TodayRevenue = decimal.Zero
	for _, line := range today {
		stats.TodayRevenue = stats.TodayRevenue.Add(line.PriceAtSnapshot.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	top, err := s.topTables(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopTables = top
	return stats, nil
}

// topTables ranks tables by the total billed through their rondas.
func (s *FloorService) topTables(ctx context.Context, limit int) ([]TableRevenue, error) {
	var lines []itemRevenue
	if err := s.db(ctx).Model(&models.OrderItem{}).
		Select("rondas.table_id, order_items.quantity, order_items.price_at_snapshot").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN rondas ON rondas.id = orders.ronda_id").
		Scan(&lines).Error; err != nil {
		return nil, apperrors.From(err)
	}

	totals := make(map[uint]decimal.Decimal)
	for _, line := range lines {
		totals[line.TableID] = totals[line.TableID].Add(line.PriceAtSnapshot.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	ranked := make([]TableRevenue, 0, len(totals))
	for id, revenue := range totals {
		ranked = append(ranked, TableRevenue{TableID: id, Revenue: revenue})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].Revenue.Cmp(ranked[j].Revenue); c != 0 {
			return c > 0
		}
		return ranked[i].TableID < ranked[j].TableID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		return ranked, nil
	}

	ids := make([]uint, len(ranked))
	for i, r := range ranked {
		ids[i] = r.TableID
	}
	var tables []models.Table
	if err := s.db(ctx).Where("id IN ?", ids).Find(&tables).Error; err != nil {
		return nil, apperrors.From(err)
	}
	numbers := make(map[uint]int, len(tables))
	for _, t := range tables {
		numbers[t.ID] = t.Number
	}
	for i := range ranked {
		ranked[i].TableNumber = numbers[ranked[i].TableID]
	}
	return ranked, nil
}
