package services

import (
	"context"
	"sort"
	"strings"

	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/kds"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

type OrderItemInput struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Notes     string `json:"notes" validate:"max=500"`
}

type ProcessOrderInput struct {
	TableID uint             `json:"table_id" validate:"required"`
	MozoID  uint             `json:"-" validate:"required"`
	Items   []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type OrderResult struct {
	Order        *models.Order `json:"order"`
	Ronda        *models.Ronda `json:"ronda"`
	Table        *models.Table `json:"table"`
	RondaCreated bool          `json:"ronda_created"`
}

// ProcessOrder records an order for a table, opening the table's ronda on the
// first order. Item prices are copied from the products at this moment. Any
// unknown product fails the whole order.
func (s *FloorService) ProcessOrder(ctx context.Context, in ProcessOrderInput) (*OrderResult, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	table, unlock, err := s.lockTableScope(ctx, in.TableID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result := &OrderResult{Table: &table}
	err = s.runTx(ctx, func(tx *gorm.DB) error {
		var mozos int64
		if err := tx.Model(&models.User{}).Where("id = ?", in.MozoID).Count(&mozos).Error; err != nil {
			return err
		}
		if mozos == 0 {
			return apperrors.InvalidReference("user %d does not exist", in.MozoID)
		}

		products, err := resolveProducts(tx, in.Items)
		if err != nil {
			return err
		}

		ronda, created, err := s.findOrCreateActiveRonda(tx, &table)
		if err != nil {
			return err
		}
		result.Ronda, result.RondaCreated = ronda, created

		order := models.Order{
			RondaID: ronda.ID,
			MozoID:  in.MozoID,
			Status:  models.OrderPendiente,
			Items:   make([]models.OrderItem, 0, len(in.Items)),
		}
		for _, item := range in.Items {
			p := products[item.ProductID]
			order.Items = append(order.Items, models.OrderItem{
				ProductID:       p.ID,
				Quantity:        item.Quantity,
				Notes:           strings.TrimSpace(item.Notes),
				PriceAtSnapshot: p.Price,
			})
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range order.Items {
			p := products[order.Items[i].ProductID]
			order.Items[i].Product = &p
		}
		result.Order = &order

		if err := tx.Model(&table).Update("status", s.OrderPlacedStatus).Error; err != nil {
			return err
		}
		table.Status = s.OrderPlacedStatus
		return nil
	})
	unlock()
	if err != nil {
		return nil, err
	}

	if result.RondaCreated {
		s.publish(ctx, kds.EventRondaOpened, result.Ronda)
	}
	s.publish(ctx, kds.EventOrderCreated, map[string]interface{}{
		"order":        result.Order,
		"table_id":     table.ID,
		"table_number": table.Number,
	})
	s.publish(ctx, kds.EventTableUpdated, table)
	return result, nil
}

// resolveProducts loads every referenced product in one query.
func resolveProducts(tx *gorm.DB, items []OrderItemInput) (map[uint]models.Product, error) {
	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	var found []models.Product
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	products := make(map[uint]models.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	var missing []uint
	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !p.IsAvailable {
			return nil, apperrors.Validation("product %q is not available", p.Name)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, apperrors.InvalidReference("unknown products: %s", joinIDs(missing))
	}
	return products, nil
}

// UpdateOrderStatus moves an order forward through
// PENDIENTE -> PREPARANDO -> LISTO -> ENTREGADO. Steps may be skipped.
func (s *FloorService) UpdateOrderStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, apperrors.Validation("invalid order status %q", status)
	}

	var order models.Order
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			return notFoundOr(err, "order %d not found", orderID)
		}
		if next.Step() <= order.Status.Step() {
			return apperrors.Conflict("order %d cannot move from %s to %s", order.ID, order.Status, next)
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("order %d was changed concurrently", order.ID)
		}
		return tx.Preload("Items.Product").Preload("Ronda.Table").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kds.EventOrderUpdated, order)
	return &order, nil
}

type OrderFilter struct {
	Status      string
	ProductType string
}

// ListActiveOrders returns orders of open rondas, newest first. ProductType
// keeps only orders with at least one item for that station.
func (s *FloorService) ListActiveOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.db(ctx).
		Joins("JOIN rondas ON rondas.id = orders.ronda_id AND rondas.is_active = ?", true).
		Preload("Items.Product").
		Preload("Mozo").
		Preload("Ronda.Table")

	if f.Status != "" {
		if !models.OrderStatus(f.Status).Valid() {
			return nil, apperrors.Validation("invalid order status %q", f.Status)
		}
		q = q.Where("orders.status = ?", f.Status)
	}
	if f.ProductType != "" {
		q = q.Where("EXISTS (SELECT 1 FROM order_items JOIN products ON products.id = order_items.product_id "+
			"WHERE order_items.order_id = orders.id AND products.type = ?)", f.ProductType)
	}

	var orders []models.Order
	if err := q.Order("orders.created_at DESC, orders.id DESC").Find(&orders).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return orders, nil
}
