package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/ronda-app/apperrors"
	"github.com/yeremiapane/ronda-app/models"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Category    string          `json:"category" validate:"required,max=100"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type" validate:"omitempty,oneof=COCINA BARRA"`
	IsAvailable *bool           `json:"is_available"`
}

type ProductUpdateInput struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Price       *decimal.Decimal `json:"price"`
	Type        *string          `json:"type" validate:"omitempty,oneof=COCINA BARRA"`
	IsAvailable *bool            `json:"is_available"`
}

type ProductFilter struct {
	Category      string
	Type          string
	AvailableOnly bool
}

func checkPrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return apperrors.Validation("price must be greater than zero")
	}
	if !price.Equal(price.Round(2)) {
		return apperrors.Validation("price must have at most two decimals")
	}
	return nil
}

func (s *FloorService) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db(ctx)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		q = q.Where("type = ?", strings.ToUpper(f.Type))
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}

	var products []models.Product
	if err := q.Order("category, name").Find(&products).Error; err != nil {
		return nil, apperrors.From(err)
	}
	return products, nil
}

func (s *FloorService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := checkPrice(in.Price); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Type:        models.ProductCocina,
		IsAvailable: true,
	}
	if in.Type != "" {
		product.Type = models.ProductType(in.Type)
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}

	if err := s.db(ctx).Create(&product).Error; err != nil {
		return nil, apperrors.From(err)
	}
	// is_available has a DB default, so false has to be written explicitly.
	if !product.IsAvailable {
		if err := s.db(ctx).Model(&product).Update("is_available", false).Error; err != nil {
			return nil, apperrors.From(err)
		}
	}
	return &product, nil
}

// UpdateProduct changes catalog data. Prices already snapshotted on orders are unaffected.
func (s *FloorService) UpdateProduct(ctx context.Context, id uint, in ProductUpdateInput) (*models.Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
	}

	var product models.Product
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return notFoundOr(err, "product %d not found", id)
		}
		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			updates["category"] = strings.TrimSpace(*in.Category)
		}
		if in.Price != nil {
			updates["price"] = *in.Price
		}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		if in.IsAvailable != nil {
			updates["is_available"] = *in.IsAvailable
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
