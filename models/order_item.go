package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     *Order   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint     `gorm:"not null;index" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Notes     string   `gorm:"type:text" json:"notes"`
	// PriceAtSnapshot is copied from the product when the order is taken and is
	// the only price used for billing afterwards.
	PriceAtSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_at_snapshot"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtSnapshot.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
