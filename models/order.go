package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	RondaID   uint        `gorm:"not null;index" json:"ronda_id"`
	Ronda     *Ronda      `gorm:"foreignKey:RondaID" json:"ronda,omitempty"`
	MozoID    uint        `gorm:"not null;index" json:"mozo_id"`
	Mozo      *User       `gorm:"foreignKey:MozoID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"mozo,omitempty"`
	Status    OrderStatus `gorm:"type:varchar(20);not null;default:'PENDIENTE';index" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}
