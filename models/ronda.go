package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ronda is the open tab of a table from the first order until payment.
//
// ActiveTableID mirrors TableID while the ronda is active and is NULL once it is
// closed. Its unique index is what keeps a table from holding two active rondas.
type Ronda struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TableID       uint       `gorm:"not null;index" json:"table_id"`
	Table         *Table     `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table,omitempty"`
	TableGroupID  *uint      `gorm:"index" json:"table_group_id"`
	IsActive      bool       `gorm:"not null;default:true;index" json:"is_active"`
	ActiveTableID *uint      `gorm:"uniqueIndex:idx_rondas_active_table" json:"-"`
	Orders        []Order    `gorm:"foreignKey:RondaID" json:"orders,omitempty"`
	Payment       *Payment   `gorm:"foreignKey:RondaID" json:"payment,omitempty"`
	OpenedAt      time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt      *time.Time `json:"closed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Total sums the snapshotted prices of every item in the ronda. Orders and
// their items must be loaded.
func (r *Ronda) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Orders {
		total = total.Add(r.Orders[i].Total())
	}
	return total
}
