package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is written once, when a ronda is closed, and never modified.
type Payment struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	RondaID    uint            `gorm:"not null;uniqueIndex" json:"ronda_id"`
	Ronda      *Ronda          `gorm:"foreignKey:RondaID" json:"ronda,omitempty"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	SplitType  SplitType       `gorm:"type:varchar(20);not null;default:'SINGLE'" json:"split_type"`
	ClosedByID *uint           `json:"closed_by_id"`
	CreatedAt  time.Time       `json:"created_at"`
}
