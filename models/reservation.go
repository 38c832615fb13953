package models

import "time"

type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	TableID         uint              `gorm:"not null;index:idx_reservations_table_time" json:"table_id"`
	Table           *Table            `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"table,omitempty"`
	CustomerName    string            `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerPhone   *string           `gorm:"type:varchar(50)" json:"customer_phone"`
	PartySize       int               `gorm:"not null" json:"party_size"`
	ReservationTime time.Time         `gorm:"not null;index:idx_reservations_table_time" json:"reservation_time"`
	Duration        int               `gorm:"not null;default:120" json:"duration"`
	Notes           *string           `gorm:"type:text" json:"notes"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedByID     uint              `gorm:"not null" json:"created_by_id"`
	CreatedBy       *User             `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"created_by,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// EndTime is the end of the slot the reservation occupies.
func (r *Reservation) EndTime() time.Time {
	return r.ReservationTime.Add(time.Duration(r.Duration) * time.Minute)
}
