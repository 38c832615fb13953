package models

import "time"

// TableGroup merges several physical tables into one billing unit.
type TableGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	Tables    []Table   `gorm:"foreignKey:TableGroupID" json:"tables,omitempty"`
	Rondas    []Ronda   `gorm:"foreignKey:TableGroupID" json:"rondas,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
