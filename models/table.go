package models

import "time"

type Table struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Number       int         `gorm:"uniqueIndex;not null" json:"number"`
	Capacity     int         `gorm:"not null" json:"capacity"`
	Status       TableStatus `gorm:"type:varchar(20);not null;default:'LIBRE';index" json:"status"`
	X            float64     `gorm:"not null;default:0" json:"x"`
	Y            float64     `gorm:"not null;default:0" json:"y"`
	ZoneID       *uint       `gorm:"index" json:"zone_id"`
	Zone         *Zone       `gorm:"foreignKey:ZoneID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"zone,omitempty"`
	TableGroupID *uint       `gorm:"index" json:"table_group_id"`
	TableGroup   *TableGroup `gorm:"foreignKey:TableGroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"table_group,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
