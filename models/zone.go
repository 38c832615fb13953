package models

import "time"

// Zone is a named area of the floor plan. Tables keep a nullable reference to it.
type Zone struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Color     string    `gorm:"type:varchar(7);not null" json:"color"`
	Capacity  int       `gorm:"not null;default:20" json:"capacity"`
	Width     int       `gorm:"not null;default:600" json:"width"`
	Height    int       `gorm:"not null;default:400" json:"height"`
	Tables    []Table   `gorm:"foreignKey:ZoneID" json:"tables,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
