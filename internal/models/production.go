package models

import "time"

// Production is a record of finished salt produced on a given day.
type Production struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SaltType  string    `gorm:"not null" json:"saltType"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Date      string    `gorm:"not null;index" json:"date"` // YYYY-MM-DD
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
