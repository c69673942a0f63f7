package models

import "time"

// Transaction types for the cash ledger.
const (
	TransactionSpend   = "spend"
	TransactionEarning = "earning"
)

// Transaction is a cash ledger entry, either an expense or income.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"not null" json:"type"` // spend | earning
	Title     string    `gorm:"not null" json:"title"`
	Price     float64   `gorm:"not null" json:"price"`
	Note      string    `json:"note"`
	Date      string    `gorm:"not null;index" json:"date"` // YYYY-MM-DD
	AddedBy   string    `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
