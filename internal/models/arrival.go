package models

import "time"

// Arrival is a truckload of raw salt received at the factory.
// Monetary totals are supplied by the client and stored as given.
type Arrival struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	ArrivedDate   string    `gorm:"not null;index" json:"arrivedDate"` // YYYY-MM-DD
	PricePerTon   float64   `json:"pricePerTon"`
	PlaceArrived  string    `json:"placeArrived"`
	TruckDriver   string    `json:"truckDriver"`
	InvoiceID     string    `gorm:"uniqueIndex;not null" json:"invoiceId"` // INV-####
	InvoiceDate   string    `json:"invoiceDate"`
	SenderName    string    `json:"senderName"`
	FeePerTon     float64   `json:"feePerTon"`
	TotalFee      float64   `json:"totalFee"`      // feePerTon * quantity
	TotalTonPrice float64   `json:"totalTonPrice"` // pricePerTon * quantity
	TotalPrice    float64   `json:"totalPrice"`    // totalFee + totalTonPrice
	Status        string    `json:"status"`
	AddedBy       string    `json:"addedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
