package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// SaleItem is one line of a sale invoice.
type SaleItem struct {
	SaltType    string  `json:"saltType"`
	Quantity    float64 `json:"quantity"`
	PricePerTon float64 `json:"pricePerTon"`
}

// SaleItems is stored as a JSON text column. Order and numeric values
// round-trip unchanged.
type SaleItems []SaleItem

func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *SaleItems) Scan(value any) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("sale items: unsupported column type")
	}
}

// Sale is an invoice covering one or more line items sold to a buyer.
// The total is supplied by the client and stored as given.
type Sale struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	BuyerName        string    `gorm:"not null" json:"buyerName"`
	InvoiceID        string    `gorm:"uniqueIndex;not null" json:"invoiceId"` // INV-####
	Date             string    `gorm:"not null;index" json:"date"`            // YYYY-MM-DD
	Items            SaleItems `gorm:"type:text" json:"items"`
	TruckDriverName  string    `json:"truckDriverName"`
	TruckNumber      string    `json:"truckNumber"`
	TruckDriverPhone string    `json:"truckDriverPhone"`
	ReceiverName     string    `json:"receiverName"`
	OldDebt          float64   `json:"oldDebt"`
	Total            float64   `json:"total"` // sum of item lines + oldDebt
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
