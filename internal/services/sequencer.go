// Package services holds business logic that does not belong to a single
// HTTP handler.
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/models"
	"github.com/corarez/salt-factory-app-sub000/internal/store"
)

const invoicePrefix = "INV-"

// FormatInvoiceID renders a sequence number as INV-#### (zero-padded).
func FormatInvoiceID(n int) string {
	return fmt.Sprintf("%s%04d", invoicePrefix, n)
}

// NextInvoiceID derives the invoice id the next Sale should use, based only
// on the most recently inserted Sale. The counter restarts at 1 every
// calendar year, and when the previous invoice id has a non-numeric suffix.
//
// The value is advisory pre-fill: the insert path does not re-derive it, so
// two concurrent readers can both see the same id. The unique index on
// sales.invoice_id rejects the second insert in that case.
func NextInvoiceID(db *gorm.DB, now time.Time) (string, error) {
	last, err := store.Latest[models.Sale](db)
	if errors.Is(err, store.ErrNotFound) {
		return FormatInvoiceID(1), nil
	}
	if err != nil {
		return "", err
	}
	next := 1
	if invoiceYear(last.Date) == now.Year() {
		suffix := strings.TrimPrefix(last.InvoiceID, invoicePrefix)
		if n, perr := strconv.Atoi(suffix); perr == nil {
			next = n + 1
		}
	}
	return FormatInvoiceID(next), nil
}

// invoiceYear extracts the calendar year of a YYYY-MM-DD date string.
// An unparseable date never matches the current year, which resets the
// sequence to 1.
func invoiceYear(date string) int {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	return t.Year()
}
