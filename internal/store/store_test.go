package store

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Sale{}, &models.Transaction{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testSale(invoiceID, date string) *models.Sale {
	return &models.Sale{
		BuyerName: "Buyer",
		InvoiceID: invoiceID,
		Date:      date,
		Items:     models.SaleItems{{SaltType: "coarse", Quantity: 2, PricePerTon: 100}},
		Total:     200,
	}
}

func TestInsertAssignsID(t *testing.T) {
	db := setupTestDB(t)
	s := testSale("INV-0001", "2025-01-10")
	if err := Insert(db, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if s.ID == 0 {
		t.Fatalf("expected assigned id")
	}
}

func TestInsertUniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	if err := Insert(db, testSale("INV-0001", "2025-01-10")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := Insert(db, testSale("INV-0001", "2025-01-11"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}

	// The surviving row is the first one.
	var sales []models.Sale
	if err := db.Find(&sales).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(sales) != 1 || sales[0].Date != "2025-01-10" {
		t.Fatalf("unexpected rows after conflict: %#v", sales)
	}
}

func TestReplaceMissingRow(t *testing.T) {
	db := setupTestDB(t)
	err := Replace(db, 7, testSale("INV-0001", "2025-01-10"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestReplaceOverwritesAndReloads(t *testing.T) {
	db := setupTestDB(t)
	s := testSale("INV-0001", "2025-01-10")
	if err := Insert(db, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	repl := testSale("INV-0002", "2025-01-12")
	repl.ReceiverName = "Gatehouse"
	if err := Replace(db, s.ID, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if repl.ID != s.ID {
		t.Fatalf("replace must keep the id: %d != %d", repl.ID, s.ID)
	}
	if repl.InvoiceID != "INV-0002" || repl.ReceiverName != "Gatehouse" {
		t.Fatalf("reloaded record incomplete: %#v", repl)
	}
	if !repl.CreatedAt.Equal(s.CreatedAt) {
		t.Fatalf("replace must preserve created_at")
	}
}

func TestReplaceIgnoresIDInRecord(t *testing.T) {
	db := setupTestDB(t)
	s := testSale("INV-0001", "2025-01-10")
	if err := Insert(db, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	// A stale id inside the record must not change which row is matched.
	repl := testSale("INV-0002", "2025-01-12")
	repl.ID = s.ID + 98
	if err := Replace(db, s.ID, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if repl.ID != s.ID {
		t.Fatalf("expected reload with id %d, got %d", s.ID, repl.ID)
	}
	if repl.InvoiceID != "INV-0002" {
		t.Fatalf("row not replaced: %#v", repl)
	}
	var count int64
	if err := db.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row got %d", count)
	}
}

func TestReplaceUniqueViolation(t *testing.T) {
	db := setupTestDB(t)
	if err := Insert(db, testSale("INV-0001", "2025-01-10")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	second := testSale("INV-0002", "2025-01-11")
	if err := Insert(db, second); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := Replace(db, second.ID, testSale("INV-0001", "2025-01-11"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict got %v", err)
	}
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	s := testSale("INV-0001", "2025-01-10")
	if err := Insert(db, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := Delete[models.Sale](db, s.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := Delete[models.Sale](db, s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestListByMonth(t *testing.T) {
	db := setupTestDB(t)
	dates := []string{"2025-03-01", "2025-03-31", "2025-04-01", "2024-03-15"}
	for _, d := range dates {
		tx := models.Transaction{Type: models.TransactionSpend, Title: "t", Price: 10, Date: d}
		if err := Insert(db, &tx); err != nil {
			t.Fatalf("insert %s: %v", d, err)
		}
	}

	got, err := ListByMonth[models.Transaction](db, "date", 3, 2025)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows got %d", len(got))
	}

	// Out-of-range month disables the filter.
	all, err := ListByMonth[models.Transaction](db, "date", 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != len(dates) {
		t.Fatalf("expected %d rows got %d", len(dates), len(all))
	}
}

func TestLatest(t *testing.T) {
	db := setupTestDB(t)
	if _, err := Latest[models.Sale](db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty table: expected ErrNotFound")
	}
	for _, id := range []string{"INV-0001", "INV-0002"} {
		if err := Insert(db, testSale(id, "2025-01-10")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	last, err := Latest[models.Sale](db)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if last.InvoiceID != "INV-0002" {
		t.Fatalf("expected most recent insert, got %s", last.InvoiceID)
	}
}
