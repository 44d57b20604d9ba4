package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

func newTestStore(t *testing.T, batchSize int) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// The in-memory database vanishes with its connection
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.SystemSetting{},
		&models.Product{},
		&models.Customer{},
		&models.Invoice{},
		&models.InvoiceDetail{},
		&models.InvoicePayment{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	st := New(db, Config{
		BatchSize:    batchSize,
		WriteLimiter: rate.NewLimiter(rate.Inf, 1),
	})
	return st, db
}

func testProducts(n int) []models.Product {
	rows := make([]models.Product, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Product{
			KiotvietID:   int64(100 + i),
			Code:         fmt.Sprintf("SP%06d", 100+i),
			Name:         "Gao Lam Thuy",
			Images:       []byte("[]"),
			LastSyncedAt: time.Now().UTC(),
		})
	}
	return rows
}

func TestKiotVietToken_Missing(t *testing.T) {
	st, _ := newTestStore(t, 100)

	_, err := st.KiotVietToken(context.Background())
	if err == nil {
		t.Fatal("expected error for missing token row")
	}

	var lookupErr *ConfigLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("error %T is not *ConfigLookupError", err)
	}
	if !errors.Is(err, ErrTokenNotFound) {
		t.Error("error does not wrap ErrTokenNotFound")
	}
}

func TestKiotVietToken(t *testing.T) {
	st, db := newTestStore(t, 100)

	rows := []models.SystemSetting{
		{Title: "smtp", Value: "unrelated"},
		{Title: "kiotviet", Value: "bearer-abc123"},
	}
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	token, err := st.KiotVietToken(context.Background())
	if err != nil {
		t.Fatalf("KiotVietToken: %v", err)
	}
	if token != "bearer-abc123" {
		t.Errorf("token = %q", token)
	}
}

func TestReplaceProducts(t *testing.T) {
	st, db := newTestStore(t, 100)

	old := []models.Product{{KiotvietID: 1, Code: "OLD001", Images: []byte("[]")}}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	n, err := st.ReplaceProducts(context.Background(), testProducts(5))
	if err != nil {
		t.Fatalf("ReplaceProducts: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}

	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 5 {
		t.Errorf("table holds %d rows, want 5", count)
	}

	var stale int64
	db.Model(&models.Product{}).Where("code = ?", "OLD001").Count(&stale)
	if stale != 0 {
		t.Error("old rows survived the reload")
	}
}

func TestReplaceProducts_BatchFailure(t *testing.T) {
	// Ten rows at batch size two; a duplicate external id inside the third
	// batch violates the unique index. The first two batches must stay
	// written and the error must name the failing batch.
	st, db := newTestStore(t, 2)

	rows := testProducts(10)
	rows[5].KiotvietID = rows[4].KiotvietID

	n, err := st.ReplaceProducts(context.Background(), rows)
	if err == nil {
		t.Fatal("expected a batch failure")
	}

	var writeErr *WriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("error %T is not *WriteError", err)
	}
	if writeErr.Batch != 3 {
		t.Errorf("Batch = %d, want 3", writeErr.Batch)
	}
	if writeErr.Table != "kiotviet_products" {
		t.Errorf("Table = %q", writeErr.Table)
	}

	if n != 4 {
		t.Errorf("inserted = %d, want 4", n)
	}
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count != 4 {
		t.Errorf("table holds %d rows, want the 4 from completed batches", count)
	}
}

func TestUpsertCustomers(t *testing.T) {
	st, db := newTestStore(t, 100)

	first := []models.Customer{{KiotvietID: 7, Code: "KH000007", Name: "Nguyen Van A", Debt: 50000}}
	if _, err := st.UpsertCustomers(context.Background(), first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	var seeded models.Customer
	if err := db.Where("kiotviet_id = ?", 7).First(&seeded).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}

	second := []models.Customer{{KiotvietID: 7, Code: "KH000007", Name: "Nguyen Van A (moved)", Debt: 120000}}
	n, err := st.UpsertCustomers(context.Background(), second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	if count != 1 {
		t.Fatalf("table holds %d rows, want 1", count)
	}

	var got models.Customer
	if err := db.Where("kiotviet_id = ?", 7).First(&got).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("local id changed across upserts: %d -> %d", seeded.ID, got.ID)
	}
	if got.Name != "Nguyen Van A (moved)" || got.Debt != 120000 {
		t.Errorf("row not updated: name %q, debt %v", got.Name, got.Debt)
	}
}

func seedInvoice(t *testing.T, db *gorm.DB, code string, purchased time.Time, detailCount int) uint {
	t.Helper()

	inv := models.Invoice{KiotvietID: time.Now().UnixNano(), Code: code, PurchaseDate: &purchased}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed invoice %s: %v", code, err)
	}
	for i := 0; i < detailCount; i++ {
		d := models.InvoiceDetail{InvoiceID: inv.ID, KiotvietProductID: int64(i + 1), Quantity: 1}
		if err := db.Create(&d).Error; err != nil {
			t.Fatalf("seed detail: %v", err)
		}
	}
	p := models.InvoicePayment{InvoiceID: inv.ID, Amount: 10000, Method: "Cash"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return inv.ID
}

func TestPurgeInvoiceRange(t *testing.T) {
	st, db := newTestStore(t, 100)

	march := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	may := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	seedInvoice(t, db, "HD0001", march, 2)
	seedInvoice(t, db, "HD0002", march.AddDate(0, 0, 5), 1)
	keepID := seedInvoice(t, db, "HD0003", may, 1)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	n, err := st.PurgeInvoiceRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("PurgeInvoiceRange: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d invoices, want 2", n)
	}

	var invoices, details, payments int64
	db.Model(&models.Invoice{}).Count(&invoices)
	db.Model(&models.InvoiceDetail{}).Count(&details)
	db.Model(&models.InvoicePayment{}).Count(&payments)
	if invoices != 1 || details != 1 || payments != 1 {
		t.Errorf("leftover rows = %d invoices, %d details, %d payments; want 1 of each",
			invoices, details, payments)
	}

	var kept models.Invoice
	if err := db.First(&kept, keepID).Error; err != nil {
		t.Errorf("out-of-range invoice was purged: %v", err)
	}
}

func TestPurgeInvoiceRange_Empty(t *testing.T) {
	st, _ := newTestStore(t, 100)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	n, err := st.PurgeInvoiceRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("PurgeInvoiceRange: %v", err)
	}
	if n != 0 {
		t.Errorf("purged %d invoices from an empty table", n)
	}
}

func TestInsertInvoice(t *testing.T) {
	st, db := newTestStore(t, 100)

	purchased := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	inv := models.Invoice{KiotvietID: 9001, Code: "HD009001", PurchaseDate: &purchased, Total: 54000}
	details := []models.InvoiceDetail{
		{KiotvietProductID: 101, Quantity: 2, SubTotal: 36000},
		{KiotvietProductID: 102, Quantity: 1, SubTotal: 18000},
	}
	payments := []models.InvoicePayment{{KiotvietPaymentID: 1, Amount: 54000, Method: "Cash"}}

	if err := st.InsertInvoice(context.Background(), &inv, details, payments); err != nil {
		t.Fatalf("InsertInvoice: %v", err)
	}
	if inv.ID == 0 {
		t.Fatal("invoice id not populated")
	}

	var gotDetails []models.InvoiceDetail
	if err := db.Where("invoice_id = ?", inv.ID).Find(&gotDetails).Error; err != nil {
		t.Fatalf("reload details: %v", err)
	}
	if len(gotDetails) != 2 {
		t.Errorf("stored %d details, want 2", len(gotDetails))
	}

	var gotPayments []models.InvoicePayment
	if err := db.Where("invoice_id = ?", inv.ID).Find(&gotPayments).Error; err != nil {
		t.Fatalf("reload payments: %v", err)
	}
	if len(gotPayments) != 1 {
		t.Errorf("stored %d payments, want 1", len(gotPayments))
	}
}

func TestLookupCustomerID(t *testing.T) {
	st, db := newTestStore(t, 100)

	row := models.Customer{KiotvietID: 500, Code: "KH000500", Name: "Nguyen Van A"}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := st.LookupCustomerID(context.Background(), 500)
	if err != nil {
		t.Fatalf("LookupCustomerID: %v", err)
	}
	if got == nil || *got != row.ID {
		t.Errorf("got %v, want %d", got, row.ID)
	}

	missing, err := st.LookupCustomerID(context.Background(), 999)
	if err != nil {
		t.Fatalf("LookupCustomerID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("got %v for an unmirrored customer, want nil", missing)
	}
}

func TestLookupProductIDs(t *testing.T) {
	st, db := newTestStore(t, 100)

	rows := testProducts(3)
	if err := db.Create(&rows).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := st.LookupProductIDs(context.Background(), []int64{100, 102, 999})
	if err != nil {
		t.Fatalf("LookupProductIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("resolved %d ids, want 2", len(got))
	}
	if got[100] != rows[0].ID || got[102] != rows[2].ID {
		t.Errorf("map = %v", got)
	}
	if _, ok := got[999]; ok {
		t.Error("unmirrored id present in the map")
	}

	empty, err := st.LookupProductIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("LookupProductIDs empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %v for an empty id list", empty)
	}
}
