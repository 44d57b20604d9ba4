package store

import (
	"context"
	"log"

	"gorm.io/gorm/clause"

	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

// ReplaceProducts wipes kiotviet_products and reloads it from rows, inserting
// in fixed-size batches. The two phases are not wrapped in a transaction: a
// batch failure aborts the remaining batches and leaves the rows written so
// far in place. Returns the number of rows inserted.
func (s *Store) ReplaceProducts(ctx context.Context, rows []models.Product) (int, error) {
	log.Println("🧹 Clearing product table...")

	// Delete-all-except-sentinel; the destination disallows unconditional deletes.
	if err := s.db.WithContext(ctx).Where("id <> ?", 0).Delete(&models.Product{}).Error; err != nil {
		return 0, &WriteError{Table: models.Product{}.TableName(), Err: err}
	}

	inserted := 0
	for i, batch := range chunk(rows, s.batchSize) {
		if err := s.limiter.Wait(ctx); err != nil {
			return inserted, err
		}
		if err := s.db.WithContext(ctx).Create(&batch).Error; err != nil {
			return inserted, &WriteError{Table: models.Product{}.TableName(), Batch: i + 1, Err: err}
		}
		inserted += len(batch)
		log.Printf("💾 Products batch %d: %d/%d inserted", i+1, inserted, len(rows))
	}

	log.Printf("✅ Product import complete: %d products", inserted)
	return inserted, nil
}

// UpsertCustomers writes rows in fixed-size batches with insert-or-update
// semantics keyed on kiotviet_id. Customers are never wiped because invoices
// hold foreign keys into this table. Returns the number of rows written.
func (s *Store) UpsertCustomers(ctx context.Context, rows []models.Customer) (int, error) {
	written := 0
	for i, batch := range chunk(rows, s.batchSize) {
		if err := s.limiter.Wait(ctx); err != nil {
			return written, err
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kiotviet_id"}},
			UpdateAll: true,
		}).Create(&batch).Error
		if err != nil {
			return written, &WriteError{Table: models.Customer{}.TableName(), Batch: i + 1, Err: err}
		}
		written += len(batch)
		log.Printf("💾 Customers batch %d: %d/%d written", i+1, written, len(rows))
	}

	log.Printf("✅ Customer import complete: %d customers", written)
	return written, nil
}

// chunk splits rows into consecutive slices of at most size elements
func chunk[T any](rows []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		out = append(out, rows[start:end])
	}
	return out
}
