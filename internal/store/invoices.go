package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

// PurgeInvoiceRange deletes all invoices purchased in [start, end] together
// with their details and payments. Children go first (details, then payments,
// then invoices) because the schema does not rely on cascading deletes. All
// three deletes are attempted even when an earlier one fails; the combined
// error is returned so the caller can log it, but invoice cloning proceeds
// regardless, accepting the duplicate-row risk of a partial purge.
func (s *Store) PurgeInvoiceRange(ctx context.Context, start, end time.Time) (int, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("purchase_date >= ? AND purchase_date <= ?", start, end).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var errs []error
	if err := s.db.WithContext(ctx).Where("invoice_id IN ?", ids).Delete(&models.InvoiceDetail{}).Error; err != nil {
		errs = append(errs, err)
	}
	if err := s.db.WithContext(ctx).Where("invoice_id IN ?", ids).Delete(&models.InvoicePayment{}).Error; err != nil {
		errs = append(errs, err)
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Invoice{}).Error; err != nil {
		errs = append(errs, err)
	}

	return len(ids), errors.Join(errs...)
}

// LookupCustomerID resolves a KiotViet customer id to the local row id.
// Returns nil (not an error) when the customer is not mirrored.
func (s *Store) LookupCustomerID(ctx context.Context, kiotvietID int64) (*uint, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Select("id").
		Where("kiotviet_id = ?", kiotvietID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer.ID, nil
}

// LookupProductIDs resolves a set of KiotViet product ids to local row ids in
// one query. Ids with no mirrored product are simply absent from the map.
func (s *Store) LookupProductIDs(ctx context.Context, kiotvietIDs []int64) (map[int64]uint, error) {
	out := make(map[int64]uint, len(kiotvietIDs))
	if len(kiotvietIDs) == 0 {
		return out, nil
	}

	var products []models.Product
	err := s.db.WithContext(ctx).
		Select("id", "kiotviet_id").
		Where("kiotviet_id IN ?", kiotvietIDs).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		out[p.KiotvietID] = p.ID
	}
	return out, nil
}

// InsertInvoice writes an invoice and its children as three dependent inserts:
// the parent row first so its id exists, then details, then payments. Any
// failure aborts the remaining inserts and surfaces as a WriteError.
func (s *Store) InsertInvoice(ctx context.Context, inv *models.Invoice, details []models.InvoiceDetail, payments []models.InvoicePayment) error {
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return &WriteError{Table: models.Invoice{}.TableName(), Err: err}
	}

	if len(details) > 0 {
		for i := range details {
			details[i].InvoiceID = inv.ID
		}
		if err := s.db.WithContext(ctx).Create(&details).Error; err != nil {
			return &WriteError{Table: models.InvoiceDetail{}.TableName(), Err: err}
		}
	}

	if len(payments) > 0 {
		for i := range payments {
			payments[i].InvoiceID = inv.ID
		}
		if err := s.db.WithContext(ctx).Create(&payments).Error; err != nil {
			return &WriteError{Table: models.InvoicePayment{}.TableName(), Err: err}
		}
	}

	return nil
}
