// Package syncer composes the KiotViet fetcher, the record mappers, and the
// destination store into the sync operations callers actually run: full
// product/customer syncs and month/year invoice cloning. Everything is
// sequential; concurrent runs against the same tables must be serialized by
// the caller.
package syncer

import (
	"context"
	"log"
	"time"

	"github.com/gaolamthuy/kiotviet-sync/internal/kiotviet"
	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

// Fetcher is the slice of the KiotViet client the syncer needs
type Fetcher interface {
	FetchAllProducts(ctx context.Context, token string) ([]kiotviet.Product, error)
	FetchAllCustomers(ctx context.Context, token string) ([]kiotviet.Customer, error)
	FetchInvoicesForRange(ctx context.Context, token string, start, end time.Time, pageSize, currentItem int) (*kiotviet.InvoiceList, error)
}

// Storage is the slice of the destination store the syncer needs
type Storage interface {
	KiotVietToken(ctx context.Context) (string, error)
	ReplaceProducts(ctx context.Context, rows []models.Product) (int, error)
	UpsertCustomers(ctx context.Context, rows []models.Customer) (int, error)
	PurgeInvoiceRange(ctx context.Context, start, end time.Time) (int, error)
	LookupCustomerID(ctx context.Context, kiotvietID int64) (*uint, error)
	LookupProductIDs(ctx context.Context, kiotvietIDs []int64) (map[int64]uint, error)
	InsertInvoice(ctx context.Context, inv *models.Invoice, details []models.InvoiceDetail, payments []models.InvoicePayment) error
}

// Service runs sync operations against one API client and one store
type Service struct {
	api   Fetcher
	store Storage
	now   func() time.Time
}

// New creates a sync service
func New(api Fetcher, store Storage) *Service {
	return &Service{api: api, store: store, now: time.Now}
}

// SyncProducts fetches every product and reloads the product table. Any fetch
// or write error aborts the whole sync; there is no partial-success mode.
func (s *Service) SyncProducts(ctx context.Context) (int, error) {
	token, err := s.store.KiotVietToken(ctx)
	if err != nil {
		return 0, err
	}

	products, err := s.api.FetchAllProducts(ctx, token)
	if err != nil {
		return 0, err
	}

	return s.ImportProducts(ctx, products)
}

// ImportProducts maps fetched products to rows and reloads the product table
func (s *Service) ImportProducts(ctx context.Context, products []kiotviet.Product) (int, error) {
	log.Printf("🚀 Importing %d products...", len(products))

	now := s.now().UTC()
	rows := make([]models.Product, 0, len(products))
	for _, p := range products {
		rows = append(rows, mapProduct(p, now))
	}

	return s.store.ReplaceProducts(ctx, rows)
}

// SyncCustomers fetches every customer and upserts them into the customer
// table. Same failure contract as SyncProducts.
func (s *Service) SyncCustomers(ctx context.Context) (int, error) {
	token, err := s.store.KiotVietToken(ctx)
	if err != nil {
		return 0, err
	}

	customers, err := s.api.FetchAllCustomers(ctx, token)
	if err != nil {
		return 0, err
	}

	return s.ImportCustomers(ctx, customers)
}

// ImportCustomers maps fetched customers to rows and upserts them. The fetch
// response can carry the same customer twice; rows are de-duplicated by
// external id before the write, later occurrence winning, so a single batch
// never conflicts with itself on the upsert key.
func (s *Service) ImportCustomers(ctx context.Context, customers []kiotviet.Customer) (int, error) {
	log.Printf("🚀 Importing %d customers...", len(customers))

	now := s.now().UTC()
	seen := make(map[int64]int, len(customers))
	rows := make([]models.Customer, 0, len(customers))
	for _, c := range customers {
		row := mapCustomer(c, now)
		if idx, ok := seen[c.ID]; ok {
			rows[idx] = row
			continue
		}
		seen[c.ID] = len(rows)
		rows = append(rows, row)
	}

	if dups := len(customers) - len(rows); dups > 0 {
		log.Printf("🔍 Found %d duplicate customer records", dups)
	}

	return s.store.UpsertCustomers(ctx, rows)
}
