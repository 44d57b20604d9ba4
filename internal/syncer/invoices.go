package syncer

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/gaolamthuy/kiotviet-sync/internal/kiotviet"
	"github.com/gaolamthuy/kiotviet-sync/internal/models"
)

const (
	invoicePageSize        = 100
	maxConsecutiveFailures = 5
	maxDetailedLogs        = 10
)

// SaveInvoice writes one fetched invoice with its details and payments. The
// local customer and product references are resolved by external id; lookups
// that fail or miss degrade to NULL references instead of erroring, so an
// invoice can always be saved before its catalog is mirrored.
func (s *Service) SaveInvoice(ctx context.Context, inv kiotviet.Invoice, verbose bool) error {
	if verbose {
		log.Printf("🔍 Processing invoice %s (KiotViet ID %d)", inv.Code, inv.ID)
	}

	var customerID *uint
	if inv.CustomerID != nil {
		if id, err := s.store.LookupCustomerID(ctx, *inv.CustomerID); err == nil {
			customerID = id
		}
		if verbose && customerID != nil {
			log.Printf("✅ Resolved customer %d -> local id %d", *inv.CustomerID, *customerID)
		}
	}

	row := mapInvoice(inv, customerID, s.now().UTC())

	var details []models.InvoiceDetail
	if len(inv.InvoiceDetails) > 0 {
		productIDs := make([]int64, 0, len(inv.InvoiceDetails))
		for _, d := range inv.InvoiceDetails {
			productIDs = append(productIDs, d.ProductID)
		}
		idMap, err := s.store.LookupProductIDs(ctx, productIDs)
		if err != nil {
			idMap = nil
		}

		details = make([]models.InvoiceDetail, 0, len(inv.InvoiceDetails))
		for _, d := range inv.InvoiceDetails {
			var productID *uint
			if local, ok := idMap[d.ProductID]; ok {
				id := local
				productID = &id
			}
			details = append(details, mapInvoiceDetail(d, productID))
		}
	}

	payments := make([]models.InvoicePayment, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, mapPayment(p))
	}

	return s.store.InsertInvoice(ctx, &row, details, payments)
}

// CloneInvoicesForYear purges the year's mirrored invoices and re-fetches them
// month by month. A purge failure is logged and the clone proceeds anyway
// (accepting possible duplicate rows after a partial purge); a month whose
// fetch fails is recorded and the next month still runs. Per-invoice failures
// are isolated; see processPage for the circuit breaker.
func (s *Service) CloneInvoicesForYear(ctx context.Context, year int) (*CloneResult, error) {
	if year <= 0 {
		return nil, &InvalidRangeError{Year: year}
	}

	res := &CloneResult{RunID: uuid.NewString()}
	log.Printf("🔄 Invoice clone run %s: year %d", res.RunID, year)

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	s.purgeRange(ctx, start, end)

	token, err := s.store.KiotVietToken(ctx)
	if err != nil {
		return nil, err
	}

	for month := 1; month <= 12; month++ {
		mStart, mEnd := monthRange(year, month)

		probe, err := s.api.FetchInvoicesForRange(ctx, token, mStart, mEnd, 1, 0)
		if err != nil {
			log.Printf("❌ Month %d/%d: count probe failed: %v", month, year, err)
			res.Errors = append(res.Errors, CloneError{Month: month, Year: year, Message: err.Error()})
			continue
		}
		if probe.Total == 0 {
			log.Printf("ℹ️ Month %d/%d: no invoices, skipping", month, year)
			continue
		}

		log.Printf("🔄 Month %d/%d: %d invoices to process", month, year, probe.Total)
		if err := s.cloneRange(ctx, token, mStart, mEnd, res); err != nil {
			log.Printf("❌ Month %d/%d: %v", month, year, err)
			res.Errors = append(res.Errors, CloneError{Month: month, Year: year, Message: err.Error()})
		}
	}

	s.logSummary(res)
	return res, nil
}

// CloneInvoicesForMonth runs the same clone scoped to a single month. The
// range is validated up front; nothing is fetched or written for a month
// outside [1,12].
func (s *Service) CloneInvoicesForMonth(ctx context.Context, year, month int) (*CloneResult, error) {
	if year <= 0 || month < 1 || month > 12 {
		return nil, &InvalidRangeError{Year: year, Month: month}
	}

	res := &CloneResult{RunID: uuid.NewString()}
	log.Printf("🔄 Invoice clone run %s: month %d/%d", res.RunID, month, year)

	start, end := monthRange(year, month)
	s.purgeRange(ctx, start, end)

	token, err := s.store.KiotVietToken(ctx)
	if err != nil {
		return nil, err
	}

	probe, err := s.api.FetchInvoicesForRange(ctx, token, start, end, 1, 0)
	if err != nil {
		log.Printf("❌ Month %d/%d: count probe failed: %v", month, year, err)
		res.Errors = append(res.Errors, CloneError{Month: month, Year: year, Message: err.Error()})
		s.logSummary(res)
		return res, nil
	}
	if probe.Total == 0 {
		log.Printf("ℹ️ Month %d/%d: no invoices, skipping", month, year)
		s.logSummary(res)
		return res, nil
	}

	log.Printf("🔄 Month %d/%d: %d invoices to process", month, year, probe.Total)
	if err := s.cloneRange(ctx, token, start, end, res); err != nil {
		log.Printf("❌ Month %d/%d: %v", month, year, err)
		res.Errors = append(res.Errors, CloneError{Month: month, Year: year, Message: err.Error()})
	}

	s.logSummary(res)
	return res, nil
}

// purgeRange removes previously mirrored invoices for the range. Errors are
// logged, not propagated: the clone re-fetches and re-inserts regardless,
// which can leave duplicate rows after a partial purge. Accepted limitation.
func (s *Service) purgeRange(ctx context.Context, start, end time.Time) {
	log.Printf("🧹 Purging mirrored invoices from %s to %s...",
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	n, err := s.store.PurgeInvoiceRange(ctx, start, end)
	if err != nil {
		log.Printf("⚠️ Purge incomplete: %v", err)
		return
	}
	if n > 0 {
		log.Printf("✅ Removed %d old invoices", n)
	}
}

// cloneRange pages through the range and saves every invoice on every page.
// The reported total from each page drives the loop; an empty page ends it
// early. A page fetch error aborts the range.
func (s *Service) cloneRange(ctx context.Context, token string, start, end time.Time, res *CloneResult) error {
	currentItem := 0
	for {
		page, err := s.api.FetchInvoicesForRange(ctx, token, start, end, invoicePageSize, currentItem)
		if err != nil {
			return err
		}
		if len(page.Data) == 0 {
			return nil
		}

		s.processPage(ctx, page.Data, res)

		currentItem += invoicePageSize
		if currentItem >= page.Total {
			return nil
		}
	}
}

// processPage folds over one page of invoices, accumulating successes and
// failures into res. Five consecutive save failures trip the breaker and drop
// the rest of this page; the caller still continues with the next page or
// month.
func (s *Service) processPage(ctx context.Context, invoices []kiotviet.Invoice, res *CloneResult) {
	consecutive := 0
	for _, inv := range invoices {
		verbose := res.Success < maxDetailedLogs
		if err := s.SaveInvoice(ctx, inv, verbose); err != nil {
			res.Failed++
			consecutive++
			res.Errors = append(res.Errors, CloneError{
				InvoiceID: inv.ID,
				Code:      inv.Code,
				Message:   err.Error(),
			})
			if consecutive >= maxConsecutiveFailures {
				log.Printf("❌ %d consecutive failures, skipping the rest of this page", maxConsecutiveFailures)
				return
			}
			continue
		}

		res.Success++
		consecutive = 0
		if res.Success%10 == 0 {
			log.Printf("📈 Progress: %d saved, %d failed", res.Success, res.Failed)
		}
	}
}

func (s *Service) logSummary(res *CloneResult) {
	log.Printf("🎉 Clone run %s finished: %d saved, %d failed", res.RunID, res.Success, res.Failed)
	for i, e := range res.Errors {
		if i >= 5 {
			log.Printf("⚠️ ...and %d more errors", len(res.Errors)-5)
			break
		}
		if e.Month != 0 {
			log.Printf("⚠️ Month %d/%d: %s", e.Month, e.Year, e.Message)
		} else {
			log.Printf("⚠️ Invoice %s: %s", e.Code, e.Message)
		}
	}
}

// monthRange returns the inclusive bounds of a calendar month. Day zero of the
// following month normalizes to this month's last day.
func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	return start, end
}
