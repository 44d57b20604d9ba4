package syncer

import "fmt"

// InvalidRangeError reports a clone request for an impossible year/month
type InvalidRangeError struct {
	Year  int
	Month int
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("syncer: invalid clone range: year %d, month %d", e.Year, e.Month)
}

// CloneError is one recorded failure during an invoice clone: either a single
// invoice that could not be saved (InvoiceID/Code set) or a whole month whose
// fetch failed (Month set).
type CloneError struct {
	InvoiceID int64  `json:"invoice_id,omitempty"`
	Code      string `json:"code,omitempty"`
	Month     int    `json:"month,omitempty"`
	Year      int    `json:"year,omitempty"`
	Message   string `json:"error"`
}

// CloneResult aggregates an invoice clone run. Failed invoices never abort the
// run silently: every failure is counted and recorded here.
type CloneResult struct {
	RunID   string       `json:"run_id"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []CloneError `json:"errors"`
}
