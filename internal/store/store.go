// Package store owns all destination-database access for the sync pipeline:
// credential lookup, batched table loads, and the foreign-key-safe invoice
// purge. Callers construct one Store around an open GORM handle and pass it
// into the components that need it; nothing here holds global state.
package store

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const defaultBatchSize = 100

// WriteError reports a failed destination write. Batch is 1-based for insert
// batches and zero for single-statement writes.
type WriteError struct {
	Table string
	Batch int
	Err   error
}

func (e *WriteError) Error() string {
	if e.Batch > 0 {
		return fmt.Sprintf("store: writing %s batch %d: %v", e.Table, e.Batch, e.Err)
	}
	return fmt.Sprintf("store: writing %s: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Config holds Store tuning. The write limiter paces consecutive insert
// batches; pass nil for the default of one batch per 300ms.
type Config struct {
	BatchSize    int
	WriteLimiter *rate.Limiter
}

// Store provides destination-side operations over a single GORM connection
type Store struct {
	db        *gorm.DB
	batchSize int
	limiter   *rate.Limiter
}

// New creates a Store around an open database handle
func New(db *gorm.DB, cfg Config) *Store {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	limiter := cfg.WriteLimiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(300*time.Millisecond), 1)
	}

	return &Store{db: db, batchSize: batchSize, limiter: limiter}
}
