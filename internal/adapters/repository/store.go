// Package repository persists performance records.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/pkg/metrics"
)

// Supported drivers.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Store provides whole-list access to the performance records.
type Store interface {
	// Load returns every record in insertion order. A store that has never
	// been written returns an empty slice.
	Load(ctx context.Context) ([]model.Record, error)
	// Save replaces the stored list with records.
	Save(ctx context.Context, records []model.Record) error
	// Close releases resources held by the store.
	Close() error
}

// Open builds the store selected by driver.
func Open(ctx context.Context, driver, path string, opts ...Option) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverJSON:
		return NewJSONStore(path, opts...), nil
	case DriverSQLite:
		store, err := NewSQLiteStore(ctx, path, opts...)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// observe records latency and failures of a store operation.
func observe(op string, start time.Time, err error) {
	metrics.RecordStorageLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStorageError(op)
	}
}
