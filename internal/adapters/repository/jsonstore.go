package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/pkg/logger"
	"github.com/okian/examprep/pkg/metrics"
)

// JSONStore keeps all records in a single JSON array on disk.
//
// The file is read and rewritten in full on every call. Writers within one
// process are serialized; concurrent processes sharing the file are not
// coordinated.
type JSONStore struct {
	path string
	opts options
	mu   sync.Mutex
}

// NewJSONStore creates a store backed by the file at path. The file is not
// touched until the first Load or Save.
func NewJSONStore(path string, opts ...Option) *JSONStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONStore{path: path, opts: o}
}

// Path returns the backing file.
func (s *JSONStore) Path() string { return s.path }

// Load reads the record list. A missing or empty file yields no records.
func (s *JSONStore) Load(ctx context.Context) (records []model.Record, err error) {
	start := time.Now()
	defer func() { observe("load", start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []model.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []model.Record{}, nil
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrStorage, s.path, err)
	}
	if records == nil {
		records = []model.Record{}
	}
	metrics.UpdateRecordsTotal(len(records))
	return records, nil
}

// Save overwrites the file with records, indented by four spaces.
func (s *JSONStore) Save(ctx context.Context, records []model.Record) (err error) {
	start := time.Now()
	defer func() { observe("save", start, err) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []model.Record{}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, s.opts.dirMode); err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrStorage, dir, err)
		}
	}
	if err := os.WriteFile(s.path, data, s.opts.fileMode); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, s.path, err)
	}

	metrics.UpdateRecordsTotal(len(records))
	if s.opts.log != nil {
		s.opts.log.Debug(ctx, "records saved",
			logger.String("path", s.path),
			logger.Int("count", len(records)),
		)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *JSONStore) Close() error { return nil }
