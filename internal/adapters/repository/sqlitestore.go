package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/samber/lo"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/examprep/internal/domain/model"
	"github.com/okian/examprep/pkg/logger"
	"github.com/okian/examprep/pkg/metrics"
)

const insertBatchSize = 100

// recordRow is the table layout for a performance record.
type recordRow struct {
	ID    uint    `gorm:"primaryKey;autoIncrement"`
	Topic string  `gorm:"not null"`
	Score float64 `gorm:"not null"`
	Date  string  `gorm:"size:19;not null"`
}

func (recordRow) TableName() string { return "performance_records" }

// SQLiteStore keeps records in a SQLite table. Row order follows the
// primary key so Load returns records in insertion order.
type SQLiteStore struct {
	db   *gorm.DB
	path string
	opts options
}

// NewSQLiteStore opens (creating if needed) the database at path and
// migrates the record table.
func NewSQLiteStore(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, o.dirMode); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", ErrStorage, dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorage, path, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate %s: %w", ErrStorage, path, err)
	}

	if o.log != nil {
		o.log.Info(ctx, "sqlite store ready", logger.String("path", path))
	}
	return &SQLiteStore{db: db, path: path, opts: o}, nil
}

// Load returns all rows ordered by insertion.
func (s *SQLiteStore) Load(ctx context.Context) (records []model.Record, err error) {
	start := time.Now()
	defer func() { observe("load", start, err) }()

	var rows []recordRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: load: %w", ErrStorage, err)
	}

	records = lo.Map(rows, func(r recordRow, _ int) model.Record {
		return model.Record{Topic: r.Topic, Score: r.Score, Date: r.Date}
	})
	metrics.UpdateRecordsTotal(len(records))
	return records, nil
}

// Save replaces every row with records inside one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []model.Record) (err error) {
	start := time.Now()
	defer func() { observe("save", start, err) }()

	rows := lo.Map(records, func(r model.Record, _ int) recordRow {
		return recordRow{Topic: r.Topic, Score: r.Score, Date: r.Date}
	})

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&recordRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, insertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("%w: save: %w", ErrStorage, err)
	}

	metrics.UpdateRecordsTotal(len(records))
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: close: %w", ErrStorage, err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", ErrStorage, err)
	}
	return nil
}
