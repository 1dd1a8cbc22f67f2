package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&GenerationHistory{}, &StatusCheckRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	if d == nil {
		return ErrNilStore
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SaveHistory inserts a history record. Records are never updated.
func (d *Database) SaveHistory(ctx context.Context, record *HistoryRecord) error {
	if d == nil {
		return ErrNilStore
	}
	if record == nil {
		return ErrNilRecord
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.gorm.WithContext(ctx).Create(historyRow(record)).Error; err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit records, newest first.
func (d *Database) RecentHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if d == nil {
		return nil, ErrNilStore
	}
	var rows []GenerationHistory
	if err := d.gorm.WithContext(ctx).
		Model(&GenerationHistory{}).
		Order("timestamp DESC").
		Limit(clampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	records := make([]HistoryRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].record())
	}
	return records, nil
}

// SaveStatusCheck inserts a status check row.
func (d *Database) SaveStatusCheck(ctx context.Context, check *StatusCheck) error {
	if d == nil {
		return ErrNilStore
	}
	if check == nil {
		return ErrNilRecord
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	row := &StatusCheckRow{ID: check.ID, ClientName: check.ClientName, Timestamp: check.Timestamp}
	if err := d.gorm.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("save status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns up to limit status checks in insertion order.
func (d *Database) ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error) {
	if d == nil {
		return nil, ErrNilStore
	}
	var rows []StatusCheckRow
	if err := d.gorm.WithContext(ctx).
		Model(&StatusCheckRow{}).
		Order("timestamp ASC").
		Limit(clampLimit(limit)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list status checks: %w", err)
	}
	checks := make([]StatusCheck, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, StatusCheck{ID: row.ID, ClientName: row.ClientName, Timestamp: row.Timestamp.UTC()})
	}
	return checks, nil
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_generation_history_timestamp_desc ON generation_history(timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_status_checks_timestamp ON status_checks(timestamp)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
