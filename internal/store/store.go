package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// HistoryStore persists generation history and status checks.
type HistoryStore interface {
	SaveHistory(ctx context.Context, record *HistoryRecord) error
	RecentHistory(ctx context.Context, limit int) ([]HistoryRecord, error)
	SaveStatusCheck(ctx context.Context, check *StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error)
	Ping(ctx context.Context) error
	Close() error
}

var (
	ErrNilRecord = errors.New("record is nil")
	ErrNilStore  = errors.New("database is nil")
)

// Options select and configure a HistoryStore backend. MongoURL wins over
// SQLitePath when both are set.
type Options struct {
	MongoURL       string
	MongoDatabase  string
	ConnectTimeout time.Duration
	SQLitePath     string
	SilentSQL      bool
}

// Connect opens the configured backend.
func Connect(ctx context.Context, opts Options) (HistoryStore, error) {
	if url := strings.TrimSpace(opts.MongoURL); url != "" {
		mongoStore, err := OpenMongo(ctx, MongoConfig{
			URL:            url,
			Database:       opts.MongoDatabase,
			ConnectTimeout: opts.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		return mongoStore, nil
	}
	if strings.TrimSpace(opts.SQLitePath) == "" {
		return nil, errors.New("history store: sqlite path or mongo url required")
	}
	db, err := Open(opts.SQLitePath, opts.SilentSQL)
	if err != nil {
		return nil, err
	}
	return db, nil
}

const maxListLimit = 1000

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

var (
	_ HistoryStore = (*Database)(nil)
	_ HistoryStore = (*MongoStore)(nil)
)
