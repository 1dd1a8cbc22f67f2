package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	historyCollection = "generation_history"
	statusCollection  = "status_checks"

	defaultMongoDatabase       = "namecraft"
	defaultMongoConnectTimeout = 10 * time.Second
)

var ErrMongoUnavailable = errors.New("mongo unavailable")

// MongoConfig configures the document store backend.
type MongoConfig struct {
	URL            string
	Database       string
	ConnectTimeout time.Duration
}

// MongoStore keeps history and status checks in MongoDB collections.
type MongoStore struct {
	client  *mongo.Client
	history *mongo.Collection
	status  *mongo.Collection
}

type historyDocument struct {
	ID             string    `bson:"id"`
	Description    string    `bson:"description"`
	Industry       *string   `bson:"industry"`
	Style          *string   `bson:"style"`
	GeneratedNames []string  `bson:"generated_names"`
	Timestamp      time.Time `bson:"timestamp"`
}

type statusDocument struct {
	ID         string    `bson:"id"`
	ClientName string    `bson:"client_name"`
	Timestamp  time.Time `bson:"timestamp"`
}

// OpenMongo connects, pings and prepares the collections.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("%w: url is empty", ErrMongoUnavailable)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultMongoConnectTimeout
	}
	database := strings.TrimSpace(cfg.Database)
	if database == "" {
		database = defaultMongoDatabase
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URL).SetConnectTimeout(timeout))
	if err != nil {
		return nil, errors.Join(ErrMongoUnavailable, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Join(ErrMongoUnavailable, err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client:  client,
		history: db.Collection(historyCollection),
		status:  db.Collection(statusCollection),
	}
	store.ensureIndexes(pingCtx)
	return store, nil
}

func (m *MongoStore) ensureIndexes(ctx context.Context) {
	index := mongo.IndexModel{Keys: bson.D{{Key: "timestamp", Value: -1}}}
	for _, coll := range []*mongo.Collection{m.history, m.status} {
		if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
			logrus.WithError(err).WithField("collection", coll.Name()).Warn("create timestamp index")
		}
	}
}

// SaveHistory inserts a history document.
func (m *MongoStore) SaveHistory(ctx context.Context, record *HistoryRecord) error {
	if m == nil {
		return ErrNilStore
	}
	if record == nil {
		return ErrNilRecord
	}
	names := record.GeneratedNames
	if names == nil {
		names = []string{}
	}
	doc := historyDocument{
		ID:             record.ID,
		Description:    record.Description,
		Industry:       optional(record.Industry),
		Style:          optional(record.Style),
		GeneratedNames: names,
		Timestamp:      record.Timestamp.UTC(),
	}
	if _, err := m.history.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit documents, newest first.
func (m *MongoStore) RecentHistory(ctx context.Context, limit int) ([]HistoryRecord, error) {
	if m == nil {
		return nil, ErrNilStore
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := m.history.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent history: %w", err)
	}
	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	records := make([]HistoryRecord, 0, len(docs))
	for _, doc := range docs {
		names := doc.GeneratedNames
		if names == nil {
			names = []string{}
		}
		records = append(records, HistoryRecord{
			ID:             doc.ID,
			Description:    doc.Description,
			Industry:       deref(doc.Industry),
			Style:          deref(doc.Style),
			GeneratedNames: names,
			Timestamp:      doc.Timestamp.UTC(),
		})
	}
	return records, nil
}

// SaveStatusCheck inserts a status check document.
func (m *MongoStore) SaveStatusCheck(ctx context.Context, check *StatusCheck) error {
	if m == nil {
		return ErrNilStore
	}
	if check == nil {
		return ErrNilRecord
	}
	doc := statusDocument{ID: check.ID, ClientName: check.ClientName, Timestamp: check.Timestamp.UTC()}
	if _, err := m.status.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("save status check: %w", err)
	}
	return nil
}

// ListStatusChecks returns up to limit status checks, oldest first.
func (m *MongoStore) ListStatusChecks(ctx context.Context, limit int) ([]StatusCheck, error) {
	if m == nil {
		return nil, ErrNilStore
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}}).
		SetLimit(int64(clampLimit(limit)))
	cursor, err := m.status.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list status checks: %w", err)
	}
	var docs []statusDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode status checks: %w", err)
	}
	checks := make([]StatusCheck, 0, len(docs))
	for _, doc := range docs {
		checks = append(checks, StatusCheck{ID: doc.ID, ClientName: doc.ClientName, Timestamp: doc.Timestamp.UTC()})
	}
	return checks, nil
}

// Ping checks connectivity with the primary.
func (m *MongoStore) Ping(ctx context.Context) error {
	if m == nil {
		return ErrNilStore
	}
	if err := m.client.Ping(ctx, nil); err != nil {
		return errors.Join(ErrMongoUnavailable, err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoStore) Close() error {
	if m == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func optional(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
