package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"aicd-directory/pkg/models"
)

const (
	sectionsCollection = "sections"

	maxConnectAttempts = 5
	baseBackoff        = 100 * time.Millisecond
	maxBackoff         = 2 * time.Second
	attemptTimeout     = 5 * time.Second
	replaceTimeout     = 15 * time.Second

	// Connections older than this are closed and reopened so requests
	// never ride a silently dead handle.
	maxConnectionAge = time.Hour
)

// MongoStore keeps the content tree in a single MongoDB collection. When
// the cluster is unreachable it enters degraded mode: reads return
// placeholder content (or the last in-memory write) alongside an
// ErrUnavailable error, and writes are accepted in memory only, labeled
// via Degraded. The first successful round trip clears the degraded
// state; durable data supersedes anything accepted in memory.
type MongoStore struct {
	uri    string
	dbName string
	logger *zap.Logger

	mu          sync.Mutex
	client      *mongo.Client
	connectedAt time.Time
	degraded    bool
	memory      []models.Section // writes accepted while degraded
}

func NewMongoStore(uri, dbName string, logger *zap.Logger) *MongoStore {
	return &MongoStore{uri: uri, dbName: dbName, logger: logger}
}

func (s *MongoStore) Load(ctx context.Context) ([]models.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(ctx); err != nil {
		s.logger.Warn("serving fallback sections, store unreachable", zap.Error(err))
		return s.offlineSections(), err
	}

	findCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	cur, err := s.collection().Find(findCtx, bson.D{})
	if err != nil {
		s.degraded = true
		s.logger.Warn("sections query failed, entering degraded mode", zap.Error(err))
		return s.offlineSections(), fmt.Errorf("%w: query sections: %v", ErrUnavailable, err)
	}

	var sections []models.Section
	if err := cur.All(findCtx, &sections); err != nil {
		s.degraded = true
		s.logger.Warn("sections decode failed, entering degraded mode", zap.Error(err))
		return s.offlineSections(), fmt.Errorf("%w: decode sections: %v", ErrUnavailable, err)
	}

	s.markRecovered()
	return models.NormalizeSections(sections), nil
}

func (s *MongoStore) Replace(ctx context.Context, sections []models.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections = models.NormalizeSections(sections)

	if err := s.connect(ctx); err != nil {
		// Accepted in memory only; the caller sees Degraded() and must
		// label the response accordingly.
		s.memory = sections
		s.logger.Warn("replace accepted in memory only, store unreachable", zap.Error(err))
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, replaceTimeout)
	defer cancel()

	coll := s.collection()
	if _, err := coll.DeleteMany(opCtx, bson.D{}); err != nil {
		return fmt.Errorf("%w: clear sections: %v", ErrUnavailable, err)
	}
	if len(sections) > 0 {
		docs := make([]interface{}, len(sections))
		for i := range sections {
			docs[i] = sections[i]
		}
		if _, err := coll.InsertMany(opCtx, docs); err != nil {
			return fmt.Errorf("%w: insert sections: %v", ErrUnavailable, err)
		}
	}

	s.markRecovered()
	s.logger.Info("sections replaced", zap.Int("sections", len(sections)))
	return nil
}

// markRecovered records a successful round trip to the database. Writes
// accepted in memory during a degraded period are superseded by durable
// state. Callers must hold s.mu.
func (s *MongoStore) markRecovered() {
	if s.memory != nil {
		s.logger.Warn("dropping in-memory writes superseded by durable state")
	}
	s.degraded = false
	s.memory = nil
}

func (s *MongoStore) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

func (s *MongoStore) collection() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(sectionsCollection)
}

func (s *MongoStore) offlineSections() []models.Section {
	if s.memory != nil {
		return s.memory
	}
	return PlaceholderSections()
}

// connect establishes or refreshes the shared client. It retries with
// exponential backoff and a hard per-attempt timeout; once attempts are
// exhausted the store is marked degraded instead of blocking the request.
// Callers must hold s.mu.
func (s *MongoStore) connect(ctx context.Context) error {
	if s.client != nil {
		if time.Since(s.connectedAt) < maxConnectionAge {
			return nil
		}
		s.logger.Info("connection exceeded max age, refreshing")
		_ = s.client.Disconnect(context.Background())
		s.client = nil
	}

	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		client, err := mongo.Connect(attemptCtx, options.Client().
			ApplyURI(s.uri).
			SetConnectTimeout(attemptTimeout).
			SetServerSelectionTimeout(attemptTimeout))
		if err == nil {
			err = client.Ping(attemptCtx, nil)
		}
		cancel()

		if err == nil {
			s.client = client
			s.connectedAt = time.Now()
			s.degraded = false
			s.logger.Info("connected to mongodb", zap.Int("attempt", attempt))
			return nil
		}

		lastErr = err
		if client != nil {
			_ = client.Disconnect(context.Background())
		}
		s.logger.Warn("mongodb connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxConnectAttempts),
			zap.Error(err))

		if attempt < maxConnectAttempts {
			select {
			case <-time.After(backoffDelay(attempt)):
			case <-ctx.Done():
				s.degraded = true
				return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
			}
		}
	}

	s.degraded = true
	return fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func backoffDelay(attempt int) time.Duration {
	d := baseBackoff << uint(attempt)
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
