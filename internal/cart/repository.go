package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotRepository persists cart snapshots keyed by cart id. A
// missing or unreadable snapshot loads as an empty cart; corrupted
// state never surfaces as an error to the caller.
type SnapshotRepository interface {
	Load(ctx context.Context, cartID string) (Snapshot, error)
	Save(ctx context.Context, cartID string, s Snapshot) error
	Delete(ctx context.Context, cartID string) error
}

// decodeSnapshot turns a stored payload into a snapshot, falling back
// to an empty cart on any parse failure.
func decodeSnapshot(data []byte, logger *log.Logger) Snapshot {
	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		if logger != nil {
			logger.Printf("discarding corrupt cart snapshot: %v", err)
		}
		return Snapshot{}
	}
	return NewSnapshot(lines...)
}

// RedisRepository stores each cart as a JSON value under cart:<id>.
type RedisRepository struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func NewRedisRepository(rdb *redis.Client, logger *log.Logger) *RedisRepository {
	return &RedisRepository{
		rdb:    rdb,
		ttl:    30 * 24 * time.Hour,
		logger: logger,
	}
}

func cartKey(cartID string) string { return "cart:" + cartID }

func (r *RedisRepository) Load(ctx context.Context, cartID string) (Snapshot, error) {
	data, err := r.rdb.Get(ctx, cartKey(cartID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, nil
		}
		return Snapshot{}, err
	}
	return decodeSnapshot(data, r.logger), nil
}

func (r *RedisRepository) Save(ctx context.Context, cartID string, s Snapshot) error {
	data, err := json.Marshal(s.Lines())
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, cartKey(cartID), data, r.ttl).Err()
}

func (r *RedisRepository) Delete(ctx context.Context, cartID string) error {
	return r.rdb.Del(ctx, cartKey(cartID)).Err()
}

// MemoryRepository keeps serialized snapshots in process memory. It
// backs demo mode and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	carts  map[string][]byte
	logger *log.Logger
}

func NewMemoryRepository(logger *log.Logger) *MemoryRepository {
	return &MemoryRepository{carts: make(map[string][]byte), logger: logger}
}

func (r *MemoryRepository) Load(_ context.Context, cartID string) (Snapshot, error) {
	r.mu.RLock()
	data, ok := r.carts[cartID]
	r.mu.RUnlock()
	if !ok {
		return Snapshot{}, nil
	}
	return decodeSnapshot(data, r.logger), nil
}

func (r *MemoryRepository) Save(_ context.Context, cartID string, s Snapshot) error {
	data, err := json.Marshal(s.Lines())
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.carts[cartID] = data
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, cartID string) error {
	r.mu.Lock()
	delete(r.carts, cartID)
	r.mu.Unlock()
	return nil
}

// Put stores a raw payload, bypassing encoding. Tests use it to
// simulate corrupted persisted state.
func (r *MemoryRepository) Put(cartID string, data []byte) {
	r.mu.Lock()
	r.carts[cartID] = data
	r.mu.Unlock()
}
