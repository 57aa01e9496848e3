package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"healthvault/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// RedisQueueKeyPrefix namespaces one pharmacy's queue entries.
	RedisQueueKeyPrefix = "pharmacy:queue:"

	// Queue entries are ephemeral workflow state; anything untouched for
	// this long is abandoned.
	queueTTL = 90 * 24 * time.Hour
)

// ErrQueueEntryNotFound is returned when the prescription is not in the
// pharmacy's queue.
var ErrQueueEntryNotFound = errors.New("prescription not found in queue")

// QueueStore persists one pharmacy's prescription queue: the ephemeral,
// per-pharmacy overlay on top of the durable server-side prescription
// status. Each pharmacy's queue is stored under its own key as a JSON
// array and is never visible to other pharmacies.
type QueueStore interface {
	Load(ctx context.Context, pharmacyID uuid.UUID) ([]entity.QueueEntry, error)
	Store(ctx context.Context, pharmacyID uuid.UUID, entries []entity.QueueEntry) error
}

type redisQueueStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisQueueStore(client *redis.Client, log *logrus.Logger) QueueStore {
	return &redisQueueStore{client: client, log: log}
}

func (s *redisQueueStore) Load(ctx context.Context, pharmacyID uuid.UUID) ([]entity.QueueEntry, error) {
	key := RedisQueueKeyPrefix + pharmacyID.String()

	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []entity.QueueEntry{}, nil
		}
		s.log.Warnf("Failed to load queue for pharmacy %s: %+v", pharmacyID, err)
		return nil, fmt.Errorf("load queue for pharmacy %s: %w", pharmacyID, err)
	}

	var entries []entity.QueueEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.log.Warnf("Corrupt queue payload for pharmacy %s: %+v", pharmacyID, err)
		return nil, fmt.Errorf("decode queue for pharmacy %s: %w", pharmacyID, err)
	}
	return entries, nil
}

func (s *redisQueueStore) Store(ctx context.Context, pharmacyID uuid.UUID, entries []entity.QueueEntry) error {
	key := RedisQueueKeyPrefix + pharmacyID.String()

	if len(entries) == 0 {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			s.log.Warnf("Failed to clear queue for pharmacy %s: %+v", pharmacyID, err)
			return fmt.Errorf("clear queue for pharmacy %s: %w", pharmacyID, err)
		}
		return nil
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode queue for pharmacy %s: %w", pharmacyID, err)
	}

	if err := s.client.Set(ctx, key, raw, queueTTL).Err(); err != nil {
		s.log.Warnf("Failed to store queue for pharmacy %s: %+v", pharmacyID, err)
		return fmt.Errorf("store queue for pharmacy %s: %w", pharmacyID, err)
	}
	return nil
}
