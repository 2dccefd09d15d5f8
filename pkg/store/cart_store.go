package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"squido/pkg/domain"
)

// MemoryCartStore keeps session carts in-process.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

// NewMemoryCartStore initializes an empty cart store.
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]domain.Cart)}
}

func (s *MemoryCartStore) GetCart(sessionID string) (domain.Cart, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[sessionID]
	return c, ok, nil
}

func (s *MemoryCartStore) PutCart(c domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.SessionID] = c
	return nil
}

func (s *MemoryCartStore) DeleteCart(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// RedisCartStore keeps session carts in Redis with TTL, so carts survive
// process restarts and expire with the session.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore builds a Redis-backed cart store.
func NewRedisCartStore(addr, password string, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl: ttl,
	}
}

func cartRedisKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *RedisCartStore) GetCart(sessionID string) (domain.Cart, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	raw, err := s.client.Get(ctx, cartRedisKey(sessionID)).Result()
	if err == redis.Nil {
		return domain.Cart{}, false, nil
	}
	if err != nil {
		return domain.Cart{}, false, err
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return domain.Cart{}, false, fmt.Errorf("decode cart: %w", err)
	}
	return cart, true, nil
}

func (s *RedisCartStore) PutCart(c domain.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, cartRedisKey(c.SessionID), raw, s.ttl).Err()
}

func (s *RedisCartStore) DeleteCart(sessionID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.client.Del(ctx, cartRedisKey(sessionID)).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}
