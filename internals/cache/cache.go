// Package cache is a best-effort Redis layer for tenant list pages.
// A nil *Service is a valid, fully functional configuration (no cache);
// every Redis failure degrades to a miss and is never surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// ListTTL bounds staleness even when eager invalidation is skipped because
// the cache was unreachable during a write.
const ListTTL = 30 * time.Second

type Service struct {
	client *redis.Client
}

func New(client *redis.Client) *Service {
	return &Service{client: client}
}

// NewFromEnv connects using REDIS_ADDR / REDIS_PASSWORD. Returns nil when
// REDIS_ADDR is unset or the server is unreachable — callers run uncached.
func NewFromEnv(addr, password string) *Service {
	if addr == "" {
		log.Println("[INFO] REDIS_ADDR kosong, cache dinonaktifkan")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARNING] Redis tidak terjangkau (%v), cache dinonaktifkan", err)
		return nil
	}
	log.Println("[INFO] Redis cache aktif:", addr)
	return New(client)
}

func (s *Service) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ListKey builds "{collection}:s:{schoolID}:{k=v&k=v}" with params in sorted
// order so equivalent queries share one entry.
func ListKey(collection string, schoolID uint, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return fmt.Sprintf("%s:s:%d:%s", collection, schoolID, strings.Join(parts, "&"))
}

// GetPage returns the cached serialized page, or (nil, false) on miss or any
// cache failure.
func (s *Service) GetPage(ctx context.Context, key string) ([]byte, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARNING] cache get %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

// SetPage stores a page payload as JSON with ListTTL. Failures are swallowed.
func (s *Service) SetPage(ctx context.Context, key string, payload any) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WARNING] cache marshal %s: %v", key, err)
		return
	}
	if err := s.client.Set(ctx, key, data, ListTTL).Err(); err != nil {
		log.Printf("[WARNING] cache set %s: %v", key, err)
	}
}

// Invalidate eagerly drops every entry under "{collection}:s:{schoolID}:*".
// Called after a successful write and before the response is returned; a
// cache failure here must never fail the write.
func (s *Service) Invalidate(ctx context.Context, collection string, schoolID uint) {
	if s == nil || s.client == nil {
		return
	}
	pattern := fmt.Sprintf("%s:s:%d:*", collection, schoolID)
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[WARNING] cache del %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[WARNING] cache invalidate %s: %v", pattern, err)
	}
}
