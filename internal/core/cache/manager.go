// Package cache stores serialized responses from the language model and the
// recipe detail service, in memory or in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"moodchef/internal/infrastructure/config"
	"moodchef/internal/pkg/common"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// ErrMiss 快取未命中
var ErrMiss = errors.New("cache miss")

// Store 快取介面
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// NewStore 依設定建立快取；關閉時回傳 nil
func NewStore(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case "redis":
		rs, err := NewRedisStore(cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return NewManager(cfg.Cache.MaxSize, cfg.Cache.TTL), nil
	}
}

// Key 以前綴加上 SHA-256 雜湊產生快取鍵
func Key(prefix, data string) string {
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// CacheManager 記憶體快取管理器
type CacheManager struct {
	store   *expirable.LRU[string, string]
	maxSize int
	ttl     time.Duration
	stats   cacheStats
}

// cacheStats 緩存統計
type cacheStats struct {
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewManager 創建新的緩存管理器，超過容量時淘汰最久未使用的項目
func NewManager(maxSize int, ttl time.Duration) *CacheManager {
	m := &CacheManager{maxSize: maxSize, ttl: ttl}
	m.store = expirable.NewLRU[string, string](maxSize, func(string, string) {
		m.stats.evictions.Add(1)
	}, ttl)

	common.LogInfo("cache manager initialized",
		zap.Int("max_size", maxSize),
		zap.Duration("ttl", ttl),
	)
	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(_ context.Context, key string) (string, error) {
	if v, ok := m.store.Get(key); ok {
		m.stats.hits.Add(1)
		common.LogCacheHit("memory")
		return v, nil
	}
	m.stats.misses.Add(1)
	common.LogCacheMiss("memory")
	return "", ErrMiss
}

// Set 設置緩存值
func (m *CacheManager) Set(_ context.Context, key, value string) error {
	m.store.Add(key, value)
	return nil
}

// Stats 獲取緩存統計信息
func (m *CacheManager) Stats() map[string]interface{} {
	hits := m.stats.hits.Load()
	misses := m.stats.misses.Load()
	ratio := 0.0
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	return map[string]interface{}{
		"backend":   "memory",
		"size":      m.store.Len(),
		"max_size":  m.maxSize,
		"hits":      hits,
		"misses":    misses,
		"evictions": m.stats.evictions.Load(),
		"hit_ratio": ratio,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	m.store.Purge()
	common.LogInfo("cache manager closed",
		zap.Int64("hits", m.stats.hits.Load()),
		zap.Int64("misses", m.stats.misses.Load()),
	)
	return nil
}
