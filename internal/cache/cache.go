package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Annotation is one cached entity annotation produced by the NER backend
type Annotation struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Config contains cache configuration
type Config struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// Stats tracks cache performance
type Stats struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// EntityCache is a Redis-backed cache for NER annotations, keyed by a hash
// of the input text. It avoids repeated model inference over identical
// corpus chunks; it is not a result store.
type EntityCache struct {
	client *redis.Client
	config *Config
	logger *zap.Logger
	hits   int64
	misses int64
}

// New creates an entity cache and verifies the Redis connection
func New(config *Config, logger *zap.Logger) (*EntityCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.MaxConnections
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Entity cache initialized",
		zap.Duration("default_ttl", config.DefaultTTL),
		zap.String("key_prefix", config.KeyPrefix),
	)

	return &EntityCache{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// Get returns cached annotations for text. The second return value reports
// whether the lookup was a hit.
func (c *EntityCache) Get(ctx context.Context, text string) ([]Annotation, bool, error) {
	key := c.textKey(text)

	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.misses++
		return nil, false, nil
	} else if err != nil {
		c.logger.Error("Cache lookup failed", zap.Error(err))
		return nil, false, err
	}

	var annotations []Annotation
	if err := json.Unmarshal([]byte(data), &annotations); err != nil {
		c.logger.Error("Failed to unmarshal cached annotations", zap.Error(err))
		// Drop the corrupted entry and treat as a miss
		c.client.Del(ctx, key)
		c.misses++
		return nil, false, nil
	}

	c.hits++
	c.logger.Debug("Cache hit", zap.String("key", key), zap.Int("annotations", len(annotations)))
	return annotations, true, nil
}

// Put stores annotations for text with the configured TTL
func (c *EntityCache) Put(ctx context.Context, text string, annotations []Annotation) error {
	data, err := json.Marshal(annotations)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations for caching: %w", err)
	}

	if err := c.client.Set(ctx, c.textKey(text), data, c.config.DefaultTTL).Err(); err != nil {
		c.logger.Error("Failed to cache annotations", zap.Error(err))
		return fmt.Errorf("failed to cache annotations: %w", err)
	}

	return nil
}

// GetStats returns cache performance statistics
func (c *EntityCache) GetStats() *Stats {
	stats := &Stats{
		Hits:   c.hits,
		Misses: c.misses,
	}

	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}

	return stats
}

// Clear removes all cached annotations under the configured prefix
func (c *EntityCache) Clear(ctx context.Context) error {
	pattern := c.config.KeyPrefix + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}

	c.logger.Info("Entity cache cleared", zap.Int("deleted_keys", len(keys)))
	return nil
}

// Close closes the Redis connection
func (c *EntityCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// textKey creates a stable cache key from the input text
func (c *EntityCache) textKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s:ner:%s", c.config.KeyPrefix, hex.EncodeToString(hash[:])[:16])
}
