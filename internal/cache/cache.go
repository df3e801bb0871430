package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightscanner/internal/models"
	"github.com/dharmasatrya/flightscanner/internal/providers"
)

// Cache stores the legs returned for a single day query. A cached empty slice
// is a valid "no flights that day" answer.
type Cache interface {
	Get(ctx context.Context, q providers.DayQuery) ([]models.FlightLeg, bool)
	Set(ctx context.Context, q providers.DayQuery, legs []models.FlightLeg) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:   "localhost",
		Port:   "6379",
		TTL:    15 * time.Minute,
		Prefix: "fares:",
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisConfig().Prefix
	}
	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: prefix,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, q providers.DayQuery) ([]models.FlightLeg, bool) {
	data, err := c.client.Get(ctx, c.key(q)).Bytes()
	if err != nil {
		return nil, false
	}

	var legs []models.FlightLeg
	if err := json.Unmarshal(data, &legs); err != nil {
		return nil, false
	}
	if legs == nil {
		legs = []models.FlightLeg{}
	}
	return legs, true
}

func (c *RedisCache) Set(ctx context.Context, q providers.DayQuery, legs []models.FlightLeg) error {
	if legs == nil {
		legs = []models.FlightLeg{}
	}
	data, err := json.Marshal(legs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(q), data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(q providers.DayQuery) string {
	return c.prefix + generateKey(q)
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, q providers.DayQuery) ([]models.FlightLeg, bool) {
	return nil, false
}

func (c *NoOpCache) Set(ctx context.Context, q providers.DayQuery, legs []models.FlightLeg) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

func generateKey(q providers.DayQuery) string {
	keyData := struct {
		Origin      string
		Destination string
		Date        string
		Currency    string
	}{
		Origin:      q.Origin,
		Destination: q.Destination,
		Date:        q.DateString(),
		Currency:    q.Currency,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
