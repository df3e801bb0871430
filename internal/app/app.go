// Package app wires configuration into a ready search engine. The HTTP server
// and the CLI share it.
package app

import (
	"fmt"

	"github.com/dharmasatrya/flightscanner/internal/aggregator"
	"github.com/dharmasatrya/flightscanner/internal/airports"
	"github.com/dharmasatrya/flightscanner/internal/cache"
	"github.com/dharmasatrya/flightscanner/internal/config"
	"github.com/dharmasatrya/flightscanner/internal/logger"
	"github.com/dharmasatrya/flightscanner/internal/providers"
	"github.com/dharmasatrya/flightscanner/internal/ratelimit"
)

type App struct {
	Aggregator *aggregator.Aggregator
	Directory  *airports.Directory
	Source     *cache.CachedSource
	Upstream   *providers.RyanairProvider

	cache   cache.Cache
	limiter *ratelimit.Limiter
}

func New(cfg *config.Config) (*App, error) {
	l := logger.L()

	ryanair, err := providers.NewRyanairProvider(providers.RyanairConfig{
		BaseURL:    cfg.Upstream.BaseURL,
		Timeout:    cfg.Upstream.Timeout,
		Retries:    cfg.Upstream.Retries,
		RetryDelay: cfg.Upstream.RetryDelay,
		Currency:   cfg.Search.DefaultCurrency,
	})
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.Upstream.RateLimit,
		Burst:             cfg.Upstream.RateBurst,
	})

	var fareCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		fareCache = redisCache
		l.Info().Str("addr", cfg.Redis.Host+":"+cfg.Redis.Port).Dur("ttl", cfg.Cache.TTL).Msg("redis fare cache enabled")
	} else {
		fareCache = cache.NewNoOpCache()
		l.Info().Msg("fare cache disabled")
	}

	limited := providers.NewRateLimited(ryanair, limiter)
	source := cache.NewCachedSource(limited, fareCache, cfg.Search.Timeout)

	directory := airports.NewDirectory(airports.Config{
		CSVURL:             cfg.Airports.CSVURL,
		RouteDiscoveryDays: cfg.Airports.RouteDiscoveryDays,
	}, limited)

	agg := aggregator.NewAggregator(source, directory, AggregatorConfig(cfg))

	return &App{
		Aggregator: agg,
		Directory:  directory,
		Source:     source,
		Upstream:   ryanair,
		cache:      fareCache,
		limiter:    limiter,
	}, nil
}

func AggregatorConfig(cfg *config.Config) aggregator.Config {
	s := cfg.Search
	return aggregator.Config{
		Timeout:            s.Timeout,
		MaxConcurrency:     s.MaxConcurrency,
		MinLayover:         s.MinLayover(),
		MaxLayover:         s.MaxLayover(),
		DefaultCurrency:    s.DefaultCurrency,
		MaxFlexDays:        s.MaxFlexDays,
		Hubs:               s.Hubs,
		AnyMaxDestinations: s.AnyMaxDestinations,
		AnyMaxResults:      s.AnyMaxResults,
	}
}

func (a *App) Close() error {
	hits, misses := a.Source.Stats()
	l := logger.L()
	l.Info().Int64("cache_hits", hits).Int64("cache_misses", misses).
		Int64("upstream_requests", a.Upstream.Queries()).
		Int64("throttled_requests", a.limiter.Throttled()).Msg("shutting down")
	return a.cache.Close()
}
