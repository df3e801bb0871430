package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dharmasatrya/flightscanner/internal/logger"
)

// DefaultHubs are major interchange airports of the carrier network, in
// preference order.
var DefaultHubs = []string{
	"STN", // London Stansted
	"DUB", // Dublin
	"BGY", // Milan Bergamo
	"CRL", // Brussels Charleroi
	"BVA", // Paris Beauvais
	"CIA", // Rome Ciampino
	"MAD", // Madrid
	"BCN", // Barcelona
	"OPO", // Porto
	"EDI", // Edinburgh
	"MAN", // Manchester
	"BRE", // Bremen
	"WMI", // Warsaw Modlin
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      logger.Config  `mapstructure:"log"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Search   SearchConfig   `mapstructure:"search"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Airports AirportsConfig `mapstructure:"airports"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type UpstreamConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	RateLimit  float64       `mapstructure:"rate_limit_rps"`
	RateBurst  int           `mapstructure:"rate_limit_burst"`
}

type SearchConfig struct {
	Timeout            time.Duration `mapstructure:"timeout"`
	DefaultCurrency    string        `mapstructure:"default_currency"`
	MinLayoverMinutes  int           `mapstructure:"min_layover_minutes"`
	MaxLayoverMinutes  int           `mapstructure:"max_layover_minutes"`
	MaxFlexDays        int           `mapstructure:"max_flex_days"`
	MaxConcurrency     int           `mapstructure:"max_concurrency"`
	Hubs               []string      `mapstructure:"hubs"`
	AnyMaxDestinations int           `mapstructure:"any_max_destinations"`
	AnyMaxResults      int           `mapstructure:"any_max_results"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AirportsConfig struct {
	CSVURL             string `mapstructure:"csv_url"`
	RouteDiscoveryDays int    `mapstructure:"route_discovery_days"`
}

func (c SearchConfig) MinLayover() time.Duration {
	return time.Duration(c.MinLayoverMinutes) * time.Minute
}

func (c SearchConfig) MaxLayover() time.Duration {
	return time.Duration(c.MaxLayoverMinutes) * time.Minute
}

// Load reads an optional .env file, an optional config.yaml and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper applies defaults and env bindings to v and decodes the result.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Search.Hubs = normalizeCodes(cfg.Search.Hubs)
	cfg.Search.DefaultCurrency = strings.ToUpper(strings.TrimSpace(cfg.Search.DefaultCurrency))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	s := c.Search
	if s.MinLayoverMinutes < 0 || s.MaxLayoverMinutes < s.MinLayoverMinutes {
		return fmt.Errorf("invalid layover window [%d, %d] minutes", s.MinLayoverMinutes, s.MaxLayoverMinutes)
	}
	if s.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive, got %d", s.MaxConcurrency)
	}
	if s.DefaultCurrency == "" {
		return errors.New("default_currency is required")
	}
	if s.MaxFlexDays < 0 {
		return fmt.Errorf("max_flex_days must be non-negative, got %d", s.MaxFlexDays)
	}
	if c.Upstream.Retries < 1 {
		return fmt.Errorf("upstream retries must be at least 1, got %d", c.Upstream.Retries)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("log.service_name", "flightscanner")

	v.SetDefault("upstream.base_url", "https://services-api.ryanair.com/farfnd/v4/")
	v.SetDefault("upstream.timeout", 30*time.Second)
	v.SetDefault("upstream.retries", 3)
	v.SetDefault("upstream.retry_delay", time.Second)
	v.SetDefault("upstream.rate_limit_rps", 5.0)
	v.SetDefault("upstream.rate_limit_burst", 10)

	v.SetDefault("search.timeout", 60*time.Second)
	v.SetDefault("search.default_currency", "EUR")
	v.SetDefault("search.min_layover_minutes", 90)
	v.SetDefault("search.max_layover_minutes", 360)
	v.SetDefault("search.max_flex_days", 7)
	v.SetDefault("search.max_concurrency", 8)
	v.SetDefault("search.hubs", DefaultHubs)
	v.SetDefault("search.any_max_destinations", 50)
	v.SetDefault("search.any_max_results", 100)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", 15*time.Minute)

	v.SetDefault("airports.csv_url", "https://raw.githubusercontent.com/cohaolain/ryanair-py/develop/ryanair/airports.csv")
	v.SetDefault("airports.route_discovery_days", 7)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.pretty", "LOG_PRETTY")

	_ = v.BindEnv("upstream.base_url", "RYANAIR_API_URL")
	_ = v.BindEnv("upstream.timeout", "UPSTREAM_TIMEOUT")
	_ = v.BindEnv("upstream.retries", "UPSTREAM_RETRIES")
	_ = v.BindEnv("upstream.retry_delay", "UPSTREAM_RETRY_DELAY")
	_ = v.BindEnv("upstream.rate_limit_rps", "RATE_LIMIT_RPS")
	_ = v.BindEnv("upstream.rate_limit_burst", "RATE_LIMIT_BURST")

	_ = v.BindEnv("search.timeout", "SEARCH_TIMEOUT")
	_ = v.BindEnv("search.default_currency", "DEFAULT_CURRENCY")
	_ = v.BindEnv("search.min_layover_minutes", "MIN_LAYOVER_MINUTES")
	_ = v.BindEnv("search.max_layover_minutes", "MAX_LAYOVER_MINUTES")
	_ = v.BindEnv("search.max_flex_days", "MAX_FLEX_DAYS")
	_ = v.BindEnv("search.max_concurrency", "MAX_CONCURRENCY")
	_ = v.BindEnv("search.hubs", "HUBS")
	_ = v.BindEnv("search.any_max_destinations", "ANY_MAX_DESTINATIONS")
	_ = v.BindEnv("search.any_max_results", "ANY_MAX_RESULTS")

	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")

	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.ttl", "CACHE_TTL")

	_ = v.BindEnv("airports.csv_url", "AIRPORTS_CSV_URL")
	_ = v.BindEnv("airports.route_discovery_days", "ROUTE_DISCOVERY_DAYS")
}

// normalizeCodes upper-cases codes and drops blanks and duplicates, keeping
// declaration order. HUBS may arrive as one comma-separated value.
func normalizeCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, raw := range codes {
		for _, c := range strings.Split(raw, ",") {
			c = strings.ToUpper(strings.TrimSpace(c))
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
