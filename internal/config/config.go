package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Storage backends
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
)

// Config stores service and worker settings.
type Config struct {
	Port      int
	Log       Log
	Storage   string
	DB        DB
	Index     Index
	Redis     Redis
	Dispatch  Dispatch
	Geocoder  Geocoder
	Kafka     Kafka
	RateLimit RateLimit
}

// Log selects the logging backend.
type Log struct {
	Backend string
	Level   string
}

// DB holds Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN renders a pgx connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Index selects the proximity index.
type Index struct {
	Backend     string
	CellDegrees float64
}

// Redis holds Redis connection settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Dispatch tunes courier matching.
type Dispatch struct {
	RadiusMeters           float64
	NearbyRadiusMeters     float64
	ShopNearbyRadiusMeters float64
	MaxAttempts            int
	RedispatchOnDeactivate bool
	SweepSpec              string
	SweepBatch             int
	OperationTimeout       time.Duration
}

// Geocoder configures the Nominatim client.
type Geocoder struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Kafka holds broker settings. An empty broker list disables publishing.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Enabled reports whether brokers are configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// RateLimit configures the per-caller token bucket.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := Config{
		Port:      DefaultPort(),
		Log:       DefaultLog(),
		Storage:   BackendPostgres,
		DB:        DefaultDB(),
		Index:     DefaultIndex(),
		Redis:     DefaultRedis(),
		Dispatch:  DefaultDispatch(),
		Geocoder:  DefaultGeocoder(),
		Kafka:     DefaultKafka(),
		RateLimit: DefaultRateLimit(),
	}

	var p envParser
	cfg.Port = p.int("PORT", cfg.Port)
	cfg.Log.Backend = p.str("LOG_BACKEND", cfg.Log.Backend)
	cfg.Log.Level = p.str("LOG_LEVEL", cfg.Log.Level)
	cfg.Storage = p.str("STORAGE_BACKEND", cfg.Storage)

	cfg.DB.Host = p.str("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = p.str("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = p.str("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = p.str("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = p.str("POSTGRES_DB", cfg.DB.Name)
	if _, err := strconv.Atoi(cfg.DB.Port); err != nil {
		p.fail("POSTGRES_PORT", err)
	}

	cfg.Index.Backend = p.str("INDEX_BACKEND", cfg.Index.Backend)
	cfg.Index.CellDegrees = p.float("INDEX_CELL_DEGREES", cfg.Index.CellDegrees)
	cfg.Redis.Addr = p.str("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = p.str("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = p.int("REDIS_DB", cfg.Redis.DB)

	cfg.Dispatch.RadiusMeters = p.float("DISPATCH_RADIUS_METERS", cfg.Dispatch.RadiusMeters)
	cfg.Dispatch.NearbyRadiusMeters = p.float("DISPATCH_NEARBY_RADIUS_METERS", cfg.Dispatch.NearbyRadiusMeters)
	cfg.Dispatch.ShopNearbyRadiusMeters = p.float("DISPATCH_SHOP_NEARBY_RADIUS_METERS", cfg.Dispatch.ShopNearbyRadiusMeters)
	cfg.Dispatch.MaxAttempts = p.int("DISPATCH_MAX_ATTEMPTS", cfg.Dispatch.MaxAttempts)
	cfg.Dispatch.RedispatchOnDeactivate = p.bool("DISPATCH_REDISPATCH_ON_DEACTIVATE", cfg.Dispatch.RedispatchOnDeactivate)
	cfg.Dispatch.SweepSpec = p.str("DISPATCH_SWEEP_SPEC", cfg.Dispatch.SweepSpec)
	cfg.Dispatch.SweepBatch = p.int("DISPATCH_SWEEP_BATCH", cfg.Dispatch.SweepBatch)
	cfg.Dispatch.OperationTimeout = p.duration("DISPATCH_OPERATION_TIMEOUT", cfg.Dispatch.OperationTimeout)

	cfg.Geocoder.BaseURL = p.str("GEOCODER_BASE_URL", cfg.Geocoder.BaseURL)
	cfg.Geocoder.UserAgent = p.str("GEOCODER_USER_AGENT", cfg.Geocoder.UserAgent)
	cfg.Geocoder.Timeout = p.duration("GEOCODER_TIMEOUT", cfg.Geocoder.Timeout)
	cfg.Geocoder.MaxAttempts = p.int("GEOCODER_MAX_ATTEMPTS", cfg.Geocoder.MaxAttempts)
	cfg.Geocoder.BaseDelay = p.duration("GEOCODER_BASE_DELAY", cfg.Geocoder.BaseDelay)
	cfg.Geocoder.MaxDelay = p.duration("GEOCODER_MAX_DELAY", cfg.Geocoder.MaxDelay)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	cfg.Kafka.GroupID = p.str("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.Topic = p.str("DISPATCH_KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.RateLimit.Enabled = p.bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = p.float("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = p.int("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = p.duration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = p.int("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	if p.err != nil {
		return nil, p.err
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: postgres or memory")
	fs.StringVar(&cfg.Index.Backend, "index", cfg.Index.Backend, "proximity index backend: redis or memory")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "log level")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("invalid port: %d", c.Port)
	case c.Storage != BackendPostgres && c.Storage != BackendMemory:
		return fmt.Errorf("invalid STORAGE_BACKEND: %q", c.Storage)
	case c.Index.Backend != BackendRedis && c.Index.Backend != BackendMemory:
		return fmt.Errorf("invalid INDEX_BACKEND: %q", c.Index.Backend)
	case c.Index.CellDegrees <= 0:
		return fmt.Errorf("invalid INDEX_CELL_DEGREES: %v", c.Index.CellDegrees)
	case c.Dispatch.RadiusMeters <= 0 || c.Dispatch.NearbyRadiusMeters <= 0 || c.Dispatch.ShopNearbyRadiusMeters <= 0:
		return fmt.Errorf("dispatch radii must be positive")
	case c.Dispatch.MaxAttempts < 1:
		return fmt.Errorf("invalid DISPATCH_MAX_ATTEMPTS: %d", c.Dispatch.MaxAttempts)
	case c.Dispatch.SweepBatch < 1:
		return fmt.Errorf("invalid DISPATCH_SWEEP_BATCH: %d", c.Dispatch.SweepBatch)
	case c.Geocoder.MaxAttempts < 1:
		return fmt.Errorf("invalid GEOCODER_MAX_ATTEMPTS: %d", c.Geocoder.MaxAttempts)
	}
	return nil
}

// envParser collects the first parse error so Load can report it once.
type envParser struct {
	err error
}

func (p *envParser) fail(key string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s: %w", key, err)
	}
}

func (p *envParser) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (p *envParser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *envParser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return f
}

func (p *envParser) bool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
