package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("missing required setting")

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Settings struct {
	AppPort            string
	AppEnv             string
	DBDriver           string
	DBDSN              string
	RedisAddr          string // empty disables the Redis cache and limiter
	RedisPassword      string
	RedisDB            int
	NATSURL            string // empty leaves outbox rows pending
	JWTSecret          string
	CloudinaryURL      string // empty keeps media in memory
	StorageBucket      string
	CORSOrigins        []string
	RateLimitPerMinute int
	OutboxBatchSize    int
	OutboxPollInterval time.Duration
	Location           *time.Location
}

// Load reads .env when present and builds Settings from the environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (*Settings, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	s := &Settings{
		AppPort:       get("APP_PORT", "8080"),
		AppEnv:        get("APP_ENV", "development"),
		DBDriver:      strings.ToLower(get("DB_DRIVER", DriverMySQL)),
		DBDSN:         get("DB_DSN", ""),
		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD"),
		NATSURL:       get("NATS_URL", ""),
		JWTSecret:     get("JWT_SECRET", ""),
		CloudinaryURL: get("CLOUDINARY_URL", ""),
		StorageBucket: get("STORAGE_BUCKET", "post-media"),
	}

	if s.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	switch s.DBDriver {
	case DriverMySQL, DriverPostgres:
		if s.DBDSN == "" {
			return nil, fmt.Errorf("%w: DB_DSN", ErrMissingSetting)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	var err error
	if s.RedisDB, err = intSetting(get("REDIS_DB", "0"), "REDIS_DB"); err != nil {
		return nil, err
	}
	if s.RateLimitPerMinute, err = intSetting(get("RATE_LIMIT_PER_MINUTE", "60"), "RATE_LIMIT_PER_MINUTE"); err != nil {
		return nil, err
	}
	if s.OutboxBatchSize, err = intSetting(get("OUTBOX_BATCH_SIZE", "100"), "OUTBOX_BATCH_SIZE"); err != nil {
		return nil, err
	}
	if s.OutboxPollInterval, err = time.ParseDuration(get("OUTBOX_POLL_INTERVAL", "1s")); err != nil {
		return nil, fmt.Errorf("invalid OUTBOX_POLL_INTERVAL: %w", err)
	}
	if s.Location, err = time.LoadLocation(get("TIMEZONE", "America/Sao_Paulo")); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			s.CORSOrigins = append(s.CORSOrigins, origin)
		}
	}
	return s, nil
}

func intSetting(raw, key string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}
