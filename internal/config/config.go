package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr         string
	HarmonicHTTPAddr string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	// Workspace and upstream source.
	DataDir       string
	NOAABaseURL   string
	NOAACountry   string
	NOAAYearStart int
	NOAAYearEnd   int
	NOAATimeout   time.Duration

	// Ingest policy.
	FetchMaxAttempts int
	FetchBackoff     time.Duration
	FetchMaxBackoff  time.Duration
	IngestStrict     bool
	RefreshSchedule  string

	QueryCacheSize int

	// Optional dataset sinks.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaTopic       string
	SQLiteExportPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honoured if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	noaaTimeout, err := parsePositiveDuration("NOAA_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	fetchBackoff, err := parsePositiveDuration("FETCH_BACKOFF", "500ms")
	if err != nil {
		return nil, err
	}
	fetchMaxBackoff, err := parsePositiveDuration("FETCH_MAX_BACKOFF", "5s")
	if err != nil {
		return nil, err
	}

	yearStart, err := parsePositiveInt("NOAA_YEAR_START", "1981")
	if err != nil {
		return nil, err
	}
	yearEnd, err := parsePositiveInt("NOAA_YEAR_END", "2024")
	if err != nil {
		return nil, err
	}
	maxAttempts, err := parsePositiveInt("FETCH_MAX_ATTEMPTS", "3")
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseNonNegativeInt("QUERY_CACHE_SIZE", "256")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:         sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		HarmonicHTTPAddr: sharedcfg.EnvOrDefault("HARMONIC_HTTP_ADDR", ":8050"),
		LogLevel:         sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:        sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,

		DataDir:       sharedcfg.EnvOrDefault("DATA_DIR", "data"),
		NOAABaseURL:   sharedcfg.EnvOrDefault("NOAA_BASE_URL", "https://www.star.nesdis.noaa.gov/smcd/emb/vci/VH/get_TS_admin.php"),
		NOAACountry:   sharedcfg.EnvOrDefault("NOAA_COUNTRY", "UKR"),
		NOAAYearStart: yearStart,
		NOAAYearEnd:   yearEnd,
		NOAATimeout:   noaaTimeout,

		FetchMaxAttempts: maxAttempts,
		FetchBackoff:     fetchBackoff,
		FetchMaxBackoff:  fetchMaxBackoff,
		IngestStrict:     os.Getenv("INGEST_STRICT") == "true",
		RefreshSchedule:  strings.TrimSpace(os.Getenv("REFRESH_SCHEDULE")),

		QueryCacheSize: cacheSize,

		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:       sharedcfg.EnvOrDefault("KAFKA_TOPIC", "vhi-observations"),
		SQLiteExportPath: strings.TrimSpace(os.Getenv("SQLITE_EXPORT_PATH")),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.NOAAYearStart > cfg.NOAAYearEnd {
		return nil, errors.New("NOAA_YEAR_START must not be after NOAA_YEAR_END")
	}
	if cfg.FetchBackoff > cfg.FetchMaxBackoff {
		return nil, errors.New("FETCH_BACKOFF must not exceed FETCH_MAX_BACKOFF")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: json, text)", cfg.LogFormat)
	}
	if cfg.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(cfg.RefreshSchedule); err != nil {
			return nil, fmt.Errorf("invalid REFRESH_SCHEDULE: %w", err)
		}
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseNonNegativeInt allows 0, which QUERY_CACHE_SIZE uses to disable caching.
func parseNonNegativeInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
