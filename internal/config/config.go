package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	RunStorePostgres = "postgres"
	RunStoreSQLite   = "sqlite"
	RunStoreNone     = "none"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	APIKey   string `yaml:"api_key"`

	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	RunStore    string `yaml:"run_store"`
	SQLitePath  string `yaml:"sqlite_path"`

	KafkaBrokers   []string `yaml:"kafka_brokers"`
	KafkaRunsTopic string   `yaml:"kafka_runs_topic"`

	NewsDatasetPath          string `yaml:"news_dataset_path"`
	TickerNewsDatasetPath    string `yaml:"ticker_news_dataset_path"`
	CSVPredictionDatasetPath string `yaml:"csv_prediction_dataset_path"`
	ArchiveSourceDir         string `yaml:"archive_source_dir"`
	ArchiveOutputDir         string `yaml:"archive_output_dir"`
	ArchiveCron              string `yaml:"archive_cron"`

	PriceCacheTTLSecs  int    `yaml:"price_cache_ttl_secs"`
	MarketCacheTTLSecs int    `yaml:"market_cache_ttl_secs"`
	PValueMethod       string `yaml:"p_value_method"`
	FinnhubAPIKey      string `yaml:"finnhub_api_key"`

	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

func defaults() *Config {
	return &Config{
		HTTPAddr:                 ":5050",
		SQLitePath:               "server/storage/runs.db",
		KafkaRunsTopic:           "stocksentix.analysis-runs",
		NewsDatasetPath:          "server/data/news.json",
		CSVPredictionDatasetPath: "server/data/stock_indicators.csv",
		ArchiveSourceDir:         "server/data/archive_1",
		ArchiveOutputDir:         "server/data/archive_1_predictions",
		PriceCacheTTLSecs:        21600,
		MarketCacheTTLSecs:       300,
		PValueMethod:             "normal-approx",
		LogLevel:                 "info",
		LogFormat:                "console",
		OTLPEndpoint:             "localhost:4317",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() *Config {
	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(cfg, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("config file ignored")
		}
	}

	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.APIKey, "API_KEY")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.RunStore, "RUN_STORE")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.KafkaRunsTopic, "KAFKA_RUNS_TOPIC")
	setString(&cfg.NewsDatasetPath, "NEWS_DATASET_PATH")
	setString(&cfg.TickerNewsDatasetPath, "TICKER_NEWS_DATASET_PATH")
	setString(&cfg.CSVPredictionDatasetPath, "CSV_PREDICTION_DATASET_PATH")
	setString(&cfg.ArchiveSourceDir, "ARCHIVE_SOURCE_DIR")
	setString(&cfg.ArchiveOutputDir, "ARCHIVE_OUTPUT_DIR")
	setString(&cfg.ArchiveCron, "ARCHIVE_CRON")
	setString(&cfg.PValueMethod, "P_VALUE_METHOD")
	setString(&cfg.FinnhubAPIKey, "FINNHUB_API_KEY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")
	setString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.KafkaBrokers = splitList(v)
	}

	if v := strings.TrimSpace(os.Getenv("PRICE_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PriceCacheTTLSecs = n
		} else {
			log.Warn().Str("value", v).Msg("invalid PRICE_CACHE_TTL_SECS, keeping default")
		}
	}

	if v := strings.TrimSpace(os.Getenv("MARKET_CACHE_TTL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketCacheTTLSecs = n
		} else {
			log.Warn().Str("value", v).Msg("invalid MARKET_CACHE_TTL_SECS, keeping default")
		}
	}

	if v := strings.TrimSpace(os.Getenv("TRACING_ENABLED")); v != "" {
		cfg.TracingEnabled = strings.EqualFold(v, "true")
	}

	cfg.RunStore = strings.ToLower(strings.TrimSpace(cfg.RunStore))
	if cfg.RunStore == "" {
		cfg.RunStore = RunStoreSQLite
		if cfg.DatabaseURL != "" {
			cfg.RunStore = RunStorePostgres
		}
	}
	switch cfg.RunStore {
	case RunStorePostgres, RunStoreSQLite, RunStoreNone:
	default:
		log.Warn().Str("run_store", cfg.RunStore).Msg("unsupported RUN_STORE, defaulting to sqlite")
		cfg.RunStore = RunStoreSQLite
	}
	if cfg.RunStore == RunStorePostgres && cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set, falling back to sqlite run store")
		cfg.RunStore = RunStoreSQLite
	}

	if cfg.RedisURL == "" {
		log.Warn().Msg("REDIS_URL not set, price caching disabled")
	}
	if cfg.APIKey == "" {
		log.Warn().Msg("API_KEY not set, /api routes are unauthenticated")
	}

	return cfg
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
