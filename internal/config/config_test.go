package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{
	"CONFIG_FILE", "HTTP_ADDR", "API_KEY", "DATABASE_URL", "REDIS_URL", "RUN_STORE", "SQLITE_PATH",
	"KAFKA_BROKERS", "KAFKA_RUNS_TOPIC", "NEWS_DATASET_PATH", "TICKER_NEWS_DATASET_PATH",
	"CSV_PREDICTION_DATASET_PATH", "ARCHIVE_SOURCE_DIR", "ARCHIVE_OUTPUT_DIR", "ARCHIVE_CRON",
	"PRICE_CACHE_TTL_SECS", "MARKET_CACHE_TTL_SECS", "P_VALUE_METHOD", "FINNHUB_API_KEY", "LOG_LEVEL", "LOG_FORMAT",
	"TRACING_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.HTTPAddr != ":5050" {
		t.Fatalf("expected default addr, got %s", cfg.HTTPAddr)
	}
	if cfg.RunStore != RunStoreSQLite {
		t.Fatalf("expected sqlite run store without DATABASE_URL, got %s", cfg.RunStore)
	}
	if cfg.PriceCacheTTLSecs != 21600 || cfg.MarketCacheTTLSecs != 300 {
		t.Fatalf("expected default ttls, got %d and %d", cfg.PriceCacheTTLSecs, cfg.MarketCacheTTLSecs)
	}
	if cfg.TracingEnabled {
		t.Fatal("tracing should be off by default")
	}
}

func TestLoadWithEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PRICE_CACHE_TTL_SECS", "120")
	t.Setenv("MARKET_CACHE_TTL_SECS", "60")
	t.Setenv("TRACING_ENABLED", "TRUE")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RunStore != RunStorePostgres {
		t.Fatalf("expected postgres run store, got %s", cfg.RunStore)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.PriceCacheTTLSecs != 120 || cfg.MarketCacheTTLSecs != 60 || !cfg.TracingEnabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	t.Setenv("PRICE_CACHE_TTL_SECS", "bad")
	cfg = Load()
	if cfg.PriceCacheTTLSecs != 21600 {
		t.Fatalf("invalid ttl should fall back to default, got %d", cfg.PriceCacheTTLSecs)
	}
}

func TestLoadRunStoreFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUN_STORE", "postgres")
	if got := Load().RunStore; got != RunStoreSQLite {
		t.Fatalf("postgres without DATABASE_URL should fall back to sqlite, got %s", got)
	}

	t.Setenv("RUN_STORE", "mongo")
	if got := Load().RunStore; got != RunStoreSQLite {
		t.Fatalf("unknown store should fall back to sqlite, got %s", got)
	}

	t.Setenv("RUN_STORE", "NONE")
	if got := Load().RunStore; got != RunStoreNone {
		t.Fatalf("expected none, got %s", got)
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "http_addr: \":9000\"\nnews_dataset_path: /data/news.csv\nkafka_brokers: [a:1, b:2]\narchive_cron: \"0 3 * * *\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":7000")

	cfg := Load()
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("env should override file, got %s", cfg.HTTPAddr)
	}
	if cfg.NewsDatasetPath != "/data/news.csv" || cfg.ArchiveCron != "0 3 * * *" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadMissingYAMLIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if cfg := Load(); cfg.HTTPAddr != ":5050" {
		t.Fatalf("expected defaults, got %s", cfg.HTTPAddr)
	}
}
