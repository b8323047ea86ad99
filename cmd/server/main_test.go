package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stocksentix/internal/config"
	"stocksentix/internal/domain"
	"stocksentix/internal/job"
	"stocksentix/internal/sink"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(&config.Config{HTTPAddr: ":0", RunStore: config.RunStoreNone})
	defer restore()

	runMain(t)
}

func TestMainBootstrapMountsMarketRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(&config.Config{HTTPAddr: ":0", RunStore: config.RunStoreNone})
	defer restore()

	var engine *gin.Engine
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine {
		engine = gin.New()
		return engine
	}

	runMain(t)

	routes := map[string]bool{}
	for _, ri := range engine.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	for _, want := range []string{
		"GET /api/market/quote/:symbol",
		"GET /api/market/history/:symbol",
		"GET /api/market/compare",
		"POST /api/analysis/run",
	} {
		if !routes[want] {
			t.Fatalf("route %s not mounted", want)
		}
	}
}

func TestMainBootstrapWithSQLiteAndKafka(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(&config.Config{
		HTTPAddr:     ":0",
		RunStore:     config.RunStoreSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "runs.db"),
		KafkaBrokers: []string{"localhost:9092"},
	})
	defer restore()

	kafkaCalled := false
	newKafkaWriterFunc = func([]string) (sink.MessageWriter, error) {
		kafkaCalled = true
		return nil, errors.New("no brokers")
	}

	runMain(t)
	if !kafkaCalled {
		t.Fatal("expected kafka writer to be requested")
	}
}

func TestOpenRunStorePostgresFailureDisablesHistory(t *testing.T) {
	orig := initPostgresFunc
	defer func() { initPostgresFunc = orig }()
	initPostgresFunc = func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("connection refused")
	}

	store, closeFn := openRunStore(context.Background(),
		&config.Config{RunStore: config.RunStorePostgres, DatabaseURL: "postgres://x"},
		noop.NewTracerProvider().Tracer("test"))
	defer closeFn()
	if store != nil {
		t.Fatalf("expected no store, got %T", store)
	}
}

func runMain(t *testing.T) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps(cfg *config.Config) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitLogger := initLoggerFunc
	origInitPostgres := initPostgresFunc
	origInitTracer := initTracerFunc
	origKafka := newKafkaWriterFunc
	origNewMarketData := newMarketDataFunc
	origStartArchive := startArchiveJobFunc
	origRegisterer := metricsRegisterer
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initLoggerFunc = func(string, string) error { return nil }
	initPostgresFunc = func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("postgres disabled in tests")
	}
	initTracerFunc = func(ctx context.Context, enabled bool, endpoint string) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newMarketDataFunc = func(trace.Tracer) marketData { return stubMarketData{} }
	startArchiveJobFunc = func(*job.ArchiveJob, context.Context) {}
	metricsRegisterer = prometheus.NewRegistry()
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initLoggerFunc = origInitLogger
		initPostgresFunc = origInitPostgres
		initTracerFunc = origInitTracer
		newKafkaWriterFunc = origKafka
		newMarketDataFunc = origNewMarketData
		startArchiveJobFunc = origStartArchive
		metricsRegisterer = origRegisterer
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubMarketData struct{}

func (stubMarketData) FetchDailyCloses(ctx context.Context, ticker, from, to string) ([]domain.PricePoint, error) {
	return nil, errors.New("offline")
}

func (stubMarketData) FetchChart(ctx context.Context, symbol, rng string) (*domain.Chart, error) {
	return nil, errors.New("offline")
}
