package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stocksentix/internal/cache"
	"stocksentix/internal/config"
	"stocksentix/internal/correlation"
	"stocksentix/internal/db"
	"stocksentix/internal/handler"
	"stocksentix/internal/job"
	"stocksentix/internal/metrics"
	"stocksentix/internal/ml/archive"
	"stocksentix/internal/ml/features"
	"stocksentix/internal/ml/models/logreg"
	"stocksentix/internal/ml/prediction"
	"stocksentix/internal/ml/training"
	"stocksentix/internal/provider"
	"stocksentix/internal/repository"
	"stocksentix/internal/service"
	"stocksentix/internal/sink"
	"stocksentix/internal/stats"
	"stocksentix/pkg/logger"
	"stocksentix/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "stocksentix/docs"
)

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initLoggerFunc     = logger.Init
	initPostgresFunc   = db.InitPostgres
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	openSQLiteFunc     = repository.OpenSQLiteRunStore
	newKafkaWriterFunc = func(brokers []string) (sink.MessageWriter, error) { return sink.NewKafkaWriter(brokers) }
	newMarketDataFunc  = func(tracer trace.Tracer) marketData {
		return provider.NewYahooProvider(tracer)
	}
	startArchiveJobFunc = func(j *job.ArchiveJob, ctx context.Context) {
		go func() {
			if err := j.Start(ctx); err != nil {
				log.Error().Err(err).Msg("archive job not started")
			}
		}()
	}
	metricsRegisterer      prometheus.Registerer = prometheus.DefaultRegisterer
	newRouterFunc                                = gin.Default
	setupSignalNotify                            = signal.Notify
	waitForSignalFunc                            = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc                          = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc                       = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// marketData is the Yahoo client shared by the price and market services so
// both draw from one rate limiter.
type marketData interface {
	service.PriceProvider
	service.ChartProvider
}

// runStore is what the analysis service persists to and reads history from.
type runStore interface {
	service.RunSink
	service.RunReader
}

// @title           StockSentix API
// @version         1.0
// @description     News sentiment versus stock return analysis with a CSV indicator classifier.

// @host      localhost:5050
// @BasePath  /

// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()
	if err := initLoggerFunc(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Warn().Err(err).Msg("logger config rejected, using defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, cfg.TracingEnabled, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	rec := metrics.New(metricsRegisterer)

	var priceCache service.RedisClient
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, price caching disabled")
		} else {
			defer client.Close()
			priceCache = client
		}
	}

	store, closeStore := openRunStore(ctx, cfg, tracer)
	defer closeStore()

	runSink := sink.NewMulti()
	var history service.RunReader
	if store != nil {
		runSink.Add(cfg.RunStore, store)
		history = store
	}
	if len(cfg.KafkaBrokers) > 0 {
		writer, err := newKafkaWriterFunc(cfg.KafkaBrokers)
		if err != nil {
			log.Warn().Err(err).Msg("kafka publisher disabled")
		} else {
			publisher := sink.NewKafkaPublisher(writer, cfg.KafkaRunsTopic, tracer)
			defer publisher.Close()
			runSink.Add("kafka", publisher)
		}
	}
	var persist service.RunSink
	if runSink.Len() > 0 {
		persist = runSink
	}

	news := service.NewNewsService(tracer, cfg.TickerNewsDatasetPath, cfg.NewsDatasetPath)
	yahoo := newMarketDataFunc(tracer)
	prices := service.NewPriceService(
		tracer,
		yahoo,
		priceCache,
		provider.SyntheticCloses,
		rec,
		time.Duration(cfg.PriceCacheTTLSecs)*time.Second,
	)
	pipeline := correlation.NewPipeline(tracer, news, prices,
		correlation.WithPValueMethod(stats.PValueMethod(cfg.PValueMethod)),
	)

	loader := features.NewLoader(tracer, features.IndicatorSchema, features.WithObserver(rec))
	trainer := training.NewLogisticTrainer(tracer, features.IndicatorSchema.Features, logreg.DefaultTrainOptions())
	engine := prediction.NewEngine(tracer, loader, trainer, cfg.CSVPredictionDatasetPath)

	analysis := service.NewAnalysisService(tracer, pipeline, engine, persist, history, rec)
	market := service.NewMarketService(tracer, yahoo, priceCache, time.Duration(cfg.MarketCacheTTLSecs)*time.Second)

	archiveJob := job.NewArchiveJob(tracer, archive.NewTrainer(tracer, nil), cfg.ArchiveSourceDir, cfg.ArchiveOutputDir, cfg.ArchiveCron)
	startArchiveJobFunc(archiveJob, ctx)

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}
	h := handler.New(tracer, analysis, news, market, cfg.ArchiveOutputDir)

	r := newRouterFunc()
	r.Use(otelgin.Middleware(tracing.ServiceName))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}

// openRunStore picks the run store named in cfg. Failures degrade to no
// store so analyses keep working without history.
func openRunStore(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (runStore, func()) {
	switch cfg.RunStore {
	case config.RunStorePostgres:
		pool, err := initPostgresFunc(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("postgres unavailable, run history disabled")
			return nil, func() {}
		}
		repo := repository.NewRunRepository(pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		return repo, closePool(pool)
	case config.RunStoreSQLite:
		store, err := openSQLiteFunc(cfg.SQLitePath, tracer)
		if err != nil {
			log.Error().Err(err).Str("path", cfg.SQLitePath).Msg("sqlite unavailable, run history disabled")
			return nil, func() {}
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("close sqlite run store")
			}
		}
	default:
		log.Info().Msg("run store disabled")
		return nil, func() {}
	}
}

func closePool(pool *pgxpool.Pool) func() {
	return func() {
		if pool != nil {
			pool.Close()
		}
	}
}
