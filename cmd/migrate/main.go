package main

import (
	"context"
	"embed"
	"os"
	"strconv"

	"stocksentix/internal/config"
	"stocksentix/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	cmdUp      = "up"
	cmdDown    = "down"
	cmdVersion = "version"
	cmdStatus  = "status"

	usage = "usage: go run ./cmd/migrate [up|down|version|status] [steps]"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc = godotenv.Load
	openPool    = pgxpool.New
)

func main() {
	_ = loadEnvFunc()
	cfg := config.Load()
	_ = logger.Init(cfg.LogLevel, cfg.LogFormat)

	if len(os.Args) < 2 {
		log.Fatal().Msg(usage)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		log.Fatal().Err(err).Msg("load migrations")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()

	m := &migrator{db: pool, migrations: migrations}
	if err := m.ensureTable(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure schema_migrations table")
	}

	switch os.Args[1] {
	case cmdUp:
		n, err := m.up(ctx)
		if err != nil {
			log.Fatal().Err(err).Int("applied", n).Msg("apply migrations up")
		}
		log.Info().Int("applied", n).Msg("migrations up complete")
	case cmdDown:
		steps := 1
		if len(os.Args) > 2 {
			n, err := strconv.Atoi(os.Args[2])
			if err != nil || n <= 0 {
				log.Fatal().Str("steps", os.Args[2]).Msg("invalid down steps")
			}
			steps = n
		}
		n, err := m.down(ctx, steps)
		if err != nil {
			log.Fatal().Err(err).Int("rolled_back", n).Msg("apply migrations down")
		}
		log.Info().Int("rolled_back", n).Msg("migrations down complete")
	case cmdVersion:
		version, name, err := m.current(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("read current version")
		}
		if version == 0 {
			log.Info().Msg("no migrations applied")
			return
		}
		log.Info().Int64("version", version).Str("name", name).Msg("current version")
	case cmdStatus:
		applied, err := m.appliedVersions(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("read applied versions")
		}
		for _, mig := range pending(migrations, applied) {
			log.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("pending")
		}
		log.Info().Int("applied", len(applied)).Int("total", len(migrations)).Msg("migration status")
	default:
		log.Fatal().Str("command", os.Args[1]).Msg(usage)
	}
}
