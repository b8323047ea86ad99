// Command archive trains the archive dataset models once and writes the
// prediction CSVs plus prediction_summary.json.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"

	"stocksentix/internal/config"
	"stocksentix/internal/ml/archive"
	"stocksentix/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace/noop"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	_ = logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("archive prediction failed")
	}
}

// run accepts an optional source and output directory as positional
// arguments, falling back to the configured archive paths.
func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("archive", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, dst := cfg.ArchiveSourceDir, cfg.ArchiveOutputDir
	if fs.NArg() > 0 {
		src = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		dst = fs.Arg(1)
	}

	trainer := archive.NewTrainer(noop.NewTracerProvider().Tracer("archive"), nil)
	summary, err := trainer.Run(ctx, src, dst)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
