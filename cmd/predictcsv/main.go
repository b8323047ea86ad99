// Command predictcsv trains the indicator classifier on a whole CSV file and
// prints the batch report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"

	"stocksentix/internal/config"
	"stocksentix/internal/ml/features"
	"stocksentix/internal/ml/models/logreg"
	"stocksentix/internal/ml/prediction"
	"stocksentix/internal/ml/training"
	"stocksentix/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultUploadPath = "server/data/uploads/data.csv"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	_ = logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("csv prediction failed")
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("predictcsv", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := defaultUploadPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	tracer := noop.NewTracerProvider().Tracer("predictcsv")
	schema := features.IndicatorSchema
	loader := features.NewLoader(tracer, schema)
	trainer := training.NewLogisticTrainer(tracer, schema.Features, logreg.DefaultTrainOptions())
	engine := prediction.NewEngine(tracer, loader, trainer, path)

	rows, err := loader.Load(ctx, path)
	if err != nil {
		return err
	}
	report, err := engine.RunBatch(ctx, rows, schema.Features)
	if err != nil {
		return err
	}
	report.FilePath = path

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
