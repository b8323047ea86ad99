package job

import (
	"context"
	"fmt"

	"stocksentix/internal/ml/archive"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type ArchiveRunner interface {
	Run(ctx context.Context, srcDir, outDir string) (*archive.Summary, error)
}

// ArchiveJob regenerates the archive prediction files on a cron schedule.
type ArchiveJob struct {
	tracer   trace.Tracer
	runner   ArchiveRunner
	srcDir   string
	outDir   string
	schedule string
	cron     *cron.Cron
}

func NewArchiveJob(tracer trace.Tracer, runner ArchiveRunner, srcDir, outDir, schedule string) *ArchiveJob {
	return &ArchiveJob{
		tracer:   tracer,
		runner:   runner,
		srcDir:   srcDir,
		outDir:   outDir,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start registers the schedule and blocks until ctx is cancelled. An empty
// schedule disables the job.
func (j *ArchiveJob) Start(ctx context.Context) error {
	if j.runner == nil || j.schedule == "" {
		log.Info().Msg("archive job disabled")
		<-ctx.Done()
		return nil
	}

	if _, err := j.cron.AddFunc(j.schedule, func() { j.runOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid archive schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	log.Info().Str("schedule", j.schedule).Str("source", j.srcDir).Msg("archive job started")

	<-ctx.Done()
	<-j.cron.Stop().Done()
	log.Info().Msg("archive job stopped")
	return nil
}

func (j *ArchiveJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "archive-job.run-once")
	defer span.End()

	summary, err := j.runner.Run(ctx, j.srcDir, j.outDir)
	if err != nil {
		span.RecordError(err)
		log.Error().Err(err).Str("source", j.srcDir).Msg("archive prediction run failed")
		return
	}
	log.Info().
		Str("output", summary.OutputFolder).
		Time("generated_at", summary.GeneratedAt).
		Msg("archive predictions regenerated")
}
