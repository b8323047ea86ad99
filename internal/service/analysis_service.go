package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"stocksentix/internal/correlation"
	"stocksentix/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 100
)

type CorrelationRunner interface {
	Run(ctx context.Context, req correlation.Request) (*domain.CorrelationReport, error)
}

type Predictor interface {
	Predict(ctx context.Context, ticker, from, to string) (*domain.PredictionReport, error)
}

// RunSink persists completed runs.
type RunSink interface {
	Persist(ctx context.Context, run domain.RunRecord) error
}

type RunReader interface {
	Recent(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error)
}

type RunMetrics interface {
	ObserveRun(mode, outcome string, d time.Duration)
	SinkFailure(sink string)
}

type RunRequest struct {
	Ticker      string
	Model       string
	DateFrom    string
	DateTo      string
	RequestedBy string
}

// RunOutcome carries the report returned to the caller and the record
// handed to the sink.
type RunOutcome struct {
	Report any
	Record domain.RunRecord
}

// AnalysisService dispatches a run to the correlation pipeline or the
// CSV prediction engine and records the result.
type AnalysisService struct {
	tracer      trace.Tracer
	correlation CorrelationRunner
	predictor   Predictor
	sink        RunSink
	reader      RunReader
	metrics     RunMetrics
	now         func() time.Time
	newID       func() string
}

func NewAnalysisService(
	tracer trace.Tracer,
	correlation CorrelationRunner,
	predictor Predictor,
	sink RunSink,
	reader RunReader,
	metrics RunMetrics,
) *AnalysisService {
	return &AnalysisService{
		tracer:      tracer,
		correlation: correlation,
		predictor:   predictor,
		sink:        sink,
		reader:      reader,
		metrics:     metrics,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (s *AnalysisService) Run(ctx context.Context, req RunRequest) (*RunOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.run")
	defer span.End()

	mode := domain.RunTypeCorrelation
	if req.Model == domain.ModelCSVML {
		mode = domain.RunTypePrediction
	}
	span.SetAttributes(attribute.String("mode", mode), attribute.String("ticker", req.Ticker))

	started := s.now()
	outcome, err := s.dispatch(ctx, mode, req)
	if s.metrics != nil {
		s.metrics.ObserveRun(mode, outcomeLabel(err), s.now().Sub(started))
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.persist(ctx, outcome.Record)
	return outcome, nil
}

func (s *AnalysisService) dispatch(ctx context.Context, mode string, req RunRequest) (*RunOutcome, error) {
	record := domain.RunRecord{
		ID:          s.newID(),
		Date:        s.now().UTC(),
		RequestedBy: req.RequestedBy,
		Stock:       req.Ticker,
		Model:       req.Model,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
		RunType:     mode,
	}

	if mode == domain.RunTypePrediction {
		report, err := s.predictor.Predict(ctx, req.Ticker, req.DateFrom, req.DateTo)
		if err != nil {
			return nil, err
		}
		record.Correlation = report.Correlation
		record.SampleSize = report.SampleSize
		label, prob := report.PredictionLabel, report.PredictionProbability
		record.PredictionLabel = &label
		record.PredictionProbability = &prob
		return &RunOutcome{Report: report, Record: record}, nil
	}

	report, err := s.correlation.Run(ctx, correlation.Request{
		Ticker:   req.Ticker,
		Model:    req.Model,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	})
	if err != nil {
		return nil, err
	}
	record.Correlation = report.Correlation
	record.SampleSize = report.SampleSize
	return &RunOutcome{Report: report, Record: record}, nil
}

// persist stores the run without letting a sink failure reach the caller.
func (s *AnalysisService) persist(ctx context.Context, run domain.RunRecord) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Persist(ctx, run); err != nil {
		log.Error().Err(err).Str("run_id", run.ID).Str("ticker", run.Stock).Msg("failed to persist run")
		if s.metrics != nil {
			s.metrics.SinkFailure("run-store")
		}
	}
}

// History returns the most recent runs, newest first.
func (s *AnalysisService) History(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.history")
	defer span.End()

	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	filter.RequestedBy = strings.TrimSpace(filter.RequestedBy)
	if s.reader == nil {
		return []domain.RunRecord{}, nil
	}
	return s.reader.Recent(ctx, filter)
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrFutureDate):
		return "future_date"
	case errors.Is(err, domain.ErrInvalidRange):
		return "invalid_range"
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, domain.ErrTickerNotFound):
		return "ticker_not_found"
	case errors.Is(err, domain.ErrDataSource):
		return "data_source"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid_request"
	default:
		return "error"
	}
}
