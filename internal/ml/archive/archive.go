// Package archive trains the offline headline and index-close models over
// the DJIA news archive and writes their predictions as static artifacts.
package archive

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stocksentix/internal/ml/metrics"
	"stocksentix/internal/ml/models/linreg"
	"stocksentix/internal/ml/models/naivebayes"
	"stocksentix/internal/stats"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	CombinedPredictionsFile = "Combined_News_predictions.csv"
	RedditPredictionsFile   = "RedditNews_date_predictions.csv"
	DJIAPredictionsFile     = "DJIA_next_close_test_predictions.csv"
	SummaryFile             = "prediction_summary.json"

	trainShare = 0.8
)

var ErrMissingInputs = errors.New("archive input files missing")

type Confusion struct {
	TP int `json:"tp"`
	TN int `json:"tn"`
	FP int `json:"fp"`
	FN int `json:"fn"`
}

type ClassifierMetrics struct {
	Accuracy  float64   `json:"accuracy"`
	Precision float64   `json:"precision"`
	Recall    float64   `json:"recall"`
	F1        float64   `json:"f1"`
	Confusion Confusion `json:"confusion"`
}

type RegressionMetrics struct {
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

type CombinedSummary struct {
	Rows            int               `json:"rows"`
	TrainRows       int               `json:"trainRows"`
	TestRows        int               `json:"testRows"`
	Metrics         ClassifierMetrics `json:"metrics"`
	PredictionsFile string            `json:"predictionsFile"`
}

type RedditSummary struct {
	Rows            int    `json:"rows"`
	AggregatedDates int    `json:"aggregatedDates"`
	PredictionsFile string `json:"predictionsFile"`
}

type Forecast struct {
	LastKnownDate      string  `json:"lastKnownDate"`
	PredictedNextClose float64 `json:"predictedNextClose"`
}

type DJIASummary struct {
	Rows            int               `json:"rows"`
	TrainRows       int               `json:"trainRows"`
	TestRows        int               `json:"testRows"`
	Metrics         RegressionMetrics `json:"metrics"`
	PredictionsFile string            `json:"predictionsFile"`
	LatestForecast  *Forecast         `json:"latestForecast,omitempty"`
}

type Datasets struct {
	CombinedNews CombinedSummary `json:"Combined_News_DJIA"`
	RedditNews   RedditSummary   `json:"RedditNews"`
	DJIATable    DJIASummary     `json:"upload_DJIA_table"`
}

type Summary struct {
	SourceFolder string    `json:"sourceFolder"`
	OutputFolder string    `json:"outputFolder"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Datasets     Datasets  `json:"datasets"`
}

type Trainer struct {
	tracer     trace.Tracer
	now        func() time.Time
	vocabLimit int
	regression linreg.TrainOptions
}

func NewTrainer(tracer trace.Tracer, now func() time.Time) *Trainer {
	if now == nil {
		now = time.Now
	}
	return &Trainer{
		tracer:     tracer,
		now:        now,
		vocabLimit: naivebayes.DefaultVocabLimit,
		regression: linreg.DefaultTrainOptions(),
	}
}

// Run reads the three archive CSVs from srcDir and writes the prediction
// CSVs plus a JSON summary into outDir.
func (t *Trainer) Run(ctx context.Context, srcDir, outDir string) (*Summary, error) {
	_, span := t.tracer.Start(ctx, "archive-trainer.run")
	defer span.End()

	paths := map[string]string{}
	for _, name := range []string{CombinedNewsFile, RedditNewsFile, DJIATableFile} {
		p := filepath.Join(srcDir, name)
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: expected %s in %s", ErrMissingInputs, name, srcDir)
		}
		paths[name] = p
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	combinedRecords, err := readRecords(paths[CombinedNewsFile])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CombinedNewsFile, err)
	}
	redditRecords, err := readRecords(paths[RedditNewsFile])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", RedditNewsFile, err)
	}
	djiaRecords, err := readRecords(paths[DJIATableFile])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DJIATableFile, err)
	}

	summary := &Summary{
		SourceFolder: srcDir,
		OutputFolder: outDir,
		GeneratedAt:  t.now().UTC(),
	}

	combined := combinedRows(combinedRecords)
	combinedSummary, fullModel, err := t.runCombined(combined, outDir)
	if err != nil {
		return nil, err
	}
	summary.Datasets.CombinedNews = *combinedSummary

	redditSummary, err := t.runReddit(redditRecords, fullModel, outDir)
	if err != nil {
		return nil, err
	}
	summary.Datasets.RedditNews = *redditSummary

	djiaSummary, err := t.runDJIA(djiaRecords, outDir)
	if err != nil {
		return nil, err
	}
	summary.Datasets.DJIATable = *djiaSummary

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(outDir, SummaryFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	log.Info().
		Str("source", srcDir).
		Str("output", outDir).
		Int("combined_rows", len(combined)).
		Int("djia_rows", len(djiaRecords)).
		Msg("archive predictions generated")
	return summary, nil
}

// runCombined trains naive Bayes on the first 80% of days, scores every day
// and returns a second model trained on all days for the Reddit corpus.
func (t *Trainer) runCombined(rows []labeledText, outDir string) (*CombinedSummary, *naivebayes.Model, error) {
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s has no labeled rows", CombinedNewsFile)
	}
	cutoff := int(float64(len(rows)) * trainShare)
	if cutoff == 0 {
		return nil, nil, fmt.Errorf("%s has too few rows to split", CombinedNewsFile)
	}

	model, err := naivebayes.Train(toDocuments(rows[:cutoff]), t.vocabLimit)
	if err != nil {
		return nil, nil, err
	}

	out := [][]string{{"Date", "ActualLabel", "ProbabilityUp", "PredictedLabel", "Split"}}
	var actual, predicted []float64
	for i, r := range rows {
		p, label := model.Predict(r.Text)
		split := "train"
		if i >= cutoff {
			split = "test"
			actual = append(actual, float64(r.Label))
			predicted = append(predicted, float64(label))
		}
		out = append(out, []string{r.Date, strconv.Itoa(r.Label), formatFloat(stats.Round(p, 4)), strconv.Itoa(label), split})
	}
	if err := writeCSV(filepath.Join(outDir, CombinedPredictionsFile), out); err != nil {
		return nil, nil, err
	}

	m := metrics.Evaluate(actual, predicted, 0.5)
	fullModel, err := naivebayes.Train(toDocuments(rows), t.vocabLimit)
	if err != nil {
		return nil, nil, err
	}
	return &CombinedSummary{
		Rows:      len(rows),
		TrainRows: cutoff,
		TestRows:  len(rows) - cutoff,
		Metrics: ClassifierMetrics{
			Accuracy:  stats.Round(m.Accuracy, 4),
			Precision: stats.Round(m.Precision, 4),
			Recall:    stats.Round(m.Recall, 4),
			F1:        stats.Round(m.F1, 4),
			Confusion: Confusion{TP: m.TP, TN: m.TN, FP: m.FP, FN: m.FN},
		},
		PredictionsFile: CombinedPredictionsFile,
	}, fullModel, nil
}

func toDocuments(rows []labeledText) []naivebayes.Document {
	docs := make([]naivebayes.Document, len(rows))
	for i, r := range rows {
		docs[i] = naivebayes.Document{Text: r.Text, Label: r.Label}
	}
	return docs
}

func (t *Trainer) runReddit(records []record, model *naivebayes.Model, outDir string) (*RedditSummary, error) {
	days := aggregateByDate(records)
	out := [][]string{{"Date", "ProbabilityUp", "PredictedLabel"}}
	for _, d := range days {
		p, label := model.Predict(d.Text)
		out = append(out, []string{d.Date, formatFloat(stats.Round(p, 4)), strconv.Itoa(label)})
	}
	if err := writeCSV(filepath.Join(outDir, RedditPredictionsFile), out); err != nil {
		return nil, err
	}
	return &RedditSummary{
		Rows:            len(records),
		AggregatedDates: len(days),
		PredictionsFile: RedditPredictionsFile,
	}, nil
}

// runDJIA regresses the next close on engineered OHLCV features with an
// 80/20 chronological split, then forecasts past the last known day.
func (t *Trainer) runDJIA(records []record, outDir string) (*DJIASummary, error) {
	rows := ohlcvRows(records)
	samples := closeSamples(rows)
	cutoff := int(float64(len(samples)) * trainShare)
	if cutoff == 0 || cutoff == len(samples) {
		return nil, fmt.Errorf("%s has too few rows to split", DJIATableFile)
	}
	train, test := samples[:cutoff], samples[cutoff:]

	x := make([][]float64, len(train))
	y := make([]float64, len(train))
	for i, s := range train {
		x[i] = s.Features
		y[i] = s.NextClose
	}
	model, err := linreg.Train(x, y, t.regression)
	if err != nil {
		return nil, fmt.Errorf("train next-close regression: %w", err)
	}

	out := [][]string{{"Date", "ActualNextClose", "PredictedNextClose", "AbsoluteError"}}
	actual := make([]float64, len(test))
	predicted := make([]float64, len(test))
	for i, s := range test {
		actual[i] = s.NextClose
		predicted[i] = model.Predict(s.Features)
		absErr := predicted[i] - actual[i]
		if absErr < 0 {
			absErr = -absErr
		}
		out = append(out, []string{
			s.Date,
			formatFloat(stats.Round(actual[i], 4)),
			formatFloat(stats.Round(predicted[i], 4)),
			formatFloat(stats.Round(absErr, 4)),
		})
	}
	if err := writeCSV(filepath.Join(outDir, DJIAPredictionsFile), out); err != nil {
		return nil, err
	}

	reg := metrics.EvaluateRegression(actual, predicted)
	latest, prev := rows[len(rows)-1], rows[len(rows)-2]
	return &DJIASummary{
		Rows:      len(records),
		TrainRows: len(train),
		TestRows:  len(test),
		Metrics: RegressionMetrics{
			MAE:  stats.Round(reg.MAE, 4),
			RMSE: stats.Round(reg.RMSE, 4),
			MAPE: stats.Round(reg.MAPE, 4),
		},
		PredictionsFile: DJIAPredictionsFile,
		LatestForecast: &Forecast{
			LastKnownDate:      latest.Date,
			PredictedNextClose: stats.Round(model.Predict(closeFeatures(prev, latest)), 4),
		},
	}, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
