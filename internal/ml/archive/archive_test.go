package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	var combined strings.Builder
	combined.WriteString("\ufeffDate,Label")
	for i := 1; i <= 25; i++ {
		fmt.Fprintf(&combined, ",Top%d", i)
	}
	combined.WriteString("\n")
	for d := 1; d <= 10; d++ {
		label := d % 2
		headline := "b'markets slump on weak outlook'"
		if label == 1 {
			headline = "b'stocks rally on strong earnings'"
		}
		fmt.Fprintf(&combined, "2016-01-%02d,%d,%s", d, label, headline)
		for i := 2; i <= 25; i++ {
			combined.WriteString(",")
		}
		combined.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, CombinedNewsFile), []byte(combined.String()), 0o644))

	reddit := "Date,News\n" +
		"2016-07-01,stocks rally\n" +
		"2016-07-01,strong earnings\n" +
		"2016-06-30,markets slump\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, RedditNewsFile), []byte(reddit), 0o644))

	var djia strings.Builder
	djia.WriteString("Date,Open,High,Low,Close,Volume,Adj Close\n")
	for d := 12; d >= 1; d-- {
		c := 100 + float64(d)
		fmt.Fprintf(&djia, "2016-01-%02d,%.2f,%.2f,%.2f,%.2f,%d,%.2f\n", d, c-0.5, c+1, c-1, c, 1000+d*10, c)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, DJIATableFile), []byte(djia.String()), 0o644))
}

func TestRunWritesArtifacts(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "predictions")
	writeFixtures(t, src)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	trainer := NewTrainer(trace.NewNoopTracerProvider().Tracer("test"), func() time.Time { return now })

	summary, err := trainer.Run(t.Context(), src, out)
	require.NoError(t, err)

	assert.Equal(t, now, summary.GeneratedAt)
	assert.Equal(t, 10, summary.Datasets.CombinedNews.Rows)
	assert.Equal(t, 8, summary.Datasets.CombinedNews.TrainRows)
	assert.Equal(t, 2, summary.Datasets.CombinedNews.TestRows)
	c := summary.Datasets.CombinedNews.Metrics.Confusion
	assert.Equal(t, 2, c.TP+c.TN+c.FP+c.FN)

	assert.Equal(t, 3, summary.Datasets.RedditNews.Rows)
	assert.Equal(t, 2, summary.Datasets.RedditNews.AggregatedDates)

	// 12 days give 10 interior samples: 8 train, 2 test.
	djia := summary.Datasets.DJIATable
	assert.Equal(t, 12, djia.Rows)
	assert.Equal(t, 8, djia.TrainRows)
	assert.Equal(t, 2, djia.TestRows)
	require.NotNil(t, djia.LatestForecast)
	assert.Equal(t, "2016-01-12", djia.LatestForecast.LastKnownDate)

	for _, name := range []string{CombinedPredictionsFile, RedditPredictionsFile, DJIAPredictionsFile, SummaryFile} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	records, err := readRecords(filepath.Join(out, CombinedPredictionsFile))
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, "2016-01-01", records[0]["Date"])
	assert.Equal(t, "train", records[0]["Split"])
	assert.Equal(t, "test", records[9]["Split"])

	reddit, err := readRecords(filepath.Join(out, RedditPredictionsFile))
	require.NoError(t, err)
	require.Len(t, reddit, 2)
	assert.Equal(t, "2016-06-30", reddit[0]["Date"])

	raw, err := os.ReadFile(filepath.Join(out, SummaryFile))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	datasets := decoded["datasets"].(map[string]any)
	assert.Contains(t, datasets, "Combined_News_DJIA")
	assert.Contains(t, datasets, "RedditNews")
	assert.Contains(t, datasets, "upload_DJIA_table")
}

func TestRunMissingInputs(t *testing.T) {
	trainer := NewTrainer(trace.NewNoopTracerProvider().Tracer("test"), nil)
	_, err := trainer.Run(t.Context(), t.TempDir(), t.TempDir())
	assert.ErrorIs(t, err, ErrMissingInputs)
}

func TestLoadPreview(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeFixtures(t, src)

	_, err := LoadPreview(out, 0)
	assert.ErrorIs(t, err, ErrNoArtifacts)

	trainer := NewTrainer(trace.NewNoopTracerProvider().Tracer("test"), nil)
	_, err = trainer.Run(t.Context(), src, out)
	require.NoError(t, err)

	preview, err := LoadPreview(out, 0)
	require.NoError(t, err)
	assert.True(t, json.Valid(preview.Summary))
	assert.Equal(t, CombinedPredictionsFile, preview.Previews.Combined.File)
	assert.Equal(t, 10, preview.Previews.Combined.TotalRows)
	assert.Len(t, preview.Previews.Combined.PreviewRows, 10)
	assert.Len(t, preview.Previews.Reddit.PreviewRows, 2)
	assert.Len(t, preview.Previews.DJIA.PreviewRows, 2)

	preview, err = LoadPreview(out, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, preview.Previews.Combined.TotalRows)
	assert.Len(t, preview.Previews.Combined.PreviewRows, 3)
}

func TestParseRecordsToleratesShortRows(t *testing.T) {
	records, err := parseRecords(strings.NewReader("\ufeffDate,News\n2016-01-01\n\n2016-01-02,hello\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "", records[0]["News"])
	assert.Equal(t, "hello", records[1]["News"])
}
