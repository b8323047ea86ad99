package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const PreviewRows = 12

// ErrNoArtifacts means the batch job has not produced output yet.
var ErrNoArtifacts = errors.New("archive prediction artifacts not found")

type FilePreview struct {
	File        string              `json:"file"`
	TotalRows   int                 `json:"totalRows"`
	PreviewRows []map[string]string `json:"previewRows"`
}

type Previews struct {
	Combined FilePreview `json:"combined"`
	Reddit   FilePreview `json:"reddit"`
	DJIA     FilePreview `json:"djia"`
}

type Preview struct {
	Summary  json.RawMessage `json:"summary"`
	Previews Previews        `json:"previews"`
}

// LoadPreview returns the stored summary and the first rows of each
// prediction CSV in dir.
func LoadPreview(dir string, limit int) (*Preview, error) {
	if limit <= 0 {
		limit = PreviewRows
	}

	summary, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoArtifacts
	}
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	if !json.Valid(summary) {
		return nil, fmt.Errorf("summary %s is not valid JSON", SummaryFile)
	}

	p := &Preview{Summary: summary}
	for _, f := range []struct {
		name string
		dst  *FilePreview
	}{
		{CombinedPredictionsFile, &p.Previews.Combined},
		{RedditPredictionsFile, &p.Previews.Reddit},
		{DJIAPredictionsFile, &p.Previews.DJIA},
	} {
		fp, err := previewFile(dir, f.name, limit)
		if err != nil {
			return nil, err
		}
		*f.dst = *fp
	}
	return p, nil
}

func previewFile(dir, name string, limit int) (*FilePreview, error) {
	records, err := readRecords(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoArtifacts
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	fp := &FilePreview{File: name, TotalRows: len(records)}
	for i, r := range records {
		if i == limit {
			break
		}
		fp.PreviewRows = append(fp.PreviewRows, r)
	}
	return fp, nil
}
