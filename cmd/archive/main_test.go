package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"stocksentix/internal/config"
	"stocksentix/internal/ml/archive"
)

func TestRunReportsMissingInputs(t *testing.T) {
	cfg := &config.Config{ArchiveSourceDir: t.TempDir(), ArchiveOutputDir: t.TempDir()}
	var out bytes.Buffer

	err := run(context.Background(), cfg, nil, &out)
	if !errors.Is(err, archive.ErrMissingInputs) {
		t.Fatalf("expected ErrMissingInputs, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunPositionalArgsOverrideConfig(t *testing.T) {
	cfg := &config.Config{ArchiveSourceDir: "/does/not/exist", ArchiveOutputDir: t.TempDir()}

	err := run(context.Background(), cfg, []string{t.TempDir()}, &bytes.Buffer{})
	if !errors.Is(err, archive.ErrMissingInputs) {
		t.Fatalf("expected ErrMissingInputs for empty override dir, got %v", err)
	}
}
