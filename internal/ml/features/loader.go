package features

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"stocksentix/internal/domain"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (io.ReadCloser, error)
}

type osFileSystem struct{}

func (osFileSystem) Stat(name string) (fs.FileInfo, error)   { return os.Stat(name) }
func (osFileSystem) Open(name string) (io.ReadCloser, error) { return os.Open(name) }

// OSFileSystem reads from the local disk.
func OSFileSystem() FileSystem { return osFileSystem{} }

type CacheObserver interface {
	FeatureCacheHit()
	FeatureCacheMiss()
}

type snapshot struct {
	path     string
	modTime  time.Time
	rows     []domain.FeatureRow
	loadedAt time.Time
}

// Loader owns the parsed-dataset cache. The cache holds one snapshot keyed
// by resolved path and modification time. Concurrent cold loads may parse
// the file more than once; the last one to finish is kept.
type Loader struct {
	tracer   trace.Tracer
	schema   Schema
	fs       FileSystem
	now      func() time.Time
	observer CacheObserver
	cache    atomic.Pointer[snapshot]
}

type LoaderOption func(*Loader)

func WithFileSystem(fsys FileSystem) LoaderOption {
	return func(l *Loader) { l.fs = fsys }
}

func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

func WithObserver(o CacheObserver) LoaderOption {
	return func(l *Loader) { l.observer = o }
}

func NewLoader(tracer trace.Tracer, schema Schema, opts ...LoaderOption) *Loader {
	l := &Loader{
		tracer: tracer,
		schema: schema,
		fs:     OSFileSystem(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Schema() Schema { return l.schema }

// Load returns every valid row of the file at path, ascending by date.
// The returned slice is a fresh copy; rows themselves must not be mutated.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.FeatureRow, error) {
	_, span := l.tracer.Start(ctx, "feature-loader.load")
	defer span.End()

	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, domain.DataSourceError("feature", err)
	}
	info, err := l.fs.Stat(resolved)
	if err != nil {
		return nil, domain.DataSourceError("feature", err)
	}

	if snap := l.cache.Load(); snap != nil && snap.path == resolved && snap.modTime.Equal(info.ModTime()) && len(snap.rows) > 0 {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		if l.observer != nil {
			l.observer.FeatureCacheHit()
		}
		return append([]domain.FeatureRow(nil), snap.rows...), nil
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))
	if l.observer != nil {
		l.observer.FeatureCacheMiss()
	}

	rows, err := l.parse(resolved)
	if err != nil {
		return nil, domain.DataSourceError("feature", err)
	}
	l.cache.Store(&snapshot{path: resolved, modTime: info.ModTime(), rows: rows, loadedAt: l.now()})
	log.Info().Str("path", resolved).Int("rows", len(rows)).Msg("feature dataset loaded")

	return append([]domain.FeatureRow(nil), rows...), nil
}

// LoadedAt reports when the cached snapshot was parsed, or the zero time.
func (l *Loader) LoadedAt() time.Time {
	if snap := l.cache.Load(); snap != nil {
		return snap.loadedAt
	}
	return time.Time{}
}

func (l *Loader) parse(path string) ([]domain.FeatureRow, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []domain.FeatureRow
	if err := l.schema.Stream(f, func(row domain.FeatureRow) error {
		rows = append(rows, row)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	SortByDate(rows)
	return rows, nil
}

// SortByDate orders rows by ISO date, keeping file order within a day.
func SortByDate(rows []domain.FeatureRow) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
}

// FilterRange keeps rows whose date lies in the inclusive [from, to] window.
// Bounds that parse as dates are compared in canonical form.
func FilterRange(rows []domain.FeatureRow, from, to string) []domain.FeatureRow {
	if c, err := domain.CanonicalDate(from); err == nil {
		from = c
	}
	if c, err := domain.CanonicalDate(to); err == nil {
		to = c
	}
	out := make([]domain.FeatureRow, 0, len(rows))
	for _, r := range rows {
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out
}
