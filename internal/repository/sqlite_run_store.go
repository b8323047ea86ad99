package repository

import (
	"context"
	"fmt"

	"stocksentix/internal/domain"

	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteRunStore keeps runs in a local SQLite file for deployments without Postgres.
type SQLiteRunStore struct {
	db     *gorm.DB
	tracer trace.Tracer
}

// OpenSQLiteRunStore opens (creating if needed) the database at path and
// migrates the runs table. Use ":memory:" for an ephemeral store.
func OpenSQLiteRunStore(path string, tracer trace.Tracer) (*SQLiteRunStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&domain.RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite runs: %w", err)
	}
	return &SQLiteRunStore{db: db, tracer: tracer}, nil
}

func (s *SQLiteRunStore) Persist(ctx context.Context, run domain.RunRecord) error {
	ctx, span := s.tracer.Start(ctx, "sqlite-run-store.persist")
	defer span.End()

	return s.db.WithContext(ctx).Create(&run).Error
}

func (s *SQLiteRunStore) Recent(ctx context.Context, filter domain.RunFilter) ([]domain.RunRecord, error) {
	ctx, span := s.tracer.Start(ctx, "sqlite-run-store.recent")
	defer span.End()

	q := s.db.WithContext(ctx).Order("date DESC")
	if filter.RequestedBy != "" {
		q = q.Where("requested_by = ?", filter.RequestedBy)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	runs := []domain.RunRecord{}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *SQLiteRunStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
