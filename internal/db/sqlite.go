package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

// OpenSQLite opens the SQLite database at dsn and migrates models. A single
// connection is used so ":memory:" databases survive across queries.
func OpenSQLite(dsn string, log *slog.Logger, models ...interface{}) (*gorm.DB, error) {
	if log == nil {
		log = slog.Default()
	}
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: &gormLogger{log: log},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if len(models) > 0 {
		if err := gdb.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return gdb, nil
}

type gormLogger struct {
	log *slog.Logger
}

func (l *gormLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *gormLogger) Info(ctx context.Context, s string, args ...interface{}) {
	l.log.InfoContext(ctx, fmt.Sprintf(s, args...))
}

func (l *gormLogger) Warn(ctx context.Context, s string, args ...interface{}) {
	l.log.WarnContext(ctx, fmt.Sprintf(s, args...))
}

func (l *gormLogger) Error(ctx context.Context, s string, args ...interface{}) {
	l.log.ErrorContext(ctx, fmt.Sprintf(s, args...))
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("duration", time.Since(begin)),
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		attrs = append(attrs, slog.String("error", err.Error()))
		l.log.LogAttrs(ctx, slog.LevelError, "gorm: query error", attrs...)
		return
	}
	l.log.LogAttrs(ctx, slog.LevelDebug, "gorm: query", attrs...)
}
