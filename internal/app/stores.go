// Package app assembles the service from its configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/config"
	"github.com/ranihwanifactory/mya/internal/db"
	"github.com/ranihwanifactory/mya/internal/leads"
	"github.com/ranihwanifactory/mya/internal/portfolio"
)

// Stores are the persistence backends selected by STORE_DRIVER.
type Stores struct {
	Portfolio portfolio.Store
	Leads     leads.Store
	Users     auth.UserStore
	close     func(context.Context) error
}

func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func OpenStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		return openSQLite(cfg.SQLitePath, log)
	default:
		return openMongo(ctx, cfg, log)
	}
}

func openMongo(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Stores, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return nil, fmt.Errorf("mongo connection failed: %w", err)
	}
	if err := db.EnsureIndexes(ctx, cols); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("index creation failed: %w", err)
	}
	log.Info("mongo connected", slog.String("db", cfg.MongoDB))

	return &Stores{
		Portfolio: portfolio.NewRepository(cols.Portfolios),
		Leads:     leads.NewRepository(cols.ProjectRequests),
		Users:     auth.NewMongoUserStore(cols.Users),
		close:     client.Disconnect,
	}, nil
}

func openSQLite(path string, log *slog.Logger) (*Stores, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite directory: %w", err)
		}
	}
	gdb, err := db.OpenSQLite(path, log, &portfolio.Row{}, &leads.Row{}, &auth.User{})
	if err != nil {
		return nil, err
	}
	log.Info("sqlite opened", slog.String("path", path))

	return &Stores{
		Portfolio: portfolio.NewSQLRepository(gdb),
		Leads:     leads.NewSQLRepository(gdb),
		Users:     auth.NewSQLUserStore(gdb),
		close: func(context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}, nil
}
