package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/ranihwanifactory/mya/internal/app"
	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/config"
	"github.com/ranihwanifactory/mya/internal/portfolio"
)

var samples = []portfolio.Item{
	{
		Title:       "동네 베이커리 주문 앱",
		Description: "매장 픽업 예약과 적립을 한 번에 처리하는 주문 앱",
		Category:    "Order System",
		Tags:        []string{"Flutter", "Firebase", "Kiosk"},
	},
	{
		Title:       "AI 상담 챗봇",
		Description: "상품 문의를 자동으로 응대하는 AI 상담 서비스",
		Category:    "AI Service",
		Tags:        []string{"LLM", "Chat"},
		IsFeatured:  true,
	},
	{
		Title:       "스타트업 MVP",
		Description: "투자 유치를 위한 빠른 시장 검증용 앱",
		Category:    "Startup",
		Tags:        []string{"MVP", "React Native"},
	},
}

func main() {
	withSamples := flag.Bool("samples", false, "also insert sample portfolio items")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := app.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer stores.Close(context.Background())

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logger.Warn("seed: ADMIN_EMAIL or ADMIN_PASSWORD missing, admin user skipped")
	} else {
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatal(err)
		}
		if err := stores.Users.Upsert(ctx, cfg.AdminEmail, hash); err != nil {
			log.Fatal(err)
		}
		logger.Info("seed: admin user ready", slog.String("email", auth.NormalizeEmail(cfg.AdminEmail)))
	}

	if !*withSamples {
		return
	}

	existing, err := stores.Portfolio.List(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if len(existing) > 0 {
		logger.Info("seed: portfolio not empty, samples skipped", slog.Int("count", len(existing)))
		return
	}
	for _, item := range samples {
		id, err := stores.Portfolio.Create(ctx, item)
		if err != nil {
			log.Fatal(err)
		}
		logger.Info("seed: portfolio item created", slog.String("portfolio_id", id), slog.String("title", item.Title))
	}
}
