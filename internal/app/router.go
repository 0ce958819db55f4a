package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ranihwanifactory/mya/internal/admin"
	"github.com/ranihwanifactory/mya/internal/auth"
	"github.com/ranihwanifactory/mya/internal/cache"
	"github.com/ranihwanifactory/mya/internal/catalog"
	"github.com/ranihwanifactory/mya/internal/config"
	"github.com/ranihwanifactory/mya/internal/leads"
	"github.com/ranihwanifactory/mya/internal/middleware"
	"github.com/ranihwanifactory/mya/internal/portfolio"
	"github.com/ranihwanifactory/mya/internal/pricing"
	"github.com/ranihwanifactory/mya/internal/transport"
	"github.com/ranihwanifactory/mya/internal/validation"
)

// Deps are the collaborators the router is built from. Cache, Notifier and
// Gatherer are optional.
type Deps struct {
	Config   *config.Config
	Catalog  *catalog.Catalog
	Stores   *Stores
	Cache    cache.Cache
	Notifier leads.Notifier
	Gatherer prometheus.Gatherer
	Log      *slog.Logger
}

func (d Deps) jwtManager() *auth.Manager {
	if d.Config.JWTSecret == "" {
		return nil
	}
	return &auth.Manager{
		Secret:     []byte(d.Config.JWTSecret),
		AccessTTL:  time.Duration(d.Config.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(d.Config.RefreshTTLMinutes) * time.Minute,
		Issuer:     "studio-api",
	}
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	val := validation.New(d.Catalog)
	manager := d.jwtManager()
	guard := auth.Guard{IsAuthorized: auth.AllowList(cfg.AdminEmail)}

	pricingHandler := pricing.NewHandler(d.Catalog, d.Log)
	leadService := leads.NewService(d.Stores.Leads, d.Catalog, d.Notifier)
	leadHandler := leads.NewHandler(leadService, val, d.Log, cfg.ReportLeadFailures)
	portfolioService := portfolio.NewService(d.Stores.Portfolio, d.Cache, cfg.CacheTTL())
	portfolioHandler := portfolio.NewHandler(portfolioService, d.Catalog, val, d.Log)
	adminHandler := admin.NewHandler(d.Stores.Users, manager, guard, val, d.Log, cfg.CookieSecure)

	estimatesLimiter := middleware.NewRateLimiter(cfg.RateLimitEstimates, cfg.RateLimitWindow())
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitLogin, cfg.RateLimitWindow())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Session(manager))

		api.Get("/catalog", pricingHandler.Catalog)
		api.Post("/estimates/preview", pricingHandler.Preview)
		api.With(estimatesLimiter.Middleware).Post("/estimates", leadHandler.Submit)
		api.Get("/portfolio", portfolioHandler.Gallery)

		api.Route("/admin", func(adm chi.Router) {
			adm.With(loginLimiter.Middleware).Post("/login", adminHandler.Login)
			adm.Post("/refresh", adminHandler.Refresh)
			adm.Post("/logout", adminHandler.Logout)
			adm.Get("/session", adminHandler.Session)

			adm.Group(func(protected chi.Router) {
				protected.Use(middleware.RequireAdmin(guard))
				protected.Get("/portfolio", portfolioHandler.AdminList)
				protected.Post("/portfolio", portfolioHandler.AdminCreate)
				protected.Patch("/portfolio/{id}", portfolioHandler.AdminUpdate)
				protected.Delete("/portfolio/{id}", portfolioHandler.AdminDelete)
				protected.Get("/leads", leadHandler.AdminList)
			})
		})
	})

	return r
}
