package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"vectorcraft-admin/api/handlers"
	"vectorcraft-admin/config"
	"vectorcraft-admin/core/cache"
	"vectorcraft-admin/core/perf"
	"vectorcraft-admin/core/pricing"
	"vectorcraft-admin/core/store"
	"vectorcraft-admin/core/tuning"
	"vectorcraft-admin/core/utils"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	cfg        *config.AppConfig
	router     chi.Router
	httpServer *http.Server
	logger     *utils.Logger
	db         *sql.DB

	tuningStore  store.TuningStore
	pricingStore store.PricingStore
	audits       store.AuditStore
	quotes       *cache.QuoteCache
	optimizer    *tuning.Optimizer
	collector    *perf.Collector
	pricingSvc   *pricing.Service
}

func NewServer(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) *Server {
	tuningStore := store.NewTuningStore(db)
	pricingStore := store.NewPricingStore(db)
	audits := store.NewAuditStore(db)
	quotes := cache.NewQuoteCache(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.Cache.KeyPrefix, logger)
	optimizer := tuning.NewOptimizer(db, quotes, logger)

	// Pick up parameters persisted by a previous run.
	if settings, err := tuningStore.GetTuning(context.Background()); err != nil {
		if logger != nil {
			logger.Errorf("tuning restore: %v", err)
		}
	} else if settings != nil {
		optimizer.Apply(settings.Params)
	}

	collector := perf.NewCollector(db, quotes.HitRate, optimizer, tuningStore, audits,
		cfg.Perf.SampleSchedule, cfg.Perf.WindowSize, logger)
	pricingSvc := pricing.NewService(pricingStore, quotes, audits, logger)

	s := &Server{
		cfg:          cfg,
		router:       chi.NewRouter(),
		logger:       logger,
		db:           db,
		tuningStore:  tuningStore,
		pricingStore: pricingStore,
		audits:       audits,
		quotes:       quotes,
		optimizer:    optimizer,
		collector:    collector,
		pricingSvc:   pricingSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	if s.collector != nil {
		if err := s.collector.Start(); err != nil {
			return err
		}
	}
	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	if s.cfg.TLSEnabled {
		return s.httpServer.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.collector != nil {
		s.collector.Stop()
	}
	if s.quotes != nil {
		_ = s.quotes.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree; tests drive it directly.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.securityHeadersMiddleware)

	pages := handlers.NewPagesHandler(s.optimizer, s.collector, s.pricingSvc, s.logger)
	perfHandler := handlers.NewPerformanceHandler(s.tuningStore, s.optimizer, s.collector, s.audits, s.logger)
	priceHandler := handlers.NewPricingHandler(s.pricingSvc, s.logger)

	s.router.Get("/", s.redirectToEntry)
	s.router.Get("/admin/performance", pages.Performance)
	s.router.Get("/admin/pricing", pages.Pricing)

	s.router.Route("/admin/performance/api", func(r chi.Router) {
		r.Use(s.jsonMiddleware)
		r.Use(s.requestTimeoutMiddleware)
		r.Get("/tuning-parameters", perfHandler.GetTuning)
		r.Post("/tuning-parameters", perfHandler.ApplyTuning)
		r.Post("/tuning-parameters/reset", perfHandler.ResetTuning)
		r.Get("/snapshot", perfHandler.Snapshot)
	})

	s.router.Route("/admin/pricing/api", func(r chi.Router) {
		r.Use(s.jsonMiddleware)
		r.Use(s.requestTimeoutMiddleware)
		r.Get("/rules", priceHandler.ListRules)
		r.Post("/rules", priceHandler.CreateRule)
		r.Put("/rules/{id}", priceHandler.UpdateRule)
		r.Get("/quote/{sku}", priceHandler.QuoteSKU)
	})

	s.registerObservabilityRoutes()
}

func (s *Server) redirectToEntry(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin/performance", http.StatusFound)
}
