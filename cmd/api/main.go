package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	logging "github.com/ipfs/go-log/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/raulk/clock"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/groupescrow/docs"
	"github.com/fkhayef/groupescrow/internal/auditlog"
	"github.com/fkhayef/groupescrow/internal/config"
	"github.com/fkhayef/groupescrow/internal/database"
	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/internal/group"
	"github.com/fkhayef/groupescrow/internal/metrics"
	mw "github.com/fkhayef/groupescrow/pkg/middleware"
)

var log = logging.Logger("main")

// @title        Group Escrow API
// @version      1.0
// @description  Deposit escrow for study groups: payments, redistribution and settlement.
// @BasePath     /api/v1
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	if err := logging.SetLogLevel("*", cfg.LogLevel); err != nil {
		log.Warnw("invalid log level, keeping default", "level", cfg.LogLevel, "error", err)
	}

	owner, err := escrow.ParseKey(cfg.OwnerID)
	if err != nil {
		log.Fatalf("Invalid OWNER_ID: %v", err)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	log.Info("Connected to database successfully")

	// Redistribution Policy Factory (Factory Pattern)
	policyFactory := escrow.NewPolicyFactory()
	policy, err := policyFactory.CreateFromString(cfg.RedistributionPolicy)
	if err != nil {
		log.Fatalf("Invalid REDISTRIBUTION_POLICY: %v", err)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	// Contract log feature
	auditRepo := auditlog.NewRepository(db)
	auditService := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditService)

	// Escrow feature (with policy and clock injected)
	groupRepo := group.NewRepository(db)
	registry, err := group.NewRegistry(groupRepo, owner, cfg.RegistryCacheSize,
		escrow.WithPolicy(policy),
		escrow.WithClock(clock.New()),
	)
	if err != nil {
		log.Fatalf("Failed to create escrow registry: %v", err)
	}
	groupService := group.NewService(registry, groupRepo, auditService)
	groupHandler := group.NewHandler(groupService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	docs.SwaggerInfo.Host = ""
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.CallerMiddleware)

		// Mount feature routers
		r.Mount("/escrows", groupHandler.Routes())
		r.Mount("/contract-log", auditHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infow("Server starting", "port", port, "owner", owner, "policy", policy.Type())
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
