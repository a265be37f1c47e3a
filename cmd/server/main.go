package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/love-prep/backend/internal/achievements"
	"github.com/love-prep/backend/internal/admin"
	"github.com/love-prep/backend/internal/analytics"
	"github.com/love-prep/backend/internal/answercache"
	"github.com/love-prep/backend/internal/auth"
	"github.com/love-prep/backend/internal/bank"
	"github.com/love-prep/backend/internal/config"
	"github.com/love-prep/backend/internal/database"
	"github.com/love-prep/backend/internal/distractor"
	"github.com/love-prep/backend/internal/generator"
	"github.com/love-prep/backend/internal/httputil"
	"github.com/love-prep/backend/internal/logger"
	"github.com/love-prep/backend/internal/mailer"
	"github.com/love-prep/backend/internal/metrics"
	"github.com/love-prep/backend/internal/middleware"
	"github.com/love-prep/backend/internal/questions"
	"github.com/love-prep/backend/internal/review"
	"github.com/love-prep/backend/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Server)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	metrics.Register(prometheus.DefaultRegisterer)

	var guard answercache.Guard = answercache.Nop{}
	rdb, err := answercache.Connect(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.Warn("redis unavailable, duplicate-answer guard disabled", zap.Error(err))
	case rdb != nil:
		defer rdb.Close()
		guard = answercache.NewRedisGuard(rdb)
		log.Info("duplicate-answer guard using redis", zap.String("addr", cfg.Redis.Addr))
	}

	// Initialize services
	questionBank := bank.NewStore(db, log.Named("bank"))
	users := auth.NewStore(db)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	distractorService := distractor.NewService(distractor.NewStore(db), log.Named("distractor"))
	reviewService := review.NewService(db, questionBank, distractorService, cfg.Practice.ReviewDistractorChance, log.Named("review"))
	achievementService := achievements.NewService(db, log.Named("achievements"))

	authService := auth.NewService(db, users, tokens, mailer.New(cfg.SMTP, log.Named("mailer")),
		cfg.Auth.ResetTTL, cfg.SMTP.ResetURLBase, log.Named("auth"))
	questionService := questions.NewService(db, questions.NewStore(db), questionBank, reviewService,
		achievementService, guard, log.Named("questions"))
	sessionService := session.NewService(db, session.NewStore(db), questionBank, cfg.Practice, log.Named("session"))
	analyticsService := analytics.NewService(analytics.NewStore(db), reviewService, cfg.Practice.DailyGoal)
	adminService := admin.NewService(db, admin.NewStore(db), questionBank, users,
		generator.New(cfg.Generator, log.Named("generator")), log.Named("admin"))

	// Setup router
	limits := middleware.NewLimits()
	go limits.Janitor(ctx)

	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.SecureHeaders, middleware.AccessLog(log.Named("http")), metrics.Middleware)
	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Authenticate(tokens))

	adminRouter := protected.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin(users))

	auth.NewHandler(authService, log).RegisterRoutes(api, protected, limits)
	admin.NewHandler(adminService, log.Named("admin")).RegisterRoutes(adminRouter, limits)
	questions.NewHandler(questionService, log.Named("questions")).RegisterRoutes(protected, limits)
	review.NewHandler(reviewService, log.Named("review")).RegisterRoutes(protected, limits)
	session.NewHandler(sessionService, log.Named("session")).RegisterRoutes(protected, limits)
	achievements.NewHandler(achievementService, log.Named("achievements")).RegisterRoutes(protected, limits)
	analytics.NewHandler(analyticsService, log.Named("analytics")).RegisterRoutes(protected, limits)
	distractor.NewHandler(distractorService, log.Named("distractor")).RegisterRoutes(protected, limits)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           c.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("mode", cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
