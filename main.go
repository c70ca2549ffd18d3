package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"regiobon/admin"
	"regiobon/db"
	"regiobon/moderation"
	"regiobon/mq"
	"regiobon/ratelim"
	"regiobon/reports"
	"regiobon/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.RequestURI).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("200"))
}

func setupRouter(rateLimiter *ratelim.RateLimiter, reportHandler *reports.Handler, adminHandler *admin.Handler) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddShopRoutes(router)
	routes.AddReviewRoutes(router)
	routes.AddReportRoutes(router, reportHandler, rateLimiter)
	routes.AddCartRoutes(router)
	routes.AddAdminRoutes(router, adminHandler)
	routes.AddStaticRoutes(router)

	return router
}

func envInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found; using system environment")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("APP_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure indexes")
	}
	cancel()

	// Escalation thresholds are explicit engine input, not ambient config.
	cfg := moderation.Config{
		ShopperWarningThreshold: envInt("SHOPPER_WARNING_THRESHOLD", 3),
		OwnerReportThreshold:    envInt("OWNER_REPORT_THRESHOLD", 5),
	}
	engine := moderation.NewEngine(moderation.NewMongoStore(), cfg, mq.NewPublisher())

	reportStore := reports.NewMongoStore()
	reportHandler := reports.NewHandler(reports.NewService(reportStore, reportStore))
	adminHandler := admin.NewHandler(engine)

	go mq.StartModerationWorker()

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(rateLimiter, reportHandler, adminHandler)

	// CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		log.Info().Str("addr", port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("Shutdown signal received; shutting down gracefully")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Graceful shutdown failed")
	}

	if err := db.Client.Disconnect(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Mongo disconnect failed")
	}

	log.Info().Msg("Server stopped cleanly")
}
