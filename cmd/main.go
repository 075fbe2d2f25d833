package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"jewellery-catalog-service/internal/api"
	"jewellery-catalog-service/internal/cache"
	"jewellery-catalog-service/internal/catalog"
	"jewellery-catalog-service/internal/config"
	"jewellery-catalog-service/internal/logger"
	"jewellery-catalog-service/internal/metrics"
	"jewellery-catalog-service/internal/store"
)

const defaultAppName = "jewellery-catalog-service"

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// No logger settings yet.
		bootLog := logger.New(logger.Options{ServiceName: defaultAppName})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		ServiceName: defaultAppName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	if envErr != nil {
		log.Info().Msg("no .env file loaded, relying on process environment")
	}
	log.Info().Str("app_env", cfg.AppEnv).Str("cache_driver", cfg.Cache.Driver).Msg("configuration loaded")

	// --- Database Connection ---
	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database connection")
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	log.Info().Str("host", cfg.Postgres.Host).Str("dbname", cfg.Postgres.DBName).Msg("database connection established")
	dbStore := store.NewPostgresStore(db)

	// --- Catalog ---
	snapshotCache, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Driver,
		RedisURL: cfg.Cache.RedisURL,
		Size:     cfg.Cache.Size,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize snapshot cache")
	}
	catalogMetrics := metrics.NewCatalogMetrics(prometheus.DefaultRegisterer)
	catalogService := catalog.NewService(dbStore, snapshotCache, cfg.Cache.TTL, catalogMetrics, log)

	httpAPIHandler := api.NewHTTPHandler(catalogService, catalogMetrics, log)
	grpcAPIHandler := api.NewGRPCHandler(catalogService, catalogMetrics, log)

	// --- HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, log)
	registerHealthCheck(httpRouter, log, dbStore)
	httpRouter.Handle("/metrics", promhttp.Handler())
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		log.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
		}
		log.Info().Msg("HTTP server has stopped")
	}()

	// --- gRPC Server ---
	grpcServer := setupGRPCServer(log, grpcAPIHandler, !cfg.IsProduction())
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.GrpcServer.Port).Msg("failed to listen for gRPC")
	}

	go func() {
		log.Info().Str("port", cfg.GrpcServer.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Fatal().Err(err).Msg("gRPC server Serve error")
		}
		log.Info().Msg("gRPC server has stopped")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(log, httpServer, grpcServer, snapshotCache, dbStore, shutdownComplete)

	<-shutdownComplete
	log.Info().Msg("service shutdown sequence finished")
}

func setupBaseMiddleware(router *chi.Mux, log zerolog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
}

func registerHealthCheck(router *chi.Mux, log zerolog.Logger, dbStore store.ProductDocumentReader) {
	healthPath := "/api/v1/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		dbStatus := "healthy"
		if err := dbStore.Ping(ctx); err != nil {
			dbStatus = "unhealthy"
			log.Warn().Err(err).Msg("health check DB ping failed")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK) // payload carries the detailed status
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    dbStatus,
		})
	})
}

func setupGRPCServer(log zerolog.Logger, grpcAPIHandler *api.GRPCHandler, withReflection bool) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryLoggingInterceptor(log)))

	api.RegisterCatalogServer(s, grpcAPIHandler)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	// For grpcurl; not exposed in production.
	if withReflection {
		reflection.Register(s)
	}

	log.Info().Msg("gRPC services registered")
	return s
}

func waitForShutdown(
	log zerolog.Logger,
	httpServer *http.Server,
	grpcServer *grpc.Server,
	snapshotCache cache.Cache,
	dbStore store.ProductDocumentReader,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	receivedSignal := <-sigChan
	log.Info().Str("signal", receivedSignal.String()).Msg("starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		log.Info().Msg("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		log.Info().Msg("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		log.Warn().Err(shutdownCtx.Err()).Msg("gRPC graceful shutdown timed out, forcing stop")
		grpcServer.Stop()
	}

	if err := snapshotCache.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing snapshot cache")
	}
	if err := dbStore.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing database connection")
	}

	log.Info().Msg("graceful shutdown sequence completed")
}
