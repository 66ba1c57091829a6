package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/wifiscout/scan-ingestion/internal/config"
	"github.com/wifiscout/scan-ingestion/internal/database"
	"github.com/wifiscout/scan-ingestion/internal/handlers"
	"github.com/wifiscout/scan-ingestion/internal/kafka"
	"github.com/wifiscout/scan-ingestion/internal/metrics"
	"github.com/wifiscout/scan-ingestion/internal/processor"
	"github.com/wifiscout/scan-ingestion/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Environment)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting scan ingestion service",
		zap.String("environment", cfg.Environment),
		zap.Int("http_port", cfg.Server.HTTPPort))

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	repository := database.NewNetworkRepository(db)

	archiver, err := storage.NewArchiver(cfg.Archive)
	if err != nil {
		logger.Fatal("failed to initialize payload archive", zap.Error(err))
	}

	producer, err := kafka.NewProducer(cfg.Kafka, logger)
	if err != nil {
		logger.Fatal("failed to initialize event producer", zap.Error(err))
	}
	defer producer.Close()

	collector := metrics.NewCollector(cfg.Metrics.Namespace)
	pipeline := processor.New(repository, producer, collector, logger)

	router := setupRouter(cfg, logger)
	scanHandlers := handlers.NewScanHandlers(pipeline, repository, archiver, logger, cfg.Server.MaxPayloadSize)
	scanHandlers.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}

	logger.Info("stopped")
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Debug("request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}
