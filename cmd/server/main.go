package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/paylist/payments-api/internal/config"
	"github.com/paylist/payments-api/internal/handler"
	"github.com/paylist/payments-api/internal/kafka"
	"github.com/paylist/payments-api/internal/metrics"
	"github.com/paylist/payments-api/internal/middleware"
	"github.com/paylist/payments-api/internal/repository"
	"github.com/paylist/payments-api/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Local convenience; absent .env is fine
	_ = godotenv.Load()

	// Load config
	cfg := config.Load()

	// Setup logger
	logger := newLogger(cfg)
	defer logger.Sync()

	// Select the data store once, from the environment signal
	var repo repository.PaymentRepository
	if cfg.UseRemoteStore() {
		repo = repository.NewDynamoRepository(cfg.PaymentsTable, cfg.AWSRegion, logger)
	} else {
		repo = repository.NewLocalRepository(cfg.LocalDataPath, logger)
	}
	logger.Info("Selected data source", zap.String("dataSource", cfg.DataSourceLabel()))

	m := metrics.New("payments_api")

	// Optional Redis read-through cache
	var cache *repository.CachedRepository
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("Redis not available, cache reads will fall through", zap.Error(err))
		}

		cache = repository.NewCachedRepository(repo, redisClient, cfg.CacheTTL, logger, m)
		repo = cache
	}

	// Create service
	paymentService := service.NewPaymentService(repo, logger).WithMetrics(m)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	httpHandler := handler.NewHTTPHandler(paymentService, logger, m, cfg.DataSourceLabel())
	httpHandler.SetupRoutes(router)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Optional Kafka consumer invalidating the cache on payment changes
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()

	var kafkaConsumer *kafka.Consumer
	if cfg.KafkaBrokers != "" && cache != nil {
		kafkaConsumer = kafka.NewConsumer(
			cfg.KafkaBrokers,
			cfg.KafkaTopicChanged,
			cfg.KafkaConsumerGroup,
			cache,
			logger,
		)
		go func() {
			if err := kafkaConsumer.Start(consumerCtx); err != nil {
				logger.Error("Kafka consumer error", zap.Error(err))
			}
		}()
	}

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Payments API started",
		zap.String("httpPort", cfg.HTTPPort),
		zap.String("dataSource", cfg.DataSourceLabel()),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Graceful shutdown
	cancelConsumer()
	if kafkaConsumer != nil {
		kafkaConsumer.Close()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}

	logger.Info("Payments API stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.UseRemoteStore() {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	origins := strings.Split(cfg.CORSAllowOrigins, ",")
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "X-Request-ID")
	return corsCfg
}
