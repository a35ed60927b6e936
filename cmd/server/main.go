package main

import (
	"context" // context package is needed for Redis operations

	"storefront/internal/api"     // Custom package for API handlers
	"storefront/internal/catalog" // Custom package for the product catalog
	"storefront/internal/config"  // Custom package for configuration
	"storefront/internal/db"      // Custom package for the database
	"storefront/internal/metrics" // Custom package for metrics
	"storefront/internal/session" // Custom package for the credential directory
	"storefront/internal/storage" // Custom package for client state storage

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Metrics handler
	"github.com/redis/go-redis/v9"                              // Redis client
	"github.com/sirupsen/logrus"                                // Logrus for structured logging
	"gorm.io/gorm"                                              // GORM ORM library
)

// Main function to set up and run the server
func main() {
	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to the database only when a component reads from it
	var conn *gorm.DB
	if cfg.NeedsDB() {
		conn, err = db.Open(cfg.DBDriver, cfg.DSN())
		if err != nil {
			logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
		}
	}

	// Client state backend
	var state storage.Store
	switch cfg.StateBackend {
	case config.BackendRedis:
		// Setup Redis client
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		state = storage.NewRedisStore(redisClient)
	default:
		logrus.Warn("Client state is kept in memory and lost on restart")
		state = storage.NewMemoryStore()
	}

	// Product catalog
	var cat catalog.Catalog = catalog.NewStaticCatalog(catalog.SeedProducts(), cfg.CatalogDelay)
	if cfg.CatalogSource == config.SourceDB {
		cat = catalog.NewGormCatalog(conn)
	}

	// Credential directory
	var dir session.Directory = session.NewStaticDirectory(session.SeedCredentials)
	if cfg.DirectorySource == config.SourceDB {
		dir = session.NewGormDirectory(conn)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	storeMetrics := metrics.NewStoreMetrics(reg)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	api.RegisterRoutes(r, api.Deps{
		State:            state,
		Directory:        dir,
		Catalog:          cat,
		Metrics:          storeMetrics,
		MetricsHandler:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		JWTSecret:        cfg.JWTSecret,
		ClientTokenTTL:   cfg.ClientTokenTTL,
		ProductSaveDelay: cfg.ProductSaveDelay,
	})

	logrus.WithFields(logrus.Fields{
		"port":    cfg.AppPort,
		"state":   cfg.StateBackend,
		"catalog": cfg.CatalogSource,
	}).Info("Server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}
