package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"market-route-service/internal/adapters/cache"
	"market-route-service/internal/adapters/distance"
	"market-route-service/internal/adapters/prices"
	"market-route-service/internal/adapters/repositories"
	"market-route-service/internal/api"
	"market-route-service/internal/config"
	"market-route-service/internal/platform/db"
	"market-route-service/internal/platform/metrics"
	"market-route-service/internal/ports"
	"market-route-service/internal/services"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, ORS/Google, Agmarknet) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	tables, err := config.LoadTables(cfg.TablesPath)
	if err != nil {
		log.Fatal(err)
	}

	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		sqlDB         *sql.DB
		distanceCache ports.DistanceCache
		history       ports.PriceHistoryRecorder
		fallback      ports.PriceQuoteProvider = prices.NewMockPriceProvider(true)
	)

	// Postgres is optional: it backs stored market prices, price history
	// and a persistent distance cache.
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			log.Fatal(err)
		}

		repo := repositories.NewSQLMarketRepository(sqlDB)
		fallback = repo
		history = repo
		distanceCache = cache.NewSQLDistanceCache(sqlDB, cfg.DistanceCacheTTL)
	}

	// Redis takes over distance caching when configured.
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, distance cache falls back: %v", err)
		} else {
			distanceCache = cache.NewRedisDistanceCache(rdb, cfg.DistanceCacheTTL)
		}
	}

	provider, err := newDistanceProvider(cfg, distanceCache)
	if err != nil {
		log.Fatal(err)
	}

	priceProvider := fallback
	if !cfg.UseMockData {
		priceProvider, err = prices.NewAgmarknetProvider(cfg.AgmarknetAPIKey, cfg.AgmarknetBaseURL, fallback)
		if err != nil {
			log.Fatal(err)
		}
	}

	engine := &services.Engine{
		Vehicles:        tables.Vehicles,
		Handling:        tables.Handling,
		Perishability:   tables.Perishability,
		Policy:          tables.Policy,
		MaxDistanceKm:   cfg.MaxMarketDistanceKm,
		ProviderTimeout: cfg.DistanceTimeout,
	}

	router := api.NewRouter(api.Deps{
		Engine:        engine,
		Prices:        priceProvider,
		Distances:     provider,
		History:       history,
		UsingMockData: cfg.UseMockData,
	})

	log.Printf(
		"Server listening addr=:%s distance_provider=%s mock_data=%t db=%t",
		cfg.Port, cfg.DistanceProvider, cfg.UseMockData, sqlDB != nil,
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// newDistanceProvider returns nil for "none"; the estimator then uses the
// haversine road approximation for every market.
func newDistanceProvider(cfg config.Config, dc ports.DistanceCache) (ports.DistanceProvider, error) {
	switch cfg.DistanceProvider {
	case config.ProviderORS:
		return distance.NewORSDistanceProvider(cfg.ORSAPIKey, dc, distance.WithORSRateLimit(cfg.DistanceRatePerSec))
	case config.ProviderGoogle:
		return distance.NewGoogleDistanceProvider(cfg.GoogleMapsAPIKey, cfg.GoogleMapsBaseURL, dc, cfg.DistanceRatePerSec)
	case config.ProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown distance provider %q", cfg.DistanceProvider)
	}
}
