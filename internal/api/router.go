package api

import (
	"market-route-service/internal/api/handlers"
	"market-route-service/internal/platform/metrics"
	"market-route-service/internal/ports"
	"market-route-service/internal/services"
	"net/http"

	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Deps are the collaborators the HTTP layer hands to its handlers.
type Deps struct {
	Engine        *services.Engine
	Prices        ports.PriceQuoteProvider
	Distances     ports.DistanceProvider
	History       ports.PriceHistoryRecorder
	UsingMockData bool
	// AllowedOrigins defaults to any origin when empty.
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{UsingMockData: d.UsingMockData}
	optimize := &handlers.OptimizeHandler{
		Engine: d.Engine,
		Deps: services.Dependencies{
			Prices:    d.Prices,
			Distances: d.Distances,
			History:   d.History,
		},
		UsingMockData: d.UsingMockData,
	}
	catalog := &handlers.CatalogHandler{
		Vehicles:      d.Engine.Vehicles,
		Perishability: d.Engine.Perishability,
	}
	if c, ok := d.Prices.(ports.CommodityCatalog); ok {
		catalog.Catalog = c
	}

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /api/health", health.Health)
	mux.HandleFunc("GET /api/crops", catalog.Crops)
	mux.HandleFunc("GET /api/vehicles", catalog.ListVehicles)
	mux.HandleFunc("POST /api/optimize", optimize.Optimize)
	mux.Handle("GET /metrics", metrics.Handler())

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return alice.New(requestIDMiddleware, loggingMiddleware, metricsMiddleware, c.Handler).Then(mux)
}
