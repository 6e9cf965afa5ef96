package handlers

import (
	"market-route-service/internal/api/dto"
	"net/http"
	"time"
)

// HealthHandler is a liveness check that also reports whether prices come
// from the built-in mock catalog.
type HealthHandler struct {
	UsingMockData bool
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := dto.HealthResponse{
		Status:        "ok",
		UsingMockData: h.UsingMockData,
		Timestamp:     time.Now().UTC(),
	}
	writeJSON(w, r, http.StatusOK, res)
}
