package handlers

import (
	"market-route-service/internal/api/dto"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"net/http"
	"slices"
)

// CatalogHandler lists the commodities and vehicle types a request may use.
type CatalogHandler struct {
	// Catalog is optional; without it the perishability table keys are listed.
	Catalog       ports.CommodityCatalog
	Vehicles      domain.VehicleRates
	Perishability domain.PerishabilityTable
}

func (h *CatalogHandler) Crops(w http.ResponseWriter, r *http.Request) {
	var names []string
	if h.Catalog != nil {
		list, err := h.Catalog.Commodities(r.Context())
		if err != nil {
			obs.Logf(r.Context(), "list commodities failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "failed to fetch available crops")
			return
		}
		names = list
	} else {
		for k := range h.Perishability {
			if k != domain.DefaultCommodity {
				names = append(names, k)
			}
		}
		slices.Sort(names)
	}

	res := dto.ListCropsResponse{Crops: make([]dto.CropResponse, 0, len(names))}
	for _, n := range names {
		res.Crops = append(res.Crops, dto.CropResponse{Name: n, DisplayName: domain.DisplayName(n)})
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *CatalogHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	types := h.Vehicles.Types()
	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(types))}
	for _, t := range types {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			Type:        t,
			DisplayName: domain.DisplayName(t),
			RatePerKm:   h.Vehicles[t],
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
