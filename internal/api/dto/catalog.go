package dto

import "time"

type CropResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type ListCropsResponse struct {
	Crops []CropResponse `json:"crops"`
}

type VehicleResponse struct {
	Type        string  `json:"type"`
	DisplayName string  `json:"display_name"`
	RatePerKm   float64 `json:"rate_per_km"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

type HealthResponse struct {
	Status        string    `json:"status"`
	UsingMockData bool      `json:"using_mock_data"`
	Timestamp     time.Time `json:"timestamp"`
}
