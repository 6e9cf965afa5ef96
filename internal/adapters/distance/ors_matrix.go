package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/ports"
	"math"
	"net/http"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixRow retrieves distance and duration from one origin to many
// destinations using the OpenRouteService matrix endpoint.
// Destinations with null cells are omitted from the result.
func (o *ORSDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	if len(destinations) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinations))
	locations = append(locations, origin.CoordsToList())
	for _, c := range destinations {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinations))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	bodyObj := matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", o.apiKey)

	resp, err := o.client.do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(destinations) || len(rowDurations) != len(destinations) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(destinations),
		)
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for i, dest := range destinations {
		metersPtr := rowDistances[i]
		secondsPtr := rowDurations[i]

		// Unroutable pairs come back as null; leave them for the caller's fallback.
		if metersPtr == nil || secondsPtr == nil {
			continue
		}

		// ORS returns float metrics; round to nearest integer for domain consistency.
		out[dest.Key()] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*metersPtr)),
			DurationSeconds: int(math.Round(*secondsPtr)),
		}
	}

	return out, nil
}
