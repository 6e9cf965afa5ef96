package distance

import (
	"context"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/ports"
	"sync/atomic"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockDistanceProvider answers from a fixed table of pairs.
// Unknown pairs fail individually; Err fails every call.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	Err   error
	calls atomic.Int64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

// Calls returns how many lookups reached the provider.
func (p *MockDistanceProvider) Calls() int { return int(p.calls.Load()) }

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	p.calls.Add(1)
	if p.Err != nil {
		return ports.DistanceResult{}, p.Err
	}
	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %s -> %s", origin.Key(), destination.Key())
	}

	return r, nil
}

// MockMatrixProvider adds the batched lookup on top of MockDistanceProvider.
type MockMatrixProvider struct {
	*MockDistanceProvider
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	return &MockMatrixProvider{NewMockDistanceProvider(pairs)}
}

func (p *MockMatrixProvider) GetDistances(
	ctx context.Context,
	origin domain.Coordinates,
	destinations []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	p.calls.Add(1)
	if p.Err != nil {
		return nil, p.Err
	}

	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range destinations {
		if r, ok := p.m[origin.Key()+"|"+d.Key()]; ok {
			out[d.Key()] = r
		}
	}
	return out, nil
}
