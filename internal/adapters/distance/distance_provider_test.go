package distance

import (
	"context"
	"encoding/json"
	"errors"
	"market-route-service/internal/domain"
	"market-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

type memCache struct {
	mu sync.Mutex
	m  map[string]ports.DistanceResult
}

func newMemCache() *memCache { return &memCache{m: map[string]ports.DistanceResult{}} }

func (c *memCache) GetMany(_ context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.m[origin+"|"+d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for d, r := range results {
		c.m[origin+"|"+d] = r
	}
	return nil
}

var (
	source  = domain.Coordinates{Lat: 22.5726, Lon: 88.3639}
	howrah  = domain.Coordinates{Lat: 22.5958, Lon: 88.2636}
	barasat = domain.Coordinates{Lat: 22.7212, Lon: 88.4826}
)

func TestORSDistanceProviderGetDistances(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/v2/matrix/driving-car" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "test-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}

		var body matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Locations) != 3 || body.Locations[0][0] != source.Lon {
			t.Errorf("locations = %v, want [lon, lat] pairs with the source first", body.Locations)
		}

		// The second destination is unroutable.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"distances":[[16249.6,null]],"durations":[[1800.2,null]]}`))
	}))
	defer srv.Close()

	cache := newMemCache()
	p, err := NewORSDistanceProvider("test-key", cache, WithORSBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := p.GetDistances(context.Background(), source, []domain.Coordinates{howrah, barasat, howrah})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r, ok := got[howrah.Key()]; !ok || r.DistanceMeters != 16250 || r.DurationSeconds != 1800 {
		t.Fatalf("howrah = %+v (ok=%t), want 16250m/1800s", r, ok)
	}
	if _, ok := got[barasat.Key()]; ok {
		t.Fatalf("null cell should be omitted")
	}
	if len(cache.m) != 1 {
		t.Fatalf("cache holds %d entries, want only the routable one", len(cache.m))
	}

	// Cached destinations are served without a request.
	r, err := p.GetDistance(context.Background(), source, howrah)
	if err != nil || r.DistanceMeters != 16250 {
		t.Fatalf("GetDistance = %+v, %v", r, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestORSDistanceProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, err := NewORSDistanceProvider("test-key", nil, WithORSBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.GetDistances(context.Background(), source, []domain.Coordinates{howrah})
	var statusErr *httpStatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want 429 status error", err)
	}
}

func TestNewORSDistanceProviderRequiresKey(t *testing.T) {
	if _, err := NewORSDistanceProvider("", nil); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestGoogleDistanceProviderGetDistances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "g-key" || q.Get("mode") != "driving" {
			t.Errorf("query = %v", q)
		}

		elements := make([]string, 0, 2)
		for _, d := range strings.Split(q.Get("destinations"), "|") {
			if d == latLng(howrah) {
				elements = append(elements, `{"status": "OK", "distance": {"value": 16300}, "duration": {"value": 1900}}`)
			} else {
				elements = append(elements, `{"status": "ZERO_RESULTS"}`)
			}
		}
		_, _ = w.Write([]byte(`{"status": "OK", "rows": [{"elements": [` + strings.Join(elements, ",") + `]}]}`))
	}))
	defer srv.Close()

	p, err := NewGoogleDistanceProvider("g-key", srv.URL, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := p.GetDistances(context.Background(), source, []domain.Coordinates{howrah, barasat})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[howrah.Key()].DistanceMeters != 16300 {
		t.Fatalf("got %+v, want only howrah at 16300m", got)
	}

	one, err := p.GetDistance(context.Background(), source, howrah)
	if err != nil || one.DistanceMeters != 16300 {
		t.Fatalf("GetDistance(howrah) = %+v, %v", one, err)
	}

	_, err = p.GetDistance(context.Background(), source, barasat)
	if err == nil || !strings.Contains(err.Error(), "no distance result") {
		t.Fatalf("err = %v, want no distance result for an element without a route", err)
	}
}

func TestGoogleDistanceProviderDeniedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key", "rows": []}`))
	}))
	defer srv.Close()

	p, err := NewGoogleDistanceProvider("g-key", srv.URL, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.GetDistances(context.Background(), source, []domain.Coordinates{howrah})
	if err == nil || !strings.Contains(err.Error(), "REQUEST_DENIED") {
		t.Fatalf("err = %v, want REQUEST_DENIED", err)
	}
}
