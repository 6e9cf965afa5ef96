package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"market-route-service/internal/domain"
	"market-route-service/internal/platform/obs"
	"market-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type agmarknetResponse struct {
	Records []agmarknetRecord `json:"records"`
}

type agmarknetRecord struct {
	Market      string `json:"market"`
	State       string `json:"state"`
	District    string `json:"district"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

// AgmarknetProvider fetches live mandi quotes over HTTP. Any failure is
// logged and answered by Fallback, so callers only see an error when the
// fallback fails too.
type AgmarknetProvider struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	Fallback ports.PriceQuoteProvider
}

func NewAgmarknetProvider(apiKey, baseURL string, fallback ports.PriceQuoteProvider) (*AgmarknetProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("agmarknet api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("agmarknet base url is empty")
	}
	return &AgmarknetProvider{
		session:  &http.Client{Timeout: 5 * time.Second},
		apiKey:   apiKey,
		baseURL:  baseURL,
		Fallback: fallback,
	}, nil
}

func (a *AgmarknetProvider) GetQuotes(
	ctx context.Context,
	commodity string,
	near domain.Coordinates,
) ([]domain.Candidate, error) {
	quotes, err := a.fetch(ctx, commodity)
	if err == nil {
		return quotes, nil
	}

	obs.Logf(ctx, "agmarknet degraded, using fallback prices: %v", err)
	if a.Fallback == nil {
		return nil, fmt.Errorf("agmarknet quotes: %w", err)
	}
	return a.Fallback.GetQuotes(ctx, commodity, near)
}

// Commodities delegates to the fallback catalog when it can list them.
func (a *AgmarknetProvider) Commodities(ctx context.Context) ([]string, error) {
	if c, ok := a.Fallback.(ports.CommodityCatalog); ok {
		return c.Commodities(ctx)
	}
	return nil, errors.New("agmarknet: commodity listing not supported")
}

func (a *AgmarknetProvider) fetch(ctx context.Context, commodity string) (_ []domain.Candidate, err error) {
	defer obs.Time(ctx, "agmarknet.fetch")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("api-key", a.apiKey)
	q.Set("format", "json")
	q.Set("filters[commodity]", commodity)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := a.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded agmarknetResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode agmarknet response: %w", err)
	}

	out := make([]domain.Candidate, 0, len(decoded.Records))
	for _, r := range decoded.Records {
		c, ok := r.toCandidate()
		if !ok {
			continue
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no usable records for %q", commodity)
	}
	return out, nil
}

// toCandidate drops records without a usable position.
func (r agmarknetRecord) toCandidate() (domain.Candidate, bool) {
	lat, _ := strconv.ParseFloat(strings.TrimSpace(r.Latitude), 64)
	lon, _ := strconv.ParseFloat(strings.TrimSpace(r.Longitude), 64)
	if lat == 0 || lon == 0 {
		return domain.Candidate{}, false
	}
	price, _ := strconv.ParseFloat(strings.TrimSpace(r.ModalPrice), 64)

	// Agmarknet dates are dd/mm/yyyy.
	updated, _ := time.Parse("02/01/2006", strings.TrimSpace(r.ArrivalDate))

	return domain.Candidate{
		Name:         r.Market,
		State:        r.State,
		District:     r.District,
		Location:     domain.Coordinates{Lat: lat, Lon: lon},
		PricePerUnit: price,
		Source:       domain.ProvenanceLive,
		UpdatedAt:    updated,
	}, true
}
