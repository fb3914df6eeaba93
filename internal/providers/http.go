package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alex-user-go/voyage/internal/travel"
)

// HTTPProvider queries a remote provider server for travel options.
type HTTPProvider struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(name, baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the provider name.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Options fetches options by making an HTTP GET request.
func (p *HTTPProvider) Options(ctx context.Context, req travel.SearchRequest) ([]travel.Option, error) {
	u, err := url.Parse(p.baseURL + "/options")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	u.RawQuery = EncodeQuery(req).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrProviderUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: provider returned status %d: %s", ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var options []travel.Option
	if err := json.NewDecoder(resp.Body).Decode(&options); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return options, nil
}

// EncodeQuery encodes the generation inputs of req as query parameters.
func EncodeQuery(req travel.SearchRequest) url.Values {
	q := url.Values{}
	q.Set("from", req.Origin)
	q.Set("to", req.Destination)
	q.Set("mode", string(req.Mode))
	if req.DepartureDate != nil {
		q.Set("date", req.DepartureDate.Format(travel.DateLayout))
	}
	return q
}

// DecodeQuery is the inverse of EncodeQuery.
func DecodeQuery(q url.Values) (travel.SearchRequest, error) {
	mode, err := travel.ParseMode(q.Get("mode"))
	if err != nil {
		return travel.SearchRequest{}, err
	}

	req := travel.SearchRequest{
		Origin:      q.Get("from"),
		Destination: q.Get("to"),
		Mode:        mode,
	}

	if s := q.Get("date"); s != "" {
		d, err := time.Parse(travel.DateLayout, s)
		if err != nil {
			return travel.SearchRequest{}, fmt.Errorf("%w: date must be in YYYY-MM-DD format", travel.ErrInvalidInput)
		}
		req.DepartureDate = &d
	}

	return req, nil
}
