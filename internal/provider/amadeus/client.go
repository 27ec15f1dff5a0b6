// Package amadeus adapts the Amadeus self-service flight APIs to the
// canonical travel entities.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/travelquery/config"
	"github.com/Domenick1991/travelquery/internal/domain"
	"github.com/Domenick1991/travelquery/internal/provider"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	tokenPath    = "/v1/security/oauth2/token"
	schedulePath = "/v2/schedule/flights"
	offersPath   = "/v2/shopping/flight-offers"
	seatMapPath  = "/v1/shopping/seatmaps"

	maxBodyBytes = 4 << 20

	// DefaultTimeout bounds a single provider request when no client is supplied.
	DefaultTimeout = 15 * time.Second
)

var errEmptyResult = errors.New("empty result set")

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("provider responded %d", e.StatusCode)
	}
	return fmt.Sprintf("provider responded %d: %s", e.StatusCode, e.Detail)
}

// Client is safe for concurrent use. Its only mutable state is the cached
// access token. A nil *Client is valid and reports every call as not configured.
type Client struct {
	http    *http.Client
	tokens  *tokenProvider
	baseURL string
	logger  *zap.Logger
}

type options struct {
	httpClient *http.Client
	tokenCache TokenCache
	logger     *zap.Logger
}

type Option func(*options)

// WithHTTPClient sets the transport used for token and API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTokenCache shares access tokens between processes.
func WithTokenCache(cache TokenCache) Option {
	return func(o *options) {
		o.tokenCache = cache
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// New returns nil unless both credentials are present.
func New(cfg config.ProviderConfig, opts ...Option) *Client {
	if !cfg.Configured() {
		return nil
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	httpClient := o.httpClient
	if httpClient == nil {
		timeout := cfg.RequestTimeout()
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		http: httpClient,
		tokens: &tokenProvider{
			cc:         cc,
			httpClient: httpClient,
			cache:      o.tokenCache,
			key:        cfg.ClientID,
			logger:     o.logger,
		},
		baseURL: baseURL,
		logger:  o.logger,
	}
}

func (c *Client) FetchFlightStatus(ctx context.Context, carrierCode, flightNumber, date string) provider.Result[domain.FlightStatus] {
	if c == nil {
		return provider.NotConfigured[domain.FlightStatus]()
	}

	q := url.Values{}
	q.Set("carrierCode", carrierCode)
	q.Set("flightNumber", flightNumber)
	q.Set("scheduledDepartureDate", date)

	var env envelope[scheduleDTO]
	if err := c.get(ctx, schedulePath, q, &env); err != nil {
		return provider.RequestFailed[domain.FlightStatus](err)
	}
	if len(env.Data) == 0 {
		return provider.RequestFailed[domain.FlightStatus](errEmptyResult)
	}
	if err := env.Data[0].validate(); err != nil {
		return provider.RequestFailed[domain.FlightStatus](fmt.Errorf("malformed schedule: %w", err))
	}
	return provider.Success(mapFlightStatus(carrierCode+flightNumber, env.Data[0]))
}

// SearchFlights returns at most maxResults offers, in provider order. Zero
// offers is a successful, empty result.
func (c *Client) SearchFlights(ctx context.Context, origin, destination, departureDate string, maxResults int) provider.Result[[]domain.FlightSearchResult] {
	if c == nil {
		return provider.NotConfigured[[]domain.FlightSearchResult]()
	}
	if maxResults <= 0 {
		maxResults = domain.MaxSearchResults
	}

	q := url.Values{}
	q.Set("originLocationCode", origin)
	q.Set("destinationLocationCode", destination)
	q.Set("departureDate", departureDate)
	q.Set("adults", "1")
	q.Set("max", fmt.Sprint(maxResults))

	var env envelope[offerDTO]
	if err := c.get(ctx, offersPath, q, &env); err != nil {
		return provider.RequestFailed[[]domain.FlightSearchResult](err)
	}

	offers := env.Data
	if len(offers) > maxResults {
		offers = offers[:maxResults]
	}
	results := make([]domain.FlightSearchResult, 0, len(offers))
	for i, o := range offers {
		if err := o.validate(); err != nil {
			return provider.RequestFailed[[]domain.FlightSearchResult](fmt.Errorf("malformed offer %d: %w", i, err))
		}
		results = append(results, mapOffer(o))
	}
	return provider.Success(results)
}

func (c *Client) FetchSeatMap(ctx context.Context, flightOrderID string) provider.Result[[]domain.SeatOption] {
	if c == nil {
		return provider.NotConfigured[[]domain.SeatOption]()
	}

	q := url.Values{}
	q.Set("flight-orderId", flightOrderID)

	var env envelope[seatMapDTO]
	if err := c.get(ctx, seatMapPath, q, &env); err != nil {
		return provider.RequestFailed[[]domain.SeatOption](err)
	}
	if len(env.Data) == 0 {
		return provider.RequestFailed[[]domain.SeatOption](errEmptyResult)
	}
	if err := env.Data[0].validate(); err != nil {
		return provider.RequestFailed[[]domain.SeatOption](fmt.Errorf("malformed seat map: %w", err))
	}
	return provider.Success(mapSeatMap(env.Data[0]))
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	tok.SetAuthHeader(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Invalidate(tok)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func statusError(code int, body []byte) *StatusError {
	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err == nil && len(env.Errors) > 0 {
		e := env.Errors[0]
		detail := e.Title
		if e.Detail != "" {
			detail = e.Title + ": " + e.Detail
		}
		return &StatusError{StatusCode: code, Detail: detail}
	}
	return &StatusError{StatusCode: code}
}
