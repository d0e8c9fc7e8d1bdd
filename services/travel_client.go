package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rpupo63/travel-planner/errs"
	"github.com/rpupo63/travel-planner/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second
	DefaultPage    = 1
	DefaultLimit   = 10
)

// TravelClient is the typed client of the travel REST backend
type TravelClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	searches   singleflight.Group
	metrics    *Metrics
	logger     zerolog.Logger
}

type ClientOption func(*TravelClient)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *TravelClient) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *TravelClient) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit caps outgoing requests; rps <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *TravelClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewTravelClient(baseURL string, opts ...ClientOption) *TravelClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &TravelClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
		metrics: &Metrics{},
		logger:  log.With().Str("client", "travelAPI").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TravelClient) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

// ListProjects fetches one page of projects, optionally filtered by status
func (c *TravelClient) ListProjects(ctx context.Context, page, limit int, status string) (*models.PaginatedProjects, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if status != "" {
		query.Set("status", status)
	}

	var out models.PaginatedProjects
	if err := c.do(ctx, http.MethodGet, "/api/projects", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TravelClient) GetProject(ctx context.Context, id int) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodGet, projectPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TravelClient) CreateProject(ctx context.Context, in models.CreateProjectInput) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TravelClient) UpdateProject(ctx context.Context, id int, in models.UpdateProjectInput) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPut, projectPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TravelClient) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, projectPath(id), nil, nil, nil)
}

func (c *TravelClient) AddPlace(ctx context.Context, projectID int, in models.PlaceInput) (*models.Place, error) {
	var out models.Place
	if err := c.do(ctx, http.MethodPost, projectPath(projectID)+"/places", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TravelClient) UpdatePlace(ctx context.Context, projectID, placeID int, in models.UpdatePlaceInput) (*models.Place, error) {
	var out models.Place
	path := fmt.Sprintf("%s/places/%d", projectPath(projectID), placeID)
	if err := c.do(ctx, http.MethodPatch, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchArtworks queries the artwork catalog. Identical searches in flight at
// the same time share one upstream call.
func (c *TravelClient) SearchArtworks(ctx context.Context, q string, page, limit int) (*models.ArtworkSearchResponse, error) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	query := url.Values{}
	query.Set("q", q)
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	key := query.Encode()
	// The shared call outlives any single caller; each caller only stops
	// waiting when its own context ends.
	ch := c.searches.DoChan(key, func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.sharedTimeout())
		defer cancel()

		var out models.ArtworkSearchResponse
		if err := c.do(callCtx, http.MethodGet, "/api/artworks/search", query, nil, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})

	var result singleflight.Result
	select {
	case <-ctx.Done():
		return nil, contextError(ctx.Err(), "GET /api/artworks/search")
	case result = <-ch:
	}
	if result.Err != nil {
		return nil, result.Err
	}
	if result.Shared {
		c.logger.Debug().Str("q", q).Msg("artwork search shared with a concurrent caller")
	}

	res := *result.Val.(*models.ArtworkSearchResponse)
	res.Results = append([]models.ArtworkResult(nil), res.Results...)
	return &res, nil
}

func (c *TravelClient) sharedTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return DefaultTimeout
}

// contextError maps a finished context to the matching API error.
func contextError(err error, operation string) error {
	if errors.Is(err, context.Canceled) {
		return errs.NewCanceledError(operation)
	}
	return errs.NewContextDeadlineError(operation)
}

func projectPath(id int) string {
	return fmt.Sprintf("/api/projects/%d", id)
}

// do performs one JSON round trip. A nil out skips decoding, as does a 204.
func (c *TravelClient) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	operation := method + " " + path

	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return contextError(ctx.Err(), operation)
		}
		return errs.NewContextDeadlineError(operation)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errs.NewJSONMarshalError(operation, err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the caller went away, the backend did nothing wrong
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug().Str("operation", operation).Msg("travel API request canceled")
			return errs.NewCanceledError(operation)
		}
		c.metrics.record(time.Since(start), err)
		c.logger.Error().Err(err).Str("operation", operation).Msg("travel API request failed")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errs.NewContextDeadlineError(operation)
		}
		return errs.NewServiceUnreachableError("travel API", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.record(time.Since(start), err)
		return errs.NewServiceUnreachableError("travel API", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := errs.NewUpstreamError(method, path, resp.StatusCode, respBody)
		c.metrics.record(time.Since(start), upErr)
		c.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("detail", upErr.Detail).
			Msg("travel API returned an error")
		return upErr
	}
	c.metrics.record(time.Since(start), nil)

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errs.NewJSONUnmarshalError(operation, err)
	}
	return nil
}
