// Package backend talks to the REST service serving table columns and row pages.
package backend

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
	"strings"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/infitab/infitab/internal/logging"
	"github.com/infitab/infitab/internal/model1"
)

const (
	DefaultBaseURL   = "http://localhost:3000"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "infitab"

	columnsPath = "/columns"
	rowsPath    = "/rows"

	// Error bodies are only read for the log line.
	maxErrorBody = 512
)

// Config holds the client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the configuration for a local backend.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client issues stateless column, row and create requests.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// NewClient creates a client for the given backend.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: hc,
		baseURL:    u,
		config:     cfg,
		logger:     logging.NewLogger("backend"),
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchColumns retrieves the column metadata.
func (c *Client) FetchColumns(ctx context.Context) (model1.Columns, error) {
	resp, err := c.do(ctx, http.MethodGet, "columns", c.endpoint(columnsPath, nil), nil)
	if err != nil {
		return nil, c.fail(KindColumnsFetch, 0, err)
	}
	if !isSuccess(resp.status) {
		return nil, c.fail(KindColumnsFetch, 0, statusError(resp))
	}

	var cc model1.Columns
	if err := json.Unmarshal(resp.body, &cc); err != nil {
		return nil, c.fail(KindColumnsFetch, 0, &RequestError{
			StatusCode: resp.status,
			RequestID:  resp.requestID,
			Err:        fmt.Errorf("%w: %v", ErrBadColumns, err),
		})
	}
	if err := cc.Validate(); err != nil {
		return nil, c.fail(KindColumnsFetch, 0, &RequestError{
			StatusCode: resp.status,
			RequestID:  resp.requestID,
			Err:        fmt.Errorf("%w: %v", ErrBadColumns, err),
		})
	}

	return cc, nil
}

// FetchRows retrieves one page of rows, numbered from 1.
func (c *Client) FetchRows(ctx context.Context, page int) (model1.Page, error) {
	if page < 1 {
		return model1.Page{}, c.fail(KindRowsFetch, page, fmt.Errorf("invalid page number %d", page))
	}
	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_per_page", strconv.Itoa(model1.PageSize))

	resp, err := c.do(ctx, http.MethodGet, "rows", c.endpoint(rowsPath, q), nil)
	if err != nil {
		return model1.Page{}, c.fail(KindRowsFetch, page, err)
	}
	if !isSuccess(resp.status) {
		return model1.Page{}, c.fail(KindRowsFetch, page, statusError(resp))
	}

	p, err := DecodePage(resp.body, page)
	if err != nil {
		return model1.Page{}, c.fail(KindRowsFetch, page, &RequestError{
			StatusCode: resp.status,
			RequestID:  resp.requestID,
			Err:        err,
		})
	}

	return p, nil
}

// CreateRow posts a new record. The response body is not inspected.
func (c *Client) CreateRow(ctx context.Context, fields map[string]string) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return c.fail(KindSubmission, 0, fmt.Errorf("failed to marshal row: %w", err))
	}

	resp, err := c.do(ctx, http.MethodPost, "create", c.endpoint(rowsPath, nil), body)
	if err != nil {
		return c.fail(KindSubmission, 0, err)
	}
	if !isSuccess(resp.status) {
		return c.fail(KindSubmission, 0, statusError(resp))
	}

	return nil
}

type response struct {
	status    int
	body      []byte
	requestID string
}

func (c *Client) do(ctx context.Context, method, endpoint, target string, body []byte) (*response, error) {
	reqID, err := nanoid.New()
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to generate request id")
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if reqID != "" {
		req.Header.Set("X-Request-ID", reqID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error().
			Err(err).
			Str("endpoint", endpoint).
			Str("request_id", reqID).
			Dur("duration", duration).
			Msg("backend request failed")
		return nil, &RequestError{RequestID: reqID, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error().
			Err(err).
			Str("endpoint", endpoint).
			Str("request_id", reqID).
			Int("status_code", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("failed to read backend response")
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			RequestID:  reqID,
			Message:    "failed to read response",
			Err:        err,
		}
	}
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug().
		Str("method", method).
		Str("endpoint", endpoint).
		Str("request_id", reqID).
		Int("status_code", resp.StatusCode).
		Dur("duration", duration).
		Msg("backend request")

	return &response{status: resp.StatusCode, body: raw, requestID: reqID}, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// fail stamps err with the call kind, keeping any status already attached.
func (c *Client) fail(k Kind, page int, err error) error {
	errorsTotal.WithLabelValues(string(k)).Inc()

	out := &RequestError{Kind: k, Page: page, Err: err}
	var re *RequestError
	if errors.As(err, &re) {
		out.StatusCode = re.StatusCode
		out.RequestID = re.RequestID
		out.Message = re.Message
		out.Err = re.Err
	}
	c.logger.Warn().
		Err(out).
		Str("kind", string(k)).
		Int("page", page).
		Int("status_code", out.StatusCode).
		Str("request_id", out.RequestID).
		Msg("backend call failed")

	return out
}

func statusError(resp *response) error {
	re := &RequestError{
		StatusCode: resp.status,
		RequestID:  resp.requestID,
		Message:    http.StatusText(resp.status),
	}
	snippet := bytes.TrimSpace(resp.body)
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody]
	}
	if len(snippet) > 0 {
		re.Err = fmt.Errorf("unexpected response %q", snippet)
	}
	return re
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
