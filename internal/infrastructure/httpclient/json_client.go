package httpclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"likedao_wallet/internal/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, string(e.Body))
}

// grpc-gateway reports NotFound as code 5
const grpcCodeNotFound = 5

// IsNotFound matches both a plain 404 and the grpc-gateway NotFound body some
// Cosmos SDK versions send with status 500.
func IsNotFound(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	if se.StatusCode == fasthttp.StatusNotFound {
		return true
	}
	var body struct {
		Code int `json:"code"`
	}
	if json.Unmarshal(se.Body, &body) != nil {
		return false
	}
	return body.Code == grpcCodeNotFound
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Options configures a JSONClient.
type Options struct {
	Name      string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// JSONClient performs rate limited JSON requests against one base URL.
type JSONClient struct {
	client  *fasthttp.Client
	name    string
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewJSONClient creates a JSONClient. A non-positive RateLimit disables limiting.
func NewJSONClient(opts Options, logger *zap.Logger) *JSONClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	return &JSONClient{
		client:  &fasthttp.Client{Name: opts.Name},
		name:    opts.Name,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, opts.Burst),
		logger:  logger.Named(opts.Name),
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *JSONClient) BaseURL() string {
	return c.baseURL
}

// GetJSON issues GET baseURL+path and decodes the body into out.
func (c *JSONClient) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, fasthttp.MethodGet, path, nil, out)
}

// PostJSON issues POST baseURL+path with body encoded as JSON. out may be nil.
func (c *JSONClient) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, fasthttp.MethodPost, path, body, out)
}

func (c *JSONClient) do(ctx context.Context, method, path string, body, out any) (err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	requestURL := c.baseURL + path
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.UpstreamRequestDuration.WithLabelValues(c.name, outcome).Observe(time.Since(start).Seconds())
	}()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body for %s: %w", requestURL, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Sending request", zap.String("method", method), zap.String("url", requestURL))
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	rawBody := resp.Body()
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		c.logger.Debug("Request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return &StatusError{URL: requestURL, StatusCode: resp.StatusCode(), Body: append([]byte(nil), rawBody...)}
	}

	if out == nil || len(rawBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		c.logger.Error("Failed to unmarshal response", zap.String("url", requestURL), zap.ByteString("responseBody", rawBody), zap.Error(err))
		return fmt.Errorf("failed to unmarshal response from %s: %w", requestURL, err)
	}
	return nil
}
