// Package httpapi provides the AnalysisClient adapter for the Code-G
// matching service's HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/codeg-cli/internal/core/domain"
	"github.com/custodia-labs/codeg-cli/internal/core/ports/driven"
	"github.com/custodia-labs/codeg-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.AnalysisClient = (*Client)(nil)

// API paths.
const (
	AnalyzePath     = "/api/code-g/analyze"
	DeepAnalyzePath = "/api/code-g/deep-analyze"
)

// Operation names used in errors.
const (
	opAnalyze     = "analyze"
	opDeepAnalyze = "deep-analyze"
)

// Default configuration values.
const (
	DefaultRetryMax     = 2
	DefaultRetryWaitMin = 200 * time.Millisecond
	DefaultRetryWaitMax = 2 * time.Second

	maxResponseBytes = 10 << 20
)

// RequestIDHeader carries a per-request identifier for log correlation.
const RequestIDHeader = "X-Request-ID"

// Config holds configuration for the analysis client.
type Config struct {
	// BaseURL is the service address (default: http://127.0.0.1:8000).
	BaseURL string

	// Timeout bounds one attempt (default: 120s).
	Timeout time.Duration

	// DeepRatePerSecond limits deep-analysis requests. Zero means no limit.
	DeepRatePerSecond float64

	// RetryMax is the number of retries after a connection failure.
	// Responses are never retried, whatever their status.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the backoff between retries.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client calls the analysis service. It keeps no per-request state and is
// safe for concurrent use.
type Client struct {
	http        *retryablehttp.Client
	baseURL     string
	deepLimiter *rate.Limiter
}

// NewClient creates a new analysis client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultAPIBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultAPITimeout
	}
	if cfg.RetryWaitMin == 0 {
		cfg.RetryWaitMin = DefaultRetryWaitMin
	}
	if cfg.RetryWaitMax == 0 {
		cfg.RetryWaitMax = DefaultRetryWaitMax
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.CheckRetry = retryConnectionErrors
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{}

	limit := rate.Inf
	if cfg.DeepRatePerSecond > 0 {
		limit = rate.Limit(cfg.DeepRatePerSecond)
	}

	return &Client{
		http:        rc,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		deepLimiter: rate.NewLimiter(limit, 1),
	}
}

// BaseURL returns the service address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze posts the profile and filters and returns the scored notices.
// The response is either a JSON array of results or an object with a
// "results" array.
func (c *Client) Analyze(ctx context.Context, req driven.AnalyzeRequest) ([]domain.AnalysisResult, error) {
	body, err := c.post(ctx, opAnalyze, AnalyzePath, req)
	if err != nil {
		return nil, err
	}

	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get("results")
		if !list.Exists() {
			return nil, &domain.RequestFailedError{Op: opAnalyze, Status: http.StatusOK, Detail: "response has no results"}
		}
	}
	if list.Type == gjson.Null {
		return []domain.AnalysisResult{}, nil
	}
	if !list.IsArray() {
		return nil, &domain.RequestFailedError{Op: opAnalyze, Status: http.StatusOK, Detail: "response is not a list of results"}
	}

	results := make([]domain.AnalysisResult, 0, len(list.Array()))
	if err := json.Unmarshal([]byte(list.Raw), &results); err != nil {
		return nil, &domain.RequestFailedError{Op: opAnalyze, Status: http.StatusOK, Detail: "invalid response body: " + err.Error()}
	}
	return results, nil
}

// DeepAnalyze posts one notice and returns the fields to merge into it.
// Calls wait for the deep-analysis rate limiter.
func (c *Client) DeepAnalyze(ctx context.Context, req driven.DeepAnalyzeRequest) (domain.ResultPatch, error) {
	if err := c.deepLimiter.Wait(ctx); err != nil {
		return domain.ResultPatch{}, fmt.Errorf("%s: waiting for rate limiter: %w", opDeepAnalyze, err)
	}

	body, err := c.post(ctx, opDeepAnalyze, DeepAnalyzePath, req)
	if err != nil {
		return domain.ResultPatch{}, err
	}

	var patch domain.ResultPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		return domain.ResultPatch{}, &domain.RequestFailedError{
			Op:     opDeepAnalyze,
			Status: http.StatusOK,
			Detail: "invalid response body: " + err.Error(),
		}
	}
	return patch, nil
}

// post sends payload as JSON and returns the body of a 2xx response.
// Every other outcome is a *domain.RequestFailedError, except context
// cancellation, which is returned as is.
func (c *Client) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	log := logger.WithFields(map[string]any{"op": op, "request_id": requestID})
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		log.Debugf("transport error: %v", err)
		return nil, &domain.RequestFailedError{Op: op, Detail: transportDetail(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.RequestFailedError{Op: op, Status: resp.StatusCode, Detail: "reading response: " + err.Error()}
	}

	log.WithField("status", resp.StatusCode).
		WithField("elapsed", time.Since(started).Round(time.Millisecond)).
		Debugf("POST %s", path)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.RequestFailedError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: errorDetail(body, resp.StatusCode),
		}
	}
	if !gjson.ValidBytes(body) {
		return nil, &domain.RequestFailedError{Op: op, Status: resp.StatusCode, Detail: "invalid response body"}
	}
	return body, nil
}

// errorDetail extracts the service's error message. It understands
// {"detail": "..."} and validation lists {"detail": [{"msg": "..."}]},
// falling back to the status text.
func errorDetail(body []byte, status int) string {
	if gjson.ValidBytes(body) {
		detail := gjson.GetBytes(body, "detail")
		switch {
		case detail.Type == gjson.String && detail.Str != "":
			return detail.Str
		case detail.IsArray():
			if msg := detail.Get("0.msg"); msg.Exists() && msg.String() != "" {
				return msg.String()
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// transportDetail turns a connection error into a short message.
func transportDetail(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	return "service unreachable: " + err.Error()
}

// retryConnectionErrors retries only when no response was received.
func retryConnectionErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return err != nil && resp == nil, nil
}

// leveledLogger routes retryablehttp's logging to the verbose logger.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, kv ...any) { logger.WithFields(fields(kv)).Debug(msg) }
func (leveledLogger) Info(msg string, kv ...any)  { logger.WithFields(fields(kv)).Debug(msg) }
func (leveledLogger) Debug(msg string, kv ...any) { logger.WithFields(fields(kv)).Debug(msg) }
func (leveledLogger) Warn(msg string, kv ...any)  { logger.WithFields(fields(kv)).Debug(msg) }

func fields(kv []any) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
