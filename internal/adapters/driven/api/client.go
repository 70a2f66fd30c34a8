// Package api publishes signed reports to a jux collection server.
//
// The wire contract is one endpoint: POST {base}/junit/submit with the
// signed report as the request body. The server deduplicates by canonical
// hash and answers 409 for a report it already has; that case surfaces as
// a distinguished duplicate error rather than a plain failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/jrjsmrtn/go-jux/internal/core/domain"
	"github.com/jrjsmrtn/go-jux/internal/core/ports"
)

const (
	submitPath = "/junit/submit"

	// maxResponseBytes bounds how much of a server response is read,
	// success or failure.
	maxResponseBytes = 1 << 20
)

// Client submits signed reports to a jux server.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	clock       clockwork.Clock
	logger      *zap.Logger
	metrics     ports.MetricsRecorder
}

// Interface guard
var _ ports.ReportPublisher = (*Client)(nil)

// NewClient creates a publishing client for the given API base URL,
// e.g. "https://jux.example.org/api/v1".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, domain.ConfigError("publish API URL is required")
	}

	o := defaultClientOptions()
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       o.token,
		httpClient:  httpClient,
		maxAttempts: o.maxAttempts,
		backoff:     o.backoff,
		clock:       o.clock,
		logger:      o.logger,
		metrics:     o.metrics,
	}, nil
}

// Publish submits the signed report and returns the server's receipt.
// Server errors and network failures are retried with a small backoff;
// client errors, including the duplicate case, are not.
func (c *Client) Publish(ctx context.Context, report []byte) (domain.PublishReceipt, error) {
	if err := c.checkBearerToken(); err != nil {
		c.recordOutcome(err)
		return domain.PublishReceipt{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.backoff
			if c.logger != nil {
				c.logger.Warn("retrying publish",
					zap.Int("attempt", attempt),
					zap.Duration("delay", delay),
					zap.Error(lastErr))
			}
			select {
			case <-ctx.Done():
				err := domain.PublishError("publish cancelled", ctx.Err())
				c.recordOutcome(err)
				return domain.PublishReceipt{}, err
			case <-c.clock.After(delay):
			}
		}

		receipt, retryable, err := c.submit(ctx, report)
		if err == nil {
			if c.logger != nil {
				c.logger.Debug("report published",
					zap.String("test_run_id", receipt.TestRunID))
			}
			c.recordOutcome(nil)
			return receipt, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	c.recordOutcome(lastErr)
	return domain.PublishReceipt{}, lastErr
}

// submit performs a single POST. The second return value says whether
// the failure is worth retrying.
func (c *Client) submit(ctx context.Context, report []byte) (domain.PublishReceipt, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(report))
	if err != nil {
		return domain.PublishReceipt{}, false, domain.PublishError("building publish request failed", err)
	}
	req.Header.Set("Content-Type", "application/xml")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.PublishReceipt{}, false, domain.PublishError("publish cancelled", ctx.Err())
		}
		return domain.PublishReceipt{}, true, domain.PublishError("publishing report failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var receipt domain.PublishReceipt
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&receipt); err != nil {
			return domain.PublishReceipt{}, false, domain.PublishError("decoding server response failed", err)
		}
		return receipt, false, nil

	case resp.StatusCode == http.StatusConflict:
		return domain.PublishReceipt{}, false, domain.DuplicateReportError(c.responseDetail(resp))

	case resp.StatusCode >= 500:
		err := domain.PublishError(
			fmt.Sprintf("publish failed: HTTP %d: %s", resp.StatusCode, c.responseDetail(resp)), nil)
		return domain.PublishReceipt{}, true, err

	default:
		err := domain.PublishError(
			fmt.Sprintf("publish failed: HTTP %d: %s", resp.StatusCode, c.responseDetail(resp)), nil)
		return domain.PublishReceipt{}, false, err
	}
}

// checkBearerToken fails fast when the configured token is a JWT that
// has already expired. Opaque tokens pass through for the server to
// judge.
func (c *Client) checkBearerToken() error {
	if c.token == "" || strings.Count(c.token, ".") != 2 {
		return nil
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(c.token, jwt.MapClaims{})
	if err != nil {
		// Merely JWT-shaped; the server decides what it means.
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Time.Before(c.clock.Now()) {
		return domain.PublishError(
			fmt.Sprintf("bearer token expired %s", exp.Time.UTC().Format(time.RFC3339)), nil)
	}
	return nil
}

// responseDetail extracts the server's explanation from an error
// response, preferring the structured {code, message} form.
func (c *Client) responseDetail(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil || len(body) == 0 {
		return http.StatusText(resp.StatusCode)
	}
	var detail domain.ErrorDetail
	if err := json.Unmarshal(body, &detail); err == nil && detail.Message != "" {
		return detail.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func (c *Client) recordOutcome(err error) {
	if c.metrics == nil {
		return
	}
	if err == nil {
		c.metrics.RecordPublish("published")
		return
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Code == domain.ErrCodeDuplicateReport {
		c.metrics.RecordPublish("duplicate")
		return
	}
	c.metrics.RecordPublish("failed")
}
