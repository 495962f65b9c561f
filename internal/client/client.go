package client

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

	retry "github.com/avast/retry-go/v5"

	"oversee/internal/types"
)

const defaultBaseURL = "http://127.0.0.1:5000"

const getRetryAttempts = 3

// Client is the typed gateway to the governance backend. One method per
// resource; every method returns parsed data or a typed error. Idempotent
// GETs retry transient transport failures, mutations are issued exactly once.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) DBStatus(ctx context.Context) (*types.DBStatus, error) {
	var status types.DBStatus
	if err := c.getJSON(ctx, "/api/db_status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) PendingDecisions(ctx context.Context) ([]*types.Decision, error) {
	var decisions []*types.Decision
	if err := c.getJSON(ctx, "/decisions/pending", &decisions); err != nil {
		return nil, err
	}
	return decisions, nil
}

func (c *Client) ApproveDecision(ctx context.Context, id, choice string) (*ApproveResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("decision id is required")
	}
	var resp ApproveResponse
	path := "/decisions/" + url.PathEscape(id) + "/approve"
	if err := c.doJSON(ctx, http.MethodPost, path, ApproveRequest{Choice: choice}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Policy(ctx context.Context) (types.Policy, error) {
	var policy types.Policy
	if err := c.getJSON(ctx, "/policy", &policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (c *Client) SavePolicy(ctx context.Context, policy types.Policy) (*SavePolicyResponse, error) {
	if policy == nil {
		return nil, errors.New("policy is required")
	}
	var resp SavePolicyResponse
	if err := c.doJSON(ctx, http.MethodPost, "/policy", policy, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PolicyHistory(ctx context.Context) ([]types.PolicyHistoryEntry, error) {
	var entries []types.PolicyHistoryEntry
	if err := c.getJSON(ctx, "/policy/history", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) LiveMetrics(ctx context.Context) (*types.MetricsSnapshot, error) {
	var snapshot types.MetricsSnapshot
	if err := c.getJSON(ctx, "/metrics/live", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *Client) Trends(ctx context.Context, filter types.TrendFilter) ([]types.TrendPoint, error) {
	filter = filter.Normalized()
	var points []types.TrendPoint
	if err := c.getJSON(ctx, trendsPath(filter), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// ExportMetricsCSV streams the backend's metrics CSV for the given filter into
// w and reports the number of bytes written.
func (c *Client) ExportMetricsCSV(ctx context.Context, filter types.TrendFilter, w io.Writer) (int64, error) {
	return c.download(ctx, c.MetricsExportURL(filter), w)
}

// ExportDecisions streams the decision export for the given filter into w.
func (c *Client) ExportDecisions(ctx context.Context, filter types.ExportFilter, w io.Writer) (int64, error) {
	return c.download(ctx, c.DecisionsExportURL(filter), w)
}

// MetricsExportURL builds the metrics export target from the current filter.
func (c *Client) MetricsExportURL(filter types.TrendFilter) string {
	filter = filter.Normalized()
	query := url.Values{}
	query.Set("agent", filter.Agent)
	query.Set("days", strconv.Itoa(filter.Days))
	return c.baseURL + "/metrics/export?" + query.Encode()
}

// DecisionsExportURL builds the decision export target from the current filter.
func (c *Client) DecisionsExportURL(filter types.ExportFilter) string {
	filter = filter.Normalized()
	query := url.Values{}
	query.Set("format", filter.Format)
	query.Set("agent", filter.Agent)
	query.Set("status", filter.Status)
	query.Set("days", strconv.Itoa(filter.Days))
	return c.baseURL + "/decisions/export?" + query.Encode()
}

func trendsPath(filter types.TrendFilter) string {
	query := url.Values{}
	query.Set("agent", filter.Agent)
	query.Set("days", strconv.Itoa(filter.Days))
	return "/metrics/trends?" + query.Encode()
}

// getJSON wraps a GET in a bounded retry. Non-2xx and malformed bodies are
// unrecoverable; only transport failures are retried.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(getRetryAttempts),
		retry.LastErrorOnly(true),
	)
	return r.Do(func() error {
		err := c.doJSON(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		if asAPIError(err) != nil || asDecodeError(err) != nil {
			return retry.Unrecoverable(err)
		}
		return err
	})
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

func (c *Client) download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, decodeAPIError(resp)
	}
	return io.Copy(w, resp.Body)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
}

// APIError reports a non-2xx backend response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// DecodeError reports a 2xx response whose body did not match the expected
// shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("malformed response from %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func asDecodeError(err error) *DecodeError {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return decodeErr
	}
	return nil
}
