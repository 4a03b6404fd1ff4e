package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiranshivaraju/shopdash/pkg/models"
)

// Sentinel errors for shop backend failures.
var (
	ErrBackendUnreachable = errors.New("shop backend unreachable")
	ErrBackendStatus      = errors.New("shop backend returned an error status")
	ErrBackendTimeout     = errors.New("shop backend timeout")
	ErrInvalidPayload     = errors.New("shop backend returned an invalid payload")
)

// Client is the interface the page controllers use to reach the shop backend.
type Client interface {
	WorkCenters(ctx context.Context) (models.WorkCenters, error)
	Jobs(ctx context.Context) ([]models.Job, error)
	BoardJobs(ctx context.Context) ([]models.BoardJob, error)
	Forecast(ctx context.Context) (models.ForecastSet, error)
	Purchase(ctx context.Context) (models.PurchaseReport, error)
	Schedule(ctx context.Context, start, end string) (json.RawMessage, error)
	UpdateSchedule(ctx context.Context, update models.ScheduleUpdate) (int, error)
	Upload(ctx context.Context, filename string, body io.Reader) (models.UploadResponse, error)
	Ready(ctx context.Context) error
}

// HTTPClient implements Client over the backend's JSON endpoints.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for baseURL. A zero timeout means requests
// are never cut short by the client.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) WorkCenters(ctx context.Context) (models.WorkCenters, error) {
	var out models.WorkCenters
	if err := c.getJSON(ctx, "/api/work_centers", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = models.WorkCenters{}
	}
	return out, nil
}

func (c *HTTPClient) Jobs(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	if err := c.getJSON(ctx, "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Job{}
	}
	return out, nil
}

func (c *HTTPClient) BoardJobs(ctx context.Context) ([]models.BoardJob, error) {
	var out []models.BoardJob
	if err := c.getJSON(ctx, "/api/jobs", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.BoardJob{}
	}
	return out, nil
}

func (c *HTTPClient) Forecast(ctx context.Context) (models.ForecastSet, error) {
	var out models.ForecastSet
	if err := c.getJSON(ctx, "/api/forecast", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = models.ForecastSet{}
	}
	return out, nil
}

func (c *HTTPClient) Purchase(ctx context.Context) (models.PurchaseReport, error) {
	var out models.PurchaseReport
	if err := c.getJSON(ctx, "/api/purchase", nil, &out); err != nil {
		return models.PurchaseReport{}, err
	}
	return out, nil
}

// Schedule returns the calendar event feed untouched; the calendar owns its shape.
func (c *HTTPClient) Schedule(ctx context.Context, start, end string) (json.RawMessage, error) {
	params := url.Values{}
	if start != "" {
		params.Set("start", start)
	}
	if end != "" {
		params.Set("end", end)
	}
	var out json.RawMessage
	if err := c.getJSON(ctx, "/api/schedule", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSchedule posts a reschedule and returns the backend status code. The
// body of the response is not read.
func (c *HTTPClient) UpdateSchedule(ctx context.Context, update models.ScheduleUpdate) (int, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return 0, fmt.Errorf("encoding schedule update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/schedule/update", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, classifyError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrBackendStatus, resp.StatusCode)
	}
	return resp.StatusCode, nil
}

// Upload sends body as the single multipart field "file". Any JSON body is
// returned regardless of status so callers can surface the backend's message;
// a body that is not JSON yields ErrInvalidPayload.
func (c *HTTPClient) Upload(ctx context.Context, filename string, body io.Reader) (models.UploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("preparing upload: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return models.UploadResponse{}, fmt.Errorf("reading upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.UploadResponse{}, fmt.Errorf("finalizing upload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return models.UploadResponse{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return models.UploadResponse{}, classifyError(err)
	}
	defer resp.Body.Close()

	var out models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.UploadResponse{}, fmt.Errorf("%w: decoding upload response (status %d): %v", ErrInvalidPayload, resp.StatusCode, err)
	}
	return out, nil
}

// Ready checks that the backend answers the cheapest endpoint.
func (c *HTTPClient) Ready(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/work_centers", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: backend not ready (status %d)", ErrBackendUnreachable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s status %d", ErrBackendStatus, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrInvalidPayload, path, err)
	}
	return nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}

	return fmt.Errorf("%w: %v", ErrBackendUnreachable, err)
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
