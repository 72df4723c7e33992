package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/roundtrip"
)

// ErrBackpressure is returned when the service refuses a batch because its
// queue is full.
var ErrBackpressure = errors.New("service queue full")

// errPending marks a result the service has not stored yet.
var errPending = errors.New("result pending")

// HTTPClient talks to a running service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Ack mirrors one entry of the POST /messages response.
type Ack struct {
	ID        string `json:"id"`
	Duplicate bool   `json:"duplicate"`
}

type submitResponse struct {
	Accepted   int    `json:"accepted"`
	Duplicates int    `json:"duplicates"`
	Acks       []Ack  `json:"acks"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Health checks that the service answers /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect to service: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// Submit posts one batch. On backpressure it returns the acks of the
// messages that were queued before the queue filled, with ErrBackpressure.
func (c *HTTPClient) Submit(ctx context.Context, batch []model.Message) ([]Ack, error) {
	body, err := json.Marshal(struct {
		Messages []model.Message `json:"messages"`
	}{batch})
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post messages: %w", err)
	}
	defer resp.Body.Close()

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	switch resp.StatusCode {
	case http.StatusAccepted:
		return out.Acks, nil
	case http.StatusTooManyRequests:
		return out.Acks, ErrBackpressure
	}
	return nil, fmt.Errorf("post messages: status %d: %s: %s", resp.StatusCode, out.Code, out.Message)
}

// Result fetches one stored result. It returns errPending on 404.
func (c *HTTPClient) Result(ctx context.Context, id string) (roundtrip.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/results/"+id, nil)
	if err != nil {
		return roundtrip.Result{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return roundtrip.Result{}, fmt.Errorf("get result: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return roundtrip.Result{}, errPending
	default:
		return roundtrip.Result{}, fmt.Errorf("get result %s: status %d", id, resp.StatusCode)
	}
	var res roundtrip.Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return roundtrip.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}
