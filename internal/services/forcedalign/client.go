package forcedalign

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

	"lyricsync/internal/services"
)

// Aligner is the client-side view of the forced-alignment collaborator.
type Aligner interface {
	Align(ctx context.Context, req Request) ([]Segment, error)
	Healthy(ctx context.Context) error
}

// HTTPDoer describes the HTTP client used by the forced-alignment client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls a remote forced-alignment service. Every failure mode maps
// onto a taxonomy marker so the pipeline can absorb all of them at one
// boundary: transport errors and timeouts become ErrRefinementUnavailable,
// and the service's rejection statuses keep their specific markers.
type Client struct {
	baseURL string
	client  HTTPDoer
	timeout time.Duration
}

// NewClient constructs a client. httpClient may be nil, in which case a
// client bounded by timeout is used.
func NewClient(baseURL string, timeout time.Duration, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  httpClient,
		timeout: timeout,
	}
}

// Align posts one alignment request and decodes the segment response.
func (c *Client) Align(ctx context.Context, req Request) ([]Segment, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "marshal request", "", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/align", bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "build request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "align request", "service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.rejectionError(resp)
	}

	var decoded alignResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "decode response", "malformed response body", err)
	}
	return decoded.Segments, nil
}

// Healthy queries the service health surface and returns nil when the
// model is ready.
func (c *Client) Healthy(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "build health request", "", err)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return services.Wrap(services.ErrRefinementUnavailable, "forcedalign", "health request", "service unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var health healthResponse
		_ = json.NewDecoder(resp.Body).Decode(&health)
		detail := health.Detail
		if detail == "" {
			detail = health.State
		}
		return services.Wrap(services.ErrNotReady, "forcedalign", "health", detail, nil)
	}
	return nil
}

func (c *Client) rejectionError(resp *http.Response) error {
	var decoded errorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(data, &decoded)
	detail := decoded.Error
	if detail == "" {
		detail = fmt.Sprintf("status %d", resp.StatusCode)
	}

	var marker error
	switch resp.StatusCode {
	case http.StatusServiceUnavailable:
		marker = services.ErrNotReady
	case http.StatusRequestEntityTooLarge:
		marker = services.ErrDurationExceeded
	case http.StatusTooManyRequests:
		marker = services.ErrBusy
	default:
		marker = services.ErrRefinementUnavailable
	}
	return services.Wrap(marker, "forcedalign", "align", detail, nil)
}
