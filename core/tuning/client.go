package tuning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ApplyPath is the tuning endpoint exposed by the performance backend.
const ApplyPath = "/admin/performance/api/tuning-parameters"

// ApplyResult is the backend's verdict on a submitted parameter set.
type ApplyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Submitter sends a parameter set to the backend exactly once per call.
type Submitter interface {
	Submit(ctx context.Context, p Params) (ApplyResult, error)
}

type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

type HTTPSubmitterOption func(*HTTPSubmitter)

// WithSubmitTimeout bounds each submission. Zero leaves the caller's context
// as the only bound.
func WithSubmitTimeout(d time.Duration) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithHTTPClient(c *http.Client) HTTPSubmitterOption {
	return func(s *HTTPSubmitter) {
		if c != nil {
			s.client = c
		}
	}
}

func NewHTTPSubmitter(baseURL string, opts ...HTTPSubmitterOption) *HTTPSubmitter {
	s := &HTTPSubmitter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSubmitter) Submit(ctx context.Context, p Params) (ApplyResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	body, err := json.Marshal(p)
	if err != nil {
		return ApplyResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+ApplyPath, bytes.NewReader(body))
	if err != nil {
		return ApplyResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ApplyResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ApplyResult{}, fmt.Errorf("tuning apply: unexpected status %d", resp.StatusCode)
	}
	var result ApplyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ApplyResult{}, fmt.Errorf("tuning apply: decode response: %w", err)
	}
	return result, nil
}
