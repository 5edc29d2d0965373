// Package backend talks to the diagnostics backend: the probe endpoints
// the samplers time their transfers against, plus the report, chat and
// refresh operations. The rest of the system only sees the Client
// interface and the strict models.Report type; every assumption about the
// backend's loose JSON lives in this package.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wifi-monitor/internal/models"
)

// Client is the abstract backend surface the core depends on. Transport
// detail (paths, ports) is deployment configuration, not contract.
type Client interface {
	// LatestReport fetches and normalizes the current diagnostic report.
	LatestReport(ctx context.Context) (*models.Report, error)
	// TriggerRefresh asks the backend to rebuild its report. This is the
	// one mandatory call of a full check: its failure fails the check.
	TriggerRefresh(ctx context.Context) error
	// WaitForPerformance polls until the report carries a performance
	// block or ctx expires.
	WaitForPerformance(ctx context.Context, interval time.Duration) (*models.Report, error)
	// DownloadPayload streams a sizeMB test payload into w and returns the
	// byte count. Cache-defeating query parameters are the client's job.
	DownloadPayload(ctx context.Context, sizeMB float64, w io.Writer) (int64, error)
	// UploadPayload posts size bytes of filler to the upload endpoint.
	UploadPayload(ctx context.Context, size int64) error
	// Ping performs one lightweight liveness round trip.
	Ping(ctx context.Context) error
	// Chat forwards one assistant message; the reply is plain text.
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

// ChatRequest mirrors the assistant endpoint payload.
type ChatRequest struct {
	Message string   `json:"message"`
	History []string `json:"history,omitempty"`
}

// HTTPClient implements Client against a base URL.
type HTTPClient struct {
	base string
	hc   *http.Client
}

// NewHTTPClient builds a client for the given base URL. The zero timeout
// on the inner http.Client is deliberate: every call takes a ctx and the
// long-running transfers carry their own deadlines.
func NewHTTPClient(base string) *HTTPClient {
	return &HTTPClient{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{},
	}
}

func (c *HTTPClient) url(path string) string { return c.base + path }

func (c *HTTPClient) LatestReport(ctx context.Context) (*models.Report, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/latest-report"), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("latest report: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("latest report: %w", err)
	}
	report := Normalize(raw)
	return &report, nil
}

func (c *HTTPClient) TriggerRefresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/refresh-now"), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("trigger refresh: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("trigger refresh: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) WaitForPerformance(ctx context.Context, interval time.Duration) (*models.Report, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := c.LatestReport(ctx)
		if err == nil && report.Performance != nil {
			return report, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *HTTPClient) DownloadPayload(ctx context.Context, sizeMB float64, w io.Writer) (int64, error) {
	q := url.Values{}
	q.Set("size_mb", fmt.Sprintf("%g", sizeMB))
	// cache busting: proxies must not serve the test payload from cache
	q.Set("nocache", fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/speedtest/download")+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download payload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download payload: unexpected status %d", resp.StatusCode)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download payload: %w", err)
	}
	return n, nil
}

func (c *HTTPClient) UploadPayload(ctx context.Context, size int64) error {
	body := bytes.NewReader(make([]byte, size))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/speedtest/upload"), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.ContentLength = size

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("upload payload: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("upload payload: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/health"), nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Chat(ctx context.Context, chatReq ChatRequest) (string, error) {
	payload, err := marshalChat(chatReq)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/chat"), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat: unexpected status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return extractChatReply(raw), nil
}
