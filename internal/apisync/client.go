// Package apisync pulls the shared roster from the st8 server and pushes
// local changes back, degrading to a bundled file and then to an empty
// roster when the server is out of reach.
package apisync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/st8/internal/logger"
	"github.com/alexanderramin/st8/internal/storage"
)

// Source tells where a fetched roster came from.
type Source string

const (
	SourceRemote Source = "remote"
	SourceFile   Source = "file"
	SourceEmpty  Source = "empty"
)

// FetchResult is a roster document and its origin. RemoteErr holds the
// reason the server was skipped, if it was.
type FetchResult struct {
	Doc       *storage.RosterDocument
	Source    Source
	RemoteErr error
}

// Client synchronizes the shared roster document.
type Client interface {
	// Fetch never fails for network reasons; it falls back instead. It only
	// returns an error when ctx is done.
	Fetch(ctx context.Context) (*FetchResult, error)

	// Push sends doc to the server and reports whether it was accepted.
	Push(ctx context.Context, doc *storage.RosterDocument) (bool, error)
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client for cfg.
func NewClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *httpClient) Fetch(ctx context.Context) (*FetchResult, error) {
	start := time.Now()

	remoteErr := errors.New("no endpoint configured")
	if c.cfg.Endpoint != "" {
		doc, err := c.fetchRemote(ctx)
		if err == nil {
			c.observe(OpFetch, SourceRemote, start, nil)
			return &FetchResult{Doc: doc, Source: SourceRemote}, nil
		}
		remoteErr = err
		logger.Warn("roster server unreachable, falling back", "endpoint", c.cfg.Endpoint, "error", err)
	}
	if err := ctx.Err(); err != nil {
		c.observe(OpFetch, SourceEmpty, start, remoteErr)
		return nil, err
	}

	if c.cfg.FallbackFile != "" {
		doc, ok, err := storage.NewRosterFile(c.cfg.FallbackFile).Load(ctx)
		switch {
		case err != nil:
			logger.Warn("fallback roster unreadable", "path", c.cfg.FallbackFile, "error", err)
		case ok:
			doc.Normalize()
			c.observe(OpFetch, SourceFile, start, remoteErr)
			return &FetchResult{Doc: doc, Source: SourceFile, RemoteErr: remoteErr}, nil
		}
	}

	c.observe(OpFetch, SourceEmpty, start, remoteErr)
	return &FetchResult{Doc: storage.NewRosterDocument(), Source: SourceEmpty, RemoteErr: remoteErr}, nil
}

func (c *httpClient) fetchRemote(ctx context.Context) (*storage.RosterDocument, error) {
	body, err := c.call(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	var doc storage.RosterDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding roster: %v", ErrBadStatus, err)
	}
	doc.Normalize()
	return &doc, nil
}

func (c *httpClient) Push(ctx context.Context, doc *storage.RosterDocument) (bool, error) {
	start := time.Now()
	if c.cfg.Endpoint == "" {
		return false, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("encoding roster: %w", err)
	}
	if _, err := c.call(ctx, http.MethodPost, data); err != nil {
		c.observe(OpPush, SourceRemote, start, err)
		logger.Warn("roster push failed", "endpoint", c.cfg.Endpoint, "error", err)
		return false, err
	}
	c.observe(OpPush, SourceRemote, start, nil)
	return true, nil
}

// call performs one request with the configured timeout and retries.
// Connection failures and 5xx answers are retried; context expiry is not.
func (c *httpClient) call(ctx context.Context, method string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	for i := 0; i < attempts; i++ {
		body, status, err := c.doRequest(ctx, method, payload)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}
		if err == nil {
			lastErr = fmt.Errorf("%w: status %d", ErrBadStatus, status)
			if status < 500 {
				return nil, lastErr
			}
		} else {
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}

	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	if isConnectionError(lastErr) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}
	return nil, fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
}

func (c *httpClient) doRequest(ctx context.Context, method string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+AgentsPath, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return data, resp.StatusCode, nil
}

func (c *httpClient) observe(op Op, source Source, start time.Time, err error) {
	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Source:    source,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrBadStatus):
		return "BAD_STATUS"
	case errors.Is(err, ErrRetryExhausted):
		return "RETRY_EXHAUSTED"
	default:
		return "UNKNOWN"
	}
}
