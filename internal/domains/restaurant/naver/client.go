package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"matjip-backend/pkg/logger"
)

// =====================================================
// NAVER LOCAL SEARCH CLIENT
// =====================================================

// ErrorKind classifies a failed search call.
type ErrorKind int

const (
	// KindUpstream covers non-2xx responses, transport and decode errors.
	KindUpstream ErrorKind = iota
	// KindTimeout covers the internal timeout and caller cancellation.
	// Callers cannot distinguish the two, by design.
	KindTimeout
)

// ClientError is the typed failure returned by Search.
type ClientError struct {
	Kind   ErrorKind
	Status int // HTTP status for upstream failures, 0 otherwise
	Err    error
}

func (e *ClientError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("naver search timed out: %v", e.Err)
	default:
		if e.Status != 0 {
			return fmt.Sprintf("naver search upstream failed (status %d): %v", e.Status, e.Err)
		}
		return fmt.Sprintf("naver search upstream failed: %v", e.Err)
	}
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Item is one raw result from the local-search API. mapx/mapy arrive as
// strings carrying a fixed-point coordinate encoding; the normalizer owns
// decoding them.
type Item struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	RoadAddress string `json:"roadAddress"`
	Address     string `json:"address"`
	Mapx        string `json:"mapx"`
	Mapy        string `json:"mapy"`
	Link        string `json:"link"`
	Telephone   string `json:"telephone"`
	Description string `json:"description"`
}

type searchResponse struct {
	Items []Item `json:"items"`
}

// Config configures the outbound client.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	MaxResults   int
}

type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a search client. The per-call timeout is enforced via
// context so that caller cancellation composes with it.
func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{},
	}
}

// Search issues one GET against the local-search API.
// The caller-supplied context is honored; if it is canceled the in-flight
// call is aborted and a timeout-kind error is returned.
func (c *Client) Search(ctx context.Context, keyword string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	endpoint, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil, &ClientError{Kind: KindUpstream, Err: fmt.Errorf("invalid base URL: %w", err)}
	}

	query := endpoint.Query()
	query.Set("query", keyword)
	query.Set("display", strconv.Itoa(c.config.MaxResults))
	query.Set("sort", "sim")
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &ClientError{Kind: KindUpstream, Err: fmt.Errorf("build request: %w", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Naver-Client-Id", c.config.ClientID)
	req.Header.Set("X-Naver-Client-Secret", c.config.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Both the internal deadline and caller cancellation land here.
		if ctx.Err() != nil {
			return nil, &ClientError{Kind: KindTimeout, Err: ctx.Err()}
		}
		return nil, &ClientError{Kind: KindUpstream, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read the body for diagnostics; a body-read failure is not
		// worth surfacing on top of the status error.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))

		// Minimal diagnostics without leaking credentials
		logger.Warn("Naver search upstream not ok", map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(snippet),
		})

		return nil, &ClientError{
			Kind:   KindUpstream,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if ctx.Err() != nil {
			return nil, &ClientError{Kind: KindTimeout, Err: ctx.Err()}
		}
		return nil, &ClientError{Kind: KindUpstream, Err: fmt.Errorf("decode response: %w", err)}
	}

	return payload.Items, nil
}
