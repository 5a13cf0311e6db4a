// Package vkapi collects ego networks from the VK social platform.
//
// A Client talks to the VK REST API with token rotation, request pacing
// and retry on rate limiting. A Crawler drives a Client across a worker
// pool to assemble the friendship graph around a root profile.
package vkapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
)

var validate = validator.New()

const (
	// DefaultBaseURL is the public VK API endpoint.
	DefaultBaseURL = "https://api.vk.com/method"

	// apiVersion pins the VK API contract the client understands.
	apiVersion = "5.131"

	// friendsPageSize is the maximum page size friends.get accepts.
	friendsPageSize = 5000

	// namesBatchSize is the maximum number of ids per users.get call.
	namesBatchSize = 1000

	// maxAttempts bounds retries on rate limited requests.
	maxAttempts = 3
)

// ClientOptions configures a VK API client.
type ClientOptions struct {
	// Tokens are the access tokens rotated across requests.
	Tokens []string `validate:"min=1"`

	// BaseURL overrides the VK endpoint, mainly for tests.
	BaseURL string

	// RequestInterval is the minimum spacing between requests.
	RequestInterval time.Duration `validate:"min=0"`

	// RetryBackoff is the base delay before retrying a rate limited call.
	RetryBackoff time.Duration `validate:"min=0"`

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	// Logger receives request diagnostics. Defaults to a no-op logger.
	Logger logging.Logger

	// Metrics receives request counters. Defaults to the shared registry.
	Metrics *metrics.Registry
}

// DefaultClientOptions returns the pacing VK tolerates on user tokens.
func DefaultClientOptions(tokens ...string) ClientOptions {
	return ClientOptions{
		Tokens:          tokens,
		BaseURL:         DefaultBaseURL,
		RequestInterval: 350 * time.Millisecond,
		RetryBackoff:    time.Second,
	}
}

// Client is a rate limited VK API client. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     []string
	next       uint32
	ticker     *time.Ticker
	backoff    time.Duration
	logger     logging.Logger
	metrics    *metrics.Registry
}

// NewClient builds a Client from options.
func NewClient(opts ClientOptions) (*Client, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTokens, err)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.RequestInterval <= 0 {
		opts.RequestInterval = 350 * time.Millisecond
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	return &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		ticker:     time.NewTicker(opts.RequestInterval),
		backoff:    opts.RetryBackoff,
		logger:     opts.Logger.With(logging.Component("vkapi")),
		metrics:    opts.Metrics,
	}, nil
}

// Close releases the pacing ticker.
func (c *Client) Close() {
	c.ticker.Stop()
}

// Friends returns the full friend list of a profile, paging through
// friends.get until every id is fetched.
func (c *Client) Friends(ctx context.Context, userID int64) ([]int64, error) {
	var (
		items []int64
		total = -1
	)
	for offset := 0; total < 0 || offset < total; offset += friendsPageSize {
		page, count, err := c.friendsPage(ctx, userID, offset)
		if err != nil {
			return nil, err
		}
		if total < 0 {
			total = count
			items = make([]int64, 0, count)
		}
		items = append(items, page...)
		if len(page) == 0 {
			break
		}
	}
	return items, nil
}

func (c *Client) friendsPage(ctx context.Context, userID int64, offset int) ([]int64, int, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	params.Set("count", strconv.Itoa(friendsPageSize))
	params.Set("offset", strconv.Itoa(offset))

	var payload struct {
		Response struct {
			Count int     `json:"count"`
			Items []int64 `json:"items"`
		} `json:"response"`
	}
	if err := c.call(ctx, "friends.get", params, &payload); err != nil {
		return nil, 0, err
	}
	return payload.Response.Items, payload.Response.Count, nil
}

// Names resolves profile ids to display names via users.get.
func (c *Client) Names(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	for start := 0; start < len(ids); start += namesBatchSize {
		end := start + namesBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := c.namesBatch(ctx, ids[start:end], names); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (c *Client) namesBatch(ctx context.Context, ids []int64, names map[int64]string) error {
	encoded := make([]string, len(ids))
	for i, id := range ids {
		encoded[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("user_ids", strings.Join(encoded, ","))

	var payload struct {
		Response []struct {
			ID        int64  `json:"id"`
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		} `json:"response"`
	}
	if err := c.call(ctx, "users.get", params, &payload); err != nil {
		return err
	}
	for _, user := range payload.Response {
		names[user.ID] = strings.TrimSpace(user.FirstName + " " + user.LastName)
	}
	return nil
}

// call performs one paced API request, rotating tokens and retrying on
// rate limiting.
func (c *Client) call(ctx context.Context, method string, params url.Values, out any) error {
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := c.do(ctx, method, params, out)
		duration := time.Since(start)
		if err == nil {
			c.metrics.RecordVKRequest(method, "ok", duration)
			return nil
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			c.metrics.RecordVKRequest(method, "transport_error", duration)
			return err
		}
		if apiErr.Code != codeRateLimited {
			c.metrics.RecordVKRequest(method, "api_error", duration)
			return apiErr
		}

		c.metrics.RecordVKRequest(method, "rate_limited", duration)
		c.metrics.RecordRateLimitHit()
		if attempt >= maxAttempts {
			return apiErr
		}
		c.logger.Warn("rate limited, backing off",
			logging.String("method", method),
			logging.Int("attempt", attempt))
		wait := time.Duration(attempt) * c.backoff
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) do(ctx context.Context, method string, params url.Values, out any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ticker.C:
	}

	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("access_token", c.nextToken())
	query.Set("v", apiVersion)

	endpoint := c.baseURL + "/" + method + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vk %s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vk %s: unexpected status %d", method, resp.StatusCode)
	}

	var probe struct {
		Error *struct {
			Code    int    `json:"error_code"`
			Message string `json:"error_msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if probe.Error != nil {
		return &APIError{Method: method, Code: probe.Error.Code, Message: probe.Error.Message}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

// nextToken rotates through the configured tokens round-robin.
func (c *Client) nextToken() string {
	idx := atomic.AddUint32(&c.next, 1)
	return c.tokens[int(idx)%len(c.tokens)]
}
