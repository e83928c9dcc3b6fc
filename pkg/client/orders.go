// Package client is a small Go SDK for the consumer order endpoints.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultPollInterval matches the server's poll_after_seconds for live orders.
const DefaultPollInterval = 30 * time.Second

type Stage struct {
	Status  string     `json:"status"`
	Label   string     `json:"label"`
	Reached bool       `json:"reached"`
	Current bool       `json:"current"`
	At      *time.Time `json:"at,omitempty"`
}

type Timeline struct {
	OrderID          string  `json:"order_id"`
	Status           string  `json:"status"`
	Cancelled        bool    `json:"cancelled"`
	Stages           []Stage `json:"stages"`
	DeliveryPIN      *string `json:"delivery_pin,omitempty"`
	PollAfterSeconds int     `json:"poll_after_seconds"`
}

// Final reports whether the order can no longer change.
func (t *Timeline) Final() bool {
	return t.Status == "delivered" || t.Status == "cancelled"
}

type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

type Client struct {
	baseURL string
	userID  string
	http    *http.Client
}

// New returns a client acting as userID. Requests are traced with otelhttp.
func New(baseURL, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) OrderTimeline(ctx context.Context, orderID string) (*Timeline, error) {
	endpoint := fmt.Sprintf("%s/api/orders/%s/timeline", c.baseURL, url.PathEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-User-ID", c.userID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); json.Unmarshal(data, &body) == nil {
			apiErr.Code = body.Error.Code
			apiErr.Message = body.Error.Message
		}
		return nil, apiErr
	}

	var t Timeline
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return &t, nil
}

// PollOrder fetches the order timeline at once and then every interval,
// handing each snapshot to fn. A failed first fetch is returned; later failures
// are skipped until the next tick. Polling ends without error when ctx is
// done or the order reaches a final status.
func (c *Client) PollOrder(ctx context.Context, orderID string, interval time.Duration, fn func(*Timeline)) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	t, err := c.OrderTimeline(ctx, orderID)
	if err != nil {
		return err
	}
	fn(t)
	if t.Final() {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t, err := c.OrderTimeline(ctx, orderID)
			if err != nil {
				continue
			}
			fn(t)
			if t.Final() {
				return nil
			}
		}
	}
}
