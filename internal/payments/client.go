package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// SessionLine is one display line of a hosted checkout session.
// Amounts are integer cents.
type SessionLine struct {
	ItemID     string `json:"item_id,omitempty"`
	Name       string `json:"name"`
	UnitAmount int64  `json:"unit_amount"`
	Quantity   int    `json:"quantity"`
}

type SessionRequest struct {
	Lines      []SessionLine     `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client creates hosted checkout sessions against the payment
// provider's HTTP API. Calls run through a circuit breaker so a
// failing provider stops consuming request budget quickly.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	logger  *log.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) *Client {
	st := gobreaker.Settings{
		Name:     "payment-provider",
		Interval: 10 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Printf("circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		cb:      gobreaker.NewCircuitBreaker(st),
		logger:  logger,
	}
}

// CreateSession asks the provider for a hosted checkout page and
// returns its redirect URL.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if c.apiKey == "" {
		return Session{}, ErrNotConfigured
	}
	if len(req.Lines) == 0 {
		return Session{}, errors.New("no line items")
	}

	res, err := c.cb.Execute(func() (any, error) {
		return c.createSession(ctx, req)
	})
	if err != nil {
		return Session{}, err
	}
	return res.(Session), nil
}

func (c *Client) createSession(ctx context.Context, req SessionRequest) (Session, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Session{}, fmt.Errorf("marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Session{}, fmt.Errorf("call payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Session{}, fmt.Errorf("payment provider returned %d: %s", resp.StatusCode, msg)
	}

	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	if s.URL == "" {
		return Session{}, errors.New("provider returned no redirect url")
	}
	return s, nil
}

// ToCents converts a dollar amount into the integer cents the provider
// expects.
func ToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
