// Package webclient drives the generation endpoint the way the
// browser front-end does: one submission at a time, a hard abort
// timeout on the whole round trip, and a small bounded retry loop
// that only ever fires on transport- or shape-level failures.
package webclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"webgen_server/internal/types"
)

// State is the client's submission state. Submissions are only
// accepted in StateIdle.
type State int

const (
	StateIdle State = iota
	StateInFlight
	StateRetrying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in-flight"
	case StateRetrying:
		return "retrying"
	default:
		return "unknown"
	}
}

var (
	// ErrBusy rejects a submission while another is in flight.
	// Re-entrant submissions are refused, not queued.
	ErrBusy = errors.New("a generation is already in progress")

	// ErrEmptyPrompt rejects a blank prompt before any network call.
	ErrEmptyPrompt = errors.New("prompt must not be empty")

	// ErrClientTimeout means the whole round trip exceeded the abort
	// timeout. Never retried automatically.
	ErrClientTimeout = errors.New("request timed out; please try a simpler prompt")
)

// RetryableError marks a transport- or shape-level failure that the
// retry loop may attempt again: empty body, undecodable response
// JSON, or a success envelope missing html/css.
type RetryableError struct {
	Reason string
}

func (e *RetryableError) Error() string { return e.Reason }

// ServerError is a semantic failure envelope from the server. These
// are terminal: the server already classified the problem, so sending
// the same prompt again buys nothing.
type ServerError struct {
	StatusCode int
	Message    string
	Details    string
	Suggestion string
}

func (e *ServerError) Error() string {
	msg := fmt.Sprintf("server error: %d", e.StatusCode)
	if e.Message != "" {
		msg += " - " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// Defaults mirror the browser front-end this replaces: a 30s abort
// timeout and two retries 1.5s apart.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 1500 * time.Millisecond
)

// StateListener observes state transitions; attempt is the retry
// ordinal (1-based) when state is StateRetrying, 0 otherwise.
type StateListener func(state State, attempt int)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	onState    StateListener

	mu       sync.Mutex
	inFlight bool
}

type Option func(*Client)

// WithTimeout sets the client-side abort timeout for one attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetryPolicy overrides the retry bound and the fixed delay
// between attempts.
func WithRetryPolicy(maxRetries int, delay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryDelay = delay
	}
}

// WithStateListener registers a callback for state transitions, e.g.
// to show a "retrying" indicator.
func WithStateListener(fn StateListener) Option {
	return func(c *Client) { c.onState = fn }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxRetries reports the configured retry bound, e.g. for progress
// messages.
func (c *Client) MaxRetries() int { return c.maxRetries }

func (c *Client) setState(s State, attempt int) {
	if c.onState != nil {
		c.onState(s, attempt)
	}
}

// Generate submits the prompt and returns the generated website. Only
// one submission may be in flight at a time; concurrent calls get
// ErrBusy immediately. Shape-level failures are retried up to the
// configured bound with a fixed delay; semantic server errors and
// timeouts surface at once.
func (c *Client) Generate(ctx context.Context, prompt string) (*types.Website, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.inFlight = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
		// Any terminal outcome resets the client to idle; the retry
		// counter is per-call state and dies with this frame.
		c.setState(StateIdle, 0)
	}()

	c.setState(StateInFlight, 0)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.setState(StateRetrying, attempt)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		site, err := c.doRequest(ctx, prompt)
		if err == nil {
			return site, nil
		}
		lastErr = err

		var retryable *RetryableError
		if !errors.As(err, &retryable) {
			return nil, err
		}
	}
	return nil, lastErr
}

type generatePayload struct {
	Prompt string `json:"prompt"`
}

func (c *Client) doRequest(ctx context.Context, prompt string) (*types.Website, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(generatePayload{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrClientTimeout
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &RetryableError{Reason: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableError{Reason: "reading response: " + err.Error()}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &RetryableError{Reason: "server returned empty response"}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, decodeServerError(resp.StatusCode, raw)
	}

	var site types.Website
	if err := json.Unmarshal(raw, &site); err != nil {
		return nil, &RetryableError{Reason: "invalid JSON response from server"}
	}
	if site.HTML == "" || site.CSS == "" {
		return nil, &RetryableError{Reason: "incomplete website data received"}
	}
	return &site, nil
}

// decodeServerError classifies a failure envelope. Parse-failure
// envelopes mean the model produced a malformed or incomplete payload,
// which another attempt may well fix, so those stay retryable — except
// when no JSON was found at all: a model answering in prose tends to
// keep answering in prose, so that one is terminal. Everything else is
// a semantic error the server already classified. An unreadable
// envelope counts as a shape failure and stays retryable.
func decodeServerError(status int, raw []byte) error {
	var envelope struct {
		Error      string `json:"error"`
		Details    string `json:"details"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &RetryableError{Reason: "invalid JSON response from server"}
	}

	if status == http.StatusInternalServerError &&
		envelope.Error == "Failed to parse AI response" &&
		!strings.Contains(envelope.Details, "no JSON found") {
		return &RetryableError{Reason: envelope.Error + ": " + envelope.Details}
	}

	srvErr := &ServerError{
		StatusCode: status,
		Message:    envelope.Error,
		Details:    envelope.Details,
		Suggestion: envelope.Suggestion,
	}
	// Collapse anything credential-shaped into a support message.
	combined := strings.ToLower(envelope.Error + " " + envelope.Details)
	if strings.Contains(combined, "api_key") || strings.Contains(combined, "api key") {
		srvErr.Message = "Server configuration issue. Please contact support."
		srvErr.Details = ""
	}
	return srvErr
}
