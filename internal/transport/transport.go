// Package transport calls candidate agents over HTTP.
//
// A candidate is any endpoint that accepts
//
//	POST {"messages": [{"role": "user", "content": "..."}]}
//
// and answers with a 2xx response. The body is usually a JSON object with a
// "content" or "output" field, but nothing here depends on that: the raw body
// is always returned alongside whatever object could be decoded.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultMaxBody = 1 << 20

// Message is one chat turn in the request body.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the wire body sent to a candidate.
type Request struct {
	Messages []Message `json:"messages"`
}

// Reply is a successful candidate response.
type Reply struct {
	Status int
	Body   []byte
	// Fields is the decoded body when it is a JSON object, nil otherwise.
	Fields map[string]any
}

// Error describes why a candidate could not be reached or answered with a
// failure status.
type Error struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("candidate %s: HTTP %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		return fmt.Sprintf("candidate %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("candidate %s: %s", e.URL, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Timeout reports whether the call failed because a deadline passed.
func (e *Error) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// Client invokes candidates. The zero value is not usable; call New.
type Client struct {
	http    *http.Client
	maxBody int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithMaxBody caps how many response bytes are read.
func WithMaxBody(n int64) Option {
	return func(cl *Client) { cl.maxBody = n }
}

// New returns a Client. Deadlines come from the context passed to Invoke.
func New(opts ...Option) *Client {
	c := &Client{http: &http.Client{}, maxBody: defaultMaxBody}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Invoke sends message as the single user turn to url.
func (c *Client) Invoke(ctx context.Context, url, message string) (*Reply, error) {
	body, err := json.Marshal(Request{Messages: []Message{{Role: "user", Content: message}}})
	if err != nil {
		return nil, &Error{URL: url, Reason: "encoding request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: url, Reason: "building request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Reason: "sending request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, &Error{URL: url, Reason: "reading response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Reason: strings.TrimSpace(string(raw))}
	}

	reply := &Reply{Status: resp.StatusCode, Body: raw}
	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if dec.Decode(&fields) == nil {
		reply.Fields = fields
	}
	return reply, nil
}
