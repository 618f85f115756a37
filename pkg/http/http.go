// Package http is a small fluent client for outbound JSON calls.
//
//	resp, err := http.Post(url).
//	    WithContext(ctx).
//	    Query("key", apiKey).
//	    Body(payload).
//	    Retry(2, time.Second).
//	    Send()
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	gohttp "net/http"
	"net/url"
	"time"

	"github.com/shashiranjanraj/till/pkg/logger"
)

var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        20,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is shared by every request unless Using overrides it.
var DefaultClient = &gohttp.Client{Transport: defaultTransport}

// Request is a fluent request builder.
type Request struct {
	client    *gohttp.Client
	method    string
	url       string
	query     url.Values
	headers   map[string]string
	body      interface{}
	timeout   time.Duration
	retries   int
	retryWait time.Duration
	ctx       context.Context
}

func Get(u string) *Request  { return newRequest(gohttp.MethodGet, u) }
func Post(u string) *Request { return newRequest(gohttp.MethodPost, u) }

func newRequest(method, u string) *Request {
	return &Request{
		client:    DefaultClient,
		method:    method,
		url:       u,
		query:     url.Values{},
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// Using sends the request through c instead of DefaultClient.
func (r *Request) Using(c *gohttp.Client) *Request {
	if c != nil {
		r.client = c
	}
	return r
}

func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

func (r *Request) Query(key, value string) *Request {
	r.query.Set(key, value)
	return r
}

// Body sets the payload; anything other than string or []byte is sent as JSON.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout bounds each attempt.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry sets total attempts n; the wait doubles after each failure.
// Only transport errors and 5xx responses are retried.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.retries = n
	r.retryWait = wait
	return r
}

func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request. A non-2xx response is returned without error;
// use Response.Throw to turn it into one.
func (r *Request) Send() (*Response, error) {
	var (
		resp    *Response
		lastErr error
	)

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, lastErr = r.do()
		if lastErr == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == r.retries {
			break
		}

		backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
		logger.WithCtx(r.ctx).Warn("http: request failed, retrying",
			"host", hostOf(r.url), "attempt", attempt, "backoff", backoff, "error", describe(resp, lastErr))

		select {
		case <-time.After(backoff):
		case <-r.ctx.Done():
			return nil, fmt.Errorf("http: %s %s: %w", r.method, hostOf(r.url), r.ctx.Err())
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("http: %d attempts failed for %s %s: %w", r.retries, r.method, hostOf(r.url), lastErr)
	}
	return resp, nil
}

func (r *Request) do() (*Response, error) {
	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	target := r.url
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := gohttp.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}

	return &Response{StatusCode: res.StatusCode, Headers: res.Header, Raw: raw}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	switch v := r.body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("http: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// hostOf keeps query strings, which may carry API keys, out of logs and errors.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	return u.Scheme + "://" + u.Host + u.Path
}

func describe(resp *Response, err error) string {
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

func (r *Response) Text() string { return string(r.Raw) }

// Throw returns an error for a non-2xx status.
func (r *Response) Throw() error {
	if !r.OK() {
		snippet := r.Raw
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return fmt.Errorf("http: status %d: %s", r.StatusCode, snippet)
	}
	return nil
}
