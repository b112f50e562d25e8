// Package httpclient is the HTTP adapter behind the network tool.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mcncl/scriptkit/internal/errors"
	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

// DefaultContentType is sent with a request body when the caller did not set
// a Content-Type header.
const DefaultContentType = "text/plain;charset=UTF-8"

// Options configures a Client.
type Options struct {
	// Timeout bounds each request. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	// Verbose, when set, receives a trace of each request and response.
	Verbose io.Writer
	Logger  *zap.Logger
}

// Client sends one request per call and reads the whole response.
type Client struct {
	http      *http.Client
	userAgent string
	verbose   io.Writer
	logger    *zap.Logger
}

// Request describes an outgoing call.
type Request struct {
	Method  string
	URL     string
	Headers *models.Object
	Body    string
}

// Outcome is a completed response.
type Outcome struct {
	StatusCode int
	StatusText string
	Header     http.Header
	// Body is a decoded JSON value for application/json responses and the
	// raw text otherwise.
	Body models.Value
	Raw  []byte
}

// OK reports a 2xx status.
func (o *Outcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// Text renders the body for display: strings as-is, JSON values indented.
func (o *Outcome) Text() string {
	if s, ok := o.Body.(string); ok {
		return s
	}
	out, err := parser.Stringify(o.Body, true)
	if err != nil {
		return string(o.Raw)
	}
	return out
}

// StatusReport is the result of a HEAD probe.
type StatusReport struct {
	URL           string
	StatusCode    int
	StatusText    string
	ContentType   string
	ContentLength string
}

// New creates a Client.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		verbose:   opts.Verbose,
		logger:    logger,
	}
}

// ParseHeaders decodes the --headers flag. Empty text yields no headers.
func ParseHeaders(text string) (*models.Object, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	value, err := parser.ParseString(text)
	if err != nil {
		return nil, errors.NewParseError("headers must be a JSON object", err)
	}
	obj, ok := value.(*models.Object)
	if !ok {
		return nil, errors.NewInvalidInputError(
			fmt.Sprintf("headers must be a JSON object, got %s", models.Kind(value)),
			errors.ErrNotMapping,
		)
	}
	return obj, nil
}

// Do sends req. For a non-2xx status it returns the outcome together with a
// remote error so the caller can still show the response body.
func (c *Client) Do(ctx context.Context, req Request) (*Outcome, error) {
	c.tracef("Sending %s request to: %s\n", req.Method, req.URL)
	if req.Headers.Len() > 0 {
		pretty, _ := parser.Stringify(req.Headers, true)
		c.tracef("Request headers: %s\n", pretty)
	}
	if req.Body != "" {
		c.tracef("Request body: %s\n", req.Body)
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	httpReq, err := c.newRequest(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for _, key := range req.Headers.Keys() {
		v, _ := req.Headers.Get(key)
		httpReq.Header.Set(key, models.Text(v))
	}
	if req.Body != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", DefaultContentType)
	}

	resp, raw, err := c.send(httpReq)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Raw:        raw,
		Body:       string(raw),
	}
	c.tracef("Response status: %d %s\n", outcome.StatusCode, outcome.StatusText)
	headers, _ := parser.Stringify(headerObject(resp.Header), true)
	c.tracef("Response headers: %s\n", headers)

	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		value, err := parser.Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.NewParseError("response declared application/json but did not parse", err)
		}
		outcome.Body = value
	}

	if !outcome.OK() {
		return outcome, errors.NewRemoteError(fmt.Sprintf("%d %s", outcome.StatusCode, outcome.StatusText), nil)
	}
	return outcome, nil
}

// Download fetches url and returns the raw body.
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	c.tracef("Downloading from: %s\n", url)
	httpReq, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, raw, err := c.send(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewRemoteError(fmt.Sprintf("download failed: %d %s", resp.StatusCode, statusText(resp)), nil)
	}
	return raw, nil
}

// Status probes url with a HEAD request. Any status is a successful probe.
func (c *Client) Status(ctx context.Context, url string) (*StatusReport, error) {
	c.tracef("Checking status of: %s\n", url)
	httpReq, err := c.newRequest(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	resp, _, err := c.send(httpReq)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		URL:           url,
		StatusCode:    resp.StatusCode,
		StatusText:    statusText(resp),
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.Header.Get("Content-Length"),
	}
	if report.ContentType == "" {
		report.ContentType = "unknown"
	}
	if report.ContentLength == "" {
		if resp.ContentLength >= 0 {
			report.ContentLength = strconv.FormatInt(resp.ContentLength, 10)
		} else {
			report.ContentLength = "unknown"
		}
	}
	return report, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("invalid request for %q", url), err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	start := time.Now()
	c.logger.Debug("http request", zap.String("method", req.Method), zap.String("url", req.URL.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.NewIOError(fmt.Sprintf("%s %s failed", req.Method, req.URL), err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.NewIOError(fmt.Sprintf("failed to read response from %s", req.URL), err)
	}
	c.logger.Debug("http response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return resp, raw, nil
}

func (c *Client) tracef(format string, args ...interface{}) {
	if c.verbose == nil {
		return
	}
	_, _ = fmt.Fprintf(c.verbose, format, args...)
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// headerObject lowercases and sorts header names, joining repeated values
// with ", ".
func headerObject(h http.Header) *models.Object {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	obj := models.NewObject()
	for _, name := range names {
		obj.Set(strings.ToLower(name), strings.Join(h.Values(name), ", "))
	}
	return obj
}
