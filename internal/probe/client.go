package probe

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/projectdiscovery/gologger"

	"github.com/debugscan/debugscan/internal/config"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHeader     = "text/html,application/json,*/*"
	acceptEncoding   = "gzip, deflate, br"

	// DefaultTimeout applies when the options leave the per-request
	// timeout unset.
	DefaultTimeout = 5 * time.Second

	// DefaultMaxBodyBytes caps how much of a response body is read when
	// the options leave the limit unset.
	DefaultMaxBodyBytes = 1 << 20
)

// Outcome is the result of a single probe attempt. A StatusCode of 0 means
// the attempt produced no usable response (connection, DNS, TLS or timeout
// failure, or an unreadable body); the cause is logged at debug level, not
// returned. Callers only ever branch on the status code.
type Outcome struct {
	StatusCode int
	Body       string
}

// Failed reports whether the attempt died below the HTTP layer.
func (o Outcome) Failed() bool { return o.StatusCode == 0 }

// Client is the shared session every probe of a scan runs through. It owns
// the connection pool, applies the per-request timeout and the static header
// set, and bounds in-flight requests across all probers with a semaphore
// sized to the worker count. Safe for concurrent use. Close must not be
// called while probes are in flight.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	userAgent  string
	maxBody    int64
	inflight   chan struct{}
	requests   atomic.Int64
	pauser     *Pauser
}

// NewClient builds the scan session from the provided options.
func NewClient(opts *config.Options) (*Client, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBody := opts.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		DialContext: (&net.Dialer{
			Timeout: timeout,
		}).DialContext,
		MaxIdleConnsPerHost: workers,
		MaxIdleConns:        workers,
	}

	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.Proxy, err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		httpClient: client,
		headers:    opts.Headers,
		userAgent:  ua,
		maxBody:    maxBody,
		inflight:   make(chan struct{}, workers),
	}, nil
}

// SetPauser installs a cooperative pause gate checked before every request.
// Must be set before probing starts.
func (c *Client) SetPauser(p *Pauser) { c.pauser = p }

// Requests returns how many probe attempts have been issued so far.
func (c *Client) Requests() int64 { return c.requests.Load() }

// Do issues one probe attempt. Every failure mode below the HTTP layer is
// collapsed into the zero Outcome here, with the cause logged, so probers
// never see an error. A 404 comes back with an empty body: its content is
// never inspected, only drained so the pooled connection stays reusable.
func (c *Client) Do(ctx context.Context, rawURL, method, body string) Outcome {
	if c.pauser != nil {
		c.pauser.Wait()
	}

	select {
	case c.inflight <- struct{}{}:
	case <-ctx.Done():
		return Outcome{}
	}
	defer func() { <-c.inflight }()

	c.requests.Add(1)

	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
	if err != nil {
		gologger.Debug().Msgf("probe %s %s: %s", method, rawURL, err)
		return Outcome{}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		gologger.Debug().Msgf("probe %s %s: %s", method, rawURL, err)
		return Outcome{}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return Outcome{StatusCode: http.StatusNotFound}
	}

	text, err := c.readBody(resp)
	if err != nil {
		gologger.Debug().Msgf("probe %s %s: reading body: %s", method, rawURL, err)
		return Outcome{}
	}

	return Outcome{StatusCode: resp.StatusCode, Body: text}
}

// readBody reads at most maxBody bytes of the response, decoding whatever
// Content-Encoding the server applied. Accept-Encoding is set by hand on
// every request, which turns off net/http's transparent gunzip, so all three
// advertised encodings are handled here. The cap is applied to the raw
// stream and again to the decoded stream.
func (c *Client) readBody(resp *http.Response) (string, error) {
	var reader io.Reader = io.LimitReader(resp.Body, c.maxBody)

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return "", err
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fr := flate.NewReader(reader)
		defer fr.Close()
		reader = fr
	case "br":
		reader = brotli.NewReader(reader)
	}

	data, err := io.ReadAll(io.LimitReader(reader, c.maxBody))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Close tears the session down. No probe may be issued afterwards.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
