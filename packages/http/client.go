package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/rester-cli/rester/packages/core/parser"
	"github.com/rester-cli/rester/packages/decode"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
)

// Client executes parsed requests over the network and hands back raw
// responses for decoding. It is safe for concurrent use; each request
// gets its own connection state from the underlying transport.
type Client struct {
	httpClient     *http.Client
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
}

type ClientOption func(*Client)

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:        DefaultTimeout,
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Decompression belongs to the decode package; a transparent gzip
	// layer here would strip the Content-Encoding header before the
	// decoder ever sees it.
	transport := &http.Transport{
		DisableCompression: true,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !c.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= c.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	c.httpClient = &http.Client{
		Transport:     transport,
		Timeout:       c.timeout,
		CheckRedirect: redirectPolicy,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithFollowRedirects(follow bool) ClientOption {
	return func(c *Client) {
		c.followRedirect = follow
	}
}

func WithMaxRedirects(max int) ClientOption {
	return func(c *Client) {
		c.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// Do executes a parsed request and reads the whole response. A zero
// timeout uses the client default. Transport failures come back already
// classified (ErrInvalidHostname, ErrTimeout).
func (c *Client) Do(ctx context.Context, req *parser.Request, timeout time.Duration) (*decode.RawResponse, error) {
	if req.Hostname == "" {
		return nil, ErrMissingHostname
	}

	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if req.HasBody {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL(), body)
	if err != nil {
		return nil, err
	}

	for _, h := range req.Headers {
		key := strings.TrimSpace(h.Key)
		if strings.EqualFold(key, "host") {
			httpReq.Host = h.Value
			continue
		}
		// Assign directly instead of Set: keeps the author's key casing
		// on the wire and lets same-named, differently-cased keys coexist.
		httpReq.Header[key] = append(httpReq.Header[key], h.Value)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, classify(err)
	}

	return rawResponse(httpResp, respBody), nil
}
