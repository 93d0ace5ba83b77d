// Package http provides an HTTP implementation of fontdl.Catalog and
// fontdl.FileDownloader for the provider's undocumented AJAX endpoints.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/fontdl"
	"github.com/fwojciec/fontdl/fs"
	"golang.org/x/net/publicsuffix"
)

// DefaultHost is the provider's domain.
const DefaultHost = "onlinewebfonts.com"

// DefaultUserAgent is sent with every request. The provider does not appear
// to check it, but requests without a browser User-Agent are untested.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// downloadNameCookie carries the row's short name on resolve requests.
const downloadNameCookie = "downloadname"

// Ensure Client implements the domain interfaces at compile time.
var (
	_ fontdl.Catalog        = (*Client)(nil)
	_ fontdl.FileDownloader = (*Client)(nil)
)

// Client talks to the provider over a single connection-reusing http.Client.
// Its configuration is fixed at construction; per-request headers and
// cookies are passed explicitly for each call.
type Client struct {
	client     *http.Client
	host       string
	searchURL  string
	resolveURL string
	refererURL string
	userAgent  string
	timeout    time.Duration
	files      *fs.Writer
	chunkSize  int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
// Defaults to a client with a cookie jar and no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithHost sets the provider domain used to build endpoint URLs.
func WithHost(host string) Option {
	return func(c *Client) {
		c.host = host
	}
}

// WithSearchURL overrides the search endpoint URL.
func WithSearchURL(u string) Option {
	return func(c *Client) {
		c.searchURL = u
	}
}

// WithResolveURL overrides the download-resolution endpoint URL.
func WithResolveURL(u string) Option {
	return func(c *Client) {
		c.resolveURL = u
	}
}

// WithRefererURL overrides the base of the Referer sent on resolve requests.
// The row id is appended to it.
func WithRefererURL(u string) Option {
	return func(c *Client) {
		c.refererURL = u
	}
}

// WithUserAgent sets the User-Agent header.
// Defaults to DefaultUserAgent if empty or not specified.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds every request, including the full body transfer of a
// download. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithChunkSize sets the read chunk size used when streaming downloads.
func WithChunkSize(n int) Option {
	return func(c *Client) {
		c.chunkSize = n
	}
}

// NewClient creates a new provider Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		host:      DefaultHost,
		userAgent: DefaultUserAgent,
		chunkSize: fs.DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.searchURL == "" {
		c.searchURL = "https://www." + c.host + "/ajax.html"
	}
	if c.resolveURL == "" {
		c.resolveURL = "https://cdn." + c.host + "/ajax.html"
	}
	if c.refererURL == "" {
		c.refererURL = "https://www." + c.host + "/download/"
	}
	if c.client == nil {
		// cookiejar.New only fails on invalid options.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		c.client = &http.Client{Jar: jar}
	}
	c.files = fs.NewWriter(fs.WithChunkSize(c.chunkSize))

	return c
}

// Search returns the page of results for query at cursor.
func (c *Client) Search(ctx context.Context, query, cursor string) (*fontdl.Page, error) {
	if cursor == "" {
		return nil, fontdl.Errorf(fontdl.EINVALID, "search cursor required; use %q to start", fontdl.StartCursor)
	}

	env, reqURL, err := c.ajax(ctx, request{
		url: c.searchURL,
		params: url.Values{
			"type": {"search"},
			"q":    {query},
			"p":    {cursor},
		},
	})
	if err != nil {
		return nil, err
	}

	page, err := env.Page()
	if err != nil {
		return nil, withURL(err, reqURL)
	}
	return page, nil
}

// ResolveDownloadURL returns the archive URL for the row with the given id.
func (c *Client) ResolveDownloadURL(ctx context.Context, id, name string, formats []string) (string, error) {
	if id == "" {
		return "", fontdl.Errorf(fontdl.EINVALID, "row id required")
	}
	if len(formats) == 0 {
		return "", fontdl.Errorf(fontdl.EINVALID, "at least one format required")
	}

	env, reqURL, err := c.ajax(ctx, request{
		url: c.resolveURL,
		params: url.Values{
			"type":   {"a"},
			"id":     {id},
			"format": {strings.Join(formats, "|")},
		},
		header: http.Header{
			"Referer": {c.refererURL + id},
		},
		cookies: []*http.Cookie{
			{Name: downloadNameCookie, Value: name},
		},
	})
	if err != nil {
		return "", err
	}

	u, err := env.URL()
	if err != nil {
		return "", withURL(err, reqURL)
	}
	return u, nil
}

// Download streams the body of rawURL to path.
func (c *Client) Download(ctx context.Context, rawURL, path string) (*fontdl.Written, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, request{url: rawURL})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fontdl.WrapError(fontdl.EHTTP, err, "GET failed").WithURL(rawURL)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	written, err := c.files.WriteFile(ctx, path, &bodyReader{r: resp.Body, url: rawURL})
	if err != nil {
		return nil, withURL(err, rawURL)
	}
	return written, nil
}

// ajax performs a GET against an AJAX endpoint and decodes the JSONP
// envelope. It returns the full request URL alongside the result.
func (c *Client) ajax(ctx context.Context, r request) (*fontdl.Envelope, string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, "", err
	}
	reqURL := req.URL.String()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, reqURL, fontdl.WrapError(fontdl.EHTTP, err, "GET failed").WithURL(reqURL)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, reqURL, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, reqURL, fontdl.WrapError(fontdl.EHTTP, err, "read body").WithURL(reqURL)
	}

	env, err := fontdl.DecodeEnvelope(body)
	if err != nil {
		return nil, reqURL, withURL(err, reqURL)
	}
	return env, reqURL, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// checkStatus returns an EHTTP error for non-2xx responses.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := fontdl.Errorf(fontdl.EHTTP, "HTTP %d", resp.StatusCode)
	if resp.Request != nil {
		err.URL = resp.Request.URL.String()
	}
	return err
}

// withURL attaches reqURL to application errors that carry none.
func withURL(err error, reqURL string) error {
	var e *fontdl.Error
	if errors.As(err, &e) && e.URL == "" {
		e.URL = reqURL
	}
	return err
}

// bodyReader marks failures reading a response body as EHTTP errors so they
// are not mistaken for local write failures.
type bodyReader struct {
	r   io.Reader
	url string
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fontdl.WrapError(fontdl.EHTTP, err, "read body").WithURL(b.url)
	}
	return n, err
}
