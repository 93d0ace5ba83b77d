package http

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fwojciec/fontdl"
)

// request describes one outgoing GET. Headers and cookies listed here are
// added on top of the client's fixed User-Agent.
type request struct {
	url     string
	params  url.Values
	header  http.Header
	cookies []*http.Cookie
}

// newRequest builds an *http.Request from r.
func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u, err := url.Parse(r.url)
	if err != nil {
		return nil, fontdl.WrapError(fontdl.EINVALID, err, "invalid URL %q", r.url)
	}
	if len(r.params) > 0 {
		q := u.Query()
		for k, vs := range r.params {
			q[k] = vs
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fontdl.WrapError(fontdl.EINVALID, err, "build request")
	}

	req.Header.Set("User-Agent", c.userAgent)
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range r.cookies {
		req.AddCookie(ck)
	}

	return req, nil
}
