package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/observability"
)

const (
	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBody caps how much of a response body is read.
	DefaultMaxBody int64 = 32 << 20

	userAgent = "cosmicscale-mirror"
)

// ErrBodyTooLarge is returned when a response exceeds the body limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Response is a fully read upstream response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// FetcherOptions configures a [Fetcher]. Zero values select defaults.
type FetcherOptions struct {
	Timeout time.Duration
	MaxBody int64
	Client  *http.Client
}

// Fetcher performs GET requests for mirror assets.
type Fetcher struct {
	origin  *url.URL
	client  *http.Client
	maxBody int64
}

// NewFetcher creates a Fetcher for origin. An empty origin is allowed, but
// then only absolute URLs can be fetched.
func NewFetcher(origin string, opts FetcherOptions) (*Fetcher, error) {
	f := &Fetcher{
		client:  opts.Client,
		maxBody: opts.MaxBody,
	}
	if origin != "" {
		if err := errs.ValidateURL(origin); err != nil {
			return nil, err
		}
		u, err := url.Parse(origin)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidURL, err, "invalid origin %q", origin)
		}
		f.origin = u
	}
	if f.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		f.client = &http.Client{Timeout: timeout}
	}
	if f.maxBody <= 0 {
		f.maxBody = DefaultMaxBody
	}
	return f, nil
}

// Origin returns the configured origin, or "" when none is set.
func (f *Fetcher) Origin() string {
	if f.origin == nil {
		return ""
	}
	return f.origin.String()
}

// Resolve turns an asset reference into an absolute URL.
func (f *Fetcher) Resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidURL, err, "invalid asset reference %q", ref)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if f.origin == nil {
		return "", errs.New(errs.ErrCodeInvalidURL, "relative asset %q requires an origin", ref)
	}
	return f.origin.ResolveReference(u).String(), nil
}

// Fetch performs a GET for ref.
//
// Responses with status below 500 are returned without error. A 5xx is
// returned together with a [RetryableError]. Network failures return a nil
// Response and a [RetryableError] carrying a NETWORK_ERROR or TIMEOUT code.
func (f *Fetcher) Fetch(ctx context.Context, ref string) (*Response, error) {
	target, err := f.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidURL, err, "build request for %s", target)
	}
	req.Header.Set("User-Agent", userAgent)

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := f.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(ctxErr, context.Canceled) {
			return nil, ctxErr
		}
		return nil, &RetryableError{Err: networkError(err, target)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, &RetryableError{Err: networkError(err, target)}
	}
	if int64(len(body)) > f.maxBody {
		return nil, errs.Wrap(errs.ErrCodeNetwork, ErrBodyTooLarge, "fetch %s", target)
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	out := &Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}
	if resp.StatusCode >= 500 {
		return out, &RetryableError{Err: errs.New(errs.ErrCodeNetwork, "fetch %s: status %d", target, resp.StatusCode)}
	}
	return out, nil
}

func networkError(err error, target string) error {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return errs.Wrap(errs.ErrCodeTimeout, err, "fetch %s", target)
	}
	return errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", target)
}

// String implements fmt.Stringer.
func (r *Response) String() string {
	return fmt.Sprintf("%d (%d bytes)", r.Status, len(r.Body))
}
