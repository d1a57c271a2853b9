// Package httputil provides the HTTP client plumbing used by the offline
// asset mirror.
//
// # Overview
//
//   - [Fetcher]: GET requests against an upstream origin
//   - [Retry]: automatic retry with exponential backoff
//
// # Fetching
//
// [Fetcher] resolves asset references against an origin. Paths such as
// "/index.html" are joined to the origin; absolute URLs such as a CDN
// script are fetched as-is:
//
//	f, err := httputil.NewFetcher("http://localhost:3000", httputil.FetcherOptions{})
//	resp, err := f.Fetch(ctx, "/index.html")
//
// Network failures and 5xx responses are wrapped in [RetryableError]. A 5xx
// is also returned as a [Response] so callers can pass it through.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for transient failures:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err = f.Fetch(ctx, ref)
//	    return err
//	})
//
// Only errors wrapped with [RetryableError] are retried. The delay doubles
// after each failed attempt, capped at 30 seconds.
package httputil
