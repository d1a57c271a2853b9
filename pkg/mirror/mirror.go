package mirror

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cosmicscale/pkg/cache"
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/httputil"
	"github.com/matzehuels/cosmicscale/pkg/observability"
)

// HeaderCache reports how a response was produced: "hit", "miss" or "stale".
const HeaderCache = "X-Mirror-Cache"

// Sources reported in HeaderCache and to observability hooks.
const (
	SourceHit     = "hit"
	SourceMiss    = "miss"
	SourceStale   = "stale"
	SourceNetwork = "network"
)

const keyType = "asset"

// Options tunes a Mirror. Zero values select defaults.
type Options struct {
	Logger     *log.Logger
	Keyer      cache.Keyer
	TTL        time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// Mirror is a cache-first proxy for a versioned asset set.
type Mirror struct {
	manifest Manifest
	cache    cache.Cache
	keyer    cache.Keyer
	fetcher  *httputil.Fetcher
	logger   *log.Logger
	ttl      time.Duration
	attempts int
	delay    time.Duration
}

// New creates a Mirror. The manifest is validated.
func New(m Manifest, c cache.Cache, f *httputil.Fetcher, opts Options) (*Mirror, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if c == nil || f == nil {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mirror needs a cache and a fetcher")
	}
	mr := &Mirror{
		manifest: m,
		cache:    c,
		keyer:    opts.Keyer,
		fetcher:  f,
		logger:   opts.Logger,
		ttl:      opts.TTL,
		attempts: opts.Attempts,
		delay:    opts.RetryDelay,
	}
	if mr.keyer == nil {
		mr.keyer = cache.NewDefaultKeyer()
	}
	if mr.logger == nil {
		mr.logger = log.New(io.Discard)
	}
	if mr.attempts <= 0 {
		mr.attempts = 3
	}
	if mr.delay <= 0 {
		mr.delay = time.Second
	}
	return mr, nil
}

// Manifest returns the mirror's manifest.
func (m *Mirror) Manifest() Manifest { return m.manifest }

// Version returns the active version key.
func (m *Mirror) Version() string { return m.manifest.Version }

// =============================================================================
// Install
// =============================================================================

// AssetError records one asset that could not be installed.
type AssetError struct {
	Asset string
	Err   error
}

// InstallReport summarizes one install run.
type InstallReport struct {
	RunID    string
	Version  string
	Cached   []string
	Failed   []AssetError
	Duration time.Duration
}

// Install fetches every manifest asset and stores the successful responses.
// Individual failures are recorded in the report; only cancellation of ctx
// aborts the run.
func (m *Mirror) Install(ctx context.Context) (*InstallReport, error) {
	start := time.Now()
	report := &InstallReport{
		RunID:   uuid.NewString(),
		Version: m.manifest.Version,
	}
	logger := m.logger.With("run", report.RunID[:8], "version", report.Version)
	logger.Debug("install started", "assets", len(m.manifest.Assets))

	for _, asset := range m.manifest.Assets {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := m.installOne(ctx, asset); err != nil {
			if errors.Is(err, context.Canceled) {
				return report, err
			}
			logger.Warn("asset not cached", "asset", asset, "err", err)
			report.Failed = append(report.Failed, AssetError{Asset: asset, Err: err})
			continue
		}
		logger.Debug("asset cached", "asset", asset)
		report.Cached = append(report.Cached, asset)
	}

	report.Duration = time.Since(start)
	observability.Mirror().OnInstallComplete(ctx, report.Version, len(report.Cached), len(report.Failed), report.Duration)
	logger.Info("install complete", "cached", len(report.Cached), "failed", len(report.Failed))
	return report, nil
}

func (m *Mirror) installOne(ctx context.Context, asset string) error {
	var resp *httputil.Response
	err := httputil.Retry(ctx, m.attempts, m.delay, func() error {
		var ferr error
		resp, ferr = m.fetcher.Fetch(ctx, asset)
		return ferr
	})
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return errs.New(errs.ErrCodeNetwork, "fetch %s: status %d", asset, resp.Status)
	}
	return m.store(ctx, asset, resp)
}

func (m *Mirror) store(ctx context.Context, ref string, resp *httputil.Response) error {
	e := &Entry{
		Status:   resp.Status,
		Header:   storableHeader(resp.Header),
		Body:     resp.Body,
		StoredAt: time.Now().UTC(),
	}
	data, err := e.encode()
	if err != nil {
		return err
	}
	if err := m.cache.Set(ctx, m.keyer.AssetKey(m.manifest.Version, ref), data, m.ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return nil
}

// =============================================================================
// Activate
// =============================================================================

// Activate deletes every cached asset whose version differs from the
// manifest's and returns how many entries were removed.
func (m *Mirror) Activate(ctx context.Context) (int, error) {
	evicted, err := m.activate(ctx)
	observability.Mirror().OnActivate(ctx, m.manifest.Version, evicted, err)
	if err != nil {
		return evicted, err
	}
	m.logger.Info("mirror activated", "version", m.manifest.Version, "evicted", evicted)
	return evicted, nil
}

func (m *Mirror) activate(ctx context.Context) (int, error) {
	keys, err := cache.Keys(ctx, m.cache, m.keyer.Prefix())
	if errors.Is(err, cache.ErrUnsupported) {
		return 0, errs.Wrap(errs.ErrCodeUnsupported, err, "list cached assets")
	}
	if err != nil {
		return 0, err
	}

	evicted := 0
	for _, key := range keys {
		version, ok := m.keyer.VersionOf(key)
		if !ok || version == m.manifest.Version {
			continue
		}
		if err := m.cache.Delete(ctx, key); err != nil {
			return evicted, err
		}
		m.logger.Debug("evicted", "key", key, "version", version)
		evicted++
	}
	return evicted, nil
}

// =============================================================================
// Serve
// =============================================================================

// Lookup returns the cached entry for ref under the current version.
func (m *Mirror) Lookup(ctx context.Context, ref string) (*Entry, bool, error) {
	data, ok, err := m.cache.Get(ctx, m.keyer.AssetKey(m.manifest.Version, ref))
	if err != nil || !ok {
		return nil, false, err
	}
	e, err := decodeEntry(data)
	if err != nil {
		// Undecodable entries are dropped and treated as misses.
		_ = m.cache.Delete(ctx, m.keyer.AssetKey(m.manifest.Version, ref))
		return nil, false, nil
	}
	return e, true, nil
}

// ServeHTTP answers GET requests cache-first.
func (m *Mirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ref := requestRef(r)
	if err := errs.ValidateAssetPath(ref); err != nil {
		http.Error(w, errs.UserMessage(err), http.StatusBadRequest)
		return
	}

	if e, ok := m.lookup(ctx, ref); ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		m.serveEntry(w, r, ref, e, SourceHit)
		return
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	resp, err := m.fetcher.Fetch(ctx, ref)
	if resp == nil {
		if ctx.Err() != nil {
			return
		}
		m.logger.Warn("upstream unreachable", "ref", ref, "err", err)
		if e, ok := m.lookup(ctx, ref); ok {
			m.serveEntry(w, r, ref, e, SourceStale)
			return
		}
		observability.Mirror().OnServe(ctx, ref, SourceNetwork, http.StatusBadGateway)
		http.Error(w, "upstream unavailable and asset not cached", http.StatusBadGateway)
		return
	}

	if resp.Status == http.StatusOK {
		if err := m.store(ctx, ref, resp); err != nil {
			m.logger.Warn("store failed", "ref", ref, "err", err)
		}
	}
	e := &Entry{Status: resp.Status, Header: storableHeader(resp.Header), Body: resp.Body}
	m.serveEntry(w, r, ref, e, SourceMiss)
}

func (m *Mirror) lookup(ctx context.Context, ref string) (*Entry, bool) {
	e, ok, err := m.Lookup(ctx, ref)
	if err != nil {
		m.logger.Warn("cache read failed", "ref", ref, "err", err)
		return nil, false
	}
	return e, ok
}

func (m *Mirror) serveEntry(w http.ResponseWriter, r *http.Request, ref string, e *Entry, source string) {
	observability.Mirror().OnServe(r.Context(), ref, source, e.Status)
	m.logger.Debug("serve", "ref", ref, "source", source, "status", e.Status)
	e.write(w, source)
}

// requestRef maps a request to its asset reference. Proxy-style requests
// carry an absolute URL; everything else is keyed by path and query.
func requestRef(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	return r.URL.RequestURI()
}
