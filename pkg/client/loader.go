// Package client is the directory access layer: it loads the generated JSON
// document and hands out an indexed [directory.Directory] for lookups.
//
// A [Loader] guarantees one network fetch per URL no matter how many callers
// ask at once. Results are memoized in memory for a staleness window
// (5 minutes by default) and, when a [cache.Cache] is configured, the raw
// document bytes are also kept there so other processes can reuse them.
//
// A shared fetch is detached from the context of the caller that started it
// and bounded by its own timeout. A caller that gives up stops waiting
// without failing the others.
//
// Every load failure is a FETCH error; callers show an "unavailable" state
// rather than treating it as fatal.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/branchpalette/branchpalette/pkg/cache"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	"github.com/branchpalette/branchpalette/pkg/httputil"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
	"github.com/branchpalette/branchpalette/pkg/observability"
)

// Defaults applied by [NewLoader].
const (
	DefaultStaleAfter   = 5 * time.Minute
	DefaultMemoSize     = 16
	DefaultAttempts     = 3
	DefaultRetryDelay   = 250 * time.Millisecond
	DefaultFetchTimeout = time.Minute

	// maxDocumentSize bounds how much of a response body is read.
	maxDocumentSize = 256 << 20
)

// Options configures a Loader. Zero values select the defaults.
type Options struct {
	HTTPClient *http.Client
	Cache      cache.Cache
	Keyer      cache.Keyer
	Logger     *log.Logger

	StaleAfter time.Duration
	MemoSize   int
	Attempts   int
	RetryDelay time.Duration

	// FetchTimeout bounds one shared fetch, retries included.
	FetchTimeout time.Duration
}

// Loader fetches and memoizes directory documents.
// It is safe for concurrent use.
type Loader struct {
	http       *http.Client
	cache      cache.Cache
	keyer      cache.Keyer
	logger     *log.Logger
	staleAfter time.Duration
	attempts   int
	retryDelay time.Duration
	timeout    time.Duration

	group singleflight.Group
	memo  *lru.Cache[string, entry]
	now   func() time.Time
}

type entry struct {
	dir      *directory.Directory
	loadedAt time.Time
}

// NewLoader creates a Loader.
func NewLoader(opts Options) *Loader {
	l := &Loader{
		http:       opts.HTTPClient,
		cache:      opts.Cache,
		keyer:      opts.Keyer,
		logger:     opts.Logger,
		staleAfter: opts.StaleAfter,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		timeout:    opts.FetchTimeout,
		now:        time.Now,
	}
	if l.http == nil {
		l.http = httputil.NewHTTPClient()
	}
	if l.cache == nil {
		l.cache = cache.NewNullCache()
	}
	if l.keyer == nil {
		l.keyer = cache.NewDefaultKeyer()
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	if l.staleAfter <= 0 {
		l.staleAfter = DefaultStaleAfter
	}
	if l.attempts <= 0 {
		l.attempts = DefaultAttempts
	}
	if l.retryDelay <= 0 {
		l.retryDelay = DefaultRetryDelay
	}
	if l.timeout <= 0 {
		l.timeout = DefaultFetchTimeout
	}
	size := opts.MemoSize
	if size <= 0 {
		size = DefaultMemoSize
	}
	// lru.New only fails for a non-positive size.
	l.memo, _ = lru.New[string, entry](size)
	return l
}

// Load returns the directory published at src, which is an http(s) URL or
// a local file path. Concurrent calls for the same src share one fetch.
func (l *Loader) Load(ctx context.Context, src string) (*directory.Directory, error) {
	if e, ok := l.memo.Get(src); ok && l.now().Sub(e.loadedAt) < l.staleAfter {
		observability.Cache().OnCacheHit(ctx, "memo")
		return e.dir, nil
	}
	observability.Cache().OnCacheMiss(ctx, "memo")

	ch := l.group.DoChan(src, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.fetch(fctx, src)
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(errors.ErrCodeFetch, ctx.Err(), "load %s", src)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Debug("shared in-flight load", "src", src)
		}
		return res.Val.(*directory.Directory), nil
	}
}

// Invalidate drops src from the memo and the byte cache so the next Load
// fetches it again.
func (l *Loader) Invalidate(ctx context.Context, src string) error {
	l.memo.Remove(src)
	return l.cache.Delete(ctx, l.keyer.DocumentKey(src))
}

func (l *Loader) fetch(ctx context.Context, src string) (*directory.Directory, error) {
	key := l.keyer.DocumentKey(src)

	if data, ok, err := l.cache.Get(ctx, key); err != nil {
		l.logger.Warn("cache read failed", "src", src, "err", err)
	} else if ok {
		d, err := bpio.ReadJSON(bytes.NewReader(data))
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "document")
			l.remember(src, d)
			return d, nil
		}
		l.logger.Warn("discarding unreadable cached document", "src", src, "err", err)
		_ = l.cache.Delete(ctx, key)
	} else {
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	data, err := l.read(ctx, src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "load %s", src)
	}
	d, err := bpio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "parse %s", src)
	}

	if err := l.cache.Set(ctx, key, data, l.staleAfter); err != nil {
		l.logger.Warn("cache write failed", "src", src, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "document", len(data))
	}
	l.remember(src, d)
	return d, nil
}

func (l *Loader) remember(src string, d *directory.Directory) {
	l.memo.Add(src, entry{dir: d, loadedAt: l.now()})
}

func (l *Loader) read(ctx context.Context, src string) ([]byte, error) {
	if !isRemote(src) {
		return os.ReadFile(strings.TrimPrefix(src, "file://"))
	}

	var data []byte
	p := httputil.Policy{
		Attempts: l.attempts,
		Delay:    l.retryDelay,
		OnRetry: func(attempt int, err error) {
			l.logger.Debug("retrying document fetch", "src", src, "attempt", attempt, "err", err)
		},
	}
	err := p.Do(ctx, func() error {
		var err error
		data, err = l.get(ctx, src)
		return err
	})
	return data, err
}

func (l *Loader) get(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := l.now()

	resp, err := l.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", httputil.ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, l.now().Sub(start))

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", httputil.ErrNetwork, err)}
	}
	return data, nil
}

func isRemote(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
