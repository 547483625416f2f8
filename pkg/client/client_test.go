package client

import (
	"bytes"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/branchpalette/branchpalette/pkg/cache"
	"github.com/branchpalette/branchpalette/pkg/config"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/errors"
	bpio "github.com/branchpalette/branchpalette/pkg/io"
)

func document(t *testing.T) []byte {
	t.Helper()
	g := config.Default().Generation
	g.BranchCount = 2
	g.CategoriesPerBranch = 1
	g.SitesPerCategory = 2
	g.Branches = []config.BranchTemplate{{Name: "Tech"}, {Name: "Health"}}
	d, err := directory.Build(g)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := bpio.WriteJSON(d.Document("", time.Time{}), &buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// countingServer serves body and counts requests. release, when non-nil,
// blocks every response until it is closed.
func countingServer(t *testing.T, status int, body []byte, release chan struct{}) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if release != nil {
			<-release
		}
		w.WriteHeader(status)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLoadAndLookup(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK, document(t), nil)
	l := NewLoader(Options{HTTPClient: srv.Client()})

	d, err := l.Load(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, ok := d.Site("branch-1", "branch-1-category-1", "branch-1-category-1-site-2")
	if !ok || s.BranchID != "branch-1" {
		t.Errorf("Site lookup = %+v, %v", s, ok)
	}
	if got := len(d.Categories("branch-2")); got != 1 {
		t.Errorf("Categories(branch-2) = %d", got)
	}
	if got := len(d.Sites("branch-2", "branch-2-category-1")); got != 2 {
		t.Errorf("Sites = %d", got)
	}
}

func TestConcurrentLoadsShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	srv, hits := countingServer(t, http.StatusOK, document(t), release)
	l := NewLoader(Options{HTTPClient: srv.Client()})

	const callers = 20
	var wg sync.WaitGroup
	results := make([]*directory.Directory, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = l.Load(context.Background(), srv.URL)
		}()
	}

	// Let the callers pile up on the in-flight request before answering.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("caller %d got a different directory", i)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}

	// Memoized afterwards.
	if _, err := l.Load(context.Background(), srv.URL); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits after memo = %d, want 1", n)
	}
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	release := make(chan struct{})
	srv, hits := countingServer(t, http.StatusOK, document(t), release)
	l := NewLoader(Options{HTTPClient: srv.Client()})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := l.Load(ctxA, srv.URL)
		errA <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 {
		if time.Now().After(deadline) {
			close(release)
			t.Fatal("first request never reached the server")
		}
		time.Sleep(time.Millisecond)
	}

	type result struct {
		d   *directory.Directory
		err error
	}
	resB := make(chan result, 1)
	go func() {
		d, err := l.Load(context.Background(), srv.URL)
		resB <- result{d, err}
	}()
	time.Sleep(20 * time.Millisecond)

	// The first caller gives up while the request is still in flight.
	cancelA()
	select {
	case err := <-errA:
		if !stderrors.Is(err, context.Canceled) {
			t.Errorf("cancelled caller err = %v, want context.Canceled", err)
		}
		if !errors.Is(err, errors.ErrCodeFetch) {
			t.Errorf("cancelled caller code = %s, want FETCH", errors.GetCode(err))
		}
	case <-time.After(2 * time.Second):
		t.Error("cancelled caller did not return before the response")
	}

	close(release)
	select {
	case r := <-resB:
		if r.err != nil {
			t.Fatalf("second caller: %v", r.err)
		}
		if r.d == nil {
			t.Fatal("second caller got nil directory")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second caller never returned")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestStaleEntryRefetched(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, document(t), nil)
	l := NewLoader(Options{HTTPClient: srv.Client(), StaleAfter: time.Minute})
	now := time.Now()
	l.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := l.Load(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := l.Load(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("hits = %d, want 2", n)
	}
}

func TestLoadFailuresAreFetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     []byte
		wantHits int32
	}{
		{"not found", http.StatusNotFound, nil, 1},
		{"server error retried", http.StatusServiceUnavailable, nil, 2},
		{"malformed", http.StatusOK, []byte(`{"branches": [`), 1},
		{"broken references", http.StatusOK, []byte(`{"branches": [], "categories": [{"id": "c", "branchId": "x", "slug": "c"}]}`), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := countingServer(t, tt.status, tt.body, nil)
			l := NewLoader(Options{HTTPClient: srv.Client(), Attempts: 2, RetryDelay: time.Millisecond})

			_, err := l.Load(context.Background(), srv.URL)
			if !errors.Is(err, errors.ErrCodeFetch) {
				t.Errorf("err = %v, want FETCH", err)
			}
			if errors.IsFatal(err) {
				t.Error("fetch errors must not be fatal")
			}
			if n := hits.Load(); n != tt.wantHits {
				t.Errorf("hits = %d, want %d", n, tt.wantHits)
			}
		})
	}
}

func TestByteCacheServesOtherLoaders(t *testing.T) {
	srv, hits := countingServer(t, http.StatusOK, document(t), nil)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first := NewLoader(Options{HTTPClient: srv.Client(), Cache: fc})
	if _, err := first.Load(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	second := NewLoader(Options{HTTPClient: srv.Client(), Cache: fc})
	if _, err := second.Load(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("hits = %d, want 1", n)
	}

	if err := second.Invalidate(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Load(ctx, srv.URL); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("hits after Invalidate = %d, want 2", n)
	}
}

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.json")
	if err := os.WriteFile(path, document(t), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(Options{})
	d, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if n, _, _ := d.Counts(); n != 2 {
		t.Errorf("branches = %d", n)
	}

	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, errors.ErrCodeFetch) {
		t.Errorf("missing file err = %v, want FETCH", err)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		in      string
		want    Ref
		wantErr bool
	}{
		{"branch-1", Ref{BranchID: "branch-1"}, false},
		{"/branch-1/branch-1-category-1/", Ref{BranchID: "branch-1", CategoryID: "branch-1-category-1"}, false},
		{"a/b/c", Ref{"a", "b", "c"}, false},
		{"", Ref{}, true},
		{"a//c", Ref{}, true},
		{"a/b/c/d", Ref{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRef(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRef(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if err == nil && got.String() != tt.want.String() {
			t.Errorf("String() = %q", got.String())
		}
	}
}

func TestResolve(t *testing.T) {
	d, err := bpio.ReadJSON(bytes.NewReader(document(t)))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref  Ref
		kind directory.Kind
	}{
		{Ref{BranchID: "branch-1"}, directory.KindBranch},
		{Ref{BranchID: "branch-1", CategoryID: "branch-1-category-1"}, directory.KindCategory},
		{Ref{"branch-1", "branch-1-category-1", "branch-1-category-1-site-2"}, directory.KindSite},
	}
	for _, tt := range tests {
		n, err := Resolve(d, tt.ref)
		if err != nil || n.Kind != tt.kind {
			t.Errorf("Resolve(%s) = %v, %v", tt.ref, n.Kind, err)
		}
	}

	for _, ref := range []Ref{
		{BranchID: "branch-9"},
		{BranchID: "branch-2", CategoryID: "branch-1-category-1"},
		{"branch-1", "branch-1-category-1", "branch-2-category-1-site-1"},
	} {
		if _, err := Resolve(d, ref); !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("Resolve(%s) err = %v, want NOT_FOUND", ref, err)
		}
	}
}
