// Package server previews a generated output root over HTTP.
//
// Routes:
//
//	GET /healthz                                   liveness probe
//	GET /api/directory                             the JSON document
//	GET /api/branches/{branch}                     one branch with its categories
//	GET /api/branches/{branch}/categories/{cat}    one category with its sites
//	GET /api/search?q=...                          name/description/tag search
//	GET <basePath>/*                               static pages
//
// API lookups go through a [client.Loader] reading the document from disk,
// so a regenerated site is picked up once the loader's staleness window
// passes.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/branchpalette/branchpalette/pkg/buildinfo"
	"github.com/branchpalette/branchpalette/pkg/client"
	"github.com/branchpalette/branchpalette/pkg/directory"
	"github.com/branchpalette/branchpalette/pkg/emit"
	"github.com/branchpalette/branchpalette/pkg/errors"
)

// Options configures the preview server.
type Options struct {
	// BasePath is the prefix the static pages were generated with.
	BasePath string

	Loader *client.Loader
	Logger *log.Logger
}

type server struct {
	root     string
	document string
	loader   *client.Loader
	logger   *log.Logger
	started  time.Time
}

// New returns a handler serving the output root.
func New(root string, opts Options) http.Handler {
	s := &server{
		root:     root,
		document: filepath.Join(root, filepath.FromSlash(emit.DocumentFile)),
		loader:   opts.Loader,
		logger:   opts.Logger,
		started:  time.Now(),
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.loader == nil {
		s.loader = client.NewLoader(client.Options{Logger: s.logger, StaleAfter: time.Second})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Use(cors)
		r.Get("/directory", s.serveDocument)
		r.Get("/search", s.search)
		r.Get("/branches/{branch}", s.branch)
		r.Get("/branches/{branch}/categories/{category}", s.category)
	})

	base := directory.NewPaths(opts.BasePath).Base
	files := http.FileServer(http.Dir(root))
	if base == "" {
		r.Handle("/*", files)
	} else {
		r.Get(base, http.RedirectHandler(base+"/", http.StatusMovedPermanently).ServeHTTP)
		r.Handle(base+"/*", http.StripPrefix(base, files))
	}
	return r
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Debug("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Root    string `json:"root"`
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
		Root:    s.root,
	})
}

func (s *server) serveDocument(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.document); err != nil {
		writeError(w, http.StatusNotFound, "directory document not generated")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, s.document)
}

func (s *server) load(w http.ResponseWriter, r *http.Request) (*directory.Directory, bool) {
	d, err := s.loader.Load(r.Context(), s.document)
	if err != nil {
		s.logger.Warn("directory unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, "directory unavailable")
		return nil, false
	}
	return d, true
}

type branchResponse struct {
	directory.Branch
	Categories []directory.Category `json:"categories"`
}

func (s *server) branch(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	n, err := client.Resolve(d, client.Ref{BranchID: chi.URLParam(r, "branch")})
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branchResponse{
		Branch:     n.Branch,
		Categories: nonNil(d.Categories(n.Branch.ID)),
	})
}

type categoryResponse struct {
	directory.Category
	Sites []directory.Site `json:"sites"`
}

func (s *server) category(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	n, err := client.Resolve(d, client.Ref{
		BranchID:   chi.URLParam(r, "branch"),
		CategoryID: chi.URLParam(r, "category"),
	})
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{
		Category: n.Category,
		Sites:    nonNil(d.Sites(n.Branch.ID, n.Category.ID)),
	})
}

type searchResponse struct {
	Query      string               `json:"query"`
	Branches   []directory.Branch   `json:"branches"`
	Categories []directory.Category `json:"categories"`
	Sites      []directory.Site     `json:"sites"`
}

func (s *server) search(w http.ResponseWriter, r *http.Request) {
	d, ok := s.load(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	m := d.Search(q)
	writeJSON(w, http.StatusOK, searchResponse{
		Query:      q,
		Branches:   nonNil(m.Branches),
		Categories: nonNil(m.Categories),
		Sites:      nonNil(m.Sites),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.ErrCodeNotFound) {
		writeError(w, http.StatusNotFound, errors.UserMessage(err))
		return
	}
	writeError(w, http.StatusInternalServerError, errors.UserMessage(err))
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
