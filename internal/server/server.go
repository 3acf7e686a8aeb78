// Package server implements the practicemap HTTP API.
//
// The API serves the validated catalog, materialized practice trees, and
// share links for adoption state. Responses carry content-hash ETags so
// browsers revalidate cheaply against the static catalog; a pluggable cache
// backend (file or Redis) additionally short-circuits tree materialization
// across instances.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/practicemap/practicemap/pkg/adoption"
	"github.com/practicemap/practicemap/pkg/cache"
	"github.com/practicemap/practicemap/pkg/errors"
	"github.com/practicemap/practicemap/pkg/httputil"
	"github.com/practicemap/practicemap/pkg/layout"
	"github.com/practicemap/practicemap/pkg/repo"
	"github.com/practicemap/practicemap/pkg/tree"
)

// defaultLayoutPasses is the barycenter iteration count used when a tree
// query asks for an optimized layout without specifying one.
const defaultLayoutPasses = 3

// Options tunes server behavior.
type Options struct {
	// ShareTTL bounds how long share links stay resolvable. Zero means no
	// expiration.
	ShareTTL time.Duration

	// CacheTTL bounds how long computed responses stay cached. Entries are
	// keyed by catalog hash, so expiration only matters for backend hygiene.
	CacheTTL time.Duration
}

// Server holds the API's collaborators.
type Server struct {
	repo   repo.Repository
	cache  cache.Cache
	logger *log.Logger
	opts   Options
}

// New creates a server over the given repository and cache.
func New(r repo.Repository, c cache.Cache, logger *log.Logger, opts Options) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{repo: r, cache: c, logger: logger, opts: opts}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/practices/{id}", s.handlePractice)
		r.Get("/tree/{rootID}", s.handleTree)
		r.Post("/share", s.handleCreateShare)
	})
	r.Get("/s/{id}", s.handleResolveShare)
	r.Get("/healthz", s.handleHealth)

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	s.logger.Info("listening", "addr", addr)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.Catalog(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := json.Marshal(c)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteCached(w, r, "application/json", body)
}

func (s *Server) handlePractice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.repo.FindByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if p == nil {
		s.writeError(w, r, errors.New(errors.ErrCodePracticeNotFound, "practice %q not found", id))
		return
	}
	body, err := json.Marshal(p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	httputil.WriteCached(w, r, "application/json", body)
}

// treeResponse is the tree endpoint payload. Levels is only populated when
// an optimized layout was requested: level number -> practice IDs in
// left-to-right render order.
type treeResponse struct {
	Tree   *tree.Node       `json:"tree"`
	Levels map[int][]string `json:"levels,omitempty"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rootID := chi.URLParam(r, "rootID")

	withLayout := r.URL.Query().Get("layout") == "1"
	passes := defaultLayoutPasses
	if v := r.URL.Query().Get("passes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 10 {
			passes = n
		}
	}

	hash, err := s.repo.Hash(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	key := cache.ResponseKey(hash, r.URL.RequestURI())

	if body, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		httputil.WriteCached(w, r, "application/json", body)
		return
	}

	root, err := s.repo.PracticeTree(ctx, rootID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if root == nil {
		s.writeError(w, r, errors.New(errors.ErrCodePracticeNotFound, "root practice %q not found", rootID))
		return
	}

	resp := treeResponse{Tree: root}
	if withLayout {
		ordered := layout.Barycentric{Passes: passes}.Order(layout.Levels(tree.Flatten(root)))
		resp.Levels = make(map[int][]string, len(ordered))
		for level, nodes := range ordered {
			ids := make([]string, len(nodes))
			for i, n := range nodes {
				ids[i] = n.ID
			}
			resp.Levels[level] = ids
		}
	}

	body, err := json.Marshal(resp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cache.Set(ctx, key, body, s.opts.CacheTTL); err != nil {
		s.logger.Warn("response cache write failed", "err", err)
	}
	httputil.WriteCached(w, r, "application/json", body)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response failed", "err", err)
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodePracticeNotFound, errors.ErrCodeShareNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidState, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case "":
		code = errors.ErrCodeInternal
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, r, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

// logRequests is a minimal structured request logger.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

// validSet returns the set of IDs present in the current catalog.
func (s *Server) validSet(ctx context.Context) (adoption.Set, error) {
	c, err := s.repo.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	valid := adoption.Set{}
	for _, p := range c.Practices {
		valid[p.ID] = struct{}{}
	}
	return valid, nil
}
