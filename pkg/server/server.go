// Package server exposes rectangle groups over HTTP.
//
// Each POST /groups creates a session holding its own scene and group;
// later requests address it by the returned UUID. Sessions expire after the
// configured idle TTL.
//
//	POST   /groups                       create (optional {"ops": [...]})
//	GET    /groups/{id}                  state
//	DELETE /groups/{id}                  drop
//	POST   /groups/{id}/rectangles       add ({"count": n}, default 1)
//	PUT    /groups/{id}/position         {"x": 100, "y": 120}, either optional
//	PUT    /groups/{id}/rotation         {"angle": 30}
//	POST   /groups/{id}/reset|attach|detach
//	POST   /groups/{id}/ops              {"ops": "add,rotate=30"}
//	POST   /groups/{id}/script           tengo source as the body
//	GET    /groups/{id}/render.{format}  svg, png, pdf or json
//	GET    /groups/{id}/tree.{format}    scene tree as dot or svg
//	GET    /healthz
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rectgroup/pkg/cache"
	"github.com/matzehuels/rectgroup/pkg/config"
	"github.com/matzehuels/rectgroup/pkg/observability"
	"github.com/matzehuels/rectgroup/pkg/pipeline"
	"github.com/matzehuels/rectgroup/pkg/session"
)

// CleanupInterval is how often expired sessions are swept.
const CleanupInterval = time.Minute

// Server holds the router and the session store.
type Server struct {
	cfg    config.Config
	store  *session.MemoryStore
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }
func WithCache(c cache.Cache) Option  { return func(s *Server) { s.cache = c } }

// New builds a server from cfg. Frame size, group defaults and render
// defaults all come from cfg.
func New(cfg config.Config, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: session.NewMemoryStore(cfg.Server.SessionTTL),
		keyer: cache.NewDefaultKeyer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Store exposes the session store.
func (s *Server) Store() *session.MemoryStore { return s.store }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/groups", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/rectangles", s.handleAddRectangles)
			r.Put("/position", s.handlePosition)
			r.Put("/rotation", s.handleRotation)
			r.Post("/reset", s.handleSimple(pipeline.OpReset))
			r.Post("/attach", s.handleSimple(pipeline.OpAttach))
			r.Post("/detach", s.handleSimple(pipeline.OpDetach))
			r.Post("/ops", s.handleOps)
			r.Post("/script", s.handleScript)
			r.Get("/render.{format}", s.handleRender)
			r.Get("/tree.{format}", s.handleTree)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. Expired sessions are swept in the background.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup(ctx)
		}
	}
}

func (s *Server) cleanup(ctx context.Context) {
	evicted, err := s.store.Cleanup(ctx)
	if err != nil {
		s.logger.Warn("session cleanup failed", "err", err)
		return
	}
	for _, id := range evicted {
		observability.Server().OnSessionEvicted(ctx, id)
		s.logger.Debug("session expired", "id", id)
	}
}
