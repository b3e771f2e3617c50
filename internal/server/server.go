// Package server exposes the editor as a server-rendered HTML application.
// Every control posts a small form; handlers apply one editor operation
// under the session lock and redirect back to the page.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-projection-editor/internal/metrics"
	"github.com/goliatone/go-projection-editor/pkg/model"
	"github.com/goliatone/go-projection-editor/pkg/renderers/jsonview"
	"github.com/goliatone/go-projection-editor/pkg/renderers/vanilla"
	"github.com/goliatone/go-projection-editor/pkg/session"
	"github.com/goliatone/go-projection-editor/pkg/variant"
)

// CookieName holds the session id.
const CookieName = "projection_session"

// Server wires sessions, renderers and metrics to HTTP routes.
type Server struct {
	sessions     *session.Manager
	variants     *variant.Registry
	builder      model.Builder
	page         *vanilla.Renderer
	export       *jsonview.Renderer
	theme        *theme.RendererConfig
	metrics      *metrics.Metrics
	logger       *slog.Logger
	secureCookie bool
}

type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records operations and request latency, and mounts /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTheme applies partial overrides, tokens and stylesheets to the page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithPageRenderer replaces the default vanilla renderer.
func WithPageRenderer(renderer *vanilla.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.page = renderer
		}
	}
}

// WithFormBuilder overrides how variants are laid out as forms.
func WithFormBuilder(builder model.Builder) Option {
	return func(s *Server) {
		if builder != nil {
			s.builder = builder
		}
	}
}

// WithSecureCookie sets the Secure attribute of the session cookie, for TLS
// deployments.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

// New builds a server around a session manager. variants lists the variants
// offered on the page and must be the registry the manager resolves from.
func New(sessions *session.Manager, variants *variant.Registry, opts ...Option) (*Server, error) {
	if sessions == nil {
		return nil, errors.New("server: session manager is nil")
	}
	if variants == nil {
		variants = variant.Default()
	}
	s := &Server{
		sessions: sessions,
		variants: variants,
		builder:  model.NewBuilder(),
		export:   jsonview.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.page == nil {
		page, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.page = page
	}
	return s, nil
}

// Handler returns the routed application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	assets := "/" + vanilla.RouteAssets + "/"
	r.Handle(assets+"*", http.StripPrefix(assets, http.FileServerFS(vanilla.AssetsFS())))

	r.Group(func(r chi.Router) {
		r.Use(s.withSessionID)

		r.Get("/", s.handlePage)
		r.Get("/"+vanilla.RouteExport, s.handleExport)

		r.Post("/"+vanilla.RouteImport, s.handleImport)
		r.Post("/"+vanilla.RouteReset, s.mutate("reset", applyReset))
		r.Post("/"+vanilla.RouteFlags+"/{name}", s.mutate("set_flag", applyFlag))
		r.Post("/"+vanilla.RouteHandlersAdd, s.mutate("append_handler", applyAppendHandler))
		r.Post("/"+vanilla.RouteHandlersRemove, s.mutate("remove_handler", applyRemoveHandler))
		r.Post("/"+vanilla.RouteDynamicsAdd, s.mutate("append_dynamic", applyAppendDynamic))
		r.Post("/"+vanilla.RouteDynamicsRemoveLast, s.mutate("remove_last_dynamic", applyRemoveLastDynamic))
		r.Post("/"+vanilla.RouteDynamics+"/{index}", s.mutate("set_dynamic_field", applyDynamicField))
		r.Post("/{field}", s.mutate("set_field", applyField))
	})
	return r
}
