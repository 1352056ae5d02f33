package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/actionkit"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/render"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type mount struct {
	prefix string
	ctrl   *actionkit.Controller
}

// Server exposes controllers over HTTP.
type Server struct {
	engine     *render.Engine
	negotiator *Negotiator
	mounts     []mount
	gatherer   prometheus.Gatherer
	cookie     string
	title      string
	version    string
	logger     *slog.Logger
}

// Option defines a functional option for configuring the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMIMETypes replaces the format to media type table used for negotiation.
func WithMIMETypes(mimes map[domain.Format]string) Option {
	return func(s *Server) {
		s.negotiator = NewNegotiator(mimes)
	}
}

// WithSessionCookie renames the cookie keying flash messages.
func WithSessionCookie(name string) Option {
	return func(s *Server) {
		s.cookie = name
	}
}

// WithInfo sets the title and version of the OpenAPI document.
func WithInfo(title, version string) Option {
	return func(s *Server) {
		s.title = title
		s.version = version
	}
}

// NewServer creates a server rendering through engine.
func NewServer(engine *render.Engine, opts ...Option) *Server {
	s := &Server{
		engine:     engine,
		negotiator: NewNegotiator(nil),
		cookie:     DefaultSessionCookie,
		title:      "actionkit",
		version:    strings.TrimSpace(actionkit.Version),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount registers ctrl under prefix. Mounts are resolved when Handler is called.
func (s *Server) Mount(prefix string, ctrl *actionkit.Controller) *Server {
	s.mounts = append(s.mounts, mount{prefix: prefix, ctrl: ctrl})
	return s
}

// Routes lists every mounted route.
func (s *Server) Routes() []Route {
	var routes []Route
	for _, m := range s.mounts {
		routes = append(routes, RoutesFor(m.ctrl.Name(), m.prefix, m.ctrl.Actions())...)
	}
	return routes
}

// Handler builds the router: mounted actions, GET /health, GET /openapi.json
// and, when enabled, GET /metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.negotiator.StripExtension)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.OpenAPI()); err != nil {
			s.logger.Error("openapi encode failed", "error", err)
		}
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	for _, m := range s.mounts {
		for _, rt := range RoutesFor(m.ctrl.Name(), m.prefix, m.ctrl.Actions()) {
			s.logger.Debug("route mounted", "method", rt.Method, "pattern", rt.Pattern, "action", rt.Action)
			r.Method(rt.Method, rt.Pattern, s.actionHandler(m.ctrl, rt.Action))
		}
	}
	return r
}

func (s *Server) actionHandler(ctrl *actionkit.Controller, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		format := s.negotiator.Format(r)

		// A malformed body still dispatches so the action's error tables answer it.
		params, perr := ParseParams(r)
		if perr != nil {
			params = domain.Params{}
		}

		req := &domain.Request{
			ID:        r.Header.Get("X-Request-Id"),
			Format:    format,
			FrameID:   r.Header.Get(HeaderTurboFrame),
			Params:    params,
			Path:      PathParams(r),
			HTTP:      r,
			Err:       perr,
			Responder: s.engine.Responder(tw, r),
		}
		ctrl.BindFlash(req, sessionKey(tw, r, s.cookie))

		if err := ctrl.Dispatch(r.Context(), action, req); err != nil {
			if tw.wrote {
				s.logger.Error("dispatch failed after response started", "action", action, "request_id", req.ID, "error", err)
				return
			}
			s.writeError(tw, format, StatusFor(err), err)
		}
	}
}

// StatusFor maps an unhandled dispatch error to an HTTP status.
// Failures raised while handling a service error keep the status of their category.
func StatusFor(err error) int {
	var de *domain.DispatchError
	if errors.As(err, &de) && de.Cause != nil {
		return domain.StatusFor(de.Category)
	}
	switch {
	case errors.Is(err, domain.ErrActionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoFormatHandler):
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, format domain.Format, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "error", err)
	}

	msg := http.StatusText(status)
	if format == domain.FormatJSON {
		w.Header().Set("Content-Type", render.ContentTypeJSON)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"error": msg, "status": status})
		return
	}
	http.Error(w, msg, status)
}

// trackingWriter records whether the response has started.
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) WriteHeader(code int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *trackingWriter) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}
