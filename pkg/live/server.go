package live

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/renditional/pkg/dom/memdom"
	"github.com/vango-dev/renditional/pkg/metrics"
	"github.com/vango-dev/renditional/pkg/reactive"
	"github.com/vango-dev/renditional/pkg/render"
)

// Default tracer name for live sessions.
const defaultTracerName = "renditional"

//go:embed client.js
var clientScript []byte

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// Title is the page title of the HTML shell.
	Title string

	// ReadTimeout and WriteTimeout apply to plain HTTP requests.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 5 seconds.
	ShutdownTimeout time.Duration

	// MetricsPath is where Prometheus metrics are served. Empty disables
	// the endpoint and metrics collection.
	MetricsPath string

	// MetricsNamespace is the Prometheus namespace. Default: "renditional".
	MetricsNamespace string

	// TracerName names the OpenTelemetry tracer. Default: "renditional".
	TracerName string

	// CheckOrigin validates WebSocket origins. Nil accepts same-origin
	// requests only, as gorilla/websocket does.
	CheckOrigin func(r *http.Request) bool

	// Session configures every session.
	Session *SessionConfig
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:             ":8080",
		Title:            "renditional",
		ReadTimeout:      15 * time.Second,
		WriteTimeout:     15 * time.Second,
		ShutdownTimeout:  5 * time.Second,
		MetricsPath:      "/metrics",
		MetricsNamespace: "renditional",
		TracerName:       defaultTracerName,
		Session:          DefaultSessionConfig(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerConfig replaces the server configuration.
func WithServerConfig(c *ServerConfig) ServerOption {
	return func(s *Server) {
		s.config = c
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRegistry sets the Prometheus registry metrics are registered on and
// served from. Default: a fresh registry owned by the server.
func WithRegistry(r *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = r
	}
}

// Server serves an App over HTTP and WebSocket.
type Server struct {
	app      App
	config   *ServerConfig
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	router   chi.Router

	nextID   atomic.Uint64
	sessions sync.WaitGroup
}

// NewServer creates a Server for app.
func NewServer(app App, opts ...ServerOption) *Server {
	s := &Server{
		app:    app,
		config: DefaultServerConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.Session == nil {
		s.config.Session = DefaultSessionConfig()
	}
	if s.config.TracerName == "" {
		s.config.TracerName = defaultTracerName
	}

	s.tracer = otel.Tracer(s.config.TracerName)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.config.CheckOrigin,
	}

	if s.config.MetricsPath != "" {
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
		}
		s.metrics = metrics.New(
			metrics.WithRegistry(s.registry),
			metrics.WithNamespace(s.config.MetricsNamespace),
		)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleShell)
	r.Get("/client.js", s.handleClientScript)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath,
			promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry}))
	}
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collector, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Collector {
	return s.metrics
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and waits for open sessions to end.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("server shutting down")
	err := srv.Shutdown(shutdownCtx)
	s.sessions.Wait()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return err
}

var shellTemplate = template.Must(template.New("shell").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>{{.Body}}<script src="/client.js" defer></script></body>
</html>
`))

// handleShell serves the page with a server-rendered first paint. The
// live session replaces the body once the WebSocket is up.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	body, err := s.renderStatic()
	if err != nil {
		s.logger.Error("shell render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	shellTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{s.config.Title, template.HTML(body)})
}

// renderStatic mounts the app once on a throwaway runtime and returns the
// body's HTML.
func (s *Server) renderStatic() (string, error) {
	restore := reactive.Bind(reactive.NewRuntime(reactive.WithLogger(s.logger)))
	defer restore()

	doc := memdom.NewDocument()
	destroy, err := render.Mount(doc.Body(), s.app())
	if err != nil {
		return "", err
	}
	defer destroy.Run()
	return doc.Body().InnerHTML(), nil
}

func (s *Server) handleClientScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write(clientScript)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		if s.metrics != nil {
			s.metrics.WebSocketError("upgrade")
		}
		return
	}

	id := strconv.FormatUint(s.nextID.Add(1), 10)
	session := NewSession(id, s.app, newWSTransport(conn, s.config.Session),
		WithSessionConfig(s.config.Session),
		WithSessionLogger(s.logger.With("request_id", middleware.GetReqID(r.Context()))),
		WithTracer(s.tracer),
		s.withMetrics(),
	)

	s.sessions.Add(1)
	defer s.sessions.Done()
	if err := session.Run(r.Context()); err != nil {
		s.logger.Error("session error", "session_id", id, "error", err)
	}
}

func (s *Server) withMetrics() SessionOption {
	return func(sess *Session) {
		sess.metrics = s.metrics
	}
}
