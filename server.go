// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package isolatedspa

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// readHeaderTimeout limits how long clients may take to send their request
// headers.
const readHeaderTimeout = 10 * time.Second

// Server serves an SPA together with the Hello API, wrapped in the cross-origin
// isolation and permissive CORS middleware.
type Server struct {
	cfg      Config
	fs       fs.FS
	logger   *log.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	handler  http.Handler
}

// ServerOption sets optional properties at the time of creating a Server.
type ServerOption func(*Server)

// WithLogger sets the logger to use instead of logrus' standard logger.
func WithLogger(logger *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFS serves the static assets from fsys instead of Config.Dir.
func WithFS(fsys fs.FS) ServerOption {
	return func(s *Server) {
		s.fs = fsys
	}
}

// WithRegistry enables request metrics, registering the collectors with
// registry. Metrics get also enabled, using a fresh registry, when
// Config.MetricsAddr is set.
func WithRegistry(registry *prometheus.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// NewServer returns a new Server for the given configuration.
func NewServer(cfg Config, opts ...ServerOption) *Server {
	s := &Server{
		cfg:    cfg,
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = os.DirFS(cfg.Dir)
	}
	if s.registry == nil && cfg.MetricsAddr != "" {
		s.registry = prometheus.NewRegistry()
	}
	if s.registry != nil {
		s.metrics = NewMetrics(s.registry)
	}
	s.handler = s.newHandler()
	return s
}

// newHandler assembles the middleware chain around the router, outermost
// first: isolation headers, CORS, access log, metrics (optional), router.
func (s *Server) newHandler() http.Handler {
	var spaOpts []SPAHandlerOption
	if s.cfg.RewriteBase {
		spaOpts = append(spaOpts, WithBaseRewriting())
	}
	var h http.Handler = NewRouter(NewSPAHandler(s.fs, s.cfg.Index, spaOpts...))
	if s.metrics != nil {
		h = s.metrics.Middleware(h)
	}
	h = AccessLog(s.logger)(h)
	h = PermissiveCORS(h)
	return CrossOriginIsolation(h)
}

// Handler returns the HTTP handler with the complete middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe binds the configured address(es) and then serves requests
// until ctx gets cancelled. A failure to bind returns immediately with an
// error; there are no retries.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %w", s.cfg.Addr, err)
	}
	endpoints := []endpoint{{ln: ln, srv: s.newHTTPServer(s.handler)}}
	if s.cfg.MetricsAddr != "" {
		mln, err := net.Listen("tcp", s.cfg.MetricsAddr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("cannot listen on %s for metrics: %w", s.cfg.MetricsAddr, err)
		}
		endpoints = append(endpoints, endpoint{ln: mln, srv: s.newHTTPServer(s.metricsHandler()), metrics: true})
	}
	return s.serve(ctx, endpoints)
}

// Serve serves requests on the already bound listener until ctx gets
// cancelled. It doesn't serve metrics.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	return s.serve(ctx, []endpoint{{ln: ln, srv: s.newHTTPServer(s.handler)}})
}

// endpoint is a bound listener together with the HTTP server to run on it.
type endpoint struct {
	ln      net.Listener
	srv     *http.Server
	metrics bool
}

func (s *Server) newHTTPServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func (s *Server) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// serve runs the endpoints' servers until ctx is done or one of them fails,
// and then gracefully shuts them all down.
func (s *Server) serve(ctx context.Context, endpoints []endpoint) error {
	if err := CheckIndex(s.fs, s.cfg.Index); err != nil {
		s.logger.WithError(err).Warn("SPA fallback document missing")
	}
	errCh := make(chan error, len(endpoints))
	for _, ep := range endpoints {
		if ep.metrics {
			s.logger.Infof("metrics on http://%s/metrics", ep.ln.Addr())
		} else {
			s.logger.Infof("listening on http://%s", ep.ln.Addr())
		}
		go func(ep endpoint) {
			errCh <- ep.srv.Serve(ep.ln)
		}(ep)
	}

	var serveErr error
	pending := len(endpoints)
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		pending--
	}

	s.logger.Debug("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
	defer cancel()
	var shutdownErr error
	for _, ep := range endpoints {
		if err := ep.srv.Shutdown(shutdownCtx); err != nil {
			_ = ep.srv.Close()
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}
	for ; pending > 0; pending-- {
		if err := <-errCh; serveErr == nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	}
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	if serveErr != nil {
		return fmt.Errorf("serving failed: %w", serveErr)
	}
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}
	s.logger.Debug("stopped")
	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.cfg.ShutdownTimeout > 0 {
		return s.cfg.ShutdownTimeout
	}
	return DefaultShutdownTimeout
}
