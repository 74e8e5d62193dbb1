// Package server serves the dashboard shell over HTTP.
//
// Every route outside /api, /health, /metrics and the websocket endpoint
// renders the shell document for that path. Browsers that keep the
// websocket open get a binding session: title sync and sidebar toggle run
// server side and their updates are pushed back as JSON frames. When the
// page file changes on disk the registry is reloaded and every session is
// told to reload.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/conneroisu/appshell/internal/config"
	shellerrors "github.com/conneroisu/appshell/internal/errors"
	"github.com/conneroisu/appshell/internal/logging"
	"github.com/conneroisu/appshell/internal/navigation"
	"github.com/conneroisu/appshell/internal/registry"
	"github.com/conneroisu/appshell/internal/watcher"
)

// ShellServer serves the shell document, its API and binding sessions.
type ShellServer struct {
	config      *config.Config
	registry    *registry.PageRegistry
	logger      logging.Logger
	metrics     *Metrics
	hub         *Hub
	watcher     *watcher.FileWatcher
	httpServer  *http.Server
	serverMutex sync.RWMutex

	// Websocket keepalive.
	pingInterval time.Duration
	pongTimeout  time.Duration

	// lifetime outlives individual requests so sessions end on Shutdown.
	lifetime     context.Context
	stop         context.CancelFunc
	shutdownOnce sync.Once
}

// New creates a server over an already loaded registry.
func New(cfg *config.Config, reg *registry.PageRegistry, logger logging.Logger) (*ShellServer, error) {
	if cfg == nil {
		return nil, shellerrors.NewConfigError(shellerrors.CodeInvalidConfig, "config is required", nil)
	}
	if reg == nil {
		reg = registry.NewPageRegistry()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if err := cfg.Shell.Options().Validate(); err != nil {
		return nil, shellerrors.NewConfigError(shellerrors.CodeInvalidConfig, "invalid shell options", err)
	}

	logger = logger.WithComponent("server")
	metrics := NewMetrics()
	lifetime, stop := context.WithCancel(context.Background())

	s := &ShellServer{
		config:   cfg,
		registry: reg,
		logger:   logger,
		metrics:  metrics,
		hub:      NewHub(logger, metrics),
		lifetime: lifetime,
		stop:     stop,

		pingInterval: pingPeriod,
		pongTimeout:  pongWait,
	}
	metrics.Pages.Set(float64(reg.Count()))
	go s.forwardPageEvents(reg.Watch())

	return s, nil
}

// forwardPageEvents tells connected browsers to reload whenever the
// registry changes.
func (s *ShellServer) forwardPageEvents(events <-chan registry.PageEvent) {
	defer s.registry.UnWatch(events)

	for {
		select {
		case <-s.lifetime.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.metrics.Pages.Set(float64(s.registry.Count()))
			s.logger.Debug(s.lifetime, "Page registry changed", "event", event.Type.String())
			s.hub.Broadcast(ServerMessage{Type: MessageReload})
		}
	}
}

// Snapshot returns the current registry snapshot.
func (s *ShellServer) Snapshot() *registry.Snapshot {
	return s.registry.Snapshot()
}

// Metrics exposes the server's collectors.
func (s *ShellServer) Metrics() *Metrics {
	return s.metrics
}

// Router builds the HTTP handler.
func (s *ShellServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger, s.metrics))
	r.Use(corsHandler(s.config.Server.AllowedOrigins, !s.config.Server.IsProduction()))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	if s.config.Shell.LiveBindings {
		r.Get(config.SocketPath, s.handleWebSocket)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/nav", s.handleNav)
		r.Get("/title", s.handleTitle)
		r.Get("/pages", s.handlePages)
	})

	r.Get("/*", s.handleShell)

	return r
}

// Start serves until the server is shut down. The page file is watched
// when hot reload is enabled.
func (s *ShellServer) Start(ctx context.Context) error {
	s.metrics.Pages.Set(float64(s.registry.Count()))

	if s.config.Pages.Watch {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Page file hot reload disabled", "file", s.config.Pages.File)
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Shell server listening",
		"addr", server.Addr,
		"pages", s.registry.Count(),
		"live_bindings", s.config.Shell.LiveBindings)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return shellerrors.NewNetworkError(shellerrors.CodeServerStart, "server error", err).
			WithContext("addr", server.Addr)
	}

	return nil
}

// Shutdown closes every session, stops the watcher and drains the HTTP
// server. Calling it more than once is safe.
func (s *ShellServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down shell server", "sessions", s.hub.Count())

		s.stop()
		s.hub.CloseAll()

		s.serverMutex.Lock()
		fw := s.watcher
		server := s.httpServer
		s.watcher = nil
		s.serverMutex.Unlock()

		if fw != nil {
			if err := fw.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Stopping file watcher failed")
			}
		}

		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				shutdownErr = fmt.Errorf("http server shutdown: %w", err)
			}
		}
	})

	return shutdownErr
}

// Reload rereads the page file and swaps the registry contents when the
// new pages pass validation. Content components registered for a path are
// kept. On failure the current pages stay in place.
func (s *ShellServer) Reload(ctx context.Context) error {
	perf := logging.StartOperation(s.logger, "reload_pages")

	file, err := registry.ReadPageFile(s.config.Pages.File)
	if err == nil {
		err = file.Validate()
	}
	if err != nil {
		s.metrics.Reloads.WithLabelValues("failed").Inc()
		perf.EndWithError(ctx, err)
		return err
	}

	pages := carryContent(s.registry.Snapshot(), file.Pages)
	sections := file.SectionMap()

	if err := CheckSnapshot(registry.NewSnapshot(pages, sections), s.config.Pages.Grouping); err != nil {
		s.metrics.Reloads.WithLabelValues("failed").Inc()
		perf.EndWithError(ctx, err)
		return err
	}

	if err := s.registry.Replace(pages, sections); err != nil {
		s.metrics.Reloads.WithLabelValues("failed").Inc()
		perf.EndWithError(ctx, err)
		return err
	}

	s.metrics.Reloads.WithLabelValues("ok").Inc()
	perf.End(ctx)

	return nil
}

// CheckSnapshot fails when a group the navigation would render under the
// given grouping lacks section metadata.
func CheckSnapshot(snap *registry.Snapshot, grouping string) error {
	if err := navigation.Validate(snap); err != nil {
		return err
	}
	if grouping == config.GroupingFlat {
		if _, err := navigation.Build(snap, navigation.WithFlatGrouping()); err != nil {
			return err
		}
	}

	return nil
}

// carryContent copies content components from the current snapshot onto
// reloaded pages with the same path.
func carryContent(current *registry.Snapshot, pages []registry.PageDescriptor) []registry.PageDescriptor {
	result := make([]registry.PageDescriptor, len(pages))
	for i, page := range pages {
		if page.Content == nil {
			if existing, ok := current.Find(page.Path); ok {
				page.Content = existing.Content
			}
		}
		result[i] = page
	}

	return result
}

func (s *ShellServer) setupFileWatcher(ctx context.Context) error {
	if _, err := os.Stat(s.config.Pages.File); err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(s.config.Pages.Debounce, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.AddFile(s.config.Pages.File); err != nil {
		_ = fw.Stop()
		return err
	}
	fw.AddHandler(s.handlePageFileChange)

	s.serverMutex.Lock()
	s.watcher = fw
	s.serverMutex.Unlock()

	return fw.Start(ctx)
}

func (s *ShellServer) handlePageFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		if event.Type == watcher.EventTypeDeleted {
			s.logger.Info(ctx, "Page file removed, keeping current pages", "file", event.Path)
			return nil
		}
	}

	if err := s.Reload(ctx); err != nil {
		// Editors often save by rename, so a missing or half written file
		// settles on the next event.
		if shellerrors.IsRecoverable(err) {
			s.logger.Warn(ctx, err, "Page file reload deferred, keeping current pages",
				"file", s.config.Pages.File, "error_type", string(shellerrors.GetErrorType(err)))
			return nil
		}
		return fmt.Errorf("reloading %s: %w", s.config.Pages.File, err)
	}

	s.logger.Info(ctx, "Page file reloaded", "pages", s.registry.Count(), "sessions", s.hub.Count())

	return nil
}

func (s *ShellServer) baseContext() context.Context {
	return s.lifetime
}
