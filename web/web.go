// Package web serves the scribe chat over HTTP using gin: a server-rendered
// page with a history sidebar and voice input, plus a JSON API.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/dispatch"
	"github.com/fwojciec/scribe/goldmark"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CookieName identifies the browser's session.
const CookieName = "scribe_session"

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

//go:embed templates/*.html static/*
var assets embed.FS

// Runner executes conversational turns. It is satisfied by *agent.Loop.
type Runner interface {
	Turn(ctx context.Context, session *scribe.Session, input string) (dispatch.Outcome, error)
	Replay(ctx context.Context, session *scribe.Session, k int) (dispatch.Outcome, error)
}

// Server is the HTTP front-end.
type Server struct {
	runner Runner
	store  *Store
	log    zerolog.Logger
	engine *gin.Engine
}

// Option configures a [Server].
type Option func(*Server)

// WithStore sets the session store.
func WithStore(store *Store) Option {
	return func(s *Server) { s.store = store }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New creates a Server that runs turns through runner.
func New(runner Runner, opts ...Option) (*Server, error) {
	s := &Server{
		runner: runner,
		store:  NewStore(),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown": func(src string) template.HTML {
			// Raw HTML in the source is dropped by the renderer.
			return template.HTML(goldmark.RenderHTML(src))
		},
	}).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	engine.SetHTMLTemplate(tmpl)
	s.engine = engine
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.index)
	s.engine.POST("/messages", s.postMessage)
	s.engine.POST("/history/:index", s.replay)
	s.engine.GET("/healthz", s.healthz)
	s.engine.StaticFileFS("/static/voice.js", "static/voice.js", http.FS(assets))

	api := s.engine.Group("/api")
	api.GET("/session", s.apiSession)
	api.POST("/messages", s.apiPostMessage)
	api.POST("/history/:index", s.apiReplay)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sweepSessions(sweepCtx)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// sweepSessions drops idle sessions every sweepInterval until ctx is done.
func (s *Server) sweepSessions(ctx context.Context) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Sweep(); n > 0 {
				s.log.Debug().Int("dropped", n).Int("live", s.store.Len()).Msg("swept idle sessions")
			}
		}
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		evt := s.log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = s.log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
