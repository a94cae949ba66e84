// internal/httpserver/server.go
//
// HTTP server wiring for the flag quiz.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, access log, timeouts).
//   - Presentation: the embedded page at "/" and its assets under /static/.
//   - Game API: GET /api/state, POST /api/start, POST /api/guess, GET /api/events (SSE).
//   - Diagnostics: /health, /debug/catalog, /openapi.json, /docs.
//
// Notes:
//   - Handlers never touch session state; every request becomes an action on the
//     game loop and the reply snapshot is rendered as a stateView.
//   - /api/events sits outside the timeout group so the stream stays open.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/swaggest/swgui/v5emb"

	"github.com/robalobadob/flagquiz/assets"
	"github.com/robalobadob/flagquiz/internal/game"
)

// Game is the session controller as the HTTP layer sees it. *game.Loop implements it.
type Game interface {
	Start(ctx context.Context) (game.Snapshot, bool, error)
	Guess(ctx context.Context, sessionID, text string) (game.Snapshot, bool, error)
	Snapshot(ctx context.Context) (game.Snapshot, error)
}

// Options tune the server.
type Options struct {
	PlayTokenSecret string // empty: random per process
	CookieSecure    bool
	PingInterval    time.Duration // SSE keep-alive; default 30s
}

// Server bundles router, game loop and snapshot broker.
type Server struct {
	r      *chi.Mux
	srv    *http.Server
	game   Game
	broker *Broker
	tokens *tokens
	opts   Options

	// closing is closed by Shutdown; open event streams return on it.
	closing   chan struct{}
	closeOnce sync.Once
}

// New constructs a Server, installs middleware, and registers routes.
func New(g Game, broker *Broker, opts Options) (*Server, error) {
	tk, err := newTokens(opts.PlayTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("play token secret: %w", err)
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = 30 * time.Second
	}
	s := &Server{
		r:       chi.NewRouter(),
		game:    g,
		broker:  broker,
		tokens:  tk,
		opts:    opts,
		closing: make(chan struct{}),
	}
	s.srv = &http.Server{
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)   // zerolog access log
	s.r.Use(chimw.Recoverer) // recover from panics

	// --- pages + diagnostics ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second))

		r.Get("/", handleIndex)
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static()))))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, healthResponse{OK: true})
		})
		r.Get("/debug/catalog", s.handleDebugCatalog)
		r.Get("/openapi.json", handleOpenAPI())
		r.Mount("/docs", v5emb.New("Flag Quiz API", "/openapi.json", "/docs"))
	})

	// --- game API ---
	s.r.Route("/api", func(r chi.Router) {
		// Streaming stays outside the timeout.
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second))
			r.Use(jsonContentType)
			r.Get("/state", s.handleState)
			r.Post("/start", s.handleStart)
			r.Post("/guess", s.handleGuess)
		})
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s, nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run serves HTTP on addr until Shutdown. It returns nil after a shutdown,
// including one that happened before Run was called.
func (s *Server) Run(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	err := s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown ends open event streams and stops the server, waiting up to 10s
// for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() { close(s.closing) })
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on API responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger writes one access log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("dur", time.Since(start)).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http")
		}()

		next.ServeHTTP(ww, r)
	})
}

// ------------------------------ pages --------------------------------------

// handleIndex serves the embedded page.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	b, err := fs.ReadFile(assets.Static(), "index.html")
	if err != nil {
		http.Error(w, "index not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// healthResponse is returned by /health.
type healthResponse struct {
	OK bool `json:"ok"`
}

// catalogResponse is returned by /debug/catalog.
type catalogResponse struct {
	Countries int  `json:"countries"`
	Ready     bool `json:"ready"`
	Streams   int  `json:"streams"` // open /api/events connections
}

// handleDebugCatalog reports how many countries are loaded and how many pages are listening.
func (s *Server) handleDebugCatalog(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable")
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Countries: snap.CatalogSize,
		Ready:     snap.Ready,
		Streams:   s.broker.Subscribers(),
	})
}
