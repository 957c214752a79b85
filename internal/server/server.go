package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"

	"github.com/sri-shubham/Everclimb/internal/cache"
	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/config"
	"github.com/sri-shubham/Everclimb/internal/hex"
	"github.com/sri-shubham/Everclimb/internal/network"
)

// Server delivers generated chunks over HTTP and a WebSocket feed
type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	gen      *chunk.Generator
	chunks   *cache.Generator
	jwt      *JWTValidator
	redis    *redis.Client
	upgrader websocket.Upgrader
	router   chi.Router
	httpSrv  *http.Server

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	log   *slog.Logger
	cache cache.Cache
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *serverOptions) { o.log = l }
}

// WithCache replaces the cache chosen from the configuration.
func WithCache(c cache.Cache) Option {
	return func(o *serverOptions) { o.cache = c }
}

// New creates a new server instance
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	o := serverOptions{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	log.Info("initializing server")

	curve, err := cfg.Difficulty.Curve()
	if err != nil {
		return nil, err
	}
	gen := chunk.NewGenerator(chunk.WithCurve(curve), chunk.WithLogger(log))

	ctx, cancel := context.WithCancel(context.Background())
	srv := &Server{
		cfg:         cfg,
		log:         log,
		gen:         gen,
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{"access_token"},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	store := o.cache
	if store == nil && cfg.Redis.Enabled {
		srv.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := srv.redis.Ping(ctx).Err(); err != nil {
			cancel()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("connected to redis", "address", cfg.Redis.Address)
		store = cache.NewRedis(srv.redis, cfg.Redis.KeyPrefix, cfg.Redis.TTL())
	}
	if store == nil {
		store = cache.NewMemory(256)
	}
	srv.chunks = cache.NewGenerator(gen, store, log)

	if cfg.JWT.PublicKeyPath != "" {
		v, err := NewJWTValidator(cfg.JWT)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
		}
		srv.jwt = v
	}

	srv.router = srv.routes()
	log.Info("server initialized", "jwt_required", cfg.JWT.Required, "redis", cfg.Redis.Enabled)
	return srv, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/difficulty/{level}", s.handleDifficulty)
		r.Get("/chunks/{seed}/{level}", s.handleChunk)
	})
	return r
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.log.Info("listening", "ws", "ws://"+addr+"/ws", "health", "http://"+addr+"/health")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	s.log.Info("shutting down server")
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.log.Error("http server shutdown", "error", err)
		}
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.log.Error("redis close", "error", err)
		}
	}
	s.log.Info("server shutdown complete")
	return nil
}

// handleWebSocket handles WebSocket connection requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	climber, err := s.authenticate(r)
	if err != nil {
		s.log.Warn("rejected websocket", "remote", r.RemoteAddr, "error", err)
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, s, climber)
	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()
	s.log.Info("websocket connected", "climber", climber.Username, "session", conn.session.ID, "remote", r.RemoteAddr)

	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()
	s.log.Info("websocket closed", "climber", climber.Username, "session", conn.session.ID)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 {
		writeError(w, http.StatusBadRequest, network.ErrCodeBadMessage, "level must be a positive integer")
		return
	}
	writeJSON(w, http.StatusOK, network.DifficultyPayload{Level: level, Params: s.gen.Params(level)})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticate(r); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return
	}
	req, err := s.chunkRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, network.ErrCodeBadMessage, err.Error())
		return
	}
	c, err := s.chunks.Generate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, network.ErrCodeUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// chunkRequest reads /api/chunks/{seed}/{level} and its query parameters.
func (s *Server) chunkRequest(r *http.Request) (chunk.Request, error) {
	seed, err := strconv.ParseUint(chi.URLParam(r, "seed"), 0, 32)
	if err != nil {
		return chunk.Request{}, fmt.Errorf("bad seed: %w", err)
	}
	level, err := strconv.Atoi(chi.URLParam(r, "level"))
	if err != nil || level < 1 {
		return chunk.Request{}, fmt.Errorf("level must be a positive integer")
	}
	req := chunk.Request{
		HexSize:  s.cfg.Generator.HexSize,
		Seed:     uint32(seed),
		Level:    level,
		Viewport: s.cfg.Generator.Viewport(),
	}
	q := r.URL.Query()
	floatParam := func(name string, dst *float64) error {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || !(f > 0) || math.IsInf(f, 0) {
				return fmt.Errorf("bad %s %q", name, v)
			}
			*dst = f
		}
		return nil
	}
	if err := floatParam("hex_size", &req.HexSize); err != nil {
		return req, err
	}
	if err := floatParam("width", &req.Viewport.Width); err != nil {
		return req, err
	}
	if err := floatParam("height", &req.Viewport.Height); err != nil {
		return req, err
	}
	if v := q.Get("entrance"); v != "" {
		e, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("bad entrance %q", v)
		}
		req.Entrance = &e
	}
	return req, s.checkSize(req)
}

// checkSize rejects requests whose grid would exceed generator.max_cells.
func (s *Server) checkSize(req chunk.Request) error {
	vp := req.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = hex.DefaultViewport
	}
	cols, rows := hex.FlatTopExtent(req.HexSize, vp)
	if cells := cols * rows; !(cells <= float64(s.cfg.Generator.MaxCells)) {
		return fmt.Errorf("grid of %gx%g hexes exceeds the %d cell limit", cols, rows, s.cfg.Generator.MaxCells)
	}
	return nil
}

// startRequest builds the first chunk request of a feed session.
func (s *Server) startRequest(p network.StartPayload) (chunk.Request, error) {
	req := chunk.Request{
		HexSize:  s.cfg.Generator.HexSize,
		Seed:     s.cfg.Generator.Seed,
		Level:    s.cfg.Generator.StartLevel,
		Viewport: s.cfg.Generator.Viewport(),
	}
	if p.Seed != nil {
		req.Seed = *p.Seed
	}
	if p.Level > 0 {
		req.Level = p.Level
	}
	if p.HexSize > 0 {
		req.HexSize = p.HexSize
	}
	if p.Width > 0 && p.Height > 0 {
		req.Viewport = hex.Viewport{Width: p.Width, Height: p.Height}
	}
	return req, s.checkSize(req)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, network.ErrorPayload{Code: code, Message: message})
}
