package server

import (
	"avatar-server/internal/engine"
	"avatar-server/internal/network"
	"avatar-server/internal/version"
	"avatar-server/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"sync"
	"time"
)

// Options - параметры служебного HTTP сервера
type Options struct {
	Addr          string
	Token         string
	WebSocket     bool
	WebSocketPath string
	MaxFrameBytes int
	OutboundQueue int
	Pprof         bool
}

// Server - служебный HTTP: health, version, metrics, debug и (по желанию) websocket
type Server struct {
	opts     Options
	engine   *engine.Service
	hub      *network.Hub
	observer network.Observer
	metrics  http.Handler

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
	closing  bool // под mu; после Shutdown новые websocket не регистрируются
	wsWG     sync.WaitGroup
}

// New собирает сервер. metrics может быть nil - тогда /metrics не монтируется.
func New(opts Options, svc *engine.Service, hub *network.Hub, observer network.Observer, metrics http.Handler) *Server {
	if opts.WebSocketPath == "" {
		opts.WebSocketPath = "/ws"
	}
	return &Server{
		opts:     opts,
		engine:   svc,
		hub:      hub,
		observer: observer,
		metrics:  metrics,
	}
}

// Handler собирает маршруты (отдельно от Start, чтобы тестировать через httptest)
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics)
	}
	if s.opts.WebSocket {
		mux.HandleFunc(s.opts.WebSocketPath, s.handleWS)
	}

	NewDebugHandler(s.engine, s.hub).RegisterRoutes(mux)

	if s.opts.Pprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

// Start открывает порт и обслуживает запросы в фоне
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.httpSrv != nil {
		return errors.New("server: already started")
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Error("HTTP server failed")
		}
	}(s.httpSrv)

	logger.Log.WithField("component", "http").Infof("Ops server running on %s", ln.Addr())
	return nil
}

// Addr - фактический адрес или nil до Start
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown закрывает порт, затем websocket подключения (их http.Server не ждет)
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpSrv
	s.closing = true
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	err := srv.Shutdown(ctx)
	s.hub.CloseTransport(TransportWS)
	s.wsWG.Wait()
	return err
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с локальных дашбордов
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
