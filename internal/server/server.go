package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"signal-link.klederson.com/internal/analysis"
	"signal-link.klederson.com/internal/beacon"
)

// Websocket message types.
const (
	TypeSignal = "signal"
	TypeStatus = "status"
)

// Options configures a Server.
type Options struct {
	Addr      string
	Simulator *beacon.Simulator
	Analyzer  analysis.Analyzer
	Gatherer  prometheus.Gatherer
	Log       logrus.FieldLogger
}

// Server exposes the receiver and classifier over HTTP and pushes emitted
// signals to websocket subscribers.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	sim        *beacon.Simulator
	analyzer   analysis.Analyzer
	hub        *Hub
	log        logrus.FieldLogger

	// ctx outlives requests; the simulator and hub run under it.
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the server and starts its websocket hub. Call Shutdown to
// release it even if Start is never called.
func New(opts Options) *Server {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.NewLocal()
	}

	router := mux.NewRouter()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		router:   router,
		sim:      opts.Simulator,
		analyzer: opts.Analyzer,
		hub:      NewHub(opts.Log),
		log:      opts.Log,
		ctx:      ctx,
		cancel:   cancel,
		httpServer: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	s.sim.OnSignal(func(sig beacon.Signal) {
		s.hub.Broadcast(TypeSignal, sig)
	})
	go s.hub.Run(ctx)

	s.registerRoutes(opts.Gatherer)
	return s
}

func (s *Server) registerRoutes(gatherer prometheus.Gatherer) {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(requestLogger(s.log))
	api.Use(recovery(s.log))

	api.HandleFunc("/classify", s.handleClassify).Methods(http.MethodPost)
	api.HandleFunc("/signals", s.handleSignals).Methods(http.MethodGet)
	api.HandleFunc("/signals/{id}", s.handleSignal).Methods(http.MethodGet)
	api.HandleFunc("/receiver", s.handleReceiverStatus).Methods(http.MethodGet)
	api.HandleFunc("/receiver/start", s.handleReceiverStart).Methods(http.MethodPost)
	api.HandleFunc("/receiver/stop", s.handleReceiverStop).Methods(http.MethodPost)

	s.router.HandleFunc("/ws", s.serveWs).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.WithField("addr", s.httpServer.Addr).Info("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Shutdown stops the receiver, disconnects websocket clients and drains
// in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")

	s.sim.Stop()
	s.cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("HTTP server stopped")
	return nil
}
