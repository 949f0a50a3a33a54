package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"signal-link.klederson.com/internal/beacon"
)

const maxClassifyBody = 4 << 10

type errorResponse struct {
	Error string `json:"error"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

// ReceiverStatus is returned by the receiver endpoints and pushed to
// websocket clients when scanning starts or stops.
type ReceiverStatus struct {
	Active   bool `json:"active"`
	Signals  int  `json:"signals"`
	Capacity int  `json:"capacity"`
	Critical int  `json:"critical"`
	Clients  int  `json:"clients"`
}

func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, errorResponse{Error: message})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, s.analyzer.Analyze(r.Context(), req.Text))
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	signals := s.sim.Signals()
	if signals == nil {
		signals = []beacon.Signal{}
	}
	respondJSON(w, http.StatusOK, signals)
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	sig, ok := s.sim.Find(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "signal not found")
		return
	}
	respondJSON(w, http.StatusOK, sig)
}

func (s *Server) handleReceiverStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleReceiverStart(w http.ResponseWriter, r *http.Request) {
	if !s.sim.Active() {
		s.sim.Start(s.ctx)
		s.log.Info("receiver started")
		s.hub.Broadcast(TypeStatus, s.status())
	}
	respondJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleReceiverStop(w http.ResponseWriter, r *http.Request) {
	if s.sim.Active() {
		s.sim.Stop()
		s.log.Info("receiver stopped")
		s.hub.Broadcast(TypeStatus, s.status())
	}
	respondJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (s *Server) status() ReceiverStatus {
	signals := s.sim.Signals()
	critical := 0
	for i := range signals {
		if signals[i].Critical() {
			critical++
		}
	}
	return ReceiverStatus{
		Active:   s.sim.Active(),
		Signals:  len(signals),
		Capacity: s.sim.Capacity(),
		Critical: critical,
		Clients:  s.hub.Count(),
	}
}
