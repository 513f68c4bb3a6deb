package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/bonding/notifiers"
)

const maxTicksPerRequest = 10000

// extractSimID extracts the simulation ID from a path like "/sim/{simID}/..."
// and returns it with the remaining path.
func extractSimID(path string) (bonding.SimulationID, string) {
	rest, ok := strings.CutPrefix(path, "/sim/")
	if !ok {
		return "", ""
	}
	id, remaining, found := strings.Cut(rest, "/")
	if !found {
		return bonding.SimulationID(id), ""
	}
	return bonding.SimulationID(id), "/" + remaining
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
	}
}

// routes builds the HTTP handler tree.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/sims", s.handleListSimulations)
	mux.HandleFunc("/sim/", s.handleSimulationRoutes)
	mux.HandleFunc("/notifiers", s.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", s.handleNotifiersRoutes)
	mux.HandleFunc("/journal", s.handleJournal)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleSimulationRoutes routes /sim/{simID}/... requests.
func (s *Server) handleSimulationRoutes(w http.ResponseWriter, r *http.Request) {
	simID, remainingPath := extractSimID(r.URL.Path)
	if simID == "" {
		http.Error(w, "simulation ID is required in path: /sim/{simID}/...", http.StatusBadRequest)
		return
	}

	if remainingPath == "/scene" && r.Method == http.MethodPost {
		s.handleScene(w, r, simID)
		return
	}

	sim, exists := s.manager.Get(simID)
	if !exists {
		http.Error(w, "simulation not found", http.StatusNotFound)
		return
	}

	switch {
	case remainingPath == "/tick" && r.Method == http.MethodPost:
		s.handleTick(w, r, sim)
	case remainingPath == "/start" && r.Method == http.MethodPost:
		s.handleStart(w, r, sim)
	case remainingPath == "/stop" && r.Method == http.MethodPost:
		sim.Stop()
		s.logger.Infof("Simulation stopped: sim_id=%s", simID)
		_, _ = w.Write([]byte("simulation stopped"))
	case remainingPath == "/particles" && r.Method == http.MethodGet:
		writeJSON(w, sim.AllMetrics())
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		writeJSON(w, sim.Snapshot())
	case remainingPath == "/stream" && r.Method == http.MethodGet:
		if err := s.stream.Serve(w, r, simID); err != nil {
			s.logger.Warnf("Stream closed: sim_id=%s error=%v", simID, err)
		}
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteSimulation(w, simID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// POST /sim/{simID}/scene
// Body: SceneConfig JSON. Replaces any simulation already registered under the ID.
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request, simID bonding.SimulationID) {
	defer r.Body.Close()

	var cfg bonding.SceneConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid scene json: "+err.Error(), http.StatusBadRequest)
		return
	}

	sim, err := s.LoadScene(simID, cfg)
	if err != nil {
		http.Error(w, "cannot load scene: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Infof("Scene loaded: sim_id=%s scene=%s particles=%d", simID, cfg.Name, len(sim.ParticleIDs()))

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("scene loaded"))
}

// POST /sim/{simID}/tick?n=
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request, sim *bonding.Simulation) {
	n := 1
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		val, err := strconv.Atoi(nStr)
		if err != nil || val <= 0 || val > maxTicksPerRequest {
			http.Error(w, "invalid n: must be an integer between 1 and "+strconv.Itoa(maxTicksPerRequest), http.StatusBadRequest)
			return
		}
		n = val
	}

	for range n {
		sim.Step()
	}
	writeJSON(w, map[string]int64{"tick": sim.Tick()})
}

// POST /sim/{simID}/start?interval=
// interval is in milliseconds (default 20).
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, sim *bonding.Simulation) {
	interval := 20 * time.Millisecond
	if intervalStr := r.URL.Query().Get("interval"); intervalStr != "" {
		ms, err := strconv.Atoi(intervalStr)
		if err != nil || ms <= 0 {
			http.Error(w, "invalid interval: must be a positive integer (milliseconds)", http.StatusBadRequest)
			return
		}
		interval = time.Duration(ms) * time.Millisecond
	}

	sim.Run(interval)
	s.logger.Infof("Simulation started: sim_id=%s interval=%v", sim.ID(), interval)
	_, _ = w.Write([]byte("simulation started"))
}

// DELETE /sim/{simID}
func (s *Server) handleDeleteSimulation(w http.ResponseWriter, simID bonding.SimulationID) {
	if err := s.manager.Delete(simID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.logger.Infof("Simulation deleted: sim_id=%s", simID)
	_, _ = w.Write([]byte("simulation deleted"))
}

// GET /sims
func (s *Server) handleListSimulations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ids := s.manager.List()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	writeJSON(w, map[string][]string{"simulations": out})
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) handleListNotifiers(w http.ResponseWriter) {
	ids := s.notifications.ListNotifiers()
	list := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		if notifier, ok := s.notifications.GetNotifier(id); ok {
			list = append(list, map[string]string{"id": id, "type": notifier.Type()})
		}
	}
	writeJSON(w, map[string]any{"notifiers": list})
}

// POST /notifiers
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
// or    { "type": "journal", "id": "audit", "config": { "path": "audit.db" } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier bonding.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}
		notifier = wh
	case "journal":
		path, ok := req.Config["path"].(string)
		if !ok || path == "" {
			http.Error(w, "journal path is required", http.StatusBadRequest)
			return
		}
		journal, err := notifiers.OpenJournal(req.ID, path)
		if err != nil {
			http.Error(w, "cannot open journal: "+err.Error(), http.StatusBadRequest)
			return
		}
		notifier = journal
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifications.RegisterNotifier(notifier); err != nil {
		notifier.Close()
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.refreshNotifierRouting()
	s.logger.Infof("Notifier registered: id=%s type=%s", req.ID, req.Type)

	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}
	if notifierID == streamNotifierID {
		http.Error(w, "the stream notifier cannot be removed", http.StatusBadRequest)
		return
	}
	if err := s.notifications.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.refreshNotifierRouting()

	_, _ = w.Write([]byte("notifier unregistered"))
}

// GET /journal?sim=&limit=
func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.journal == nil {
		http.Error(w, "journal not configured", http.StatusNotFound)
		return
	}
	if _, ok := s.notifications.GetNotifier(s.journal.ID()); !ok {
		http.Error(w, "journal was unregistered", http.StatusNotFound)
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		val, err := strconv.Atoi(limitStr)
		if err != nil || val <= 0 {
			http.Error(w, "invalid limit: must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = val
	}

	entries, err := s.journal.Recent(r.Context(), r.URL.Query().Get("sim"), limit)
	if err != nil {
		http.Error(w, "cannot read journal: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"entries": entries})
}
