package main

import (
	"fmt"
	"time"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/bonding/notifiers"
	"github.com/daniacca/bondsim/internal/logging"
	"github.com/daniacca/bondsim/internal/sandbox"
)

const streamNotifierID = "stream"

// Server hosts isolated simulations over HTTP.
type Server struct {
	manager       *bonding.SimulationManager
	notifications *bonding.NotificationManager
	stream        *notifiers.WebSocketNotifier
	journal       *notifiers.JournalNotifier
	logger        *logging.Logger
}

// NewServer creates a server with the websocket stream notifier registered.
func NewServer(logger *logging.Logger) *Server {
	s := &Server{
		manager:       bonding.NewSimulationManagerWithLogger(logger),
		notifications: bonding.NewNotificationManagerWithLogger(logger),
		stream:        notifiers.NewWebSocketNotifier(streamNotifierID),
		logger:        logger,
	}
	if err := s.notifications.RegisterNotifier(s.stream); err != nil {
		logger.Errorf("Failed to register stream notifier: %v", err)
	}
	return s
}

// OpenJournal attaches a sqlite journal receiving every bond event. Call it
// before serving.
func (s *Server) OpenJournal(path string) error {
	journal, err := notifiers.OpenJournal("journal", path)
	if err != nil {
		return err
	}
	if err := s.notifications.RegisterNotifier(journal); err != nil {
		journal.Close()
		return err
	}
	s.journal = journal
	s.refreshNotifierRouting()
	return nil
}

// LoadScene builds a simulation for cfg on a fresh sandbox world and registers
// it under id, replacing any previous simulation with that ID.
func (s *Server) LoadScene(id bonding.SimulationID, cfg bonding.SceneConfig) (*bonding.Simulation, error) {
	sim, err := bonding.LoadScene(cfg, sandbox.NewWorld(), s.logger)
	if err != nil {
		return nil, err
	}
	sim.SetNotificationManager(s.notifications)
	sim.SetNotificationConfig(s.notificationConfig())
	s.manager.Replace(id, sim)
	return sim, nil
}

// notificationConfig routes bond events to every registered notifier.
func (s *Server) notificationConfig() bonding.NotificationConfig {
	ids := s.notifications.ListNotifiers()
	return bonding.NotificationConfig{Enabled: len(ids) > 0, Notifiers: ids}
}

// refreshNotifierRouting pushes the current notifier set to every simulation.
func (s *Server) refreshNotifierRouting() {
	cfg := s.notificationConfig()
	for _, id := range s.manager.List() {
		if sim, ok := s.manager.Get(id); ok {
			sim.SetNotificationConfig(cfg)
		}
	}
}

// Start runs a registered simulation on a ticker.
func (s *Server) Start(id bonding.SimulationID, interval time.Duration) error {
	sim, ok := s.manager.Get(id)
	if !ok {
		return fmt.Errorf("simulation %s not found", id)
	}
	sim.Run(interval)
	return nil
}

// Close stops every simulation and releases the notifiers.
func (s *Server) Close() error {
	s.manager.StopAll()
	return s.notifications.Close()
}
