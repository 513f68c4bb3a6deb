package bonding

import (
	"fmt"
	"sort"
	"sync"
)

// SimulationManager manages multiple simulations, each isolated from others
type SimulationManager struct {
	mu          sync.RWMutex
	simulations map[SimulationID]*Simulation
	logger      Logger
}

// NewSimulationManager creates a new simulation manager
func NewSimulationManager() *SimulationManager {
	return NewSimulationManagerWithLogger(NewNoOpLogger())
}

// NewSimulationManagerWithLogger creates a simulation manager that logs
// lifecycle changes.
func NewSimulationManagerWithLogger(logger Logger) *SimulationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	return &SimulationManager{
		simulations: make(map[SimulationID]*Simulation),
		logger:      logger,
	}
}

// Add registers sim under id and stamps the ID on it.
// Returns an error if a simulation with that ID already exists.
func (sm *SimulationManager) Add(id SimulationID, sim *Simulation) error {
	if sim == nil {
		return fmt.Errorf("simulation cannot be nil")
	}
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.simulations[id]; exists {
		return fmt.Errorf("simulation with id %s already exists", id)
	}
	sim.SetSimulationID(id)
	sm.simulations[id] = sim
	sm.logger.Debugf("simulation registered: id=%s", id)
	return nil
}

// Replace registers sim under id, stopping and discarding any previous one.
func (sm *SimulationManager) Replace(id SimulationID, sim *Simulation) {
	sm.mu.Lock()
	prev, existed := sm.simulations[id]
	sim.SetSimulationID(id)
	sm.simulations[id] = sim
	sm.mu.Unlock()

	if existed {
		prev.Stop()
		sm.logger.Debugf("simulation replaced: id=%s", id)
	}
}

// Get retrieves a simulation by ID
func (sm *SimulationManager) Get(id SimulationID) (*Simulation, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sim, exists := sm.simulations[id]
	return sim, exists
}

// Delete stops and removes a simulation.
func (sm *SimulationManager) Delete(id SimulationID) error {
	sm.mu.Lock()
	sim, exists := sm.simulations[id]
	if exists {
		delete(sm.simulations, id)
	}
	sm.mu.Unlock()

	if !exists {
		return fmt.Errorf("simulation with id %s does not exist", id)
	}
	sim.Stop()
	return nil
}

// List returns every simulation ID in sorted order.
func (sm *SimulationManager) List() []SimulationID {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]SimulationID, 0, len(sm.simulations))
	for id := range sm.simulations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// StopAll stops every running simulation.
func (sm *SimulationManager) StopAll() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for _, sim := range sm.simulations {
		sim.Stop()
	}
}
