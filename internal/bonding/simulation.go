package bonding

import (
	"fmt"
	"sync"
	"time"
)

// SimulationID identifies a simulation inside a SimulationManager.
type SimulationID string

// Simulation runs the bonding core on top of a physics host. One call to Step
// is one fixed-timestep tick.
type Simulation struct {
	mu        sync.RWMutex
	id        SimulationID
	cfg       SimulationConfig
	particles *Registry
	host      PhysicsHost
	springs   *constraintManager
	logger    Logger

	notifications *NotificationManager
	notifyCfg     NotificationConfig

	tick    int64
	pending []HostEvent

	stopCh    chan struct{}
	isRunning bool
}

// NewSimulation creates an empty simulation bound to host.
func NewSimulation(host PhysicsHost, cfg SimulationConfig) *Simulation {
	cfg = cfg.withDefaults()
	return &Simulation{
		cfg:       cfg,
		particles: NewRegistry(),
		host:      host,
		springs:   newConstraintManager(host, cfg.SpringDamping),
		logger:    NewNoOpLogger(),
		stopCh:    make(chan struct{}),
	}
}

// SetSimulationID sets the ID reported in bond events and snapshots.
func (s *Simulation) SetSimulationID(id SimulationID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}

func (s *Simulation) ID() SimulationID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// SetLogger replaces the logger. A nil logger restores the no-op logger.
func (s *Simulation) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if logger == nil {
		logger = NewNoOpLogger()
	}
	s.logger = logger
}

// SetNotificationManager attaches the manager bond events are enqueued on.
func (s *Simulation) SetNotificationManager(nm *NotificationManager) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = nm
}

// SetNotificationConfig selects which notifiers receive bond events.
func (s *Simulation) SetNotificationConfig(cfg NotificationConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifyCfg = cfg
}

func (s *Simulation) Config() SimulationConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Tick returns the number of completed steps.
func (s *Simulation) Tick() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tick
}

// AddParticle registers a particle. Its body must already exist in the host.
func (s *Simulation) AddParticle(p *Particle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.particles.Add(p)
}

// ParticleIDs returns every particle ID in registration order.
func (s *Simulation) ParticleIDs() []ParticleID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]ParticleID, 0, s.particles.Len())
	for _, p := range s.particles.All() {
		ids = append(ids, p.ID)
	}
	return ids
}

// BondOrder returns the ledger order between a and b as recorded by a.
func (s *Simulation) BondOrder(a, b ParticleID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.particles.Get(a)
	if !ok {
		return 0
	}
	return p.BondOrder(b)
}

// CreateBond commits a bond of the given order without running the bond
// decision engine. It is meant for authoring starting molecules.
func (s *Simulation) CreateBond(order int, a, b ParticleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pa, ok := s.particles.Get(a)
	if !ok {
		return fmt.Errorf("particle %s not found", a)
	}
	pb, ok := s.particles.Get(b)
	if !ok {
		return fmt.Errorf("particle %s not found", b)
	}
	if pa == pb {
		return fmt.Errorf("particle %s cannot bond with itself", a)
	}
	if order < 1 {
		return fmt.Errorf("bond order must be at least 1, got %d", order)
	}
	s.createBond(order, pa, pb)
	return nil
}

// DecrementBond lowers the bond between a and b by one order, removing it at
// the last order. Unbonded pairs are left alone.
func (s *Simulation) DecrementBond(a, b ParticleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pa, okA := s.particles.Get(a)
	pb, okB := s.particles.Get(b)
	if !okA || !okB {
		return
	}
	s.decrementBond(pa, pb)
}

// Enqueue queues host notifications to be drained at the start of the next tick.
func (s *Simulation) Enqueue(events ...HostEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, events...)
}

// Step advances the simulation by one tick:
//  1. drain host notifications delivered since the previous tick
//  2. apply electrostatic forces over every proximity set
//  3. reconcile particles left break-pending
//  4. advance the host, if it can be advanced, queueing its notifications
func (s *Simulation) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step()
}

func (s *Simulation) step() {
	s.tick++

	events := s.pending
	s.pending = nil
	for _, ev := range events {
		s.dispatch(ev)
	}

	s.integrateForces()
	s.resolveBreakage()

	if src, ok := s.host.(EventSource); ok {
		s.pending = append(s.pending, src.Advance(s.cfg.TickDuration)...)
	}
}

func (s *Simulation) dispatch(ev HostEvent) {
	switch ev.Kind {
	case EventRangeEnter:
		s.onRangeEnter(ev.Self, ev.Other)
	case EventRangeExit:
		s.onRangeExit(ev.Self, ev.Other)
	case EventContact:
		s.onContact(ev.Self, ev.Other, ev.Impulse)
	case EventConstraintBreak:
		s.onConstraintBreak(ev.Self)
	default:
		s.logger.Warnf("unknown host event kind: %d", ev.Kind)
	}
}

// Run steps the simulation on a ticker in its own goroutine until Stop is
// called. It can be called again after stopping.
func (s *Simulation) Run(interval time.Duration) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.stopCh = make(chan struct{})
	s.isRunning = true
	stopCh := s.stopCh
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if !s.stepRun(stopCh) {
					return
				}
			case <-stopCh:
				return
			}
		}
	}()
}

// stepRun steps once on behalf of the run that owns stopCh. It reports false
// once that run has been stopped.
func (s *Simulation) stepRun(stopCh chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning || s.stopCh != stopCh {
		return false
	}
	s.step()
	return true
}

// Stop signals a running simulation to stop. The simulation reports itself
// stopped as soon as Stop returns, so Run may follow immediately.
func (s *Simulation) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopCh)
}

func (s *Simulation) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
