package bonding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// BondEventKind names a change to the bond ledger.
type BondEventKind string

const (
	BondFormed    BondEventKind = "bond_formed"
	BondWeakened  BondEventKind = "bond_weakened"
	BondDissolved BondEventKind = "bond_dissolved"
)

// BondEvent describes a ledger change between A and B. Order is the order
// after the change (0 once dissolved).
type BondEvent struct {
	SimulationID  SimulationID  `json:"simulation_id"`
	Kind          BondEventKind `json:"kind"`
	Tick          int64         `json:"tick"`
	Timestamp     int64         `json:"timestamp"`
	A             ParticleID    `json:"a"`
	B             ParticleID    `json:"b"`
	Order         int           `json:"order"`
	PreviousOrder int           `json:"previous_order"`
}

func (e BondEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is a destination for bond events.
type Notifier interface {
	// ID is unique within a NotificationManager.
	ID() string
	// Type names the transport, e.g. "webhook", "websocket" or "journal".
	Type() string
	// Notify delivers one event. The context bounds delivery time.
	Notify(ctx context.Context, event BondEvent) error
	Close() error
}

const (
	notificationQueueSize = 1024
	deliveryTimeout       = 30 * time.Second
	deliveryAttempts      = 4
	firstRetryDelay       = 100 * time.Millisecond
)

type delivery struct {
	event   BondEvent
	targets []string
}

// NotificationManager owns the registered notifiers and delivers queued bond
// events to them from a background worker. Simulations never block on
// delivery: a full queue drops the event.
type NotificationManager struct {
	logger Logger

	mu        sync.RWMutex
	notifiers map[string]Notifier
	closed    bool

	queue chan delivery
	done  sync.WaitGroup
}

func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(nil)
}

// NewNotificationManagerWithLogger reports delivery failures to logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	nm := &NotificationManager{
		logger:    logger,
		notifiers: make(map[string]Notifier),
		queue:     make(chan delivery, notificationQueueSize),
	}
	nm.done.Add(1)
	go nm.deliverLoop()
	return nm
}

func (nm *NotificationManager) RegisterNotifier(n Notifier) error {
	if n == nil {
		return errors.New("notifier cannot be nil")
	}
	id := n.ID()
	if id == "" {
		return errors.New("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, taken := nm.notifiers[id]; taken {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	nm.notifiers[id] = n
	return nil
}

// UnregisterNotifier removes the notifier and closes it.
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	n, ok := nm.notifiers[id]
	delete(nm.notifiers, id)
	nm.mu.Unlock()

	if !ok {
		return fmt.Errorf("notifier with ID %s not found", id)
	}
	if err := n.Close(); err != nil {
		return fmt.Errorf("close notifier %s: %w", id, err)
	}
	return nil
}

func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	n, ok := nm.notifiers[id]
	return n, ok
}

// ListNotifiers returns the registered IDs in sorted order.
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	nm.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Enqueue schedules event for delivery to targets without blocking.
func (nm *NotificationManager) Enqueue(event BondEvent, targets []string) {
	if len(targets) == 0 {
		return
	}

	nm.mu.RLock()
	defer nm.mu.RUnlock()
	if nm.closed {
		return
	}
	select {
	case nm.queue <- delivery{event: event, targets: targets}:
	default:
		nm.logger.Warnf("notification queue full, dropping %s %s-%s", event.Kind, event.A, event.B)
	}
}

func (nm *NotificationManager) deliverLoop() {
	defer nm.done.Done()
	for d := range nm.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		for _, id := range d.targets {
			nm.deliver(ctx, id, d.event)
		}
		cancel()
	}
}

// deliver retries a failing notifier with doubling delays.
func (nm *NotificationManager) deliver(ctx context.Context, id string, event BondEvent) {
	n, ok := nm.GetNotifier(id)
	if !ok {
		nm.logger.Warnf("notifier %s not registered, dropping %s", id, event.Kind)
		return
	}

	delay := firstRetryDelay
	for attempt := 1; ; attempt++ {
		err := n.Notify(ctx, event)
		if err == nil {
			return
		}
		if attempt == deliveryAttempts {
			nm.logger.Errorf("notifier %s gave up after %d attempts: %v", id, attempt, err)
			return
		}
		nm.logger.Warnf("notifier %s attempt %d failed: %v", id, attempt, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// Notify delivers event to targets synchronously, once each, and joins every
// failure into the returned error.
func (nm *NotificationManager) Notify(ctx context.Context, event BondEvent, targets []string) error {
	var errs []error
	for _, id := range targets {
		n, ok := nm.GetNotifier(id)
		if !ok {
			errs = append(errs, fmt.Errorf("notifier %s not found", id))
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Close delivers what is already queued, then closes and forgets every
// notifier. Later calls do nothing.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.queue)
	nm.mu.Unlock()

	nm.done.Wait()

	nm.mu.Lock()
	notifiers := nm.notifiers
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	var errs []error
	for id, n := range notifiers {
		if err := n.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close notifier %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// emit enqueues a bond event if notifications are enabled for this simulation.
func (s *Simulation) emit(kind BondEventKind, a, b ParticleID, order, previous int) {
	if s.notifications == nil || !s.notifyCfg.Enabled || len(s.notifyCfg.Notifiers) == 0 {
		return
	}
	s.notifications.Enqueue(BondEvent{
		SimulationID:  s.id,
		Kind:          kind,
		Tick:          s.tick,
		Timestamp:     time.Now().Unix(),
		A:             a,
		B:             b,
		Order:         order,
		PreviousOrder: previous,
	}, s.notifyCfg.Notifiers)
}
