package bonding

import (
	"encoding/json"
	"fmt"
)

// BondRecord is one half of the ledger: From's recorded order with To.
type BondRecord struct {
	From  ParticleID `json:"from"`
	To    ParticleID `json:"to"`
	Order int        `json:"order"`
}

// Snapshot captures a simulation's ledger and monitoring state at a tick
// boundary.
type Snapshot struct {
	SimulationID    SimulationID      `json:"simulation_id"`
	Tick            int64             `json:"tick"`
	Particles       []ParticleMetrics `json:"particles"`
	Bonds           []BondRecord      `json:"bonds"`
	LiveConstraints int               `json:"live_constraints"`
}

// Snapshot captures the current state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		SimulationID:    s.id,
		Tick:            s.tick,
		Particles:       s.allMetrics(),
		Bonds:           make([]BondRecord, 0),
		LiveConstraints: s.springs.liveCount(),
	}
	for _, p := range s.particles.All() {
		for _, partner := range p.partners {
			snap.Bonds = append(snap.Bonds, BondRecord{From: p.ID, To: partner, Order: p.bonds[partner]})
		}
	}
	return snap
}

// ValidateSnapshot checks the structural invariants of a snapshot:
//   - particle IDs are non-empty and unique
//   - every bond references known particles and has order >= 1
//   - every ledger half has a mirror half with the same order
func ValidateSnapshot(snapshot Snapshot) error {
	seenIDs := make(map[ParticleID]struct{})
	for i, p := range snapshot.Particles {
		if p.ID == "" {
			return fmt.Errorf("particle at index %d has empty ID", i)
		}
		if _, exists := seenIDs[p.ID]; exists {
			return fmt.Errorf("duplicate particle ID: %s", p.ID)
		}
		seenIDs[p.ID] = struct{}{}
	}

	halves := make(map[[2]ParticleID]int, len(snapshot.Bonds))
	for _, b := range snapshot.Bonds {
		if _, ok := seenIDs[b.From]; !ok {
			return fmt.Errorf("bond references unknown particle: %s", b.From)
		}
		if _, ok := seenIDs[b.To]; !ok {
			return fmt.Errorf("bond references unknown particle: %s", b.To)
		}
		if b.Order < 1 {
			return fmt.Errorf("bond %s -> %s has order %d", b.From, b.To, b.Order)
		}
		halves[[2]ParticleID{b.From, b.To}] = b.Order
	}

	for key, order := range halves {
		mirror, ok := halves[[2]ParticleID{key[1], key[0]}]
		if !ok {
			return fmt.Errorf("bond %s -> %s has no mirror entry", key[0], key[1])
		}
		if mirror != order {
			return fmt.Errorf("asymmetric bond %s - %s: %d vs %d", key[0], key[1], order, mirror)
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}
