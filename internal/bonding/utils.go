package bonding

import "github.com/google/uuid"

// NewParticleID returns a random particle identifier.
func NewParticleID() ParticleID {
	return ParticleID(uuid.NewString())
}

// NewSimulationID returns a random simulation identifier.
func NewSimulationID() SimulationID {
	return SimulationID(uuid.NewString())
}

// pairKey identifies an unordered pair of particles.
type pairKey struct {
	lo, hi ParticleID
}

func makePairKey(a, b ParticleID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}
