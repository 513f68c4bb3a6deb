package bonding

import "github.com/go-gl/mathgl/mgl64"

// Impulse bands, applied to |impulse * dt|.
const (
	singleBondImpulse = 0.02
	doubleBondImpulse = 0.04
	tripleBondImpulse = 0.10
)

// MaxBondEnergyOrder is the highest order a collision can support.
const MaxBondEnergyOrder = 4

// BondEnergyOrder maps a collision impulse to the bond order its energy could
// support.
func BondEnergyOrder(impulse mgl64.Vec3, dt float64) int {
	magnitude := impulse.Mul(dt).Len()
	switch {
	case magnitude < singleBondImpulse:
		return 1
	case magnitude < doubleBondImpulse:
		return 2
	case magnitude < tripleBondImpulse:
		return 3
	default:
		return MaxBondEnergyOrder
	}
}

// BondDecision is the outcome of the bond decision procedure.
type BondDecision struct {
	Order    int
	Acceptor *Particle
	Donor    *Particle
}

// DecideBond works out which particle accepts electrons and how many bond
// orders the pair can commit. The more electronegative particle accepts; on a
// tie, particles above tieBreak accept and those at or below it donate, and
// both sides must have shareable electrons and holes.
//
// The order is min(energyOrder, acceptor holes, donor shareable electrons),
// further capped by the acceptor's shareable electrons so neither side ends up
// sharing more than its base valence. Order < 1 means no bond.
func DecideBond(self, other *Particle, energyOrder int, tieBreak float64) BondDecision {
	var acceptor, donor *Particle
	switch {
	case self.Electronegativity > other.Electronegativity:
		acceptor, donor = self, other
	case self.Electronegativity < other.Electronegativity:
		acceptor, donor = other, self
	default:
		if self.ShareableElectrons() <= 0 || self.ShareableHoles() <= 0 ||
			other.ShareableElectrons() <= 0 || other.ShareableHoles() <= 0 {
			return BondDecision{}
		}
		if self.Electronegativity > tieBreak {
			acceptor, donor = self, other
		} else {
			acceptor, donor = other, self
		}
	}

	order := min(energyOrder, acceptor.ShareableHoles(), donor.ShareableElectrons(), acceptor.ShareableElectrons())
	return BondDecision{Order: order, Acceptor: acceptor, Donor: donor}
}

// OnContact handles a collision between self and other carrying impulse.
func (s *Simulation) OnContact(self, other ParticleID, impulse mgl64.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onContact(self, other, impulse)
}

// onContact runs the bond decision engine and commits the bond, with self as
// the owner of the spring. Duplicate attempts on a bonded pair are no-ops.
func (s *Simulation) onContact(selfID, otherID ParticleID, impulse mgl64.Vec3) {
	if selfID == otherID {
		return
	}
	self, ok := s.particles.Get(selfID)
	if !ok {
		return
	}
	other, ok := s.particles.Get(otherID)
	if !ok {
		return
	}

	energyOrder := BondEnergyOrder(impulse, s.cfg.TickDuration)
	if energyOrder == MaxBondEnergyOrder {
		s.logger.Debugf("collision energy supports bond order %d: %s - %s", energyOrder, selfID, otherID)
	}

	if self.BondedWith(otherID) {
		s.logger.Debugf("already bonded: %s - %s", selfID, otherID)
		return
	}

	d := DecideBond(self, other, energyOrder, s.cfg.TieBreakElectronegativity)
	if d.Order < 1 {
		s.logger.Debugf("no bond %s - %s: self electrons=%d holes=%d, other electrons=%d holes=%d",
			selfID, otherID,
			self.ShareableElectrons(), self.ShareableHoles(),
			other.ShareableElectrons(), other.ShareableHoles())
		return
	}

	s.createBond(d.Order, self, other)
}
