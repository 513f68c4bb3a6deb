package bonding

import (
	"errors"
	"fmt"
)

// ParticleID is a stable, unique identifier for a particle.
type ParticleID string

// ErrAtomicNumberRange is returned when a particle is created with an atomic
// number outside the shell model (1..18).
var ErrAtomicNumberRange = errors.New("atomic number out of range")

const (
	MinAtomicNumber = 1
	MaxAtomicNumber = 18
)

// BreakState tracks whether a constraint break notification is awaiting
// reconciliation on the next tick.
type BreakState int

const (
	BreakNominal BreakState = iota
	BreakPending
)

func (s BreakState) String() string {
	switch s {
	case BreakNominal:
		return "nominal"
	case BreakPending:
		return "break_pending"
	default:
		return "unknown"
	}
}

// Particle represents an atom taking part in the simulation.
// AtomicNumber and Electronegativity are fixed at creation. The bond ledger
// half, the proximity set and the break state are live state mutated only by
// the simulation.
type Particle struct {
	ID                ParticleID
	AtomicNumber      int
	Electronegativity float64

	// bonds is this particle's half of the ledger: partner -> bond order.
	bonds map[ParticleID]int
	// partners records ledger partners in the order the bonds were created.
	partners []ParticleID
	nearby   map[ParticleID]struct{}

	breakState    BreakState
	pendingBreaks int
}

// NewParticle creates a particle with an empty ledger and proximity set.
// An empty id is replaced by a freshly generated one.
func NewParticle(id ParticleID, atomicNumber int, electronegativity float64) (*Particle, error) {
	if atomicNumber < MinAtomicNumber || atomicNumber > MaxAtomicNumber {
		return nil, fmt.Errorf("%w: %d (supported %d..%d)", ErrAtomicNumberRange, atomicNumber, MinAtomicNumber, MaxAtomicNumber)
	}
	if id == "" {
		id = NewParticleID()
	}
	return &Particle{
		ID:                id,
		AtomicNumber:      atomicNumber,
		Electronegativity: electronegativity,
		bonds:             make(map[ParticleID]int),
		nearby:            make(map[ParticleID]struct{}),
	}, nil
}

// BondOrder returns the recorded bond order with partner, or 0 if unbonded.
func (p *Particle) BondOrder(partner ParticleID) int {
	return p.bonds[partner]
}

// BondedWith reports whether the ledger records a bond with partner.
func (p *Particle) BondedWith(partner ParticleID) bool {
	_, ok := p.bonds[partner]
	return ok
}

// Partners returns the ledger partners in the order their bonds were formed.
func (p *Particle) Partners() []ParticleID {
	out := make([]ParticleID, len(p.partners))
	copy(out, p.partners)
	return out
}

// Bonds returns a copy of this particle's ledger half.
func (p *Particle) Bonds() map[ParticleID]int {
	out := make(map[ParticleID]int, len(p.bonds))
	for id, order := range p.bonds {
		out[id] = order
	}
	return out
}

// Nearby returns the identities currently inside this particle's sensor range.
func (p *Particle) Nearby() []ParticleID {
	out := make([]ParticleID, 0, len(p.nearby))
	for id := range p.nearby {
		out = append(out, id)
	}
	return out
}

// IsNearby reports whether other is in the proximity set.
func (p *Particle) IsNearby(other ParticleID) bool {
	_, ok := p.nearby[other]
	return ok
}

func (p *Particle) BreakState() BreakState {
	return p.breakState
}

// setBond writes one half of the ledger. Callers keep both halves in step.
func (p *Particle) setBond(partner ParticleID, order int) {
	if _, exists := p.bonds[partner]; !exists {
		p.partners = append(p.partners, partner)
	}
	p.bonds[partner] = order
}

// clearBond removes one half of the ledger entry.
func (p *Particle) clearBond(partner ParticleID) {
	if _, exists := p.bonds[partner]; !exists {
		return
	}
	delete(p.bonds, partner)
	for i, id := range p.partners {
		if id == partner {
			p.partners = append(p.partners[:i], p.partners[i+1:]...)
			break
		}
	}
}
