package bonding

// ShellCapacities are the electron shell sizes of the fixed-shell model.
// Only atomic numbers 1..18 fit inside them.
var ShellCapacities = [3]int{2, 8, 8}

// UnsupportedValence is returned by BaseValenceElectrons and Period for atomic
// numbers outside 1..18. A zero base valence and a zero period leave a particle
// with no shareable electrons and no holes, so it never bonds.
const UnsupportedValence = 0

// BaseValenceElectrons returns the electrons in the outermost occupied shell of
// an unbonded atom.
func BaseValenceElectrons(atomicNumber int) int {
	if atomicNumber < MinAtomicNumber || atomicNumber > MaxAtomicNumber {
		return UnsupportedValence
	}
	electrons := atomicNumber
	for _, shell := range ShellCapacities {
		if electrons-shell < 0 {
			return electrons
		}
		electrons -= shell
	}
	return electrons
}

// Period returns the periodic table row: 1 for Z in [1,2], 2 for [3,10],
// 3 for [11,18] and UnsupportedValence otherwise.
func Period(atomicNumber int) int {
	switch {
	case atomicNumber >= 1 && atomicNumber <= 2:
		return 1
	case atomicNumber >= 3 && atomicNumber <= 10:
		return 2
	case atomicNumber >= 11 && atomicNumber <= 18:
		return 3
	default:
		return UnsupportedValence
	}
}

// ValenceOrbitalPositions is 2 * period^2.
func ValenceOrbitalPositions(atomicNumber int) int {
	period := Period(atomicNumber)
	return 2 * period * period
}

// SharedElectrons sums every bond order in a ledger half.
func SharedElectrons(bonds map[ParticleID]int) int {
	total := 0
	for _, order := range bonds {
		total += order
	}
	return total
}

// ValenceElectrons = base valence + shared electrons.
func ValenceElectrons(atomicNumber int, bonds map[ParticleID]int) int {
	return BaseValenceElectrons(atomicNumber) + SharedElectrons(bonds)
}

// ShareableElectrons = base valence - shared electrons. Negative when the atom
// is over-bonded; callers treat anything below 1 as none available.
func ShareableElectrons(atomicNumber int, bonds map[ParticleID]int) int {
	return BaseValenceElectrons(atomicNumber) - SharedElectrons(bonds)
}

// ShareableHoles = valence orbital positions - valence electrons.
func ShareableHoles(atomicNumber int, bonds map[ParticleID]int) int {
	return ValenceOrbitalPositions(atomicNumber) - ValenceElectrons(atomicNumber, bonds)
}

func (p *Particle) BaseValenceElectrons() int    { return BaseValenceElectrons(p.AtomicNumber) }
func (p *Particle) SharedElectrons() int         { return SharedElectrons(p.bonds) }
func (p *Particle) ValenceElectrons() int        { return ValenceElectrons(p.AtomicNumber, p.bonds) }
func (p *Particle) ShareableElectrons() int      { return ShareableElectrons(p.AtomicNumber, p.bonds) }
func (p *Particle) ShareableHoles() int          { return ShareableHoles(p.AtomicNumber, p.bonds) }
func (p *Particle) ValenceOrbitalPositions() int { return ValenceOrbitalPositions(p.AtomicNumber) }
func (p *Particle) Period() int                  { return Period(p.AtomicNumber) }

// TotalElectrons counts the atom's own electrons plus those it shares.
func (p *Particle) TotalElectrons() int {
	return p.AtomicNumber + p.SharedElectrons()
}
