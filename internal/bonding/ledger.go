package bonding

// springKey is {leading, lagging}: the higher atomic number first.
type springKey struct {
	leading, lagging int
}

// springConstants are derived from characteristic stretching frequencies.
// The table is intentionally partial.
var springConstants = map[springKey]float64{
	{6, 1}: 167.79,
	{6, 6}: 353.75,
	{8, 6}: 442.02,
	{7, 1}: 232.52,
	{8, 1}: 252.14,
}

// SpringConstant looks up the bond spring constant for two atomic numbers.
// Pairs missing from the table return fallback and false.
func SpringConstant(z1, z2 int, fallback float64) (float64, bool) {
	key := springKey{leading: z2, lagging: z1}
	if z1 > z2 {
		key = springKey{leading: z1, lagging: z2}
	}
	if k, ok := springConstants[key]; ok {
		return k, true
	}
	return fallback, false
}

func (s *Simulation) springConstant(a, b *Particle) float64 {
	k, ok := SpringConstant(a.AtomicNumber, b.AtomicNumber, s.cfg.DefaultSpringConstant)
	if !ok {
		s.logger.Debugf("spring constant not in table: z=%d z=%d, using %.2f", a.AtomicNumber, b.AtomicNumber, k)
	}
	return k
}

// createBond records order on both ledger halves and asks the host for a
// spring owned by a. Pairs that are already bonded are left untouched.
func (s *Simulation) createBond(order int, a, b *Particle) bool {
	if order < 1 {
		return false
	}
	if a.BondedWith(b.ID) || b.BondedWith(a.ID) {
		s.logger.Debugf("already bonded: %s - %s", a.ID, b.ID)
		return false
	}

	a.setBond(b.ID, order)
	b.setBond(a.ID, order)
	s.springs.issue(a.ID, b.ID, order, s.springConstant(a, b))

	s.logger.Debugf("bond formed: %s - %s order=%d", a.ID, b.ID, order)
	s.emit(BondFormed, a.ID, b.ID, order, 0)
	return true
}

// decrementBond lowers the pair's order by one. At order 1 the entry is
// removed from both halves; otherwise a weaker spring replaces the old one.
func (s *Simulation) decrementBond(a, b *Particle) {
	order, ok := a.bonds[b.ID]
	if !ok {
		return
	}

	owner := a.ID
	if rec, found := s.springs.retire(a.ID, b.ID); found {
		owner = rec.owner
	}

	if order <= 1 {
		a.clearBond(b.ID)
		b.clearBond(a.ID)
		s.logger.Debugf("bond dissolved: %s - %s", a.ID, b.ID)
		s.emit(BondDissolved, a.ID, b.ID, 0, order)
		return
	}

	reduced := order - 1
	a.setBond(b.ID, reduced)
	b.setBond(a.ID, reduced)

	ownerP, partnerP := a, b
	if owner == b.ID {
		ownerP, partnerP = b, a
	}
	s.springs.issue(ownerP.ID, partnerP.ID, reduced, s.springConstant(a, b))

	s.logger.Debugf("bond weakened: %s - %s order=%d", a.ID, b.ID, reduced)
	s.emit(BondWeakened, a.ID, b.ID, reduced, order)
}
