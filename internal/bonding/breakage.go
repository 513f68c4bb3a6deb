package bonding

// OnConstraintBreak marks self as break-pending. The host may call it from
// inside its own physics step; the ledger is only reconciled on the next tick.
func (s *Simulation) OnConstraintBreak(self ParticleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConstraintBreak(self)
}

func (s *Simulation) onConstraintBreak(id ParticleID) {
	p, ok := s.particles.Get(id)
	if !ok {
		return
	}
	p.breakState = BreakPending
	p.pendingBreaks++
}

// resolveBreakage reconciles one divorced partner for every break-pending
// particle. A particle with several outstanding notifications stays pending
// and resolves the next one on the following tick.
func (s *Simulation) resolveBreakage() {
	for _, p := range s.particles.All() {
		if p.breakState != BreakPending {
			continue
		}

		p.pendingBreaks--
		if p.pendingBreaks <= 0 {
			p.pendingBreaks = 0
			p.breakState = BreakNominal
		}

		partner := s.findDivorcedPartner(p)
		if partner == nil {
			s.logger.Debugf("break notification for %s matched no bond", p.ID)
			continue
		}
		s.logger.Infof("bond broke: %s - %s", p.ID, partner.ID)
		s.decrementBond(p, partner)
	}
}

// findDivorcedPartner returns the partner whose spring the host no longer
// reports alive. Broken springs owned by p are matched first, since only the
// owner is notified when its spring snaps.
func (s *Simulation) findDivorcedPartner(p *Particle) *Particle {
	var fallback *Particle
	for _, id := range p.partners {
		if s.springs.live(p.ID, id) {
			continue
		}
		partner, ok := s.particles.Get(id)
		if !ok {
			continue
		}
		rec, found := s.springs.get(p.ID, id)
		if found && rec.owner == p.ID {
			return partner
		}
		if fallback == nil {
			fallback = partner
		}
	}
	return fallback
}
