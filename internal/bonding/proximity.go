package bonding

// OnRangeEnter records that self and other entered each other's sensor range.
func (s *Simulation) OnRangeEnter(self, other ParticleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRangeEnter(self, other)
}

// OnRangeExit records that self and other left each other's sensor range.
func (s *Simulation) OnRangeExit(self, other ParticleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRangeExit(self, other)
}

// onRangeEnter adds each particle to the other's proximity set. Re-entering is
// a no-op; unknown identities are ignored.
func (s *Simulation) onRangeEnter(self, other ParticleID) {
	if self == other {
		return
	}
	if p, ok := s.particles.Get(self); ok {
		if _, known := s.particles.Get(other); known {
			p.nearby[other] = struct{}{}
		}
	}
	if q, ok := s.particles.Get(other); ok {
		if _, known := s.particles.Get(self); known {
			q.nearby[self] = struct{}{}
		}
	}
}

// onRangeExit removes each particle from the other's proximity set. An exit
// without a prior enter is a no-op.
func (s *Simulation) onRangeExit(self, other ParticleID) {
	if p, ok := s.particles.Get(self); ok {
		delete(p.nearby, other)
	}
	if q, ok := s.particles.Get(other); ok {
		delete(q.nearby, self)
	}
}
