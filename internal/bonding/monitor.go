package bonding

// ParticleMetrics is the read-only inspection view of one particle at a tick
// boundary. It has no effect on behaviour.
type ParticleMetrics struct {
	ID                      ParticleID `json:"id"`
	AtomicNumber            int        `json:"atomic_number"`
	Electronegativity       float64    `json:"electronegativity"`
	TotalElectrons          int        `json:"total_electrons"`
	NetCharge               float64    `json:"net_charge"`
	BaseValenceElectrons    int        `json:"base_valence_electrons"`
	ValenceElectrons        int        `json:"valence_electrons"`
	SharedElectrons         int        `json:"shared_electrons"`
	ShareableElectrons      int        `json:"shareable_electrons"`
	ShareableHoles          int        `json:"shareable_holes"`
	ValenceOrbitalPositions int        `json:"valence_orbital_positions"`
	BondedCount             int        `json:"bonded_count"`
	NearbyCount             int        `json:"nearby_count"`
	BreakState              string     `json:"break_state"`
}

func (s *Simulation) metricsFor(p *Particle) ParticleMetrics {
	return ParticleMetrics{
		ID:                      p.ID,
		AtomicNumber:            p.AtomicNumber,
		Electronegativity:       p.Electronegativity,
		TotalElectrons:          p.TotalElectrons(),
		NetCharge:               s.netCharge(p.ID),
		BaseValenceElectrons:    p.BaseValenceElectrons(),
		ValenceElectrons:        p.ValenceElectrons(),
		SharedElectrons:         p.SharedElectrons(),
		ShareableElectrons:      p.ShareableElectrons(),
		ShareableHoles:          p.ShareableHoles(),
		ValenceOrbitalPositions: p.ValenceOrbitalPositions(),
		BondedCount:             len(p.bonds),
		NearbyCount:             len(p.nearby),
		BreakState:              p.breakState.String(),
	}
}

// Metrics returns the monitoring view of one particle.
func (s *Simulation) Metrics(id ParticleID) (ParticleMetrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.particles.Get(id)
	if !ok {
		return ParticleMetrics{}, false
	}
	return s.metricsFor(p), true
}

// AllMetrics returns the monitoring view of every particle in registration order.
func (s *Simulation) AllMetrics() []ParticleMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allMetrics()
}

func (s *Simulation) allMetrics() []ParticleMetrics {
	out := make([]ParticleMetrics, 0, s.particles.Len())
	for _, p := range s.particles.All() {
		out = append(out, s.metricsFor(p))
	}
	return out
}
