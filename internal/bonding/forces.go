package bonding

import "github.com/go-gl/mathgl/mgl64"

// CoulombForce returns the force on a body at posA from a body at posB:
//
//	(k * qA * qB / |posA-posB|^2) * normalize(posA-posB)
//
// k is a simulation scale constant, not the physical Coulomb constant.
// Coincident positions have no defined direction; ok is false and the force
// is zero.
func CoulombForce(posA, posB mgl64.Vec3, chargeA, chargeB, k float64) (force mgl64.Vec3, ok bool) {
	displacement := posA.Sub(posB)
	distSq := displacement.Dot(displacement)
	if distSq == 0 {
		return mgl64.Vec3{}, false
	}
	return displacement.Normalize().Mul(k * chargeA * chargeB / distSq), true
}

// NetCharge is the particle's charge in elementary charges. Ionization is not
// modelled: every particle carries one electron charge.
func (s *Simulation) NetCharge(id ParticleID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.netCharge(id)
}

func (s *Simulation) netCharge(ParticleID) float64 {
	return s.cfg.ElectronCharge
}

// integrateForces adds the pairwise electrostatic force from every particle in
// each proximity set to the host's force accumulator. Bonded pairs are not
// special-cased.
func (s *Simulation) integrateForces() {
	for _, p := range s.particles.All() {
		if len(p.nearby) == 0 {
			continue
		}
		pos := s.host.Position(p.ID)
		for id := range p.nearby {
			if _, ok := s.particles.Get(id); !ok {
				continue
			}
			f, ok := CoulombForce(pos, s.host.Position(id), s.netCharge(p.ID), s.netCharge(id), s.cfg.CoulombScale)
			if !ok {
				s.logger.Debugf("coincident particles %s and %s, skipping force", p.ID, id)
				continue
			}
			s.host.ApplyForce(p.ID, f)
		}
	}
}
