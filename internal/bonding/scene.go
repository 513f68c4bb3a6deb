package bonding

import "fmt"

// LoadScene validates cfg and builds a simulation on host. Bodies are spawned
// on hosts implementing BodySpawner; pre-declared bonds are committed once
// every particle exists, and a bond declared on both sides is created once.
func LoadScene(cfg SceneConfig, host PhysicsHost, logger Logger) (*Simulation, error) {
	if err := ValidateSceneConfig(cfg); err != nil {
		return nil, err
	}

	sim := NewSimulation(host, cfg.Simulation)
	sim.SetLogger(logger)

	spawner, canSpawn := host.(BodySpawner)
	byConfigID := make(map[string]*Particle, len(cfg.Particles))

	for i, pc := range cfg.Particles {
		p, err := NewParticle(ParticleID(pc.ID), pc.AtomicNumber, pc.Electronegativity)
		if err != nil {
			return nil, fmt.Errorf("particle at index %d: %w", i, err)
		}
		if canSpawn {
			spawner.SpawnBody(p.ID, pc.body())
		}
		if err := sim.particles.Add(p); err != nil {
			return nil, err
		}
		if pc.ID != "" {
			byConfigID[pc.ID] = p
		}
	}

	for _, pc := range cfg.Particles {
		for _, bc := range pc.Bonds {
			a, b := byConfigID[pc.ID], byConfigID[bc.Partner]
			if a.BondedWith(b.ID) {
				continue
			}
			sim.createBond(bc.Order, a, b)
		}
	}

	sim.logger.Infof("scene loaded: name=%s particles=%d", cfg.Name, sim.particles.Len())
	return sim, nil
}
