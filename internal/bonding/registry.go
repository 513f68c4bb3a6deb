package bonding

import "fmt"

// Registry is the directory of particles taking part in a simulation.
// Iteration order is insertion order so ticks are deterministic.
type Registry struct {
	particles map[ParticleID]*Particle
	order     []ParticleID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		particles: make(map[ParticleID]*Particle),
	}
}

// Add registers a particle. Returns an error if the ID is already taken.
func (r *Registry) Add(p *Particle) error {
	if p == nil {
		return fmt.Errorf("particle cannot be nil")
	}
	if _, exists := r.particles[p.ID]; exists {
		return fmt.Errorf("particle with id %s already exists", p.ID)
	}
	r.particles[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

// Get retrieves a particle by ID.
func (r *Registry) Get(id ParticleID) (*Particle, bool) {
	p, ok := r.particles[id]
	return p, ok
}

// All returns every registered particle in insertion order.
func (r *Registry) All() []*Particle {
	out := make([]*Particle, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.particles[id])
	}
	return out
}

// Len returns the number of registered particles.
func (r *Registry) Len() int {
	return len(r.order)
}
