// Package sandbox is a small point-mass physics host for the bonding core.
// It integrates bodies with semi-implicit Euler, resolves sphere contacts with
// a restitution impulse, drives spring constraints that snap past their break
// force, and reports sensor overlaps. It is a stand-in for a real rigid-body
// engine, good enough to run scenes from the CLI, the server and tests.
package sandbox

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
)

type body struct {
	id     bonding.ParticleID
	pos    mgl64.Vec3
	vel    mgl64.Vec3
	force  mgl64.Vec3
	mass   float64
	radius float64
	sensor float64
}

type spring struct {
	handle     bonding.ConstraintHandle
	spec       bonding.SpringSpec
	restLength float64
}

type pair struct {
	a, b bonding.ParticleID
}

// World holds every body and constraint of the sandbox.
type World struct {
	bodies     map[bonding.ParticleID]*body
	order      []bonding.ParticleID
	springs    map[bonding.ConstraintHandle]*spring
	nextHandle bonding.ConstraintHandle

	contacts map[pair]bool
	inRange  map[pair]bool

	restitution float64
	boundsHalf  float64
	agitation   *Agitation

	elapsed float64
	events  []bonding.HostEvent
}

// Option configures a World.
type Option func(*World)

// WithRestitution sets the coefficient of restitution for contacts (default 0.8).
func WithRestitution(e float64) Option {
	return func(w *World) { w.restitution = e }
}

// WithBounds confines bodies to a cube of the given half extent around the origin.
func WithBounds(half float64) Option {
	return func(w *World) { w.boundsHalf = half }
}

// WithAgitation applies a noise-driven thermal force to every body.
func WithAgitation(a *Agitation) Option {
	return func(w *World) { w.agitation = a }
}

// NewWorld creates an empty world.
func NewWorld(opts ...Option) *World {
	w := &World{
		bodies:      make(map[bonding.ParticleID]*body),
		springs:     make(map[bonding.ConstraintHandle]*spring),
		contacts:    make(map[pair]bool),
		inRange:     make(map[pair]bool),
		restitution: 0.8,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SpawnBody adds a body. Spawning an existing ID replaces its state.
func (w *World) SpawnBody(id bonding.ParticleID, cfg bonding.BodyConfig) {
	if _, exists := w.bodies[id]; !exists {
		w.order = append(w.order, id)
	}
	w.bodies[id] = &body{
		id:     id,
		pos:    cfg.Position,
		vel:    cfg.Velocity,
		mass:   cfg.Mass,
		radius: cfg.Radius,
		sensor: cfg.SensorRadius,
	}
}

func (w *World) Position(id bonding.ParticleID) mgl64.Vec3 {
	if b, ok := w.bodies[id]; ok {
		return b.pos
	}
	return mgl64.Vec3{}
}

func (w *World) Velocity(id bonding.ParticleID) mgl64.Vec3 {
	if b, ok := w.bodies[id]; ok {
		return b.vel
	}
	return mgl64.Vec3{}
}

// ApplyForce adds to the body's accumulator for the next Advance.
func (w *World) ApplyForce(id bonding.ParticleID, force mgl64.Vec3) {
	if b, ok := w.bodies[id]; ok {
		b.force = b.force.Add(force)
	}
}

// CreateSpringConstraint links two bodies. The rest length is the sum of their
// radii, so bonded bodies settle touching.
func (w *World) CreateSpringConstraint(spec bonding.SpringSpec) bonding.ConstraintHandle {
	w.nextHandle++
	rest := 0.0
	if a, ok := w.bodies[spec.Owner]; ok {
		rest += a.radius
	}
	if b, ok := w.bodies[spec.Partner]; ok {
		rest += b.radius
	}
	w.springs[w.nextHandle] = &spring{handle: w.nextHandle, spec: spec, restLength: rest}
	return w.nextHandle
}

func (w *World) DestroyConstraint(h bonding.ConstraintHandle) {
	delete(w.springs, h)
}

func (w *World) ConstraintAlive(h bonding.ConstraintHandle) bool {
	_, ok := w.springs[h]
	return ok
}

// Spring returns the spec of a live constraint.
func (w *World) Spring(h bonding.ConstraintHandle) (bonding.SpringSpec, bool) {
	s, ok := w.springs[h]
	if !ok {
		return bonding.SpringSpec{}, false
	}
	return s.spec, true
}

// SpringCount returns the number of live constraints.
func (w *World) SpringCount() int {
	return len(w.springs)
}

// Elapsed returns simulated seconds since the world was created.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Advance runs one physics step and returns the notifications it produced.
func (w *World) Advance(dt float64) []bonding.HostEvent {
	w.solveSprings()
	if w.agitation != nil {
		for _, id := range w.order {
			b := w.bodies[id]
			b.force = b.force.Add(w.agitation.Force(b.pos, w.elapsed))
		}
	}
	w.integrate(dt)
	w.detectContacts()
	w.detectRange()

	w.elapsed += dt
	events := w.events
	w.events = nil
	return events
}

// solveSprings applies Hooke forces with damping. A spring whose force exceeds
// its break force is removed and its owner notified.
func (w *World) solveSprings() {
	handles := make([]bonding.ConstraintHandle, 0, len(w.springs))
	for h := range w.springs {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	for _, h := range handles {
		s := w.springs[h]
		a, okA := w.bodies[s.spec.Owner]
		b, okB := w.bodies[s.spec.Partner]
		if !okA || !okB {
			continue
		}
		d := b.pos.Add(s.spec.ConnectedAnchor).Sub(a.pos.Add(s.spec.Anchor))
		dist := d.Len()
		if dist == 0 {
			continue
		}
		dir := d.Mul(1 / dist)
		relVel := b.vel.Sub(a.vel).Dot(dir)
		magnitude := s.spec.Stiffness*(dist-s.restLength) + s.spec.Damping*relVel

		if s.spec.BreakForce > 0 && math.Abs(magnitude) > s.spec.BreakForce {
			delete(w.springs, h)
			w.events = append(w.events, bonding.HostEvent{Kind: bonding.EventConstraintBreak, Self: s.spec.Owner})
			continue
		}
		a.force = a.force.Add(dir.Mul(magnitude))
		b.force = b.force.Sub(dir.Mul(magnitude))
	}
}

func (w *World) integrate(dt float64) {
	for _, id := range w.order {
		b := w.bodies[id]
		b.vel = b.vel.Add(b.force.Mul(dt / b.mass))
		b.pos = b.pos.Add(b.vel.Mul(dt))
		b.force = mgl64.Vec3{}

		if w.boundsHalf > 0 {
			for axis := 0; axis < 3; axis++ {
				if b.pos[axis] > w.boundsHalf {
					b.pos[axis] = w.boundsHalf
					b.vel[axis] = -b.vel[axis]
				} else if b.pos[axis] < -w.boundsHalf {
					b.pos[axis] = -w.boundsHalf
					b.vel[axis] = -b.vel[axis]
				}
			}
		}
	}
}

// detectContacts resolves overlapping spheres. Only the first frame of a
// contact produces events, one for each side.
func (w *World) detectContacts() {
	for i := 0; i < len(w.order); i++ {
		for j := i + 1; j < len(w.order); j++ {
			a, b := w.bodies[w.order[i]], w.bodies[w.order[j]]
			key := pair{a.id, b.id}

			d := a.pos.Sub(b.pos)
			dist := d.Len()
			reach := a.radius + b.radius
			if dist >= reach {
				delete(w.contacts, key)
				continue
			}

			normal := mgl64.Vec3{1, 0, 0}
			if dist > 0 {
				normal = d.Mul(1 / dist)
			}

			impulse := mgl64.Vec3{}
			vn := a.vel.Sub(b.vel).Dot(normal)
			if vn < 0 {
				jn := -(1 + w.restitution) * vn / (1/a.mass + 1/b.mass)
				impulse = normal.Mul(jn)
				a.vel = a.vel.Add(impulse.Mul(1 / a.mass))
				b.vel = b.vel.Sub(impulse.Mul(1 / b.mass))
			}

			push := normal.Mul((reach - dist) / 2)
			a.pos = a.pos.Add(push)
			b.pos = b.pos.Sub(push)

			if w.contacts[key] {
				continue
			}
			w.contacts[key] = true
			w.events = append(w.events,
				bonding.HostEvent{Kind: bonding.EventContact, Self: a.id, Other: b.id, Impulse: impulse},
				bonding.HostEvent{Kind: bonding.EventContact, Self: b.id, Other: a.id, Impulse: impulse.Mul(-1)},
			)
		}
	}
}

// detectRange reports pairs entering or leaving sensor range. A pair is in
// range when closer than the larger of the two sensor radii.
func (w *World) detectRange() {
	for i := 0; i < len(w.order); i++ {
		for j := i + 1; j < len(w.order); j++ {
			a, b := w.bodies[w.order[i]], w.bodies[w.order[j]]
			key := pair{a.id, b.id}
			within := a.pos.Sub(b.pos).Len() < max(a.sensor, b.sensor)

			switch {
			case within && !w.inRange[key]:
				w.inRange[key] = true
				w.events = append(w.events, bonding.HostEvent{Kind: bonding.EventRangeEnter, Self: a.id, Other: b.id})
			case !within && w.inRange[key]:
				delete(w.inRange, key)
				w.events = append(w.events, bonding.HostEvent{Kind: bonding.EventRangeExit, Self: a.id, Other: b.id})
			}
		}
	}
}
