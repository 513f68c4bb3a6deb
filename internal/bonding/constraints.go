package bonding

import "github.com/go-gl/mathgl/mgl64"

// bondConstraint is the physical spring backing one bonded pair.
type bondConstraint struct {
	handle ConstraintHandle
	owner  ParticleID
	order  int
}

// constraintManager owns the spring constraints of every bonded pair. Both
// particles of a pair see the same record; the host only knows the owner side.
type constraintManager struct {
	host    PhysicsHost
	damping float64
	byPair  map[pairKey]bondConstraint
}

func newConstraintManager(host PhysicsHost, damping float64) *constraintManager {
	return &constraintManager{
		host:    host,
		damping: damping,
		byPair:  make(map[pairKey]bondConstraint),
	}
}

// issue replaces any spring between owner and partner with one sized for
// order. Stiffness and break force are both order * springConstant.
func (cm *constraintManager) issue(owner, partner ParticleID, order int, springConstant float64) bondConstraint {
	key := makePairKey(owner, partner)
	if prev, ok := cm.byPair[key]; ok {
		cm.host.DestroyConstraint(prev.handle)
	}
	strength := float64(order) * springConstant
	h := cm.host.CreateSpringConstraint(SpringSpec{
		Owner:           owner,
		Partner:         partner,
		Anchor:          mgl64.Vec3{},
		ConnectedAnchor: mgl64.Vec3{},
		Stiffness:       strength,
		Damping:         cm.damping,
		BreakForce:      strength,
	})
	rec := bondConstraint{handle: h, owner: owner, order: order}
	cm.byPair[key] = rec
	return rec
}

// retire destroys the spring between a and b, if any, and forgets it.
func (cm *constraintManager) retire(a, b ParticleID) (bondConstraint, bool) {
	key := makePairKey(a, b)
	rec, ok := cm.byPair[key]
	if !ok {
		return bondConstraint{}, false
	}
	cm.host.DestroyConstraint(rec.handle)
	delete(cm.byPair, key)
	return rec, true
}

// live reports whether a and b are still held together by a spring the host
// has not broken.
func (cm *constraintManager) live(a, b ParticleID) bool {
	rec, ok := cm.byPair[makePairKey(a, b)]
	if !ok {
		return false
	}
	return cm.host.ConstraintAlive(rec.handle)
}

func (cm *constraintManager) get(a, b ParticleID) (bondConstraint, bool) {
	rec, ok := cm.byPair[makePairKey(a, b)]
	return rec, ok
}

// liveCount returns the number of springs the host still reports alive.
func (cm *constraintManager) liveCount() int {
	n := 0
	for _, rec := range cm.byPair {
		if cm.host.ConstraintAlive(rec.handle) {
			n++
		}
	}
	return n
}
