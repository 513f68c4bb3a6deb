package bonding

import "github.com/go-gl/mathgl/mgl64"

// ConstraintHandle identifies a spring constraint owned by the physics host.
type ConstraintHandle uint64

// NoConstraint is the zero handle; hosts never issue it.
const NoConstraint ConstraintHandle = 0

// SpringSpec describes a spring constraint requested from the host.
// Anchors are offsets from each body's centre.
type SpringSpec struct {
	Owner           ParticleID
	Partner         ParticleID
	Anchor          mgl64.Vec3
	ConnectedAnchor mgl64.Vec3
	Stiffness       float64
	Damping         float64
	BreakForce      float64
}

// PhysicsHost is the rigid-body engine the bonding core runs on. The core
// never integrates motion itself; it reads positions, adds forces and asks
// for spring constraints.
type PhysicsHost interface {
	Position(id ParticleID) mgl64.Vec3
	Velocity(id ParticleID) mgl64.Vec3
	ApplyForce(id ParticleID, force mgl64.Vec3)
	CreateSpringConstraint(spec SpringSpec) ConstraintHandle
	// DestroyConstraint must tolerate handles the host already broke.
	DestroyConstraint(h ConstraintHandle)
	ConstraintAlive(h ConstraintHandle) bool
}

// HostEventKind enumerates the notifications a host delivers.
type HostEventKind int

const (
	EventRangeEnter HostEventKind = iota
	EventRangeExit
	EventContact
	EventConstraintBreak
)

func (k HostEventKind) String() string {
	switch k {
	case EventRangeEnter:
		return "range_enter"
	case EventRangeExit:
		return "range_exit"
	case EventContact:
		return "contact"
	case EventConstraintBreak:
		return "constraint_break"
	default:
		return "unknown"
	}
}

// HostEvent is a single notification from the physics host. Other and Impulse
// are unused for constraint breaks, which carry no partner identity.
type HostEvent struct {
	Kind    HostEventKind
	Self    ParticleID
	Other   ParticleID
	Impulse mgl64.Vec3
}

// EventSource is implemented by hosts that can be advanced by the simulation.
// Advance integrates one physics step of dt seconds and returns every
// notification produced during it, in delivery order.
type EventSource interface {
	Advance(dt float64) []HostEvent
}

// BodyConfig is the physical description of a particle handed to a host when
// a scene is loaded.
type BodyConfig struct {
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Mass         float64
	Radius       float64
	SensorRadius float64
}

// BodySpawner is implemented by hosts that can create bodies for scene particles.
type BodySpawner interface {
	SpawnBody(id ParticleID, body BodyConfig)
}
