package bonding

import "github.com/go-gl/mathgl/mgl64"

// Tuning defaults. The thresholds and the spring table are empirical and only
// meaningful for atomic numbers 1..18.
const (
	DefaultTickDuration              = 0.02
	DefaultCoulombScale              = 0.001
	DefaultElectronCharge            = -1.0
	DefaultSpringDamping             = 0.5
	DefaultTieBreakElectronegativity = 2.3
	DefaultSpringConstant            = 250.0

	DefaultMass         = 1.0
	DefaultRadius       = 0.5
	DefaultSensorRadius = 3.0
)

// SimulationConfig holds the tunable constants of the bonding core.
// Zero fields fall back to the defaults above.
type SimulationConfig struct {
	TickDuration              float64 `json:"tick_duration,omitempty"`
	CoulombScale              float64 `json:"coulomb_scale,omitempty"`
	ElectronCharge            float64 `json:"electron_charge,omitempty"`
	SpringDamping             float64 `json:"spring_damping,omitempty"`
	TieBreakElectronegativity float64 `json:"tie_break_electronegativity,omitempty"`
	DefaultSpringConstant     float64 `json:"default_spring_constant,omitempty"`
}

// DefaultSimulationConfig returns the configuration used when none is given.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		TickDuration:              DefaultTickDuration,
		CoulombScale:              DefaultCoulombScale,
		ElectronCharge:            DefaultElectronCharge,
		SpringDamping:             DefaultSpringDamping,
		TieBreakElectronegativity: DefaultTieBreakElectronegativity,
		DefaultSpringConstant:     DefaultSpringConstant,
	}
}

// withDefaults fills unset fields.
func (c SimulationConfig) withDefaults() SimulationConfig {
	d := DefaultSimulationConfig()
	if c.TickDuration <= 0 {
		c.TickDuration = d.TickDuration
	}
	if c.CoulombScale == 0 {
		c.CoulombScale = d.CoulombScale
	}
	if c.ElectronCharge == 0 {
		c.ElectronCharge = d.ElectronCharge
	}
	if c.SpringDamping <= 0 {
		c.SpringDamping = d.SpringDamping
	}
	if c.TieBreakElectronegativity <= 0 {
		c.TieBreakElectronegativity = d.TieBreakElectronegativity
	}
	if c.DefaultSpringConstant <= 0 {
		c.DefaultSpringConstant = d.DefaultSpringConstant
	}
	return c
}

// BondConfig pre-declares a bond when authoring a starting molecule.
type BondConfig struct {
	Partner string `json:"partner"`
	Order   int    `json:"order"`
}

// ParticleConfig describes one particle of a scene.
type ParticleConfig struct {
	ID                string       `json:"id,omitempty"`
	AtomicNumber      int          `json:"atomic_number"`
	Electronegativity float64      `json:"electronegativity"`
	Position          mgl64.Vec3   `json:"position"`
	Velocity          mgl64.Vec3   `json:"velocity,omitzero"`
	Mass              float64      `json:"mass,omitempty"`
	Radius            float64      `json:"radius,omitempty"`
	SensorRadius      float64      `json:"sensor_radius,omitempty"`
	Bonds             []BondConfig `json:"bonds,omitempty"`
}

// SceneConfig is the JSON form of a starting arrangement of particles.
type SceneConfig struct {
	Name       string           `json:"name"`
	Simulation SimulationConfig `json:"simulation,omitzero"`
	Particles  []ParticleConfig `json:"particles"`
}

// NotificationConfig selects the notifiers a simulation reports bond events to.
type NotificationConfig struct {
	Enabled   bool     `json:"enabled"`
	Notifiers []string `json:"notifiers"`
}

// body converts the physical part of a particle config, applying defaults.
func (pc ParticleConfig) body() BodyConfig {
	b := BodyConfig{
		Position:     pc.Position,
		Velocity:     pc.Velocity,
		Mass:         pc.Mass,
		Radius:       pc.Radius,
		SensorRadius: pc.SensorRadius,
	}
	if b.Mass <= 0 {
		b.Mass = DefaultMass
	}
	if b.Radius <= 0 {
		b.Radius = DefaultRadius
	}
	if b.SensorRadius <= 0 {
		b.SensorRadius = DefaultSensorRadius
	}
	return b
}
