package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Agitation is a smooth, time-varying force field that keeps a gas moving.
// Each force component samples its own simplex noise field at the body's
// position and the current time.
type Agitation struct {
	fields    [3]opensimplex.Noise
	amplitude float64
	frequency float64
}

// NewAgitation creates a field seeded with seed. amplitude scales the force,
// frequency scales both space and time.
func NewAgitation(seed int64, amplitude, frequency float64) *Agitation {
	return &Agitation{
		fields: [3]opensimplex.Noise{
			opensimplex.New(seed),
			opensimplex.New(seed + 1),
			opensimplex.New(seed + 2),
		},
		amplitude: amplitude,
		frequency: frequency,
	}
}

// Force samples the field at pos and time t. Components lie in
// [-amplitude, amplitude].
func (a *Agitation) Force(pos mgl64.Vec3, t float64) mgl64.Vec3 {
	if a == nil || a.amplitude == 0 {
		return mgl64.Vec3{}
	}
	x, y, z := pos.X()*a.frequency, pos.Y()*a.frequency, pos.Z()*a.frequency
	phase := t * a.frequency
	return mgl64.Vec3{
		a.fields[0].Eval4(x, y, z, phase),
		a.fields[1].Eval4(x, y, z, phase),
		a.fields[2].Eval4(x, y, z, phase),
	}.Mul(a.amplitude)
}
