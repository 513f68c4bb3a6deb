package sandbox

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/daniacca/bondsim/internal/bonding"
)

// Element is an atom kind the gas scatterer can place.
type Element struct {
	Symbol            string
	AtomicNumber      int
	Electronegativity float64
}

// Pauling electronegativities of the light elements the spring table covers.
var (
	Hydrogen = Element{Symbol: "H", AtomicNumber: 1, Electronegativity: 2.20}
	Carbon   = Element{Symbol: "C", AtomicNumber: 6, Electronegativity: 2.55}
	Nitrogen = Element{Symbol: "N", AtomicNumber: 7, Electronegativity: 3.04}
	Oxygen   = Element{Symbol: "O", AtomicNumber: 8, Electronegativity: 3.44}
)

// GasOptions controls ScatterGas.
type GasOptions struct {
	Count   int
	Seed    int64
	Spacing float64 // lattice spacing; bodies are jittered around the lattice
	Speed   float64 // peak initial speed per axis
	Mix     []Element
}

// DefaultGasMix favours hydrogen the way an organic gas would.
var DefaultGasMix = []Element{Hydrogen, Hydrogen, Hydrogen, Hydrogen, Carbon, Oxygen, Nitrogen}

// ScatterGas builds a scene of Count unbonded atoms on a jittered cubic
// lattice. Element choice, jitter and initial velocity all come from simplex
// noise seeded with Seed, so the same options give the same scene.
func ScatterGas(opts GasOptions) (bonding.SceneConfig, error) {
	if opts.Count <= 0 {
		return bonding.SceneConfig{}, fmt.Errorf("gas count must be positive, got %d", opts.Count)
	}
	if opts.Spacing <= 0 {
		opts.Spacing = 2.5
	}
	if len(opts.Mix) == 0 {
		opts.Mix = DefaultGasMix
	}

	pick := opensimplex.NewNormalized(opts.Seed)
	jitter := opensimplex.New(opts.Seed + 1)
	drift := opensimplex.New(opts.Seed + 2)

	side := int(math.Ceil(math.Cbrt(float64(opts.Count))))
	offset := float64(side-1) * opts.Spacing / 2

	scene := bonding.SceneConfig{
		Name:      fmt.Sprintf("gas-%d-seed-%d", opts.Count, opts.Seed),
		Particles: make([]bonding.ParticleConfig, 0, opts.Count),
	}

	for i := range opts.Count {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		fx, fy, fz := float64(x), float64(y), float64(z)

		idx := int(pick.Eval3(fx*0.7, fy*0.7, fz*0.7) * float64(len(opts.Mix)))
		elem := opts.Mix[min(max(idx, 0), len(opts.Mix)-1)]

		pos := mgl64.Vec3{
			fx*opts.Spacing - offset + 0.3*opts.Spacing*jitter.Eval4(fx, fy, fz, 0),
			fy*opts.Spacing - offset + 0.3*opts.Spacing*jitter.Eval4(fx, fy, fz, 10),
			fz*opts.Spacing - offset + 0.3*opts.Spacing*jitter.Eval4(fx, fy, fz, 20),
		}
		vel := mgl64.Vec3{
			opts.Speed * drift.Eval4(fx, fy, fz, 0),
			opts.Speed * drift.Eval4(fx, fy, fz, 10),
			opts.Speed * drift.Eval4(fx, fy, fz, 20),
		}

		scene.Particles = append(scene.Particles, bonding.ParticleConfig{
			ID:                fmt.Sprintf("%s%d", elem.Symbol, i+1),
			AtomicNumber:      elem.AtomicNumber,
			Electronegativity: elem.Electronegativity,
			Position:          pos,
			Velocity:          vel,
		})
	}

	return scene, nil
}

// Extent returns the half width of the cube a gas of opts occupies, padded by
// one lattice spacing. Useful as the world bounds.
func (opts GasOptions) Extent() float64 {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = 2.5
	}
	side := math.Ceil(math.Cbrt(float64(max(opts.Count, 1))))
	return (side-1)*spacing/2 + spacing
}
