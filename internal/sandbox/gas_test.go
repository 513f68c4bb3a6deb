package sandbox

import (
	"math"
	"testing"

	"github.com/daniacca/bondsim/internal/bonding"
)

func TestScatterGas(t *testing.T) {
	tests := []struct {
		name     string
		opts     GasOptions
		wantErr  bool
		validate func(t *testing.T, opts GasOptions, scene bonding.SceneConfig)
	}{
		{
			name:    "zero count",
			opts:    GasOptions{Count: 0},
			wantErr: true,
		},
		{
			name: "default mix",
			opts: GasOptions{Count: 27, Seed: 7, Spacing: 2, Speed: 1},
			validate: func(t *testing.T, opts GasOptions, scene bonding.SceneConfig) {
				if scene.Name != "gas-27-seed-7" {
					t.Errorf("Name = %q", scene.Name)
				}
				if len(scene.Particles) != 27 {
					t.Fatalf("particles = %d, want 27", len(scene.Particles))
				}
				allowed := map[int]bool{1: true, 6: true, 7: true, 8: true}
				extent := opts.Extent()
				for _, p := range scene.Particles {
					if !allowed[p.AtomicNumber] {
						t.Errorf("%s has atomic number %d", p.ID, p.AtomicNumber)
					}
					for axis := range 3 {
						if math.Abs(p.Position[axis]) > extent {
							t.Errorf("%s at %v outside extent %v", p.ID, p.Position, extent)
						}
						if math.Abs(p.Velocity[axis]) > opts.Speed {
							t.Errorf("%s velocity %v exceeds speed", p.ID, p.Velocity)
						}
					}
				}
				if err := bonding.ValidateSceneConfig(scene); err != nil {
					t.Errorf("scene invalid: %v", err)
				}
			},
		},
		{
			name: "single element mix",
			opts: GasOptions{Count: 5, Seed: 1, Mix: []Element{Oxygen}},
			validate: func(t *testing.T, opts GasOptions, scene bonding.SceneConfig) {
				for i, p := range scene.Particles {
					if p.AtomicNumber != 8 || p.Electronegativity != 3.44 {
						t.Errorf("particle %d = %+v, want oxygen", i, p)
					}
				}
				if scene.Particles[0].ID != "O1" || scene.Particles[4].ID != "O5" {
					t.Errorf("ids = %s..%s", scene.Particles[0].ID, scene.Particles[4].ID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, err := ScatterGas(tt.opts)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, tt.opts, scene)
		})
	}
}

func TestScatterGas_Deterministic(t *testing.T) {
	opts := GasOptions{Count: 20, Seed: 99, Speed: 2}
	a, _ := ScatterGas(opts)
	b, _ := ScatterGas(opts)
	for i := range a.Particles {
		if a.Particles[i].ID != b.Particles[i].ID || a.Particles[i].Position != b.Particles[i].Position {
			t.Fatalf("particle %d differs between runs", i)
		}
	}

	opts.Seed = 100
	c, _ := ScatterGas(opts)
	same := true
	for i := range a.Particles {
		if a.Particles[i].Position != c.Particles[i].Position {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced the same gas")
	}
}

func TestGasOptions_Extent(t *testing.T) {
	tests := []struct {
		opts GasOptions
		want float64
	}{
		{GasOptions{Count: 27, Spacing: 2}, 4},
		{GasOptions{Count: 1, Spacing: 2}, 2},
		{GasOptions{Count: 8}, 3.75},
		{GasOptions{Count: 0, Spacing: 1}, 1},
	}
	for _, tt := range tests {
		if got := tt.opts.Extent(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Extent(%+v) = %v, want %v", tt.opts, got, tt.want)
		}
	}
}
