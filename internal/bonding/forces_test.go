package bonding

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCoulombForce(t *testing.T) {
	tests := []struct {
		name   string
		posA   mgl64.Vec3
		posB   mgl64.Vec3
		qA, qB float64
		want   mgl64.Vec3
		wantOK bool
	}{
		{
			name:   "like charges repel",
			posA:   mgl64.Vec3{1, 0, 0},
			posB:   mgl64.Vec3{0, 0, 0},
			qA:     -1,
			qB:     -1,
			want:   mgl64.Vec3{0.001, 0, 0},
			wantOK: true,
		},
		{
			name:   "inverse square",
			posA:   mgl64.Vec3{0, 2, 0},
			posB:   mgl64.Vec3{0, 0, 0},
			qA:     -1,
			qB:     -1,
			want:   mgl64.Vec3{0, 0.00025, 0},
			wantOK: true,
		},
		{
			name:   "opposite charges attract",
			posA:   mgl64.Vec3{0, 0, 0},
			posB:   mgl64.Vec3{0, 0, 1},
			qA:     1,
			qB:     -1,
			want:   mgl64.Vec3{0, 0, 0.001},
			wantOK: true,
		},
		{
			name:   "coincident positions",
			posA:   mgl64.Vec3{3, 3, 3},
			posB:   mgl64.Vec3{3, 3, 3},
			qA:     -1,
			qB:     -1,
			want:   mgl64.Vec3{},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoulombForce(tt.posA, tt.posB, tt.qA, tt.qB, DefaultCoulombScale)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !got.ApproxEqualThreshold(tt.want, 1e-12) {
				t.Errorf("force = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimulation_IntegrateForces(t *testing.T) {
	host := newFakeHost()
	host.positions["a"] = mgl64.Vec3{0, 0, 0}
	host.positions["b"] = mgl64.Vec3{2, 0, 0}
	host.positions["c"] = mgl64.Vec3{0, 5, 0}
	sim := newTestSimulation(t, host, hydrogenAt("a"), hydrogenAt("b"), hydrogenAt("c"))

	sim.OnRangeEnter("a", "b")
	sim.Step()

	if got, want := host.forces["a"], (mgl64.Vec3{-0.00025, 0, 0}); !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("force on a = %v, want %v", got, want)
	}
	if got, want := host.forces["b"], (mgl64.Vec3{0.00025, 0, 0}); !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("force on b = %v, want %v", got, want)
	}
	if _, touched := host.forces["c"]; touched {
		t.Error("particle outside every proximity set must receive no force")
	}
}

func TestSimulation_IntegrateForces_CoincidentSkipped(t *testing.T) {
	host := newFakeHost()
	sim := newTestSimulation(t, host, hydrogenAt("a"), hydrogenAt("b"))

	sim.OnRangeEnter("a", "b")
	sim.Step()

	if len(host.forces) != 0 {
		t.Errorf("expected no forces for coincident particles, got %v", host.forces)
	}
}

func TestSimulation_NetChargeConstant(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), carbonAt("c"), hydrogenAt("h"))
	before := sim.NetCharge("c")
	if err := sim.CreateBond(1, "c", "h"); err != nil {
		t.Fatal(err)
	}
	if after := sim.NetCharge("c"); after != before || after != DefaultElectronCharge {
		t.Errorf("NetCharge = %v then %v, want %v", before, after, DefaultElectronCharge)
	}
}
