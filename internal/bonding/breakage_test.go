package bonding

import "testing"

func TestBreakage(t *testing.T) {
	tests := []struct {
		name     string
		atoms    []atomSpec
		bonds    func(t *testing.T, sim *Simulation)
		breakOf  func(t *testing.T, host *fakeHost, sim *Simulation)
		steps    int
		validate func(t *testing.T, host *fakeHost, sim *Simulation)
	}{
		{
			name:  "order two weakens to one",
			atoms: []atomSpec{carbonAt("c"), oxygenAt("o")},
			bonds: func(t *testing.T, sim *Simulation) {
				if err := sim.CreateBond(2, "c", "o"); err != nil {
					t.Fatal(err)
				}
			},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				owner := host.snap(t, "c", "o")
				sim.OnConstraintBreak(owner)
			},
			steps: 1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if got := sim.BondOrder("c", "o"); got != 1 {
					t.Fatalf("order = %d, want 1", got)
				}
				spec, ok := host.springBetween("c", "o")
				if !ok {
					t.Fatal("expected a new constraint")
				}
				if spec.Stiffness != 442.02 {
					t.Errorf("stiffness = %v, want 442.02", spec.Stiffness)
				}
			},
		},
		{
			name:  "order one dissolves",
			atoms: []atomSpec{oxygenAt("o"), hydrogenAt("h")},
			bonds: func(t *testing.T, sim *Simulation) {
				if err := sim.CreateBond(1, "o", "h"); err != nil {
					t.Fatal(err)
				}
			},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				sim.Enqueue(HostEvent{Kind: EventConstraintBreak, Self: host.snap(t, "o", "h")})
			},
			steps: 1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if particle(t, sim, "o").BondedWith("h") || particle(t, sim, "h").BondedWith("o") {
					t.Error("expected entry removed on both sides")
				}
				if len(host.springs) != 0 {
					t.Errorf("live springs = %d, want 0", len(host.springs))
				}
			},
		},
		{
			name:  "spurious notification",
			atoms: []atomSpec{oxygenAt("o"), hydrogenAt("h")},
			bonds: func(t *testing.T, sim *Simulation) {
				if err := sim.CreateBond(1, "o", "h"); err != nil {
					t.Fatal(err)
				}
			},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				sim.OnConstraintBreak("o")
			},
			steps: 1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if got := sim.BondOrder("o", "h"); got != 1 {
					t.Errorf("order = %d, want 1", got)
				}
			},
		},
		{
			name:  "only the divorced partner is touched",
			atoms: []atomSpec{oxygenAt("o"), hydrogenAt("h1"), hydrogenAt("h2")},
			bonds: func(t *testing.T, sim *Simulation) {
				for _, h := range []ParticleID{"h1", "h2"} {
					if err := sim.CreateBond(1, "o", h); err != nil {
						t.Fatal(err)
					}
				}
			},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				sim.OnConstraintBreak(host.snap(t, "o", "h2"))
			},
			steps: 1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if got := sim.BondOrder("o", "h1"); got != 1 {
					t.Errorf("o-h1 order = %d, want 1", got)
				}
				if got := sim.BondOrder("o", "h2"); got != 0 {
					t.Errorf("o-h2 order = %d, want 0", got)
				}
			},
		},
		{
			name:  "each owner resolves its own spring",
			atoms: []atomSpec{carbonAt("c"), hydrogenAt("h1"), hydrogenAt("h2")},
			bonds: func(t *testing.T, sim *Simulation) {
				if err := sim.CreateBond(1, "h1", "c"); err != nil {
					t.Fatal(err)
				}
				if err := sim.CreateBond(1, "c", "h2"); err != nil {
					t.Fatal(err)
				}
			},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if owner := host.snap(t, "h1", "c"); owner != "h1" {
					t.Fatalf("h1-c owner = %s, want h1", owner)
				}
				if owner := host.snap(t, "c", "h2"); owner != "c" {
					t.Fatalf("c-h2 owner = %s, want c", owner)
				}
				sim.OnConstraintBreak("h1")
				sim.OnConstraintBreak("c")
			},
			steps: 1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {
				if bonds := particle(t, sim, "c").Bonds(); len(bonds) != 0 {
					t.Errorf("c bonds = %v, want none", bonds)
				}
				if len(host.springs) != 0 {
					t.Errorf("live springs = %d, want 0", len(host.springs))
				}
			},
		},
		{
			name:  "unknown particle ignored",
			atoms: []atomSpec{hydrogenAt("h")},
			bonds: func(t *testing.T, sim *Simulation) {},
			breakOf: func(t *testing.T, host *fakeHost, sim *Simulation) {
				sim.OnConstraintBreak("ghost")
			},
			steps:    1,
			validate: func(t *testing.T, host *fakeHost, sim *Simulation) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost()
			sim := newTestSimulation(t, host, tt.atoms...)
			tt.bonds(t, sim)
			tt.breakOf(t, host, sim)
			for range tt.steps {
				sim.Step()
			}
			tt.validate(t, host, sim)
			for _, p := range sim.particles.All() {
				if p.BreakState() != BreakNominal {
					t.Errorf("%s left in %s", p.ID, p.BreakState())
				}
			}
			assertLedgerInvariants(t, sim)
		})
	}
}

func TestBreakage_PendingUntilNextTick(t *testing.T) {
	host := newFakeHost()
	sim := newTestSimulation(t, host, oxygenAt("o"), hydrogenAt("h"))
	if err := sim.CreateBond(1, "o", "h"); err != nil {
		t.Fatal(err)
	}

	sim.OnConstraintBreak(host.snap(t, "o", "h"))

	o := particle(t, sim, "o")
	if o.BreakState() != BreakPending {
		t.Fatalf("state = %s, want break_pending", o.BreakState())
	}
	if !o.BondedWith("h") {
		t.Fatal("ledger must not change inside the host callback")
	}
	if m, _ := sim.Metrics("o"); m.BreakState != "break_pending" {
		t.Errorf("metrics break state = %s", m.BreakState)
	}

	sim.Step()
	if o.BondedWith("h") {
		t.Error("expected bond resolved on the next tick")
	}
}

func TestBreakage_OnePartnerPerTick(t *testing.T) {
	host := newFakeHost()
	sim := newTestSimulation(t, host, carbonAt("c"), hydrogenAt("h1"), hydrogenAt("h2"))
	for _, h := range []ParticleID{"h1", "h2"} {
		if err := sim.CreateBond(1, "c", h); err != nil {
			t.Fatal(err)
		}
	}

	sim.OnConstraintBreak(host.snap(t, "c", "h1"))
	sim.OnConstraintBreak(host.snap(t, "c", "h2"))

	sim.Step()
	c := particle(t, sim, "c")
	if len(c.Bonds()) != 1 {
		t.Fatalf("after one tick bonds = %v, want one left", c.Bonds())
	}
	if c.BondedWith("h1") {
		t.Error("expected the earliest partner resolved first")
	}
	if c.BreakState() != BreakPending {
		t.Errorf("state = %s, want break_pending", c.BreakState())
	}

	sim.Step()
	if len(c.Bonds()) != 0 {
		t.Errorf("after two ticks bonds = %v, want none", c.Bonds())
	}
	if c.BreakState() != BreakNominal {
		t.Errorf("state = %s, want nominal", c.BreakState())
	}
	assertLedgerInvariants(t, sim)
}
