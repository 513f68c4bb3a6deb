package bonding

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSimulation_StepDrainsHostEventsNextTick(t *testing.T) {
	host := eventHost{newFakeHost()}
	host.queue = [][]HostEvent{
		{
			{Kind: EventRangeEnter, Self: "c", Other: "h"},
			{Kind: EventContact, Self: "c", Other: "h", Impulse: mgl64.Vec3{0.5, 0, 0}},
			{Kind: EventContact, Self: "h", Other: "c", Impulse: mgl64.Vec3{-0.5, 0, 0}},
		},
	}
	sim := newTestSimulation(t, host, carbonAt("c"), hydrogenAt("h"))

	sim.Step()
	if host.advanced != 1 {
		t.Fatalf("host advanced %d times, want 1", host.advanced)
	}
	if sim.BondOrder("c", "h") != 0 {
		t.Fatal("events from the host step must wait for the next tick")
	}

	sim.Step()
	if sim.Tick() != 2 {
		t.Errorf("Tick = %d, want 2", sim.Tick())
	}
	if got := sim.BondOrder("c", "h"); got != 1 {
		t.Fatalf("order = %d, want 1", got)
	}
	if !particle(t, sim, "c").IsNearby("h") {
		t.Error("expected range enter applied")
	}
	spec, _ := host.springBetween("c", "h")
	if spec.Owner != "c" {
		t.Errorf("owner = %s, want the first contact's self", spec.Owner)
	}
	if host.next != 1 {
		t.Errorf("issued %d springs, want 1", host.next)
	}
}

func TestSimulation_StepWithoutEventSource(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), hydrogenAt("h"))
	for range 5 {
		sim.Step()
	}
	if sim.Tick() != 5 {
		t.Errorf("Tick = %d, want 5", sim.Tick())
	}
}

func TestSimulation_RunStop(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), hydrogenAt("h"))

	sim.Run(time.Millisecond)
	sim.Run(time.Millisecond)
	if !sim.IsRunning() {
		t.Fatal("expected running")
	}

	waitFor(t, func() bool { return sim.Tick() >= 3 })

	sim.Stop()
	waitFor(t, func() bool { return !sim.IsRunning() })
	sim.Stop()

	stopped := sim.Tick()
	time.Sleep(10 * time.Millisecond)
	if sim.Tick() != stopped {
		t.Errorf("ticks advanced after Stop: %d -> %d", stopped, sim.Tick())
	}

	sim.Run(time.Millisecond)
	waitFor(t, func() bool { return sim.Tick() > stopped })
	sim.Stop()
	waitFor(t, func() bool { return !sim.IsRunning() })
}

func TestSimulation_RunRightAfterStop(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), hydrogenAt("h"))

	sim.Run(time.Millisecond)
	waitFor(t, func() bool { return sim.Tick() >= 1 })

	sim.Stop()
	if sim.IsRunning() {
		t.Fatal("expected stopped as soon as Stop returns")
	}
	sim.Run(time.Millisecond)

	time.Sleep(10 * time.Millisecond)
	if !sim.IsRunning() {
		t.Fatal("restarted simulation reported stopped")
	}
	resumed := sim.Tick()
	waitFor(t, func() bool { return sim.Tick() > resumed })

	sim.Stop()
	stopped := sim.Tick()
	time.Sleep(10 * time.Millisecond)
	if sim.Tick() != stopped {
		t.Errorf("ticks advanced after Stop: %d -> %d", stopped, sim.Tick())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSimulation_Config(t *testing.T) {
	sim := NewSimulation(newFakeHost(), SimulationConfig{TickDuration: 0.01})
	cfg := sim.Config()
	if cfg.TickDuration != 0.01 {
		t.Errorf("TickDuration = %v, want 0.01", cfg.TickDuration)
	}
	if cfg.DefaultSpringConstant != DefaultSpringConstant || cfg.SpringDamping != DefaultSpringDamping {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.TieBreakElectronegativity != DefaultTieBreakElectronegativity {
		t.Errorf("TieBreakElectronegativity = %v", cfg.TieBreakElectronegativity)
	}
}

func TestSimulation_Metrics(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), carbonAt("c"), hydrogenAt("h"), hydrogenAt("x"))
	if err := sim.CreateBond(1, "c", "h"); err != nil {
		t.Fatal(err)
	}
	sim.OnRangeEnter("c", "x")

	m, ok := sim.Metrics("c")
	if !ok {
		t.Fatal("expected metrics for c")
	}
	want := ParticleMetrics{
		ID:                      "c",
		AtomicNumber:            6,
		Electronegativity:       2.55,
		TotalElectrons:          7,
		NetCharge:               DefaultElectronCharge,
		BaseValenceElectrons:    4,
		ValenceElectrons:        5,
		SharedElectrons:         1,
		ShareableElectrons:      3,
		ShareableHoles:          3,
		ValenceOrbitalPositions: 8,
		BondedCount:             1,
		NearbyCount:             1,
		BreakState:              "nominal",
	}
	if m != want {
		t.Errorf("Metrics(c) =\n%+v\nwant\n%+v", m, want)
	}

	if _, ok := sim.Metrics("ghost"); ok {
		t.Error("expected no metrics for unknown particle")
	}

	all := sim.AllMetrics()
	if len(all) != 3 || all[0].ID != "c" || all[2].ID != "x" {
		t.Errorf("AllMetrics order = %v", all)
	}

	ids := sim.ParticleIDs()
	if len(ids) != 3 || ids[1] != "h" {
		t.Errorf("ParticleIDs = %v", ids)
	}
}

func TestSimulation_AddParticleDuplicate(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), hydrogenAt("h"))
	p, _ := NewParticle("h", 1, 2.2)
	if err := sim.AddParticle(p); err == nil {
		t.Error("expected error for duplicate particle")
	}
}

func TestSimulation_SetLoggerNil(t *testing.T) {
	sim := newTestSimulation(t, newFakeHost(), hydrogenAt("a"), hydrogenAt("b"))
	sim.SetLogger(nil)
	sim.OnRangeEnter("a", "b")
	sim.Step()
}
