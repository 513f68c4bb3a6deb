package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
)

func TestSceneBuilder(t *testing.T) {
	scene := NewScene("water").
		TickDuration(0.01).
		Particle(
			Oxygen("o").Bond("h1", 1).Bond("h2", 1),
			Hydrogen("h1").At(1, 0, 0).Velocity(0, 1, 0),
			Hydrogen("h2").At(-0.25, 0.97, 0).Mass(2).Radius(0.4).SensorRadius(5),
		)

	cfg := scene.Build()

	if cfg.Name != "water" {
		t.Errorf("Expected name 'water', got '%s'", cfg.Name)
	}
	if cfg.Simulation.TickDuration != 0.01 {
		t.Errorf("Expected tick duration 0.01, got %f", cfg.Simulation.TickDuration)
	}
	if len(cfg.Particles) != 3 {
		t.Fatalf("Expected 3 particles, got %d", len(cfg.Particles))
	}

	o := cfg.Particles[0]
	if o.AtomicNumber != 8 || o.Electronegativity != 3.44 || len(o.Bonds) != 2 {
		t.Errorf("Unexpected oxygen config: %+v", o)
	}
	h1 := cfg.Particles[1]
	if h1.Position != (mgl64.Vec3{1, 0, 0}) || h1.Velocity != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Unexpected h1 motion: %+v", h1)
	}
	h2 := cfg.Particles[2]
	if h2.Mass != 2 || h2.Radius != 0.4 || h2.SensorRadius != 5 {
		t.Errorf("Unexpected h2 body: %+v", h2)
	}

	if err := bonding.ValidateSceneConfig(cfg); err != nil {
		t.Errorf("Built scene should validate: %v", err)
	}
}

func TestSceneBuilder_Simulation(t *testing.T) {
	cfg := NewScene("tuned").
		Simulation(bonding.SimulationConfig{CoulombScale: 0.002, TieBreakElectronegativity: 2.5}).
		Particle(Carbon("c"), Nitrogen("n").At(3, 0, 0)).
		Build()

	if cfg.Simulation.CoulombScale != 0.002 || cfg.Simulation.TieBreakElectronegativity != 2.5 {
		t.Errorf("Unexpected simulation config: %+v", cfg.Simulation)
	}
	if cfg.Particles[0].AtomicNumber != 6 || cfg.Particles[1].AtomicNumber != 7 {
		t.Errorf("Unexpected atomic numbers: %d %d", cfg.Particles[0].AtomicNumber, cfg.Particles[1].AtomicNumber)
	}
}

func TestParticleBuilder_BuildCopiesBonds(t *testing.T) {
	pb := NewParticle("s", 16, 2.58).Bond("h1", 1)
	first := pb.Build()
	pb.Bond("h2", 1)

	if len(first.Bonds) != 1 {
		t.Errorf("Earlier Build result changed: %+v", first.Bonds)
	}
	if len(pb.Build().Bonds) != 2 {
		t.Errorf("Expected 2 bonds after second Bond call")
	}
}

type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (c *callRecorder) add(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// take returns the recorded calls and resets the recorder.
func (c *callRecorder) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	calls := c.calls
	c.calls = nil
	return calls
}

// fakeServer records requests and answers like bondsim-server.
func fakeServer(t *testing.T) (*httptest.Server, *callRecorder) {
	t.Helper()
	calls := &callRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.add(r.Method + " " + r.URL.RequestURI())
		body, _ := io.ReadAll(r.Body)

		switch {
		case r.URL.Path == "/sim/alpha/scene":
			var cfg bonding.SceneConfig
			if err := json.Unmarshal(body, &cfg); err != nil || cfg.Name == "" {
				http.Error(w, "invalid scene json", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte("scene loaded"))
		case r.URL.Path == "/sim/alpha/tick":
			_ = json.NewEncoder(w).Encode(map[string]int64{"tick": 5})
		case r.URL.Path == "/sim/alpha/start", r.URL.Path == "/sim/alpha/stop":
			_, _ = w.Write([]byte("ok"))
		case r.URL.Path == "/sim/alpha/particles":
			_ = json.NewEncoder(w).Encode([]bonding.ParticleMetrics{{ID: "c", AtomicNumber: 6}})
		case r.URL.Path == "/sim/alpha/snapshot":
			_ = json.NewEncoder(w).Encode(bonding.Snapshot{SimulationID: "alpha", Tick: 5})
		case r.URL.Path == "/notifiers" || strings.HasPrefix(r.URL.Path, "/notifiers/"):
			_, _ = w.Write([]byte("ok"))
		default:
			http.Error(w, "simulation not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestHTTPHelpers(t *testing.T) {
	server, calls := fakeServer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		call     func() error
		wantCall string
	}{
		{
			name:     "apply scene",
			call:     func() error { return ApplyScene(ctx, server.URL, "alpha", NewScene("s").Particle(Hydrogen("h"))) },
			wantCall: "POST /sim/alpha/scene",
		},
		{
			name: "tick",
			call: func() error {
				tick, err := Tick(ctx, server.URL, "alpha", 5)
				if err == nil && tick != 5 {
					t.Errorf("Expected tick 5, got %d", tick)
				}
				return err
			},
			wantCall: "POST /sim/alpha/tick?n=5",
		},
		{
			name:     "start",
			call:     func() error { return Start(ctx, server.URL, "alpha", 20*time.Millisecond) },
			wantCall: "POST /sim/alpha/start?interval=20",
		},
		{
			name:     "stop",
			call:     func() error { return Stop(ctx, server.URL, "alpha") },
			wantCall: "POST /sim/alpha/stop",
		},
		{
			name: "particles",
			call: func() error {
				metrics, err := Particles(ctx, server.URL, "alpha")
				if err == nil && (len(metrics) != 1 || metrics[0].ID != "c") {
					t.Errorf("Unexpected metrics: %+v", metrics)
				}
				return err
			},
			wantCall: "GET /sim/alpha/particles",
		},
		{
			name: "snapshot",
			call: func() error {
				snap, err := Snapshot(ctx, server.URL, "alpha")
				if err == nil && (snap.SimulationID != "alpha" || snap.Tick != 5) {
					t.Errorf("Unexpected snapshot: %+v", snap)
				}
				return err
			},
			wantCall: "GET /sim/alpha/snapshot",
		},
		{
			name: "register webhook",
			call: func() error {
				return RegisterWebhook(ctx, server.URL, "hook", "http://example.com/hook", map[string]string{"X-Token": "t"})
			},
			wantCall: "POST /notifiers",
		},
		{
			name:     "register journal",
			call:     func() error { return RegisterJournal(ctx, server.URL, "audit", "audit.db") },
			wantCall: "POST /notifiers",
		},
		{
			name:     "unregister",
			call:     func() error { return UnregisterNotifier(ctx, server.URL, "hook") },
			wantCall: "DELETE /notifiers/hook",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls.take()
			if err := tt.call(); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got := calls.take(); len(got) != 1 || got[0] != tt.wantCall {
				t.Errorf("Expected call %q, got %v", tt.wantCall, got)
			}
		})
	}
}

func TestHTTPHelpers_Errors(t *testing.T) {
	server, _ := fakeServer(t)
	ctx := context.Background()

	if err := ApplyScene(ctx, server.URL, "alpha", NewScene("")); err == nil {
		t.Error("Expected error for rejected scene")
	} else if !strings.Contains(err.Error(), "400") {
		t.Errorf("Expected status in error, got %v", err)
	}

	if _, err := Tick(ctx, server.URL, "missing", 1); err == nil {
		t.Error("Expected error for unknown simulation")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := Particles(cancelled, server.URL, "alpha"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
