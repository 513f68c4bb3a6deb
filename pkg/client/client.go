// Package client builds bondsim scenes and talks to a bondsim-server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/sandbox"
)

// SceneBuilder provides a fluent API for building scenes: a named set of
// particles, their starting motion and any bonds they begin with.
type SceneBuilder struct {
	name      string
	sim       bonding.SimulationConfig
	particles []*ParticleBuilder
}

// NewScene creates a new scene builder with the given name.
func NewScene(name string) *SceneBuilder {
	return &SceneBuilder{
		name:      name,
		particles: make([]*ParticleBuilder, 0),
	}
}

// TickDuration sets the fixed timestep in seconds.
func (sb *SceneBuilder) TickDuration(dt float64) *SceneBuilder {
	sb.sim.TickDuration = dt
	return sb
}

// Simulation replaces the simulation tuning. Zero fields keep their defaults.
func (sb *SceneBuilder) Simulation(cfg bonding.SimulationConfig) *SceneBuilder {
	sb.sim = cfg
	return sb
}

// Particle adds one or more particles to the scene.
func (sb *SceneBuilder) Particle(pbs ...*ParticleBuilder) *SceneBuilder {
	sb.particles = append(sb.particles, pbs...)
	return sb
}

// Build converts the builder to a SceneConfig that can be used with
// ApplyScene or bonding.LoadScene.
func (sb *SceneBuilder) Build() bonding.SceneConfig {
	particles := make([]bonding.ParticleConfig, 0, len(sb.particles))
	for _, pb := range sb.particles {
		particles = append(particles, pb.Build())
	}
	return bonding.SceneConfig{
		Name:       sb.name,
		Simulation: sb.sim,
		Particles:  particles,
	}
}

// ParticleBuilder provides a fluent API for one particle of a scene.
type ParticleBuilder struct {
	cfg bonding.ParticleConfig
}

// NewParticle creates a particle builder for any atomic number in 1..18.
func NewParticle(id string, atomicNumber int, electronegativity float64) *ParticleBuilder {
	return &ParticleBuilder{cfg: bonding.ParticleConfig{
		ID:                id,
		AtomicNumber:      atomicNumber,
		Electronegativity: electronegativity,
	}}
}

func elementParticle(id string, e sandbox.Element) *ParticleBuilder {
	return NewParticle(id, e.AtomicNumber, e.Electronegativity)
}

// Hydrogen, Carbon, Nitrogen and Oxygen use Pauling electronegativities.
func Hydrogen(id string) *ParticleBuilder { return elementParticle(id, sandbox.Hydrogen) }
func Carbon(id string) *ParticleBuilder   { return elementParticle(id, sandbox.Carbon) }
func Nitrogen(id string) *ParticleBuilder { return elementParticle(id, sandbox.Nitrogen) }
func Oxygen(id string) *ParticleBuilder   { return elementParticle(id, sandbox.Oxygen) }

// At sets the starting position.
func (pb *ParticleBuilder) At(x, y, z float64) *ParticleBuilder {
	pb.cfg.Position = mgl64.Vec3{x, y, z}
	return pb
}

// Velocity sets the starting velocity.
func (pb *ParticleBuilder) Velocity(x, y, z float64) *ParticleBuilder {
	pb.cfg.Velocity = mgl64.Vec3{x, y, z}
	return pb
}

// Mass sets the body mass. Zero keeps the default.
func (pb *ParticleBuilder) Mass(mass float64) *ParticleBuilder {
	pb.cfg.Mass = mass
	return pb
}

// Radius sets the collision radius. Zero keeps the default.
func (pb *ParticleBuilder) Radius(radius float64) *ParticleBuilder {
	pb.cfg.Radius = radius
	return pb
}

// SensorRadius sets the proximity sensor radius. Zero keeps the default.
func (pb *ParticleBuilder) SensorRadius(radius float64) *ParticleBuilder {
	pb.cfg.SensorRadius = radius
	return pb
}

// Bond pre-declares a bond of the given order with partner. Declaring the
// same bond on both particles is allowed as long as the orders agree.
func (pb *ParticleBuilder) Bond(partner string, order int) *ParticleBuilder {
	pb.cfg.Bonds = append(pb.cfg.Bonds, bonding.BondConfig{Partner: partner, Order: order})
	return pb
}

// Build converts the builder to a ParticleConfig.
func (pb *ParticleBuilder) Build() bonding.ParticleConfig {
	cfg := pb.cfg
	cfg.Bonds = append([]bonding.BondConfig(nil), pb.cfg.Bonds...)
	return cfg
}

// do sends a request to the server and decodes a JSON response into out when
// out is non-nil.
func do(ctx context.Context, method, u string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func simURL(baseURL, simID string, elem ...string) (string, error) {
	u, err := url.JoinPath(baseURL, append([]string{"sim", simID}, elem...)...)
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}
	return u, nil
}

// ApplyScene sends the scene to a bondsim server, creating or replacing the
// simulation simID. The baseURL is the server's base URL
// (e.g., "http://localhost:8080").
func ApplyScene(ctx context.Context, baseURL, simID string, scene *SceneBuilder) error {
	u, err := simURL(baseURL, simID, "scene")
	if err != nil {
		return err
	}
	return do(ctx, http.MethodPost, u, scene.Build(), nil)
}

// Tick steps the simulation n times and returns the resulting tick count.
func Tick(ctx context.Context, baseURL, simID string, n int) (int64, error) {
	u, err := simURL(baseURL, simID, "tick")
	if err != nil {
		return 0, err
	}
	u += "?n=" + strconv.Itoa(n)

	var resp struct {
		Tick int64 `json:"tick"`
	}
	if err := do(ctx, http.MethodPost, u, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Tick, nil
}

// Start runs the simulation on the server at the given tick interval.
func Start(ctx context.Context, baseURL, simID string, interval time.Duration) error {
	u, err := simURL(baseURL, simID, "start")
	if err != nil {
		return err
	}
	u += "?interval=" + strconv.FormatInt(max(interval.Milliseconds(), 1), 10)
	return do(ctx, http.MethodPost, u, nil, nil)
}

// Stop stops a running simulation.
func Stop(ctx context.Context, baseURL, simID string) error {
	u, err := simURL(baseURL, simID, "stop")
	if err != nil {
		return err
	}
	return do(ctx, http.MethodPost, u, nil, nil)
}

// Particles fetches the monitoring view of every particle.
func Particles(ctx context.Context, baseURL, simID string) ([]bonding.ParticleMetrics, error) {
	u, err := simURL(baseURL, simID, "particles")
	if err != nil {
		return nil, err
	}
	var metrics []bonding.ParticleMetrics
	if err := do(ctx, http.MethodGet, u, nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

// Snapshot fetches the current ledger snapshot.
func Snapshot(ctx context.Context, baseURL, simID string) (bonding.Snapshot, error) {
	u, err := simURL(baseURL, simID, "snapshot")
	if err != nil {
		return bonding.Snapshot{}, err
	}
	var snap bonding.Snapshot
	if err := do(ctx, http.MethodGet, u, nil, &snap); err != nil {
		return bonding.Snapshot{}, err
	}
	return snap, nil
}

type notifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

// RegisterWebhook asks the server to POST every bond event to target.
func RegisterWebhook(ctx context.Context, baseURL, id, target string, headers map[string]string) error {
	cfg := map[string]any{"url": target}
	if len(headers) > 0 {
		h := make(map[string]any, len(headers))
		for k, v := range headers {
			h[k] = v
		}
		cfg["headers"] = h
	}
	return registerNotifier(ctx, baseURL, notifierRequest{Type: "webhook", ID: id, Config: cfg})
}

// RegisterJournal asks the server to journal every bond event into the SQLite
// file at path, resolved on the server.
func RegisterJournal(ctx context.Context, baseURL, id, path string) error {
	return registerNotifier(ctx, baseURL, notifierRequest{Type: "journal", ID: id, Config: map[string]any{"path": path}})
}

func registerNotifier(ctx context.Context, baseURL string, req notifierRequest) error {
	u, err := url.JoinPath(baseURL, "notifiers")
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	return do(ctx, http.MethodPost, u, req, nil)
}

// UnregisterNotifier removes a notifier from the server.
func UnregisterNotifier(ctx context.Context, baseURL, id string) error {
	u, err := url.JoinPath(baseURL, "notifiers", id)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}
	return do(ctx, http.MethodDelete, u, nil, nil)
}
