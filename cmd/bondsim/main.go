package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/bonding/notifiers"
	"github.com/daniacca/bondsim/internal/logging"
	"github.com/daniacca/bondsim/internal/sandbox"
)

type options struct {
	sceneFile string
	gas       int
	seed      int64
	speed     float64
	agitation float64
	ticks     int
	simID     string
	outFile   string
	journalDB string
	logLevel  string
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	fs.StringVar(&opts.sceneFile, "scene", "", "path to a scene JSON file")
	fs.IntVar(&opts.gas, "gas", 0, "scatter a random gas of this many atoms instead of loading a scene")
	fs.Int64Var(&opts.seed, "seed", 1, "noise seed for the gas and agitation")
	fs.Float64Var(&opts.speed, "speed", 2, "peak initial speed of gas atoms")
	fs.Float64Var(&opts.agitation, "agitation", 0, "amplitude of the thermal agitation force; 0 disables it")
	fs.IntVar(&opts.ticks, "ticks", 500, "number of ticks to run")
	fs.StringVar(&opts.simID, "sim-id", "", "simulation ID (random if empty)")
	fs.StringVar(&opts.outFile, "out", "", "write the final ledger snapshot to this file")
	fs.StringVar(&opts.journalDB, "journal", "", "append bond events to this SQLite file")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if (opts.sceneFile == "") == (opts.gas <= 0) {
		return options{}, fmt.Errorf("exactly one of -scene or -gas is required")
	}
	if opts.ticks < 0 {
		return options{}, fmt.Errorf("-ticks cannot be negative")
	}
	return opts, nil
}

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	logger := logging.NewLogger(opts.logLevel)
	if err := run(opts, logger, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options, logger *logging.Logger, out io.Writer) error {
	scene, bounds, err := buildScene(opts)
	if err != nil {
		return err
	}

	worldOpts := []sandbox.Option{}
	if bounds > 0 {
		worldOpts = append(worldOpts, sandbox.WithBounds(bounds))
	}
	if opts.agitation > 0 {
		worldOpts = append(worldOpts, sandbox.WithAgitation(sandbox.NewAgitation(opts.seed, opts.agitation, 0.5)))
	}
	world := sandbox.NewWorld(worldOpts...)

	sim, err := bonding.LoadScene(scene, world, logger)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}
	simID := bonding.SimulationID(opts.simID)
	if simID == "" {
		simID = bonding.NewSimulationID()
	}
	sim.SetSimulationID(simID)

	counter := newEventCounter()
	nm := bonding.NewNotificationManagerWithLogger(logger)
	if err := nm.RegisterNotifier(counter); err != nil {
		return err
	}
	ids := []string{counter.ID()}
	if opts.journalDB != "" {
		journal, err := notifiers.OpenJournal("journal", opts.journalDB)
		if err != nil {
			return err
		}
		if err := nm.RegisterNotifier(journal); err != nil {
			journal.Close()
			return err
		}
		ids = append(ids, journal.ID())
	}
	sim.SetNotificationManager(nm)
	sim.SetNotificationConfig(bonding.NotificationConfig{Enabled: true, Notifiers: ids})

	start := time.Now()
	for range opts.ticks {
		sim.Step()
	}
	wall := time.Since(start)

	// Close drains queued events so the counts below are final.
	if err := nm.Close(); err != nil {
		logger.Warnf("closing notifiers: %v", err)
	}

	snap := sim.Snapshot()
	if err := bonding.ValidateSnapshot(snap); err != nil {
		return fmt.Errorf("final ledger is inconsistent: %w", err)
	}
	if opts.outFile != "" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if err := os.WriteFile(opts.outFile, data, 0o644); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
	}

	printSummary(out, scene.Name, opts.ticks, sim.Config().TickDuration, wall, snap, counter.Counts())
	return nil
}

func buildScene(opts options) (bonding.SceneConfig, float64, error) {
	if opts.gas > 0 {
		gas := sandbox.GasOptions{Count: opts.gas, Seed: opts.seed, Speed: opts.speed}
		scene, err := sandbox.ScatterGas(gas)
		return scene, gas.Extent(), err
	}

	data, err := os.ReadFile(opts.sceneFile)
	if err != nil {
		return bonding.SceneConfig{}, 0, fmt.Errorf("reading scene file: %w", err)
	}
	var scene bonding.SceneConfig
	if err := json.Unmarshal(data, &scene); err != nil {
		return bonding.SceneConfig{}, 0, fmt.Errorf("parsing scene JSON: %w", err)
	}
	return scene, 0, nil
}

func printSummary(w io.Writer, name string, ticks int, dt float64, wall time.Duration, snap bonding.Snapshot, events map[bonding.BondEventKind]int64) {
	fmt.Fprintf(w, "Simulation finished (scene=%s, ticks=%s, simulated=%ss, wall=%s)\n",
		name, humanize.Comma(int64(ticks)), humanize.Ftoa(float64(ticks)*dt), wall.Round(time.Millisecond))
	fmt.Fprintf(w, "Particles: %s\n", humanize.Comma(int64(len(snap.Particles))))

	byOrder := make(map[int]int64)
	for _, b := range snap.Bonds {
		if b.From < b.To {
			byOrder[b.Order]++
		}
	}
	orders := make([]int, 0, len(byOrder))
	for order := range byOrder {
		orders = append(orders, order)
	}
	sort.Ints(orders)

	fmt.Fprintf(w, "Bonds: %s (live constraints: %s)\n", humanize.Comma(int64(len(snap.Bonds)/2)), humanize.Comma(int64(snap.LiveConstraints)))
	for _, order := range orders {
		fmt.Fprintf(w, "  order %d: %s\n", order, humanize.Comma(byOrder[order]))
	}

	fmt.Fprintln(w, "Bond events:")
	for _, kind := range []bonding.BondEventKind{bonding.BondFormed, bonding.BondWeakened, bonding.BondDissolved} {
		fmt.Fprintf(w, "  %s: %s\n", kind, humanize.Comma(events[kind]))
	}
}

// eventCounter tallies bond events by kind.
type eventCounter struct {
	mu     sync.Mutex
	counts map[bonding.BondEventKind]int64
}

func newEventCounter() *eventCounter {
	return &eventCounter{counts: make(map[bonding.BondEventKind]int64)}
}

func (c *eventCounter) ID() string   { return "counter" }
func (c *eventCounter) Type() string { return "counter" }
func (c *eventCounter) Close() error { return nil }

func (c *eventCounter) Notify(_ context.Context, event bonding.BondEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[event.Kind]++
	return nil
}

func (c *eventCounter) Counts() map[bonding.BondEventKind]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[bonding.BondEventKind]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
