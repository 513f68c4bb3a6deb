package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/daniacca/bondsim/internal/bonding"
	"github.com/daniacca/bondsim/internal/logging"
	"github.com/daniacca/bondsim/internal/sandbox"
)

type demo struct {
	scene func() bonding.SceneConfig
	ticks int
}

var demos = []demo{
	{scene: methaneScene, ticks: 200},
	{scene: waterScene, ticks: 200},
	{scene: ethyleneScene, ticks: 200},
	{scene: formaldehydeScene, ticks: 200},
	{scene: hydrogenCollisionScene, ticks: 60},
	{scene: photolysisScene, ticks: 30},
}

func main() {
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := logging.NewLogger(*logLevel)
	for _, d := range demos {
		if _, err := runDemo(d, logger, os.Stdout); err != nil {
			logger.Fatalf("demo failed: %v", err)
		}
	}
}

// runDemo loads the scene into a fresh sandbox, runs it and prints every
// bond event followed by the final ledger.
func runDemo(d demo, logger bonding.Logger, out io.Writer) (*bonding.Simulation, error) {
	scene := d.scene()
	sim, err := bonding.LoadScene(scene, sandbox.NewWorld(), logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", scene.Name, err)
	}
	sim.SetSimulationID(bonding.SimulationID(scene.Name))

	nm := bonding.NewNotificationManagerWithLogger(logger)
	printer := &eventPrinter{out: out}
	if err := nm.RegisterNotifier(printer); err != nil {
		return nil, err
	}
	sim.SetNotificationManager(nm)
	sim.SetNotificationConfig(bonding.NotificationConfig{Enabled: true, Notifiers: []string{printer.ID()}})

	fmt.Fprintf(out, "== %s (%d particles, %d ticks)\n", scene.Name, len(scene.Particles), d.ticks)
	for range d.ticks {
		sim.Step()
	}
	if err := nm.Close(); err != nil {
		return nil, err
	}

	for _, m := range sim.AllMetrics() {
		fmt.Fprintf(out, "  %-8s Z=%-2d shared=%d shareable=%d holes=%d bonded=%d\n",
			m.ID, m.AtomicNumber, m.SharedElectrons, m.ShareableElectrons, m.ShareableHoles, m.BondedCount)
	}
	return sim, nil
}

// eventPrinter writes bond events as they are delivered.
type eventPrinter struct {
	out io.Writer
}

func (p *eventPrinter) ID() string   { return "printer" }
func (p *eventPrinter) Type() string { return "stdout" }
func (p *eventPrinter) Close() error { return nil }

func (p *eventPrinter) Notify(_ context.Context, e bonding.BondEvent) error {
	_, err := fmt.Fprintf(p.out, "  tick %d: %s %s-%s order %d -> %d\n", e.Tick, e.Kind, e.A, e.B, e.PreviousOrder, e.Order)
	return err
}
