package bonding

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid scene: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "scene validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateSceneConfig checks a scene before it is loaded. Every issue found is
// reported in a single *ValidationError.
func ValidateSceneConfig(cfg SceneConfig) error {
	err := &ValidationError{}

	if cfg.Name == "" {
		err.Add("scene name is required")
	}

	validateSimulationConfig(cfg.Simulation, err)

	ids := make(map[string]bool)
	for _, pc := range cfg.Particles {
		if pc.ID == "" {
			continue
		}
		if ids[pc.ID] {
			err.Add("duplicate particle id: " + pc.ID)
		}
		ids[pc.ID] = true
	}

	declared := make(map[[2]string]int)
	for i, pc := range cfg.Particles {
		prefix := fmt.Sprintf("particle at index %d", i)
		if pc.ID != "" {
			prefix = "particle '" + pc.ID + "'"
		}

		if pc.AtomicNumber < MinAtomicNumber || pc.AtomicNumber > MaxAtomicNumber {
			err.Add(fmt.Sprintf("%s: atomic number %d out of range %d..%d", prefix, pc.AtomicNumber, MinAtomicNumber, MaxAtomicNumber))
		}
		if math.IsNaN(pc.Electronegativity) || pc.Electronegativity < 0 {
			err.Add(prefix + ": electronegativity must be a non-negative number")
		}
		if pc.Mass < 0 {
			err.Add(prefix + ": mass cannot be negative")
		}
		if pc.Radius < 0 {
			err.Add(prefix + ": radius cannot be negative")
		}
		if pc.SensorRadius < 0 {
			err.Add(prefix + ": sensor radius cannot be negative")
		}

		if len(pc.Bonds) > 0 && pc.ID == "" {
			err.Add(prefix + ": particles with bonds need an id")
			continue
		}
		for _, bc := range pc.Bonds {
			if bc.Partner == "" {
				err.Add(prefix + ": bond partner is required")
				continue
			}
			if bc.Partner == pc.ID {
				err.Add(prefix + ": cannot bond with itself")
				continue
			}
			if !ids[bc.Partner] {
				err.Add(prefix + ": bond partner '" + bc.Partner + "' not found")
				continue
			}
			if bc.Order < 1 {
				err.Add(fmt.Sprintf("%s: bond with '%s' has order %d, must be at least 1", prefix, bc.Partner, bc.Order))
				continue
			}
			key := [2]string{pc.ID, bc.Partner}
			if pc.ID > bc.Partner {
				key = [2]string{bc.Partner, pc.ID}
			}
			if prev, ok := declared[key]; ok && prev != bc.Order {
				err.Add(fmt.Sprintf("conflicting bond orders between '%s' and '%s': %d vs %d", key[0], key[1], prev, bc.Order))
				continue
			}
			declared[key] = bc.Order
		}
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

func validateSimulationConfig(cfg SimulationConfig, err *ValidationError) {
	if cfg.TickDuration < 0 {
		err.Add("simulation: tick_duration cannot be negative")
	}
	if cfg.SpringDamping < 0 {
		err.Add("simulation: spring_damping cannot be negative")
	}
	if cfg.TieBreakElectronegativity < 0 {
		err.Add("simulation: tie_break_electronegativity cannot be negative")
	}
	if cfg.DefaultSpringConstant < 0 {
		err.Add("simulation: default_spring_constant cannot be negative")
	}
}
