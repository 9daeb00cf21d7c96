package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/caresim/caresim/sim"
)

// Define structs for the scenario YAML
type ScenarioConfig struct {
	Resources  map[string]ResourceConfig `yaml:"resources"`
	Activities map[string]ActivityConfig `yaml:"activities"`
	Patients   []PatientConfig           `yaml:"patients"`
}

type ResourceConfig struct {
	Capacity int `yaml:"capacity"`
}

type ActivityConfig struct {
	Duration  DurationConfig `yaml:"duration"`
	Resources []string       `yaml:"resources"`
}

type DurationConfig struct {
	Mean    float64    `yaml:"mean"`
	Stdev   float64    `yaml:"stdev"`
	Min     *sim.Bound `yaml:"min"`
	Max     *sim.Bound `yaml:"max"`
	Integer *bool      `yaml:"integer"` // defaults to true when absent
}

type PatientConfig struct {
	Label   string   `yaml:"label"`
	Arrival float64  `yaml:"arrival"`
	Plan    []string `yaml:"plan"`
	Count   int      `yaml:"count"` // replicate this entry N times (default 1)
}

// Spec converts the YAML duration form into the sampler's spec.
func (d DurationConfig) Spec() sim.DurationSpec {
	integer := true
	if d.Integer != nil {
		integer = *d.Integer
	}
	return sim.DurationSpec{
		Mean:    d.Mean,
		StdDev:  d.Stdev,
		Lower:   d.Min,
		Upper:   d.Max,
		Integer: integer,
	}
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if len(cfg.Resources) == 0 {
		return nil, fmt.Errorf("%w: scenario defines no resources", sim.ErrInvalidConfiguration)
	}
	if len(cfg.Patients) == 0 {
		return nil, fmt.Errorf("%w: scenario defines no patients", sim.ErrInvalidConfiguration)
	}
	return &cfg, nil
}

// Build constructs the unit for one run: resource and activity
// universes, then the admitted patients. All configuration errors
// surface here, before Run.
func (c *ScenarioConfig) Build(s *sim.Simulator) (*sim.Unit, error) {
	pools, err := sim.BuildResources(s, resourceDefs(c.Resources))
	if err != nil {
		return nil, err
	}
	activities, err := sim.BuildActivities(activityDefs(c.Activities), pools)
	if err != nil {
		return nil, err
	}

	unit := sim.NewUnit(s, pools, activities)
	for _, pc := range c.Patients {
		count := pc.Count
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			label := pc.Label
			if count > 1 {
				label = fmt.Sprintf("%s-%d", pc.Label, i)
			}
			pt, err := sim.NewPatientFromPlan(label, pc.Plan, activities)
			if err != nil {
				return nil, err
			}
			if err := unit.Admit(pt, pc.Arrival); err != nil {
				return nil, err
			}
		}
	}
	return unit, nil
}

func resourceDefs(cfgs map[string]ResourceConfig) map[string]sim.ResourceDef {
	defs := make(map[string]sim.ResourceDef, len(cfgs))
	for name, rc := range cfgs {
		defs[name] = sim.ResourceDef{Capacity: rc.Capacity}
	}
	return defs
}

func activityDefs(cfgs map[string]ActivityConfig) map[string]sim.ActivityDef {
	defs := make(map[string]sim.ActivityDef, len(cfgs))
	for name, ac := range cfgs {
		defs[name] = sim.ActivityDef{Duration: ac.Duration.Spec(), Resources: ac.Resources}
	}
	return defs
}
