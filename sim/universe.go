// Builds the resource and activity universes from scenario
// definitions. All configuration errors surface here, before the run
// starts.

package sim

import "fmt"

// ResourceDef describes one resource pool in a scenario.
type ResourceDef struct {
	Capacity int `yaml:"capacity"`
}

// ActivityDef describes one care activity in a scenario.
type ActivityDef struct {
	Duration  DurationSpec
	Resources []string
}

// BuildResources constructs the pool universe from definitions, keyed
// by pool name.
func BuildResources(sim *Simulator, defs map[string]ResourceDef) (map[string]*Pool, error) {
	pools := make(map[string]*Pool, len(defs))
	for name, def := range defs {
		pl, err := NewPool(sim, name, def.Capacity)
		if err != nil {
			return nil, err
		}
		pools[name] = pl
	}
	return pools, nil
}

// BuildActivities constructs the activity universe, resolving each
// activity's resource names against the pool universe. An unknown pool
// name fails with ErrInvalidConfiguration.
func BuildActivities(defs map[string]ActivityDef, pools map[string]*Pool) (map[string]*CareActivity, error) {
	activities := make(map[string]*CareActivity, len(defs))
	for name, def := range defs {
		required := make([]*Pool, 0, len(def.Resources))
		for _, rname := range def.Resources {
			pl, ok := pools[rname]
			if !ok {
				return nil, fmt.Errorf("%w: activity %q references unknown resource %q", ErrInvalidConfiguration, name, rname)
			}
			required = append(required, pl)
		}
		act, err := NewCareActivity(name, def.Duration, required)
		if err != nil {
			return nil, err
		}
		activities[name] = act
	}
	return activities, nil
}
