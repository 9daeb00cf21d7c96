package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	sim "github.com/caresim/caresim/sim"
	"github.com/caresim/caresim/sim/trace"
)

// runReplications executes the scenario n times with derived seeds,
// each replication on a fresh simulator, and returns the flattened
// journals of every run tagged with the run ID and iteration number.
func runReplications(scenario *ScenarioConfig, base sim.SimulationKey, n int) ([]trace.Record, error) {
	runID := uuid.NewString()
	bar := newProgressBar(n)

	records := make([]trace.Record, 0)
	for i := 0; i < n; i++ {
		s := sim.NewSimulator(sim.ReplicationKey(base, i))
		unit, err := scenario.Build(s)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i, err)
		}
		s.Run()
		unit.Metrics.Print()

		extra := map[string]string{
			"run":       runID,
			"iteration": strconv.Itoa(i),
		}
		records = append(records, trace.Flatten(unit.Patients(), extra)...)

		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return records, nil
}

func writeCSVFile(path string, records []trace.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return trace.WriteCSV(f, records)
}

func writeXLSXFile(path string, records []trace.Record) error {
	return trace.WriteXLSX(path, records)
}
