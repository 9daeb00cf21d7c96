// Package trace flattens per-patient journals into tabular records for
// offline analysis. It consumes the kernel's output; it contains no
// scheduling logic of its own.
package trace

import (
	"sort"

	"github.com/caresim/caresim/sim"
)

// Record is one flattened journal entry, tagged with the patient's
// index and label plus any caller-supplied extra fields (replication
// number, run ID, scenario name).
type Record struct {
	Patient   int
	Label     string
	Entry     string
	Timestamp float64
	Extra     map[string]string
}

// Flatten merges all patients' journals into a single ordered record
// set. Records keep journal order within a patient and patient order
// across patients; extra is copied onto every record.
func Flatten(patients []*sim.Patient, extra map[string]string) []Record {
	records := make([]Record, 0)
	for idx, pt := range patients {
		for _, e := range pt.Journal() {
			rec := Record{
				Patient:   idx,
				Label:     pt.Label,
				Entry:     e.Entry,
				Timestamp: e.Timestamp,
			}
			if len(extra) > 0 {
				rec.Extra = make(map[string]string, len(extra))
				for k, v := range extra {
					rec.Extra[k] = v
				}
			}
			records = append(records, rec)
		}
	}
	return records
}

// extraKeys returns the sorted union of extra-field names across
// records, so tabular output has stable columns.
func extraKeys(records []Record) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for k := range rec.Extra {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
