// Defines the workflow entities: CareActivity, Need, and Patient.
// Entities are constructed before the run (or at a patient's scheduled
// arrival), mutated only by their owning process's continuations, and
// read by reporting collaborators after the run ends.

package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// CareActivity is a reusable definition of one service step: how long
// it occupies the patient and which resource pools it needs
// simultaneously. Immutable after construction.
type CareActivity struct {
	label     string
	duration  DurationSpec
	resources []*Pool
}

// NewCareActivity validates and constructs a CareActivity. A nil pool
// entry or a contradictory duration spec fails with
// ErrInvalidConfiguration before any simulation starts.
func NewCareActivity(label string, duration DurationSpec, resources []*Pool) (*CareActivity, error) {
	if err := duration.Validate(); err != nil {
		return nil, fmt.Errorf("activity %q: %w", label, err)
	}
	for i, pl := range resources {
		if pl == nil {
			return nil, fmt.Errorf("%w: activity %q resource %d is not a resource pool", ErrInvalidConfiguration, label, i)
		}
	}
	pools := make([]*Pool, len(resources))
	copy(pools, resources)
	return &CareActivity{label: label, duration: duration, resources: pools}, nil
}

// Label returns the activity name.
func (a *CareActivity) Label() string { return a.label }

// Duration returns the activity's occupancy-time spec.
func (a *CareActivity) Duration() DurationSpec { return a.duration }

// Resources returns the pools the activity requires simultaneously.
func (a *CareActivity) Resources() []*Pool {
	out := make([]*Pool, len(a.resources))
	copy(out, a.resources)
	return out
}

// Need is one unmet-or-met requirement a patient has for a care
// activity. The met timestamp is set once and never rewound.
type Need struct {
	activity *CareActivity
	met      bool
	metAt    float64
}

// NewNeed creates an unmet Need for activity.
func NewNeed(activity *CareActivity) *Need {
	return &Need{activity: activity}
}

// Activity returns the care activity this need points at.
func (n *Need) Activity() *CareActivity { return n.activity }

// Label is a shortcut to the associated activity's label.
func (n *Need) Label() string { return n.activity.label }

// Met reports whether the need has been satisfied.
func (n *Need) Met() bool { return n.met }

// MetAt returns the time the need was met; meaningful only when Met.
func (n *Need) MetAt() float64 { return n.metAt }

// Meet marks the need met at ts. The first call wins; later calls are
// no-ops so the timestamp never moves.
func (n *Need) Meet(ts float64) {
	if n.met {
		return
	}
	n.met = true
	n.metAt = ts
}

func (n *Need) String() string {
	if n.met {
		return fmt.Sprintf("<Need: %s, met at %v>", n.Label(), n.metAt)
	}
	return fmt.Sprintf("<Need: %s, unmet>", n.Label())
}

// JournalEntry is one record in a patient's history.
type JournalEntry struct {
	Timestamp float64
	Entry     string
}

// Patient carries an ordered care plan (its needs) and an append-only
// journal of timestamped transitions. The journal is the sole
// externally observable history of a patient and is written only by
// the patient's own process.
type Patient struct {
	Label  string
	Status string

	needs   []*Need
	journal []JournalEntry
}

// NewPatient builds a patient from pre-made Need instances.
func NewPatient(label string, needs []*Need) (*Patient, error) {
	for i, n := range needs {
		if n == nil || n.activity == nil {
			return nil, fmt.Errorf("%w: patient %q need %d is not a Need", ErrInvalidConfiguration, label, i)
		}
	}
	plan := make([]*Need, len(needs))
	copy(plan, needs)
	return &Patient{Label: label, needs: plan}, nil
}

// NewPatientFromPlan builds a patient from an ordered list of activity
// names resolved against the activity universe. An unknown name fails
// with ErrInvalidConfiguration.
func NewPatientFromPlan(label string, plan []string, activities map[string]*CareActivity) (*Patient, error) {
	needs := make([]*Need, 0, len(plan))
	for _, name := range plan {
		act, ok := activities[name]
		if !ok {
			return nil, fmt.Errorf("%w: patient %q references unknown activity %q", ErrInvalidConfiguration, label, name)
		}
		needs = append(needs, NewNeed(act))
	}
	return &Patient{Label: label, needs: needs}, nil
}

// Needs returns the patient's care plan in order.
func (pt *Patient) Needs() []*Need {
	out := make([]*Need, len(pt.needs))
	copy(out, pt.needs)
	return out
}

// NextUnmetNeed returns the first unmet need in plan order, or nil when
// every need is met. Plan order defines a strict sequential pipeline.
func (pt *Patient) NextUnmetNeed() *Need {
	for _, n := range pt.needs {
		if !n.met {
			return n
		}
	}
	return nil
}

// UnmetNeedCount returns how many needs remain unmet.
func (pt *Patient) UnmetNeedCount() int {
	count := 0
	for _, n := range pt.needs {
		if !n.met {
			count++
		}
	}
	return count
}

// NeedsMet reports whether the whole care plan is satisfied.
func (pt *Patient) NeedsMet() bool { return pt.UnmetNeedCount() == 0 }

// Route kicks out a human-readable activity flow for this patient,
// e.g. "preop --> procedure --> recovery".
func (pt *Patient) Route() string {
	labels := make([]string, len(pt.needs))
	for i, n := range pt.needs {
		labels[i] = n.Label()
	}
	return strings.Join(labels, " --> ")
}

// UnmetNeedLabels lists the labels of the remaining unmet needs.
func (pt *Patient) UnmetNeedLabels() string {
	labels := make([]string, 0, len(pt.needs))
	for _, n := range pt.needs {
		if !n.met {
			labels = append(labels, n.Label())
		}
	}
	return strings.Join(labels, ", ")
}

func (pt *Patient) String() string {
	return fmt.Sprintf("<Patient %s>", pt.Label)
}

// StatusUpdate sets the patient's status and logs it with the
// simulation timestamp.
func (pt *Patient) StatusUpdate(status string, ts float64) {
	pt.Status = status
	logrus.Infof("%v;;%v;;%s", ts, pt, status)
}

// JournalEntryAt appends a timestamped entry to the patient's journal.
// This may look like a duplicate of the status log, but keeping the
// entries on the Patient makes post-run inspection convenient.
func (pt *Patient) JournalEntryAt(entry string, ts float64) {
	pt.journal = append(pt.journal, JournalEntry{Timestamp: ts, Entry: entry})
}

// Transition records a state transition: status update plus journal.
func (pt *Patient) Transition(entry string, ts float64) {
	pt.StatusUpdate(entry, ts)
	pt.JournalEntryAt(entry, ts)
}

// Journal returns the patient's history in append order.
func (pt *Patient) Journal() []JournalEntry {
	out := make([]JournalEntry, len(pt.journal))
	copy(out, pt.journal)
	return out
}
