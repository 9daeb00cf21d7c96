package sim

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Metrics aggregates per-run outcomes: admissions, completions, and
// per-activity waiting and occupancy totals. Updated only from the
// unit's care continuations, so no synchronization is needed.
type Metrics struct {
	PatientsAdmitted  int
	PatientsCompleted int
	CompletionTimes   []float64
	// QueueWait accumulates time between queueing for an activity and
	// the conjunctive grant, per activity label.
	QueueWait map[string]float64
	// Occupancy accumulates time spent occupying an activity's
	// resources, per activity label.
	Occupancy map[string]float64
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		QueueWait: make(map[string]float64),
		Occupancy: make(map[string]float64),
	}
}

// Makespan returns the latest completion time, or zero when no patient
// completed.
func (m *Metrics) Makespan() float64 {
	max := 0.0
	for _, t := range m.CompletionTimes {
		if t > max {
			max = t
		}
	}
	return max
}

// Print logs a run summary.
func (m *Metrics) Print() {
	logrus.Infof("patients admitted: %d, completed: %d, makespan: %v",
		m.PatientsAdmitted, m.PatientsCompleted, m.Makespan())

	labels := make([]string, 0, len(m.QueueWait))
	for label := range m.QueueWait {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		logrus.Infof("activity %s: total queue wait %v, total occupancy %v",
			label, m.QueueWait[label], m.Occupancy[label])
	}
}
