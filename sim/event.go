package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for all simulation events.
// Each event has a Timestamp (in simulation time units) and an Execute
// method that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Execute(*Simulator)
}

// ArrivalEvent represents a patient presenting to the unit at a
// scheduled time. Executing it spawns the patient's care process.
type ArrivalEvent struct {
	time    float64
	Patient *Patient
	Unit    *Unit
}

// Timestamp returns the scheduled time of the ArrivalEvent.
func (e *ArrivalEvent) Timestamp() float64 {
	return e.time
}

// Execute starts the care process for the arriving patient.
func (e *ArrivalEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Arrival: %s at t=%v", e.Patient.Label, e.time)
	e.Unit.startCare(e.Patient)
}

// resumeEvent carries a continuation for a suspended process. Timeout
// expiries and resource grants are both delivered through it, so every
// resumption passes through the event queue in serial order.
type resumeEvent struct {
	time float64
	fn   func()
}

func (e *resumeEvent) Timestamp() float64 {
	return e.time
}

func (e *resumeEvent) Execute(*Simulator) {
	e.fn()
}
