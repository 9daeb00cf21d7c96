// sim/simulator.go
package sim

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// scheduledEvent pairs an Event with its insertion sequence number.
// The sequence number exists only to break timestamp ties: events
// scheduled for the same instant dispatch in the order they were
// scheduled.
type scheduledEvent struct {
	ev  Event
	seq uint64
}

// EventQueue implements heap.Interface and orders events by
// (timestamp, insertion sequence).
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []scheduledEvent

func (eq EventQueue) Len() int { return len(eq) }

func (eq EventQueue) Less(i, j int) bool {
	if eq[i].ev.Timestamp() != eq[j].ev.Timestamp() {
		return eq[i].ev.Timestamp() < eq[j].ev.Timestamp()
	}
	return eq[i].seq < eq[j].seq
}

func (eq EventQueue) Swap(i, j int) { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(scheduledEvent))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, the event
// queue, and the partitioned random source. One Simulator is one run;
// the clock resets only by constructing a new Simulator.
type Simulator struct {
	Clock   float64
	Horizon float64
	// EventQueue has all pending events, like patient arrivals and
	// process resumptions
	EventQueue EventQueue
	rng        *PartitionedRNG
	nextSeq    uint64
}

// NewSimulator creates a Simulator with clock at zero and no horizon
// cutoff. The key seeds every random stream the run consumes.
func NewSimulator(key SimulationKey) *Simulator {
	return &Simulator{
		Clock:      0,
		Horizon:    math.Inf(1),
		EventQueue: make(EventQueue, 0),
		rng:        NewPartitionedRNG(key),
	}
}

// RNG returns the run's partitioned random source.
func (sim *Simulator) RNG() *PartitionedRNG {
	return sim.rng
}

// Schedule pushes an event into the simulator's EventQueue. It fails
// with ErrInvalidDuration when the event's timestamp precedes the
// current clock; the caller decides, the kernel never silently clamps.
func (sim *Simulator) Schedule(ev Event) error {
	if ev.Timestamp() < sim.Clock {
		return fmt.Errorf("%w: schedule time %v precedes clock %v", ErrInvalidDuration, ev.Timestamp(), sim.Clock)
	}
	heap.Push(&sim.EventQueue, scheduledEvent{ev: ev, seq: sim.nextSeq})
	sim.nextSeq++
	return nil
}

// ScheduleAt schedules a continuation at an absolute time.
func (sim *Simulator) ScheduleAt(t float64, fn func()) error {
	return sim.Schedule(&resumeEvent{time: t, fn: fn})
}

// ScheduleAfter schedules a continuation after a relative delay.
func (sim *Simulator) ScheduleAfter(delay float64, fn func()) error {
	if delay < 0 {
		return fmt.Errorf("%w: negative delay %v", ErrInvalidDuration, delay)
	}
	return sim.ScheduleAt(sim.Clock+delay, fn)
}

// scheduleNow enqueues a continuation at the current clock time.
// Used internally for resumptions, which by construction cannot be
// in the past.
func (sim *Simulator) scheduleNow(fn func()) {
	if err := sim.ScheduleAt(sim.Clock, fn); err != nil {
		panic(err)
	}
}

// Run dispatches events until the queue is empty, advancing the clock
// to each event's timestamp. Dispatch is strictly serial: no two
// continuations ever run concurrently, and two runs fed identical
// schedule calls dispatch in identical order.
func (sim *Simulator) Run() {
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		item := heap.Pop(&sim.EventQueue).(scheduledEvent)
		// advance the clock
		sim.Clock = item.ev.Timestamp()
		if sim.Clock > sim.Horizon {
			break
		}
		logrus.Debugf("[t=%v] Executing %T", sim.Clock, item.ev)
		// process the event
		item.ev.Execute(sim)
	}
	logrus.Infof("[t=%v] Simulation ended", sim.Clock)
}
