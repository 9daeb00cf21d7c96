// Defines the Process type: one simulated, independently-suspendable
// unit of work. Scheduling is single-threaded and cooperative; a
// process yields only at a timeout wait, a single-resource wait, or a
// conjunctive wait, and every suspension is resumed exactly once
// through the event queue.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ProcessState represents the lifecycle state of a process.
type ProcessState string

const (
	ProcessCreated         ProcessState = "created"
	ProcessRunning         ProcessState = "running"
	ProcessWaitingTimeout  ProcessState = "waiting-timeout"
	ProcessWaitingResource ProcessState = "waiting-resource"
	ProcessWaitingAllOf    ProcessState = "waiting-all-of"
	ProcessComplete        ProcessState = "complete"
)

// Step is one segment of a process's work between suspension points.
type Step func(*Process)

// Process runs an ordered sequence of steps. Steps execute
// back-to-back within one continuation until a step suspends; the next
// step then runs when the suspension resolves. There is no preemption
// and no cancellation: once spawned, a process runs to completion.
type Process struct {
	Label string

	sim       *Simulator
	steps     []Step
	next      int
	state     ProcessState
	suspended bool
	held      []*Request
}

// Spawn creates a process and schedules its first step at the current
// clock time.
func (sim *Simulator) Spawn(label string, steps ...Step) *Process {
	p := &Process{Label: label, sim: sim, steps: steps, state: ProcessCreated}
	sim.scheduleNow(p.dispatch)
	return p
}

// State returns the process's current lifecycle state.
func (p *Process) State() ProcessState { return p.state }

// Held returns the resource handles the process currently holds.
func (p *Process) Held() []*Request {
	out := make([]*Request, len(p.held))
	copy(out, p.held)
	return out
}

func (p *Process) String() string {
	return fmt.Sprintf("<Process %s, %s>", p.Label, p.state)
}

// Push appends further steps to the process's work. A step that wants
// to loop pushes itself again.
func (p *Process) Push(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// dispatch runs steps until one suspends or none remain. It is the
// single entry point for both the initial spawn and every resumption.
func (p *Process) dispatch() {
	p.suspended = false
	p.state = ProcessRunning
	for !p.suspended {
		if p.next >= len(p.steps) {
			p.state = ProcessComplete
			logrus.Debugf("%v complete", p)
			return
		}
		step := p.steps[p.next]
		p.next++
		step(p)
	}
}

// Hold suspends the process for delay time units; the next step runs
// when the timeout elapses. Timeouts are never interrupted. A negative
// delay is a scheduling bug and panics with ErrInvalidDuration.
func (p *Process) Hold(delay float64) {
	if err := p.sim.ScheduleAfter(delay, p.dispatch); err != nil {
		panic(fmt.Errorf("process %s: %w", p.Label, err))
	}
	p.suspended = true
	p.state = ProcessWaitingTimeout
}

// Acquire requests one unit from pool. If the request is granted
// synchronously the process keeps running; otherwise it suspends until
// the grant, which resumes it through the event queue. The process
// waits indefinitely -- there is no timeout on resource waits.
func (p *Process) Acquire(pool *Pool) *Request {
	req := pool.Acquire(p)
	if !req.Granted() {
		req.onGrant = func() { p.sim.scheduleNow(p.dispatch) }
		p.suspended = true
		p.state = ProcessWaitingResource
	}
	return req
}

// AcquireAll conjunctively requests one unit from every pool. If all
// grants happen synchronously the conjunction resolves immediately and
// the process keeps running without suspending; otherwise the process
// suspends until the last member grant.
func (p *Process) AcquireAll(pools []*Pool) *AllOf {
	a := acquireAll(p.sim, p, pools)
	if !a.Resolved() {
		a.resume = p.dispatch
		p.suspended = true
		p.state = ProcessWaitingAllOf
	}
	return a
}

// Release returns a held unit to its pool.
func (p *Process) Release(req *Request) error {
	return req.pool.Release(req)
}

// dropHeld removes req from the process's held set after release.
func (p *Process) dropHeld(req *Request) {
	for i, h := range p.held {
		if h == req {
			p.held = append(p.held[:i], p.held[i+1:]...)
			return
		}
	}
}
