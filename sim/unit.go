// The Unit ties the kernel together: it owns the resource and activity
// universes, admits patients, and drives each patient's care process.
// One Unit models, for example, an outpatient surgery center, a GI
// suite, or an emergency department.

package sim

import "fmt"

// Unit is a simulated care unit.
type Unit struct {
	sim        *Simulator
	resources  map[string]*Pool
	activities map[string]*CareActivity
	patients   []*Patient
	sampler    *Sampler

	Metrics *Metrics
}

// NewUnit creates a Unit over the given universes. The duration
// sampler draws from the simulator's partitioned RNG.
func NewUnit(sim *Simulator, resources map[string]*Pool, activities map[string]*CareActivity) *Unit {
	return &Unit{
		sim:        sim,
		resources:  resources,
		activities: activities,
		sampler:    NewSampler(sim.RNG().ForSubsystem(SubsystemDurations)),
		Metrics:    NewMetrics(),
	}
}

// Simulator returns the simulation context the unit runs in.
func (u *Unit) Simulator() *Simulator { return u.sim }

// Resources returns the unit's pool universe.
func (u *Unit) Resources() map[string]*Pool { return u.resources }

// Activities returns the unit's activity universe.
func (u *Unit) Activities() map[string]*CareActivity { return u.activities }

// Patients returns every patient admitted so far, in admission order.
func (u *Unit) Patients() []*Patient {
	out := make([]*Patient, len(u.patients))
	copy(out, u.patients)
	return out
}

// PatientCount returns the number of admitted patients.
func (u *Unit) PatientCount() int { return len(u.patients) }

// Admit schedules a patient's arrival. Arrival at the current clock
// time is valid; a time in the past fails with ErrInvalidDuration.
func (u *Unit) Admit(pt *Patient, at float64) error {
	if err := u.sim.Schedule(&ArrivalEvent{time: at, Patient: pt, Unit: u}); err != nil {
		return fmt.Errorf("admit %s: %w", pt.Label, err)
	}
	u.patients = append(u.patients, pt)
	u.Metrics.PatientsAdmitted++
	return nil
}

// startCare spawns the patient's care process. Called by ArrivalEvent.
func (u *Unit) startCare(pt *Patient) {
	pt.StatusUpdate(fmt.Sprintf("admitted, route: %s", pt.Route()), u.sim.Clock)
	u.sim.Spawn(pt.Label, u.careStep(pt))
}

// careStep is the head of the care loop: pick the first unmet need,
// journal the queue transition, and conjunctively acquire everything
// the activity requires. The occupy and finish steps are pushed behind
// it; the finish step pushes careStep again until no unmet need
// remains.
func (u *Unit) careStep(pt *Patient) Step {
	return func(p *Process) {
		need := pt.NextUnmetNeed()
		if need == nil {
			pt.Transition("complete", u.sim.Clock)
			u.Metrics.PatientsCompleted++
			u.Metrics.CompletionTimes = append(u.Metrics.CompletionTimes, u.sim.Clock)
			return
		}

		queuedAt := u.sim.Clock
		pt.StatusUpdate(fmt.Sprintf("has %d unmet need(s): %s", pt.UnmetNeedCount(), pt.UnmetNeedLabels()), queuedAt)
		pt.Transition(need.Label()+":queue", queuedAt)

		all := p.AcquireAll(need.Activity().Resources())

		// The occupy step runs once every required pool is granted:
		// the timeout begins only then, never after a partial grant.
		var startedAt float64
		occupy := func(p *Process) {
			startedAt = u.sim.Clock
			u.Metrics.QueueWait[need.Label()] += startedAt - queuedAt
			pt.Transition(need.Label()+":start", startedAt)
			p.Hold(u.sampler.Sample(need.Activity().Duration()))
		}

		// The finish step runs when the occupancy timeout elapses:
		// mark the need met, journal the end transition, release every
		// held request, and loop to the next unmet need. Release order
		// is irrelevant; releasing before the timeout completes would
		// be a bug.
		finish := func(p *Process) {
			now := u.sim.Clock
			need.Meet(now)
			pt.StatusUpdate(fmt.Sprintf("need met %v", need), now)
			pt.Transition(need.Label()+":end", now)
			u.Metrics.Occupancy[need.Label()] += now - startedAt

			for _, req := range all.Requests() {
				if err := p.Release(req); err != nil {
					// A failed release here means the kernel's
					// bookkeeping is broken; nothing to recover.
					panic(err)
				}
			}
			pt.StatusUpdate(fmt.Sprintf("resources released for %s", need.Label()), now)

			p.Push(u.careStep(pt))
		}

		p.Push(occupy, finish)
	}
}
