package sim

import "sort"

// AllOf tracks one conjunctive acquisition: a set of requests issued
// together that resolves exactly once, when the last member is granted.
// It never partially resolves, and the owning process never releases a
// member before the whole set is granted.
type AllOf struct {
	sim       *Simulator
	requests  []*Request
	ungranted int
	resume    func()
	resolved  bool
}

// Requests returns the member requests in the canonical issue order.
func (a *AllOf) Requests() []*Request {
	out := make([]*Request, len(a.requests))
	copy(out, a.requests)
	return out
}

// Resolved reports whether every member request has been granted.
func (a *AllOf) Resolved() bool { return a.resolved }

// acquireAll issues one request per pool on behalf of proc and wires
// the conjunction. Requests are always issued in a single canonical
// order -- sorted by pool name -- regardless of the order the caller
// listed the pools in. With FIFO pools, the fixed global order makes a
// circular wait between two conjunctive acquirers impossible.
func acquireAll(sim *Simulator, proc *Process, pools []*Pool) *AllOf {
	ordered := make([]*Pool, len(pools))
	copy(ordered, pools)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name() < ordered[j].Name() })

	a := &AllOf{sim: sim}
	for _, pl := range ordered {
		req := pl.Acquire(proc)
		a.requests = append(a.requests, req)
		if !req.Granted() {
			a.ungranted++
			req.onGrant = a.memberGranted
		}
	}
	if a.ungranted == 0 {
		a.resolved = true
	}
	return a
}

// memberGranted runs inside the granting pool's Release bookkeeping.
// The last grant schedules the owning process's resumption at the
// current time; the process itself never runs inline here.
func (a *AllOf) memberGranted() {
	a.ungranted--
	if a.ungranted == 0 {
		a.resolved = true
		if a.resume != nil {
			a.sim.scheduleNow(a.resume)
		}
	}
}
