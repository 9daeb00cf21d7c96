// Implements the capacity-limited resource pool with FIFO-fair grants.
// Waiting is never an error: a request that cannot be granted
// immediately simply joins the pool's pending queue.

package sim

import (
	"fmt"
)

// Pool models a set of interchangeable resource units (pre-op slots,
// procedure rooms, recovery bays). Capacity is fixed at construction;
// the in-use count never exceeds it. Among requests issued against the
// same pool, grants occur strictly in arrival order.
type Pool struct {
	sim      *Simulator
	name     string
	capacity int
	inUse    int
	pending  []*Request // FIFO queue of ungranted requests
}

// NewPool creates a Pool with the given capacity. Fails with
// ErrInvalidConfiguration for a non-positive capacity.
func NewPool(sim *Simulator, name string, capacity int) (*Pool, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: pool %q capacity must be positive, got %d", ErrInvalidConfiguration, name, capacity)
	}
	return &Pool{sim: sim, name: name, capacity: capacity}, nil
}

// Name returns the pool's identifier.
func (pl *Pool) Name() string { return pl.name }

// Capacity returns the fixed number of units in the pool.
func (pl *Pool) Capacity() int { return pl.capacity }

// InUse returns the number of units currently granted.
func (pl *Pool) InUse() int { return pl.inUse }

// PendingLen returns the number of ungranted requests waiting on the pool.
func (pl *Pool) PendingLen() int { return len(pl.pending) }

func (pl *Pool) String() string {
	return fmt.Sprintf("<Pool %s %d/%d, %d waiting>", pl.name, pl.inUse, pl.capacity, len(pl.pending))
}

// Request is one process's claim on one unit of a pool. Once granted it
// doubles as the release handle; releasing an ungranted or
// already-released handle is an error.
type Request struct {
	pool     *Pool
	proc     *Process
	granted  bool
	released bool
	// onGrant runs synchronously inside the granting continuation.
	// Set only while the request is pending.
	onGrant func()
}

// Pool returns the pool the request was issued against.
func (r *Request) Pool() *Pool { return r.pool }

// Granted reports whether the request holds a unit.
func (r *Request) Granted() bool { return r.granted }

// Released reports whether the request's unit has been returned.
func (r *Request) Released() bool { return r.released }

// Acquire issues a request on behalf of proc. If a unit is free the
// request comes back already granted; otherwise it joins the pending
// queue in arrival order. Acquire itself never suspends the caller --
// that is the job of Process.Await and Process.AcquireAll.
func (pl *Pool) Acquire(proc *Process) *Request {
	req := &Request{pool: pl, proc: proc}
	if pl.inUse < pl.capacity {
		pl.grant(req)
	} else {
		pl.pending = append(pl.pending, req)
	}
	return req
}

// grant hands one unit to req. Must only be called with inUse < capacity.
func (pl *Pool) grant(req *Request) {
	pl.inUse++
	req.granted = true
	if req.proc != nil {
		req.proc.held = append(req.proc.held, req)
	}
	if req.onGrant != nil {
		fn := req.onGrant
		req.onGrant = nil
		fn()
	}
}

// Release returns req's unit to the pool and grants pending requests
// from the queue head while capacity allows. Each newly granted waiter
// resumes through the event queue at the current time, never inline
// with the releasing process's continuation.
func (pl *Pool) Release(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request on pool %q", ErrInvalidRelease, pl.name)
	}
	if req.pool != pl {
		return fmt.Errorf("%w: request belongs to pool %q, not %q", ErrInvalidRelease, req.pool.name, pl.name)
	}
	if !req.granted {
		return fmt.Errorf("%w: request on pool %q was never granted", ErrInvalidRelease, pl.name)
	}
	if req.released {
		return fmt.Errorf("%w: request on pool %q already released", ErrInvalidRelease, pl.name)
	}

	req.released = true
	pl.inUse--
	if req.proc != nil {
		req.proc.dropHeld(req)
	}

	for pl.inUse < pl.capacity && len(pl.pending) > 0 {
		head := pl.pending[0]
		pl.pending = pl.pending[1:]
		pl.grant(head)
	}
	return nil
}
