package sim

import (
	"testing"
)

func TestProcess_Spawn_RunsStepsInOrder(t *testing.T) {
	// GIVEN a process with three plain steps
	s := NewSimulator(NewSimulationKey(1))
	var order []string
	p := s.Spawn("p",
		func(*Process) { order = append(order, "one") },
		func(*Process) { order = append(order, "two") },
		func(*Process) { order = append(order, "three") },
	)

	if p.State() != ProcessCreated {
		t.Errorf("state before run: got %s, want %s", p.State(), ProcessCreated)
	}

	// WHEN the simulation runs
	s.Run()

	// THEN steps ran back-to-back at time zero and the process completed
	want := []string{"one", "two", "three"}
	if len(order) != 3 {
		t.Fatalf("steps run: got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("step order[%d]: got %s, want %s", i, order[i], want[i])
		}
	}
	if p.State() != ProcessComplete {
		t.Errorf("state after run: got %s, want %s", p.State(), ProcessComplete)
	}
	if s.Clock != 0 {
		t.Errorf("clock: got %v, want 0 (no suspensions)", s.Clock)
	}
}

func TestProcess_Hold_SuspendsUntilTimeout(t *testing.T) {
	// GIVEN a process that holds between two steps
	s := NewSimulator(NewSimulationKey(1))
	var resumeTime float64
	p := s.Spawn("p",
		func(p *Process) { p.Hold(25) },
		func(*Process) { resumeTime = s.Clock },
	)

	// WHEN the simulation runs
	s.Run()

	// THEN the next step ran when the timeout elapsed
	if resumeTime != 25 {
		t.Errorf("resume time: got %v, want 25", resumeTime)
	}
	if p.State() != ProcessComplete {
		t.Errorf("state: got %s, want %s", p.State(), ProcessComplete)
	}
}

func TestProcess_Hold_Negative_Panics(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	s.Spawn("p", func(p *Process) {
		defer func() {
			if recover() == nil {
				t.Error("Hold(-1) must panic: a negative delay is a scheduling bug")
			}
		}()
		p.Hold(-1)
	})
	s.Run()
}

func TestProcess_Acquire_Free_DoesNotSuspend(t *testing.T) {
	// GIVEN a free pool
	s := NewSimulator(NewSimulationKey(1))
	pl := newTestPool(t, s, "room", 1)

	var sawGranted bool
	s.Spawn("p",
		func(p *Process) {
			req := p.Acquire(pl)
			sawGranted = req.Granted()
		},
		func(p *Process) {
			// Runs in the same continuation; the clock has not moved.
			if s.Clock != 0 {
				t.Errorf("clock: got %v, want 0", s.Clock)
			}
		},
	)
	s.Run()

	if !sawGranted {
		t.Error("acquire on a free pool must grant synchronously")
	}
}

func TestProcess_Acquire_Busy_SuspendsUntilGrant(t *testing.T) {
	// GIVEN a pool held by one process until t=40
	s := NewSimulator(NewSimulationKey(1))
	pl := newTestPool(t, s, "room", 1)

	s.Spawn("holder",
		func(p *Process) {
			p.Acquire(pl)
			p.Hold(40)
		},
		func(p *Process) {
			for _, req := range p.Held() {
				if err := p.Release(req); err != nil {
					t.Fatalf("Release: %v", err)
				}
			}
		},
	)

	var grantTime float64 = -1
	waiter := s.Spawn("waiter",
		func(p *Process) { p.Acquire(pl) },
		func(*Process) { grantTime = s.Clock },
	)

	// WHEN the simulation runs
	s.Run()

	// THEN the waiter resumed exactly when the holder released
	if grantTime != 40 {
		t.Errorf("waiter resume time: got %v, want 40", grantTime)
	}
	if waiter.State() != ProcessComplete {
		t.Errorf("waiter state: got %s, want %s", waiter.State(), ProcessComplete)
	}
}

func TestProcess_Push_LoopsUntilDone(t *testing.T) {
	// GIVEN a step that pushes itself until a counter runs out
	s := NewSimulator(NewSimulationKey(1))
	count := 0
	var loop Step
	loop = func(p *Process) {
		count++
		if count < 5 {
			p.Hold(10)
			p.Push(loop)
		}
	}
	s.Spawn("looper", loop)

	// WHEN the simulation runs
	s.Run()

	// THEN the loop ran five times across simulated time
	if count != 5 {
		t.Errorf("iterations: got %d, want 5", count)
	}
	if s.Clock != 40 {
		t.Errorf("clock: got %v, want 40", s.Clock)
	}
}

func TestProcess_Held_TracksGrantsAndReleases(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))
	room := newTestPool(t, s, "room", 1)
	bay := newTestPool(t, s, "bay", 1)

	s.Spawn("p",
		func(p *Process) {
			p.Acquire(room)
			p.Acquire(bay)
			if len(p.Held()) != 2 {
				t.Errorf("held after acquires: got %d, want 2", len(p.Held()))
			}
			if err := p.Release(p.Held()[0]); err != nil {
				t.Fatalf("Release: %v", err)
			}
			if len(p.Held()) != 1 {
				t.Errorf("held after release: got %d, want 1", len(p.Held()))
			}
		},
	)
	s.Run()
}
