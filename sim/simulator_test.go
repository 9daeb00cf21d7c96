package sim

import (
	"errors"
	"testing"
)

func TestSimulator_Run_DispatchesInTimeOrder(t *testing.T) {
	// GIVEN events scheduled out of time order
	s := NewSimulator(NewSimulationKey(1))
	var order []string
	mustSchedule(t, s, 30, func() { order = append(order, "c") })
	mustSchedule(t, s, 10, func() { order = append(order, "a") })
	mustSchedule(t, s, 20, func() { order = append(order, "b") })

	// WHEN the simulation runs
	s.Run()

	// THEN dispatch follows timestamps, and the clock ends at the last one
	want := []string{"a", "b", "c"}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("dispatch order[%d]: got %s, want %s", i, order[i], name)
		}
	}
	if s.Clock != 30 {
		t.Errorf("final clock: got %v, want 30", s.Clock)
	}
}

func TestSimulator_Run_EqualTimestamps_FIFO(t *testing.T) {
	// GIVEN many events scheduled at the same instant
	s := NewSimulator(NewSimulationKey(1))
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		mustSchedule(t, s, 5, func() { order = append(order, i) })
	}

	// WHEN the simulation runs
	s.Run()

	// THEN they dispatch in schedule order
	if len(order) != 20 {
		t.Fatalf("dispatched %d events, want 20", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Errorf("tie-break order[%d]: got %d, want %d", i, got, i)
		}
	}
}

func TestSimulator_Run_NestedScheduling_AdvancesClock(t *testing.T) {
	// GIVEN a continuation that schedules further work relative to now
	s := NewSimulator(NewSimulationKey(1))
	var times []float64
	mustSchedule(t, s, 10, func() {
		times = append(times, s.Clock)
		if err := s.ScheduleAfter(15, func() { times = append(times, s.Clock) }); err != nil {
			t.Fatalf("ScheduleAfter: %v", err)
		}
	})

	// WHEN the simulation runs
	s.Run()

	// THEN the clock is non-decreasing across dispatches
	if len(times) != 2 || times[0] != 10 || times[1] != 25 {
		t.Errorf("dispatch times: got %v, want [10 25]", times)
	}
}

func TestSimulator_ScheduleAt_Past_Fails(t *testing.T) {
	// GIVEN a simulator whose clock has advanced
	s := NewSimulator(NewSimulationKey(1))
	mustSchedule(t, s, 50, func() {})
	s.Run()

	// WHEN scheduling before the clock
	err := s.ScheduleAt(49, func() {})

	// THEN it fails with ErrInvalidDuration
	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("ScheduleAt(past): got %v, want ErrInvalidDuration", err)
	}
}

func TestSimulator_ScheduleAfter_Negative_Fails(t *testing.T) {
	s := NewSimulator(NewSimulationKey(1))

	err := s.ScheduleAfter(-1, func() {})

	if !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("ScheduleAfter(-1): got %v, want ErrInvalidDuration", err)
	}
}

func TestSimulator_ScheduleAt_CurrentTime_OK(t *testing.T) {
	// Scheduling at exactly the current clock time is valid.
	s := NewSimulator(NewSimulationKey(1))
	ran := false
	mustSchedule(t, s, 10, func() {
		if err := s.ScheduleAt(10, func() { ran = true }); err != nil {
			t.Fatalf("ScheduleAt(now): %v", err)
		}
	})

	s.Run()

	if !ran {
		t.Error("continuation scheduled at the current time never ran")
	}
}

func TestSimulator_Run_HorizonCutsOff(t *testing.T) {
	// GIVEN a horizon before the last scheduled event
	s := NewSimulator(NewSimulationKey(1))
	s.Horizon = 100
	var ran []float64
	mustSchedule(t, s, 90, func() { ran = append(ran, s.Clock) })
	mustSchedule(t, s, 150, func() { ran = append(ran, s.Clock) })

	// WHEN the simulation runs
	s.Run()

	// THEN only events inside the horizon execute
	if len(ran) != 1 || ran[0] != 90 {
		t.Errorf("executed times: got %v, want [90]", ran)
	}
}

func mustSchedule(t *testing.T, s *Simulator, at float64, fn func()) {
	t.Helper()
	if err := s.ScheduleAt(at, fn); err != nil {
		t.Fatalf("ScheduleAt(%v): %v", at, err)
	}
}
