package sim

import (
	"errors"
	"testing"
)

func testActivity(t *testing.T, label string, mean float64, pools ...*Pool) *CareActivity {
	t.Helper()
	act, err := NewCareActivity(label, Fixed(mean), pools)
	if err != nil {
		t.Fatalf("NewCareActivity(%s): %v", label, err)
	}
	return act
}

func TestPatient_FromNeeds(t *testing.T) {
	// GIVEN pre-made needs
	preop := testActivity(t, "preop", 30)
	procedure := testActivity(t, "procedure", 90)
	pt, err := NewPatient("alex", []*Need{NewNeed(preop), NewNeed(procedure)})
	if err != nil {
		t.Fatalf("NewPatient: %v", err)
	}

	// THEN the plan is carried in order
	if got := pt.Route(); got != "preop --> procedure" {
		t.Errorf("Route: got %q", got)
	}
	if pt.UnmetNeedCount() != 2 {
		t.Errorf("UnmetNeedCount: got %d, want 2", pt.UnmetNeedCount())
	}
}

func TestPatient_FromNeeds_NilNeed_Fails(t *testing.T) {
	_, err := NewPatient("alex", []*Need{nil})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("NewPatient(nil need): got %v, want ErrInvalidConfiguration", err)
	}
}

func TestPatient_FromPlan_ResolvesActivityNames(t *testing.T) {
	// GIVEN an activity universe
	universe := map[string]*CareActivity{
		"preop":     testActivity(t, "preop", 30),
		"procedure": testActivity(t, "procedure", 90),
	}

	// WHEN building from a plan of names
	pt, err := NewPatientFromPlan("alex", []string{"preop", "procedure"}, universe)
	if err != nil {
		t.Fatalf("NewPatientFromPlan: %v", err)
	}

	// THEN needs resolve in plan order
	needs := pt.Needs()
	if len(needs) != 2 || needs[0].Label() != "preop" || needs[1].Label() != "procedure" {
		t.Errorf("resolved plan: got %v", pt.Route())
	}
}

func TestPatient_FromPlan_UnknownActivity_Fails(t *testing.T) {
	universe := map[string]*CareActivity{"preop": testActivity(t, "preop", 30)}

	_, err := NewPatientFromPlan("alex", []string{"preop", "imaging"}, universe)

	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("unknown activity: got %v, want ErrInvalidConfiguration", err)
	}
}

func TestPatient_NextUnmetNeed_InPlanOrder(t *testing.T) {
	// GIVEN a patient mid-pipeline
	first := testActivity(t, "first", 10)
	second := testActivity(t, "second", 10)
	third := testActivity(t, "third", 10)
	pt, err := NewPatient("alex", []*Need{NewNeed(first), NewNeed(second), NewNeed(third)})
	if err != nil {
		t.Fatalf("NewPatient: %v", err)
	}
	pt.Needs()[0].Meet(10)

	// THEN the first unmet need in list order comes next
	if got := pt.NextUnmetNeed(); got.Label() != "second" {
		t.Errorf("NextUnmetNeed: got %s, want second", got.Label())
	}
	if got := pt.UnmetNeedLabels(); got != "second, third" {
		t.Errorf("UnmetNeedLabels: got %q", got)
	}

	pt.Needs()[1].Meet(20)
	pt.Needs()[2].Meet(30)
	if pt.NextUnmetNeed() != nil {
		t.Error("NextUnmetNeed after all met: want nil")
	}
	if !pt.NeedsMet() {
		t.Error("NeedsMet after all met: want true")
	}
}

func TestNeed_Meet_SetsTimestampOnce(t *testing.T) {
	n := NewNeed(testActivity(t, "preop", 30))

	n.Meet(42)
	n.Meet(99) // later call must not rewind or move the timestamp

	if !n.Met() || n.MetAt() != 42 {
		t.Errorf("need: met=%v metAt=%v, want met at 42", n.Met(), n.MetAt())
	}
}

func TestPatient_Journal_AppendOnlyInOrder(t *testing.T) {
	pt, err := NewPatient("alex", nil)
	if err != nil {
		t.Fatalf("NewPatient: %v", err)
	}

	pt.Transition("preop:queue", 0)
	pt.Transition("preop:start", 5)
	pt.JournalEntryAt("preop:end", 35)

	journal := pt.Journal()
	want := []JournalEntry{
		{Timestamp: 0, Entry: "preop:queue"},
		{Timestamp: 5, Entry: "preop:start"},
		{Timestamp: 35, Entry: "preop:end"},
	}
	if len(journal) != len(want) {
		t.Fatalf("journal length: got %d, want %d", len(journal), len(want))
	}
	for i := range want {
		if journal[i] != want[i] {
			t.Errorf("journal[%d]: got %+v, want %+v", i, journal[i], want[i])
		}
	}
	if pt.Status != "preop:start" {
		t.Errorf("status: got %q, want %q (JournalEntryAt must not touch status)", pt.Status, "preop:start")
	}
}

func TestCareActivity_NilPool_Fails(t *testing.T) {
	_, err := NewCareActivity("preop", Fixed(30), []*Pool{nil})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("nil pool: got %v, want ErrInvalidConfiguration", err)
	}
}

func TestCareActivity_InvalidDuration_Fails(t *testing.T) {
	bad := DurationSpec{Mean: 10, Lower: Absolute(20), Upper: Absolute(15)}
	_, err := NewCareActivity("preop", bad, nil)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("inconsistent bounds: got %v, want ErrInvalidConfiguration", err)
	}
}
