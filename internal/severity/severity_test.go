package severity

import "testing"

func TestEscalateIsMonotonicMax(t *testing.T) {
	cases := []struct {
		from, to, want Level
	}{
		{Clean, Warning, Warning},
		{Clean, Error, Error},
		{Warning, Clean, Warning},
		{Error, Warning, Error},
		{Repaired, Error, Error},
		{Repaired, Clean, Clean},
		{Error, Error, Error},
	}
	for _, tc := range cases {
		if got := tc.from.Escalate(tc.to); got != tc.want {
			t.Errorf("%v.Escalate(%v) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRecordEscalationNeverDecreases(t *testing.T) {
	rec := NewRecord("Number", "Email")

	rec.Escalate("Number", Error, "number not traceable to source")
	rec.Escalate("Number", Warning, "soft issue reported later")

	if got := rec.Level("Number"); got != Error {
		t.Fatalf("Level(Number) = %v, want %v", got, Error)
	}
	if got := len(rec.Trail()); got != 2 {
		t.Fatalf("trail length = %d, want 2 (append-only, no dedup)", got)
	}
}

func TestRecordOrderIndependence(t *testing.T) {
	// Running the same escalations in any order must converge on the same
	// final level because escalation is monotonic max.
	apply := func(order []Level) Level {
		rec := NewRecord("Email")
		for _, l := range order {
			rec.Escalate("Email", l, "msg")
		}
		return rec.Level("Email")
	}

	a := apply([]Level{Warning, Error, Warning})
	b := apply([]Level{Error, Warning, Warning})
	c := apply([]Level{Warning, Warning, Error})
	if a != b || b != c || a != Error {
		t.Fatalf("order-dependent severities: %v %v %v", a, b, c)
	}
}

func TestMarkRepairedIsExplicitTransition(t *testing.T) {
	rec := NewRecord("Extension")
	rec.Escalate("Extension", Warning, "extension keyword not found")
	rec.MarkRepaired("Extension")

	if got := rec.Level("Extension"); got != Repaired {
		t.Fatalf("Level = %v, want %v", got, Repaired)
	}

	// Re-validation may genuinely fail again and escalate from Repaired.
	rec.Escalate("Extension", Error, "still invalid after repair")
	if got := rec.Level("Extension"); got != Error {
		t.Fatalf("Level after re-fail = %v, want %v", got, Error)
	}
}

func TestDecidePolicy(t *testing.T) {
	cases := []struct {
		level Level
		want  Outcome
	}{
		{Repaired, Accept},
		{Clean, Accept},
		{Warning, Flag},
		{Error, Reject},
	}
	for _, tc := range cases {
		if got := Decide(tc.level); got != tc.want {
			t.Errorf("Decide(%v) = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestClearTrailKeepsLevels(t *testing.T) {
	rec := NewRecord("Name")
	rec.Escalate("Name", Error, "name not in source")
	rec.ClearTrail()

	if got := len(rec.Trail()); got != 0 {
		t.Fatalf("trail length after clear = %d", got)
	}
	if got := rec.Level("Name"); got != Error {
		t.Fatalf("Level after clear = %v, want %v (clear affects messages only)", got, Error)
	}
}

func TestMaxAcrossFields(t *testing.T) {
	rec := NewRecord("Number", "Email", "Name")
	rec.Escalate("Email", Warning, "w")
	if got := rec.Max(); got != Warning {
		t.Fatalf("Max = %v, want %v", got, Warning)
	}
	rec.Escalate("Name", Error, "e")
	if got := rec.Max(); got != Error {
		t.Fatalf("Max = %v, want %v", got, Error)
	}
}
