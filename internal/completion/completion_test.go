package completion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCleanStripsStopAndScaffold(t *testing.T) {
	cases := []struct {
		name, raw, caseText, want string
	}{
		{"stop token", "603-654-4524%%garbage", "", "603-654-4524"},
		{"whitespace", "  johncena@vivery.org \n", "", "johncena@vivery.org"},
		{"qa scaffold", "\nQ: Mon-Fri\nA: Monday,10:00", "Mon-Fri", "Monday,10:00"},
		{"echoed case", "John Cena, johncena@vivery.org John Cena", "John Cena, johncena@vivery.org", "John Cena"},
		{"already clean", "NA", "", "NA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.raw, tc.caseText, "%%"); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	fs := FewShot("Extract the phone number.")
	got := fs("John Cena, 603-654-4524")
	if !strings.Contains(got, "Extract the phone number.") ||
		!strings.Contains(got, `Input: "John Cena, 603-654-4524"`) ||
		!strings.HasSuffix(got, "Output: ") {
		t.Fatalf("few-shot prompt malformed:\n%s", got)
	}

	qa := QA()
	if got := qa("Mon-Fri,10:00:00 AM,4:00:00 PM"); got != "Q: Mon-Fri,10:00:00 AM,4:00:00 PM\nA:" {
		t.Fatalf("qa prompt = %q", got)
	}
}

func TestAdapterTagsFailures(t *testing.T) {
	mock := NewMockClient().Fail(errors.New("quota exhausted"))
	adapter := NewAdapter(mock, NewGate(0, 1), DefaultOptions())

	_, err := adapter.Complete(context.Background(), QA(), "case", "P-9", "Number")
	var cerr *CompletionError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *CompletionError", err)
	}
	if cerr.RecordID != "P-9" || cerr.Field != "Number" {
		t.Fatalf("tags = (%q,%q)", cerr.RecordID, cerr.Field)
	}
}

func TestAdapterCleansResponse(t *testing.T) {
	mock := NewMockClient().Fallback(" 603-654-4524%%\n")
	adapter := NewAdapter(mock, NewGate(0, 1), DefaultOptions())

	got, err := adapter.Complete(context.Background(), FewShot("x"), "case", "P-1", "Number")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "603-654-4524" {
		t.Fatalf("got %q", got)
	}
}

func TestGateEnforcesGlobalInterval(t *testing.T) {
	const interval = 20 * time.Millisecond
	gate := NewGate(interval, 4)

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := gate.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			gate.Release()
		}()
	}
	wg.Wait()

	// Four calls through one gate need at least three full intervals
	// between them, regardless of worker count.
	if elapsed := time.Since(start); elapsed < 3*interval {
		t.Fatalf("4 calls finished in %v, pacing not global", elapsed)
	}
	if gate.Calls() != 4 {
		t.Fatalf("Calls() = %d, want 4", gate.Calls())
	}
}

func TestGateHonorsContext(t *testing.T) {
	gate := NewGate(time.Hour, 1)
	if err := gate.Acquire(context.Background()); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := gate.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("second Acquire err = %v, want deadline exceeded", err)
	}
}
