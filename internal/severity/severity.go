// Package severity defines the ordered trust scale applied to synthesized
// fields, the monotonic escalation rule, and the acceptance policy that
// decides whether a field is written out as-is, flagged for review, or
// reverted to the original raw text.
package severity

import "fmt"

// Level grades how much a synthesized field can be trusted.
// The scale is totally ordered: Repaired < Clean < Warning < Error.
type Level int

const (
	// Repaired marks a field that failed validation and was re-derived.
	// Terminal audit state, lower priority than Error.
	Repaired Level = -1
	// Clean is the starting state for every field.
	Clean Level = 0
	// Warning marks a soft issue; the value is kept but flagged for review.
	Warning Level = 1
	// Error marks a hard issue; the output reverts to the raw input.
	Error Level = 2
)

func (l Level) String() string {
	switch l {
	case Repaired:
		return "repaired"
	case Clean:
		return "clean"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Escalate returns the higher of the two levels. Validators only ever raise
// severity through this rule; the explicit repair transition is the single
// exception.
func (l Level) Escalate(to Level) Level {
	if to > l {
		return to
	}
	return l
}

// Outcome is the policy decision for a field after validation and repair.
type Outcome int

const (
	// Accept writes the synthesized value unchanged.
	Accept Outcome = iota
	// Flag writes the synthesized value but surfaces it for manual review.
	Flag
	// Reject reverts the output to the original raw text.
	Reject
)

func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Flag:
		return "flag"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decide maps a final severity level to the acceptance policy.
func Decide(l Level) Outcome {
	switch {
	case l >= Error:
		return Reject
	case l == Warning:
		return Flag
	default:
		return Accept
	}
}
