// Package wizard implements the multi-step entry flow engine: an ordered,
// possibly dynamic list of steps, a shared data bag accumulated across
// steps, guard predicates for navigation, and durable snapshots so an
// interrupted flow resumes where it left off.
//
// The engine is deliberately agnostic to what any step collects. Step
// validity is an externally reported flag, persistence goes through a
// narrow key-value port, and submission is a host callback; see the flows
// and tui packages for the concrete entry flows built on top.
package wizard

// Step describes one stage of a guided entry flow. The engine treats each
// step as opaque business logic: it reads Optional and Valid to derive
// navigation guards but never inspects the data bag to compute validity
// itself. The step's form code owns Valid and refreshes it whenever the
// underlying fields change (via State.SetStepValid).
type Step struct {
	// ID is the step's stable identifier, unique within a flow.
	ID string

	// Title and Description are presentation text for the navigation UI.
	Title       string
	Description string

	// Optional marks a step that may be bypassed without satisfying its
	// validity condition.
	Optional bool

	// Valid reports whether the data captured so far satisfies the step's
	// own completion rule. Supplied by the step's form code, read by the
	// controller's guards.
	Valid bool
}

// validateSteps checks the step-list invariants: at least one step, no
// empty IDs, no duplicate IDs. Violations are programming errors caught at
// construction time, so it panics rather than returning an error.
func validateSteps(steps []Step) {
	if len(steps) == 0 {
		panic("wizard: step list must contain at least one step")
	}
	seen := make(map[string]struct{}, len(steps))
	for _, st := range steps {
		if st.ID == "" {
			panic("wizard: step with empty ID")
		}
		if _, dup := seen[st.ID]; dup {
			panic("wizard: duplicate step ID " + st.ID)
		}
		seen[st.ID] = struct{}{}
	}
}

// cloneSteps returns a copy of steps so callers cannot mutate the engine's
// working list (or its pristine initial list) through a shared slice.
func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// cloneData returns a shallow copy of a data bag. A nil map clones to an
// empty, non-nil map so merges never touch a nil map.
func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
