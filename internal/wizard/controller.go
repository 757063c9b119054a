package wizard

// Controller derives the navigation guards for a wizard session and exposes
// the action verbs a navigation UI binds to. It holds no state of its own
// beyond the externally supplied submitting flag; every predicate is
// recomputed from the underlying State on each read.
//
// Navigation verbs never fail: a call is either applied or is a no-op based
// on the guard predicates. Step validation errors belong to the step's own
// form code and surface as Valid == false, never as errors here.
type Controller struct {
	state      *State
	submitting bool
}

// NewController wraps an existing session. The controller is constructed
// once per flow and passed explicitly to whatever renders it; sessions are
// never shared across flows.
func NewController(state *State) *Controller {
	if state == nil {
		panic("wizard: NewController called with nil state")
	}
	return &Controller{state: state}
}

// State returns the underlying session, for step form code that merges data
// and reports validity.
func (c *Controller) State() *State { return c.state }

// CurrentStep resolves the active step's descriptor.
func (c *Controller) CurrentStep() Step {
	return c.state.steps[c.state.currentIndex]
}

// IsFirstStep reports whether the session is at position 0.
func (c *Controller) IsFirstStep() bool {
	return c.state.currentIndex == 0
}

// IsLastStep reports whether the session is at the final position. The
// navigation UI swaps its terminal action in for "Next" when this is true;
// there is no separate terminal state inside the engine.
func (c *Controller) IsLastStep() bool {
	return c.state.currentIndex == len(c.state.steps)-1
}

// CanGoNext reports whether forward navigation is permitted: the current
// step is valid or optional, and no submission is in flight.
func (c *Controller) CanGoNext() bool {
	if c.submitting {
		return false
	}
	cur := c.CurrentStep()
	return cur.Valid || cur.Optional
}

// CanGoPrevious reports whether backward navigation is permitted.
func (c *Controller) CanGoPrevious() bool {
	return !c.submitting && !c.IsFirstStep()
}

// CanSkip reports whether the explicit skip verb applies: the current step
// is optional and not the terminal one. This is the same guard relaxation
// CanGoNext already grants optional steps, surfaced so the UI can render a
// distinct "Skip" action.
func (c *Controller) CanSkip() bool {
	return !c.submitting && c.CurrentStep().Optional && !c.IsLastStep()
}

// GoNext advances one step. It is a no-op when CanGoNext is false and on
// the last step: completion is a distinct action, not reachable by
// over-advancing.
func (c *Controller) GoNext() {
	if !c.CanGoNext() || c.IsLastStep() {
		return
	}
	c.state.SetCurrentStepIndex(c.state.currentIndex + 1)
}

// GoPrevious retreats one step; a no-op on the first step.
func (c *Controller) GoPrevious() {
	if !c.CanGoPrevious() {
		return
	}
	c.state.SetCurrentStepIndex(c.state.currentIndex - 1)
}

// Skip advances past the current optional step regardless of its validity.
// A no-op on non-optional steps and on the last step.
func (c *Controller) Skip() {
	if !c.CanSkip() {
		return
	}
	c.state.SetCurrentStepIndex(c.state.currentIndex + 1)
}

// GoToStep jumps directly to position i, clamped into bounds. Intended for
// sparing use, e.g. a review step linking back to an earlier step to edit
// it. This is the only path that moves more than one position at a time.
func (c *Controller) GoToStep(i int) {
	if c.submitting {
		return
	}
	c.state.SetCurrentStepIndex(clampIndex(i, len(c.state.steps)))
}

// Complete hands the full accumulated data bag to the host's terminal
// action. The engine never submits anything itself: the host typically
// validates, submits to the registry client, and on success calls
// State.Reset. A no-op while a submission is in flight or when onComplete
// is nil.
func (c *Controller) Complete(onComplete func(data map[string]any)) {
	if c.submitting || onComplete == nil {
		return
	}
	onComplete(c.state.Data())
}

// SetSubmitting toggles the externally owned submission flag. While true
// every navigation verb and guard is disabled, preventing double-submission
// or navigating away mid-request.
func (c *Controller) SetSubmitting(submitting bool) {
	c.submitting = submitting
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool { return c.submitting }
