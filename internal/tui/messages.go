package tui

// submitFinishedMsg reports the outcome of the async registry submission.
// A nil Err means the entry was accepted and the draft has served its
// purpose.
type submitFinishedMsg struct {
	Err error
}

// Outcome describes how an entry flow session ended.
type Outcome int

const (
	// OutcomeSaved means the user left the flow; the draft snapshot is kept
	// and the flow resumes at the same step next time.
	OutcomeSaved Outcome = iota
	// OutcomeSubmitted means the entry was accepted by the registry and the
	// draft was cleared.
	OutcomeSubmitted
)

// String returns a human-readable label for the Outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}
