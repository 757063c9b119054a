// Package flows defines the three ecm data entry flows: feedstock intake,
// production runs, and sequestration events. Each flow is an ordered list
// of form steps; a step pairs a wizard step descriptor with the huh group
// that captures its fields and the completion rule that drives the
// navigation guards.
//
// The package owns WHAT each flow collects. The wizard package owns the
// sequencing and persistence, the tui package owns presentation.
package flows

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

// Flow names double as registry endpoint segments and snapshot key stems,
// so they stay lowercase ASCII.
const (
	NameFeedstock     = "feedstock"
	NameProduction    = "production"
	NameSequestration = "sequestration"
)

// FormStep is one stage of an entry flow: a wizard step descriptor plus
// the form behavior behind it.
type FormStep struct {
	// Descriptor is registered with the wizard engine. Its Valid flag is
	// refreshed from Complete after every form pass.
	Descriptor wizard.Step

	// Keys lists the data bag keys this step owns. Collected into the
	// shared bag when the step's form finishes.
	Keys []string

	// Build returns the huh group capturing this step's fields, bound to f.
	Build func(f *Fields) *huh.Group

	// Complete reports whether the captured fields satisfy the step.
	Complete func(f *Fields) bool
}

// Flow is a complete entry flow definition.
type Flow struct {
	Name  string
	Title string
	Steps []FormStep
}

// Descriptors returns the wizard step list for this flow.
func (fl Flow) Descriptors() []wizard.Step {
	out := make([]wizard.Step, len(fl.Steps))
	for i, st := range fl.Steps {
		out[i] = st.Descriptor
	}
	return out
}

// SnapshotKey is the store key this flow's draft is persisted under.
func (fl Flow) SnapshotKey() string {
	return "entry-" + fl.Name
}

// Step returns the form step with the given ID.
func (fl Flow) Step(id string) (FormStep, bool) {
	for _, st := range fl.Steps {
		if st.Descriptor.ID == id {
			return st, true
		}
	}
	return FormStep{}, false
}

// Names returns the known flow names, sorted.
func Names() []string {
	names := []string{NameFeedstock, NameProduction, NameSequestration}
	sort.Strings(names)
	return names
}

// SnapshotKeyFlow maps a snapshot store key back to its flow name.
// Returns "" for keys that do not belong to an entry flow.
func SnapshotKeyFlow(key string) string {
	for _, name := range Names() {
		if key == "entry-"+name {
			return name
		}
	}
	return ""
}

// ByName returns the flow definition for name. Optional steps are dropped
// up front when the config toggles them off, so the wizard never sees them.
func ByName(name string, cfg config.FlowsConfig) (Flow, error) {
	switch name {
	case NameFeedstock:
		return feedstockFlow(cfg), nil
	case NameProduction:
		return productionFlow(cfg), nil
	case NameSequestration:
		return sequestrationFlow(cfg), nil
	default:
		return Flow{}, fmt.Errorf("flows: unknown flow %q (known: feedstock, production, sequestration)", name)
	}
}

// ---------------------------------------------------------------------------
// Shared field validation
// ---------------------------------------------------------------------------

// dateLayout is the on-the-wire date format for all date fields.
const dateLayout = "2006-01-02"

func requireNonEmpty(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func requirePositiveNumber(label string) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", label)
		}
		if n <= 0 {
			return fmt.Errorf("%s must be greater than zero", label)
		}
		return nil
	}
}

func optionalNonNegativeNumber(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", label)
		}
		if n < 0 {
			return fmt.Errorf("%s must not be negative", label)
		}
		return nil
	}
}

func requirePercent(label string) func(string) error {
	return func(s string) error {
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%s must be a number", label)
		}
		if n < 0 || n > 100 {
			return fmt.Errorf("%s must be between 0 and 100", label)
		}
		return nil
	}
}

func requireDate(label string) func(string) error {
	return func(s string) error {
		if _, err := time.Parse(dateLayout, s); err != nil {
			return fmt.Errorf("%s must be a date in YYYY-MM-DD form", label)
		}
		return nil
	}
}

// The is* helpers mirror the huh validators for use in step Complete
// rules, which evaluate the whole step rather than a single input.

func isPositiveNumber(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n > 0
}

func isNonNegativeNumber(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n >= 0
}

func isPercent(s string) bool {
	n, err := strconv.ParseFloat(s, 64)
	return err == nil && n >= 0 && n <= 100
}

func isDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
