// Package tui hosts the interactive entry flow screen: a Bubble Tea model
// that renders one huh form per wizard step, a step trail with a progress
// bar, and a submit spinner. Navigation goes through the wizard controller
// so every move honors the engine's guards, and every captured field lands
// in the engine's data bag where the snapshot store can see it.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/erguvanco/ecm-mrv-sub003/internal/flows"
	"github.com/erguvanco/ecm-mrv-sub003/internal/logging"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

var logger = logging.New("tui")

// defaultWidth is the fallback form width before the first WindowSizeMsg.
const defaultWidth = 80

// maxFormWidth caps the form so it stays readable on wide terminals.
const maxFormWidth = 100

// Submitter sends a completed entry to the registry. *registry.Client
// satisfies this.
type Submitter interface {
	SubmitEntry(ctx context.Context, flow string, payload map[string]any) error
}

// Model is the Bubble Tea model for one entry flow session. It owns the
// embedded huh form for the current step and drives the wizard controller
// from form completions and host keybindings.
type Model struct {
	theme Theme
	keys  KeyMap

	flow      flows.Flow
	ctrl      *wizard.Controller
	fields    *flows.Fields
	submitter Submitter

	form     *huh.Form
	bar      progress.Model
	spin     spinner.Model
	width    int
	height   int
	quitting bool

	outcome   Outcome
	submitErr error
}

// New builds a Model for the given flow. The controller's state must
// already be initialized; the fields are seeded from its data bag so a
// resumed draft shows its earlier answers, and every step's validity is
// recomputed from that data because validity is never persisted.
func New(flow flows.Flow, ctrl *wizard.Controller, submitter Submitter) Model {
	theme := DefaultTheme()

	fields := flows.NewFields(ctrl.State().Data())
	for _, st := range flow.Steps {
		ctrl.State().SetStepValid(st.Descriptor.ID, st.Complete(fields))
	}

	m := Model{
		theme:     theme,
		keys:      DefaultKeyMap(),
		flow:      flow,
		ctrl:      ctrl,
		fields:    fields,
		submitter: submitter,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(30),
			progress.WithoutPercentage(),
		),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
		),
		width: defaultWidth,
	}
	m.form = m.buildForm()
	return m
}

// Outcome reports how the session ended. Only meaningful after the program
// returned.
func (m Model) Outcome() Outcome { return m.outcome }

// SubmitErr returns the last registry submission error, if any. The draft
// is kept when submission fails, so the caller can surface the error and
// suggest `ecm push` later.
func (m Model) SubmitErr() error { return m.submitErr }

// Init starts the embedded form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update processes messages. Host keybindings are handled before the form
// so Esc and the navigation chords work from any field.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.WithWidth(m.formWidth())
		return m, nil

	case tea.KeyMsg:
		// While submitting every navigation verb is disabled; only the
		// spinner runs.
		if m.ctrl.Submitting() {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
			// The data bag already holds everything collected so far, so
			// leaving is just quitting; the snapshot survives.
			m.collectStep()
			m.outcome = OutcomeSaved
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Previous):
			if m.ctrl.CanGoPrevious() {
				m.collectStep()
				m.ctrl.GoPrevious()
				return m.rebuildForm()
			}
			return m, nil

		case key.Matches(msg, m.keys.Skip):
			if m.ctrl.CanSkip() {
				m.collectStep()
				m.ctrl.Skip()
				return m.rebuildForm()
			}
			return m, nil
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submitFinishedMsg:
		return m.finishSubmit(msg.Err)
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.stepFinished()
	case huh.StateAborted:
		m.collectStep()
		m.outcome = OutcomeSaved
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// stepFinished handles a completed step form: fold the fields into the
// data bag, refresh the step's validity, then either advance or, on the
// final step, kick off submission.
func (m Model) stepFinished() (tea.Model, tea.Cmd) {
	m.collectStep()

	if m.ctrl.IsLastStep() {
		if !m.fields.GetBool("confirm_submit") {
			// Declined on the review page. Keep the draft.
			m.outcome = OutcomeSaved
			m.quitting = true
			return m, tea.Quit
		}
		return m.startSubmit()
	}

	m.ctrl.GoNext()
	return m.rebuildForm()
}

// startSubmit freezes navigation and sends the entry to the registry in a
// background command.
func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	var payload map[string]any
	m.ctrl.Complete(func(data map[string]any) {
		payload = data
	})
	m.ctrl.SetSubmitting(true)

	flowName := m.flow.Name
	submitter := m.submitter
	submit := func() tea.Msg {
		if submitter == nil {
			return submitFinishedMsg{Err: fmt.Errorf("no registry configured")}
		}
		return submitFinishedMsg{Err: submitter.SubmitEntry(context.Background(), flowName, payload)}
	}
	return m, tea.Batch(m.spin.Tick, submit)
}

// finishSubmit records the submission outcome. Success clears the draft;
// failure keeps it and returns to the review step.
func (m Model) finishSubmit(err error) (tea.Model, tea.Cmd) {
	m.ctrl.SetSubmitting(false)

	if err != nil {
		logger.Warn("submission failed, draft kept", "flow", m.flow.Name, "error", err)
		m.submitErr = err
		return m.rebuildForm()
	}

	m.ctrl.State().Reset()
	m.outcome = OutcomeSubmitted
	m.quitting = true
	return m, tea.Quit
}

// collectStep folds the current step's fields into the engine's data bag
// and refreshes the step's validity flag.
func (m *Model) collectStep() {
	st, ok := m.flow.Step(m.ctrl.CurrentStep().ID)
	if !ok {
		return
	}
	m.ctrl.State().UpdateData(m.fields.Bag(st.Keys...))
	m.ctrl.State().SetStepValid(st.Descriptor.ID, st.Complete(m.fields))
}

// rebuildForm constructs a fresh form for the (possibly new) current step.
func (m Model) rebuildForm() (tea.Model, tea.Cmd) {
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) buildForm() *huh.Form {
	st, ok := m.flow.Step(m.ctrl.CurrentStep().ID)
	if !ok {
		// Unreachable with a well-formed flow; render an empty note so the
		// screen stays usable.
		return huh.NewForm(huh.NewGroup(huh.NewNote().Title(m.flow.Title)))
	}
	return huh.NewForm(st.Build(m.fields)).
		WithTheme(buildHuhTheme(m.theme)).
		WithWidth(m.formWidth()).
		WithShowHelp(true)
}

func (m Model) formWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if w > maxFormWidth {
		w = maxFormWidth
	}
	return w
}

// View renders the header, step trail, embedded form, and footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	steps := m.ctrl.State().Steps()
	current := m.ctrl.State().CurrentStepIndex()

	// --- Header ---
	b.WriteString(m.theme.Title.Render("ecm") + " " + m.theme.Subtitle.Render(m.flow.Title))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("Step %d of %d", current+1, len(steps))))
	b.WriteString("  ")
	b.WriteString(m.bar.ViewAs(float64(current) / float64(max(len(steps)-1, 1))))
	b.WriteString("\n")
	b.WriteString(m.stepTrail(steps, current))
	b.WriteString("\n\n")

	// --- Body ---
	if m.ctrl.Submitting() {
		b.WriteString(m.theme.FormBox.Render(
			m.spin.View() + " Submitting entry to registry..."))
	} else {
		b.WriteString(m.theme.FormBox.Render(m.form.View()))
	}
	b.WriteString("\n")

	// --- Footer ---
	if m.submitErr != nil {
		b.WriteString(m.theme.ErrorText.Render("submission failed: "+m.submitErr.Error()) + "\n")
		b.WriteString(m.theme.StatusText.Render("The draft is saved; fix the issue and submit again, or run `ecm push` later.") + "\n")
	}
	b.WriteString(m.footerHelp())

	return b.String()
}

// stepTrail renders the flow's steps with state markers: done, current,
// pending, and "(optional)" tags.
func (m Model) stepTrail(steps []wizard.Step, current int) string {
	parts := make([]string, 0, len(steps))
	for i, st := range steps {
		label := st.Title
		if st.Optional {
			label += " (optional)"
		}

		switch {
		case i == current:
			parts = append(parts, m.theme.StepCurrent.Render("● "+label))
		case i < current && st.Valid:
			parts = append(parts, m.theme.StepDone.Render("✓ "+label))
		case i < current:
			parts = append(parts, m.theme.StepSkipped.Render("○ "+label))
		default:
			parts = append(parts, m.theme.StepPending.Render("○ "+label))
		}
	}
	return "  " + strings.Join(parts, m.theme.StepPending.Render("  →  "))
}

func (m Model) footerHelp() string {
	bindings := []key.Binding{m.keys.Cancel}
	if m.ctrl.CanGoPrevious() {
		bindings = append(bindings, m.keys.Previous)
	}
	if m.ctrl.CanSkip() {
		bindings = append(bindings, m.keys.Skip)
	}
	return "  " + helpView(m.theme, bindings...)
}

// Run drives one entry flow session to completion and reports how it
// ended. The returned error is a terminal/program failure, not a
// submission failure; submission errors are surfaced in the UI and leave
// the draft intact.
func Run(flow flows.Flow, ctrl *wizard.Controller, submitter Submitter) (Outcome, error) {
	m := New(flow, ctrl, submitter)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return OutcomeSaved, fmt.Errorf("tui: running entry flow: %w", err)
	}
	fm, ok := final.(Model)
	if !ok {
		return OutcomeSaved, fmt.Errorf("tui: unexpected final model %T", final)
	}
	return fm.Outcome(), nil
}
