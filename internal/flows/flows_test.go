package flows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/store"
)

func allStepsOn() config.FlowsConfig {
	return config.FlowsConfig{TransportStep: true, LabAnalysisStep: true, EvidenceStep: true}
}

func stepIDs(fl Flow) []string {
	ids := make([]string, 0, len(fl.Steps))
	for _, st := range fl.Steps {
		ids = append(ids, st.Descriptor.ID)
	}
	return ids
}

// --- Flow definitions ---

func TestByName_KnownFlows(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		fl, err := ByName(name, allStepsOn())
		require.NoError(t, err)
		assert.Equal(t, name, fl.Name)
		assert.NotEmpty(t, fl.Title)
		require.NotEmpty(t, fl.Steps)
		assert.Equal(t, "review", fl.Steps[len(fl.Steps)-1].Descriptor.ID)
	}
}

func TestByName_UnknownFlow(t *testing.T) {
	t.Parallel()

	_, err := ByName("verification", allStepsOn())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verification")
}

func TestFlow_StepOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want []string
	}{
		{NameFeedstock, []string{"source", "quantity", "transport", "review"}},
		{NameProduction, []string{"batch", "process", "output", "lab", "review"}},
		{NameSequestration, []string{"site", "application", "evidence", "review"}},
	}

	for _, tt := range tests {
		fl, err := ByName(tt.name, allStepsOn())
		require.NoError(t, err)
		assert.Equal(t, tt.want, stepIDs(fl), "flow %s", tt.name)
	}
}

func TestFlow_ConfigTogglesDropOptionalSteps(t *testing.T) {
	t.Parallel()

	cfg := config.FlowsConfig{} // all optional steps off

	fl, err := ByName(NameFeedstock, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"source", "quantity", "review"}, stepIDs(fl))

	fl, err = ByName(NameProduction, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"batch", "process", "output", "review"}, stepIDs(fl))

	fl, err = ByName(NameSequestration, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"site", "application", "review"}, stepIDs(fl))
}

func TestFlow_OnlyExpectedStepsAreOptional(t *testing.T) {
	t.Parallel()

	optional := map[string]bool{"transport": true, "lab": true, "evidence": true}

	for _, name := range Names() {
		fl, err := ByName(name, allStepsOn())
		require.NoError(t, err)
		for _, st := range fl.Steps {
			assert.Equal(t, optional[st.Descriptor.ID], st.Descriptor.Optional,
				"flow %s step %s", name, st.Descriptor.ID)
		}
	}
}

func TestFlow_SnapshotKeysAreStoreValid(t *testing.T) {
	t.Parallel()

	for _, name := range Names() {
		fl, err := ByName(name, allStepsOn())
		require.NoError(t, err)
		assert.NoError(t, store.ValidateKey(fl.SnapshotKey()))
		assert.Equal(t, name, SnapshotKeyFlow(fl.SnapshotKey()))
	}
	assert.Empty(t, SnapshotKeyFlow("entry-unknown"))
	assert.Empty(t, SnapshotKeyFlow("feedstock"))
}

func TestFlow_DescriptorsMatchSteps(t *testing.T) {
	t.Parallel()

	fl, err := ByName(NameProduction, allStepsOn())
	require.NoError(t, err)

	descs := fl.Descriptors()
	require.Len(t, descs, len(fl.Steps))
	for i, d := range descs {
		assert.Equal(t, fl.Steps[i].Descriptor, d)
	}

	st, ok := fl.Step("process")
	require.True(t, ok)
	assert.Equal(t, "process", st.Descriptor.ID)

	_, ok = fl.Step("nope")
	assert.False(t, ok)
}

// --- Step completion rules ---

func TestFeedstock_CompletionRules(t *testing.T) {
	t.Parallel()

	fl, err := ByName(NameFeedstock, allStepsOn())
	require.NoError(t, err)

	source, _ := fl.Step("source")
	quantity, _ := fl.Step("quantity")
	transport, _ := fl.Step("transport")

	empty := NewFields(nil)
	assert.False(t, source.Complete(empty))
	assert.False(t, quantity.Complete(empty))
	assert.False(t, transport.Complete(empty))

	filled := NewFields(map[string]any{
		"feedstock_type": "nut_shells",
		"supplier":       "Yamhill Orchards",
		"quantity_kg":    "1200",
		"moisture_pct":   "14.5",
		"received_date":  "2026-08-12",
		"transport_mode": "truck",
		"distance_km":    "38",
	})
	assert.True(t, source.Complete(filled))
	assert.True(t, quantity.Complete(filled))
	assert.True(t, transport.Complete(filled))

	// Distance may stay empty once a mode is chosen.
	onSite := NewFields(map[string]any{"transport_mode": "none"})
	assert.True(t, transport.Complete(onSite))

	bad := NewFields(map[string]any{
		"quantity_kg":   "-5",
		"moisture_pct":  "14.5",
		"received_date": "2026-08-12",
	})
	assert.False(t, quantity.Complete(bad))
}

func TestProduction_CompletionRules(t *testing.T) {
	t.Parallel()

	fl, err := ByName(NameProduction, allStepsOn())
	require.NoError(t, err)

	batch, _ := fl.Step("batch")
	process, _ := fl.Step("process")
	output, _ := fl.Step("output")
	lab, _ := fl.Step("lab")

	filled := NewFields(map[string]any{
		"batch_id":            "B-2026-0142",
		"run_date":            "2026-08-20",
		"operator":            "D. Keskin",
		"technology":          "pyrolysis",
		"highest_temp_c":      "550",
		"residence_minutes":   "45",
		"biochar_mass_kg":     "310",
		"carbon_fraction_pct": "78.2",
	})
	assert.True(t, batch.Complete(filled))
	assert.True(t, process.Complete(filled))
	assert.True(t, output.Complete(filled))
	assert.True(t, lab.Complete(filled))

	badDate := NewFields(map[string]any{
		"batch_id": "B-1",
		"run_date": "20-08-2026",
		"operator": "D. Keskin",
	})
	assert.False(t, batch.Complete(badDate))
}

func TestSequestration_CompletionRules(t *testing.T) {
	t.Parallel()

	fl, err := ByName(NameSequestration, allStepsOn())
	require.NoError(t, err)

	application, _ := fl.Step("application")
	evidence, _ := fl.Step("evidence")

	assert.False(t, application.Complete(NewFields(nil)))
	assert.True(t, application.Complete(NewFields(map[string]any{
		"method":          "soil_amendment",
		"applied_mass_kg": "250",
	})))
	assert.False(t, application.Complete(NewFields(map[string]any{
		"method":          "soil_amendment",
		"applied_mass_kg": "250",
		"field_area_ha":   "-2",
	})))

	// Either a URL or a note completes the evidence step.
	assert.False(t, evidence.Complete(NewFields(nil)))
	assert.True(t, evidence.Complete(NewFields(map[string]any{"evidence_url": "https://e.example/1"})))
	assert.True(t, evidence.Complete(NewFields(map[string]any{"evidence_notes": "spreading log attached"})))
}

func TestReviewStep_AlwaysComplete(t *testing.T) {
	t.Parallel()

	fl, err := ByName(NameFeedstock, allStepsOn())
	require.NoError(t, err)

	review, ok := fl.Step("review")
	require.True(t, ok)
	assert.True(t, review.Complete(NewFields(nil)))
}

// --- Fields ---

func TestFields_SeedAndRoundTrip(t *testing.T) {
	t.Parallel()

	f := NewFields(map[string]any{
		"supplier":       "Yamhill Orchards",
		"quantity_kg":    float64(1200), // numbers from a hand-edited snapshot
		"confirm_submit": true,
	})

	assert.Equal(t, "Yamhill Orchards", f.Get("supplier"))
	assert.Equal(t, "1200", f.Get("quantity_kg"))
	assert.True(t, f.GetBool("confirm_submit"))

	*f.Val("supplier") = "  Dundee Farms  "
	bag := f.Bag("supplier", "quantity_kg", "confirm_submit")
	assert.Equal(t, map[string]any{
		"supplier":       "Dundee Farms",
		"quantity_kg":    "1200",
		"confirm_submit": true,
	}, bag)
}

func TestFields_UnsetKeysCollectAsZero(t *testing.T) {
	t.Parallel()

	f := NewFields(nil)
	bag := f.Bag("origin")
	assert.Equal(t, map[string]any{"origin": ""}, bag)
	assert.False(t, f.GetBool("confirm_submit"))
}
