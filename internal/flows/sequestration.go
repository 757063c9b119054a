package flows

import (
	"github.com/charmbracelet/huh"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
)

// Sequestration data bag keys.
const (
	keySiteName        = "site_name"
	keyLocation        = "location"
	keyApplicationDate = "application_date"
	keyMethod          = "method"
	keyAppliedMassKg   = "applied_mass_kg"
	keyFieldAreaHa     = "field_area_ha"
	keyEvidenceURL     = "evidence_url"
	keyEvidenceNotes   = "evidence_notes"
)

// sequestrationFlow captures one biochar application event: where the
// material went, how it was applied, and optional supporting evidence
// (delivery notes, photos) referenced by URL.
func sequestrationFlow(cfg config.FlowsConfig) Flow {
	steps := []FormStep{
		{
			Descriptor: stepDescriptor("site", "Site", "Where the biochar was applied.", false),
			Keys:       []string{keySiteName, keyLocation, keyApplicationDate},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Site name").
						Description("Farm, field, or project name.").
						Value(f.Val(keySiteName)).
						Validate(requireNonEmpty("site name")),
					huh.NewInput().
						Title("Location").
						Description("Region or address of the site.").
						Value(f.Val(keyLocation)),
					huh.NewInput().
						Title("Application date").
						Description("Date of application, YYYY-MM-DD.").
						Value(f.Val(keyApplicationDate)).
						Validate(requireDate("application date")),
				)
			},
			Complete: func(f *Fields) bool {
				return f.Get(keySiteName) != "" && isDate(f.Get(keyApplicationDate))
			},
		},
		{
			Descriptor: stepDescriptor("application", "Application", "How and how much was applied.", false),
			Keys:       []string{keyMethod, keyAppliedMassKg, keyFieldAreaHa},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewSelect[string]().
						Title("Application method").
						Options(
							huh.NewOption("Soil amendment", "soil_amendment"),
							huh.NewOption("Compost blend", "compost_blend"),
							huh.NewOption("Construction material", "construction_material"),
						).
						Value(f.Val(keyMethod)),
					huh.NewInput().
						Title("Applied mass (kg)").
						Description("Dry mass of biochar applied at this site.").
						Value(f.Val(keyAppliedMassKg)).
						Validate(requirePositiveNumber("applied mass")),
					huh.NewInput().
						Title("Field area (ha)").
						Description("Area covered. Leave empty for non-field applications.").
						Value(f.Val(keyFieldAreaHa)).
						Validate(optionalNonNegativeNumber("field area")),
				)
			},
			Complete: func(f *Fields) bool {
				if f.Get(keyMethod) == "" || !isPositiveNumber(f.Get(keyAppliedMassKg)) {
					return false
				}
				area := f.Get(keyFieldAreaHa)
				return area == "" || isNonNegativeNumber(area)
			},
		},
		{
			Descriptor: stepDescriptor("evidence", "Evidence", "Supporting documentation for the application.", true),
			Keys:       []string{keyEvidenceURL, keyEvidenceNotes},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Evidence URL").
						Description("Link to photos, delivery notes, or the spreading log.").
						Value(f.Val(keyEvidenceURL)),
					huh.NewText().
						Title("Notes").
						Value(f.Val(keyEvidenceNotes)),
				)
			},
			Complete: func(f *Fields) bool {
				return f.Get(keyEvidenceURL) != "" || f.Get(keyEvidenceNotes) != ""
			},
		},
		reviewStep(func(f *Fields) string {
			return summaryLines(
				"Site", f.Get(keySiteName),
				"Date", f.Get(keyApplicationDate),
				"Method", f.Get(keyMethod),
				"Applied", f.Get(keyAppliedMassKg)+" kg",
			)
		}),
	}

	if !cfg.EvidenceStep {
		steps = dropStep(steps, "evidence")
	}

	return Flow{Name: NameSequestration, Title: "Sequestration event", Steps: steps}
}
