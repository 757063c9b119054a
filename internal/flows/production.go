package flows

import (
	"github.com/charmbracelet/huh"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
)

// Production data bag keys.
const (
	keyBatchID          = "batch_id"
	keyRunDate          = "run_date"
	keyOperator         = "operator"
	keyTechnology       = "technology"
	keyHighestTempC     = "highest_temp_c"
	keyResidenceMinutes = "residence_minutes"
	keyBiocharMassKg    = "biochar_mass_kg"
	keyOutputNotes      = "output_notes"
	keyCarbonFraction   = "carbon_fraction_pct"
	keyHCRatio          = "h_c_ratio"
	keyLabName          = "lab_name"
)

// productionFlow captures one pyrolysis run: the batch identity, the
// process parameters, and the biochar output. Lab analysis is optional
// because samples are typically sent out and results arrive days later;
// operators record them in a second pass when the step is enabled.
func productionFlow(cfg config.FlowsConfig) Flow {
	steps := []FormStep{
		{
			Descriptor: stepDescriptor("batch", "Batch", "Which run this entry records.", false),
			Keys:       []string{keyBatchID, keyRunDate, keyOperator},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Batch ID").
						Description("Facility batch identifier, e.g. B-2026-0142.").
						Value(f.Val(keyBatchID)).
						Validate(requireNonEmpty("batch ID")),
					huh.NewInput().
						Title("Run date").
						Description("Date of the production run, YYYY-MM-DD.").
						Value(f.Val(keyRunDate)).
						Validate(requireDate("run date")),
					huh.NewInput().
						Title("Operator").
						Description("Person responsible for the run.").
						Value(f.Val(keyOperator)).
						Validate(requireNonEmpty("operator")),
				)
			},
			Complete: func(f *Fields) bool {
				return f.Get(keyBatchID) != "" &&
					isDate(f.Get(keyRunDate)) &&
					f.Get(keyOperator) != ""
			},
		},
		{
			Descriptor: stepDescriptor("process", "Process", "How the batch was produced.", false),
			Keys:       []string{keyTechnology, keyHighestTempC, keyResidenceMinutes},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewSelect[string]().
						Title("Conversion technology").
						Options(
							huh.NewOption("Pyrolysis", "pyrolysis"),
							huh.NewOption("Gasification", "gasification"),
						).
						Value(f.Val(keyTechnology)),
					huh.NewInput().
						Title("Highest treatment temperature (°C)").
						Description("Peak temperature reached during the run.").
						Value(f.Val(keyHighestTempC)).
						Validate(requirePositiveNumber("temperature")),
					huh.NewInput().
						Title("Residence time (minutes)").
						Value(f.Val(keyResidenceMinutes)).
						Validate(requirePositiveNumber("residence time")),
				)
			},
			Complete: func(f *Fields) bool {
				return f.Get(keyTechnology) != "" &&
					isPositiveNumber(f.Get(keyHighestTempC)) &&
					isPositiveNumber(f.Get(keyResidenceMinutes))
			},
		},
		{
			Descriptor: stepDescriptor("output", "Output", "What the run produced.", false),
			Keys:       []string{keyBiocharMassKg, keyOutputNotes},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Biochar mass (kg)").
						Description("Dry mass of biochar produced.").
						Value(f.Val(keyBiocharMassKg)).
						Validate(requirePositiveNumber("biochar mass")),
					huh.NewText().
						Title("Notes").
						Description("Anything unusual about the run or its output.").
						Value(f.Val(keyOutputNotes)),
				)
			},
			Complete: func(f *Fields) bool {
				return isPositiveNumber(f.Get(keyBiocharMassKg))
			},
		},
		{
			Descriptor: stepDescriptor("lab", "Lab analysis", "Results from the sample sent to the lab.", true),
			Keys:       []string{keyCarbonFraction, keyHCRatio, keyLabName},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Organic carbon fraction (%)").
						Value(f.Val(keyCarbonFraction)).
						Validate(requirePercent("carbon fraction")),
					huh.NewInput().
						Title("H/C molar ratio").
						Description("Hydrogen to organic carbon ratio from the analysis report.").
						Value(f.Val(keyHCRatio)).
						Validate(optionalNonNegativeNumber("H/C ratio")),
					huh.NewInput().
						Title("Laboratory").
						Value(f.Val(keyLabName)),
				)
			},
			Complete: func(f *Fields) bool {
				return isPercent(f.Get(keyCarbonFraction))
			},
		},
		reviewStep(func(f *Fields) string {
			return summaryLines(
				"Batch", f.Get(keyBatchID),
				"Run date", f.Get(keyRunDate),
				"Technology", f.Get(keyTechnology),
				"Biochar", f.Get(keyBiocharMassKg)+" kg",
			)
		}),
	}

	if !cfg.LabAnalysisStep {
		steps = dropStep(steps, "lab")
	}

	return Flow{Name: NameProduction, Title: "Production run", Steps: steps}
}
