package flows

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

// Feedstock data bag keys.
const (
	keyFeedstockType = "feedstock_type"
	keySupplier      = "supplier"
	keyOrigin        = "origin"
	keyQuantityKg    = "quantity_kg"
	keyMoisturePct   = "moisture_pct"
	keyReceivedDate  = "received_date"
	keyTransportMode = "transport_mode"
	keyDistanceKm    = "distance_km"
	keyConfirmSubmit = "confirm_submit"
)

// feedstockFlow captures one feedstock delivery: what arrived, how much,
// and (optionally) how it travelled. The transport step exists because
// haulage emissions feed the carbon accounting upstream; deployments that
// do not track haulage switch it off in config.
func feedstockFlow(cfg config.FlowsConfig) Flow {
	steps := []FormStep{
		{
			Descriptor: stepDescriptor("source", "Feedstock source", "What arrived and who supplied it.", false),
			Keys:       []string{keyFeedstockType, keySupplier, keyOrigin},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewSelect[string]().
						Title("Feedstock type").
						Description("Biomass category of this delivery.").
						Options(
							huh.NewOption("Agricultural residue", "agricultural_residue"),
							huh.NewOption("Forestry residue", "forestry_residue"),
							huh.NewOption("Nut shells", "nut_shells"),
							huh.NewOption("Manure", "manure"),
							huh.NewOption("Other biomass", "other"),
						).
						Value(f.Val(keyFeedstockType)),
					huh.NewInput().
						Title("Supplier").
						Description("Name of the supplying farm or business.").
						Value(f.Val(keySupplier)).
						Validate(requireNonEmpty("supplier")),
					huh.NewInput().
						Title("Origin").
						Description("Region or address the feedstock came from.").
						Value(f.Val(keyOrigin)),
				)
			},
			Complete: func(f *Fields) bool {
				return f.Get(keyFeedstockType) != "" && f.Get(keySupplier) != ""
			},
		},
		{
			Descriptor: stepDescriptor("quantity", "Quantity", "How much arrived and in what condition.", false),
			Keys:       []string{keyQuantityKg, keyMoisturePct, keyReceivedDate},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewInput().
						Title("Quantity (kg)").
						Description("Wet mass of the delivery as weighed on arrival.").
						Value(f.Val(keyQuantityKg)).
						Validate(requirePositiveNumber("quantity")),
					huh.NewInput().
						Title("Moisture (%)").
						Description("Moisture content from the intake probe, 0-100.").
						Value(f.Val(keyMoisturePct)).
						Validate(requirePercent("moisture")),
					huh.NewInput().
						Title("Received date").
						Description("Date of arrival, YYYY-MM-DD.").
						Value(f.Val(keyReceivedDate)).
						Validate(requireDate("received date")),
				)
			},
			Complete: func(f *Fields) bool {
				return isPositiveNumber(f.Get(keyQuantityKg)) &&
					isPercent(f.Get(keyMoisturePct)) &&
					isDate(f.Get(keyReceivedDate))
			},
		},
		{
			Descriptor: stepDescriptor("transport", "Transport", "How the feedstock travelled to the facility.", true),
			Keys:       []string{keyTransportMode, keyDistanceKm},
			Build: func(f *Fields) *huh.Group {
				return huh.NewGroup(
					huh.NewSelect[string]().
						Title("Transport mode").
						Options(
							huh.NewOption("Truck", "truck"),
							huh.NewOption("Rail", "rail"),
							huh.NewOption("Ship", "ship"),
							huh.NewOption("On-site / none", "none"),
						).
						Value(f.Val(keyTransportMode)),
					huh.NewInput().
						Title("Distance (km)").
						Description("One-way haulage distance. Leave empty for on-site feedstock.").
						Value(f.Val(keyDistanceKm)).
						Validate(optionalNonNegativeNumber("distance")),
				)
			},
			Complete: func(f *Fields) bool {
				if f.Get(keyTransportMode) == "" {
					return false
				}
				d := f.Get(keyDistanceKm)
				return d == "" || isNonNegativeNumber(d)
			},
		},
		reviewStep(func(f *Fields) string {
			return summaryLines(
				"Type", f.Get(keyFeedstockType),
				"Supplier", f.Get(keySupplier),
				"Quantity", f.Get(keyQuantityKg)+" kg",
				"Received", f.Get(keyReceivedDate),
			)
		}),
	}

	if !cfg.TransportStep {
		steps = dropStep(steps, "transport")
	}

	return Flow{Name: NameFeedstock, Title: "Feedstock delivery", Steps: steps}
}

// stepDescriptor is shorthand for the wizard step literal every flow builds.
func stepDescriptor(id, title, description string, optional bool) wizard.Step {
	return wizard.Step{ID: id, Title: title, Description: description, Optional: optional}
}

// reviewStep is the shared terminal step: a summary note plus the submit
// confirm. It is always complete so the last-step guards never block the
// final page.
func reviewStep(summarize func(f *Fields) string) FormStep {
	return FormStep{
		Descriptor: stepDescriptor("review", "Review & submit", "Check the entry before it goes to the registry.", false),
		Keys:       []string{keyConfirmSubmit},
		Build: func(f *Fields) *huh.Group {
			return huh.NewGroup(
				huh.NewNote().
					Title("Entry summary").
					Description(summarize(f)),
				huh.NewConfirm().
					Title("Submit this entry to the registry?").
					Affirmative("Submit").
					Negative("Not yet").
					Value(f.Bool(keyConfirmSubmit)),
			)
		},
		Complete: func(f *Fields) bool { return true },
	}
}

// summaryLines renders label/value pairs for the review note.
func summaryLines(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		value := pairs[i+1]
		if strings.TrimSpace(value) == "" {
			value = "(not set)"
		}
		fmt.Fprintf(&b, "%s: %s\n", pairs[i], value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// dropStep removes the step with the given ID from a flow definition.
func dropStep(steps []FormStep, id string) []FormStep {
	out := steps[:0]
	for _, st := range steps {
		if st.Descriptor.ID != id {
			out = append(out, st)
		}
	}
	return out
}
