package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/flows"
	"github.com/erguvanco/ecm-mrv-sub003/internal/registry"
	"github.com/erguvanco/ecm-mrv-sub003/internal/tui"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

// entryCmd launches the interactive entry flow for one of the three data
// entry types. An existing draft for the same flow is resumed at the step
// it was left on.
var entryCmd = &cobra.Command{
	Use:   "entry <feedstock|production|sequestration>",
	Short: "Record a new entry through a step-by-step flow",
	Long: `Start (or resume) a guided entry flow. Answers are saved after every
step, so an interrupted session picks up where it left off. On the final
review step the entry is submitted to the configured registry; without a
registry the draft simply stays saved for a later ` + "`ecm push`" + `.`,
	ValidArgs: flows.Names(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		flow, err := flows.ByName(args[0], cfg.Flows)
		if err != nil {
			return err
		}

		drafts, closeStore, err := openDraftStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		state := wizard.NewState(flow.Descriptors(),
			wizard.WithStorage(drafts, flow.SnapshotKey()),
			wizard.WithInitialData(seedData(cfg)),
		)
		state.Initialize()
		ctrl := wizard.NewController(state)

		var submitter tui.Submitter
		if cfg.Registry.BaseURL != "" {
			client, err := registry.NewClient(cfg.Registry)
			if err != nil {
				return err
			}
			submitter = client
		}

		outcome, err := tui.Run(flow, ctrl, submitter)
		if err != nil {
			return err
		}

		switch outcome {
		case tui.OutcomeSubmitted:
			fmt.Fprintf(cmd.OutOrStdout(), "%s entry submitted to the registry.\n", flow.Title)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "Draft saved. Run `ecm entry %s` to continue.\n", flow.Name)
		}
		return nil
	},
}

// seedData pre-fills the data bag with the facility context every entry of
// this deployment shares. A resumed snapshot overrides the seed.
func seedData(cfg *config.Config) map[string]any {
	seed := map[string]any{}
	if cfg.Project.FacilityID != "" {
		seed["facility_id"] = cfg.Project.FacilityID
	}
	if cfg.Project.Operator != "" {
		seed["operator"] = cfg.Project.Operator
	}
	return seed
}

func init() {
	rootCmd.AddCommand(entryCmd)
}
