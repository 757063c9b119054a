package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/flows"
)

// draftSnapshot mirrors the wizard's snapshot wire format for read-only
// inspection by the drafts and push commands.
type draftSnapshot struct {
	CurrentStepIndex int            `json:"current_step_index"`
	Data             map[string]any `json:"data"`
}

// draftsCmd is the parent "drafts" namespace command.
var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Inspect and manage saved entry drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// draftsListCmd implements "ecm drafts list".
var draftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved drafts and the step each one is on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		drafts, closeStore, err := openDraftStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		keys, err := drafts.List()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "FLOW\tSTEP\tFIELDS")

		found := 0
		for _, key := range keys {
			name := flows.SnapshotKeyFlow(key)
			if name == "" {
				continue
			}
			found++

			value, ok, err := drafts.Get(key)
			if err != nil || !ok {
				fmt.Fprintf(w, "%s\t?\t?\n", name)
				continue
			}
			var snap draftSnapshot
			if err := json.Unmarshal(value, &snap); err != nil {
				fmt.Fprintf(w, "%s\t(unreadable)\t-\n", name)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", name, draftStepLabel(name, cfg.Flows, snap), countSetFields(snap.Data))
		}

		if found == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved drafts.")
		}
		return nil
	},
}

// draftsDiscardCmd implements "ecm drafts discard <flow>".
var draftsDiscardCmd = &cobra.Command{
	Use:       "discard <feedstock|production|sequestration>",
	Short:     "Delete the saved draft for a flow",
	ValidArgs: flows.Names(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		drafts, closeStore, err := openDraftStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		fl, err := flows.ByName(args[0], cfg.Flows)
		if err != nil {
			return err
		}

		if _, ok, _ := drafts.Get(fl.SnapshotKey()); !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "No draft for %s.\n", fl.Name)
			return nil
		}
		if err := drafts.Delete(fl.SnapshotKey()); err != nil {
			return fmt.Errorf("discarding %s draft: %w", fl.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Discarded %s draft.\n", fl.Name)
		return nil
	},
}

// draftStepLabel resolves the snapshot's step index to the step title,
// clamping out-of-range indexes the same way the engine does on resume.
func draftStepLabel(flowName string, cfg config.FlowsConfig, snap draftSnapshot) string {
	fl, err := flows.ByName(flowName, cfg)
	if err != nil || len(fl.Steps) == 0 {
		return "?"
	}
	i := snap.CurrentStepIndex
	if i < 0 {
		i = 0
	}
	if i >= len(fl.Steps) {
		i = len(fl.Steps) - 1
	}
	return fmt.Sprintf("%d/%d %s", i+1, len(fl.Steps), fl.Steps[i].Descriptor.Title)
}

// countSetFields counts non-empty values in a draft's data bag.
func countSetFields(data map[string]any) int {
	n := 0
	for _, v := range data {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		n++
	}
	return n
}

func init() {
	draftsCmd.AddCommand(draftsListCmd)
	draftsCmd.AddCommand(draftsDiscardCmd)
	rootCmd.AddCommand(draftsCmd)
}
