package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/flows"
	"github.com/erguvanco/ecm-mrv-sub003/internal/registry"
)

// pushCmd implements "ecm push": submit every completed draft to the
// registry. A draft counts as completed once its review step's submit
// confirm was answered yes; drafts still mid-flow are left alone.
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Submit completed drafts to the registry",
	Long: `Submit every completed draft to the configured registry. Drafts end up
here when an interactive submission failed (offline facility, registry
outage) and the entry was kept locally. Successfully submitted drafts are
removed; failures stay saved for the next push.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Registry.BaseURL == "" {
			return fmt.Errorf("no registry configured; set [registry] base_url in %s", config.ConfigFileName)
		}

		drafts, closeStore, err := openDraftStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		pending, skipped, err := collectCompletedDrafts(drafts)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			if skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No completed drafts to push (%d in progress).\n", skipped)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to push.")
			}
			return nil
		}

		client, err := registry.NewClient(cfg.Registry)
		if err != nil {
			return err
		}

		results, err := client.PushAll(cmd.Context(), pending, cfg.Registry.PushConcurrency)
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "failed   %s: %v\n", flows.SnapshotKeyFlow(res.Key), res.Err)
				continue
			}
			if err := drafts.Delete(res.Key); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "submitted %s (warning: draft not removed: %v)\n", flows.SnapshotKeyFlow(res.Key), err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted %s\n", flows.SnapshotKeyFlow(res.Key))
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d draft(s) failed to submit", failed, len(results))
		}
		return nil
	},
}

// collectCompletedDrafts reads every flow snapshot and returns the ones
// whose review confirm was answered, plus a count of in-progress drafts.
func collectCompletedDrafts(drafts draftStore) ([]registry.Draft, int, error) {
	keys, err := drafts.List()
	if err != nil {
		return nil, 0, fmt.Errorf("listing drafts: %w", err)
	}

	var pending []registry.Draft
	skipped := 0
	for _, key := range keys {
		name := flows.SnapshotKeyFlow(key)
		if name == "" {
			continue
		}
		value, ok, err := drafts.Get(key)
		if err != nil || !ok {
			continue
		}
		var snap draftSnapshot
		if err := json.Unmarshal(value, &snap); err != nil {
			// Unreadable snapshots are not pushed; `ecm drafts discard`
			// clears them.
			skipped++
			continue
		}
		confirmed, _ := snap.Data["confirm_submit"].(bool)
		if !confirmed {
			skipped++
			continue
		}
		pending = append(pending, registry.Draft{Key: key, Flow: name, Payload: snap.Data})
	}
	return pending, skipped, nil
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
