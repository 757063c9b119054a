package cli

import (
	"fmt"
	"os"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
	"github.com/erguvanco/ecm-mrv-sub003/internal/store"
	"github.com/erguvanco/ecm-mrv-sub003/internal/wizard"
)

// draftStore is the snapshot store surface the commands need: the wizard's
// persistence port plus listing for `ecm drafts` and `ecm push`.
type draftStore interface {
	wizard.Store
	store.Lister
}

// loadConfig resolves the configuration for the current invocation,
// honoring --config and the working directory (already adjusted by --dir).
func loadConfig() (*config.Config, string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("resolving working directory: %w", err)
	}
	return config.Load(cwd, flagConfig)
}

// openDraftStore opens the snapshot store backend selected by the config.
// The returned closer is a no-op for the file backend.
func openDraftStore(cfg *config.Config) (draftStore, func() error, error) {
	switch cfg.Storage.Backend {
	case "file", "":
		fs, err := store.NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case "sqlite":
		ss, err := store.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return ss, ss.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
