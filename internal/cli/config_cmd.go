package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/erguvanco/ecm-mrv-sub003/internal/config"
)

// configCmd is the parent "config" namespace command.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Inspect and validate ecm configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// configShowCmd implements "ecm config show": print the fully-resolved
// configuration as TOML, flagging keys the file carries that ecm does not
// know about.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, md, err := loadConfigWithMeta()
		if err != nil {
			return err
		}

		if path == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "# no ecm.toml found; showing defaults")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", path)
		}

		if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}

		if unknown := unknownKeys(md); len(unknown) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "\nwarning: unknown key(s) in config file: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

// configValidateCmd implements "ecm config validate".
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and report issues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, md, err := loadConfigWithMeta()
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "no ecm.toml found; defaults are valid")
			return nil
		}

		result := config.Validate(cfg)
		for _, issue := range result.Errors() {
			fmt.Fprintf(cmd.OutOrStdout(), "error:   %s: %s\n", issue.Field, issue.Message)
		}
		for _, issue := range result.Warnings() {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s: %s\n", issue.Field, issue.Message)
		}
		for _, key := range unknownKeys(md) {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: unknown key %s\n", key)
		}

		if result.HasErrors() {
			return fmt.Errorf("configuration has %d error(s)", len(result.Errors()))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
		return nil
	},
}

// loadConfigWithMeta is loadConfig plus the TOML metadata needed for
// unknown-key reporting. Unlike loadConfig it does not fail on validation
// errors, so `config validate` can print them all.
func loadConfigWithMeta() (*config.Config, string, *toml.MetaData, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, "", nil, fmt.Errorf("resolving working directory: %w", err)
	}

	path := flagConfig
	if path == "" {
		found, err := config.FindConfigFile(cwd)
		if err != nil {
			return nil, "", nil, err
		}
		path = found
	}
	if path == "" {
		return config.NewDefaults(), "", nil, nil
	}

	cfg, md, err := config.LoadFromFile(path)
	if err != nil {
		return nil, path, nil, err
	}
	return cfg, path, &md, nil
}

// unknownKeys returns the dotted names of keys present in the file but not
// mapped to any Config field, sorted.
func unknownKeys(md *toml.MetaData) []string {
	if md == nil {
		return nil
	}
	keys := make([]string, 0, len(md.Undecoded()))
	for _, k := range md.Undecoded() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
