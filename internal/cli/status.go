package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gzhole/hookguard/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the guard is installed and able to decide",
	Long: `Reports the hook registration in the host agent's settings, the
credential state, the models in use, loaded rule packs, and the audit log.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "hookguard %s\n\n", Version)

	cfg, err := config.Load(func(format string, a ...any) { diagf(cmd.ErrOrStderr(), format, a...) })
	if err != nil {
		fmt.Fprintf(out, "config:      BROKEN (%v)\n", err)
		fmt.Fprintln(out, "\nEvery request will be denied until the config parses again.")
		return nil
	}
	fmt.Fprintf(out, "config:      %s\n", filepath.Join(cfg.ConfigDir, config.DefaultConfigFile))

	switch {
	case os.Getenv(config.APIKeyEnvVar) != "":
		fmt.Fprintf(out, "credential:  set via %s\n", config.APIKeyEnvVar)
	case cfg.Credential.APIKey != "":
		fmt.Fprintln(out, "credential:  set in config file")
	default:
		fmt.Fprintln(out, "credential:  NOT SET (ambiguous commands deny instead of being reviewed)")
	}

	fmt.Fprintf(out, "models:      triage=%s review=%s\n", cfg.Models.Triage, cfg.Models.Review)

	installed, path, err := hookInstalled()
	switch {
	case err != nil:
		fmt.Fprintf(out, "hook:        unknown (%v)\n", err)
	case installed:
		fmt.Fprintf(out, "hook:        installed in %s\n", path)
	default:
		fmt.Fprintf(out, "hook:        NOT INSTALLED (run `hookguard install`)\n")
	}

	enabled, disabled := countPacks(filepath.Join(cfg.ConfigDir, config.PackDir))
	fmt.Fprintf(out, "rule packs:  %d enabled, %d disabled\n", enabled, disabled)

	if !cfg.Logging.Enabled {
		fmt.Fprintln(out, "audit log:   disabled")
		return nil
	}
	info, err := os.Stat(cfg.Logging.Path)
	if err != nil {
		fmt.Fprintf(out, "audit log:   %s (no events yet)\n", cfg.Logging.Path)
	} else {
		fmt.Fprintf(out, "audit log:   %s (%d KB)\n", cfg.Logging.Path, info.Size()/1024)
	}
	return nil
}

// hookInstalled checks the host agent settings for the guard's
// PermissionRequest entry.
func hookInstalled() (bool, string, error) {
	path, err := settingsPath()
	if err != nil {
		return false, "", err
	}
	settings, err := readSettings(path)
	if err != nil {
		return false, path, err
	}
	hooks, _ := settings["hooks"].(map[string]any)
	entries, _ := hooks["PermissionRequest"].([]any)
	for _, entry := range entries {
		if isGuardHookEntry(entry) {
			return true, path, nil
		}
	}
	return false, path, nil
}

func countPacks(dir string) (enabled, disabled int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if entry.Name()[0] == '_' {
			disabled++
		} else {
			enabled++
		}
	}
	return enabled, disabled
}
