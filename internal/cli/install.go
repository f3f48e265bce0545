package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the PermissionRequest hook with the host agent",
	Long: `Adds a PermissionRequest hook entry to ~/.claude/settings.json so every
tool call is routed through hookguard before it runs. Existing settings
and unrelated hooks are preserved.`,
	RunE: runInstall,
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the PermissionRequest hook from the host agent",
	RunE:  runUninstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
}

const hookCommand = "hookguard check"

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	hooks := getOrCreateMap(settings, "hooks")
	entries := getOrCreateSlice(hooks, "PermissionRequest")

	for _, entry := range entries {
		if isGuardHookEntry(entry) {
			fmt.Fprintf(cmd.OutOrStdout(), "hook already installed: %s\n", path)
			return nil
		}
	}

	hooks["PermissionRequest"] = append(entries, map[string]any{
		"matcher": "*",
		"hooks": []any{
			map[string]any{
				"type":    "command",
				"command": hookCommand,
			},
		},
	})
	settings["hooks"] = hooks

	if err := writeSettings(path, settings); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PermissionRequest hook installed: %s\n", path)
	fmt.Fprintln(cmd.OutOrStdout(), "Run `hookguard config` to add a model credential for ambiguous commands.")
	return nil
}

func runUninstall(cmd *cobra.Command, args []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "no settings file found; nothing to remove")
		return nil
	}

	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	hooks, ok := settings["hooks"].(map[string]any)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured; nothing to remove")
		return nil
	}

	entries, _ := hooks["PermissionRequest"].([]any)
	filtered := make([]any, 0, len(entries))
	removed := false
	for _, entry := range entries {
		if isGuardHookEntry(entry) {
			removed = true
			continue
		}
		filtered = append(filtered, entry)
	}
	if !removed {
		fmt.Fprintln(cmd.OutOrStdout(), "hookguard hook not present; nothing to remove")
		return nil
	}

	if len(filtered) == 0 {
		delete(hooks, "PermissionRequest")
	} else {
		hooks["PermissionRequest"] = filtered
	}
	if len(hooks) == 0 {
		delete(settings, "hooks")
	} else {
		settings["hooks"] = hooks
	}

	if err := writeSettings(path, settings); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PermissionRequest hook removed: %s\n", path)
	return nil
}

// isGuardHookEntry reports whether a hook entry invokes this binary.
func isGuardHookEntry(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	subHooks, _ := m["hooks"].([]any)
	for _, h := range subHooks {
		if hm, ok := h.(map[string]any); ok && hm["command"] == hookCommand {
			return true
		}
	}
	return false
}

func readSettings(path string) (map[string]any, error) {
	settings := make(map[string]any)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

func getOrCreateMap(parent map[string]any, key string) map[string]any {
	if m, ok := parent[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	parent[key] = m
	return m
}

func getOrCreateSlice(parent map[string]any, key string) []any {
	if s, ok := parent[key].([]any); ok {
		return s
	}
	return nil
}
