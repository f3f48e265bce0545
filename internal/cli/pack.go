package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gzhole/hookguard/internal/config"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Manage rule packs",
	Long: `Rule packs are YAML files under ~/.hookguard/packs/ that contribute
allow patterns, block patterns, and trusted domains on top of the config
file. A leading underscore on the filename disables a pack without
deleting it.`,
}

var packListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed rule packs",
	RunE:  runPackList,
}

var packEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a disabled rule pack",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackEnable,
}

var packDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a rule pack without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPackDisable,
}

func init() {
	packCmd.AddCommand(packListCmd)
	packCmd.AddCommand(packEnableCmd)
	packCmd.AddCommand(packDisableCmd)
	rootCmd.AddCommand(packCmd)
}

func packsDir() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	packDir := filepath.Join(dir, config.PackDir)
	if err := os.MkdirAll(packDir, 0700); err != nil {
		return "", err
	}
	return packDir, nil
}

func runPackList(cmd *cobra.Command, args []string) error {
	dir, err := packsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	listed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		state := "enabled"
		display := strings.TrimSuffix(name, ext)
		if strings.HasPrefix(name, "_") {
			state = "disabled"
			display = strings.TrimPrefix(display, "_")
		}
		fmt.Fprintf(out, "%-30s %s\n", display, state)
		listed++
	}
	if listed == 0 {
		fmt.Fprintf(out, "no rule packs installed; drop YAML files into %s\n", dir)
	}
	return nil
}

func runPackEnable(cmd *cobra.Command, args []string) error {
	dir, err := packsDir()
	if err != nil {
		return err
	}
	name := args[0]

	for _, ext := range []string{".yaml", ".yml"} {
		disabled := filepath.Join(dir, "_"+name+ext)
		enabled := filepath.Join(dir, name+ext)
		if _, err := os.Stat(disabled); err == nil {
			if err := os.Rename(disabled, enabled); err != nil {
				return fmt.Errorf("cannot enable pack %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pack %s enabled\n", name)
			return nil
		}
		if _, err := os.Stat(enabled); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "pack %s is already enabled\n", name)
			return nil
		}
	}
	return fmt.Errorf("pack %s not found in %s", name, dir)
}

func runPackDisable(cmd *cobra.Command, args []string) error {
	dir, err := packsDir()
	if err != nil {
		return err
	}
	name := args[0]

	for _, ext := range []string{".yaml", ".yml"} {
		enabled := filepath.Join(dir, name+ext)
		disabled := filepath.Join(dir, "_"+name+ext)
		if _, err := os.Stat(enabled); err == nil {
			if err := os.Rename(enabled, disabled); err != nil {
				return fmt.Errorf("cannot disable pack %s: %w", name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pack %s disabled\n", name)
			return nil
		}
		if _, err := os.Stat(disabled); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "pack %s is already disabled\n", name)
			return nil
		}
	}
	return fmt.Errorf("pack %s not found in %s", name, dir)
}
