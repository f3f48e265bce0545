// Package cli wires the cobra commands: install, uninstall, config, status,
// pack, log, version, and the check command the host agent invokes per
// permission request.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hookguard",
	Short: "hookguard - pre-execution command guard for coding agents",
	Long: `hookguard intercepts permission requests from an LLM coding agent and
decides, before anything runs, whether to allow, deny, or defer to you.
Deterministic pattern layers answer in microseconds; ambiguous commands
escalate through a two-stage model review when a credential is configured.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}
