package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gzhole/hookguard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interactively set the credential, models, and trusted domains",
	Long: `Prompts for the model credential (echo off), the triage and review
model identifiers, and extra trusted domains, then persists the config
file with owner-only permissions. Press Enter at any prompt to keep the
current value.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("config requires an interactive terminal")
	}

	cfg, err := config.Load(func(format string, a ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[hookguard] "+format+"\n", a...)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(os.Stdin)

	fmt.Fprintln(out, "hookguard configuration (Enter keeps the current value)")
	fmt.Fprintln(out)

	keyState := "not set"
	if cfg.Credential.APIKey != "" {
		keyState = "set"
	}
	fmt.Fprintf(out, "API key [%s]: ", keyState)
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("cannot read credential: %w", err)
	}
	if key := strings.TrimSpace(string(keyBytes)); key != "" {
		cfg.Credential.APIKey = key
	}

	cfg.Models.Triage = promptLine(reader, out, "Triage model", cfg.Models.Triage)
	cfg.Models.Review = promptLine(reader, out, "Review model", cfg.Models.Review)

	domains := promptLine(reader, out, "Extra trusted domains (comma-separated)",
		strings.Join(cfg.TrustedDomains, ","))
	cfg.TrustedDomains = splitDomains(domains)

	fmt.Fprintf(out, "Enable audit logging? [%v] (y/n): ", cfg.Logging.Enabled)
	if answer, _ := reader.ReadString('\n'); strings.TrimSpace(answer) != "" {
		cfg.Logging.Enabled = strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintln(out, "configuration saved")
	return nil
}

func promptLine(reader *bufio.Reader, out io.Writer, label, current string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, current)
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		return trimmed
	}
	return current
}

func splitDomains(s string) []string {
	var domains []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			domains = append(domains, trimmed)
		}
	}
	return domains
}
