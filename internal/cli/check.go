package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/hookguard/internal/config"
	"github.com/gzhole/hookguard/internal/guard"
	"github.com/gzhole/hookguard/internal/hook"
	"github.com/gzhole/hookguard/internal/llm"
	"github.com/gzhole/hookguard/internal/logger"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate one permission request from stdin",
	Long: `Reads a PermissionRequest JSON document from stdin, runs the decision
pipeline, and writes exactly one decision envelope to stdout. All
diagnostics go to stderr. The exit code is 0 even when the decision path
fails internally; a broken guard must fail closed, not crash the agent.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// maxInputSize bounds the stdin read; a permission request is small.
const maxInputSize = 1 << 20

func runCheck(cmd *cobra.Command, args []string) error {
	decision := evaluate(cmd.Context(), cmd.InOrStdin(), cmd.ErrOrStderr())
	return writeEnvelope(cmd.OutOrStdout(), decision)
}

// evaluate runs the full decision path and coerces every failure into a
// deny decision rather than an error.
func evaluate(ctx context.Context, stdin io.Reader, stderr io.Writer) *guard.Decision {
	data, err := io.ReadAll(io.LimitReader(stdin, maxInputSize))
	if err != nil {
		diagf(stderr, "cannot read stdin: %v", err)
		return failClosed("could not read the permission request")
	}

	var in hook.Input
	if err := json.Unmarshal(data, &in); err != nil {
		diagf(stderr, "invalid request JSON: %v", err)
		return failClosed("the permission request was not valid JSON")
	}

	cfg, err := config.Load(func(format string, a ...any) { diagf(stderr, format, a...) })
	if err != nil {
		diagf(stderr, "config load failed: %v", err)
		return failClosed("configuration could not be loaded")
	}

	var client llm.Client
	if cfg.Credential.APIKey != "" {
		client = llm.NewAnthropicClient(cfg.Credential.APIKey, "")
	}

	start := time.Now()
	decision := guard.New(cfg, client, stderr).Decide(ctx, &in)

	if cfg.Logging.Enabled {
		logDecision(cfg, &in, decision, time.Since(start), stderr)
	}
	return decision
}

func failClosed(reason string) *guard.Decision {
	return &guard.Decision{
		Behavior:       guard.BehaviorDeny,
		Reason:         reason,
		Source:         guard.SourceInstantBlock,
		TimeoutSeconds: guard.DefaultTimeoutSeconds,
		UserMessage:    "hookguard could not evaluate this request: " + reason,
	}
}

func writeEnvelope(stdout io.Writer, decision *guard.Decision) error {
	message := decision.UserMessage
	if message == "" && decision.Behavior == guard.BehaviorDeny {
		message = decision.Reason
	}
	out := hook.NewOutput(decision.Behavior, message)

	enc := json.NewEncoder(stdout)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("cannot write decision: %w", err)
	}
	return nil
}

func logDecision(cfg *config.Config, in *hook.Input, decision *guard.Decision, elapsed time.Duration, stderr io.Writer) {
	audit, err := logger.New(cfg.Logging.Path)
	if err != nil {
		diagf(stderr, "audit log unavailable: %v", err)
		return
	}
	defer audit.Close()

	event := logger.Event{
		SessionID:  in.SessionID,
		ToolName:   in.ToolName,
		Command:    in.ToolInput.Command,
		Cwd:        in.Cwd,
		Behavior:   decision.Behavior,
		Source:     decision.Source,
		Reason:     decision.Reason,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
	}
	if decision.Checkpoint != nil {
		event.Checkpoint = string(decision.Checkpoint.Kind)
	}
	if err := audit.Log(event); err != nil {
		diagf(stderr, "audit write failed: %v", err)
	}
}

func diagf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "[hookguard] "+format+"\n", args...)
}
