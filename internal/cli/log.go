package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/hookguard/internal/config"
	"github.com/gzhole/hookguard/internal/logger"
)

var (
	logFilterBehavior string
	logFilterSource   string
	logLast           int
	logSummary        bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the hookguard audit log with filtering and summary options.

Examples:
  hookguard log                   # show all entries
  hookguard log --last 20         # show last 20 entries
  hookguard log --behavior deny   # show only denied requests
  hookguard log --source haiku    # show only triage-decided requests
  hookguard log --summary         # show summary statistics`,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterBehavior, "behavior", "", "Filter by behavior (allow, deny)")
	logCmd.Flags().StringVar(&logFilterSource, "source", "", "Filter by decision source")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(func(format string, a ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[hookguard] "+format+"\n", a...)
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	events, err := readAuditLog(cfg.Logging.Path)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "no audit log entries found")
		return nil
	}

	filtered := filterEvents(events)
	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}

	if logSummary {
		printSummary(out, events)
		return nil
	}

	printEvents(out, filtered)
	return nil
}

func readAuditLog(path string) ([]logger.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []logger.Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		var event logger.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func filterEvents(events []logger.Event) []logger.Event {
	if logFilterBehavior == "" && logFilterSource == "" {
		return events
	}

	var filtered []logger.Event
	for _, e := range events {
		if logFilterBehavior != "" && !strings.EqualFold(e.Behavior, logFilterBehavior) {
			continue
		}
		if logFilterSource != "" && !strings.EqualFold(e.Source, logFilterSource) {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(out io.Writer, events []logger.Event) {
	for _, e := range events {
		subject := e.Command
		if subject == "" {
			subject = e.ToolName
		}
		fmt.Fprintf(out, "%-5s %s %s\n", e.Behavior, formatTimestamp(e.Timestamp), subject)
		fmt.Fprintf(out, "      source: %s", e.Source)
		if e.Checkpoint != "" {
			fmt.Fprintf(out, "  checkpoint: %s", e.Checkpoint)
		}
		fmt.Fprintln(out)
		if e.Reason != "" {
			fmt.Fprintf(out, "      reason: %s\n", e.Reason)
		}
		if e.Cwd != "" {
			fmt.Fprintf(out, "      cwd: %s\n", e.Cwd)
		}
		fmt.Fprintln(out)
	}
}

func printSummary(out io.Writer, all []logger.Event) {
	behaviors := map[string]int{}
	sources := map[string]int{}
	for _, e := range all {
		behaviors[e.Behavior]++
		sources[e.Source]++
	}

	fmt.Fprintln(out, "hookguard audit summary")
	fmt.Fprintf(out, "  total events: %d\n", len(all))
	fmt.Fprintf(out, "  allowed:      %d\n", behaviors["allow"])
	fmt.Fprintf(out, "  denied:       %d\n", behaviors["deny"])
	fmt.Fprintln(out, "  by source:")
	for source, count := range sources {
		fmt.Fprintf(out, "    %-16s %d\n", source, count)
	}
	if len(all) > 0 {
		fmt.Fprintf(out, "  first event: %s\n", formatTimestamp(all[0].Timestamp))
		fmt.Fprintf(out, "  last event:  %s\n", formatTimestamp(all[len(all)-1].Timestamp))
	}

	var denied []logger.Event
	for _, e := range all {
		if e.Behavior == "deny" && e.Command != "" {
			denied = append(denied, e)
		}
	}
	if len(denied) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  recent denied commands:")
		limit := len(denied)
		if limit > 10 {
			limit = 10
		}
		for _, e := range denied[len(denied)-limit:] {
			fmt.Fprintf(out, "    %s %s\n", formatTimestamp(e.Timestamp), e.Command)
		}
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
