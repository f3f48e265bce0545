package guard

import (
	"context"
	"io"
	"strings"

	"github.com/gzhole/hookguard/internal/config"
	"github.com/gzhole/hookguard/internal/hook"
	"github.com/gzhole/hookguard/internal/llm"
	"github.com/gzhole/hookguard/internal/pathcheck"
	"github.com/gzhole/hookguard/internal/rules"
	"github.com/gzhole/hookguard/internal/urltrust"
)

// mcpToolPrefix marks extension tools proxied through the MCP namespace.
const mcpToolPrefix = "mcp__"

// safeAuxiliaryTools are host tools with no write or execution surface.
var safeAuxiliaryTools = map[string]bool{
	"WebFetch":     true,
	"WebSearch":    true,
	"Task":         true,
	"Glob":         true,
	"Grep":         true,
	"LS":           true,
	"NotebookRead": true,
	"TodoRead":     true,
	"TodoWrite":    true,
}

// Guard evaluates permission requests against the loaded configuration.
// Safe for concurrent use: all state is read-only after construction.
type Guard struct {
	cfg            *config.Config
	rules          *rules.Engine
	client         llm.Client
	trustedDomains []string
	diag           io.Writer
}

// New builds a guard. client may be nil when no credential is configured;
// the pipeline then denies checkpointed commands instead of analyzing them.
func New(cfg *config.Config, client llm.Client, diag io.Writer) *Guard {
	domains := make([]string, 0, len(urltrust.DefaultTrustedDomains)+len(cfg.TrustedDomains))
	domains = append(domains, urltrust.DefaultTrustedDomains...)
	domains = append(domains, cfg.TrustedDomains...)

	return &Guard{
		cfg:            cfg,
		rules:          rules.NewEngine(cfg.CustomPatterns.Allow, cfg.CustomPatterns.Block, diag),
		client:         client,
		trustedDomains: domains,
		diag:           diag,
	}
}

// Decide runs the dispatcher and, for shell commands, the full pipeline.
// It never returns nil and never fails: every error path inside coerces to
// a conservative deny.
func (g *Guard) Decide(ctx context.Context, in *hook.Input) *Decision {
	switch {
	case in.ToolName == "Write" || in.ToolName == "Edit":
		return g.decidePath(in.ToolInput.FilePath, pathcheck.ActionWrite)
	case in.ToolName == "Read":
		return g.decidePath(in.ToolInput.FilePath, pathcheck.ActionRead)
	case in.ToolName == "NotebookEdit":
		return g.decidePath(in.ToolInput.NotebookPath, pathcheck.ActionEdit)
	case in.ToolName == "ExitPlanMode":
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         "plan approval requires a human decision",
			Source:         SourceNonShellTool,
			TimeoutSeconds: PlanApprovalTimeoutSeconds,
			UserMessage:    "PLAN APPROVAL REQUIRED\n\nReview the proposed plan before the agent continues.",
		}
	case strings.HasPrefix(in.ToolName, mcpToolPrefix):
		return g.decideMCPTool(in.ToolName)
	case safeAuxiliaryTools[in.ToolName]:
		return allowDecision(SourceNonShellTool, "safe auxiliary tool")
	case in.ToolName == "Bash":
		return g.decideCommand(ctx, in)
	default:
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         "unrecognized tool name: " + in.ToolName,
			Source:         SourceInstantBlock,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage:    denyMessage("UNKNOWN TOOL", "tool "+in.ToolName+" is not recognized", DefaultTimeoutSeconds, "", nil),
		}
	}
}

func (g *Guard) decidePath(path string, action pathcheck.Action) *Decision {
	result := pathcheck.Check(path, action)
	if !result.Blocked {
		return allowDecision(SourceNonShellTool, "path is not sensitive")
	}
	return &Decision{
		Behavior:       BehaviorDeny,
		Reason:         result.Description,
		Source:         SourceHighRisk,
		TimeoutSeconds: DefaultTimeoutSeconds,
		UserMessage: denyMessage("SENSITIVE FILE", result.Description,
			DefaultTimeoutSeconds, result.Risk, result.LegitimateUses),
	}
}

func (g *Guard) decideMCPTool(toolName string) *Decision {
	for _, entry := range g.cfg.AllowedMCPTools {
		if matchToolEntry(entry, toolName) {
			return allowDecision(SourceNonShellTool, "pre-approved extension tool")
		}
	}
	return &Decision{
		Behavior:       BehaviorDeny,
		Reason:         "extension tool is not pre-approved",
		Source:         SourceNonShellTool,
		TimeoutSeconds: DefaultTimeoutSeconds,
		UserMessage: denyMessage("EXTENSION TOOL", toolName+" requires approval",
			DefaultTimeoutSeconds, "", nil),
	}
}

// matchToolEntry matches a configured tool identifier against the request,
// honoring a trailing * as a prefix wildcard.
func matchToolEntry(entry, toolName string) bool {
	if strings.HasSuffix(entry, "*") {
		return strings.HasPrefix(toolName, strings.TrimSuffix(entry, "*"))
	}
	return entry == toolName
}
