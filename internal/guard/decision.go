// Package guard is the decision pipeline: a layered classifier that turns a
// permission request into an allow-or-deny decision, escalating through the
// remote models only when no deterministic layer settles it.
package guard

import (
	"fmt"
	"strings"

	"github.com/gzhole/hookguard/internal/checkpoint"
	"github.com/gzhole/hookguard/internal/patterns"
)

// Behaviors understood by the host agent.
const (
	BehaviorAllow = "allow"
	BehaviorDeny  = "deny"
)

// Sources identify which pipeline layer produced the decision.
const (
	SourceInstantAllow  = "instant-allow"
	SourceInstantBlock  = "instant-block"
	SourceHighRisk      = "high-risk"
	SourceTrustedDomain = "trusted-domain"
	SourceNoCheckpoint  = "no-checkpoint"
	SourceCheckpoint    = "checkpoint"
	SourceNonShellTool  = "non-shell-tool"
	SourceHaiku         = "haiku"
	SourceSonnet        = "sonnet"
	SourceCustomAllow   = "custom-allow"
	SourceCustomBlock   = "custom-block"
)

const (
	// DefaultTimeoutSeconds is the auto-deny window for ordinary denials.
	DefaultTimeoutSeconds = 7
	// PlanApprovalTimeoutSeconds keeps a plan-approval request open long
	// enough for an operator who is away from the terminal.
	PlanApprovalTimeoutSeconds = 72 * 60 * 60
)

// Decision is the pipeline's final word on one request. Immutable after
// construction; the host adapter translates it to wire form.
type Decision struct {
	Behavior       string
	Reason         string
	Source         string
	Checkpoint     *checkpoint.Checkpoint
	UserMessage    string
	TimeoutSeconds int
}

func allowDecision(source, reason string) *Decision {
	return &Decision{Behavior: BehaviorAllow, Source: source, Reason: reason}
}

// denyMessage composes the standard warning text shown to the operator
// before an auto-deny commits.
func denyMessage(label, reason string, timeoutSeconds int, risk string, legitimateUses []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s (Auto-reject in %ds)", label, reason, timeoutSeconds)
	if risk != "" {
		fmt.Fprintf(&b, "\n\nPotential risk: %s", risk)
	}
	if len(legitimateUses) > 0 {
		fmt.Fprintf(&b, "\nCommon uses: %s", strings.Join(legitimateUses, ", "))
	}
	b.WriteString("\n\nOnly proceed if you know what you're doing.")
	return b.String()
}

func severityLabel(severity patterns.Severity) string {
	switch severity {
	case patterns.SeverityCritical:
		return "CRITICAL"
	case patterns.SeverityHigh:
		return "HIGH RISK"
	default:
		return "CAUTION"
	}
}
