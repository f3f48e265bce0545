package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/gzhole/hookguard/internal/checkpoint"
	"github.com/gzhole/hookguard/internal/hook"
	"github.com/gzhole/hookguard/internal/llm"
	"github.com/gzhole/hookguard/internal/patterns"
	"github.com/gzhole/hookguard/internal/rules"
	"github.com/gzhole/hookguard/internal/urltrust"
)

// decideCommand runs the shell-command pipeline: custom rules, instant
// allow, high-risk scan, checkpoint classification, URL trust, then the
// remote cascade. First terminal layer wins.
func (g *Guard) decideCommand(ctx context.Context, in *hook.Input) *Decision {
	command := in.ToolInput.Command
	if strings.TrimSpace(command) == "" {
		return allowDecision(SourceNoCheckpoint, "empty command")
	}

	if match := g.rules.Evaluate(command); match.Verdict != rules.VerdictNone {
		if match.Verdict == rules.VerdictAllow {
			return allowDecision(SourceCustomAllow, "matched custom allow pattern "+match.Pattern)
		}
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         "matched custom block pattern " + match.Pattern,
			Source:         SourceCustomBlock,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage: denyMessage("BLOCKED BY RULE", "command matches your block pattern",
				DefaultTimeoutSeconds, "", nil),
		}
	}

	if checkpoint.IsInstantAllow(command) {
		return allowDecision(SourceInstantAllow, "read-only version-control command")
	}

	if scan := patterns.ScanHighRisk(command); scan.Detected {
		return g.denyHighRisk(scan.Pattern)
	}

	cp := checkpoint.Classify(command)
	if cp == nil {
		return allowDecision(SourceNoCheckpoint, "no sensitive action detected")
	}

	// Even all-trusted URLs never short-circuit script execution; only a
	// plain network checkpoint is eligible.
	if cp.Kind == checkpoint.KindNetwork {
		urls := urltrust.Analyze(command, g.trustedDomains)
		if urls.AllTrusted && !urls.HasRisky {
			return allowDecision(SourceTrustedDomain,
				"all URLs resolve to trusted domains: "+strings.Join(urls.Trusted, ", "))
		}
	}

	if g.client == nil || g.cfg.Credential.APIKey == "" {
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         cp.Description,
			Source:         SourceCheckpoint,
			Checkpoint:     cp,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage: denyMessage(checkpointLabel(cp.Kind), cp.Description,
				DefaultTimeoutSeconds, "", nil),
		}
	}

	return g.runCascade(ctx, in, cp)
}

func (g *Guard) denyHighRisk(p *patterns.Pattern) *Decision {
	return &Decision{
		Behavior:       BehaviorDeny,
		Reason:         p.Description,
		Source:         SourceHighRisk,
		TimeoutSeconds: DefaultTimeoutSeconds,
		UserMessage: denyMessage(severityLabel(p.Severity), p.Description,
			DefaultTimeoutSeconds, p.Risk, p.LegitimateUses),
	}
}

// runCascade drives the triage and review stages and maps their outcomes
// to terminal decisions.
func (g *Guard) runCascade(ctx context.Context, in *hook.Input, cp *checkpoint.Checkpoint) *Decision {
	contextText := fmt.Sprintf("cwd: %s; permission_mode: %s", in.Cwd, in.PermissionMode)

	var triage *llm.TriageResult
	if cp.Kind == checkpoint.KindPackageInstall {
		triage = llm.SynthesizedPackageInstallTriage()
	} else {
		triage = llm.Triage(ctx, g.client, g.cfg.Models.Triage, cp, contextText)
	}

	switch triage.Classification {
	case llm.ClassSelfHandle:
		return allowDecision(SourceHaiku, triage.Reason)
	case llm.ClassBlock:
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         triage.Reason,
			Source:         SourceHaiku,
			Checkpoint:     cp,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage: denyMessage(checkpointLabel(cp.Kind), triage.Reason,
				DefaultTimeoutSeconds, "", nil),
		}
	}

	review := llm.Review(ctx, g.client, g.cfg.Models.Review, cp, contextText, triage)

	switch review.Verdict {
	case llm.VerdictAllow:
		return allowDecision(SourceSonnet, review.Reason)
	case llm.VerdictBlock:
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         review.Reason,
			Source:         SourceSonnet,
			Checkpoint:     cp,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage: denyMessage(checkpointLabel(cp.Kind), review.Reason,
				DefaultTimeoutSeconds, "", nil),
		}
	default: // ASK_USER, including every degraded failure path
		message := review.UserMessage
		if message == "" {
			message = denyMessage(checkpointLabel(cp.Kind), review.Reason,
				DefaultTimeoutSeconds, "", nil)
		}
		return &Decision{
			Behavior:       BehaviorDeny,
			Reason:         review.Reason,
			Source:         SourceSonnet,
			Checkpoint:     cp,
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserMessage:    message,
		}
	}
}

func checkpointLabel(kind checkpoint.Kind) string {
	switch kind {
	case checkpoint.KindScriptExecution:
		return "SCRIPT EXECUTION"
	case checkpoint.KindPackageInstall:
		return "PACKAGE INSTALL"
	case checkpoint.KindGitOperation:
		return "GIT OPERATION"
	case checkpoint.KindNetwork:
		return "NETWORK ACCESS"
	case checkpoint.KindEnvModification:
		return "ENV FILE"
	case checkpoint.KindFileSensitive:
		return "SENSITIVE FILE"
	case checkpoint.KindURLShortener:
		return "SHORTENED URL"
	default:
		return "CHECKPOINT"
	}
}
