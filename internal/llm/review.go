package llm

import (
	"context"
	"time"

	"github.com/gzhole/hookguard/internal/checkpoint"
	"github.com/gzhole/hookguard/internal/injection"
)

// Review verdicts.
const (
	VerdictAllow   = "ALLOW"
	VerdictAskUser = "ASK_USER"
	VerdictBlock   = "BLOCK"
)

// ReviewAnalysis is the strong model's structured reasoning.
type ReviewAnalysis struct {
	Intent      string   `json:"intent"`
	Risks       []string `json:"risks"`
	Mitigations []string `json:"mitigations"`
}

// ReviewResult is the strong model's verdict on an escalated command.
type ReviewResult struct {
	Verdict     string         `json:"verdict"`
	RiskLevel   string         `json:"risk_level"`
	Reason      string         `json:"reason"`
	Analysis    ReviewAnalysis `json:"analysis"`
	UserMessage string         `json:"user_message"`
}

const (
	reviewTimeout   = 60 * time.Second
	reviewMaxTokens = 1000
)

const reviewFallbackMessage = "The security review could not complete, so this command needs your judgment before it runs."

// Review asks the strong model for a verdict on an escalated command. Any
// failure, including a malformed or out-of-schema reply, degrades to
// ASK_USER at medium risk. A broken review path must never map to ALLOW.
func Review(ctx context.Context, client Client, model string, cp *checkpoint.Checkpoint, contextText string, triage *TriageResult) *ReviewResult {
	callCtx, cancel := context.WithTimeout(ctx, reviewTimeout)
	defer cancel()

	fallback := &ReviewResult{
		Verdict:     VerdictAskUser,
		RiskLevel:   "medium",
		Reason:      "security review unavailable",
		UserMessage: reviewFallbackMessage,
	}

	reply, err := client.Complete(callCtx, Request{
		Model:     model,
		System:    reviewSystemPrompt,
		User:      buildReviewPrompt(cp, contextText, triage),
		MaxTokens: reviewMaxTokens,
	})
	if err != nil {
		fallback.Analysis.Intent = "review call failed: " + err.Error()
		return fallback
	}

	var result ReviewResult
	if err := injection.ExtractJSON(reply, &result); err != nil {
		fallback.Analysis.Intent = "review reply was not parseable JSON"
		return fallback
	}

	switch result.Verdict {
	case VerdictAllow, VerdictAskUser, VerdictBlock:
	default:
		fallback.Analysis.Intent = "review returned an unknown verdict"
		return fallback
	}

	switch result.RiskLevel {
	case "low", "medium", "high", "critical":
	default:
		result.RiskLevel = "medium"
	}

	return &result
}
