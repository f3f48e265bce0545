package llm

import (
	"context"
	"time"

	"github.com/gzhole/hookguard/internal/checkpoint"
	"github.com/gzhole/hookguard/internal/injection"
)

// Triage classifications.
const (
	ClassSelfHandle = "SELF_HANDLE"
	ClassEscalate   = "ESCALATE"
	ClassBlock      = "BLOCK"
)

// TriageResult is the cheap model's classification of a checkpointed command.
type TriageResult struct {
	Classification string   `json:"classification"`
	Reason         string   `json:"reason"`
	RiskIndicators []string `json:"risk_indicators"`
}

const (
	triageTimeout   = 30 * time.Second
	triageMaxTokens = 500
)

// Triage asks the cheap model to classify the checkpointed command. It never
// returns an error: any failure collapses into ESCALATE with a tagged risk
// indicator, so the review stage sees everything the triage could not clear.
func Triage(ctx context.Context, client Client, model string, cp *checkpoint.Checkpoint, contextText string) *TriageResult {
	callCtx, cancel := context.WithTimeout(ctx, triageTimeout)
	defer cancel()

	reply, err := client.Complete(callCtx, Request{
		Model:     model,
		System:    triageSystemPrompt,
		User:      buildTriagePrompt(cp, contextText),
		MaxTokens: triageMaxTokens,
	})
	if err != nil {
		indicator := "triage_error"
		if callCtx.Err() == context.DeadlineExceeded {
			indicator = "triage_timeout"
		}
		return &TriageResult{
			Classification: ClassEscalate,
			Reason:         "triage call failed: " + err.Error(),
			RiskIndicators: []string{indicator},
		}
	}

	var result TriageResult
	if err := injection.ExtractJSON(reply, &result); err != nil {
		return &TriageResult{
			Classification: ClassEscalate,
			Reason:         "triage reply was not parseable JSON",
			RiskIndicators: []string{"triage_error"},
		}
	}

	switch result.Classification {
	case ClassSelfHandle, ClassEscalate, ClassBlock:
	default:
		return &TriageResult{
			Classification: ClassEscalate,
			Reason:         "triage returned an unknown classification",
			RiskIndicators: []string{"triage_error"},
		}
	}

	// A successful prompt injection would most likely surface as
	// SELF_HANDLE on a structurally dangerous command.
	if result.Classification == ClassSelfHandle && injection.ShouldForceEscalate(cp.OriginalCommand) {
		result.Classification = ClassEscalate
		result.RiskIndicators = append(result.RiskIndicators, "forced_escalation")
	}

	return &result
}

// SynthesizedPackageInstallTriage returns the triage result used when the
// checkpoint kind skips the triage call entirely. No network call is made.
func SynthesizedPackageInstallTriage() *TriageResult {
	return &TriageResult{
		Classification: ClassEscalate,
		Reason:         "package installation runs third-party install scripts and changes the dependency tree; always reviewed by the strong model",
		RiskIndicators: []string{"supply_chain"},
	}
}
