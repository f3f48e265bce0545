// Package patterns holds the built-in detection corpora used by the guard
// pipeline: the high-risk command signatures and the shared Pattern type
// consumed by the path-sensitivity and checkpoint layers.
//
// Every regex in this package is compiled once at init, is case-insensitive
// unless exact punctuation is load-bearing, and carries no stateful matching
// flags: testing a pattern twice against the same input always yields the
// same result.
package patterns

import "regexp"

// Severity ranks how damaging a matched command is expected to be.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Pattern is a single built-in detection signature.
type Pattern struct {
	// Name is a short stable identifier (e.g., "reverse_shell_dev_tcp").
	Name string

	// Regex is the compiled signature. Stateless; safe for concurrent use.
	Regex *regexp.Regexp

	// Severity indicates impact when the pattern matches.
	Severity Severity

	// Description names what the command shape is.
	Description string

	// Risk is a one-sentence, user-facing statement of the harm.
	Risk string

	// LegitimateUses lists the rare benign reasons the shape appears.
	LegitimateUses []string
}

// Match reports whether the pattern fires for the given command.
func (p *Pattern) Match(command string) bool {
	return p.Regex.MatchString(command)
}

// ScanResult is the outcome of walking a pattern corpus.
type ScanResult struct {
	Detected bool
	Pattern  *Pattern
}

// scan walks an ordered corpus and returns the first match. Ordering inside
// each family is part of the corpus contract.
func scan(corpus []Pattern, command string) ScanResult {
	for i := range corpus {
		if corpus[i].Match(command) {
			return ScanResult{Detected: true, Pattern: &corpus[i]}
		}
	}
	return ScanResult{}
}

func mustCompile(expr string) *regexp.Regexp {
	return regexp.MustCompile(expr)
}
