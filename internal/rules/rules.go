// Package rules applies user-supplied allow and block regexes ahead of the
// built-in checks, so operators can override the shipped corpus.
//
// User patterns are untrusted input to the regex compiler. Two safeguards
// bound the damage a bad pattern can do: nested-quantifier patterns are
// refused outright, and the candidate command is clamped before matching.
package rules

import (
	"fmt"
	"io"
	"regexp"
)

// maxCandidateLen clamps the command before any user pattern runs, so even
// a pathological pattern that survives the syntactic guard cannot match
// against unbounded input.
const maxCandidateLen = 2048

// nestedQuantifierRe spots the (x+)+ / (x*)+ / (x+)* shapes, including
// non-capturing variants, which are the classic catastrophic-backtracking
// constructions users copy from other engines.
var nestedQuantifierRe = regexp.MustCompile(`\((\?:)?[^()]*[+*]\s*\)[+*]`)

// Verdict is the outcome of evaluating the custom rule layer.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictAllow
	VerdictBlock
)

// Match describes which user pattern decided the command.
type Match struct {
	Verdict Verdict
	Pattern string
}

// Engine holds the user's compiled allow and block patterns.
type Engine struct {
	allow []*regexp.Regexp
	block []*regexp.Regexp
}

// NewEngine compiles the user's pattern lists. Patterns that fail the
// nested-quantifier guard or fail to compile are skipped with a warning on
// the diagnostic sink and treated as no-match.
func NewEngine(allowPatterns, blockPatterns []string, diag io.Writer) *Engine {
	return &Engine{
		allow: compileAll(allowPatterns, diag),
		block: compileAll(blockPatterns, diag),
	}
}

// Evaluate tests the command against the allow list first, then the block
// list. The first hit wins; no hit returns VerdictNone.
func (e *Engine) Evaluate(command string) Match {
	candidate := command
	if len(candidate) > maxCandidateLen {
		candidate = candidate[:maxCandidateLen]
	}

	for _, re := range e.allow {
		if re.MatchString(candidate) {
			return Match{Verdict: VerdictAllow, Pattern: re.String()}
		}
	}
	for _, re := range e.block {
		if re.MatchString(candidate) {
			return Match{Verdict: VerdictBlock, Pattern: re.String()}
		}
	}
	return Match{}
}

func compileAll(sources []string, diag io.Writer) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		if src == "" {
			continue
		}
		if nestedQuantifierRe.MatchString(src) {
			warn(diag, "custom pattern %q refused: nested quantifier", src)
			continue
		}
		re, err := regexp.Compile(`(?i)` + src)
		if err != nil {
			warn(diag, "custom pattern %q ignored: %v", src, err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

func warn(diag io.Writer, format string, args ...any) {
	if diag == nil {
		return
	}
	fmt.Fprintf(diag, "[hookguard] warning: "+format+"\n", args...)
}
