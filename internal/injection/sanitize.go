// Package injection holds the defenses that keep the LLM stages honest:
// input sanitization, injection-signal detection, forced escalation, and
// tolerant JSON extraction from model replies.
//
// The command text is adversarial. Any single defense here can fail;
// correctness comes from running them in conjunction.
package injection

import (
	"regexp"
	"strings"
)

// MaxSanitizedLen bounds the command text interpolated into any prompt.
const MaxSanitizedLen = 2000

const truncationMarker = "… [truncated]"

var newlineRunRe = regexp.MustCompile(`\n{3,}`)

// Sanitize produces an owned, bounded copy of the command that is safe to
// embed inside a CDATA-framed prompt: CDATA closers neutralized, runs of
// three or more newlines collapsed to two, then clamped to MaxSanitizedLen
// with a trailing truncation marker. Escaping runs before the clamp so the
// bound holds on the final string, which also makes Sanitize idempotent on
// its own output.
func Sanitize(command string) string {
	s := strings.ReplaceAll(command, "]]>", "]]&gt;")
	s = newlineRunRe.ReplaceAllString(s, "\n\n")
	if len(s) > MaxSanitizedLen {
		cut := MaxSanitizedLen - len(truncationMarker)
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + truncationMarker
	}
	return s
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// XMLEscape escapes the five XML special characters. Applied after
// Sanitize, immediately before interpolation into a prompt document.
func XMLEscape(s string) string {
	return xmlEscaper.Replace(s)
}
