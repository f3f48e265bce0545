package injection

import "regexp"

// injectionPatterns cover the phrasings an attacker embeds in a command to
// steer the triage or review model. Grouped by technique; all
// case-insensitive.
var injectionPatterns = compilePatterns([]string{
	// Instruction override
	`(?i)(ignore|forget|disregard|override)\s+(all\s+)?(the\s+)?(previous|prior|above|earlier)\s+(instructions?|rules?|prompts?)`,
	`(?i)bypass\s+(the\s+)?security`,

	// Role reassignment
	`(?i)you\s+are\s+now\s+a`,
	`(?i)\bact\s+as\b`,
	`(?i)pretend\s+to\s+be`,

	// Chat-role markers
	`(?i)^\s*(system|assistant|human|user)\s*:`,
	`(?i)\n\s*(system|assistant|human|user)\s*:`,
	`(?i)<\s*(system|instructions)\s*>`,

	// Emphasis injection
	`(?i)\b(IMPORTANT|NOTE|WARNING|CRITICAL|URGENT)\s*:`,

	// Output-shape hijack
	`(?i)respond\s+with\s+this\s+json`,
	`(?i)return\s+ALLOW`,
	`(?i)always\s+return`,

	// Context-escape claims
	`(?i)this\s+(command\s+)?(is|was)\s+(pre-?approved|already\s+verified)`,
	`(?i)for\s+testing\s+purposes`,

	// Direct verdict injection
	`(?i)verdict\s*[=:]\s*["']?ALLOW`,
	`(?i)classification\s*[=:]\s*["']?SELF_HANDLE`,
})

// Detect reports whether the command carries prompt-injection phrasing or
// unicode smuggling characters.
func Detect(command string) bool {
	for _, re := range injectionPatterns {
		if re.MatchString(command) {
			return true
		}
	}
	return hasSmuggledRunes(command)
}

// forceEscalatePatterns are structural danger markers that must never ride
// through triage as SELF_HANDLE: a successful injection would most likely
// surface exactly there.
var forceEscalatePatterns = compilePatterns([]string{
	`(?i)(curl|wget)[^|]*\|`,
	`(?i)\|\s*(ba|z|k)?sh\b`,
	`(?i)\bbase64\b`,
	`(?i)\beval\s*\(`,
	`\$\(`,
	"`",
	`/dev/tcp/`,
	`(?i)\b(nc|ncat)\b[^;|&]*\s-[a-z]*[elp]`,
	`(?i)\bsudo\b`,
	`(?i)\bsu\s+-`,
	`(?i)\bchmod\s+[0-7]*[1357][0-7]{2}\b`,
	`(?i)\bchmod\s+\+x\b`,
	`(?i)\.env\b`,
	`(^|[\s"'=])/(etc|root|home)(/|\s|$)`,
})

// ShouldForceEscalate reports whether a SELF_HANDLE triage verdict must be
// lifted back to ESCALATE for this raw command.
func ShouldForceEscalate(command string) bool {
	if Detect(command) {
		return true
	}
	for _, re := range forceEscalatePatterns {
		if re.MatchString(command) {
			return true
		}
	}
	return false
}

func compilePatterns(sources []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(sources))
	for i, src := range sources {
		compiled[i] = regexp.MustCompile(src)
	}
	return compiled
}
