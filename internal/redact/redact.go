// Package redact strips credential material from text before it reaches
// the audit log. Commands routinely carry tokens inline (curl headers,
// environment assignments, connection URLs), and an audit file that stores
// them defeats its purpose.
package redact

import "regexp"

const placeholder = "[REDACTED]"

type rule struct {
	re *regexp.Regexp
	// keepPrefix preserves the matched key name and replaces only the
	// value, so the audit trail still shows which credential was present.
	keepPrefix bool
}

var rules = []rule{
	// key=value and key: value assignments for well-known credential names
	{re: regexp.MustCompile(`(?i)((?:api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|session[_-]?token|password|passwd|client[_-]?secret)\s*[=:]\s*)['"]?[^\s'"]{8,}['"]?`), keepPrefix: true},

	// provider token formats
	{re: regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{20,}\b`)},
	{re: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)},
	{re: regexp.MustCompile(`\bgh[poushr]_[A-Za-z0-9]{36,}\b`)},
	{re: regexp.MustCompile(`\bxox[baprs]-[0-9A-Za-z-]{10,}\b`)},
	{re: regexp.MustCompile(`\b[sr]k_live_[0-9a-zA-Z]{24,}\b`)},
	{re: regexp.MustCompile(`\bnpm_[A-Za-z0-9]{36}\b`)},
	{re: regexp.MustCompile(`\beyJ[A-Za-z0-9_-]{20,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\b`)},

	// authorization headers
	{re: regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/-]{16,}=*`), keepPrefix: true},
	{re: regexp.MustCompile(`(?i)(x-api-key:\s*)[^\s'"]{8,}`), keepPrefix: true},

	// credentials embedded in URLs
	{re: regexp.MustCompile(`(https?://)[^/\s:@]+:[^/\s@]+@`), keepPrefix: true},

	// PEM private key headers
	{re: regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`)},
}

// String returns text with every recognized credential replaced.
func String(text string) string {
	for _, r := range rules {
		if r.keepPrefix {
			text = r.re.ReplaceAllString(text, "${1}"+placeholder)
		} else {
			text = r.re.ReplaceAllString(text, placeholder)
		}
	}
	return text
}
