// Package urltrust extracts URLs from shell commands and resolves each
// against the configured trusted-domain set, with exclusions for
// user-controlled hosting and for risky paths under otherwise trusted hosts.
package urltrust

import (
	"net/url"
	"regexp"
	"strings"
)

// Result summarizes every URL found in a command.
type Result struct {
	URLs       []string
	Trusted    []string
	Untrusted  []string
	Risky      []string
	AllTrusted bool
	HasRisky   bool
}

// DefaultTrustedDomains seed the config; the user extends the list.
var DefaultTrustedDomains = []string{
	"github.com",
	"api.github.com",
	"gitlab.com",
	"golang.org",
	"go.dev",
	"pkg.go.dev",
	"npmjs.com",
	"registry.npmjs.org",
	"pypi.org",
	"files.pythonhosted.org",
	"crates.io",
	"rubygems.org",
	"docker.com",
	"hub.docker.com",
	"anthropic.com",
	"docs.anthropic.com",
	"stackoverflow.com",
	"developer.mozilla.org",
}

var urlRe = regexp.MustCompile(`https?://[^ \t\n"'<>]+`)

// riskySubdomains are hosts whose content is user-controlled even though
// the parent organization is reputable: bucket storage, user pages,
// deployment platforms. A match here disqualifies the host from trust.
var riskySubdomains = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.s3[.-][a-z0-9-]*\.?amazonaws\.com$`),
	regexp.MustCompile(`(?i)^s3\.amazonaws\.com$`),
	regexp.MustCompile(`(?i)^storage\.googleapis\.com$`),
	regexp.MustCompile(`(?i)\.blob\.core\.windows\.net$`),
	regexp.MustCompile(`(?i)\.github\.io$`),
	regexp.MustCompile(`(?i)\.gitlab\.io$`),
	regexp.MustCompile(`(?i)\.netlify\.app$`),
	regexp.MustCompile(`(?i)\.vercel\.app$`),
	regexp.MustCompile(`(?i)\.web\.app$`),
	regexp.MustCompile(`(?i)\.firebaseapp\.com$`),
	regexp.MustCompile(`(?i)\.herokuapp\.com$`),
	regexp.MustCompile(`(?i)\.pages\.dev$`),
	regexp.MustCompile(`(?i)\.workers\.dev$`),
}

// riskyURLPatterns flag paths that serve raw user content or executable
// installers from hosts that are otherwise trusted. They do not deny by
// themselves; they suppress the trusted-domain short circuit.
var riskyURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?://raw\.githubusercontent\.com/`),
	regexp.MustCompile(`(?i)^https?://gist\.githubusercontent\.com/.*/raw`),
	regexp.MustCompile(`(?i)/releases/download/`),
	regexp.MustCompile(`(?i)/raw/[^/]`),
	regexp.MustCompile(`(?i)/get\.[a-z0-9.-]+\.sh`),
	regexp.MustCompile(`(?i)/install\.sh$`),
}

// ExtractURLs finds every http(s) URL in the command. Trailing punctuation
// that likely belongs to surrounding prose is trimmed once; interior dots
// are never touched.
func ExtractURLs(command string) []string {
	matches := urlRe.FindAllString(command, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, trimTrailingPunct(m))
	}
	return urls
}

func trimTrailingPunct(u string) string {
	switch {
	case strings.HasSuffix(u, ")"), strings.HasSuffix(u, ","),
		strings.HasSuffix(u, ";"), strings.HasSuffix(u, "."):
		return u[:len(u)-1]
	}
	return u
}

// Analyze extracts and classifies every URL in the command against the
// trusted-domain set. A URL that fails to parse counts as untrusted.
func Analyze(command string, trustedDomains []string) Result {
	res := Result{URLs: ExtractURLs(command)}

	for _, raw := range res.URLs {
		if isRiskyURL(raw) {
			res.Risky = append(res.Risky, raw)
			res.HasRisky = true
		}

		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			res.Untrusted = append(res.Untrusted, raw)
			continue
		}

		if hostTrusted(parsed.Hostname(), trustedDomains) {
			res.Trusted = append(res.Trusted, raw)
		} else {
			res.Untrusted = append(res.Untrusted, raw)
		}
	}

	res.AllTrusted = len(res.URLs) > 0 && len(res.Untrusted) == 0
	return res
}

// hostTrusted reports whether the host is covered by the trusted set. A
// risky subdomain is never trusted regardless of its parent domain.
func hostTrusted(host string, trustedDomains []string) bool {
	h := strings.ToLower(host)

	for _, re := range riskySubdomains {
		if re.MatchString(h) {
			return false
		}
	}

	for _, d := range trustedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if h == d || strings.HasSuffix(h, "."+d) {
			return true
		}
	}
	return false
}

func isRiskyURL(raw string) bool {
	for _, re := range riskyURLPatterns {
		if re.MatchString(raw) {
			return true
		}
	}
	return false
}
