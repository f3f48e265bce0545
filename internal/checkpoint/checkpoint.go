// Package checkpoint labels shell commands with the class of sensitive
// action they represent, and recognizes the small set of commands that can
// be allowed instantly on structural grounds alone.
package checkpoint

import "regexp"

// Kind is the class of sensitive action a command represents.
type Kind string

const (
	KindScriptExecution Kind = "script_execution"
	KindPackageInstall  Kind = "package_install"
	KindGitOperation    Kind = "git_operation"
	KindNetwork         Kind = "network"
	KindEnvModification Kind = "env_modification"
	KindFileSensitive   Kind = "file_sensitive"
	KindURLShortener    Kind = "url_shortener"
)

// Checkpoint labels a command with the sensitive-action class that matched.
type Checkpoint struct {
	Kind            Kind
	OriginalCommand string
	Description     string
}

type detector struct {
	kind        Kind
	regex       *regexp.Regexp
	description string
}

// detectors are evaluated in order, first match wins. URL-shortener
// detection must precede the generic network detector: the redirect
// destination of a shortened link is unknown, so
// "curl https://bit.ly/x -o file" classifies as url_shortener, not network.
var detectors = []detector{
	{
		kind:        KindURLShortener,
		regex:       regexp.MustCompile(`(?i)https?://(bit\.ly|tinyurl\.com|t\.co|goo\.gl|ow\.ly|is\.gd|buff\.ly|rebrand\.ly|cutt\.ly|shorturl\.at|tiny\.cc|rb\.gy)/`),
		description: "Command fetches a shortened URL whose destination is unknown",
	},
	{
		kind:        KindScriptExecution,
		regex:       regexp.MustCompile(`(?i)(\b(curl|wget)\b[^|;&]*\|\s*(sudo\s+)?(ba|z|k)?sh\b)|(\b(bash|sh|zsh)\s+[^-\s][^\s]*\.sh\b)|(^\s*\./\S+)|(\bchmod\s+\+x\b)|(\bnpm\s+run\b)|(\bmake\b)|(\b(node|python[23]?|ruby|perl)\s+[^-\s][^\s]*\.(js|py|rb|pl)\b)`),
		description: "Command executes a script or downloaded content",
	},
	{
		kind:        KindNetwork,
		regex:       regexp.MustCompile(`(?i)\b(curl|wget)\b[^;&|]*https?://`),
		description: "Command performs a network fetch",
	},
	{
		kind:        KindPackageInstall,
		regex:       regexp.MustCompile(`(?i)(\bnpm\s+(install|i|add)\s+[^-\s])|(\bpnpm\s+(add|install)\b)|(\byarn\s+add\b)|(\bpip[23]?\s+install\b)|(\bapt(-get)?\s+install\b)|(\bbrew\s+install\b)|(\bgem\s+install\b)|(\bcargo\s+install\b)`),
		description: "Command installs a package from a registry",
	},
	{
		kind:        KindGitOperation,
		regex:       regexp.MustCompile(`(?i)\bgit\b[^;&|]*\s(commit|checkout|switch|merge|rebase|pull|fetch|stash|cherry-pick|add|push)\b|\bgit\b[^;&|]*(reset\s+--hard|--force\b|clean\s+-[a-z]*f)`),
		description: "Git operation that can trigger repository hooks",
	},
	{
		kind:        KindEnvModification,
		regex:       regexp.MustCompile(`(?i)(^|[\s/"'=])\.env(\.(local|production|development))?($|[\s"':;])`),
		description: "Command touches environment secrets files",
	},
	{
		kind:        KindFileSensitive,
		regex:       regexp.MustCompile(`(?i)(\.ssh\b)|(\.aws\b)|(\bcredentials\b)|(\b(cp|mv)\b[^;&|]*(\.ssh|\.aws|credentials))`),
		description: "Command touches credential-bearing paths",
	},
}

// Classify labels the command with the first matching checkpoint kind, or
// returns nil when no family matches.
func Classify(command string) *Checkpoint {
	for _, d := range detectors {
		if d.regex.MatchString(command) {
			return &Checkpoint{
				Kind:            d.kind,
				OriginalCommand: command,
				Description:     d.description,
			}
		}
	}
	return nil
}
