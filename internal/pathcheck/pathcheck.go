// Package pathcheck classifies file paths against curated write- and
// read-sensitivity sets. Paths are matched as strings; nothing is opened.
//
// Ordering inside each set is load-bearing: critical entries precede high
// entries wherever both could match the same input, so ~/.ssh/authorized_keys
// reports as critical rather than being downgraded by the broader
// shell-startup-file entry.
package pathcheck

import (
	"regexp"
	"strings"

	"github.com/gzhole/hookguard/internal/patterns"
)

// Action is the kind of file access being evaluated.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
	ActionEdit  Action = "edit"
)

// Result describes whether a path is sensitive for the requested action.
type Result struct {
	Blocked        bool
	Severity       patterns.Severity
	Description    string
	Risk           string
	LegitimateUses []string
}

// Check normalizes the path and walks the set for the action, returning the
// first match. Edits use the write set.
func Check(path string, action Action) Result {
	normalized := normalize(path)

	set := writeSensitive
	if action == ActionRead {
		set = readSensitive
	}

	for i := range set {
		if set[i].Regex.MatchString(normalized) {
			return Result{
				Blocked:        true,
				Severity:       set[i].Severity,
				Description:    set[i].Description,
				Risk:           set[i].Risk,
				LegitimateUses: set[i].LegitimateUses,
			}
		}
	}
	return Result{}
}

var (
	homeVarRe    = regexp.MustCompile(`\$\{?HOME\}?`)
	slashRunRe   = regexp.MustCompile(`/{2,}`)
)

// normalize rewrites $HOME/${HOME} to ~ and collapses runs of slashes so a
// single pattern form covers the common spellings of the same path.
func normalize(path string) string {
	p := strings.TrimSpace(path)
	p = homeVarRe.ReplaceAllString(p, "~")
	p = slashRunRe.ReplaceAllString(p, "/")
	return p
}

func entry(expr string, sev patterns.Severity, desc, risk string, uses ...string) patterns.Pattern {
	return patterns.Pattern{
		Name:           desc,
		Regex:          regexp.MustCompile(`(?i)` + expr),
		Severity:       sev,
		Description:    desc,
		Risk:           risk,
		LegitimateUses: uses,
	}
}

// writeSensitive guards paths whose modification grants persistence,
// privilege, or credential theft. Critical entries first.
var writeSensitive = []patterns.Pattern{
	entry(`(^|/)\.ssh(/|$)`, patterns.SeverityCritical,
		"SSH configuration directory",
		"Writing here can plant attacker keys in authorized_keys or rewrite known_hosts.",
		"Rotating your own SSH keys"),
	entry(`(^|/)\.(aws|gcloud|azure|kube|docker)(/|$)`, patterns.SeverityCritical,
		"Cloud credential directory",
		"Writing here can replace cloud credentials or point tooling at attacker accounts.",
		"Re-authenticating cloud CLIs"),
	entry(`(^|/)\.gnupg(/|$)`, patterns.SeverityCritical,
		"GPG keyring directory",
		"Writing here can replace trusted keys used for signing and encryption.",
		"GPG key maintenance"),
	entry(`^/etc(/|$)`, patterns.SeverityCritical,
		"System configuration directory",
		"Writing under /etc changes system-wide behavior, users, and services.",
		"Deliberate system administration"),
	entry(`^/(usr|bin|sbin)(/|$)`, patterns.SeverityCritical,
		"System binary directory",
		"Writing here can replace system programs with trojaned versions.",
		"Manual software installation"),
	entry(`(^|/)(crontab|cron\.(d|daily|hourly|weekly|monthly))(/|$)`, patterns.SeverityCritical,
		"Scheduled task configuration",
		"Writing cron entries gives code persistent, repeated execution.",
		"Scheduling your own maintenance jobs"),
	entry(`(^|/)\.git/hooks(/|$)`, patterns.SeverityCritical,
		"Git hooks directory",
		"Hook scripts run automatically on git operations; writing one is code execution.",
		"Installing your own lint or commit hooks"),
	entry(`(^|/)\.claude(/|$)`, patterns.SeverityCritical,
		"Coding agent configuration directory",
		"Writing here can alter or disable the agent's safety hooks.",
		"Deliberate agent reconfiguration"),
	entry(`(^|/)\.hookguard(/|$)`, patterns.SeverityCritical,
		"Guard installation directory",
		"Writing here can disable or reconfigure the command guard itself.",
		"Deliberate guard reconfiguration"),
	entry(`(^|/)\.(bashrc|bash_profile|zshrc|zprofile|profile|zshenv|bash_login)$`, patterns.SeverityHigh,
		"Shell startup file",
		"Startup files execute on every new shell; writing one is persistent code execution.",
		"Customizing your own shell"),
	entry(`(^|/)\.(npmrc|pypirc|netrc|cargo/credentials(\.toml)?|gem/credentials)$`, patterns.SeverityHigh,
		"Package manager credential file",
		"These files hold registry tokens; writing them can redirect or steal publishes.",
		"Configuring registry access"),
}

// readSensitive guards files whose contents are secrets. Critical entries
// (private keys, cloud credentials) precede the high-severity env files.
var readSensitive = []patterns.Pattern{
	entry(`(^|/)id_(rsa|dsa|ecdsa|ed25519)$`, patterns.SeverityCritical,
		"SSH private key",
		"Reading a private key allows impersonating this user on every host that trusts it.",
		"Backing up your own keys"),
	entry(`(^|/)\.ssh/[^/]+$`, patterns.SeverityCritical,
		"SSH directory contents",
		"SSH files reveal private keys, known hosts, and access configuration.",
		"Auditing your own SSH setup"),
	entry(`\.(pem|key|p12|pfx)$`, patterns.SeverityCritical,
		"Key material file",
		"Key files grant whatever access the key protects: TLS, signing, or API identity.",
		"Certificate management"),
	entry(`(^|/)\.aws/(credentials|config)$`, patterns.SeverityCritical,
		"AWS credential file",
		"AWS credentials allow acting as this account in the cloud.",
		"Verifying your own cloud login"),
	entry(`(^|/)\.(gcloud|azure)/[^/]*credentials[^/]*$`, patterns.SeverityCritical,
		"Cloud credential file",
		"Cloud credentials allow acting as this account in the cloud.",
		"Verifying your own cloud login"),
	entry(`(^|/)\.gnupg/(private-keys[^/]*|secring[^/]*)`, patterns.SeverityCritical,
		"GPG private key material",
		"GPG private keys allow forging signatures and decrypting protected data.",
		"Key migration"),
	entry(`^/etc/shadow$`, patterns.SeverityCritical,
		"System password hashes",
		"Password hashes enable offline cracking of every account on this machine.",
		"None in normal development"),
	entry(`(^|/)(\.netrc|\.pgpass|\.my\.cnf)$`, patterns.SeverityCritical,
		"Plaintext credential file",
		"These files store passwords in the clear for automated logins.",
		"Auditing your own stored credentials"),
	entry(`(^|/)(\.npmrc|\.pypirc)$`, patterns.SeverityHigh,
		"Package registry config with tokens",
		"Registry configs frequently embed publish tokens.",
		"Checking registry configuration"),
	entry(`(^|/)\.env(\.(local|production|development))?$`, patterns.SeverityHigh,
		"Environment secrets file",
		"Env files typically hold database URLs, API keys, and signing secrets.",
		"Editing your own application config"),
}
