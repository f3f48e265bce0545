package checkpoint

import (
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// readOnlyGitSubcommands are git operations that neither write the
// repository nor run repository-local hooks. commit, checkout, merge,
// rebase, pull, fetch, add, stash, cherry-pick, tag, and remote are
// deliberately absent: each can execute hook scripts, which is arbitrary
// code.
var readOnlyGitSubcommands = map[string]bool{
	"status":    true,
	"log":       true,
	"diff":      true,
	"show":      true,
	"blame":     true,
	"reflog":    true,
	"shortlog":  true,
	"describe":  true,
	"rev-parse": true,
	"ls-files":  true,
	"ls-tree":   true,
}

// dangerousGitPatterns reject commands that force-modify history or the
// working tree even when the subcommand token looks harmless.
var dangerousGitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgit\b[^;&|]*\bpush\b`),
	regexp.MustCompile(`(?i)\bgit\b[^;&|]*\breset\s+--hard\b`),
	regexp.MustCompile(`(?i)\bgit\b[^;&|]*\bclean\s+-[a-z]*f`),
	regexp.MustCompile(`(?i)\bgit\b[^;&|]*--force\b`),
	regexp.MustCompile(`(?i)\bgit\b[^;&|]*\s-f\b`),
}

// IsInstantAllow reports whether the command is provably safe by structural
// inspection alone: a single pure git invocation of a read-only, hook-free
// subcommand with no chaining, piping, or substitution anywhere.
func IsInstantAllow(command string) bool {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return false
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 || fields[0] != "git" {
		return false
	}
	if !readOnlyGitSubcommands[fields[1]] {
		return false
	}

	for _, re := range dangerousGitPatterns {
		if re.MatchString(trimmed) {
			return false
		}
	}

	return isPureSingleCommand(trimmed)
}

// isPureSingleCommand parses the command with a bash-compatible parser and
// verifies it is exactly one plain call: no ; && || | chains, no backtick
// or $() substitution, no redirects into a second command. A parse failure
// counts as impure.
func isPureSingleCommand(command string) bool {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(command), "")
	if err != nil {
		return false
	}
	if len(file.Stmts) != 1 {
		return false
	}

	pure := true
	syntax.Walk(file, func(node syntax.Node) bool {
		switch node.(type) {
		case *syntax.BinaryCmd, *syntax.CmdSubst, *syntax.Subshell, *syntax.Block:
			pure = false
			return false
		case *syntax.ProcSubst, *syntax.ArithmExp:
			pure = false
			return false
		}
		return pure
	})
	return pure
}
