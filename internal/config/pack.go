package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pack is a YAML rule pack dropped under the packs directory. Packs are an
// additive distribution channel: a team can ship shared allow/block
// patterns and trusted domains without touching the operator's config file.
type Pack struct {
	Name           string   `yaml:"name"`
	AllowPatterns  []string `yaml:"allowPatterns"`
	BlockPatterns  []string `yaml:"blockPatterns"`
	TrustedDomains []string `yaml:"trustedDomains"`
}

// mergePacks loads every *.yaml/*.yml pack in deterministic name order and
// appends its contributions to the config. A leading underscore marks a pack
// as disabled. Malformed packs are skipped with a diagnostic; one bad pack
// must not take down the guard.
func mergePacks(cfg *Config, packDir string, diag func(format string, args ...any)) {
	entries, err := os.ReadDir(packDir)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(packDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if diag != nil {
				diag("rule pack %s skipped: %v", name, err)
			}
			continue
		}
		var pack Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			if diag != nil {
				diag("rule pack %s skipped: %v", name, err)
			}
			continue
		}
		cfg.CustomPatterns.Allow = append(cfg.CustomPatterns.Allow, pack.AllowPatterns...)
		cfg.CustomPatterns.Block = append(cfg.CustomPatterns.Block, pack.BlockPatterns...)
		cfg.TrustedDomains = append(cfg.TrustedDomains, pack.TrustedDomains...)
	}
}
