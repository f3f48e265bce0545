package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setTempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HOOKGUARD_API_KEY", "")
	return home
}

func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_FirstRunDefaults(t *testing.T) {
	home := setTempHome(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Models.Triage != DefaultTriageModel || cfg.Models.Review != DefaultReviewModel {
		t.Errorf("models %+v, want defaults", cfg.Models)
	}
	wantLog := filepath.Join(home, DefaultConfigDir, DefaultLogFile)
	if cfg.Logging.Path != wantLog {
		t.Errorf("log path %q, want %q", cfg.Logging.Path, wantLog)
	}
	if cfg.Credential.APIKey != "" {
		t.Errorf("unexpected credential %q", cfg.Credential.APIKey)
	}
}

func TestLoad_FileValues(t *testing.T) {
	home := setTempHome(t)
	writeConfigFile(t, home, `{
  "credential": {"apiKey": "file-key"},
  "models": {"triage": "custom-triage", "review": "custom-review"},
  "trustedDomains": ["internal.example"],
  "customPatterns": {"allow": ["^terraform plan\\b"], "block": ["^docker system prune"]},
  "allowedMCPTools": ["mcp__github__*"],
  "logging": {"enabled": true, "path": "/tmp/custom.jsonl"}
}`)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Credential.APIKey != "file-key" {
		t.Errorf("apiKey %q", cfg.Credential.APIKey)
	}
	if cfg.Models.Triage != "custom-triage" || cfg.Models.Review != "custom-review" {
		t.Errorf("models %+v", cfg.Models)
	}
	if len(cfg.TrustedDomains) != 1 || cfg.TrustedDomains[0] != "internal.example" {
		t.Errorf("trustedDomains %v", cfg.TrustedDomains)
	}
	if !cfg.Logging.Enabled || cfg.Logging.Path != "/tmp/custom.jsonl" {
		t.Errorf("logging %+v", cfg.Logging)
	}
}

func TestLoad_EnvCredentialWins(t *testing.T) {
	home := setTempHome(t)
	writeConfigFile(t, home, `{"credential": {"apiKey": "file-key"}}`)
	t.Setenv(APIKeyEnvVar, "env-key")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Credential.APIKey != "env-key" {
		t.Errorf("apiKey %q, want env override", cfg.Credential.APIKey)
	}
}

func TestLoad_CorruptConfigIsAnError(t *testing.T) {
	home := setTempHome(t)
	writeConfigFile(t, home, `{"credential": {`)

	if _, err := Load(nil); err == nil {
		t.Fatal("corrupt config must not load silently")
	}
}

func TestLoad_MergesPacksInNameOrder(t *testing.T) {
	home := setTempHome(t)
	packDir := filepath.Join(home, DefaultConfigDir, PackDir)
	if err := os.MkdirAll(packDir, 0700); err != nil {
		t.Fatal(err)
	}
	writePack := func(name, content string) {
		if err := os.WriteFile(filepath.Join(packDir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	writePack("20-second.yaml", "name: second\nallowPatterns:\n  - '^helm lint\\b'\n")
	writePack("10-first.yml", "name: first\nallowPatterns:\n  - '^terraform plan\\b'\nblockPatterns:\n  - '^docker system prune'\ntrustedDomains:\n  - packs.example\n")
	writePack("ignored.txt", "not a pack")
	writePack("_30-disabled.yaml", "name: disabled\nallowPatterns:\n  - '^never$'\n")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	wantAllow := []string{`^terraform plan\b`, `^helm lint\b`}
	if len(cfg.CustomPatterns.Allow) != len(wantAllow) {
		t.Fatalf("allow patterns %v", cfg.CustomPatterns.Allow)
	}
	for i, p := range wantAllow {
		if cfg.CustomPatterns.Allow[i] != p {
			t.Errorf("allow[%d] = %q, want %q", i, cfg.CustomPatterns.Allow[i], p)
		}
	}
	if len(cfg.CustomPatterns.Block) != 1 {
		t.Errorf("block patterns %v", cfg.CustomPatterns.Block)
	}
	if len(cfg.TrustedDomains) != 1 || cfg.TrustedDomains[0] != "packs.example" {
		t.Errorf("trustedDomains %v", cfg.TrustedDomains)
	}
}

func TestLoad_MalformedPackSkippedWithDiagnostic(t *testing.T) {
	home := setTempHome(t)
	packDir := filepath.Join(home, DefaultConfigDir, PackDir)
	if err := os.MkdirAll(packDir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(packDir, "bad.yaml"), []byte(":\n  - ["), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(packDir, "good.yaml"), []byte("allowPatterns:\n  - '^ok$'\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var diags []string
	cfg, err := Load(func(format string, args ...any) {
		diags = append(diags, fmt.Sprintf(format, args...))
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CustomPatterns.Allow) != 1 || cfg.CustomPatterns.Allow[0] != "^ok$" {
		t.Errorf("allow patterns %v, want the good pack only", cfg.CustomPatterns.Allow)
	}
	found := false
	for _, d := range diags {
		if strings.Contains(d, "bad.yaml") && strings.Contains(d, "skipped") {
			found = true
		}
	}
	if !found {
		t.Errorf("no skip diagnostic for bad.yaml in %v", diags)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	setTempHome(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.Credential.APIKey = "saved-key"
	cfg.TrustedDomains = []string{"internal.example"}
	cfg.Logging.Enabled = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := Load(nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Credential.APIKey != "saved-key" {
		t.Errorf("apiKey %q", reloaded.Credential.APIKey)
	}
	if !reloaded.Logging.Enabled {
		t.Error("logging.enabled lost in round trip")
	}

	info, err := os.Stat(filepath.Join(cfg.ConfigDir, DefaultConfigFile))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode %o, want 0600", perm)
	}
}
