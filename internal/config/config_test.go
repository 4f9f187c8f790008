package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
env: test
storage:
  driver: memory
settlement:
  currency: KES
  transaction_caps:
    T1: 100000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPServer.Port != "8080" {
		t.Errorf("http port default = %q", cfg.HTTPServer.Port)
	}
	if cfg.Chain.Mode != "simulated" {
		t.Errorf("chain mode default = %q", cfg.Chain.Mode)
	}
	if cfg.Settlement.VATRate != "0.16" {
		t.Errorf("vat rate default = %q", cfg.Settlement.VATRate)
	}
	if cfg.Settlement.TransactionCaps["T1"] != 100000 {
		t.Errorf("transaction caps not parsed: %v", cfg.Settlement.TransactionCaps)
	}
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	cases := map[string]string{
		"postgres without dsn": `
storage:
  driver: postgres
`,
		"unknown driver": `
storage:
  driver: sqlite
`,
		"ethereum without rpc": `
storage:
  driver: memory
chain:
  mode: ethereum
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
