package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig drops a minimal valid configuration file and returns its path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[paths]
data_dir = %q

[access]
salt = "test-salt"
iterations = 1000
`, filepath.Join(dir, "data"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandShowsHelp(t *testing.T) {
	out, err := runCommand(t, "--config", writeConfig(t))
	if err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if !strings.Contains(out, "vidvault") {
		t.Errorf("help output missing command name: %q", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Errorf("output should name the written file: %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[access]") {
		t.Error("sample config missing the access section")
	}

	// A second init without --overwrite must refuse.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Error("expected refusal to overwrite existing config")
	}
}

func TestConfigValidate(t *testing.T) {
	out, err := runCommand(t, "--config", writeConfig(t), "config", "validate")
	if err != nil {
		t.Fatalf("config validate failed: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLedgerListTSV(t *testing.T) {
	configPath := writeConfig(t)
	dataDir := filepath.Join(filepath.Dir(configPath), "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatal(err)
	}
	ledgerContent := "[aaa.mp4]\n2024-05-01\npark\n"
	if err := os.WriteFile(filepath.Join(dataDir, "all_tags.txt"), []byte(ledgerContent), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCommand(t, "--config", configPath, "ledger", "list")
	if err != nil {
		t.Fatalf("ledger list failed: %v", err)
	}
	if !strings.Contains(out, "aaa.mp4\t2024-05-01\t2024-05-01, park\t2") {
		t.Errorf("unexpected list output: %q", out)
	}
}

func TestListMountsCommandWithoutDevices(t *testing.T) {
	out, err := runCommand(t, "list-mtp-mounts", "--gvfs-dir", filepath.Join(t.TempDir(), "gvfs"))
	if err != nil {
		t.Fatalf("list-mtp-mounts failed: %v", err)
	}
	if !strings.Contains(out, "No gvfs mounts") {
		t.Errorf("unexpected output: %q", out)
	}
}
