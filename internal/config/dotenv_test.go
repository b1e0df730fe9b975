package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDotEnv(t *testing.T, home, body string) string {
	t.Helper()
	dir := filepath.Join(home, ".scout")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, ".env")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadDotEnv_NotExist(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("expected empty map, got %v", m)
	}
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeDotEnv(t, home, "# comment\nA=1\nB=two\nC=\"quoted value\"\n")

	m, err := LoadDotEnv()
	if err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if m["A"] != "1" || m["B"] != "two" || m["C"] != "quoted value" {
		t.Fatalf("unexpected map: %v", m)
	}
}

func TestGetConfigValue_EnvOverridesDotEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeDotEnv(t, home, "K=fromdotenv\nONLY=dotenv\n")
	t.Setenv("K", "fromenv")

	v, err := GetConfigValue("K")
	if err != nil {
		t.Fatalf("GetConfigValue: %v", err)
	}
	if v != "fromenv" {
		t.Fatalf("expected env override, got %q", v)
	}

	v, err = GetConfigValue("ONLY")
	if err != nil {
		t.Fatalf("GetConfigValue: %v", err)
	}
	if v != "dotenv" {
		t.Fatalf("expected dotenv fallback, got %q", v)
	}
}

func TestEnsureDotEnvTemplate_DoesNotOverwrite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p := writeDotEnv(t, home, "SCOUT_LLM_PROVIDER=keep\n")

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "SCOUT_LLM_PROVIDER=keep\n" {
		t.Fatalf("template overwrote existing file: %q", string(b))
	}
}

func TestEnsureDotEnvTemplate_CreatesWhenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if err := EnsureDotEnvTemplate(); err != nil {
		t.Fatalf("EnsureDotEnvTemplate: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(home, ".scout", ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "SCOUT_LLM_PROVIDER=") {
		t.Fatalf("unexpected template: %q", string(b))
	}
}
