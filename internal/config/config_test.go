package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zodiacbuddy.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.BonusLight.Enabled || !cfg.BonusLight.PlaySound {
		t.Fatalf("unexpected defaults: %#v", cfg.BonusLight)
	}
	if cfg.InstallID == "" {
		t.Fatal("install id not generated")
	}
	if cfg.Path() != path {
		t.Fatalf("path = %q, want %q", cfg.Path(), path)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zodiacbuddy.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Character = Character{ContentID: 0x40, HomeWorld: 405, Datacenter: 9}
	cfg.BonusLight.ActiveBonus = []uint16{372, 160}
	cfg.Server = "https://example.invalid"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.InstallID != cfg.InstallID {
		t.Fatal("install id should survive reload")
	}
	if again.Character != cfg.Character {
		t.Fatalf("character = %#v", again.Character)
	}
	if len(again.BonusLight.ActiveBonus) != 2 {
		t.Fatalf("active bonus = %v", again.BonusLight.ActiveBonus)
	}
	if got := again.BaseURL("https://default.invalid"); got != "https://example.invalid" {
		t.Fatalf("BaseURL override = %q", got)
	}
}

func TestSaveKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zodiacbuddy.json")
	cfg, _ := Load(path)
	if err := cfg.Save(); err != nil {
		t.Fatalf("first save: %v", err)
	}
	cfg.Server = "changed"
	if err := cfg.Save(); err != nil {
		t.Fatalf("second save: %v", err)
	}
	b, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
	var prev Config
	if err := json.Unmarshal(b, &prev); err != nil {
		t.Fatalf("backup not valid JSON: %v", err)
	}
	if prev.Server == "changed" {
		t.Fatal("backup should hold the previous content")
	}
}

func TestBaseURLDefault(t *testing.T) {
	cfg := defaults()
	if got := cfg.BaseURL("https://default.invalid"); got != "https://default.invalid" {
		t.Fatalf("BaseURL = %q", got)
	}
}

func TestEnvOverrideResolution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	t.Setenv(EnvOverride, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != path {
		t.Fatalf("path = %q, want env override %q", cfg.Path(), path)
	}
}
