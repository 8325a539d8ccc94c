package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/config"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/report"
)

func writeConfig(t *testing.T, cfg config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zodiacbuddy.json")
	b, err := json.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func activeServer(t *testing.T, reports []report.Report) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reports/active" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(reports)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunTable(t *testing.T) {
	srv := activeServer(t, []report.Report{
		{Datacenter: 9, World: 405, TerritoryID: 372, DetectionTime: time.Now().Add(-10 * time.Minute)},
		{Datacenter: 9, World: 405, TerritoryID: 160, DetectionTime: time.Now().Add(-40 * time.Minute)},
	})
	cfgPath := writeConfig(t, config.Config{InstallID: "test-install"})

	var out bytes.Buffer
	if code := run([]string{"--config", cfgPath, "--server", srv.URL}, &out); code != 0 {
		t.Fatalf("run = %d, want 0\n%s", code, out.String())
	}
	s := out.String()
	if !strings.Contains(s, "Active light bonuses (2):") {
		t.Fatalf("expected bonus count header\n%s", s)
	}
	if !strings.Contains(s, "Syrcus Tower") || !strings.Contains(s, "Pharos Sirius") {
		t.Fatalf("expected duty names\n%s", s)
	}
	// Oldest detection first.
	if strings.Index(s, "Pharos Sirius") > strings.Index(s, "Syrcus Tower") {
		t.Fatalf("expected detections sorted oldest first\n%s", s)
	}
}

func TestRunEmpty(t *testing.T) {
	srv := activeServer(t, nil)
	cfgPath := writeConfig(t, config.Config{InstallID: "test-install"})

	var out bytes.Buffer
	if code := run([]string{"--config", cfgPath, "--server", srv.URL}, &out); code != 0 {
		t.Fatalf("run = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "No active light bonus reported.") {
		t.Fatalf("expected empty message\n%s", out.String())
	}
}

func TestRunJSON(t *testing.T) {
	srv := activeServer(t, []report.Report{
		{Datacenter: 9, World: 405, TerritoryID: 372, DetectionTime: time.Date(2024, 3, 1, 13, 30, 0, 0, time.UTC)},
	})
	cfgPath := writeConfig(t, config.Config{InstallID: "test-install"})

	var out bytes.Buffer
	if code := run([]string{"--config", cfgPath, "--server", srv.URL, "--json"}, &out); code != 0 {
		t.Fatalf("run = %d, want 0", code)
	}
	var decoded []report.Report
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not report JSON: %v\n%s", err, out.String())
	}
	if len(decoded) != 1 || decoded[0].TerritoryID != 372 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestRunServerDown(t *testing.T) {
	srv := activeServer(t, nil)
	url := srv.URL
	srv.Close()
	cfgPath := writeConfig(t, config.Config{InstallID: "test-install"})

	var out bytes.Buffer
	if code := run([]string{"--config", cfgPath, "--server", url, "--timeout", "500ms"}, &out); code != 1 {
		t.Fatalf("run = %d, want 1", code)
	}
}

func TestIdentityFromConfig(t *testing.T) {
	cfg := &config.Config{}
	if _, _, _, ok := (identity{cfg}).Character(); ok {
		t.Fatal("empty config should have no identity")
	}
	cfg.Character = config.Character{ContentID: 0x2329, HomeWorld: 405, Datacenter: 9}
	id, world, dc, ok := (identity{cfg}).Character()
	if !ok || id != 0x2329 || world != 405 || dc != 9 {
		t.Fatalf("identity = %v %v %v %v", id, world, dc, ok)
	}
}
