package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	app2 "github.com/Ai-Vonie/ZodiacBuddy/internal/app"
)

func TestPrintStateNoSession(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, app2.UIState{ResetIn: "1h 12m", SyncOK: true})
	out := buf.String()
	if !strings.Contains(out, "No character logged in yet.") {
		t.Fatalf("expected no-session line in output\n%s", out)
	}
	if !strings.Contains(out, "No active light bonus.") {
		t.Fatalf("expected empty-ledger line in output\n%s", out)
	}
	if !strings.Contains(out, "Window resets in 1h 12m") {
		t.Fatalf("expected reset countdown in output\n%s", out)
	}
}

func TestPrintStateWithBonuses(t *testing.T) {
	var buf bytes.Buffer
	st := app2.UIState{
		LoggedIn:   true,
		World:      405,
		Datacenter: 9,
		SyncOK:     true,
		ResetIn:    "24m 3s",
		Bonuses: []app2.UIBonus{
			{TerritoryID: 372, Duty: "Syrcus Tower", DetectedAt: time.Now().Add(-5 * time.Minute).UnixMilli()},
			{TerritoryID: 160, Duty: "Pharos Sirius", DetectedAt: 0},
		},
	}
	printState(&buf, st)
	out := buf.String()
	if !strings.Contains(out, "Character: world 405 (datacenter 9)") {
		t.Fatalf("expected character line\n%s", out)
	}
	if !strings.Contains(out, "Syrcus Tower") || !strings.Contains(out, "minutes ago") {
		t.Fatalf("expected humanized detection age\n%s", out)
	}
	if !strings.Contains(out, "detection time unknown") {
		t.Fatalf("expected unknown-time marker\n%s", out)
	}
}

func TestPrintStateSyncFailure(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, app2.UIState{ResetIn: "3m", SyncOK: false})
	if !strings.Contains(buf.String(), "Community sync: last request failed") {
		t.Fatalf("expected sync failure line\n%s", buf.String())
	}
}
