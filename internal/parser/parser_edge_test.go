package parser

import (
	"testing"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/types"
)

func TestParseCRLFAndWhitespace(t *testing.T) {
	p := New()
	line := "[2024.03.01-13.41.02:100][111]ChatLog: Display: [Client] ZoneChange: TerritoryType = 160\r\n"
	if ev := p.Parse(line); ev == nil || ev.Kind != types.EventZoneChange || ev.Territory != 160 {
		t.Fatalf("expected ZoneChange from CRLF line, got %#v", ev)
	}
}

func TestParseUnrecognizedLineIgnored(t *testing.T) {
	p := New()
	lines := []string{
		"[2024.03.01-13.41.02:100][111]ChatLog: Display: [Client] SomethingElse: 42",
		"[2024.03.01-13.41.02:100][111]Network: Display: [Client] ZoneChange: TerritoryType = 160",
		"",
	}
	for _, line := range lines {
		if ev := p.Parse(line); ev != nil {
			t.Fatalf("expected nil event for %q, got %#v", line, ev)
		}
	}
}

func TestTimestampMissingFallsBack(t *testing.T) {
	p := New()
	// Non-timestamp bracket: the ts parser fails but the record regex still matches.
	line := "[NOTATS]ChatLog: Display: [Client] Logout"
	start := time.Now().Add(-1 * time.Second)
	ev := p.Parse(line)
	if ev == nil {
		t.Fatal("expected event")
	}
	if ev.Time.Before(start) || ev.Time.After(time.Now().Add(2*time.Second)) {
		t.Fatalf("fallback time out of expected range: %v", ev.Time)
	}
}

func TestPrefixWithMultipleBrackets(t *testing.T) {
	p := New()
	line := "[2024.03.01-13.41.02:100][111][W]ChatLog: Display: [Client] DutyCommenced: TerritoryType = 554"
	if ev := p.Parse(line); ev == nil || ev.Kind != types.EventDutyStart || ev.Territory != 554 {
		t.Fatalf("expected DutyStart from triple-bracket prefix, got %#v", ev)
	}
}

func TestHexContentIDLowerAndUpper(t *testing.T) {
	p := New()
	lower := "[2024.03.01-13.30.00:000][1]ChatLog: Display: [Client] Login: ContentId = 0xdeadbeef HomeWorld = 53 Datacenter = 4"
	ev := p.Parse(lower)
	if ev == nil || ev.Login == nil || ev.Login.ContentID != 0xdeadbeef {
		t.Fatalf("lowercase hex content id mishandled: %#v", ev)
	}
}
