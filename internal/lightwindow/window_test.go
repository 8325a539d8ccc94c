package lightwindow

import (
	"testing"
	"time"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 1, h, m, 0, 0, time.UTC)
}

func TestLastReset_EvenAndOddHours(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{at(0, 0), at(0, 0)},
		{at(1, 59), at(0, 0)},
		{at(12, 0), at(12, 0)},
		{at(13, 45), at(12, 0)},
		{at(23, 59), at(22, 0)},
	}
	for _, c := range cases {
		if got := LastReset(c.now); !got.Equal(c.want) {
			t.Errorf("LastReset(%v) = %v, want %v", c.now, got, c.want)
		}
	}
}

func TestNextReset_RollsToNextDay(t *testing.T) {
	next := NextReset(at(23, 30))
	want := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("NextReset = %v, want %v", next, want)
	}
}

func TestRemaining_NeverExceedsTwoHours(t *testing.T) {
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			now := at(h, m)
			rem := Remaining(now)
			if rem <= 0 || rem > 2*time.Hour {
				t.Fatalf("Remaining(%v) = %v out of (0, 2h]", now, rem)
			}
		}
	}
}

func TestStillActive_JustNowDetectionAlwaysActive(t *testing.T) {
	for h := 0; h < 24; h += 3 {
		now := at(h, 17)
		if !StillActive(now, now) {
			t.Fatalf("detection at now=%v should be active", now)
		}
	}
}

func TestStillActive_WindowBoundaryScenario(t *testing.T) {
	// now = 13:45 UTC, boundary at 12:00.
	now := at(13, 45)
	if !StillActive(now, at(12, 5)) {
		t.Error("12:05 detection should still be active at 13:45")
	}
	if !StillActive(now, at(12, 0)) {
		t.Error("detection exactly on the boundary should be active")
	}
	if StillActive(now, at(11, 55)) {
		t.Error("11:55 detection should be stale at 13:45")
	}
}

func TestStillActive_OldDetectionsNeverActive(t *testing.T) {
	for h := 0; h < 24; h++ {
		now := at(h, 42)
		old := LastReset(now).Add(-2*time.Hour - time.Minute)
		if StillActive(now, old) {
			t.Fatalf("detection %v should be stale at now=%v", old, now)
		}
	}
}

func TestStillActive_NonUTCInputs(t *testing.T) {
	loc := time.FixedZone("JST", 9*3600)
	now := at(13, 45)
	// 21:05 JST == 12:05 UTC
	detected := time.Date(2024, 3, 1, 21, 5, 0, 0, loc)
	if !StillActive(now, detected) {
		t.Fatal("zone conversion should not affect the staleness check")
	}
}
