// Package stage correlates asynchronous game events (toasts, zone changes,
// duty starts) into light-bonus detections. Toasts can race or repeat, so a
// detection only counts when the observed intensity exceeds the zone's
// permanent baseline and the player has been in the duty from its start.
package stage

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/duty"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/notify"
)

// Level maps a toast text fragment to its light intensity.
type Level struct {
	Intensity int
	Fragment  string
}

// Intensity levels shared by the Novus and Brave relic stages.
var levels = []Level{
	{8, "a feeble light"},
	{16, "a gentle light"},
	{32, "a bright light"},
	{48, "a brilliant light"},
	{96, "a blinding light"},
	{128, "the light of a newborn star"},
}

// Recorder receives confirmed detections; satisfied by the ledger.
type Recorder interface {
	Record(territoryID uint16, detectedAt time.Time, message string)
}

// Tracker holds the transient per-zone duty entry context.
type Tracker struct {
	rec      Recorder
	notifier notify.Notifier
	lg       *slog.Logger

	mu              sync.Mutex
	territory       uint16
	dutyEntry       time.Time // zone entry timestamp, tracked territories only
	onDutyFromStart bool
}

func New(rec Recorder, notifier notify.Notifier, lg *slog.Logger) *Tracker {
	if lg == nil {
		lg = slog.Default()
	}
	return &Tracker{rec: rec, notifier: notifier, lg: lg}
}

// OnZoneChange resets the duty entry context. The entry timestamp is only
// armed for tracked territories; duty-bound confirmation comes separately
// through OnDutyStart, which guards against reconnecting mid-duty or
// joining one already in progress.
func (t *Tracker) OnZoneChange(territoryID uint16, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.territory = territoryID
	t.dutyEntry = time.Time{}
	t.onDutyFromStart = false
	if duty.Tracked(territoryID) {
		t.dutyEntry = at
		t.lg.Debug("entered tracked territory", "territory", territoryID)
	}
}

// OnDutyStart confirms the player was present when the duty commenced.
func (t *Tracker) OnDutyStart(territoryID uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDutyFromStart = true
}

// OnToast inspects a quest toast for a light-intensity announcement and, if
// it indicates a genuine bonus, feeds the detection to the recorder.
func (t *Tracker) OnToast(text string, at time.Time) {
	lower := strings.ToLower(text)
	for _, lv := range levels {
		if !strings.Contains(lower, lv.Fragment) {
			continue
		}
		if t.notifier != nil {
			t.notifier.PrintMessage(fmt.Sprintf("Light intensity has increased by %d.", lv.Intensity))
		}

		t.mu.Lock()
		territory := t.territory
		entry := t.dutyEntry
		fromStart := t.onDutyFromStart
		t.mu.Unlock()

		d, ok := duty.Lookup(territory)
		if !ok {
			return
		}
		// The baseline announcement fires for every completion; only a
		// strictly greater intensity marks a bonus window.
		if lv.Intensity <= d.DefaultIntensity {
			return
		}

		detectedAt := time.Time{}
		if fromStart && !entry.IsZero() {
			detectedAt = entry
		}
		t.rec.Record(territory, detectedAt, fmt.Sprintf("Light bonus detected on %q", d.Name))
		return
	}
}
