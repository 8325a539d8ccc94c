// Package ledger tracks the set of territories currently carrying a light
// bonus. It is the only writer of that set: local detections and remote
// merges both funnel through it, and every mutation is serialized behind
// one mutex.
package ledger

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/duty"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/lightwindow"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/notify"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/report"
)

// Reporter forwards new local detections to the community server.
type Reporter interface {
	Submit(territoryID uint16, detectedAt time.Time)
}

// Entry is a snapshot row of one active bonus.
type Entry struct {
	TerritoryID uint16
	DutyName    string
	DetectedAt  time.Time
}

// Options configure a Ledger.
type Options struct {
	Notifier  notify.Notifier
	Reporter  Reporter
	Logger    *slog.Logger
	PlaySound bool
	SoundID   int
	// Seed pre-populates the set, typically from the persisted config when
	// the client restarts inside a window. Seeded entries carry no
	// detection time.
	Seed []uint16
	// OnChange mirrors every mutation of the set, typically into the
	// persisted config.
	OnChange func(active []uint16)
	// Now overrides the clock in tests.
	Now func() time.Time
	// ResetIn and ResetEvery override the reset cadence in tests. The
	// defaults align the first wipe to the next even-hour boundary and
	// repeat every two hours.
	ResetIn    func(now time.Time) time.Duration
	ResetEvery time.Duration
}

// Ledger owns the active bonus set for the lifetime of a session.
type Ledger struct {
	mu       sync.Mutex
	active   map[uint16]time.Time
	disposed bool

	notifier  notify.Notifier
	reporter  Reporter
	lg        *slog.Logger
	playSound bool
	soundID   int
	onChange  func([]uint16)
	now       func() time.Time

	resetIn    func(time.Time) time.Duration
	resetEvery time.Duration
	resetStop  chan struct{}
}

func New(opts Options) *Ledger {
	l := &Ledger{
		active:    make(map[uint16]time.Time),
		notifier:  opts.Notifier,
		reporter:  opts.Reporter,
		lg:        opts.Logger,
		playSound: opts.PlaySound,
		soundID:   opts.SoundID,
		onChange:  opts.OnChange,
		now:       opts.Now,

		resetIn:    opts.ResetIn,
		resetEvery: opts.ResetEvery,
		resetStop:  make(chan struct{}),
	}
	if l.lg == nil {
		l.lg = slog.Default()
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.resetIn == nil {
		l.resetIn = lightwindow.Remaining
	}
	if l.resetEvery == 0 {
		l.resetEvery = 2 * time.Hour
	}
	for _, id := range opts.Seed {
		l.active[id] = time.Time{}
	}
	go l.resetLoop()
	return l
}

// resetLoop wipes the set at each window boundary: first fire aligned to
// the next even hour, then a fixed period. Stops on Dispose.
func (l *Ledger) resetLoop() {
	timer := time.NewTimer(l.resetIn(l.now()))
	defer timer.Stop()
	for {
		select {
		case <-l.resetStop:
			return
		case <-timer.C:
		}
		l.Clear()
		timer.Reset(l.resetEvery)
	}
}

// Record handles a local detection. The notification always fires, even for
// bonuses we will not persist or report: the user still wants the in-game
// message mirrored. The set is only mutated (and the detection submitted)
// when the territory is new and the detection time is known and still
// inside the active window.
func (l *Ledger) Record(territoryID uint16, detectedAt time.Time, message string) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return
	}
	_, present := l.active[territoryID]
	insert := !present && !detectedAt.IsZero() && lightwindow.StillActive(l.now(), detectedAt)
	if insert {
		l.active[territoryID] = detectedAt.UTC()
		l.mirrorLocked()
	}
	l.mu.Unlock()

	l.deliver([]string{message})

	if !insert {
		l.lg.Debug("detection not recorded", "territory", territoryID, "present", present)
		return
	}
	l.lg.Info("light bonus recorded", "territory", territoryID, "detected_at", detectedAt.UTC())
	if l.reporter != nil {
		l.reporter.Submit(territoryID, detectedAt)
	}
}

// MergeRemote folds peer-submitted reports into the set. Stale reports,
// unknown territories and already-known bonuses are skipped silently; all
// net-new entries are announced in one combined notification.
func (l *Ledger) MergeRemote(reports []report.Report) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return
	}
	now := l.now()
	var names []string
	for _, r := range reports {
		if !lightwindow.StillActive(now, r.DetectionTime) {
			continue
		}
		d, ok := duty.Lookup(r.TerritoryID)
		if !ok {
			continue
		}
		if _, present := l.active[r.TerritoryID]; present {
			continue
		}
		l.active[r.TerritoryID] = r.DetectionTime.UTC()
		names = append(names, d.Name)
	}
	if len(names) > 0 {
		l.mirrorLocked()
	}
	l.mu.Unlock()

	if len(names) == 0 {
		return
	}
	l.lg.Info("remote bonuses merged", "count", len(names))
	msgs := make([]string, 0, len(names)+1)
	msgs = append(msgs, "New light bonus detected")
	for _, n := range names {
		msgs = append(msgs, " → "+n)
	}
	l.deliver(msgs)
}

// Clear empties the set. Fired by the two-hour reset timer and on logout.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed || len(l.active) == 0 {
		return
	}
	l.active = make(map[uint16]time.Time)
	l.mirrorLocked()
	l.lg.Debug("active bonuses cleared")
}

// Contains reports whether the territory currently carries a bonus.
func (l *Ledger) Contains(territoryID uint16) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.active[territoryID]
	return ok
}

// Snapshot returns the active bonuses sorted by duty name.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.active))
	for id, at := range l.active {
		name := ""
		if d, ok := duty.Lookup(id); ok {
			name = d.Name
		}
		out = append(out, Entry{TerritoryID: id, DutyName: name, DetectedAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DutyName < out[j].DutyName })
	return out
}

// Dispose tears the ledger down: the reset loop stops and late callbacks
// become no-ops.
func (l *Ledger) Dispose() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.disposed {
		return
	}
	l.disposed = true
	close(l.resetStop)
}

func (l *Ledger) deliver(msgs []string) {
	if l.notifier == nil {
		return
	}
	// Dispose may land between the mutation unlock and delivery.
	l.mu.Lock()
	disposed := l.disposed
	l.mu.Unlock()
	if disposed {
		return
	}
	for _, m := range msgs {
		l.notifier.PrintMessage(m)
	}
	if l.playSound {
		l.notifier.PlaySound(l.soundID)
	}
}

// mirrorLocked pushes the current id set through the persistence callback.
// Caller holds l.mu.
func (l *Ledger) mirrorLocked() {
	if l.onChange == nil {
		return
	}
	ids := make([]uint16, 0, len(l.active))
	for id := range l.active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	l.onChange(ids)
}
