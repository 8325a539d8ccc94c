package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/config"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/ledger"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/notify"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/parser"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/report"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/stage"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/tailer"
	"github.com/Ai-Vonie/ZodiacBuddy/internal/types"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

const (
	pollInitialDelay = 2 * time.Second
	pollInterval     = 5 * time.Minute
)

// App exposes methods to the Wails frontend and manages the tracking
// lifecycle: log following, event dispatch, session state, the community
// sync timers and the bonus ledger.
type App struct {
	mu  sync.Mutex
	ctx context.Context
	lg  *slog.Logger

	cfg    *config.Config
	p      *parser.Parser
	t      *tailer.Tailer
	led    *ledger.Ledger
	stg    *stage.Tracker
	client *report.Client

	cancel   context.CancelFunc // tail/dispatch pipeline
	emitStop context.CancelFunc // periodic UI emitter
	pollStop context.CancelFunc // community poll loop; restarted on login

	// session state
	loggedIn    bool
	character   config.Character
	lastEventAt time.Time
	recent      []recentEvent
	feed        []string

	// poll and emit cadence, overridable in tests
	pollDelay time.Duration
	pollEvery time.Duration
	emitEvery time.Duration
}

type recentEvent struct {
	at   time.Time
	kind string
}

// New builds the application around the given configuration.
func New(cfg *config.Config, lg *slog.Logger) *App {
	if lg == nil {
		lg = slog.Default()
	}
	a := &App{
		cfg:       cfg,
		lg:        lg,
		p:         parser.New(),
		pollDelay: pollInitialDelay,
		pollEvery: pollInterval,
		emitEvery: time.Second,
	}

	sink := notify.Multi{notify.NewDesktop(), (*uiFeed)(a)}
	a.client = report.NewClient(cfg.BaseURL(report.DefaultBaseURL), a, cfg.InstallID, lg)
	a.led = ledger.New(ledger.Options{
		Notifier:  sink,
		Reporter:  a.client,
		Logger:    lg,
		PlaySound: cfg.BonusLight.PlaySound,
		SoundID:   cfg.BonusLight.SoundID,
		Seed:      cfg.BonusLight.ActiveBonus,
		OnChange:  a.persistActive,
	})
	a.stg = stage.New(a.led, sink, lg)
	return a
}

// Character implements report.Identity from the current session state.
func (a *App) Character() (uint64, uint32, uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loggedIn || a.character.ContentID == 0 {
		return 0, 0, 0, false
	}
	return a.character.ContentID, a.character.HomeWorld, a.character.Datacenter, true
}

// Ledger exposes the bonus ledger for the CLI frontend.
func (a *App) Ledger() *ledger.Ledger { return a.led }

// Startup is called by Wails when the app starts. The window reset loop is
// owned by the ledger, not started here.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.ctx = ctx
	a.mu.Unlock()

	if a.cfg.LogPath != "" {
		if err := a.StartTracking(a.cfg.LogPath); err != nil {
			a.lg.Error("auto-start tracking failed", "path", a.cfg.LogPath, "error", err)
		}
	}
}

// Shutdown is called by Wails when the app terminates.
func (a *App) Shutdown(ctx context.Context) {
	a.Stop()
	a.stopPolling()
	a.led.Dispose()
	a.client.Wait()
	if err := a.cfg.Save(); err != nil {
		a.lg.Warn("config save on shutdown failed", "error", err)
	}
}

// StartTracking starts following the given log path and dispatching events.
func (a *App) StartTracking(logPath string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// stop a previous pipeline if any
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.emitStop != nil {
		a.emitStop()
		a.emitStop = nil
	}

	base := a.ctx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithCancel(base)
	a.cancel = cancel

	lines := make(chan string, 2048)
	a.t = tailer.New(tailer.Options{Path: logPath})
	go func() {
		_ = a.t.Follow(ctx, lines)
	}()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-lines:
				if !ok {
					return
				}
				if ev := a.p.Parse(line); ev != nil {
					a.Dispatch(ev)
				}
			}
		}
	}()

	// Periodic state emitter
	emitCtx, emitStop := context.WithCancel(base)
	a.emitStop = emitStop
	go func() {
		ticker := time.NewTicker(a.emitEvery)
		defer ticker.Stop()
		for {
			select {
			case <-emitCtx.Done():
				return
			case <-ticker.C:
				// a.ctx is written under the lock in Startup.
				a.mu.Lock()
				wctx := a.ctx
				a.mu.Unlock()
				if isWailsContext(wctx) {
					runtime.EventsEmit(wctx, "state", a.UIState())
				}
			}
		}
	}()

	a.cfg.LogPath = logPath
	a.lg.Info("tracking started", "path", logPath)
	return nil
}

// Stop halts the tail/dispatch pipeline. Session timers are left to the
// login/logout events.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.emitStop != nil {
		a.emitStop()
		a.emitStop = nil
	}
	if a.t != nil {
		a.t.Stop()
	}
}

// Dispatch routes one parsed event. A failure handling a single event must
// never take down ingestion, so each dispatch is panic-guarded.
func (a *App) Dispatch(ev *types.Event) {
	defer func() {
		if r := recover(); r != nil {
			a.lg.Error("event handler panic", "kind", ev.Kind.String(), "panic", r)
		}
	}()

	a.mu.Lock()
	a.lastEventAt = ev.Time
	a.recent = append(a.recent, recentEvent{at: ev.Time, kind: ev.Kind.String()})
	if len(a.recent) > 50 {
		a.recent = a.recent[len(a.recent)-50:]
	}
	enabled := a.cfg.BonusLight.Enabled
	a.mu.Unlock()

	switch ev.Kind {
	case types.EventLogin:
		a.onLogin(ev)
	case types.EventLogout:
		a.onLogout()
	case types.EventZoneChange:
		a.stg.OnZoneChange(ev.Territory, ev.Time)
	case types.EventDutyStart:
		a.stg.OnDutyStart(ev.Territory)
	case types.EventToast:
		if enabled {
			a.stg.OnToast(ev.Toast, ev.Time)
		}
	}
}

func (a *App) onLogin(ev *types.Event) {
	a.mu.Lock()
	a.loggedIn = true
	if ev.Login != nil {
		a.character = config.Character{
			ContentID:  ev.Login.ContentID,
			HomeWorld:  ev.Login.HomeWorld,
			Datacenter: ev.Login.Datacenter,
		}
		a.cfg.Character = a.character
	}
	world := a.character.HomeWorld
	a.mu.Unlock()
	a.lg.Info("logged in", "world", world)

	a.startPolling()
}

func (a *App) onLogout() {
	a.mu.Lock()
	a.loggedIn = false
	a.mu.Unlock()
	a.lg.Info("logged out")

	a.stopPolling()
	a.led.Clear()
}

// startPolling kicks off the community poll loop: one short initial delay,
// then a fixed interval. Any previous loop is replaced.
func (a *App) startPolling() {
	a.stopPolling()

	ctx, cancel := context.WithCancel(a.baseCtx())
	a.mu.Lock()
	a.pollStop = cancel
	delay, every := a.pollDelay, a.pollEvery
	a.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		a.pollOnce(ctx)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.pollOnce(ctx)
			}
		}
	}()
}

func (a *App) stopPolling() {
	a.mu.Lock()
	cancel := a.pollStop
	a.pollStop = nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// pollOnce fetches the active peer reports and merges them. Failures are
// already folded into the client's status flag; the merge is just skipped.
func (a *App) pollOnce(ctx context.Context) {
	reports, err := a.client.FetchActive(ctx)
	if err != nil {
		return
	}
	a.led.MergeRemote(reports)
}

func (a *App) baseCtx() context.Context {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// persistActive mirrors the ledger's set into the configuration file.
func (a *App) persistActive(ids []uint16) {
	a.cfg.BonusLight.ActiveBonus = ids
	if err := a.cfg.Save(); err != nil {
		a.lg.Warn("persisting active bonuses failed", "error", err)
	}
}

// SelectLogFile opens a file dialog and returns the selected log file path.
func (a *App) SelectLogFile() (string, error) {
	a.mu.Lock()
	ctx := a.ctx
	a.mu.Unlock()
	return runtime.OpenFileDialog(ctx, runtime.OpenDialogOptions{
		Title: "Select game log",
		Filters: []runtime.FileFilter{
			{DisplayName: "Log Files (*.log)", Pattern: "*.log"},
		},
	})
}

// isWailsContext checks if the context is valid for Wails runtime calls.
// In tests and the headless CLI the context is a plain Background context.
func isWailsContext(ctx context.Context) bool {
	return ctx != nil && ctx != context.Background() && ctx != context.TODO()
}

// uiFeed adapts the app's notification feed ring to notify.Notifier.
type uiFeed App

func (f *uiFeed) PrintMessage(text string) {
	a := (*App)(f)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feed = append(a.feed, text)
	if len(a.feed) > 20 {
		a.feed = a.feed[len(a.feed)-20:]
	}
}

func (f *uiFeed) PlaySound(int) {}
