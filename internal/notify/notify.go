// Package notify delivers user-facing bonus notifications.
package notify

import (
	"os"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"
)

// Notifier is the presentation sink consumed by the ledger.
type Notifier interface {
	// PrintMessage shows a line of text to the user.
	PrintMessage(text string)
	// PlaySound plays the notification tone identified by soundID.
	PlaySound(soundID int)
}

// Desktop delivers notifications through the OS notification service.
type Desktop struct {
	// Title shown on every notification.
	Title string
}

// NewDesktop returns a Desktop notifier with the default title.
func NewDesktop() *Desktop {
	return &Desktop{Title: "ZodiacBuddy"}
}

// PrintMessage shows a desktop notification, best-effort and non-fatal.
func (d *Desktop) PrintMessage(text string) {
	if text == "" {
		return
	}
	// Skip on headless Linux without DISPLAY; beeep would error.
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return
	}
	_ = beeep.Notify(d.Title, text, "")
}

// PlaySound plays a short tone. The in-game sound effect ids have no desktop
// equivalent, so the id only selects the tone frequency.
func (d *Desktop) PlaySound(soundID int) {
	freq := 220.0 * float64(1+soundID%8)
	_ = beeep.Beep(freq, int((200 * time.Millisecond).Milliseconds()))
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) PrintMessage(text string) {
	for _, n := range m {
		n.PrintMessage(text)
	}
}

func (m Multi) PlaySound(soundID int) {
	for _, n := range m {
		n.PlaySound(soundID)
	}
}
