// Package lightwindow computes the two-hour alignment windows that bound
// the validity of a light bonus. The game resets bonuses on even UTC hours
// (00:00, 02:00, ... 22:00), so a detection is only worth keeping while the
// window it was seen in is still the current one.
package lightwindow

import "time"

// LastReset returns the most recent even-hour boundary at or before now.
func LastReset(now time.Time) time.Time {
	u := now.UTC()
	h := u.Hour() - u.Hour()%2
	return time.Date(u.Year(), u.Month(), u.Day(), h, 0, 0, 0, time.UTC)
}

// NextReset returns the first even-hour boundary strictly after now.
func NextReset(now time.Time) time.Time {
	return LastReset(now).Add(2 * time.Hour)
}

// Remaining returns the duration from now until the next reset.
func Remaining(now time.Time) time.Duration {
	return NextReset(now).Sub(now)
}

// StillActive reports whether a detection made at detectedAt is still valid
// at now, i.e. not older than the most recent reset boundary. The effective
// window length therefore varies between zero and two hours depending on how
// far now sits past the boundary; that mirrors the in-game reset cadence.
func StillActive(now, detectedAt time.Time) bool {
	return !detectedAt.UTC().Before(LastReset(now))
}
