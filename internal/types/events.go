package types

import "time"

// EventKind represents the type of a parsed log event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventToast
	EventZoneChange
	EventDutyStart
	EventLogin
	EventLogout
)

func (k EventKind) String() string {
	switch k {
	case EventToast:
		return "Toast"
	case EventZoneChange:
		return "ZoneChange"
	case EventDutyStart:
		return "DutyStart"
	case EventLogin:
		return "Login"
	case EventLogout:
		return "Logout"
	default:
		return "Unknown"
	}
}

// LoginEvent carries the character identity published on login.
type LoginEvent struct {
	ContentID  uint64
	HomeWorld  uint32
	Datacenter uint32
}

// Event is a normalized parsed log event.
type Event struct {
	Kind      EventKind
	Time      time.Time
	Line      string // original line
	Territory uint16 // zone/duty territory id for ZoneChange and DutyStart
	Toast     string // toast text for EventToast
	Login     *LoginEvent
}
