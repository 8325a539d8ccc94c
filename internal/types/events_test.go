package types

import "testing"

func TestEventKindString(t *testing.T) {
	cases := map[EventKind]string{
		EventToast:      "Toast",
		EventZoneChange: "ZoneChange",
		EventDutyStart:  "DutyStart",
		EventLogin:      "Login",
		EventLogout:     "Logout",
		EventUnknown:    "Unknown",
		EventKind(99):   "Unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(k), got, want)
		}
	}
}
