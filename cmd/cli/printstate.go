package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	app2 "github.com/Ai-Vonie/ZodiacBuddy/internal/app"
)

func printState(w io.Writer, st app2.UIState) {
	fmt.Fprintln(w, "------------------------------")
	if st.LoggedIn {
		fmt.Fprintf(w, "Character: world %d (datacenter %d)\n", st.World, st.Datacenter)
	} else {
		fmt.Fprintln(w, "No character logged in yet.")
	}
	fmt.Fprintf(w, "Window resets in %s\n", st.ResetIn)
	if !st.SyncOK {
		fmt.Fprintln(w, "Community sync: last request failed")
	}
	if len(st.Bonuses) == 0 {
		fmt.Fprintln(w, "No active light bonus.")
		return
	}
	fmt.Fprintln(w, "Active light bonuses:")
	for _, b := range st.Bonuses {
		when := "detection time unknown"
		if b.DetectedAt > 0 {
			when = humanize.Time(time.UnixMilli(b.DetectedAt))
		}
		fmt.Fprintf(w, "  %-36s %s\n", b.Duty, when)
	}
}
