package app

import (
	"time"

	"github.com/hako/durafmt"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/lightwindow"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// UIBonus is one active bonus row sent to the frontend.
type UIBonus struct {
	TerritoryID uint16 `json:"territoryId"`
	Duty        string `json:"duty"`
	DetectedAt  int64  `json:"detectedAt"` // unix millis, 0 when unknown
}

type UIEvent struct {
	Time int64  `json:"time"`
	Kind string `json:"kind"`
}

// UIState is the JSON-friendly snapshot pushed to the frontend.
type UIState struct {
	Tracking   bool      `json:"tracking"`
	LoggedIn   bool      `json:"loggedIn"`
	World      uint32    `json:"world"`
	Datacenter uint32    `json:"datacenter"`
	Bonuses    []UIBonus `json:"bonuses"`
	ResetInMs  int64     `json:"resetInMs"`
	ResetIn    string    `json:"resetIn"`
	SyncOK     bool      `json:"syncOk"`
	Recent     []UIEvent `json:"recent"`
	Feed       []string  `json:"feed"`
}

// GetState returns the latest snapshot for the UI to pull on demand.
func (a *App) GetState() UIState {
	return a.UIState()
}

// UIState converts internal state to a JSON-friendly struct for the UI.
func (a *App) UIState() UIState {
	now := time.Now()
	snap := a.led.Snapshot()

	a.mu.Lock()
	st := UIState{
		Tracking:   a.cancel != nil,
		LoggedIn:   a.loggedIn,
		World:      a.character.HomeWorld,
		Datacenter: a.character.Datacenter,
		SyncOK:     a.client.LastRequestOK(),
		Feed:       append([]string(nil), a.feed...),
	}
	for _, ev := range a.recent {
		st.Recent = append(st.Recent, UIEvent{Time: ev.at.UnixMilli(), Kind: ev.kind})
	}
	a.mu.Unlock()

	st.Bonuses = make([]UIBonus, 0, len(snap))
	for _, e := range snap {
		var at int64
		if !e.DetectedAt.IsZero() {
			at = e.DetectedAt.UnixMilli()
		}
		st.Bonuses = append(st.Bonuses, UIBonus{TerritoryID: e.TerritoryID, Duty: e.DutyName, DetectedAt: at})
	}

	rem := lightwindow.Remaining(now)
	st.ResetInMs = rem.Milliseconds()
	st.ResetIn = durafmt.Parse(rem.Truncate(time.Second)).LimitFirstN(2).Format(shortUnits)
	return st
}
