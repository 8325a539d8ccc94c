// Package report exchanges bonus-light reports with the community server.
package report

import "time"

// Report is one detected or peer-reported light-bonus occurrence, in the
// wire shape of the community protocol.
type Report struct {
	Datacenter    uint32    `json:"datacenter"`
	World         uint32    `json:"world"`
	TerritoryID   uint16    `json:"territoryId"`
	DetectionTime time.Time `json:"detectionTime"`
}

// Identity provides the reporting character. ok is false while nobody is
// logged in; submissions are skipped and polls go out anonymously.
type Identity interface {
	Character() (contentID uint64, world, datacenter uint32, ok bool)
}
