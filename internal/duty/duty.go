// Package duty holds the static table of duties that can carry a light
// bonus, keyed by territory id.
package duty

// Duty describes one bonus-light duty.
type Duty struct {
	Name string
	// DefaultIntensity is the light intensity the duty always grants on
	// completion. Only toasts above this baseline indicate a bonus window.
	DefaultIntensity int
}

// table maps territory ids to their duty. Kept in code rather than a data
// file: the set is tiny and changes only with game patches.
var table = map[uint16]Duty{
	// Trials
	292: {"the Bowl of Embers (Hard)", 16},
	293: {"the Navel (Hard)", 16},
	294: {"the Howling Eye (Hard)", 16},
	207: {"Thornmarch (Hard)", 16},
	281: {"the Whorleater (Hard)", 16},
	374: {"the Striking Tree (Hard)", 16},
	377: {"the Akh Afah Amphitheatre (Hard)", 16},

	// Alliance raids
	174: {"the Labyrinth of the Ancients", 16},
	372: {"Syrcus Tower", 32},
	554: {"the World of Darkness", 48},

	// Dungeons
	160: {"Pharos Sirius", 8},
	349: {"Copperbell Mines (Hard)", 8},
	350: {"Haukke Manor (Hard)", 8},
	360: {"Halatali (Hard)", 8},
	361: {"Hullbreaker Isle", 8},
	362: {"Brayflox's Longstop (Hard)", 8},
	363: {"the Lost City of Amdapor", 8},
	367: {"Sastasha (Hard)", 8},
	370: {"the Sunken Temple of Qarn (Hard)", 8},
	371: {"Snowcloak", 8},
	373: {"the Tam-Tara Deepcroft (Hard)", 8},
	387: {"the Stone Vigil (Hard)", 8},
	188: {"the Wanderer's Palace (Hard)", 8},
	189: {"Amdapor Keep (Hard)", 8},
}

// Lookup returns the duty for a territory id.
func Lookup(territoryID uint16) (Duty, bool) {
	d, ok := table[territoryID]
	return d, ok
}

// Tracked reports whether the territory carries bonus-light duties.
func Tracked(territoryID uint16) bool {
	_, ok := table[territoryID]
	return ok
}

// Count returns the number of tracked duties.
func Count() int {
	return len(table)
}
