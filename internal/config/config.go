// Package config loads and persists the companion's configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultFileName is the configuration file looked up next to the binary or
// in the working directory when no explicit path is given.
const DefaultFileName = "zodiacbuddy.json"

// EnvOverride names the environment variable that forces a config path.
const EnvOverride = "ZODIACBUDDY_CONFIG"

// Character caches the identity seen on the last login; it lets one-shot
// commands authenticate without a live game session.
type Character struct {
	ContentID  uint64 `json:"contentId"`
	HomeWorld  uint32 `json:"homeWorld"`
	Datacenter uint32 `json:"datacenter"`
}

// BonusLight holds the bonus notification toggles and the persisted set of
// active bonus territories. The ledger owns the set at runtime and mirrors
// every mutation back here.
type BonusLight struct {
	Enabled     bool     `json:"enabled"`
	PlaySound   bool     `json:"playSound"`
	SoundID     int      `json:"soundId"`
	ActiveBonus []uint16 `json:"activeBonus"`
}

// Config is the persisted companion configuration.
type Config struct {
	// InstallID identifies this installation in diagnostics; generated on
	// first load.
	InstallID string `json:"installId"`
	// Server overrides the community server base URL when set.
	Server string `json:"server,omitempty"`
	// LogPath is the game log file to follow.
	LogPath string `json:"logPath,omitempty"`

	Character  Character  `json:"character"`
	BonusLight BonusLight `json:"bonusLight"`

	path string
}

func defaults() *Config {
	return &Config{
		BonusLight: BonusLight{Enabled: true, PlaySound: true, SoundID: 3},
	}
}

// Load reads the configuration, resolving the path in order: explicit
// argument, environment override, working directory, executable directory.
// A missing file yields defaults bound to the first resolved path. The
// install id is generated when absent.
func Load(path string) (*Config, error) {
	cfg := defaults()
	cfg.path = resolvePath(path)

	if b, err := os.ReadFile(cfg.path); err == nil {
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if cfg.InstallID == "" {
		cfg.InstallID = uuid.NewString()
	}
	return cfg, nil
}

func resolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvOverride); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), DefaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return DefaultFileName
}

// Path returns the file the configuration is bound to.
func (c *Config) Path() string { return c.path }

// Save writes the configuration back to its file, keeping a .bak copy of the
// previous content.
func (c *Config) Save() error {
	if data, err := os.ReadFile(c.path); err == nil {
		_ = os.WriteFile(c.path+".bak", data, 0o644)
	}
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	return os.WriteFile(c.path, out, 0o644)
}

// BaseURL returns the community server base URL, falling back to def.
func (c *Config) BaseURL(def string) string {
	if c.Server != "" {
		return c.Server
	}
	return def
}
