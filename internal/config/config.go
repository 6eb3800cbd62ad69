package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	pErrors "github.com/zhubert/followup/internal/errors"
	"github.com/zhubert/followup/internal/followup"
	"github.com/zhubert/followup/internal/selection"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "FOLLOWUP_CONFIG"

// Terminal defaults for the floating control, in cells.
const (
	DefaultControlWidth  = 22
	DefaultControlHeight = 3
	DefaultControlGap    = 1
)

// maxDebounceMS bounds debounce_ms so a typo cannot make the UI appear frozen.
const maxDebounceMS = 5000

// Config holds the application configuration
type Config struct {
	DebounceMS         int               `toml:"debounce_ms" json:"debounce_ms"`
	MinSelectionLength int               `toml:"min_selection_length" json:"min_selection_length"`
	ControlWidth       int               `toml:"control_width" json:"control_width"`
	ControlHeight      int               `toml:"control_height" json:"control_height"`
	ControlGap         int               `toml:"control_gap" json:"control_gap"`
	Theme              string            `toml:"theme,omitempty" json:"theme,omitempty"` // UI theme name (e.g., "dark-purple", "nord")
	Markers            selection.Markers `toml:"markers" json:"markers"`

	filePath string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DebounceMS:         int(selection.DefaultDebounce / time.Millisecond),
		MinSelectionLength: selection.DefaultMinLength,
		ControlWidth:       DefaultControlWidth,
		ControlHeight:      DefaultControlHeight,
		ControlGap:         DefaultControlGap,
		Markers:            selection.DefaultMarkers(),
	}
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".followup"), nil
}

// Path returns the config file to use: $FOLLOWUP_CONFIG when set, otherwise
// ~/.followup/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default location. A missing config.toml
// falls back to config.json next to it, and a missing file yields defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, pErrors.ConfigLoadFailed("~/.followup", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. Files ending in .json are decoded as
// JSON, anything else as TOML.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.filePath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !isJSON(path) {
			jsonPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
			if _, err := os.Stat(jsonPath); err == nil {
				return LoadFrom(jsonPath)
			}
		}
		return cfg, nil
	}

	if isJSON(path) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, pErrors.ConfigLoadFailed(path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, pErrors.ConfigLoadFailed(path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, pErrors.ConfigLoadFailed(path, err)
		}
	}

	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// fillDefaults restores marker names a partial [markers] table left blank.
func (c *Config) fillDefaults() {
	def := selection.DefaultMarkers()
	if c.Markers.RoleAttr == "" {
		c.Markers.RoleAttr = def.RoleAttr
	}
	if c.Markers.AssistantRole == "" {
		c.Markers.AssistantRole = def.AssistantRole
	}
	if c.Markers.StreamingAttr == "" {
		c.Markers.StreamingAttr = def.StreamingAttr
	}
	if c.Markers.ControlAttr == "" {
		c.Markers.ControlAttr = def.ControlAttr
	}
}

// Validate checks that the config is internally consistent.
func (c *Config) Validate() error {
	if c.DebounceMS < 0 || c.DebounceMS > maxDebounceMS {
		return pErrors.ConfigInvalid(fmt.Sprintf("debounce_ms must be between 0 and %d, got %d", maxDebounceMS, c.DebounceMS))
	}
	if c.MinSelectionLength < 1 {
		return pErrors.ConfigInvalid(fmt.Sprintf("min_selection_length must be at least 1, got %d", c.MinSelectionLength))
	}
	if c.ControlWidth < 1 || c.ControlHeight < 1 {
		return pErrors.ConfigInvalid(fmt.Sprintf("control size must be positive, got %dx%d", c.ControlWidth, c.ControlHeight))
	}
	if c.ControlGap < 0 {
		return pErrors.ConfigInvalid(fmt.Sprintf("control_gap must not be negative, got %d", c.ControlGap))
	}
	if c.Markers.RoleAttr == c.Markers.StreamingAttr || c.Markers.RoleAttr == c.Markers.ControlAttr ||
		c.Markers.StreamingAttr == c.Markers.ControlAttr {
		return pErrors.ConfigInvalid("marker attributes must be distinct")
	}
	return nil
}

// Save writes the config as TOML, or JSON when path ends in .json.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return pErrors.ConfigLoadFailed(path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return pErrors.ConfigLoadFailed(path, err)
	}
	defer f.Close()

	if isJSON(path) {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(c)
	} else {
		err = toml.NewEncoder(f).Encode(c)
	}
	if err != nil {
		return pErrors.ConfigLoadFailed(path, err)
	}
	c.filePath = path
	return nil
}

// FilePath returns the file the config was loaded from, if any.
func (c *Config) FilePath() string {
	return c.filePath
}

// Debounce returns the selection-change debounce delay.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Geometry returns the follow-up control's size and spacing.
func (c *Config) Geometry() followup.Geometry {
	return followup.Geometry{Width: c.ControlWidth, Height: c.ControlHeight, Gap: c.ControlGap}
}
