package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ControllerConfig selects the surface and the ports it is reached through
type ControllerConfig struct {
	Class      string `json:"class" yaml:"class"`
	InputPort  string `json:"inputPort" yaml:"inputPort"`
	OutputPort string `json:"outputPort" yaml:"outputPort"`
}

// LogConfig controls debug logging
type LogConfig struct {
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
	// Path of the log file; empty logs to stderr
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MonitorConfig styles the monitor command
type MonitorConfig struct {
	// Palette is a GIMP palette file; empty uses the built-in ramp
	Palette string `json:"palette,omitempty" yaml:"palette,omitempty"`
}

// TrackConfig describes one track of the demo session
type TrackConfig struct {
	Name   string `json:"name" yaml:"name"`
	Group  string `json:"group,omitempty" yaml:"group,omitempty"`
	Folder bool   `json:"folder,omitempty" yaml:"folder,omitempty"`
	Rack   int    `json:"rack,omitempty" yaml:"rack,omitempty"` // number of macros, 0 for none
	Clips  []int  `json:"clips,omitempty" yaml:"clips,omitempty"`
}

// SessionConfig is the demo session the bridge drives
type SessionConfig struct {
	Scenes  int           `json:"scenes" yaml:"scenes"`
	Tracks  []TrackConfig `json:"tracks" yaml:"tracks"`
	Returns []string      `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Controller ControllerConfig `json:"controller" yaml:"controller"`
	Log        LogConfig        `json:"log,omitempty" yaml:"log,omitempty"`
	Monitor    MonitorConfig    `json:"monitor,omitempty" yaml:"monitor,omitempty"`
	Session    SessionConfig    `json:"session" yaml:"session"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Class:      "lv3",
			InputPort:  "Faderfox LV3",
			OutputPort: "Faderfox LV3",
		},
		Session: SessionConfig{
			Scenes: 8,
			Tracks: []TrackConfig{
				{Name: "Drums", Rack: 8, Clips: []int{0, 1, 2}},
				{Name: "Bass", Rack: 8, Clips: []int{0, 1}},
				{Name: "Keys", Clips: []int{1}},
				{Name: "Vox"},
			},
			Returns: []string{"A-Reverb", "B-Delay"},
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "home dir")
	}
	return filepath.Join(home, ".config", "go-surface"), nil
}

// ConfigPath returns the config file in ConfigDir. config.yaml wins over
// config.json when both exist.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from its default path, or returns defaults if not
// found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads path as YAML or JSON by extension. A missing file yields
// the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	// a file that names its own session replaces the demo session as a whole
	cfg := DefaultConfig()
	demo := cfg.Session
	cfg.Session = SessionConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if cfg.Session.Scenes == 0 && len(cfg.Session.Tracks) == 0 && len(cfg.Session.Returns) == 0 {
		cfg.Session = demo
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", path)
	}
	return cfg, nil
}

// Validate checks references inside the session
func (c *Config) Validate() error {
	if c.Session.Scenes < 0 {
		return errors.Errorf("negative scene count %d", c.Session.Scenes)
	}
	folders := make(map[string]bool)
	for _, t := range c.Session.Tracks {
		if t.Name == "" {
			return errors.New("track without a name")
		}
		if t.Group != "" && !folders[t.Group] {
			return errors.Errorf("track %q is in unknown folder %q", t.Name, t.Group)
		}
		if t.Folder {
			folders[t.Name] = true
		}
		for _, row := range t.Clips {
			if row < 0 || row >= c.Session.Scenes {
				return errors.Errorf("track %q has a clip on scene %d of %d", t.Name, row, c.Session.Scenes)
			}
		}
	}
	return nil
}
