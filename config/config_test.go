package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Controller.Class != "lv3" || len(cfg.Session.Tracks) != 4 {
		t.Errorf("missing file did not give defaults: %+v", cfg.Controller)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
controller:
  class: uc4
  inputPort: UC4 In
  outputPort: UC4 Out
log:
  debug: true
session:
  scenes: 4
  tracks:
    - name: Drums
      folder: true
    - name: Kick
      group: Drums
      clips: [0, 3]
  returns: [Reverb]
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Controller.Class != "uc4" || cfg.Controller.InputPort != "UC4 In" {
		t.Errorf("controller = %+v", cfg.Controller)
	}
	if !cfg.Log.Debug {
		t.Error("log.debug not read")
	}
	s := cfg.Session
	if s.Scenes != 4 || len(s.Tracks) != 2 || s.Tracks[1].Group != "Drums" || len(s.Returns) != 1 {
		t.Errorf("session = %+v", s)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "controller": {"class": "lv3", "inputPort": "LV3", "outputPort": "LV3"},
  "session": {"scenes": 2, "tracks": [{"name": "Bass", "rack": 8, "clips": [1]}]}
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := cfg.Session.Tracks; len(got) != 1 || got[0].Rack != 8 {
		t.Errorf("tracks = %+v", got)
	}
}

func TestLoadFileInvalid(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"bad yaml", "c.yaml", "controller: [", "parse"},
		{"bad json", "c.json", "{", "parse"},
		{"clip out of range", "c.yaml", "session:\n  scenes: 2\n  tracks:\n    - name: A\n      clips: [2]\n", "scene 2 of 2"},
		{"unknown folder", "c.yaml", "session:\n  scenes: 1\n  tracks:\n    - name: A\n      group: G\n", "unknown folder"},
		{"unnamed track", "c.yaml", "session:\n  tracks:\n    - clips: []\n", "without a name"},
		{"negative scenes", "c.json", `{"session": {"scenes": -1}}`, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestConfigPathPrefersYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "go-surface")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "config.json" {
		t.Errorf("ConfigPath without files = %s, want config.json", path)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, err = ConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("ConfigPath = %s, want config.yaml", path)
	}
}

func TestLoadFileKeepsDemoSession(t *testing.T) {
	cfg, err := LoadFile(writeFile(t, "config.yaml", "controller:\n  class: uc4\n"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Session.Tracks) != len(DefaultConfig().Session.Tracks) {
		t.Errorf("session without a session block has %d tracks", len(cfg.Session.Tracks))
	}
	// ports not named in the file keep their defaults
	if cfg.Controller.InputPort != "Faderfox LV3" {
		t.Errorf("input port = %q", cfg.Controller.InputPort)
	}
}
