package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const gpl = `GIMP Palette
Name: Mono
Columns: 2
# black to white
  0   0   0	Black
255 255 255	White
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(gpl))
	if err != nil {
		t.Fatalf("ParseGPL: %v", err)
	}
	if p.Name != "Mono" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}
	if p.Colors[1] != (RGB{255, 255, 255}) {
		t.Errorf("second color = %v", p.Colors[1])
	}
}

func TestParseGPLRejects(t *testing.T) {
	for _, body := range []string{"", "GIMP Palette\nName: x\n", "300 0 0\n", "a b c\n"} {
		if _, err := ParseGPL(strings.NewReader(body)); err == nil {
			t.Errorf("ParseGPL(%q) accepted", body)
		}
	}
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.gpl")
	if err := os.WriteFile(path, []byte(gpl), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err != nil {
		t.Errorf("LoadGPL: %v", err)
	}
	if _, err := LoadGPL(filepath.Join(t.TempDir(), "missing.gpl")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 0}}}
	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{100, 50, 0}},
		{1, RGB{200, 100, 0}},
		{2, RGB{200, 100, 0}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	if got := single.Lookup(0.7); got != (RGB{1, 2, 3}) {
		t.Errorf("single color Lookup = %v", got)
	}
}

func TestBar(t *testing.T) {
	th := New(nil)
	if th.Palette != Plasma {
		t.Error("nil palette did not fall back to plasma")
	}
	for _, v := range []uint8{0, 64, 127} {
		bar := th.Bar(v, 8)
		if n := strings.Count(bar, "■") + strings.Count(bar, "·"); n != 8 {
			t.Errorf("Bar(%d) has %d cells, want 8", v, n)
		}
	}
	if full := th.Bar(127, 4); strings.Count(full, "■") != 4 {
		t.Errorf("Bar(127) = %q, want full", full)
	}
}
