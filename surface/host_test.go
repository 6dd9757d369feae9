package surface

import (
	"bytes"
	"testing"

	"go-surface/session/memory"
)

// fakeHost records everything the engine asks of its host
type fakeHost struct {
	frames    [][]byte
	rebuilds  int
	messages  []string
	highlight [4]int
	toggles   int
}

func (h *fakeHost) SendMIDI(frame []byte) {
	h.frames = append(h.frames, append([]byte(nil), frame...))
}

func (h *fakeHost) RequestRebuild()        { h.rebuilds++ }
func (h *fakeHost) ShowMessage(msg string) { h.messages = append(h.messages, msg) }
func (h *fakeHost) ToggleLock()            { h.toggles++ }

func (h *fakeHost) SetSessionHighlight(track, scene, width, height int) {
	h.highlight = [4]int{track, scene, width, height}
}

// values returns every value sent for a status byte and first data byte, in
// send order
func (h *fakeHost) values(status, data1 uint8) []uint8 {
	var out []uint8
	for _, f := range h.frames {
		if len(f) == 3 && f[0] == status && f[1] == data1 {
			out = append(out, f[2])
		}
	}
	return out
}

func (h *fakeHost) sent(frame ...byte) bool {
	for _, f := range h.frames {
		if bytes.Equal(f, frame) {
			return true
		}
	}
	return false
}

func (h *fakeHost) reset() {
	h.frames = nil
	h.rebuilds = 0
	h.messages = nil
}

// newSong creates a song with n regular tracks
func newSong(n, scenes int) (*memory.Song, []*memory.Track) {
	song := memory.NewSong(scenes)
	tracks := make([]*memory.Track, n)
	for i := range tracks {
		tracks[i] = song.AddTrack(string(rune('A' + i)))
	}
	return song, tracks
}

// startEngine connects an engine, runs the first rebuild and keeps the
// frames it sent
func startEngine(t *testing.T, class Class, song *memory.Song) (*Engine, *fakeHost) {
	t.Helper()
	h := &fakeHost{}
	e, err := New(h, song, class)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !e.RebuildPending() || h.rebuilds != 1 {
		t.Fatalf("connect requested %d rebuilds, pending %v", h.rebuilds, e.RebuildPending())
	}
	e.BuildMap()
	return e, h
}

// newEngine is startEngine with the initial frames discarded
func newEngine(t *testing.T, class Class, song *memory.Song) (*Engine, *fakeHost) {
	t.Helper()
	e, h := startEngine(t, class, song)
	h.reset()
	return e, h
}

func equalValues(a, b []uint8) bool {
	return bytes.Equal(a, b)
}
