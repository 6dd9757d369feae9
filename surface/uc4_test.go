package surface

import (
	"testing"

	"go-surface/session"
	"go-surface/session/memory"
)

// three tracks put A-C on strips 1-3 and master on strip 4
func uc4Fixture(t *testing.T) (*Engine, *fakeHost, *memory.Song, []*memory.Track) {
	t.Helper()
	song, tracks := newSong(3, 2)
	e, h := newEngine(t, ClassUC4, song)
	return e, h, song, tracks
}

func TestUC4Slots(t *testing.T) {
	e, _, song, _ := uc4Fixture(t)
	slots := e.Slots()
	if len(slots) != 16 {
		t.Fatalf("%d slots, want 16", len(slots))
	}
	if s := slots[3]; s.Kind != SlotMaster || s.Track != song.MasterTrack() {
		t.Errorf("strip 4 = %s, want master", s)
	}
	if s := slots[9]; s.Kind != SlotEmpty || s.Address != (Address{Channel: 1, Strip: 1}) {
		t.Errorf("strip 10 = %s", s)
	}
}

func TestUC4CrossfadeAssign(t *testing.T) {
	e, h, _, tracks := uc4Fixture(t)

	tests := []struct {
		in   uint8
		want session.CrossfadeAssign
		led  uint8
	}{
		{0, session.CrossfadeA, 0},
		{64, session.CrossfadeNone, 64},
		{127, session.CrossfadeB, 127},
	}
	for _, tt := range tests {
		h.reset()
		e.ReceiveMIDI([]byte{0xB1, uc4CCCrossfadeAssign, tt.in})
		if got := tracks[0].Mixer().CrossfadeAssign(); got != tt.want {
			t.Errorf("input %d assigned %d, want %d", tt.in, got, tt.want)
		}
		if got := h.values(0xB1, uc4CCCrossfadeAssign); !equalValues(got, []uint8{tt.led}) {
			t.Errorf("input %d feedback %v, want [%d]", tt.in, got, tt.led)
		}
	}
}

func TestUC4MuteToggle(t *testing.T) {
	e, h, _, tracks := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0x90, uc4NoteMute, 127})
	if !tracks[0].Mute() {
		t.Fatal("mute key did not mute")
	}
	// strip LED plus the selected-strip mirror
	if len(h.frames) != 2 || !h.sent(0x90, uc4NoteMute, 0) || !h.sent(0x91, uc4NoteMuteSel, 0) {
		t.Errorf("mute sent % X", h.frames)
	}

	h.reset()
	e.ReceiveMIDI([]byte{0x80, uc4NoteMute, 0})
	if !tracks[0].Mute() || len(h.frames) != 0 {
		t.Error("release toggled mute")
	}

	e.ReceiveMIDI([]byte{0x91, uc4NoteMuteSel, 127})
	if tracks[0].Mute() {
		t.Error("selected-strip mute did not toggle the selected track")
	}

	e.ReceiveMIDI([]byte{0x90, uc4NoteSolo + 1, 127})
	e.ReceiveMIDI([]byte{0x90, uc4NoteArm + 2, 127})
	if !tracks[1].Solo() || !tracks[2].Arm() {
		t.Error("strip keys did not reach B and C")
	}
}

func TestUC4Select(t *testing.T) {
	e, h, song, tracks := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0x90, uc4NoteSelect + 2, 127})
	if song.SelectedTrack() != session.Track(tracks[2]) {
		t.Fatal("select key did not select C")
	}
	if !h.sent(0x90, 2, 127) || !h.sent(0x90, 0, 0) {
		t.Errorf("select LEDs not moved: % X", h.frames)
	}
	if !h.sent(0xB1, uc4CCTrackSelect, 3) || !h.sent(0xB0, uc4CCGlobalTrackSelect, 3) {
		t.Errorf("track position not sent: % X", h.frames)
	}
	if h.rebuilds != 1 {
		t.Errorf("%d rebuild requests, want 1", h.rebuilds)
	}

	e.BuildMap()
	h.reset()
	tracks[2].SetMute(true)
	if !h.sent(0x90, uc4NoteMute+2, 0) || !h.sent(0x91, uc4NoteMuteSel, 0) {
		t.Errorf("mirror did not follow the selection: % X", h.frames)
	}
}

func TestUC4StepTrack(t *testing.T) {
	e, _, song, tracks := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0xB1, uc4CCTrackSelect, 1})
	if song.SelectedTrack() != session.Track(tracks[1]) {
		t.Error("track encoder did not step forward")
	}
	e.ReceiveMIDI([]byte{0x90, uc4NotePrevTrack, 127})
	if song.SelectedTrack() != session.Track(tracks[0]) {
		t.Error("previous track key did not step back")
	}
	e.ReceiveMIDI([]byte{0x90, uc4NotePrevTrack, 127})
	if song.SelectedTrack() != session.Track(tracks[0]) {
		t.Error("stepped before the first track")
	}
}

func TestUC4StepTrackClamps(t *testing.T) {
	tests := []struct {
		name  string
		from  int
		value uint8
		want  int
	}{
		{"past the end", 1, 3, 2},
		{"far past the end", 0, 63, 2},
		{"before the start", 1, 125, 0},
		{"far before the start", 2, 64, 0},
		{"in range", 2, 127, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, song, tracks := uc4Fixture(t)
			song.SetSelectedTrack(tracks[tt.from])
			e.ReceiveMIDI([]byte{0xB1, uc4CCTrackSelect, tt.value})
			if got := session.IndexOfTrack(song.VisibleTracks(), song.SelectedTrack()); got != tt.want {
				t.Errorf("selected track %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUC4MonitorTwoState(t *testing.T) {
	_, h, _, tracks := uc4Fixture(t)

	tracks[0].SetMonitorState(session.MonitorIn)
	if !h.sent(0x90, uc4NoteMonitor, 127) || !h.sent(0x91, uc4NoteMonitorSel, 127) {
		t.Errorf("monitor in sent % X", h.frames)
	}
	h.reset()
	tracks[0].SetMonitorState(session.MonitorAuto)
	if len(h.frames) != 0 {
		t.Errorf("auto after in sent % X, want nothing", h.frames)
	}
}

func TestUC4EmptyStrips(t *testing.T) {
	song, _ := newSong(3, 1)
	e, h := startEngine(t, ClassUC4, song)

	vol := uc4CCVolume + 5
	if _, ok := e.Bindings().Get(0, vol); ok {
		t.Error("empty strip volume bound")
	}
	if got := h.values(0xB0, vol); !equalValues(got, []uint8{0}) {
		t.Errorf("empty strip volume sent %v, want [0]", got)
	}
	b, ok := e.Bindings().Get(0, uc4CCPan+3)
	if !ok || b.Param != song.MasterTrack().Mixer().Panning() {
		t.Error("master strip pan not bound")
	}

	key := Key{Attr: AttrStop, Addr: Address{Channel: 0, Strip: 5}}
	if v, _ := e.Cache().Get(key); v != 0 {
		t.Errorf("empty strip stop LED %d, want 0", v)
	}
	key.Addr.Strip = 3
	if v, _ := e.Cache().Get(key); v != 127 {
		t.Errorf("master stop LED %d, want 127", v)
	}
}

func TestUC4SelectedStrip(t *testing.T) {
	e, _, song, tracks := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0xB1, uc4CCVolumeSel, 0})
	if v := tracks[0].Mixer().Volume().Value(); v != 0 {
		t.Fatalf("selected volume = %v, want 0", v)
	}

	song.SetSelectedTrack(tracks[1])
	e.BuildMap()
	e.ReceiveMIDI([]byte{0xB1, uc4CCVolumeSel, 127})
	if v := tracks[1].Mixer().Volume().Value(); v != 1 {
		t.Errorf("B volume = %v, want 1", v)
	}
	if v := tracks[0].Mixer().Volume().Value(); v != 0 {
		t.Errorf("A volume moved to %v", v)
	}
}

func TestUC4Macros(t *testing.T) {
	song, tracks := newSong(2, 1)
	rack := memory.NewRack("Rack", 8)
	tracks[0].AddDevice(rack)
	e, _ := newEngine(t, ClassUC4, song)

	e.ReceiveMIDI([]byte{0xB0, uc4CCMacro + 7, 127})
	if v := rack.Param(8).Value(); v != 127 {
		t.Errorf("macro 8 = %v, want 127", v)
	}

	e.ReceiveMIDI([]byte{0x90, uc4NoteRackOnOff, 127})
	if v := rack.Param(0).Value(); v != 0 {
		t.Errorf("rack on/off = %v, want off", v)
	}
	e.ReceiveMIDI([]byte{0x90, uc4NoteRackOnOff, 127})
	if v := rack.Param(0).Value(); v != 1 {
		t.Errorf("rack on/off = %v, want on", v)
	}
}

func TestUC4Transport(t *testing.T) {
	e, h, song, tracks := uc4Fixture(t)
	tracks[0].Slot(0).SetClip(true)

	e.ReceiveMIDI([]byte{0x90, uc4NoteStartScene, 127})
	if tracks[0].PlayingSlotIndex() != 0 {
		t.Fatal("start scene did not fire")
	}
	if !h.sent(0x90, uc4NoteLaunch, 63) || !h.sent(0x91, uc4NoteLaunchSel, 63) {
		t.Errorf("launch LED not blinking: % X", h.frames)
	}
	e.ReceiveMIDI([]byte{0x90, uc4NoteStopScene, 127})
	if tracks[0].PlayingSlotIndex() != -1 {
		t.Error("stop scene did not stop")
	}

	e.ReceiveMIDI([]byte{0x90, uc4NoteLaunch, 127})
	if tracks[0].PlayingSlotIndex() != 0 {
		t.Error("strip launch did not fire")
	}
	e.ReceiveMIDI([]byte{0x90, uc4NoteStopPlaying, 127})
	if song.IsPlaying() || tracks[0].PlayingSlotIndex() != -1 {
		t.Error("stop did not stop the song")
	}

	e.ReceiveMIDI([]byte{0x90, uc4NoteNudgeDown, 127})
	if down, _ := song.Nudge(); !down {
		t.Error("nudge down not held")
	}
	e.ReceiveMIDI([]byte{0x80, uc4NoteNudgeDown, 0})
	if down, _ := song.Nudge(); down {
		t.Error("nudge down not released")
	}
}

func TestUC4Views(t *testing.T) {
	e, h, song, _ := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0x91, uc4NoteTrackView, 127})
	if !song.View().IsViewVisible(session.ViewDeviceChain) {
		t.Fatal("track view key did not show the device chain")
	}
	for _, f := range [][]byte{
		{0x91, uc4NoteTrackView, 127},
		{0x91, uc4NoteClipView, 0},
		{0x90, uc4NoteRackTrackView, 127},
	} {
		if !h.sent(f...) {
			t.Errorf("view LED % X not sent", f)
		}
	}
}

func TestUC4LockKey(t *testing.T) {
	e, h, _, _ := uc4Fixture(t)
	e.ReceiveMIDI([]byte{0x90, uc4NoteLockRack, 127})
	e.ReceiveMIDI([]byte{0x80, uc4NoteLockRack, 0})
	if h.toggles != 1 {
		t.Errorf("lock key toggled %d times, want 1", h.toggles)
	}
}

func TestUC4SceneScroll(t *testing.T) {
	e, h, song, _ := uc4Fixture(t)

	e.ReceiveMIDI([]byte{0xB0, uc4CCGlobalSceneSelect, 1})
	if song.SelectedScene() != song.Scenes()[1] {
		t.Fatal("scene encoder did not move")
	}
	if !h.sent(0xB1, uc4CCSceneSelect, 2) || !h.sent(0xB0, uc4CCGlobalSceneSelect, 2) {
		t.Errorf("scene position not sent: % X", h.frames)
	}
	e.ReceiveMIDI([]byte{0xB1, uc4CCSceneSelect, 5})
	if song.SelectedScene() != song.Scenes()[1] {
		t.Error("scrolled past the last scene")
	}
}
