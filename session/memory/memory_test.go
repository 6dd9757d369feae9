package memory

import (
	"testing"

	"go-surface/session"
)

func TestObserveOrderAndCancel(t *testing.T) {
	song := NewSong(2)
	tr := song.AddTrack("A")

	var calls []string
	first := tr.Observe(session.Mute, func() { calls = append(calls, "first") })
	tr.Observe(session.Mute, func() { calls = append(calls, "second") })

	tr.SetMute(true)
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v, want [first second]", calls)
	}

	first.Cancel()
	first.Cancel()
	calls = nil
	tr.SetMute(false)
	if len(calls) != 1 || calls[0] != "second" {
		t.Errorf("after cancel calls = %v, want [second]", calls)
	}
	if n := tr.Listeners(session.Mute); n != 1 {
		t.Errorf("Listeners(mute) = %d, want 1", n)
	}
}

func TestSettersNotifyOnlyOnChange(t *testing.T) {
	song := NewSong(1)
	tr := song.AddTrack("A")
	n := 0
	tr.Observe(session.Solo, func() { n++ })

	tr.SetSolo(true)
	tr.SetSolo(true)
	if n != 1 {
		t.Errorf("solo notified %d times, want 1", n)
	}
}

func TestCapabilities(t *testing.T) {
	song := NewSong(1)
	ret := song.AddReturn("R")
	master := song.MasterTrack()

	ret.SetArm(true)
	if ret.Arm() {
		t.Error("return track armed")
	}
	master.SetMute(true)
	if master.Mute() {
		t.Error("master muted")
	}
	if master.Mixer().CueVolume() == nil {
		t.Error("master has no cue volume")
	}
	if ret.Mixer().CueVolume() != nil {
		t.Error("return has a cue volume")
	}
}

func TestSendsFollowReturns(t *testing.T) {
	song := NewSong(1)
	a := song.AddTrack("A")
	song.AddReturn("R1")
	b := song.AddTrack("B")
	song.AddReturn("R2")

	if got := len(a.Mixer().Sends()); got != 2 {
		t.Errorf("A has %d sends, want 2", got)
	}
	if got := len(b.Mixer().Sends()); got != 2 {
		t.Errorf("B has %d sends, want 2", got)
	}
}

func TestGroupPlayingAndFolding(t *testing.T) {
	song := NewSong(4)
	g := song.AddGroup("G")
	a := song.AddTrackIn(g, "A")
	song.AddTrack("B")
	a.Slot(2).SetClip(true)

	groupNotified := 0
	g.Observe(session.PlayingSlot, func() { groupNotified++ })

	if !g.Slot(2).ControlsOtherClips() {
		t.Error("group slot does not control the child clip")
	}
	g.Slot(2).SetFireButtonState(true)
	if a.PlayingSlotIndex() != 2 {
		t.Errorf("child playing %d, want 2", a.PlayingSlotIndex())
	}
	if g.PlayingSlotIndex() != 2 || g.Slot(2).PlayingStatus() != session.SlotPlaying {
		t.Error("group does not report the playing child")
	}
	if groupNotified != 1 {
		t.Errorf("group notified %d times, want 1", groupNotified)
	}
	if !song.IsPlaying() {
		t.Error("launching a clip did not start the song")
	}

	if got := len(song.VisibleTracks()); got != 3 {
		t.Fatalf("visible = %d, want 3", got)
	}
	visible := 0
	song.Observe(session.VisibleTracksChanged, func() { visible++ })
	g.SetFolded(true)
	if got := len(song.VisibleTracks()); got != 2 {
		t.Errorf("visible after fold = %d, want 2", got)
	}
	if visible != 1 {
		t.Errorf("visible tracks notified %d times, want 1", visible)
	}
}

func TestEmptySlotStopsTrack(t *testing.T) {
	song := NewSong(2)
	a := song.AddTrack("A")
	a.Slot(0).SetClip(true)
	a.Slot(0).SetFireButtonState(true)
	a.Slot(1).SetFireButtonState(true)
	if a.PlayingSlotIndex() != -1 {
		t.Errorf("playing %d after firing an empty slot, want -1", a.PlayingSlotIndex())
	}
}

func TestParameterClamps(t *testing.T) {
	p := NewParameter("p", 0, 1, 3)
	if p.Value() != 1 {
		t.Errorf("initial value %v, want 1", p.Value())
	}
	n := 0
	p.Observe(func() { n++ })
	p.SetValue(-2)
	if p.Value() != 0 || n != 1 {
		t.Errorf("value %v notified %d", p.Value(), n)
	}
}

func TestRack(t *testing.T) {
	song := NewSong(1)
	a := song.AddTrack("A")
	a.AddDevice(NewDevice("EQ", NewParameter("Gain", 0, 1, 0.5)))
	rack := NewRack("Rack", 8)
	a.AddDevice(rack)

	got := session.FirstRack(a.Devices())
	if got != session.Device(rack) {
		t.Fatalf("FirstRack = %v, want the rack", got)
	}
	if n := len(rack.Parameters()); n != 9 {
		t.Errorf("rack has %d parameters, want 9", n)
	}
}

func TestViewsAreExclusive(t *testing.T) {
	song := NewSong(1)
	v := song.View()
	changes := 0
	v.ObserveView(session.ViewClip, func() { changes++ })

	v.ShowView(session.ViewDeviceChain)
	if v.IsViewVisible(session.ViewClip) || !v.IsViewVisible(session.ViewDeviceChain) {
		t.Error("device chain did not replace the clip view")
	}
	if changes != 1 {
		t.Errorf("clip view notified %d times, want 1", changes)
	}
}

func TestQuantizationSteps(t *testing.T) {
	song := NewSong(1)
	song.SetQuantization(session.QuantizeQuarter)
	if song.Quantization() != session.QuantizeQuarter {
		t.Errorf("quantization = %s", song.Quantization())
	}
	if n := len(session.QuantizationSteps); n != 14 {
		t.Errorf("%d quantization steps, want 14", n)
	}
}
