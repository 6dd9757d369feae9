package surface

import (
	"go-surface/debug"
	"go-surface/midi"
	"go-surface/session"
)

// UC4 bank channels. Strips 0-7 live on bank 1, 8-15 on bank 2; bank 2 also
// carries the selected-track strip.
const (
	uc4Bank1 uint8 = 0
	uc4Bank2 uint8 = 1

	uc4Strips    = 16
	uc4BankWidth = 8
)

// Per-strip note bases, strip n of a bank is base+n
const (
	uc4NoteSelect  uint8 = 0
	uc4NoteMute    uint8 = 8
	uc4NoteSolo    uint8 = 16
	uc4NoteArm     uint8 = 24
	uc4NoteMonitor uint8 = 32
	uc4NoteLaunch  uint8 = 40
	uc4NoteStop    uint8 = 48
)

// Selected-strip notes on bank 2
const (
	uc4NoteLaunchSel  uint8 = 56
	uc4NoteStopSel    uint8 = 57
	uc4NoteMuteSel    uint8 = 58
	uc4NoteSoloSel    uint8 = 59
	uc4NoteArmSel     uint8 = 60
	uc4NoteMonitorSel uint8 = 61
	uc4NoteTrackView  uint8 = 62
	uc4NoteClipView   uint8 = 63
)

// Global notes on bank 1
const (
	uc4NoteRackTrackView uint8 = 64
	uc4NoteRackOnOff     uint8 = 65
	uc4NotePrevRack      uint8 = 66
	uc4NoteNextRack      uint8 = 67
	uc4NoteShowRack      uint8 = 68
	uc4NoteLockRack      uint8 = 69
	uc4NotePrevTrack     uint8 = 70
	uc4NoteNextTrack     uint8 = 71
	uc4NoteNudgeDown     uint8 = 72
	uc4NoteNudgeUp       uint8 = 73
	uc4NoteStopScene     uint8 = 74
	uc4NoteStartScene    uint8 = 75
	uc4NotePlay          uint8 = 76
	uc4NoteStopPlaying   uint8 = 77
	uc4NoteRecord        uint8 = 78
)

// Per-strip CC bases
const (
	uc4CCPan    uint8 = 16
	uc4CCVolume uint8 = 24
	uc4CCSend   uint8 = 32 // sends 1-4 at 32, 40, 48, 56
	uc4Sends          = 4
)

const (
	// bank 1
	uc4CCMacro             uint8 = 64 // 64-71: macros 1-8
	uc4CCGlobalSceneSelect uint8 = 80
	uc4CCGlobalTrackSelect uint8 = 81
	uc4CCMasterVolume      uint8 = 82
	uc4CCMasterPan         uint8 = 83
	uc4CCCueVolume         uint8 = 84

	// bank 2, selected strip
	uc4CCPanSel          uint8 = 72
	uc4CCVolumeSel       uint8 = 73
	uc4CCSendSel         uint8 = 74 // 74-76: sends 1-3
	uc4CCCrossfadeAssign uint8 = 77
	uc4CCSceneSelect     uint8 = 78
	uc4CCTrackSelect     uint8 = 79
)

// uc4Modes is the encoder mode per bound control base. Every bound UC4
// control is a potentiometer.
var uc4Modes = map[uint8]midi.Mode{
	uc4CCPan:          midi.Absolute,
	uc4CCVolume:       midi.Absolute,
	uc4CCSend:         midi.Absolute,
	uc4CCMacro:        midi.Absolute,
	uc4CCPanSel:       midi.Absolute,
	uc4CCVolumeSel:    midi.Absolute,
	uc4CCSendSel:      midi.Absolute,
	uc4CCMasterVolume: midi.Absolute,
	uc4CCMasterPan:    midi.Absolute,
	uc4CCCueVolume:    midi.Absolute,
}

// uc4StatusNotes maps an attribute to its strip note base and the
// selected-strip mirror
var uc4StatusNotes = map[Attribute][2]uint8{
	AttrMute:    {uc4NoteMute, uc4NoteMuteSel},
	AttrSolo:    {uc4NoteSolo, uc4NoteSoloSel},
	AttrArm:     {uc4NoteArm, uc4NoteArmSel},
	AttrMonitor: {uc4NoteMonitor, uc4NoteMonitorSel},
}

// UC4Layout is two banks of eight strips plus the channel-wide global and
// selected-track roles
func UC4Layout() *AddressMap {
	var entries []AddressEntry
	for i := 0; i < uc4Strips; i++ {
		bank := uc4Bank1
		if i >= uc4BankWidth {
			bank = uc4Bank2
		}
		entries = append(entries, AddressEntry{TrackRole(i), Address{Channel: bank, Strip: i % uc4BankWidth}})
	}
	entries = append(entries,
		AddressEntry{GlobalRole, Address{Channel: uc4Bank1, Strip: NoStrip}},
		AddressEntry{SelectedRole, Address{Channel: uc4Bank2, Strip: NoStrip}},
	)
	return NewAddressMap(entries)
}

type uc4 struct {
	e        *Engine
	selected session.Track
	viewSubs Subscriptions
}

func newUC4(e *Engine) *uc4 {
	return &uc4{e: e}
}

func (c *uc4) layout() *AddressMap { return UC4Layout() }
func (c *uc4) windowSize() int     { return uc4Strips }

// windowTracks is visible ++ returns ++ master
func (c *uc4) windowTracks() []session.Track {
	song := c.e.song
	tracks := append([]session.Track(nil), song.VisibleTracks()...)
	tracks = append(tracks, song.ReturnTracks()...)
	return append(tracks, song.MasterTrack())
}

func (c *uc4) slots() []TrackSlot {
	e := c.e
	tracks := c.windowTracks()
	start, end := e.window.Visible(len(tracks))
	out := make([]TrackSlot, 0, uc4Strips)
	for i := 0; i < uc4Strips; i++ {
		var t session.Track
		if start+i < end {
			t = tracks[start+i]
		}
		out = append(out, e.newSlot(i, TrackRole(i), t))
	}
	c.selected = e.song.SelectedTrack()
	return out
}

func stripControl(base uint8, s TrackSlot) uint8 {
	return base + uint8(s.Address.Strip)
}

func (c *uc4) bind() {
	e := c.e
	for _, s := range e.slots {
		ch := s.Address.Channel
		if s.Track == nil {
			e.clear(ch, stripControl(uc4CCPan, s))
			e.clear(ch, stripControl(uc4CCVolume, s))
			for i := 0; i < uc4Sends; i++ {
				e.clear(ch, stripControl(uc4CCSend+uint8(i*uc4BankWidth), s))
			}
			continue
		}
		mixer := s.Track.Mixer()
		e.bind(ch, stripControl(uc4CCPan, s), mixer.Panning(), uc4Modes[uc4CCPan])
		e.bind(ch, stripControl(uc4CCVolume, s), mixer.Volume(), uc4Modes[uc4CCVolume])
		for i, send := range mixer.Sends() {
			if i >= uc4Sends {
				break
			}
			e.bind(ch, stripControl(uc4CCSend+uint8(i*uc4BankWidth), s), send, uc4Modes[uc4CCSend])
		}
	}

	if t := c.selected; t != nil {
		if rack := e.rack(t); rack != nil {
			params := rack.Parameters()
			for i := 0; i < 8 && 1+i < len(params); i++ {
				e.bind(uc4Bank1, uc4CCMacro+uint8(i), params[1+i], uc4Modes[uc4CCMacro])
			}
		} else {
			debug.Log("binding", "no rack on %s", t.Name())
		}

		mixer := t.Mixer()
		e.bind(uc4Bank2, uc4CCPanSel, mixer.Panning(), uc4Modes[uc4CCPanSel])
		e.bind(uc4Bank2, uc4CCVolumeSel, mixer.Volume(), uc4Modes[uc4CCVolumeSel])
		for i, send := range mixer.Sends() {
			if i >= 3 {
				break
			}
			e.bind(uc4Bank2, uc4CCSendSel+uint8(i), send, uc4Modes[uc4CCSendSel])
		}
		if t.Caps().CanCrossfade {
			e.trackSubs.Add(mixer.ObserveCrossfade(c.crossfade))
		}
	}

	master := e.song.MasterTrack().Mixer()
	e.bind(uc4Bank1, uc4CCMasterVolume, master.Volume(), uc4Modes[uc4CCMasterVolume])
	e.bind(uc4Bank1, uc4CCMasterPan, master.Panning(), uc4Modes[uc4CCMasterPan])
	if cue := master.CueVolume(); cue != nil {
		e.bind(uc4Bank1, uc4CCCueVolume, cue, uc4Modes[uc4CCCueVolume])
	}
}

func (c *uc4) connect() {
	view := c.e.song.View()
	c.viewSubs.Add(view.ObserveView(session.ViewClip, c.views))
	c.viewSubs.Add(view.ObserveView(session.ViewDeviceChain, c.views))
	c.e.songSubs.Add(&c.viewSubs)
}

func (c *uc4) pushAll() {
	for _, attr := range []Attribute{AttrArm, AttrMute, AttrSolo, AttrMonitor} {
		c.status(attr)
	}
	c.launch()
	c.selectLEDs()
	c.views()
	c.crossfade()
}

func (c *uc4) status(attr Attribute) {
	notes, ok := uc4StatusNotes[attr]
	if !ok {
		return
	}
	for _, s := range c.e.slots {
		c.emitNote(attr, s, notes[0], notes[1], trackValue(s.Track, attr, uc4MonitorValues))
	}
}

// emitNote lights a strip note and, for the selected track, its mirror on
// the selected strip
func (c *uc4) emitNote(attr Attribute, s TrackSlot, base, mirror uint8, value uint8) {
	ch := s.Address.Channel
	note := stripControl(base, s)
	mirrored := s.Track != nil && s.Track == c.selected
	c.e.cache.EmitIfChanged(Key{Attr: attr, Addr: s.Address}, int(value), func(v int) [][]byte {
		frames := [][]byte{noteOn(ch, note, uint8(v))}
		if mirrored {
			frames = append(frames, noteOn(uc4Bank2, mirror, uint8(v)))
		}
		return frames
	})
}

func (c *uc4) launch() {
	row := session.SelectedSceneIndex(c.e.song)
	for _, s := range c.e.slots {
		st := launchStatus(s.Track, row, midi.ValueOn)
		c.emitNote(AttrLaunch, s, uc4NoteLaunch, uc4NoteLaunchSel, st.Launch)
		c.emitNote(AttrStop, s, uc4NoteStop, uc4NoteStopSel, st.Stop)
	}
}

// selectLEDs lights the select key of the selected track's strip
func (c *uc4) selectLEDs() {
	for _, s := range c.e.slots {
		ch := s.Address.Channel
		note := stripControl(uc4NoteSelect, s)
		on := s.Track != nil && s.Track == c.e.song.SelectedTrack()
		c.e.cache.EmitIfChanged(Key{Attr: AttrSelected, Addr: s.Address}, boolValue(on), func(v int) [][]byte {
			return [][]byte{noteOn(ch, note, onOff(v == 1))}
		})
	}
}

func (c *uc4) views() {
	view := c.e.song.View()
	track := view.IsViewVisible(session.ViewDeviceChain)
	clip := view.IsViewVisible(session.ViewClip)
	sel := Address{Channel: uc4Bank2, Strip: NoStrip}
	global := Address{Channel: uc4Bank1, Strip: NoStrip}
	c.e.cache.EmitIfChanged(Key{Attr: AttrView, Addr: sel, Control: int(uc4NoteClipView)}, boolValue(clip), func(v int) [][]byte {
		return [][]byte{noteOn(uc4Bank2, uc4NoteClipView, onOff(v == 1))}
	})
	c.e.cache.EmitIfChanged(Key{Attr: AttrView, Addr: sel, Control: int(uc4NoteTrackView)}, boolValue(track), func(v int) [][]byte {
		return [][]byte{noteOn(uc4Bank2, uc4NoteTrackView, onOff(v == 1))}
	})
	c.e.cache.EmitIfChanged(Key{Attr: AttrView, Addr: global, Control: int(uc4NoteRackTrackView)}, boolValue(track), func(v int) [][]byte {
		return [][]byte{noteOn(uc4Bank1, uc4NoteRackTrackView, onOff(v == 1))}
	})
}

func (c *uc4) crossfade() {
	t := c.selected
	value := crossfadeFeedback[session.CrossfadeNone]
	if t != nil && t.Caps().CanCrossfade {
		value = crossfadeFeedback[t.Mixer().CrossfadeAssign()]
	}
	c.e.cache.EmitIfChanged(Key{Attr: AttrCrossfade, Addr: Address{Channel: uc4Bank2, Strip: NoStrip}}, int(value), func(v int) [][]byte {
		return [][]byte{cc(uc4Bank2, uc4CCCrossfadeAssign, uint8(v))}
	})
}

func (c *uc4) refresh() {
	c.sendScene()
	c.sendTrack()
}

func (c *uc4) sendScene() {
	v := counterValue(session.SelectedSceneIndex(c.e.song))
	c.e.send(cc(uc4Bank2, uc4CCSceneSelect, v))
	c.e.send(cc(uc4Bank1, uc4CCGlobalSceneSelect, v))
}

func (c *uc4) sendTrack() {
	song := c.e.song
	idx := session.IndexOfTrack(song.VisibleTracks(), song.SelectedTrack())
	if idx < 0 {
		return
	}
	v := counterValue(idx)
	c.e.send(cc(uc4Bank2, uc4CCTrackSelect, v))
	c.e.send(cc(uc4Bank1, uc4CCGlobalTrackSelect, v))
}

func (c *uc4) sceneChanged() {
	c.sendScene()
	c.e.highlight()
	c.pushAll()
}

func (c *uc4) windowChanged() {}

func (c *uc4) trackChanged() {
	c.sendTrack()
	c.selectLEDs()
}

func (c *uc4) visibleTracksChanged() {
	c.sendTrack()
}

func (c *uc4) transportChanged() {}

func (c *uc4) receive(ev midi.Event) {
	switch ev.Kind {
	case midi.NoteOnKind, midi.NoteOffKind:
		c.receiveNote(ev)
	case midi.ControlChange:
		c.receiveCC(ev.Channel, ev.Controller(), ev.Value())
	}
}

func (c *uc4) receiveNote(ev midi.Event) {
	e := c.e
	song := e.song
	note := ev.Data1
	pressed := ev.Pressed()

	if ev.Channel == uc4Bank1 {
		switch note {
		case uc4NoteNudgeDown:
			song.SetNudgeDown(pressed)
			return
		case uc4NoteNudgeUp:
			song.SetNudgeUp(pressed)
			return
		}
	}

	if s, base, ok := c.stripNote(ev.Channel, note); ok {
		c.stripAction(s, base, pressed)
		return
	}
	if !pressed {
		return
	}

	if ev.Channel == uc4Bank2 {
		switch note {
		case uc4NoteTrackView:
			song.View().ShowView(session.ViewDeviceChain)
		case uc4NoteClipView:
			song.View().ShowView(session.ViewClip)
		}
		return
	}

	switch note {
	case uc4NoteRackTrackView:
		song.View().ShowView(session.ViewDeviceChain)
	case uc4NoteRackOnOff:
		if rack := e.rack(c.selected); rack != nil {
			if params := rack.Parameters(); len(params) > 0 {
				p := params[0]
				if p.Value() > p.Min() {
					p.SetValue(p.Min())
				} else {
					p.SetValue(p.Max())
				}
			}
		}
	case uc4NoteLockRack:
		e.host.ToggleLock()
	case uc4NotePrevTrack:
		c.stepTrack(-1)
	case uc4NoteNextTrack:
		c.stepTrack(1)
	case uc4NoteStartScene:
		e.fireScene(true)
	case uc4NoteStopScene:
		song.StopAllClips()
	case uc4NotePlay:
		song.StartPlaying()
	case uc4NoteStopPlaying:
		song.StopPlaying()
	default:
		debug.Log("midi", "unmapped note ch%d %d", ev.Channel, note)
	}
}

// stripNote resolves a strip or selected-strip note to its slot and the
// note base it belongs to
func (c *uc4) stripNote(ch, note uint8) (TrackSlot, uint8, bool) {
	if ch == uc4Bank2 && note >= uc4NoteLaunchSel && note <= uc4NoteMonitorSel {
		sel := c.selectedSlot()
		base := [...]uint8{uc4NoteLaunch, uc4NoteStop, uc4NoteMute, uc4NoteSolo, uc4NoteArm, uc4NoteMonitor}[note-uc4NoteLaunchSel]
		return sel, base, sel.Track != nil
	}
	if note >= uc4NoteLaunchSel {
		return TrackSlot{}, 0, false
	}
	base := note - note%uc4BankWidth
	s, ok := c.e.slotAt(Address{Channel: ch, Strip: int(note % uc4BankWidth)})
	return s, base, ok
}

// selectedSlot is a slot for the selected track, bound to a strip or not
func (c *uc4) selectedSlot() TrackSlot {
	t := c.selected
	for _, s := range c.e.slots {
		if s.Track != nil && s.Track == t {
			return s
		}
	}
	return c.e.newSlot(-1, SelectedRole, t)
}

func (c *uc4) stripAction(s TrackSlot, base uint8, pressed bool) {
	e := c.e
	if base == uc4NoteLaunch {
		if s.Kind == SlotMaster {
			e.fireScene(pressed)
		} else if s.Track != nil {
			e.fireTrack(s.Track, pressed)
		}
		return
	}
	if !pressed || s.Track == nil {
		return
	}
	t := s.Track
	switch base {
	case uc4NoteSelect:
		e.song.SetSelectedTrack(t)
	case uc4NoteStop:
		if s.Kind == SlotMaster {
			e.song.StopAllClips()
		} else {
			t.StopAllClips()
		}
	case uc4NoteMute:
		if s.Caps.HasMute {
			t.SetMute(!t.Mute())
		}
	case uc4NoteSolo:
		if s.Caps.HasSolo {
			t.SetSolo(!t.Solo())
		}
	case uc4NoteArm:
		if s.Caps.CanArm {
			t.SetArm(!t.Arm())
		}
	case uc4NoteMonitor:
		if s.Caps.HasMonitor {
			t.SetMonitorState(t.MonitorState().Next())
		}
	}
}

func (c *uc4) receiveCC(ch, control, value uint8) {
	switch {
	case ch == uc4Bank2 && control == uc4CCSceneSelect, ch == uc4Bank1 && control == uc4CCGlobalSceneSelect:
		c.e.scrollScene(midi.DecodeRelative(value))
	case ch == uc4Bank2 && control == uc4CCTrackSelect, ch == uc4Bank1 && control == uc4CCGlobalTrackSelect:
		c.stepTrack(midi.DecodeRelative(value))
	case ch == uc4Bank2 && control == uc4CCCrossfadeAssign:
		if t := c.selected; t != nil && t.Caps().CanCrossfade {
			t.Mixer().SetCrossfadeAssign(crossfadeFromValue(value))
		}
	}
}

// stepTrack moves the selection through the visible tracks
func (c *uc4) stepTrack(delta int) {
	song := c.e.song
	visible := song.VisibleTracks()
	if len(visible) == 0 {
		return
	}
	idx := session.IndexOfTrack(visible, song.SelectedTrack()) + delta
	song.SetSelectedTrack(visible[midi.Clamp(idx, 0, len(visible)-1)])
}
