package surface

import (
	"go-surface/debug"
	"go-surface/midi"
	"go-surface/session"
)

// LV3 channels: one per strip, plus the global (shift) channel
const (
	lv3ChanSendA  uint8 = 8
	lv3ChanSendB  uint8 = 9
	lv3ChanMaster uint8 = 10
	lv3ChanGlobal uint8 = 11

	lv3Tracks = 8
)

// LV3 strip controls (every strip channel)
const (
	lv3FX2Send      uint8 = 1
	lv3FX3Send      uint8 = 2
	lv3FX1OnOff     uint8 = 4
	lv3Volume       uint8 = 7
	lv3TrackSelect  uint8 = 8
	lv3Pan          uint8 = 10
	lv3PanCenter    uint8 = 11
	lv3SendAOnOff   uint8 = 12
	lv3SendBEncoder uint8 = 13
	lv3Launch       uint8 = 16
	lv3Stop         uint8 = 17
	lv3Active       uint8 = 18
	lv3Solo         uint8 = 19
	lv3Record       uint8 = 20
	lv3Monitor      uint8 = 21
	lv3SendALevel   uint8 = 22
	lv3SendBLevel   uint8 = 23
	lv3MacroEncoder uint8 = 24 // 24-27: macros 1-4
	lv3MacroPush    uint8 = 28 // 28-31: macros 5-8
)

// LV3 global channel controls
const (
	lv3SceneStop    uint8 = 0
	lv3SceneStart   uint8 = 3
	lv3SceneSelect  uint8 = 6
	lv3TrackWindow  uint8 = 9
	lv3Play         uint8 = 14
	lv3StopPlaying  uint8 = 15
	lv3TempoFine    uint8 = 24
	lv3QuantStep    uint8 = 25
	lv3CueVolume    uint8 = 26
	lv3MasterVolume uint8 = 27
	lv3TapTempo     uint8 = 28
	lv3NudgeDown    uint8 = 29
	lv3NudgeUp      uint8 = 30
	lv3ViewToggle   uint8 = 31
)

// lv3Modes is the encoder mode of every bound LV3 strip control
var lv3Modes = map[uint8]midi.Mode{
	lv3FX2Send:          midi.Absolute,
	lv3FX3Send:          midi.Absolute,
	lv3FX1OnOff:         midi.Absolute,
	lv3Volume:           midi.Absolute,
	lv3Pan:              midi.RelativeTwosComplement,
	lv3SendAOnOff:       midi.Absolute,
	lv3SendBEncoder:     midi.RelativeTwosComplement,
	lv3SendALevel:       midi.Absolute,
	lv3SendBLevel:       midi.Absolute,
	lv3MacroEncoder:     midi.RelativeTwosComplement,
	lv3MacroEncoder + 1: midi.RelativeTwosComplement,
	lv3MacroEncoder + 2: midi.RelativeTwosComplement,
	lv3MacroEncoder + 3: midi.RelativeTwosComplement,
	lv3MacroPush:        midi.Absolute,
	lv3MacroPush + 1:    midi.Absolute,
	lv3MacroPush + 2:    midi.Absolute,
	lv3MacroPush + 3:    midi.Absolute,
}

// rack parameter index bound to the FX keys
var lv3FXParams = map[uint8]int{
	lv3FX1OnOff: 6,
	lv3FX2Send:  7,
	lv3FX3Send:  8,
}

var lv3StatusControls = map[Attribute]uint8{
	AttrMute:        lv3Active,
	AttrSolo:        lv3Solo,
	AttrArm:         lv3Record,
	AttrMonitor:     lv3Monitor,
	AttrPanCentered: lv3PanCenter,
}

// LV3Layout is one channel per strip: Track1-8 on 0-7, SendA 8, SendB 9,
// Master 10 and Global 11
func LV3Layout() *AddressMap {
	var entries []AddressEntry
	for i := 0; i < lv3Tracks; i++ {
		entries = append(entries, AddressEntry{TrackRole(i), Address{Channel: uint8(i), Strip: 0}})
	}
	entries = append(entries,
		AddressEntry{SendRole(0), Address{Channel: lv3ChanSendA, Strip: 0}},
		AddressEntry{SendRole(1), Address{Channel: lv3ChanSendB, Strip: 0}},
		AddressEntry{MasterRole, Address{Channel: lv3ChanMaster, Strip: 0}},
		AddressEntry{GlobalRole, Address{Channel: lv3ChanGlobal, Strip: NoStrip}},
	)
	return NewAddressMap(entries)
}

type lv3 struct {
	e *Engine
	// channel of the last strip selected from the controller
	selected uint8
}

func newLV3(e *Engine) *lv3 {
	return &lv3{e: e}
}

func (c *lv3) layout() *AddressMap { return LV3Layout() }
func (c *lv3) windowSize() int     { return lv3Tracks }

func (c *lv3) windowTracks() []session.Track {
	return c.e.song.VisibleTracks()
}

func (c *lv3) slots() []TrackSlot {
	e := c.e
	visible := c.windowTracks()
	start, end := e.window.Visible(len(visible))

	var out []TrackSlot
	for i := 0; i < lv3Tracks; i++ {
		var t session.Track
		if start+i < end {
			t = visible[start+i]
		}
		out = append(out, e.newSlot(len(out), TrackRole(i), t))
	}
	returns := e.song.ReturnTracks()
	for i := 0; i < 2; i++ {
		var t session.Track
		if i < len(returns) {
			t = returns[i]
		}
		out = append(out, e.newSlot(len(out), SendRole(i), t))
	}
	out = append(out, e.newSlot(len(out), MasterRole, e.song.MasterTrack()))
	return out
}

func (c *lv3) bind() {
	e := c.e
	for _, s := range e.slots {
		ch := s.Address.Channel
		if s.Track == nil {
			for _, control := range []uint8{lv3Volume, lv3SendALevel, lv3SendBLevel} {
				e.clear(ch, control)
			}
			continue
		}
		mixer := s.Track.Mixer()
		c.bindControl(ch, lv3Pan, mixer.Panning())
		c.bindControl(ch, lv3Volume, mixer.Volume())
		sends := mixer.Sends()
		if len(sends) > 0 {
			c.bindControl(ch, lv3SendAOnOff, sends[0])
			c.bindControl(ch, lv3SendALevel, sends[0])
		}
		if len(sends) > 1 {
			c.bindControl(ch, lv3SendBEncoder, sends[1])
			c.bindControl(ch, lv3SendBLevel, sends[1])
		}

		rack := e.rack(s.Track)
		if rack == nil {
			debug.Log("binding", "no rack on %s", s.Track.Name())
			continue
		}
		params := rack.Parameters()
		for i := 0; i < 4; i++ {
			if 1+i < len(params) {
				c.bindControl(ch, lv3MacroEncoder+uint8(i), params[1+i])
			}
			if 5+i < len(params) {
				c.bindControl(ch, lv3MacroPush+uint8(i), params[5+i])
			}
		}
		for control, idx := range lv3FXParams {
			if idx < len(params) {
				c.bindControl(ch, control, params[idx])
			}
		}
	}

	master := e.song.MasterTrack().Mixer()
	e.bind(lv3ChanGlobal, lv3MasterVolume, master.Volume(), midi.RelativeTwosComplement)
	if cue := master.CueVolume(); cue != nil {
		e.bind(lv3ChanGlobal, lv3CueVolume, cue, midi.RelativeTwosComplement)
	}
}

func (c *lv3) bindControl(ch, control uint8, p session.Parameter) {
	c.e.bind(ch, control, p, lv3Modes[control])
}

func (c *lv3) connect() {}

func (c *lv3) pushAll() {
	for _, attr := range []Attribute{AttrArm, AttrMute, AttrSolo, AttrMonitor, AttrPanCentered} {
		c.status(attr)
	}
	c.launch()
	c.transportChanged()
}

func (c *lv3) status(attr Attribute) {
	control, ok := lv3StatusControls[attr]
	if !ok {
		return
	}
	for _, s := range c.e.slots {
		ch := s.Address.Channel
		v := trackValue(s.Track, attr, lv3MonitorValues)
		c.e.cache.EmitIfChanged(Key{Attr: attr, Addr: s.Address}, int(v), func(v int) [][]byte {
			return [][]byte{cc(ch, control, uint8(v))}
		})
	}
}

// launch sends the launch/stop LEDs of the eight track strips
func (c *lv3) launch() {
	row := session.SelectedSceneIndex(c.e.song)
	for _, s := range c.e.slots {
		if s.Role.Kind != RoleTrack {
			continue
		}
		ch := s.Address.Channel
		st := launchStatus(s.Track, row, midi.ValueOff)
		c.e.cache.EmitIfChanged(Key{Attr: AttrLaunch, Addr: s.Address}, int(st.Launch), func(v int) [][]byte {
			return [][]byte{cc(ch, lv3Launch, uint8(v))}
		})
		c.e.cache.EmitIfChanged(Key{Attr: AttrStop, Addr: s.Address}, int(st.Stop), func(v int) [][]byte {
			return [][]byte{cc(ch, lv3Stop, uint8(v))}
		})
	}
}

func (c *lv3) transportChanged() {
	playing := c.e.song.IsPlaying()
	global := Address{Channel: lv3ChanGlobal, Strip: NoStrip}
	c.e.cache.EmitIfChanged(Key{Attr: AttrTransport, Addr: global, Control: int(lv3Play)}, boolValue(playing), func(v int) [][]byte {
		return [][]byte{cc(lv3ChanGlobal, lv3Play, onOff(v == 1))}
	})
	c.e.cache.EmitIfChanged(Key{Attr: AttrTransport, Addr: global, Control: int(lv3StopPlaying)}, boolValue(!playing), func(v int) [][]byte {
		return [][]byte{cc(lv3ChanGlobal, lv3StopPlaying, onOff(v == 1))}
	})
}

func (c *lv3) refresh() {
	c.sendScene()
	c.windowChanged()
}

func (c *lv3) sendScene() {
	c.e.send(cc(lv3ChanMaster, lv3SceneSelect, counterValue(session.SelectedSceneIndex(c.e.song))))
}

func (c *lv3) sceneChanged() {
	c.sendScene()
	c.e.highlight()
	c.pushAll()
}

func (c *lv3) windowChanged() {
	c.e.send(cc(lv3ChanGlobal, lv3TrackWindow, c.e.window.FeedbackValue()))
}

func (c *lv3) trackChanged()         {}
func (c *lv3) visibleTracksChanged() {}

func (c *lv3) receive(ev midi.Event) {
	if ev.Kind != midi.ControlChange {
		return
	}
	switch ev.Channel {
	case lv3ChanGlobal:
		c.receiveGlobal(ev.Controller(), ev.Value())
		return
	case lv3ChanMaster:
		if c.receiveScene(ev.Controller(), ev.Value()) {
			return
		}
	}
	c.receiveTrack(ev.Channel, ev.Controller(), ev.Value())
}

func (c *lv3) receiveTrack(ch, control, value uint8) {
	e := c.e
	if control == lv3TrackSelect && value == midi.ValueOn {
		c.selectStrip(ch)
		return
	}

	s, ok := e.slotAt(Address{Channel: ch, Strip: 0})
	if !ok || s.Track == nil {
		return
	}
	t := s.Track
	master := s.Kind == SlotMaster

	switch {
	case control == lv3PanCenter && value == midi.ValueOn:
		t.Mixer().Panning().SetValue(0)

	case control >= lv3MacroPush && control < lv3MacroPush+4, control == lv3FX1OnOff:
		idx := int(control-lv3MacroPush) + 5
		if control == lv3FX1OnOff {
			idx = lv3FXParams[lv3FX1OnOff]
		}
		pushToExtreme(e.rack(t), idx, value)

	case control == lv3Launch:
		if master {
			e.fireScene(value == midi.ValueOn)
		} else if s.Role.Kind == RoleTrack {
			e.fireTrack(t, value == midi.ValueOn)
		}

	case control == lv3Stop && value == midi.ValueOn:
		if master {
			e.song.StopAllClips()
		} else if s.Role.Kind == RoleTrack {
			t.StopAllClips()
		}

	case control == lv3Active && !master:
		t.SetMute(value == midi.ValueOff)

	case control == lv3Solo && !master:
		t.SetSolo(value == midi.ValueOn)

	case control == lv3Record && s.Caps.CanArm:
		t.SetArm(value == midi.ValueOn)

	case control == lv3Monitor && s.Caps.HasMonitor:
		t.SetMonitorState(t.MonitorState().Next())
	}
}

// selectStrip selects the track on ch. When nothing is bound there the key
// LED of the last selected strip is lit again.
func (c *lv3) selectStrip(ch uint8) {
	s, ok := c.e.slotAt(Address{Channel: ch, Strip: 0})
	if !ok || s.Track == nil {
		debug.Log("select", "no track on ch%d, keep ch%d", ch, c.selected)
		c.e.send(cc(c.selected, lv3TrackSelect, midi.ValueOn))
		return
	}
	c.selected = ch
	c.e.song.SetSelectedTrack(s.Track)
}

// receiveScene handles the scene controls on the master channel
func (c *lv3) receiveScene(control, value uint8) bool {
	e := c.e
	switch control {
	case lv3SceneSelect:
		e.scrollScene(midi.DecodeRelative(value))
	case lv3SceneStart:
		e.fireScene(value == midi.ValueOn)
	case lv3SceneStop:
		if value == midi.ValueOn {
			e.song.StopAllClips()
		}
	default:
		return false
	}
	return true
}

func (c *lv3) receiveGlobal(control, value uint8) {
	e := c.e
	song := e.song
	switch control {
	case lv3Play:
		song.StartPlaying()
	case lv3StopPlaying:
		song.StopPlaying()
	case lv3TrackWindow:
		e.scrollWindow(midi.DecodeRelative(value))
	case lv3SceneStart:
		if t := song.SelectedTrack(); t != nil {
			e.fireTrack(t, value == midi.ValueOn)
		}
	case lv3SceneStop:
		if value == midi.ValueOn {
			c.stopSelectedClip()
		}
	case lv3TapTempo:
		if value == midi.ValueOn {
			song.TapTempo()
		}
	case lv3NudgeDown:
		song.SetNudgeDown(value == midi.ValueOn)
	case lv3NudgeUp:
		song.SetNudgeUp(value == midi.ValueOn)
	case lv3ViewToggle:
		if value == midi.ValueOn {
			toggleDetailView(song.View())
		}
	case lv3TempoFine:
		song.SetTempo(song.Tempo() + float64(midi.DecodeRelative(value))*0.01)
	case lv3QuantStep:
		stepQuantization(song, midi.DecodeRelative(value))
	}
}

func (c *lv3) stopSelectedClip() {
	t := c.e.song.SelectedTrack()
	if t == nil {
		return
	}
	row := session.SelectedSceneIndex(c.e.song)
	slots := t.ClipSlots()
	if row < len(slots) && slots[row].HasClip() {
		slots[row].Stop()
	}
}

// pushToExtreme sets a rack parameter to its max on press and its min on
// release
func pushToExtreme(rack session.Device, idx int, value uint8) {
	if rack == nil {
		return
	}
	params := rack.Parameters()
	if idx >= len(params) {
		return
	}
	p := params[idx]
	switch value {
	case midi.ValueOn:
		p.SetValue(p.Max())
	case midi.ValueOff:
		p.SetValue(p.Min())
	}
}

func toggleDetailView(v session.View) {
	if v.IsViewVisible(session.ViewClip) {
		v.ShowView(session.ViewDeviceChain)
	} else {
		v.ShowView(session.ViewClip)
	}
}

func stepQuantization(song session.Song, delta int) {
	steps := session.QuantizationSteps
	idx := 0
	for i, q := range steps {
		if q == song.Quantization() {
			idx = i
			break
		}
	}
	song.SetQuantization(steps[midi.Clamp(idx+delta, 0, len(steps)-1)])
}

func onOff(on bool) uint8 {
	if on {
		return midi.ValueOn
	}
	return midi.ValueOff
}
