package memory

import (
	"go-surface/session"
)

type trackKind int

const (
	kindNormal trackKind = iota
	kindGroup
	kindReturn
	kindMaster
)

// Track is a regular, group, return or master track
type Track struct {
	song  *Song
	name  string
	kind  trackKind
	group *Track

	folded  bool
	mute    bool
	solo    bool
	arm     bool
	monitor session.MonitorState
	playing int

	slots   []*ClipSlot
	mixer   *Mixer
	devices []session.Device
}

func (t *Track) Name() string {
	return t.name
}

func (t *Track) Caps() session.TrackCapabilities {
	switch t.kind {
	case kindNormal:
		return session.TrackCapabilities{
			CanArm:         true,
			HasMute:        true,
			HasSolo:        true,
			HasMonitor:     true,
			HasPlayingSlot: true,
			CanCrossfade:   true,
		}
	case kindGroup:
		return session.TrackCapabilities{
			HasMute:        true,
			HasSolo:        true,
			HasPlayingSlot: true,
			CanCrossfade:   true,
		}
	case kindReturn:
		return session.TrackCapabilities{
			HasMute:      true,
			HasSolo:      true,
			CanCrossfade: true,
		}
	}
	return session.TrackCapabilities{}
}

func (t *Track) IsFoldable() bool {
	return t.kind == kindGroup
}

// SetFolded collapses or expands a group track, changing the visible tracks
func (t *Track) SetFolded(folded bool) {
	if t.kind != kindGroup || t.folded == folded {
		return
	}
	t.folded = folded
	t.song.hub.notify(songKey{session.VisibleTracksChanged})
}

func (t *Track) visible() bool {
	for g := t.group; g != nil; g = g.group {
		if g.folded {
			return false
		}
	}
	return true
}

func (t *Track) Mute() bool {
	return t.mute
}

func (t *Track) SetMute(on bool) {
	if !t.Caps().HasMute || t.mute == on {
		return
	}
	t.mute = on
	t.notify(session.Mute)
}

func (t *Track) Solo() bool {
	return t.solo
}

func (t *Track) SetSolo(on bool) {
	if !t.Caps().HasSolo || t.solo == on {
		return
	}
	t.solo = on
	t.notify(session.Solo)
}

func (t *Track) Arm() bool {
	return t.arm
}

func (t *Track) SetArm(on bool) {
	if !t.Caps().CanArm || t.arm == on {
		return
	}
	t.arm = on
	t.notify(session.Arm)
}

func (t *Track) MonitorState() session.MonitorState {
	return t.monitor
}

func (t *Track) SetMonitorState(m session.MonitorState) {
	if !t.Caps().HasMonitor || t.monitor == m {
		return
	}
	t.monitor = m
	t.notify(session.Monitor)
}

// PlayingSlotIndex returns the playing row; for a group, the first row any
// child plays
func (t *Track) PlayingSlotIndex() int {
	if t.kind != kindGroup {
		return t.playing
	}
	for _, c := range t.children() {
		if idx := c.PlayingSlotIndex(); idx >= 0 {
			return idx
		}
	}
	return -1
}

func (t *Track) ClipSlots() []session.ClipSlot {
	out := make([]session.ClipSlot, len(t.slots))
	for i, s := range t.slots {
		out[i] = s
	}
	return out
}

// Slot returns the concrete clip slot at row
func (t *Track) Slot(row int) *ClipSlot {
	return t.slots[row]
}

func (t *Track) StopAllClips() {
	if t.kind == kindGroup {
		for _, c := range t.children() {
			c.StopAllClips()
		}
		return
	}
	t.setPlaying(-1)
}

func (t *Track) Mixer() session.Mixer {
	return t.mixer
}

// MixerDevice returns the concrete mixer
func (t *Track) MixerDevice() *Mixer {
	return t.mixer
}

func (t *Track) Devices() []session.Device {
	return t.devices
}

// AddDevice appends d to the device chain
func (t *Track) AddDevice(d *Device) {
	for _, p := range d.params {
		p.hub = t.song.hub
	}
	t.devices = append(t.devices, d)
}

func (t *Track) Observe(attr session.Attribute, fn func()) session.Subscription {
	return t.song.hub.add(attrKey{t, attr}, fn)
}

// Listeners returns the number of listeners on attr
func (t *Track) Listeners(attr session.Attribute) int {
	return t.song.hub.count(attrKey{t, attr})
}

func (t *Track) notify(a session.Attribute) {
	t.song.hub.notify(attrKey{t, a})
}

func (t *Track) setPlaying(row int) {
	if t.playing == row {
		return
	}
	t.playing = row
	if row >= 0 {
		t.song.setPlaying(true)
	}
	t.notify(session.PlayingSlot)
	for g := t.group; g != nil; g = g.group {
		g.notify(session.PlayingSlot)
	}
}

func (t *Track) children() []*Track {
	var out []*Track
	for _, tr := range t.song.tracks {
		if tr.group == t {
			out = append(out, tr)
		}
	}
	return out
}

// Mixer holds a track's mixer parameters
type Mixer struct {
	track     *Track
	volume    *Parameter
	panning   *Parameter
	sends     []*Parameter
	cue       *Parameter
	crossfade session.CrossfadeAssign
}

func (m *Mixer) Volume() session.Parameter {
	return m.volume
}

func (m *Mixer) Panning() session.Parameter {
	return m.panning
}

func (m *Mixer) Sends() []session.Parameter {
	out := make([]session.Parameter, len(m.sends))
	for i, p := range m.sends {
		out[i] = p
	}
	return out
}

func (m *Mixer) CueVolume() session.Parameter {
	if m.cue == nil {
		return nil
	}
	return m.cue
}

func (m *Mixer) CrossfadeAssign() session.CrossfadeAssign {
	return m.crossfade
}

func (m *Mixer) SetCrossfadeAssign(c session.CrossfadeAssign) {
	if !m.track.Caps().CanCrossfade || m.crossfade == c {
		return
	}
	m.crossfade = c
	m.track.song.hub.notify(crossfadeKey{m})
}

func (m *Mixer) ObserveCrossfade(fn func()) session.Subscription {
	return m.track.song.hub.add(crossfadeKey{m}, fn)
}

// Parameter is a bounded float value
type Parameter struct {
	hub   *hub
	name  string
	value float64
	min   float64
	max   float64
}

// NewParameter creates a parameter clamped to [min, max]
func NewParameter(name string, min, max, value float64) *Parameter {
	p := &Parameter{name: name, min: min, max: max}
	p.value = p.clamp(value)
	return p
}

func (p *Parameter) Name() string {
	return p.name
}

func (p *Parameter) Value() float64 {
	return p.value
}

// SetValue clamps v and notifies listeners even when the value is unchanged
func (p *Parameter) SetValue(v float64) {
	p.value = p.clamp(v)
	if p.hub != nil {
		p.hub.notify(paramKey{p})
	}
}

func (p *Parameter) Min() float64 {
	return p.min
}

func (p *Parameter) Max() float64 {
	return p.max
}

func (p *Parameter) Observe(fn func()) session.Subscription {
	if p.hub == nil {
		p.hub = &hub{}
	}
	return p.hub.add(paramKey{p}, fn)
}

func (p *Parameter) clamp(v float64) float64 {
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

// Device is an effect or instrument in a track's chain
type Device struct {
	name   string
	rack   bool
	params []*Parameter
}

// NewDevice creates a plain device with the given parameters
func NewDevice(name string, params ...*Parameter) *Device {
	return &Device{name: name, params: params}
}

// NewRack creates a rack: parameter 0 is "Device On", followed by macros
// ranging 0-127
func NewRack(name string, macros int) *Device {
	d := &Device{name: name, rack: true}
	d.params = append(d.params, NewParameter("Device On", 0, 1, 1))
	for i := 0; i < macros; i++ {
		d.params = append(d.params, NewParameter("Macro", 0, 127, 0))
	}
	return d
}

// NewRackParams creates a rack from explicit parameters; params[0] is the
// device on/off
func NewRackParams(name string, params ...*Parameter) *Device {
	return &Device{name: name, rack: true, params: params}
}

func (d *Device) Name() string {
	return d.name
}

func (d *Device) IsRack() bool {
	return d.rack
}

func (d *Device) Parameters() []session.Parameter {
	out := make([]session.Parameter, len(d.params))
	for i, p := range d.params {
		out[i] = p
	}
	return out
}

// Param returns the concrete parameter at idx
func (d *Device) Param(idx int) *Parameter {
	return d.params[idx]
}

// ClipSlot is one cell of the session grid
type ClipSlot struct {
	track   *Track
	row     int
	hasClip bool
}

func (s *ClipSlot) HasClip() bool {
	return s.hasClip
}

// SetClip adds or removes the slot's clip
func (s *ClipSlot) SetClip(has bool) {
	if s.hasClip == has {
		return
	}
	s.hasClip = has
	if !has && s.track.playing == s.row {
		s.track.setPlaying(-1)
	}
	s.track.song.hub.notify(hasClipKey{s})
}

func (s *ClipSlot) PlayingStatus() session.PlayingStatus {
	if s.track.kind == kindGroup {
		for _, c := range s.track.children() {
			if c.playing == s.row {
				return session.SlotPlaying
			}
		}
		return session.SlotStopped
	}
	if s.track.playing == s.row {
		return session.SlotPlaying
	}
	return session.SlotStopped
}

// ControlsOtherClips is true for group slots whose children have a clip on
// the same row
func (s *ClipSlot) ControlsOtherClips() bool {
	if s.track.kind != kindGroup {
		return false
	}
	for _, c := range s.track.children() {
		if s.row < len(c.slots) && c.slots[s.row].hasClip {
			return true
		}
	}
	return false
}

// SetFireButtonState launches on press; releases are ignored
func (s *ClipSlot) SetFireButtonState(pressed bool) {
	if !pressed {
		return
	}
	if s.track.kind == kindGroup {
		for _, c := range s.track.children() {
			if s.row < len(c.slots) {
				c.slots[s.row].SetFireButtonState(true)
			}
		}
		return
	}
	if s.hasClip {
		s.track.setPlaying(s.row)
	} else {
		s.track.setPlaying(-1)
	}
}

func (s *ClipSlot) Stop() {
	if s.hasClip && s.track.playing == s.row {
		s.track.setPlaying(-1)
	}
}

func (s *ClipSlot) ObserveHasClip(fn func()) session.Subscription {
	return s.track.song.hub.add(hasClipKey{s}, fn)
}

// Scene is a row of clip slots across all clip tracks
type Scene struct {
	song *Song
	row  int
	name string
}

func (sc *Scene) Name() string {
	return sc.name
}

func (sc *Scene) ClipSlots() []session.ClipSlot {
	var out []session.ClipSlot
	for _, t := range sc.song.tracks {
		if sc.row < len(t.slots) {
			out = append(out, t.slots[sc.row])
		}
	}
	return out
}

// SetFireButtonState launches every regular track's slot on this row
func (sc *Scene) SetFireButtonState(pressed bool) {
	if !pressed {
		return
	}
	for _, t := range sc.song.tracks {
		if t.kind == kindNormal && sc.row < len(t.slots) {
			t.slots[sc.row].SetFireButtonState(true)
		}
	}
}

func (sc *Scene) ObserveClipSlots(fn func()) session.Subscription {
	return sc.song.hub.add(sceneKey{sc}, fn)
}

// View tracks which detail view is shown
type View struct {
	song    *Song
	visible map[string]bool
}

func (v *View) IsViewVisible(name string) bool {
	return v.visible[name]
}

// ShowView shows name; the clip and device chain detail views are exclusive
func (v *View) ShowView(name string) {
	if v.visible[name] {
		return
	}
	v.visible[name] = true
	v.song.hub.notify(viewKey{name})
	other := ""
	switch name {
	case session.ViewClip:
		other = session.ViewDeviceChain
	case session.ViewDeviceChain:
		other = session.ViewClip
	}
	if other != "" && v.visible[other] {
		v.visible[other] = false
		v.song.hub.notify(viewKey{other})
	}
}

func (v *View) ObserveView(name string, fn func()) session.Subscription {
	return v.song.hub.add(viewKey{name}, fn)
}
