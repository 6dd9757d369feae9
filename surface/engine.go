// Package surface keeps a fixed-layout MIDI control surface in sync with a
// mixing session. The Engine is single-threaded: the host calls ReceiveMIDI,
// UpdateDisplay and BuildMap serially, and session notifications arrive on the
// same call chain.
package surface

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"go-surface/debug"
	"go-surface/midi"
	"go-surface/session"
)

// Host is what the engine needs from its embedding
type Host interface {
	// SendMIDI enqueues one frame; it must not block
	SendMIDI(frame []byte)
	// RequestRebuild asks the host to call BuildMap before the next
	// MIDI dispatch
	RequestRebuild()
	ShowMessage(msg string)
	SetSessionHighlight(track, scene, width, height int)
	// ToggleLock asks the host to lock or unlock the selected device
	ToggleLock()
}

// Class selects a controller layout and its behaviour
type Class string

const (
	ClassLV3 Class = "lv3"
	ClassUC4 Class = "uc4"
)

// ParseClass accepts a class name case-insensitively
func ParseClass(name string) (Class, error) {
	switch Class(strings.ToLower(name)) {
	case ClassLV3:
		return ClassLV3, nil
	case ClassUC4:
		return ClassUC4, nil
	}
	return "", errors.Errorf("unknown controller class %q", name)
}

// SlotKind is what a strip is currently bound to
type SlotKind int

const (
	SlotEmpty SlotKind = iota
	SlotNormal
	SlotFoldable
	SlotReturn
	SlotMaster
)

func (k SlotKind) String() string {
	return [...]string{"empty", "normal", "foldable", "return", "master"}[k]
}

// TrackSlot is one strip's binding target for the current generation
type TrackSlot struct {
	Index   int
	Role    Role
	Address Address
	Kind    SlotKind
	Track   session.Track
	Caps    session.TrackCapabilities
}

func (s TrackSlot) String() string {
	if s.Track == nil {
		return fmt.Sprintf("%s@%s empty", s.Role, s.Address)
	}
	return fmt.Sprintf("%s@%s %s %q", s.Role, s.Address, s.Kind, s.Track.Name())
}

// controller is the per-class half of the engine
type controller interface {
	layout() *AddressMap
	windowSize() int
	// windowTracks is the list the window scrolls over
	windowTracks() []session.Track
	slots() []TrackSlot
	bind()
	connect()
	pushAll()
	status(attr Attribute)
	launch()
	receive(ev midi.Event)
	refresh()
	sceneChanged()
	windowChanged()
	trackChanged()
	visibleTracksChanged()
	transportChanged()
}

// Engine is the synchronization context for one controller
type Engine struct {
	host  Host
	song  session.Song
	class Class
	ctrl  controller

	addrs    *AddressMap
	cache    *Cache
	window   *Window
	bindings *BindingSet
	rebuild  *Rebuilder

	slots   []TrackSlot
	cleared []BindingKey

	songSubs  Subscriptions
	trackSubs Subscriptions
	sceneSubs Subscriptions

	locked bool
	device session.Device

	refreshClips bool
}

// New creates an engine for class, subscribes to the song and requests the
// first rebuild
func New(host Host, song session.Song, class Class) (*Engine, error) {
	e := &Engine{
		host:     host,
		song:     song,
		class:    class,
		bindings: NewBindingSet(),
	}
	switch class {
	case ClassLV3:
		e.ctrl = newLV3(e)
	case ClassUC4:
		e.ctrl = newUC4(e)
	default:
		return nil, errors.Errorf("unknown controller class %q", class)
	}
	e.addrs = e.ctrl.layout()
	e.window = NewWindow(e.ctrl.windowSize())
	e.cache = NewCache(host.SendMIDI)
	e.rebuild = NewRebuilder(host.RequestRebuild)

	e.connect()
	e.rebuild.Request("connect")
	return e, nil
}

func (e *Engine) connect() {
	e.songSubs.Add(e.song.Observe(session.SelectedSceneChanged, e.onSceneSelected))
	e.songSubs.Add(e.song.Observe(session.SelectedTrackChanged, func() {
		e.ctrl.trackChanged()
		e.rebuild.Request("selected track")
	}))
	e.songSubs.Add(e.song.Observe(session.VisibleTracksChanged, func() {
		e.ctrl.visibleTracksChanged()
		e.rebuild.Request("visible tracks")
	}))
	e.songSubs.Add(e.song.Observe(session.IsPlayingChanged, e.ctrl.transportChanged))
	e.songSubs.Add(e.song.Observe(session.QuantizationChanged, func() {
		debug.Log("transport", "quantization %s", e.song.Quantization())
	}))
	e.ctrl.connect()
	e.observeScene()
}

// Disconnect drops every listener and binding
func (e *Engine) Disconnect() {
	e.songSubs.CancelAll()
	e.trackSubs.CancelAll()
	e.sceneSubs.CancelAll()
	e.bindings.Clear()
	e.cache.Reset()
	e.slots = nil
	debug.Log("engine", "disconnected")
}

// ReceiveMIDI dispatches one inbound frame
func (e *Engine) ReceiveMIDI(raw []byte) {
	ev := midi.Decode(raw)
	if ev.Kind == midi.Unhandled {
		debug.Log("midi", "dropped frame % X", raw)
		return
	}
	debug.Log("midi", "in %s", ev)
	e.ctrl.receive(ev)
	if b, ok := e.bindings.Lookup(ev); ok {
		b.Apply(ev.Value())
	}
}

// UpdateDisplay is the host's periodic tick
func (e *Engine) UpdateDisplay() {
	if e.refreshClips {
		e.ctrl.launch()
		e.refreshClips = false
	}
}

// BuildMap rebuilds every binding and listener, then pushes the full state
func (e *Engine) BuildMap() {
	e.rebuild.Run(e.build)
}

func (e *Engine) build() {
	e.trackSubs.CancelAll()
	e.bindings.Clear()
	e.cleared = nil

	if off, changed := e.window.Set(e.window.Offset(), len(e.ctrl.windowTracks())); changed {
		debug.Log("window", "reclamped to %d", off)
		e.ctrl.windowChanged()
	}

	e.slots = e.ctrl.slots()
	seen := make(map[session.Track]bool)
	for _, s := range e.slots {
		if s.Track == nil || seen[s.Track] {
			continue
		}
		seen[s.Track] = true
		e.observeTrack(s.Track, s.Caps)
	}
	e.ctrl.bind()

	e.cache.Reset()
	e.pushAll()
	debug.Log("rebuild", "generation %d: %d slots, %d bindings, %d listeners",
		e.bindings.Generation(), len(e.slots), e.bindings.Len(), e.trackSubs.Len())
}

// RefreshState re-sends everything, ignoring the cache
func (e *Engine) RefreshState() {
	e.cache.Reset()
	e.ctrl.refresh()
	e.pushAll()
}

func (e *Engine) pushAll() {
	e.ctrl.pushAll()
	for _, b := range e.bindings.All() {
		if b.Feedback {
			e.paramFeedback(b)
		}
	}
	for _, k := range e.cleared {
		key := Key{Attr: AttrParameter, Addr: Address{Channel: k.Channel, Strip: NoStrip}, Control: int(k.Control)}
		ch, control := k.Channel, k.Control
		e.cache.EmitIfChanged(key, 0, func(v int) [][]byte {
			return [][]byte{cc(ch, control, uint8(v))}
		})
	}
}

func (e *Engine) observeTrack(t session.Track, caps session.TrackCapabilities) {
	watch := func(attr session.Attribute, fn func()) {
		e.trackSubs.Add(t.Observe(attr, fn))
	}
	if caps.HasMute {
		watch(session.Mute, func() { e.ctrl.status(AttrMute) })
	}
	if caps.HasSolo {
		watch(session.Solo, func() { e.ctrl.status(AttrSolo) })
	}
	if caps.CanArm {
		watch(session.Arm, func() { e.ctrl.status(AttrArm) })
	}
	if caps.HasMonitor {
		watch(session.Monitor, func() { e.ctrl.status(AttrMonitor) })
	}
	if caps.HasPlayingSlot || t.IsFoldable() {
		watch(session.PlayingSlot, e.ctrl.launch)
	}
	e.trackSubs.Add(t.Mixer().Panning().Observe(func() { e.ctrl.status(AttrPanCentered) }))
}

// bind maps a CC to p for this generation and mirrors p back to the control
func (e *Engine) bind(channel, controller uint8, p session.Parameter, mode midi.Mode) {
	b := e.bindings.Bind(channel, controller, p, mode)
	if b == nil || !b.Feedback {
		return
	}
	e.trackSubs.Add(p.Observe(func() {
		if cur, ok := e.bindings.Get(channel, controller); ok && cur == b {
			e.paramFeedback(b)
		}
	}))
}

// clear zeroes a control that has nothing bound this generation
func (e *Engine) clear(channel, controller uint8) {
	e.cleared = append(e.cleared, BindingKey{Channel: channel, Kind: ControlCC, Control: controller})
}

func (e *Engine) paramFeedback(b *Binding) {
	key := Key{Attr: AttrParameter, Addr: Address{Channel: b.Key.Channel, Strip: NoStrip}, Control: int(b.Key.Control)}
	ch, control := b.Key.Channel, b.Key.Control
	e.cache.EmitIfChanged(key, int(scaleToMIDI(b.Param)), func(v int) [][]byte {
		return [][]byte{cc(ch, control, uint8(v))}
	})
}

func (e *Engine) onSceneSelected() {
	e.observeScene()
	e.refreshClips = true
	e.ctrl.sceneChanged()
}

// observeScene follows the clip slots of the selected scene
func (e *Engine) observeScene() {
	e.sceneSubs.CancelAll()
	sc := e.song.SelectedScene()
	if sc == nil {
		return
	}
	e.sceneSubs.Add(sc.ObserveClipSlots(func() {
		e.observeScene()
		e.refreshClips = true
	}))
	for _, slot := range sc.ClipSlots() {
		e.sceneSubs.Add(slot.ObserveHasClip(func() { e.refreshClips = true }))
	}
}

// LockToDevice pins the macro controls to d. A nil device is ignored.
func (e *Engine) LockToDevice(d session.Device) {
	if d == nil {
		debug.Log("lock", "ignored lock to nil device")
		return
	}
	e.locked = true
	e.device = d
	e.host.ShowMessage("Locked to " + d.Name())
	e.rebuild.Request("lock")
}

// UnlockFromDevice releases the lock if d is the locked device. A rebuild is
// requested either way.
func (e *Engine) UnlockFromDevice(d session.Device) {
	if d != nil && d == e.device {
		e.locked = false
		e.device = nil
		e.host.ShowMessage("Unlocked from " + d.Name())
	} else {
		debug.Log("lock", "unlock from a device that is not locked")
	}
	e.rebuild.Request("unlock")
}

// Locked returns the locked device, or nil
func (e *Engine) Locked() session.Device {
	if !e.locked {
		return nil
	}
	return e.device
}

// rack returns the device whose macros go on the macro controls for t
func (e *Engine) rack(t session.Track) session.Device {
	if e.locked && e.device != nil && e.device.IsRack() {
		return e.device
	}
	if t == nil {
		return nil
	}
	return session.FirstRack(t.Devices())
}

// setWindow moves the window and triggers a rebuild on change
func (e *Engine) setWindow(offset int) {
	off, changed := e.window.Set(offset, len(e.ctrl.windowTracks()))
	if !changed {
		return
	}
	debug.Log("window", "offset %d", off)
	e.ctrl.windowChanged()
	e.highlight()
	e.rebuild.Request("window")
}

func (e *Engine) scrollWindow(delta int) {
	e.setWindow(e.window.Offset() + delta)
}

func (e *Engine) highlight() {
	e.host.SetSessionHighlight(e.window.Offset(), session.SelectedSceneIndex(e.song), e.window.Size(), 1)
}

func (e *Engine) scrollScene(delta int) {
	scenes := e.song.Scenes()
	if len(scenes) == 0 {
		return
	}
	idx := midi.Clamp(session.SelectedSceneIndex(e.song)+delta, 0, len(scenes)-1)
	e.song.SetSelectedScene(scenes[idx])
}

// fireTrack fires t's slot on the selected scene row
func (e *Engine) fireTrack(t session.Track, pressed bool) {
	row := session.SelectedSceneIndex(e.song)
	slots := t.ClipSlots()
	if row >= len(slots) {
		return
	}
	slots[row].SetFireButtonState(pressed)
}

func (e *Engine) fireScene(pressed bool) {
	if sc := e.song.SelectedScene(); sc != nil {
		sc.SetFireButtonState(pressed)
	}
}

func (e *Engine) send(frame []byte) {
	e.host.SendMIDI(frame)
}

// slotAt returns the slot bound at address a
func (e *Engine) slotAt(a Address) (TrackSlot, bool) {
	for _, s := range e.slots {
		if s.Address == a {
			return s, true
		}
	}
	return TrackSlot{}, false
}

func slotKind(song session.Song, t session.Track) SlotKind {
	switch {
	case t == nil:
		return SlotEmpty
	case t == song.MasterTrack():
		return SlotMaster
	case session.IndexOfTrack(song.ReturnTracks(), t) >= 0:
		return SlotReturn
	case t.IsFoldable():
		return SlotFoldable
	}
	return SlotNormal
}

func (e *Engine) newSlot(idx int, role Role, t session.Track) TrackSlot {
	s := TrackSlot{
		Index:   idx,
		Role:    role,
		Address: e.addrs.Address(role),
		Kind:    slotKind(e.song, t),
		Track:   t,
	}
	if t != nil {
		s.Caps = t.Caps()
	}
	return s
}

// Class returns the controller class
func (e *Engine) Class() Class { return e.class }

// Slots returns the strips of the current generation
func (e *Engine) Slots() []TrackSlot { return append([]TrackSlot(nil), e.slots...) }

func (e *Engine) Window() *Window       { return e.window }
func (e *Engine) Bindings() *BindingSet { return e.bindings }
func (e *Engine) Cache() *Cache         { return e.cache }
func (e *Engine) Layout() *AddressMap   { return e.addrs }
func (e *Engine) Rebuilder() *Rebuilder { return e.rebuild }
func (e *Engine) RebuildPending() bool  { return e.rebuild.Pending() }
func (e *Engine) Listeners() int        { return e.trackSubs.Len() }
